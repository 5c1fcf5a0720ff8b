// Package pdf renders freight invoices to PDF using Maroto v2.
//
// A4 layout:
//
//	┌──────────────────────────────────────────────────────────┐
//	│  HEADER: carrier name + MC/DOT  │  invoice # + dates     │
//	│  ──────────────────────────────────────────────────────  │
//	│  BILL TO: customer name + contact                        │
//	│  ──────────────────────────────────────────────────────  │
//	│  LOAD: number | lane | miles | reference                 │
//	│  ──────────────────────────────────────────────────────  │
//	│  TOTAL DUE + payment terms                               │
//	└──────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/haulstack/tms/internal/domain/billing"
	"github.com/haulstack/tms/internal/domain/freight"
	"github.com/haulstack/tms/internal/domain/identity"
	"github.com/haulstack/tms/internal/domain/partner"
)

var (
	colorPrimary = &props.Color{Red: 14, Green: 60, Blue: 110}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// InvoiceRenderer renders an invoice document.
type InvoiceRenderer interface {
	Render(ctx context.Context, invoice *billing.Invoice, company *identity.Company, customer *partner.Customer, load *freight.Load) ([]byte, error)
}

var _ InvoiceRenderer = (*MarotoInvoiceRenderer)(nil)

// MarotoInvoiceRenderer implements InvoiceRenderer using Maroto v2.
type MarotoInvoiceRenderer struct{}

// NewMarotoInvoiceRenderer constructs the renderer.
func NewMarotoInvoiceRenderer() *MarotoInvoiceRenderer { return &MarotoInvoiceRenderer{} }

// Render produces the PDF bytes for a freight invoice.
func (g *MarotoInvoiceRenderer) Render(
	_ context.Context,
	invoice *billing.Invoice,
	company *identity.Company,
	customer *partner.Customer,
	load *freight.Load,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Invoice "+invoice.InvoiceNumber, true).
		WithAuthor(company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(invoice, company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(billToRow(customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(loadHeaderRow())
	m.AddRows(loadDetailRow(load))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(invoice, customer))
	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(company))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate invoice: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(invoice *billing.Invoice, company *identity.Company) core.Row {
	issued := "—"
	if invoice.IssuedAt != nil {
		issued = invoice.IssuedAt.Format("01/02/2006")
	}
	due := "—"
	if invoice.DueAt != nil {
		due = invoice.DueAt.Format("01/02/2006")
	}

	authority := ""
	if company.MCNumber != "" {
		authority = "MC " + company.MCNumber
	}
	if company.DOTNumber != "" {
		if authority != "" {
			authority += "   "
		}
		authority += "DOT " + company.DOTNumber
	}

	return row.New(20).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(authority, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
			text.New(nonEmpty(company.Phone, ""), props.Text{
				Size: 8, Top: 15, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("FREIGHT INVOICE", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(invoice.InvoiceNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Issued: "+issued+"   Due: "+due, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func billToRow(customer *partner.Customer) core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New("BILL TO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(customer.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Contact: %s   |   Email: %s   |   Phone: %s",
				nonEmpty(customer.ContactName, "—"),
				nonEmpty(customer.Email, "—"),
				nonEmpty(customer.Phone, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func loadHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Load #", 2, align.Left),
		h("Lane", 5, align.Left),
		h("Miles", 1, align.Right),
		h("Reference", 2, align.Left),
		h("Amount", 2, align.Right),
	)
}

func loadDetailRow(load *freight.Load) core.Row {
	lane := fmt.Sprintf("%s, %s → %s, %s",
		load.OriginCity, load.OriginState, load.DestCity, load.DestState)

	return row.New(7).Add(
		col.New(2).Add(text.New(load.LoadNumber,
			props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(5).Add(text.New(lane,
			props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(1).Add(text.New(fmt.Sprintf("%d", load.Miles),
			props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		col.New(2).Add(text.New(nonEmpty(load.ReferenceNum, "—"),
			props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(2).Add(text.New("$"+load.TotalAmount().StringFixed(2),
			props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
	)
}

func totalsRow(invoice *billing.Invoice, customer *partner.Customer) core.Row {
	terms := fmt.Sprintf("Net %d", customer.PaymentTerm)

	return row.New(18).Add(
		col.New(6).Add(
			text.New("Payment terms: "+terms, props.Text{
				Size: 8, Top: 8, Color: colorGray,
			}),
		),
		col.New(3).Add(
			text.New("TOTAL DUE:", props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right,
				Color: colorPrimary, Top: 6, Right: 2,
			}),
		),
		col.New(3).Add(
			text.New("$"+invoice.Amount.StringFixed(2), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right,
				Color: colorPrimary, Top: 6, Right: 1,
			}),
		),
	)
}

func footerRow(company *identity.Company) core.Row {
	remit := company.Name
	if company.Address != "" {
		remit += "  |  " + company.Address
		if company.City != "" {
			remit += ", " + company.City + ", " + company.State + " " + company.ZipCode
		}
	}

	return row.New(10).Add(col.New(12).Add(
		text.New("Remit payment to: "+remit, props.Text{
			Size: 7, Color: colorGray, Top: 2,
		}),
		text.New("Thank you for your business.", props.Text{
			Size: 7, Color: colorGray, Top: 6,
		}),
	))
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
