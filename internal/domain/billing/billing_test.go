package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haulstack/tms/internal/domain/shared"
)

func TestInvoiceLifecycle(t *testing.T) {
	newInvoice := func(t *testing.T) *Invoice {
		t.Helper()
		inv, err := NewInvoice(uuid.New(), uuid.New(), uuid.New(), "INV-2026-014", decimal.NewFromInt(2400))
		require.NoError(t, err)
		return inv
	}

	t.Run("send sets due date from net term", func(t *testing.T) {
		inv := newInvoice(t)
		issued := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, inv.Send(issued, 30))
		assert.Equal(t, InvoiceStatusSent, inv.Status)
		require.NotNil(t, inv.DueAt)
		assert.Equal(t, issued.AddDate(0, 0, 30), *inv.DueAt)
	})

	t.Run("cannot pay a draft", func(t *testing.T) {
		inv := newInvoice(t)
		assert.ErrorIs(t, inv.MarkPaid(time.Now()), shared.ErrInvalidState)
	})

	t.Run("paid invoices cannot be voided", func(t *testing.T) {
		inv := newInvoice(t)
		require.NoError(t, inv.Send(time.Now(), 15))
		require.NoError(t, inv.MarkPaid(time.Now()))
		assert.ErrorIs(t, inv.Void(), shared.ErrInvalidState)
	})

	t.Run("overdue only after due date", func(t *testing.T) {
		inv := newInvoice(t)
		issued := time.Now().AddDate(0, 0, -45)
		require.NoError(t, inv.Send(issued, 30))
		assert.True(t, inv.Overdue(time.Now()))
		require.NoError(t, inv.MarkPaid(time.Now()))
		assert.False(t, inv.Overdue(time.Now()))
	})
}

func TestExpenseValidation(t *testing.T) {
	t.Run("rejects zero amount", func(t *testing.T) {
		_, err := NewExpense(uuid.New(), ExpenseCategoryTolls, decimal.Zero, time.Now())
		assert.Error(t, err)
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		_, err := NewExpense(uuid.New(), ExpenseCategory("snacks"), decimal.NewFromInt(10), time.Now())
		assert.Error(t, err)
	})

	t.Run("attaches receipt", func(t *testing.T) {
		exp, err := NewExpense(uuid.New(), ExpenseCategoryRepair, decimal.NewFromInt(850), time.Now())
		require.NoError(t, err)
		require.NoError(t, exp.AttachReceipt("receipts/2026/08/r1.pdf"))
		assert.Error(t, exp.AttachReceipt(""))
	})
}

func TestFuelEntryTotals(t *testing.T) {
	entry, err := NewFuelEntry(uuid.New(), time.Now(), decimal.NewFromFloat(120.5), decimal.NewFromFloat(3.899), "oh")
	require.NoError(t, err)
	assert.Equal(t, "OH", entry.State)
	assert.True(t, entry.Total.Equal(decimal.NewFromFloat(469.83)), entry.Total.String())

	_, err = NewFuelEntry(uuid.New(), time.Now(), decimal.Zero, decimal.NewFromInt(4), "OH")
	assert.Error(t, err)

	_, err = NewFuelEntry(uuid.New(), time.Now(), decimal.NewFromInt(100), decimal.NewFromInt(4), "Ohio")
	assert.Error(t, err)
}

func TestPayrollSettlement(t *testing.T) {
	start := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)

	newPayroll := func(t *testing.T) *Payroll {
		t.Helper()
		p, err := NewPayroll(uuid.New(), uuid.New(), start, end)
		require.NoError(t, err)
		return p
	}

	t.Run("rejects inverted period", func(t *testing.T) {
		_, err := NewPayroll(uuid.New(), uuid.New(), end, start)
		assert.Error(t, err)
	})

	t.Run("check amount tracks gross minus deductions", func(t *testing.T) {
		p := newPayroll(t)
		require.NoError(t, p.SetEarnings(4, 2100, decimal.NewFromFloat(1365.00)))
		require.NoError(t, p.SetDeductions(decimal.NewFromInt(200)))
		assert.True(t, p.CheckAmount.Equal(decimal.NewFromFloat(1165.00)), p.CheckAmount.String())
	})

	t.Run("deductions cannot exceed gross", func(t *testing.T) {
		p := newPayroll(t)
		require.NoError(t, p.SetEarnings(1, 500, decimal.NewFromInt(300)))
		assert.Error(t, p.SetDeductions(decimal.NewFromInt(400)))
	})

	t.Run("rate per mile", func(t *testing.T) {
		p := newPayroll(t)
		require.NoError(t, p.SetEarnings(4, 2100, decimal.NewFromFloat(1365.00)))
		assert.True(t, p.RatePerMile().Equal(decimal.NewFromFloat(0.65)), p.RatePerMile().String())
	})

	t.Run("zero miles yields zero rate", func(t *testing.T) {
		p := newPayroll(t)
		assert.True(t, p.RatePerMile().IsZero())
	})

	t.Run("approval locks edits", func(t *testing.T) {
		p := newPayroll(t)
		require.NoError(t, p.SetEarnings(2, 900, decimal.NewFromInt(600)))
		require.NoError(t, p.Approve())
		assert.ErrorIs(t, p.SetEarnings(3, 1000, decimal.NewFromInt(700)), shared.ErrInvalidState)
		assert.ErrorIs(t, p.SetDeductions(decimal.NewFromInt(50)), shared.ErrInvalidState)
	})

	t.Run("paid only after approval", func(t *testing.T) {
		p := newPayroll(t)
		assert.ErrorIs(t, p.MarkPaid(time.Now()), shared.ErrInvalidState)
		require.NoError(t, p.Approve())
		require.NoError(t, p.MarkPaid(time.Now()))
		assert.Equal(t, PayrollStatusPaid, p.Status)
	})
}
