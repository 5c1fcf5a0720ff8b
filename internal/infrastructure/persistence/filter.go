package persistence

import (
	"gorm.io/gorm"

	"github.com/haulstack/tms/internal/domain/shared"
)

// orderableColumns whitelists columns that list endpoints may sort by.
// Anything else falls back to created_at to keep ORDER BY uninjectable.
var orderableColumns = map[string]bool{
	"created_at":     true,
	"updated_at":     true,
	"name":           true,
	"email":          true,
	"status":         true,
	"load_number":    true,
	"invoice_number": true,
	"truck_number":   true,
	"rate":           true,
	"amount":         true,
	"miles":          true,
	"pickup_date":    true,
	"delivery_date":  true,
	"incurred_at":    true,
	"purchased_at":   true,
	"period_start":   true,
	"due_at":         true,
	"last_name":      true,
}

// paginate returns a GORM scope applying ordering and pagination from a filter
func paginate(filter shared.Filter) func(db *gorm.DB) *gorm.DB {
	f := filter.Normalize()

	column := f.OrderBy
	if !orderableColumns[column] {
		column = "created_at"
	}
	dir := "DESC"
	if f.OrderDir == "asc" {
		dir = "ASC"
	}

	return func(db *gorm.DB) *gorm.DB {
		return db.Order(column + " " + dir).
			Offset(f.Offset()).
			Limit(f.PageSize)
	}
}
