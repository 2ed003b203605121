package database

import (
	"context"
	"time"

	"go-cashflow/internal/models"

	"gorm.io/gorm"
)

// TimeRange is the half-open interval [From, To).
type TimeRange struct {
	From time.Time
	To   time.Time
}

// DayRange returns [start-of-day, start-of-next-day) for t's calendar day in loc,
// expressed in UTC.
func DayRange(t time.Time, loc *time.Location) TimeRange {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return TimeRange{From: start.UTC(), To: start.AddDate(0, 0, 1).UTC()}
}

// Scope narrows a query to a column range.
func (r TimeRange) Scope(column string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" >= ? AND "+column+" < ?", r.From, r.To)
	}
}

// TenantScope filters by tenant_id; zero means every tenant.
func TenantScope(tenantID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if tenantID == 0 {
			return db
		}
		return db.Where("tenant_id = ?", tenantID)
	}
}

// CountSales counts sale headers for a tenant within r.
func CountSales(ctx context.Context, db *gorm.DB, tenantID uint, r TimeRange) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&models.Sale{}).
		Scopes(TenantScope(tenantID), r.Scope("transaction_date")).
		Count(&count).Error
	return count, err
}

// CountVisitors counts arrivals, optionally within r.
func CountVisitors(ctx context.Context, db *gorm.DB, r *TimeRange) (int64, error) {
	var count int64
	q := db.WithContext(ctx).Model(&models.Visitor{})
	if r != nil {
		q = q.Scopes(r.Scope("arrival_time"))
	}
	err := q.Count(&count).Error
	return count, err
}

// CountTransactions counts ledger entries for a tenant.
func CountTransactions(ctx context.Context, db *gorm.DB, tenantID uint) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&models.Transaction{}).
		Scopes(TenantScope(tenantID)).
		Count(&count).Error
	return count, err
}
