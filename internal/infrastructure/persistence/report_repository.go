package persistence

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/khata/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReportRepository implements ledger.ReportRepository using GORM.
// Queries here are read-only and may run at weaker isolation; they never
// feed back into balance computation.
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// MonthlySummary aggregates an owner's ledger entries per calendar month:
// total credit extended and total payments received, oldest month first.
// Amounts are reported as unsigned magnitudes. Month bucketing happens in
// Go so the query stays portable across postgres and the sqlite used in
// tests.
func (r *GormReportRepository) MonthlySummary(ctx context.Context, ownerID uuid.UUID) ([]ledger.MonthlyTotal, error) {
	type entryRow struct {
		Amount     decimal.Decimal
		OccurredAt time.Time
	}

	var rows []entryRow
	if err := r.db.WithContext(ctx).
		Table("ledger_entries le").
		Select("le.amount, le.occurred_at").
		Joins("JOIN customer_accounts ca ON ca.id = le.account_id").
		Where("ca.owner_id = ?", ownerID).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	type monthKey struct {
		year  int
		month time.Month
	}
	buckets := make(map[monthKey]*ledger.MonthlyTotal)
	for _, row := range rows {
		key := monthKey{year: row.OccurredAt.Year(), month: row.OccurredAt.Month()}
		total, ok := buckets[key]
		if !ok {
			total = &ledger.MonthlyTotal{
				Year:   key.year,
				Month:  key.month,
				Credit: decimal.Zero,
				Paid:   decimal.Zero,
			}
			buckets[key] = total
		}
		if row.Amount.IsNegative() {
			total.Paid = total.Paid.Add(row.Amount.Abs())
		} else {
			total.Credit = total.Credit.Add(row.Amount)
		}
	}

	totals := make([]ledger.MonthlyTotal, 0, len(buckets))
	for _, total := range buckets {
		totals = append(totals, *total)
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Year != totals[j].Year {
			return totals[i].Year < totals[j].Year
		}
		return totals[i].Month < totals[j].Month
	})
	return totals, nil
}

// Ensure GormReportRepository implements ReportRepository
var _ ledger.ReportRepository = (*GormReportRepository)(nil)
