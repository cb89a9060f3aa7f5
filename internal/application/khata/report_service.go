package khata

import (
	"context"

	"github.com/google/uuid"
	"github.com/khata/backend/internal/domain/ledger"
)

// ReportService serves read-only derived views over ledger entries. It
// never participates in the write path.
type ReportService struct {
	reports ledger.ReportRepository
}

// NewReportService creates a new ReportService
func NewReportService(reports ledger.ReportRepository) *ReportService {
	return &ReportService{reports: reports}
}

// MonthlySummary returns per-month totals of credit extended and payments
// received for one owner, oldest month first.
func (s *ReportService) MonthlySummary(ctx context.Context, ownerID uuid.UUID) ([]MonthlySummaryResponse, error) {
	totals, err := s.reports.MonthlySummary(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return ToMonthlySummaryResponses(totals), nil
}
