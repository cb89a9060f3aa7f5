package khata

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/khata/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockReportRepository is a mock implementation of ledger.ReportRepository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) MonthlySummary(ctx context.Context, ownerID uuid.UUID) ([]ledger.MonthlyTotal, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]ledger.MonthlyTotal), args.Error(1)
}

func TestReportService_MonthlySummary(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	reports := new(MockReportRepository)
	service := NewReportService(reports)

	reports.On("MonthlySummary", ctx, ownerID).Return([]ledger.MonthlyTotal{
		{Year: 2025, Month: time.January, Credit: decimal.NewFromInt(750), Paid: decimal.NewFromInt(300)},
		{Year: 2025, Month: time.February, Credit: decimal.Zero, Paid: decimal.NewFromInt(100)},
	}, nil)

	summary, err := service.MonthlySummary(ctx, ownerID)

	require.NoError(t, err)
	require.Len(t, summary, 2)
	assert.Equal(t, 2025, summary[0].Year)
	assert.Equal(t, 1, summary[0].Month)
	assert.True(t, summary[0].Credit.Equal(decimal.NewFromInt(750)))
	assert.True(t, summary[1].Paid.Equal(decimal.NewFromInt(100)))
}
