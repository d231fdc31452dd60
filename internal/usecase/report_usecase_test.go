package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/moneymanager/internal/domain"
	"github.com/iho/moneymanager/internal/usecase"
	"github.com/iho/moneymanager/internal/usecase/mocks"
)

func tx(id string, typ domain.TransactionType, amount int64, category string, division domain.Division, date time.Time) *domain.Transaction {
	return &domain.Transaction{
		ID:        id,
		Type:      typ,
		Amount:    decimal.NewFromInt(amount),
		Category:  category,
		Division:  division,
		Date:      date,
		CreatedAt: date,
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func newReportUseCase(repo usecase.TransactionRepository, cache usecase.ReportCache) *usecase.ReportUseCase {
	return usecase.NewReportUseCase(usecase.ReportDeps{
		Repo:   repo,
		Cache:  cache,
		Clock:  mocks.NewMockClock(day(2024, time.February, 15)),
		Logger: zerolog.Nop(),
	})
}

func februaryRepo() *mocks.MockTransactionRepository {
	repo := mocks.NewMockTransactionRepository()
	repo.Seed(
		tx("1", domain.TransactionTypeIncome, 500, "salary", domain.DivisionOffice, day(2024, time.February, 1)),
		tx("2", domain.TransactionTypeExpense, 120, "food", domain.DivisionPersonal, day(2024, time.February, 10)),
		tx("3", domain.TransactionTypeExpense, 999, "rent", domain.DivisionPersonal, day(2024, time.March, 1)),
	)
	return repo
}

func TestReportUseCase_MonthlySummary(t *testing.T) {
	uc := newReportUseCase(februaryRepo(), nil)

	summary, err := uc.Summary(context.Background(), domain.PeriodMonthly, day(2024, time.February, 15))
	require.NoError(t, err)

	assert.True(t, summary.TotalIncome.Equal(decimal.NewFromInt(500)))
	assert.True(t, summary.TotalExpense.Equal(decimal.NewFromInt(120)))
	assert.True(t, summary.Balance.Equal(decimal.NewFromInt(380)))
	assert.Equal(t, "February 2024", summary.PeriodLabel)
	assert.Equal(t, domain.PeriodMonthly, summary.Period)
}

func TestReportUseCase_SummaryPeriods(t *testing.T) {
	uc := newReportUseCase(februaryRepo(), nil)

	yearly, err := uc.Summary(context.Background(), domain.PeriodYearly, day(2024, time.June, 1))
	require.NoError(t, err)
	assert.True(t, yearly.TotalExpense.Equal(decimal.NewFromInt(1119)))
	assert.Equal(t, "2024", yearly.PeriodLabel)

	// Feb 10 2024 is a Saturday; the Sunday-based week starts Feb 4.
	weekly, err := uc.Summary(context.Background(), domain.PeriodWeekly, day(2024, time.February, 10))
	require.NoError(t, err)
	assert.Equal(t, "Week of Feb 04, 2024", weekly.PeriodLabel)
	assert.True(t, weekly.TotalIncome.IsZero())
	assert.True(t, weekly.TotalExpense.Equal(decimal.NewFromInt(120)))

	empty, err := uc.Summary(context.Background(), domain.PeriodMonthly, day(2023, time.July, 4))
	require.NoError(t, err)
	assert.True(t, empty.Balance.IsZero())
}

func TestReportUseCase_MonthlyChart(t *testing.T) {
	uc := newReportUseCase(februaryRepo(), nil)

	series, err := uc.Chart(context.Background(), domain.PeriodMonthly, 2024)
	require.NoError(t, err)

	require.Len(t, series.Labels, 12)
	require.Len(t, series.Income, 12)
	require.Len(t, series.Expense, 12)
	assert.Equal(t, "Feb", series.Labels[1])
	assert.True(t, series.Income[1].Equal(decimal.NewFromInt(500)))
	assert.True(t, series.Expense[1].Equal(decimal.NewFromInt(120)))
	assert.True(t, series.Expense[2].Equal(decimal.NewFromInt(999)))
	assert.True(t, series.Income[0].IsZero())
}

func TestReportUseCase_WeeklyAndYearlyChart(t *testing.T) {
	repo := mocks.NewMockTransactionRepository()
	repo.Seed(
		tx("a", domain.TransactionTypeIncome, 10, "gift", domain.DivisionPersonal, day(2024, time.January, 3)),
		tx("b", domain.TransactionTypeExpense, 7, "food", domain.DivisionPersonal, day(2021, time.May, 5)),
	)
	uc := newReportUseCase(repo, nil)

	weekly, err := uc.Chart(context.Background(), domain.PeriodWeekly, 2024)
	require.NoError(t, err)
	require.Len(t, weekly.Labels, domain.ChartWeeks)
	assert.Equal(t, "Week 1", weekly.Labels[0])
	assert.True(t, weekly.Income[0].Equal(decimal.NewFromInt(10)))

	yearly, err := uc.Chart(context.Background(), domain.PeriodYearly, 2024)
	require.NoError(t, err)
	assert.Equal(t, []string{"2020", "2021", "2022", "2023", "2024"}, yearly.Labels)
	assert.True(t, yearly.Expense[1].Equal(decimal.NewFromInt(7)))
	assert.True(t, yearly.Income[4].Equal(decimal.NewFromInt(10)))

	_, err = uc.Chart(context.Background(), domain.PeriodYearly, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReportUseCase_CategorySummary(t *testing.T) {
	repo := mocks.NewMockTransactionRepository()
	repo.Seed(
		tx("1", domain.TransactionTypeExpense, 50, "food", domain.DivisionPersonal, day(2024, time.March, 2)),
		tx("2", domain.TransactionTypeExpense, 50, "fuel", domain.DivisionOffice, day(2024, time.March, 3)),
		tx("3", domain.TransactionTypeIncome, 1000, "salary", domain.DivisionOffice, day(2024, time.March, 4)),
	)
	uc := newReportUseCase(repo, nil)
	march := domain.DateRange{Start: domain.MonthStart(2024, time.March, time.UTC), End: domain.MonthEnd(2024, time.March, time.UTC)}

	got, err := uc.CategorySummary(context.Background(), march, domain.TransactionTypeExpense)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "food", got[0].Category)
	assert.Equal(t, "fuel", got[1].Category)
	assert.InDelta(t, 50.0, got[0].Percentage, 1e-9)
	assert.InDelta(t, 50.0, got[1].Percentage, 1e-9)

	var total float64
	for _, c := range got {
		total += c.Percentage
	}
	assert.InDelta(t, 100.0, total, 0.01)
}

func TestReportUseCase_CategorySummaryOrdering(t *testing.T) {
	repo := mocks.NewMockTransactionRepository()
	repo.Seed(
		tx("1", domain.TransactionTypeExpense, 10, "movie", domain.DivisionPersonal, day(2024, time.March, 2)),
		tx("2", domain.TransactionTypeExpense, 70, "rent", domain.DivisionPersonal, day(2024, time.March, 3)),
		tx("3", domain.TransactionTypeExpense, 20, "food", domain.DivisionPersonal, day(2024, time.March, 4)),
	)
	uc := newReportUseCase(repo, nil)
	march := domain.DateRange{Start: domain.MonthStart(2024, time.March, time.UTC), End: domain.MonthEnd(2024, time.March, time.UTC)}

	got, err := uc.CategorySummary(context.Background(), march, domain.TransactionTypeExpense)
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, []string{"rent", "food", "movie"}, []string{got[0].Category, got[1].Category, got[2].Category})
	assert.InDelta(t, 70.0, got[0].Percentage, 1e-9)

	empty, err := uc.CategorySummary(context.Background(), march, domain.TransactionTypeIncome)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = uc.CategorySummary(context.Background(), domain.DateRange{Start: march.End, End: march.Start}, domain.TransactionTypeExpense)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReportUseCase_DivisionSummary(t *testing.T) {
	repo := mocks.NewMockTransactionRepository()
	repo.Seed(
		tx("1", domain.TransactionTypeIncome, 300, "salary", domain.DivisionOffice, day(2024, time.April, 2)),
		tx("2", domain.TransactionTypeExpense, 100, "fuel", domain.DivisionOffice, day(2024, time.April, 3)),
	)
	uc := newReportUseCase(repo, nil)
	april := domain.DateRange{Start: domain.MonthStart(2024, time.April, time.UTC), End: domain.MonthEnd(2024, time.April, time.UTC)}

	got, err := uc.DivisionSummary(context.Background(), april)
	require.NoError(t, err)

	require.Len(t, got, 2)
	office := got[domain.DivisionOffice]
	assert.True(t, office.Income.Equal(decimal.NewFromInt(300)))
	assert.True(t, office.Expense.Equal(decimal.NewFromInt(100)))
	assert.True(t, office.Balance.Equal(decimal.NewFromInt(200)))

	personal, ok := got[domain.DivisionPersonal]
	require.True(t, ok, "divisions without activity are still reported")
	assert.True(t, personal.Balance.IsZero())
}

func TestReportUseCase_CurrentMonth(t *testing.T) {
	uc := newReportUseCase(mocks.NewMockTransactionRepository(), nil)

	r := uc.CurrentMonth()
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), r.Start)
	assert.Equal(t, time.Date(2024, time.February, 29, 23, 59, 59, 0, time.UTC), r.End)
}

func TestReportUseCase_ServesFromCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockReportCache(ctrl)

	repo := februaryRepo()
	listed := 0
	repo.ListFunc = func(ctx context.Context, f domain.TransactionFilter) ([]*domain.Transaction, error) {
		listed++
		return []*domain.Transaction{
			tx("1", domain.TransactionTypeIncome, 500, "salary", domain.DivisionOffice, day(2024, time.February, 1)),
		}, nil
	}
	uc := newReportUseCase(repo, cache)

	var stored []byte
	gomock.InOrder(
		cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, int64(4), false, nil),
		cache.EXPECT().Set(gomock.Any(), gomock.Any(), int64(4), gomock.Any()).DoAndReturn(func(_ context.Context, _ string, _ int64, v []byte) error {
			stored = v
			return nil
		}),
		cache.EXPECT().Get(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, string) ([]byte, int64, bool, error) {
			return stored, 4, true, nil
		}),
	)

	first, err := uc.Summary(context.Background(), domain.PeriodMonthly, day(2024, time.February, 15))
	require.NoError(t, err)
	second, err := uc.Summary(context.Background(), domain.PeriodMonthly, day(2024, time.February, 15))
	require.NoError(t, err)

	assert.Equal(t, 1, listed)
	assert.True(t, first.TotalIncome.Equal(second.TotalIncome))
	assert.Equal(t, first.PeriodLabel, second.PeriodLabel)
}

func TestReportUseCase_CacheErrorsAreBypassed(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockReportCache(ctrl)
	cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, int64(0), false, errors.New("connection refused"))

	uc := newReportUseCase(februaryRepo(), cache)

	summary, err := uc.Summary(context.Background(), domain.PeriodMonthly, day(2024, time.February, 15))
	require.NoError(t, err)
	assert.True(t, summary.Balance.Equal(decimal.NewFromInt(380)))
}

func TestReportUseCase_CacheWriteErrorsAreIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockReportCache(ctrl)
	cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, int64(2), false, nil)
	cache.EXPECT().Set(gomock.Any(), gomock.Any(), int64(2), gomock.Any()).Return(errors.New("connection refused"))

	uc := newReportUseCase(februaryRepo(), cache)

	summary, err := uc.Summary(context.Background(), domain.PeriodMonthly, day(2024, time.February, 15))
	require.NoError(t, err)
	assert.True(t, summary.Balance.Equal(decimal.NewFromInt(380)))
}
