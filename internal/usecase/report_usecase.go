package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/moneymanager/internal/domain"
)

// ReportUseCase computes dashboard figures from recorded transactions.
// It never writes to the store.
type ReportUseCase struct {
	repo       TransactionRepository
	cache      ReportCache
	clock      Clock
	location   *time.Location
	weekFields domain.WeekFields
	logger     zerolog.Logger
}

// ReportDeps groups the collaborators of ReportUseCase.
type ReportDeps struct {
	Repo       TransactionRepository
	Cache      ReportCache // optional
	Clock      Clock
	Location   *time.Location
	WeekFields domain.WeekFields
	Logger     zerolog.Logger
}

// NewReportUseCase creates a new ReportUseCase.
func NewReportUseCase(deps ReportDeps) *ReportUseCase {
	uc := &ReportUseCase{
		repo:       deps.Repo,
		cache:      deps.Cache,
		clock:      deps.Clock,
		location:   deps.Location,
		weekFields: deps.WeekFields,
		logger:     deps.Logger,
	}
	if uc.clock == nil {
		uc.clock = SystemClock{}
	}
	if uc.location == nil {
		uc.location = time.UTC
	}
	if uc.weekFields.MinimalDays == 0 {
		uc.weekFields = domain.DefaultWeekFields
	}
	return uc
}

// Location is the time zone reports are computed in.
func (uc *ReportUseCase) Location() *time.Location { return uc.location }

// Now returns the current time in the reporting location.
func (uc *ReportUseCase) Now() time.Time { return uc.clock.Now().In(uc.location) }

// Summary totals income and expense for the period of the given kind containing ref.
func (uc *ReportUseCase) Summary(ctx context.Context, kind domain.PeriodKind, ref time.Time) (*domain.DashboardSummary, error) {
	period := domain.ResolvePeriod(kind, ref.In(uc.location), uc.weekFields)
	key := fmt.Sprintf("summary:%s:%d", period.Kind, period.Start.Unix())

	return cached(ctx, uc, key, func() (*domain.DashboardSummary, error) {
		items, err := uc.inRange(ctx, period.Range(), nil)
		if err != nil {
			return nil, err
		}

		income, expense := sumByType(items)
		return &domain.DashboardSummary{
			TotalIncome:  income,
			TotalExpense: expense,
			Balance:      income.Sub(expense),
			Period:       period.Kind,
			PeriodLabel:  period.Label,
			Start:        period.Start,
			End:          period.End,
		}, nil
	})
}

// Chart builds the per-bucket income and expense series for year.
func (uc *ReportUseCase) Chart(ctx context.Context, kind domain.PeriodKind, year int) (*domain.ChartSeries, error) {
	if year < 1 || year > 9999 {
		return nil, fmt.Errorf("%w: year %d out of range", domain.ErrInvalidInput, year)
	}
	kind = domain.ParsePeriodKind(string(kind))
	key := fmt.Sprintf("chart:%s:%d", kind, year)

	return cached(ctx, uc, key, func() (*domain.ChartSeries, error) {
		buckets := domain.ChartBuckets(kind, year, uc.location, uc.weekFields)

		items, err := uc.inRange(ctx, domain.Span(buckets), nil)
		if err != nil {
			return nil, err
		}

		series := &domain.ChartSeries{
			Kind:    kind,
			Year:    year,
			Labels:  make([]string, len(buckets)),
			Income:  make([]decimal.Decimal, len(buckets)),
			Expense: make([]decimal.Decimal, len(buckets)),
		}
		for i, b := range buckets {
			series.Labels[i] = b.Label
			income, expense := decimal.Zero, decimal.Zero
			for _, t := range items {
				if !b.Range.Contains(t.Date) {
					continue
				}
				switch t.Type {
				case domain.TransactionTypeIncome:
					income = income.Add(t.Amount)
				case domain.TransactionTypeExpense:
					expense = expense.Add(t.Amount)
				}
			}
			series.Income[i] = income
			series.Expense[i] = expense
		}
		return series, nil
	})
}

// CategorySummary groups transactions of one type by category, largest first.
// Percentages are zero when the total is zero.
func (uc *ReportUseCase) CategorySummary(ctx context.Context, r domain.DateRange, txType domain.TransactionType) ([]domain.CategorySummary, error) {
	if err := validateRange(r); err != nil {
		return nil, err
	}
	key := fmt.Sprintf("category:%s:%d:%d", txType, r.Start.Unix(), r.End.Unix())

	return cached(ctx, uc, key, func() ([]domain.CategorySummary, error) {
		items, err := uc.inRange(ctx, r, &txType)
		if err != nil {
			return nil, err
		}

		totals := make(map[string]decimal.Decimal)
		total := decimal.Zero
		for _, t := range items {
			totals[t.Category] = totals[t.Category].Add(t.Amount)
			total = total.Add(t.Amount)
		}

		result := make([]domain.CategorySummary, 0, len(totals))
		hundred := decimal.NewFromInt(100)
		for name, amount := range totals {
			pct := 0.0
			if total.IsPositive() {
				pct = amount.Mul(hundred).Div(total).InexactFloat64()
			}
			result = append(result, domain.CategorySummary{Category: name, Amount: amount, Percentage: pct})
		}

		sort.Slice(result, func(i, j int) bool {
			if c := result[i].Amount.Cmp(result[j].Amount); c != 0 {
				return c > 0
			}
			return result[i].Category < result[j].Category
		})
		return result, nil
	})
}

// DivisionSummary totals income and expense per division. Every division is present.
func (uc *ReportUseCase) DivisionSummary(ctx context.Context, r domain.DateRange) (domain.DivisionSummary, error) {
	if err := validateRange(r); err != nil {
		return nil, err
	}
	key := fmt.Sprintf("division:%d:%d", r.Start.Unix(), r.End.Unix())

	return cached(ctx, uc, key, func() (domain.DivisionSummary, error) {
		items, err := uc.inRange(ctx, r, nil)
		if err != nil {
			return nil, err
		}

		summary := make(domain.DivisionSummary, len(domain.Divisions))
		for _, d := range domain.Divisions {
			summary[d] = domain.DivisionTotals{Income: decimal.Zero, Expense: decimal.Zero, Balance: decimal.Zero}
		}
		for _, t := range items {
			totals, ok := summary[t.Division]
			if !ok {
				continue
			}
			switch t.Type {
			case domain.TransactionTypeIncome:
				totals.Income = totals.Income.Add(t.Amount)
			case domain.TransactionTypeExpense:
				totals.Expense = totals.Expense.Add(t.Amount)
			}
			totals.Balance = totals.Income.Sub(totals.Expense)
			summary[t.Division] = totals
		}
		return summary, nil
	})
}

// CurrentMonth is the default range for category and division summaries.
func (uc *ReportUseCase) CurrentMonth() domain.DateRange {
	return domain.ResolvePeriod(domain.PeriodMonthly, uc.Now(), uc.weekFields).Range()
}

func (uc *ReportUseCase) inRange(ctx context.Context, r domain.DateRange, txType *domain.TransactionType) ([]*domain.Transaction, error) {
	start, end := r.Start, r.End
	items, err := uc.repo.List(ctx, domain.TransactionFilter{Start: &start, End: &end, Type: txType})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return items, nil
}

func sumByType(items []*domain.Transaction) (income, expense decimal.Decimal) {
	income, expense = decimal.Zero, decimal.Zero
	for _, t := range items {
		switch t.Type {
		case domain.TransactionTypeIncome:
			income = income.Add(t.Amount)
		case domain.TransactionTypeExpense:
			expense = expense.Add(t.Amount)
		}
	}
	return income, expense
}

func validateRange(r domain.DateRange) error {
	if r.End.Before(r.Start) {
		return fmt.Errorf("%w: end date before start date", domain.ErrInvalidInput)
	}
	return nil
}

// cached serves key from the report cache or computes and stores it.
// Cache failures are logged and otherwise ignored.
func cached[T any](ctx context.Context, uc *ReportUseCase, key string, compute func() (T, error)) (T, error) {
	if uc.cache == nil {
		return compute()
	}

	raw, gen, ok, err := uc.cache.Get(ctx, key)
	if err != nil {
		// Without a generation there is nowhere safe to store the result.
		uc.logger.Warn().Err(err).Str("key", key).Msg("report cache read failed")
		return compute()
	}
	if ok {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, nil
		}
		uc.logger.Warn().Str("key", key).Msg("discarding undecodable cached report")
	}

	v, err := compute()
	if err != nil {
		return v, err
	}

	if raw, err := json.Marshal(v); err != nil {
		uc.logger.Warn().Err(err).Str("key", key).Msg("report encode failed")
	} else if err := uc.cache.Set(ctx, key, gen, raw); err != nil {
		uc.logger.Warn().Err(err).Str("key", key).Msg("report cache write failed")
	}
	return v, nil
}
