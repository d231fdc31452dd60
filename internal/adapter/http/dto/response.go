package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/moneymanager/internal/domain"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	Version   int64           `json:"version"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:        a.ID,
		Name:      a.Name,
		Balance:   a.Balance,
		Version:   a.Version,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse represents a list of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// TransferResponse represents a transfer in API responses.
type TransferResponse struct {
	ID            string          `json:"id"`
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description,omitempty"`
	Date          time.Time       `json:"date"`
	CreatedAt     time.Time       `json:"created_at"`
}

// TransferFromDomain converts domain transfer to response.
func TransferFromDomain(t *domain.Transfer) *TransferResponse {
	return &TransferResponse{
		ID:            t.ID,
		FromAccountID: t.FromAccountID,
		ToAccountID:   t.ToAccountID,
		Amount:        t.Amount,
		Description:   t.Description,
		Date:          t.Date,
		CreatedAt:     t.CreatedAt,
	}
}

// TransfersFromDomain converts domain transfers to responses.
func TransfersFromDomain(transfers []*domain.Transfer) []*TransferResponse {
	result := make([]*TransferResponse, len(transfers))
	for i, t := range transfers {
		result[i] = TransferFromDomain(t)
	}
	return result
}

// ListTransfersResponse represents a list of transfers.
type ListTransfersResponse struct {
	Transfers []*TransferResponse `json:"transfers"`
	Total     int64               `json:"total"`
}

// TransactionResponse represents an income or expense record.
type TransactionResponse struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Division    string          `json:"division"`
	Description string          `json:"description,omitempty"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Editable    bool            `json:"editable"`
}

// TransactionFromDomain converts a domain transaction to response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:          t.ID,
		Type:        string(t.Type),
		Amount:      t.Amount,
		Category:    t.Category,
		Division:    string(t.Division),
		Description: t.Description,
		Date:        t.Date,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		Editable:    t.Editable,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(items []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(items))
	for i, t := range items {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// ListTransactionsResponse represents a list of transactions.
type ListTransactionsResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Total        int64                  `json:"total"`
}

// CategoryResponse represents a catalog entry.
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
	Icon string `json:"icon,omitempty"`
}

// CategoriesFromDomain converts domain categories to responses.
func CategoriesFromDomain(categories []*domain.Category) []*CategoryResponse {
	result := make([]*CategoryResponse, len(categories))
	for i, c := range categories {
		result[i] = CategoryFromDomain(c)
	}
	return result
}

// CategoryFromDomain converts a domain category to response.
func CategoryFromDomain(c *domain.Category) *CategoryResponse {
	return &CategoryResponse{ID: c.ID, Name: c.Name, Type: string(c.Type), Icon: c.Icon}
}

// InitializeCategoriesResponse reports how many defaults were seeded.
type InitializeCategoriesResponse struct {
	Created int `json:"created"`
}

// DashboardSummaryResponse totals one period.
type DashboardSummaryResponse struct {
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Balance      decimal.Decimal `json:"balance"`
	Period       string          `json:"period"`
	PeriodLabel  string          `json:"period_label"`
	Start        time.Time       `json:"start"`
	End          time.Time       `json:"end"`
}

// SummaryFromDomain converts a dashboard summary.
func SummaryFromDomain(s *domain.DashboardSummary) *DashboardSummaryResponse {
	return &DashboardSummaryResponse{
		TotalIncome:  s.TotalIncome,
		TotalExpense: s.TotalExpense,
		Balance:      s.Balance,
		Period:       string(s.Period),
		PeriodLabel:  s.PeriodLabel,
		Start:        s.Start,
		End:          s.End,
	}
}

// ChartResponse carries aligned chart series.
type ChartResponse struct {
	Period  string            `json:"period"`
	Year    int               `json:"year"`
	Labels  []string          `json:"labels"`
	Income  []decimal.Decimal `json:"income"`
	Expense []decimal.Decimal `json:"expense"`
}

// ChartFromDomain converts chart series.
func ChartFromDomain(c *domain.ChartSeries) *ChartResponse {
	return &ChartResponse{
		Period:  string(c.Kind),
		Year:    c.Year,
		Labels:  c.Labels,
		Income:  c.Income,
		Expense: c.Expense,
	}
}

// CategorySummaryResponse is one category's share.
type CategorySummaryResponse struct {
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage float64         `json:"percentage"`
}

// CategorySummariesFromDomain converts category summaries, keeping order.
func CategorySummariesFromDomain(items []domain.CategorySummary) []CategorySummaryResponse {
	result := make([]CategorySummaryResponse, len(items))
	for i, s := range items {
		result[i] = CategorySummaryResponse{Category: s.Category, Amount: s.Amount, Percentage: s.Percentage}
	}
	return result
}

// DivisionTotalsResponse are one division's sums.
type DivisionTotalsResponse struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// DivisionSummaryFromDomain keys the totals by division name.
func DivisionSummaryFromDomain(s domain.DivisionSummary) map[string]DivisionTotalsResponse {
	result := make(map[string]DivisionTotalsResponse, len(s))
	for division, totals := range s {
		result[string(division)] = DivisionTotalsResponse{
			Income:  totals.Income,
			Expense: totals.Expense,
			Balance: totals.Balance,
		}
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
