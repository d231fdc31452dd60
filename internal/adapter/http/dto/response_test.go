package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/moneymanager/internal/domain"
)

func TestAccountResponseEncodesAmountsAsStrings(t *testing.T) {
	now := time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)
	resp := AccountFromDomain(&domain.Account{
		ID:        "acc-1",
		Name:      "Main",
		Balance:   decimal.RequireFromString("123.45"),
		Version:   2,
		CreatedAt: now,
		UpdatedAt: now,
	})

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"balance":"123.45"`)
	assert.Contains(t, string(raw), `"created_at":"2024-02-01T08:00:00Z"`)
}

func TestTransactionFromDomainCarriesEditable(t *testing.T) {
	resp := TransactionFromDomain(&domain.Transaction{
		ID:       "t1",
		Type:     domain.TransactionTypeIncome,
		Amount:   decimal.NewFromInt(500),
		Category: "salary",
		Division: domain.DivisionOffice,
		Editable: true,
	})

	assert.Equal(t, "INCOME", resp.Type)
	assert.Equal(t, "OFFICE", resp.Division)
	assert.True(t, resp.Editable)
}

func TestDivisionSummaryFromDomain(t *testing.T) {
	resp := DivisionSummaryFromDomain(domain.DivisionSummary{
		domain.DivisionOffice:   {Income: decimal.NewFromInt(10), Expense: decimal.NewFromInt(4), Balance: decimal.NewFromInt(6)},
		domain.DivisionPersonal: {Income: decimal.Zero, Expense: decimal.Zero, Balance: decimal.Zero},
	})

	require.Len(t, resp, 2)
	assert.Equal(t, "6", resp["OFFICE"].Balance.String())
	assert.True(t, resp["PERSONAL"].Income.IsZero())
}

func TestCategorySummariesKeepOrder(t *testing.T) {
	resp := CategorySummariesFromDomain([]domain.CategorySummary{
		{Category: "rent", Amount: decimal.NewFromInt(70), Percentage: 70},
		{Category: "food", Amount: decimal.NewFromInt(30), Percentage: 30},
	})

	require.Len(t, resp, 2)
	assert.Equal(t, "rent", resp[0].Category)
	assert.Equal(t, "food", resp[1].Category)
}
