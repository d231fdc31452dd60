package domain

import "strings"

// CategoryType tells which transaction types a category applies to.
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "INCOME"
	CategoryTypeExpense CategoryType = "EXPENSE"
	CategoryTypeBoth    CategoryType = "BOTH"
)

// ParseCategoryType matches a token case-insensitively.
func ParseCategoryType(s string) (CategoryType, error) {
	t := CategoryType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case CategoryTypeIncome, CategoryTypeExpense, CategoryTypeBoth:
		return t, nil
	default:
		return "", ErrInvalidCategoryType
	}
}

// Category is a catalog entry that transactions reference informally by name.
type Category struct {
	ID   string
	Name string
	Type CategoryType
	Icon string
}

// Validate checks the catalog entry.
func (c *Category) Validate() error {
	if err := ValidateCategoryName(c.Name); err != nil {
		return err
	}
	_, err := ParseCategoryType(string(c.Type))
	return err
}

// DefaultCategories is the catalog seeded into an empty store.
func DefaultCategories() []Category {
	return []Category{
		{Name: "salary", Type: CategoryTypeIncome, Icon: "💰"},
		{Name: "freelance", Type: CategoryTypeIncome, Icon: "💼"},
		{Name: "investment", Type: CategoryTypeIncome, Icon: "📈"},
		{Name: "gift", Type: CategoryTypeIncome, Icon: "🎁"},
		{Name: "other-income", Type: CategoryTypeIncome, Icon: "💵"},
		{Name: "fuel", Type: CategoryTypeBoth, Icon: "⛽"},
		{Name: "food", Type: CategoryTypeExpense, Icon: "🍔"},
		{Name: "movie", Type: CategoryTypeExpense, Icon: "🎬"},
		{Name: "medical", Type: CategoryTypeExpense, Icon: "🏥"},
		{Name: "loan", Type: CategoryTypeExpense, Icon: "🏦"},
		{Name: "rent", Type: CategoryTypeExpense, Icon: "🏠"},
		{Name: "utilities", Type: CategoryTypeExpense, Icon: "💡"},
		{Name: "shopping", Type: CategoryTypeExpense, Icon: "🛍️"},
		{Name: "transportation", Type: CategoryTypeExpense, Icon: "🚗"},
		{Name: "entertainment", Type: CategoryTypeExpense, Icon: "🎮"},
		{Name: "education", Type: CategoryTypeExpense, Icon: "📚"},
		{Name: "other-expense", Type: CategoryTypeExpense, Icon: "💳"},
	}
}
