// Package model defines the finance records spendwise stores and the summaries derived from them.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is reference data attached to every expense.
type Category struct {
	ID    string `json:"id" validate:"required"`
	Name  string `json:"name" validate:"required,max=40"`
	Emoji string `json:"emoji"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
	Icon  Icon   `json:"icon" validate:"icon"`
}

// Expense is a single logged purchase. Category is a snapshot taken when the
// expense was saved, so renaming a category does not rewrite history.
type Expense struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount" validate:"gt=0"`
	Description string          `json:"description" validate:"required,max=200"`
	Category    Category        `json:"category"`
	Date        time.Time       `json:"date" validate:"required"`
	Note        string          `json:"note,omitempty" validate:"max=500"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Achievement is a gamification milestone. UnlockedAt is nil while locked.
type Achievement struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	UnlockedAt  *time.Time `json:"unlocked_at,omitempty"`
}

// Unlocked reports whether the achievement has been earned.
func (a Achievement) Unlocked() bool {
	return a.UnlockedAt != nil
}

// DefaultCategories returns the built-in category set seeded into a new store.
func DefaultCategories() []Category {
	return []Category{
		{ID: "food", Name: "Food & Dining", Emoji: "🍔", Color: "#FF6B6B", Icon: IconFood},
		{ID: "transport", Name: "Transport", Emoji: "🚗", Color: "#4ECDC4", Icon: IconTransport},
		{ID: "shopping", Name: "Shopping", Emoji: "🛍️", Color: "#45B7D1", Icon: IconShopping},
		{ID: "entertainment", Name: "Entertainment", Emoji: "🎬", Color: "#96CEB4", Icon: IconEntertainment},
		{ID: "bills", Name: "Bills & Utilities", Emoji: "📄", Color: "#FFEAA7", Icon: IconBills},
		{ID: "health", Name: "Health", Emoji: "🏥", Color: "#DDA0DD", Icon: IconHealth},
		{ID: "education", Name: "Education", Emoji: "📚", Color: "#98D8C8", Icon: IconEducation},
		{ID: "travel", Name: "Travel", Emoji: "✈️", Color: "#F7DC6F", Icon: IconTravel},
		{ID: "groceries", Name: "Groceries", Emoji: "🛒", Color: "#82E0AA", Icon: IconGroceries},
		{ID: "other", Name: "Other", Emoji: "📦", Color: "#BDC3C7", Icon: IconOther},
	}
}
