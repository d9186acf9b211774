package pipeline

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/spendwise/internal/model"
)

func category(id string) model.Category {
	for _, c := range model.DefaultCategories() {
		if c.ID == id {
			return c
		}
	}
	return model.Category{ID: id, Name: id, Icon: model.IconOther}
}

var seq int

func expense(amount string, date time.Time, categoryID string) model.Expense {
	seq++
	return model.Expense{
		ID:          fmt.Sprintf("e%04d", seq),
		Amount:      decimal.RequireFromString(amount),
		Description: "test",
		Category:    category(categoryID),
		Date:        date,
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
