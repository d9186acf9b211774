package model

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func validExpense() Expense {
	return Expense{
		Amount:      decimal.RequireFromString("12.50"),
		Description: "Lunch",
		Category:    DefaultCategories()[0],
		Date:        time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC),
	}
}

func TestValidate_Expense(t *testing.T) {
	if err := Validate(validExpense()); err != nil {
		t.Fatalf("valid expense rejected: %v", err)
	}

	e := validExpense()
	e.Amount = decimal.Zero
	err := Validate(e)
	if err == nil {
		t.Fatal("zero amount accepted")
	}
	if !strings.Contains(err.Error(), "amount must be greater than 0") {
		t.Errorf("error = %q, want amount message", err)
	}

	e = validExpense()
	e.Description = ""
	if err := Validate(e); err == nil || !strings.Contains(err.Error(), "description is required") {
		t.Errorf("missing description: err = %v", err)
	}

	e = validExpense()
	e.Date = time.Time{}
	if err := Validate(e); err == nil {
		t.Error("zero date accepted")
	}
}

func TestValidate_CategoryIcon(t *testing.T) {
	c := Category{ID: "pets", Name: "Pets", Color: "#AABBCC", Icon: IconOther}
	if err := Validate(c); err != nil {
		t.Fatalf("valid category rejected: %v", err)
	}

	c.Icon = Icon("rocket")
	err := Validate(c)
	if err == nil {
		t.Fatal("unknown icon accepted")
	}
	if !strings.Contains(err.Error(), "not a supported icon") {
		t.Errorf("error = %q, want icon message", err)
	}
}

func TestValidate_BudgetPeriod(t *testing.T) {
	b := Budget{
		Amount:    decimal.NewFromInt(200),
		Period:    "daily",
		StartDate: time.Now(),
	}
	if err := Validate(b); err == nil {
		t.Fatal("unsupported period accepted")
	}
	b.Period = PeriodMonthly
	if err := Validate(b); err != nil {
		t.Fatalf("valid budget rejected: %v", err)
	}
}

func TestDefaultCategoriesAreValid(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range DefaultCategories() {
		if err := Validate(c); err != nil {
			t.Errorf("default category %s invalid: %v", c.ID, err)
		}
		if seen[c.ID] {
			t.Errorf("duplicate default category %s", c.ID)
		}
		seen[c.ID] = true
	}
}

func TestParseIcon(t *testing.T) {
	for _, ic := range Icons() {
		got, err := ParseIcon(string(ic))
		if err != nil || got != ic {
			t.Errorf("ParseIcon(%q) = %q, %v", ic, got, err)
		}
	}
	if _, err := ParseIcon(""); err == nil {
		t.Error("empty icon accepted")
	}
}
