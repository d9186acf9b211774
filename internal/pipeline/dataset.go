package pipeline

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/theirongolddev/spendwise/internal/model"
)

// Source is the read side of the storage layer the analyzers are fed from.
type Source interface {
	GetExpenses() ([]model.Expense, error)
	GetBudgets() ([]model.Budget, error)
	GetCategories() ([]model.Category, error)
	GetAchievements() ([]model.Achievement, error)
}

// Dataset is a point-in-time copy of everything the analyzers read.
type Dataset struct {
	Expenses     []model.Expense
	Budgets      []model.Budget
	Categories   []model.Category
	Achievements []model.Achievement
	LoadedAt     time.Time
}

// Load fetches a fresh dataset from src.
func Load(src Source) (*Dataset, error) {
	expenses, err := src.GetExpenses()
	if err != nil {
		return nil, fmt.Errorf("loading expenses: %w", err)
	}
	budgets, err := src.GetBudgets()
	if err != nil {
		return nil, fmt.Errorf("loading budgets: %w", err)
	}
	categories, err := src.GetCategories()
	if err != nil {
		return nil, fmt.Errorf("loading categories: %w", err)
	}
	achievements, err := src.GetAchievements()
	if err != nil {
		return nil, fmt.Errorf("loading achievements: %w", err)
	}

	return &Dataset{
		Expenses:     expenses,
		Budgets:      budgets,
		Categories:   categories,
		Achievements: achievements,
		LoadedAt:     time.Now(),
	}, nil
}

// LoadOrEmpty is Load for display paths: a failed fetch is logged and an
// empty dataset is returned so screens render zeroed figures instead of failing.
func LoadOrEmpty(src Source, logger *slog.Logger) *Dataset {
	ds, err := Load(src)
	if err != nil {
		logger.Warn("dataset load failed, showing empty data", "error", err)
		return &Dataset{LoadedAt: time.Now()}
	}
	return ds
}

// ActiveBudgets returns the budgets currently in force.
func (d *Dataset) ActiveBudgets() []model.Budget {
	var out []model.Budget
	for _, b := range d.Budgets {
		if b.IsActive {
			out = append(out, b)
		}
	}
	return out
}

// Category looks up a category by ID.
func (d *Dataset) Category(id string) (model.Category, bool) {
	for _, c := range d.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return model.Category{}, false
}
