package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/theirongolddev/spendwise/internal/model"
)

// GetBudgets returns every budget in creation order.
func (s *Store) GetBudgets() ([]model.Budget, error) {
	rows, err := s.db.Query(`SELECT id, amount, period, category_id, start_date, is_active, created_at
		FROM budgets ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Budget
	for rows.Next() {
		var b model.Budget
		var period, start, created string
		var category sql.NullString
		var active int
		if err := rows.Scan(&b.ID, &b.Amount, &period, &category, &start, &active, &created); err != nil {
			return nil, err
		}
		b.Period = model.BudgetPeriod(period)
		if category.Valid {
			id := category.String
			b.CategoryID = &id
		}
		var err error
		if b.StartDate, err = parseTime("budgets.start_date", start); err != nil {
			return nil, fmt.Errorf("budget %s: %w", b.ID, err)
		}
		if b.CreatedAt, err = parseTime("budgets.created_at", created); err != nil {
			return nil, fmt.Errorf("budget %s: %w", b.ID, err)
		}
		b.IsActive = active != 0
		out = append(out, b)
	}
	return out, rows.Err()
}

// SaveBudget inserts or replaces a budget, assigning an ID when empty.
func (s *Store) SaveBudget(b model.Budget) (model.Budget, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}

	var category interface{}
	if b.CategoryID != nil {
		category = *b.CategoryID
	}
	active := 0
	if b.IsActive {
		active = 1
	}

	_, err := s.exec(`INSERT OR REPLACE INTO budgets
		(id, amount, period, category_id, start_date, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Amount.String(), string(b.Period), category,
		formatTime(b.StartDate), active, formatTime(b.CreatedAt))
	return b, err
}

// DeleteBudget removes a budget by ID.
func (s *Store) DeleteBudget(id string) error {
	res, err := s.exec("DELETE FROM budgets WHERE id = ?", id)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

// DeactivateBudget keeps a budget on record but stops it counting.
func (s *Store) DeactivateBudget(id string) error {
	res, err := s.exec("UPDATE budgets SET is_active = 0 WHERE id = ?", id)
	if err != nil {
		return err
	}
	return mustAffect(res)
}
