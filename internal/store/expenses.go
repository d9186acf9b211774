package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/theirongolddev/spendwise/internal/model"
)

const expenseColumns = `id, amount, description, category_id, category_name, category_emoji,
	category_color, category_icon, date, note, created_at`

const upsertExpenseSQL = `INSERT OR REPLACE INTO expenses (` + expenseColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanExpense(r rowScanner) (model.Expense, error) {
	var e model.Expense
	var icon, date, created string
	err := r.Scan(&e.ID, &e.Amount, &e.Description, &e.Category.ID, &e.Category.Name,
		&e.Category.Emoji, &e.Category.Color, &icon, &date, &e.Note, &created)
	if err != nil {
		return e, err
	}
	e.Category.Icon = model.Icon(icon)
	if e.Date, err = parseTime("expenses.date", date); err != nil {
		return e, fmt.Errorf("expense %s: %w", e.ID, err)
	}
	if e.CreatedAt, err = parseTime("expenses.created_at", created); err != nil {
		return e, fmt.Errorf("expense %s: %w", e.ID, err)
	}
	return e, nil
}

func expenseArgs(e model.Expense) []interface{} {
	return []interface{}{
		e.ID, e.Amount.String(), e.Description, e.Category.ID, e.Category.Name,
		e.Category.Emoji, e.Category.Color, string(e.Category.Icon),
		formatTime(e.Date), e.Note, formatTime(e.CreatedAt),
	}
}

// prepareExpense fills in the ID and creation time of a new expense.
func prepareExpense(e model.Expense) model.Expense {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	return e
}

// GetExpenses returns every expense, newest first.
func (s *Store) GetExpenses() ([]model.Expense, error) {
	rows, err := s.db.Query("SELECT " + expenseColumns + " FROM expenses")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Dates keep their original offset, so order in Go rather than by text.
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// GetExpense returns one expense by ID.
func (s *Store) GetExpense(id string) (model.Expense, error) {
	e, err := scanExpense(s.db.QueryRow("SELECT "+expenseColumns+" FROM expenses WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return e, ErrNotFound
	}
	return e, err
}

// SaveExpense inserts or replaces an expense, assigning an ID when empty.
func (s *Store) SaveExpense(e model.Expense) (model.Expense, error) {
	e = prepareExpense(e)
	_, err := s.exec(upsertExpenseSQL, expenseArgs(e)...)
	return e, err
}

// SaveExpenses upserts a batch in a single transaction.
func (s *Store) SaveExpenses(expenses []model.Expense) error {
	if len(expenses) == 0 {
		return nil
	}
	return s.tx(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(upsertExpenseSQL)
		if err != nil {
			return err
		}
		defer func() { _ = stmt.Close() }()

		for _, e := range expenses {
			if _, err := stmt.Exec(expenseArgs(prepareExpense(e))...); err != nil {
				return err
			}
		}
		return nil
	})
}

// BulkUpdateExpenses rewrites existing expenses atomically. If any ID is
// unknown nothing is changed and ErrNotFound is returned.
func (s *Store) BulkUpdateExpenses(expenses []model.Expense) error {
	return s.tx(func(tx *sql.Tx) error {
		for _, e := range expenses {
			res, err := tx.Exec(`UPDATE expenses SET amount = ?, description = ?, category_id = ?,
				category_name = ?, category_emoji = ?, category_color = ?, category_icon = ?,
				date = ?, note = ? WHERE id = ?`,
				e.Amount.String(), e.Description, e.Category.ID, e.Category.Name, e.Category.Emoji,
				e.Category.Color, string(e.Category.Icon), formatTime(e.Date), e.Note, e.ID)
			if err != nil {
				return err
			}
			if err := mustAffect(res); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteExpense removes an expense by ID.
func (s *Store) DeleteExpense(id string) error {
	res, err := s.exec("DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

// ExpenseCount returns the number of stored expenses.
func (s *Store) ExpenseCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM expenses").Scan(&count)
	return count, err
}
