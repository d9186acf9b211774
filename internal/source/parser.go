// Package source handles discovery and parsing of expense import files.
package source

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/spendwise/internal/model"
)

// ParseResult holds the output of parsing a single expense file.
type ParseResult struct {
	Expenses    []model.Expense
	ParseErrors int
	Err         error
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseFile reads an expense file. Lines that fail to decode or validate are
// counted in ParseErrors and skipped; Err is set only when the file itself
// cannot be read.
//
// Records without an id get one derived from the file path and line number,
// so importing the same file twice replaces rather than duplicates.
func ParseFile(df DiscoveredFile, categories []model.Category) ParseResult {
	f, err := os.Open(df.Path)
	if err != nil {
		return ParseResult{Err: err}
	}
	defer func() { _ = f.Close() }()

	resolve := newCategoryResolver(categories)
	if df.Format == FormatCSV {
		return parseCSV(f, df.Path, resolve)
	}
	return parseJSONL(f, df.Path, resolve)
}

func parseJSONL(r io.Reader, path string, resolve categoryResolver) ParseResult {
	var res ParseResult

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var raw RawExpense
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			res.ParseErrors++
			continue
		}

		e, err := buildExpense(raw, path, lineNo, resolve)
		if err != nil {
			res.ParseErrors++
			continue
		}
		res.Expenses = append(res.Expenses, e)
	}
	if err := scanner.Err(); err != nil {
		res.Err = err
	}
	return res
}

func parseCSV(r io.Reader, path string, resolve categoryResolver) ParseResult {
	var res ParseResult

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return res
		}
		return ParseResult{Err: fmt.Errorf("reading csv header: %w", err)}
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"date", "amount", "description"} {
		if _, ok := cols[required]; !ok {
			return ParseResult{Err: fmt.Errorf("csv header missing %q column", required)}
		}
	}

	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	lineNo := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		lineNo++
		if err != nil {
			res.ParseErrors++
			continue
		}

		amount, err := decimal.NewFromString(field(rec, "amount"))
		if err != nil {
			res.ParseErrors++
			continue
		}
		raw := RawExpense{
			ID:          field(rec, "id"),
			Amount:      amount,
			Description: field(rec, "description"),
			Category:    field(rec, "category"),
			Date:        field(rec, "date"),
			Note:        field(rec, "note"),
		}

		e, err := buildExpense(raw, path, lineNo, resolve)
		if err != nil {
			res.ParseErrors++
			continue
		}
		res.Expenses = append(res.Expenses, e)
	}
	return res
}

func buildExpense(raw RawExpense, path string, lineNo int, resolve categoryResolver) (model.Expense, error) {
	date, err := ParseDate(raw.Date)
	if err != nil {
		return model.Expense{}, err
	}

	id := raw.ID
	if id == "" {
		id = ImportID(path, lineNo)
	}

	e := model.Expense{
		ID:          id,
		Amount:      raw.Amount,
		Description: strings.TrimSpace(raw.Description),
		Category:    resolve(raw.Category),
		Date:        date,
		Note:        raw.Note,
	}
	if err := model.Validate(e); err != nil {
		return model.Expense{}, err
	}
	return e, nil
}

// ImportID derives a stable expense ID for an imported line.
func ImportID(path string, lineNo int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("file://%s#L%d", path, lineNo))).String()
}

// ParseDate accepts RFC 3339 timestamps and a few common local layouts.
// Values without an offset are read in the local time zone.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

type categoryResolver func(string) model.Category

// newCategoryResolver matches by ID, then by name, case-insensitively.
// Unknown or empty names fall back to "other".
func newCategoryResolver(categories []model.Category) categoryResolver {
	byKey := make(map[string]model.Category, len(categories)*2)
	fallback := model.Category{ID: "other", Name: "Other", Icon: model.IconOther}
	for _, c := range categories {
		byKey[strings.ToLower(c.ID)] = c
		if _, ok := byKey[strings.ToLower(c.Name)]; !ok {
			byKey[strings.ToLower(c.Name)] = c
		}
		if c.ID == "other" {
			fallback = c
		}
	}
	return func(s string) model.Category {
		if c, ok := byKey[strings.ToLower(strings.TrimSpace(s))]; ok {
			return c
		}
		return fallback
	}
}
