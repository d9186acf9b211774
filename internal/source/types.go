package source

import "github.com/shopspring/decimal"

// Format is the on-disk encoding of an expense file.
type Format string

const (
	FormatJSONL Format = "jsonl"
	FormatCSV   Format = "csv"
)

// RawExpense is one record of a JSONL expense file. Amount accepts both
// JSON numbers and quoted strings.
type RawExpense struct {
	ID          string          `json:"id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
	Note        string          `json:"note,omitempty"`
}

// DiscoveredFile is an expense file found during directory scanning.
type DiscoveredFile struct {
	Path   string
	Format Format
}
