package pipeline

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/theirongolddev/spendwise/internal/store"
)

func writeImportFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestImport_Incremental(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "spendwise.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer func() { _ = st.Close() }()

	dir := t.TempDir()
	jsonl := filepath.Join(dir, "phone.jsonl")
	writeImportFile(t, jsonl,
		`{"amount":12.5,"description":"Lunch","category":"food","date":"2024-01-05"}`+"\n"+
			`{"amount":"oops","description":"Bad","date":"2024-01-05"}`+"\n")
	writeImportFile(t, filepath.Join(dir, "bank", "jan.csv"),
		"date,amount,description,category\n2024-01-06,40,Power bill,bills\n2024-01-07,9.99,Music,entertainment\n")

	var calls atomic.Int64
	res, err := Import(dir, st, func(current, total int) { calls.Add(1) })
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.TotalFiles != 2 || res.ParsedFiles != 2 || res.Imported != 3 || res.ParseErrors != 1 {
		t.Errorf("first import = %+v", res)
	}
	if calls.Load() != 2 {
		t.Errorf("progress called %d times, want 2", calls.Load())
	}

	again, err := Import(dir, st, nil)
	if err != nil {
		t.Fatalf("second Import: %v", err)
	}
	if again.Unchanged != 2 || again.Imported != 0 {
		t.Errorf("second import = %+v, want everything unchanged", again)
	}

	// Touch one file: it is parsed again and replaces its own rows.
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(jsonl, future, future); err != nil {
		t.Fatal(err)
	}
	third, err := Import(dir, st, nil)
	if err != nil {
		t.Fatalf("third Import: %v", err)
	}
	if third.Unchanged != 1 || third.Imported != 1 {
		t.Errorf("third import = %+v", third)
	}

	n, err := st.ExpenseCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("ExpenseCount = %d, want 3 (re-import must not duplicate)", n)
	}
}

func TestImport_EmptyDir(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "spendwise.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer func() { _ = st.Close() }()

	res, err := Import(filepath.Join(t.TempDir(), "missing"), st, nil)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.TotalFiles != 0 {
		t.Errorf("TotalFiles = %d, want 0", res.TotalFiles)
	}
}
