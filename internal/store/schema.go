package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS categories (
    id                   TEXT PRIMARY KEY,
    name                 TEXT NOT NULL,
    emoji                TEXT NOT NULL DEFAULT '',
    color                TEXT NOT NULL DEFAULT '',
    icon                 TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS expenses (
    id                   TEXT PRIMARY KEY,
    amount               TEXT NOT NULL,
    description          TEXT NOT NULL,
    category_id          TEXT NOT NULL,
    category_name        TEXT NOT NULL,
    category_emoji       TEXT NOT NULL DEFAULT '',
    category_color       TEXT NOT NULL DEFAULT '',
    category_icon        TEXT NOT NULL DEFAULT '',
    date                 TEXT NOT NULL,
    note                 TEXT NOT NULL DEFAULT '',
    created_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS budgets (
    id                   TEXT PRIMARY KEY,
    amount               TEXT NOT NULL,
    period               TEXT NOT NULL,
    category_id          TEXT,
    start_date           TEXT NOT NULL,
    is_active            INTEGER NOT NULL DEFAULT 1,
    created_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS achievements (
    id                   TEXT PRIMARY KEY,
    title                TEXT NOT NULL,
    description          TEXT NOT NULL,
    unlocked_at          TEXT
);

CREATE TABLE IF NOT EXISTS import_tracker (
    file_path            TEXT PRIMARY KEY,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL,
    imported_at          TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_expenses_date ON expenses(date);
CREATE INDEX IF NOT EXISTS idx_expenses_category ON expenses(category_id);
`
