package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/theirongolddev/spendwise/internal/model"
)

// GetCategories returns categories, defaults first, then in creation order.
func (s *Store) GetCategories() ([]model.Category, error) {
	rows, err := s.db.Query("SELECT id, name, emoji, color, icon FROM categories ORDER BY rowid")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Category
	for rows.Next() {
		var c model.Category
		var icon string
		if err := rows.Scan(&c.ID, &c.Name, &c.Emoji, &c.Color, &icon); err != nil {
			return nil, err
		}
		c.Icon = model.Icon(icon)
		out = append(out, c)
	}
	return out, rows.Err()
}

// SaveCategory inserts or updates a category. Existing expenses keep their snapshot.
func (s *Store) SaveCategory(c model.Category) error {
	_, err := s.exec(`INSERT INTO categories (id, name, emoji, color, icon) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, emoji = excluded.emoji,
		color = excluded.color, icon = excluded.icon`,
		c.ID, c.Name, c.Emoji, c.Color, string(c.Icon))
	return err
}

// GetAchievements returns stored achievement state.
func (s *Store) GetAchievements() ([]model.Achievement, error) {
	rows, err := s.db.Query("SELECT id, title, description, unlocked_at FROM achievements ORDER BY rowid")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Achievement
	for rows.Next() {
		var a model.Achievement
		var unlocked sql.NullString
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &unlocked); err != nil {
			return nil, err
		}
		if unlocked.Valid && unlocked.String != "" {
			t, err := parseTime("achievements.unlocked_at", unlocked.String)
			if err != nil {
				return nil, fmt.Errorf("achievement %s: %w", a.ID, err)
			}
			a.UnlockedAt = &t
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SaveAchievements upserts achievement state.
func (s *Store) SaveAchievements(achievements []model.Achievement) error {
	return s.tx(func(tx *sql.Tx) error {
		for _, a := range achievements {
			var unlocked interface{}
			if a.UnlockedAt != nil {
				unlocked = formatTime(*a.UnlockedAt)
			}
			_, err := tx.Exec(`INSERT OR REPLACE INTO achievements (id, title, description, unlocked_at)
				VALUES (?, ?, ?, ?)`, a.ID, a.Title, a.Description, unlocked)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// FileInfo holds the tracked mtime and size for an imported file.
type FileInfo struct {
	MtimeNs   int64
	SizeBytes int64
}

// GetTrackedFiles returns a map of file_path -> FileInfo for every imported file.
func (s *Store) GetTrackedFiles() (map[string]FileInfo, error) {
	rows, err := s.db.Query("SELECT file_path, mtime_ns, size_bytes FROM import_tracker")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]FileInfo)
	for rows.Next() {
		var path string
		var fi FileInfo
		if err := rows.Scan(&path, &fi.MtimeNs, &fi.SizeBytes); err != nil {
			return nil, err
		}
		result[path] = fi
	}
	return result, rows.Err()
}

// TrackFile records that a file was imported at the given mtime and size.
func (s *Store) TrackFile(path string, mtimeNs, sizeBytes int64) error {
	_, err := s.exec(`INSERT OR REPLACE INTO import_tracker (file_path, mtime_ns, size_bytes, imported_at)
		VALUES (?, ?, ?, ?)`, path, mtimeNs, sizeBytes, formatTime(time.Now().UTC()))
	return err
}
