package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hapticlab/tacton/internal/haptic"
)

// PatternRecord is one saved pattern definition document.
type PatternRecord struct {
	// Name is the NFC-canonical key.
	Name string

	// DisplayName is the name as the author typed it.
	DisplayName string

	// Kind is the pattern type: "stroke", "clips" or "premade".
	Kind string

	// Definition is the full YAML document.
	Definition []byte

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SavePattern upserts a pattern under the canonical form of displayName.
// Re-saving an existing name replaces the definition and keeps the
// original creation time.
func (s *Store) SavePattern(ctx context.Context, displayName, kind string, definition []byte) error {
	name := haptic.CanonicalName(displayName)
	if name == "" {
		return haptic.NewBadPatternDefError("pattern name is empty")
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO patterns (name, display_name, kind, definition, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			display_name = excluded.display_name,
			kind         = excluded.kind,
			definition   = excluded.definition,
			updated_at   = excluded.updated_at
	`,
		name, displayName, kind, string(definition), now, now,
	)
	if err != nil {
		return fmt.Errorf("save pattern %q: %w", name, err)
	}
	return nil
}

// GetPattern looks up a pattern by name (canonicalized before the query).
// Returns ErrNotFound for unknown names.
func (s *Store) GetPattern(ctx context.Context, name string) (*PatternRecord, error) {
	canonical := haptic.CanonicalName(name)

	row := s.db.QueryRowContext(ctx, `
		SELECT name, display_name, kind, definition, created_at, updated_at
		FROM patterns WHERE name = ?
	`, canonical)

	rec, err := scanPattern(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("pattern %q: %w", canonical, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get pattern %q: %w", canonical, err)
	}
	return rec, nil
}

// DeletePattern removes a pattern. Returns ErrNotFound when nothing was
// deleted.
func (s *Store) DeletePattern(ctx context.Context, name string) error {
	canonical := haptic.CanonicalName(name)

	res, err := s.db.ExecContext(ctx, `DELETE FROM patterns WHERE name = ?`, canonical)
	if err != nil {
		return fmt.Errorf("delete pattern %q: %w", canonical, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete pattern %q: %w", canonical, err)
	}
	if n == 0 {
		return fmt.Errorf("pattern %q: %w", canonical, ErrNotFound)
	}
	return nil
}

// ListPatterns returns the patterns matching the filter, ordered by
// canonical name for deterministic output.
func (s *Store) ListPatterns(ctx context.Context, f Filter) ([]PatternRecord, error) {
	where, params := f.whereClause()
	query := `
		SELECT name, display_name, kind, definition, created_at, updated_at
		FROM patterns` + where + `
		ORDER BY name COLLATE BINARY ASC`

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("list patterns: %w", err)
	}
	defer rows.Close()

	var out []PatternRecord
	for rows.Next() {
		rec, err := scanPattern(rows)
		if err != nil {
			return nil, fmt.Errorf("list patterns: %w", err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list patterns: %w", err)
	}
	return out, nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPattern(row rowScanner) (*PatternRecord, error) {
	var rec PatternRecord
	var definition, createdAt, updatedAt string

	if err := row.Scan(&rec.Name, &rec.DisplayName, &rec.Kind, &definition, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	rec.Definition = []byte(definition)

	var err error
	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if rec.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &rec, nil
}
