package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hapticlab/tacton/internal/haptic"
)

// layoutActuator is the JSON row format for one actuator. Kept separate
// from haptic.Actuator so the storage format does not drift with the
// domain type.
type layoutActuator struct {
	ID         int     `json:"id"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	ChainGroup string  `json:"chain_group,omitempty"`
}

// SaveLayout upserts an actuator grid snapshot under the canonical form
// of displayName.
func (s *Store) SaveLayout(ctx context.Context, displayName string, layout *haptic.Layout) error {
	name := haptic.CanonicalName(displayName)
	if name == "" {
		return haptic.NewBadPatternDefError("layout name is empty")
	}

	rows := make([]layoutActuator, 0, layout.Len())
	for _, a := range layout.Actuators() {
		rows = append(rows, layoutActuator{ID: a.ID, X: a.Position.X, Y: a.Position.Y, ChainGroup: a.ChainGroup})
	}
	blob, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("save layout %q: %w", name, err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO layouts (name, display_name, actuators, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			display_name = excluded.display_name,
			actuators    = excluded.actuators,
			updated_at   = excluded.updated_at
	`,
		name, displayName, string(blob), now, now,
	)
	if err != nil {
		return fmt.Errorf("save layout %q: %w", name, err)
	}
	return nil
}

// GetLayout loads a saved grid snapshot. Returns ErrNotFound for unknown
// names.
func (s *Store) GetLayout(ctx context.Context, name string) (*haptic.Layout, error) {
	canonical := haptic.CanonicalName(name)

	var blob string
	err := s.db.QueryRowContext(ctx,
		`SELECT actuators FROM layouts WHERE name = ?`, canonical,
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("layout %q: %w", canonical, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get layout %q: %w", canonical, err)
	}

	var rows []layoutActuator
	if err := json.Unmarshal([]byte(blob), &rows); err != nil {
		return nil, fmt.Errorf("get layout %q: %w", canonical, err)
	}

	acts := make([]haptic.Actuator, 0, len(rows))
	for _, r := range rows {
		acts = append(acts, haptic.Actuator{
			ID:         r.ID,
			Position:   haptic.Point{X: r.X, Y: r.Y},
			ChainGroup: r.ChainGroup,
		})
	}
	return haptic.NewLayout(acts)
}

// ListLayouts returns the display names of all saved layouts, ordered by
// canonical name.
func (s *Store) ListLayouts(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT display_name FROM layouts ORDER BY name COLLATE BINARY ASC`)
	if err != nil {
		return nil, fmt.Errorf("list layouts: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list layouts: %w", err)
		}
		out = append(out, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list layouts: %w", err)
	}
	return out, nil
}
