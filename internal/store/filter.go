package store

import (
	"strings"

	"github.com/hapticlab/tacton/internal/haptic"
)

// Filter narrows ListPatterns. Zero-valued fields match everything. All
// values are parameterized, never interpolated.
type Filter struct {
	// Kind restricts to one pattern type ("stroke", "clips", "premade").
	Kind string

	// NameContains matches a substring of the canonical name. The needle
	// is canonicalized too, so the match is accent- and case-insensitive
	// in the same way keys are.
	NameContains string
}

// whereClause compiles the filter to a WHERE fragment plus its parameters.
// Predicates are emitted in a fixed order so the same filter always
// produces the same SQL.
func (f Filter) whereClause() (string, []any) {
	var preds []string
	var params []any

	if f.Kind != "" {
		preds = append(preds, "kind = ?")
		params = append(params, f.Kind)
	}
	if f.NameContains != "" {
		preds = append(preds, "name LIKE ? ESCAPE '\\'")
		params = append(params, "%"+escapeLike(haptic.CanonicalName(f.NameContains))+"%")
	}

	if len(preds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(preds, " AND "), params
}

// escapeLike neutralizes LIKE metacharacters in a user-supplied needle.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
