package haptic

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CanonicalName normalizes a pattern or layout name for use as a library
// key: Unicode NFC so composed and decomposed forms collide, surrounding
// whitespace trimmed, and case folded to lower. Display names keep their
// original form; only lookups go through this.
func CanonicalName(name string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(name)))
}
