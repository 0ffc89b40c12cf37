package geocode

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeQuery puts a free-text location into NFC form and collapses
// whitespace runs. Profile locations are often pasted with stray newlines.
func NormalizeQuery(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}
