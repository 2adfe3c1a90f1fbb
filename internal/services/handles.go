package services

import (
	"strconv"
	"strings"
	"treats/internal/models"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const fallbackHandle = "user"

// foldHandle lowercases, strips accents and drops everything that is not an
// ASCII letter or digit.
func foldHandle(raw string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, raw)
	if err != nil {
		folded = raw
	}
	var b strings.Builder
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// generateHandle cuts the folded name to 20 characters and appends the
// smallest free numeric suffix, starting at 0, when it is taken.
func generateHandle(s *models.Snapshot, nameFirst, nameLast string) string {
	base := foldHandle(nameFirst + nameLast)
	if len(base) > maxHandleLength {
		base = base[:maxHandleLength]
	}
	if base == "" {
		base = fallbackHandle
	}
	if s.UserByHandle(base) == nil {
		return base
	}
	for i := 0; ; i++ {
		candidate := base + strconv.Itoa(i)
		if s.UserByHandle(candidate) == nil {
			return candidate
		}
	}
}
