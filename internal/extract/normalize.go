package extract

import (
	"regexp"
	"strings"
)

// reNoise matches every rune outside the receipt alphabet: the Hebrew block,
// Latin letters, digits, whitespace, the decimal separators '.' and ',', the
// shekel sign and the double quote (so the currency word ש"ח survives).
var reNoise = regexp.MustCompile(`[^\x{0590}-\x{05FF}a-zA-Z0-9\s.,₪"]`)

// Normalize strips OCR noise from a single receipt line and trims it.
// Pure and idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(line string) string {
	return strings.TrimSpace(reNoise.ReplaceAllString(line, ""))
}
