package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/italord1/splitbill/internal/models"
)

// rePriceLine matches "name ... 32.50" with an optional trailing currency
// marker (₪, ש"ח or the bare שח that OCR often produces), anchored at end of
// line. The numeric suffix allows a single '.' or ',' separator with one or
// two fractional digits.
var rePriceLine = regexp.MustCompile(`^(.+?)\s+(\d+(?:[.,]\d{1,2})?)(?:\s*(?:₪|ש"ח|שח))?\s*$`)

const (
	// Plausible single-dish price band. Numbers outside it are almost
	// always OCR noise: totals, dates, phone number fragments.
	minPrice = 5
	maxPrice = 1000
)

// PatternStrategy extracts items from lines shaped like "<name> <price>[₪]".
type PatternStrategy struct{}

// NewPatternStrategy returns the trailing-number strategy.
func NewPatternStrategy() *PatternStrategy {
	return &PatternStrategy{}
}

func (s *PatternStrategy) Name() string { return "pattern" }

// Extract parses a "<name> <price>" line. Candidates with a single-rune name
// or a price outside (5, 1000) are dropped: this is the noise filter, not an
// error path.
func (s *PatternStrategy) Extract(line string) (models.LineItem, bool) {
	m := rePriceLine.FindStringSubmatch(line)
	if m == nil {
		return models.LineItem{}, false
	}

	name := strings.TrimSpace(m[1])
	price, err := strconv.ParseFloat(strings.ReplaceAll(m[2], ",", "."), 64)
	if err != nil {
		return models.LineItem{}, false
	}

	if len([]rune(name)) <= 1 || price <= minPrice || price >= maxPrice {
		return models.LineItem{}, false
	}

	return models.LineItem{Name: name, Price: price}, true
}
