// Package extract turns raw OCR text into line item candidates.
//
// Extraction is deliberately best-effort: a line that matches no strategy is
// silently skipped, never reported as an error. Receipts are noisy and lossy
// parsing is the expected mode of operation.
package extract

import (
	"strings"

	"github.com/italord1/splitbill/internal/models"
)

// Strategy classifies a single normalized line into a line item candidate.
// Implementations must be pure; returning false means the line carries no
// recognizable item.
type Strategy interface {
	// Name identifies the strategy in logs and metrics.
	Name() string

	// Extract parses one normalized line. The returned item has no ID and
	// no assignees; both are filled in when the item joins a session.
	Extract(line string) (models.LineItem, bool)
}

// Extractor runs a list of strategies over every line of an OCR text blob.
type Extractor struct {
	strategies []Strategy

	// OnMatch, when set, is called with the strategy name for every
	// extracted item. Used to feed metrics without coupling this package
	// to prometheus.
	OnMatch func(strategy string)
}

// New creates an Extractor that tries the given strategies in order on each
// line; the first strategy to match a line wins for that line.
func New(strategies ...Strategy) *Extractor {
	return &Extractor{strategies: strategies}
}

// Extract normalizes each line of text independently and collects every
// candidate the strategies produce, in line order. Lines that match nothing
// are dropped without comment.
func (e *Extractor) Extract(text string) []models.LineItem {
	var items []models.LineItem
	for _, raw := range strings.Split(text, "\n") {
		line := Normalize(raw)
		if line == "" {
			continue
		}
		for _, s := range e.strategies {
			item, ok := s.Extract(line)
			if !ok {
				continue
			}
			items = append(items, item)
			if e.OnMatch != nil {
				e.OnMatch(s.Name())
			}
			break
		}
	}
	return items
}
