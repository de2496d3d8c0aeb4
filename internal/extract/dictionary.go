package extract

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/italord1/splitbill/internal/models"
)

//go:embed catalog.txt
var defaultCatalog string

var reDigitRun = regexp.MustCompile(`\d+`)

// DictionaryStrategy extracts items from lines that mention a known dish.
// A line matches if it contains any catalog entry as a substring; the first
// entry in catalog order wins, with no disambiguation when several entries
// appear on one line.
//
// The price is taken as the largest integer digit run anywhere on the line.
// That heuristic misfires when a quantity or item code exceeds the true
// price; it is kept as-is because the robustness/correctness trade-off is an
// open product question, not a bug to patch here.
type DictionaryStrategy struct {
	catalog []string
}

// NewDictionaryStrategy builds the known-dish strategy from an explicit
// catalog. Entry order is match priority.
func NewDictionaryStrategy(catalog []string) *DictionaryStrategy {
	return &DictionaryStrategy{catalog: catalog}
}

// NewDefaultDictionaryStrategy uses the embedded dish catalog.
func NewDefaultDictionaryStrategy() *DictionaryStrategy {
	return NewDictionaryStrategy(parseCatalog(strings.NewReader(defaultCatalog)))
}

// LoadDictionaryStrategy reads a catalog file: one dish name per line,
// blank lines and '#' comments ignored.
func LoadDictionaryStrategy(path string) (*DictionaryStrategy, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return NewDictionaryStrategy(parseCatalog(f)), nil
}

func parseCatalog(r io.Reader) []string {
	var entries []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, line)
	}
	return entries
}

func (s *DictionaryStrategy) Name() string { return "dictionary" }

// Extract matches a line against the catalog and prices it by the maximum
// digit run on the line. A matching line with no digits at all yields no
// item.
func (s *DictionaryStrategy) Extract(line string) (models.LineItem, bool) {
	for _, dish := range s.catalog {
		if !strings.Contains(line, dish) {
			continue
		}
		price, ok := maxDigitRun(line)
		if !ok {
			return models.LineItem{}, false
		}
		return models.LineItem{Name: dish, Price: price}, true
	}
	return models.LineItem{}, false
}

func maxDigitRun(line string) (float64, bool) {
	runs := reDigitRun.FindAllString(line, -1)
	if len(runs) == 0 {
		return 0, false
	}
	best := 0
	for _, r := range runs {
		n, err := strconv.Atoi(r)
		if err != nil {
			// Digit runs longer than an int are receipt garbage.
			continue
		}
		if n > best {
			best = n
		}
	}
	return float64(best), true
}
