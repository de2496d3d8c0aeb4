// Package calculator computes per-guest shares of a bill.
package calculator

import (
	"github.com/italord1/splitbill/internal/models"
)

// Allocate computes how much each guest owes, with a uniform tip surcharge
// applied to every assigned item before per-guest division.
//
// Each item with at least one assignee is split equally among its assignees:
//
//	share        = price / len(assignees)
//	shareWithTip = price * (1 + tipPercent/100) / len(assignees)
//
// Items with no assignees are skipped entirely; their cost appears in no
// guest share and not in the grand total either. Assignees that are not in
// the guest list are ignored. Division is plain float64 arithmetic with no
// rounding; two-decimal rounding belongs at presentation time.
//
// The returned map has an entry for every guest, zero-valued when nothing is
// assigned to them. The second return is the grand total across all guests.
func Allocate(guests []string, items []models.LineItem, tipPercent float64) (map[string]*models.GuestShare, models.GuestShare) {
	shares := make(map[string]*models.GuestShare, len(guests))
	for _, g := range guests {
		shares[g] = &models.GuestShare{}
	}

	tipFactor := 1 + tipPercent/100

	for _, item := range items {
		if len(item.Assignees) == 0 {
			continue
		}

		n := float64(len(item.Assignees))
		share := item.Price / n
		shareWithTip := item.Price * tipFactor / n

		for _, guest := range item.Assignees {
			if s, exists := shares[guest]; exists {
				s.Subtotal += share
				s.Total += shareWithTip
			}
		}
	}

	var grand models.GuestShare
	for _, s := range shares {
		grand.Subtotal += s.Subtotal
		grand.Total += s.Total
	}

	return shares, grand
}
