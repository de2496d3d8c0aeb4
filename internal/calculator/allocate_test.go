package calculator

import (
	"math"
	"testing"

	"github.com/italord1/splitbill/internal/models"
)

const epsilon = 1e-9

func TestAllocate(t *testing.T) {
	tests := []struct {
		name         string
		guests       []string
		items        []models.LineItem
		tipPercent   float64
		validateFunc func(t *testing.T, shares map[string]*models.GuestShare, grand models.GuestShare)
	}{
		{
			name:   "shared item with tip",
			guests: []string{"A", "B"},
			items: []models.LineItem{
				{Name: "Pizza", Price: 40.0, Assignees: []string{"A", "B"}},
			},
			tipPercent: 10,
			validateFunc: func(t *testing.T, shares map[string]*models.GuestShare, grand models.GuestShare) {
				for _, g := range []string{"A", "B"} {
					if math.Abs(shares[g].Subtotal-20.0) > epsilon {
						t.Errorf("%s subtotal = %v, want 20.0", g, shares[g].Subtotal)
					}
					if math.Abs(shares[g].Total-22.0) > epsilon {
						t.Errorf("%s total = %v, want 22.0", g, shares[g].Total)
					}
				}
				if math.Abs(grand.Subtotal-40.0) > epsilon {
					t.Errorf("grand subtotal = %v, want 40.0", grand.Subtotal)
				}
				if math.Abs(grand.Total-44.0) > epsilon {
					t.Errorf("grand total = %v, want 44.0", grand.Total)
				}
			},
		},
		{
			name:   "unassigned item is excluded everywhere",
			guests: []string{"A"},
			items: []models.LineItem{
				{Name: "Mystery", Price: 100.0, Assignees: nil},
			},
			tipPercent: 15,
			validateFunc: func(t *testing.T, shares map[string]*models.GuestShare, grand models.GuestShare) {
				if shares["A"].Subtotal != 0 || shares["A"].Total != 0 {
					t.Errorf("A = %+v, want zero share", shares["A"])
				}
				if grand.Subtotal != 0 || grand.Total != 0 {
					t.Errorf("grand = %+v, want zero", grand)
				}
			},
		},
		{
			name:   "zero tip means total equals subtotal",
			guests: []string{"Alice", "Bob", "Carol"},
			items: []models.LineItem{
				{Name: "Hummus", Price: 24.0, Assignees: []string{"Alice", "Bob", "Carol"}},
				{Name: "Beer", Price: 28.0, Assignees: []string{"Bob"}},
			},
			tipPercent: 0,
			validateFunc: func(t *testing.T, shares map[string]*models.GuestShare, grand models.GuestShare) {
				for g, s := range shares {
					if math.Abs(s.Total-s.Subtotal) > epsilon {
						t.Errorf("%s total = %v, subtotal = %v, want equal", g, s.Total, s.Subtotal)
					}
				}
				if math.Abs(shares["Bob"].Subtotal-36.0) > epsilon {
					t.Errorf("Bob subtotal = %v, want 36.0", shares["Bob"].Subtotal)
				}
				if math.Abs(grand.Subtotal-52.0) > epsilon {
					t.Errorf("grand subtotal = %v, want 52.0", grand.Subtotal)
				}
			},
		},
		{
			name:   "uneven three-way split keeps full precision",
			guests: []string{"A", "B", "C"},
			items: []models.LineItem{
				{Name: "Shakshuka", Price: 10.0, Assignees: []string{"A", "B", "C"}},
			},
			tipPercent: 0,
			validateFunc: func(t *testing.T, shares map[string]*models.GuestShare, grand models.GuestShare) {
				// 10/3 is not redistributed or rounded; shares must sum
				// back to the item price exactly within float epsilon.
				want := 10.0 / 3.0
				for _, g := range []string{"A", "B", "C"} {
					if math.Abs(shares[g].Subtotal-want) > epsilon {
						t.Errorf("%s subtotal = %v, want %v", g, shares[g].Subtotal, want)
					}
				}
				if math.Abs(grand.Subtotal-10.0) > epsilon {
					t.Errorf("grand subtotal = %v, want 10.0", grand.Subtotal)
				}
			},
		},
		{
			name:   "assignee missing from guest list is ignored",
			guests: []string{"A"},
			items: []models.LineItem{
				{Name: "Salad", Price: 30.0, Assignees: []string{"A", "Gone"}},
			},
			tipPercent: 0,
			validateFunc: func(t *testing.T, shares map[string]*models.GuestShare, grand models.GuestShare) {
				if math.Abs(shares["A"].Subtotal-15.0) > epsilon {
					t.Errorf("A subtotal = %v, want 15.0", shares["A"].Subtotal)
				}
				if _, exists := shares["Gone"]; exists {
					t.Error("removed guest should not appear in shares")
				}
			},
		},
		{
			name:       "no guests yields empty shares and zero grand",
			guests:     nil,
			items:      []models.LineItem{{Name: "Pasta", Price: 52.0, Assignees: []string{"A"}}},
			tipPercent: 12,
			validateFunc: func(t *testing.T, shares map[string]*models.GuestShare, grand models.GuestShare) {
				if len(shares) != 0 {
					t.Errorf("shares = %v, want empty", shares)
				}
				if grand.Subtotal != 0 || grand.Total != 0 {
					t.Errorf("grand = %+v, want zero", grand)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, grand := Allocate(tt.guests, tt.items, tt.tipPercent)
			tt.validateFunc(t, shares, grand)
		})
	}
}

// Totals must scale from subtotals by exactly (1 + tip/100), and the sum of
// guest subtotals must equal the sum of assigned item prices.
func TestAllocateConservation(t *testing.T) {
	guests := []string{"A", "B", "C", "D"}
	items := []models.LineItem{
		{Name: "Falafel", Price: 22.0, Assignees: []string{"A"}},
		{Name: "Schnitzel", Price: 58.0, Assignees: []string{"A", "B"}},
		{Name: "Greek Salad", Price: 32.5, Assignees: []string{"B", "C", "D"}},
		{Name: "Wine", Price: 120.0, Assignees: []string{"A", "B", "C", "D"}},
		{Name: "Unclaimed", Price: 999.0, Assignees: nil},
	}

	for _, tip := range []float64{0, 10, 12.5, 100} {
		shares, grand := Allocate(guests, items, tip)

		assignedSum := 22.0 + 58.0 + 32.5 + 120.0
		var subtotalSum, totalSum float64
		for g, s := range shares {
			subtotalSum += s.Subtotal
			totalSum += s.Total
			if math.Abs(s.Total-s.Subtotal*(1+tip/100)) > epsilon {
				t.Errorf("tip %v: %s total = %v, want subtotal*%v", tip, g, s.Total, 1+tip/100)
			}
		}
		if math.Abs(subtotalSum-assignedSum) > epsilon {
			t.Errorf("tip %v: subtotal sum = %v, want %v", tip, subtotalSum, assignedSum)
		}
		if math.Abs(grand.Subtotal-subtotalSum) > epsilon || math.Abs(grand.Total-totalSum) > epsilon {
			t.Errorf("tip %v: grand = %+v, want sums (%v, %v)", tip, grand, subtotalSum, totalSum)
		}
	}
}

func TestAllocateDeterministic(t *testing.T) {
	guests := []string{"A", "B"}
	items := []models.LineItem{
		{Name: "Pizza", Price: 47.3, Assignees: []string{"A", "B"}},
		{Name: "Cola", Price: 12.0, Assignees: []string{"B"}},
	}

	first, firstGrand := Allocate(guests, items, 17)
	second, secondGrand := Allocate(guests, items, 17)

	if firstGrand != secondGrand {
		t.Errorf("grand differs across runs: %+v vs %+v", firstGrand, secondGrand)
	}
	for g := range first {
		if *first[g] != *second[g] {
			t.Errorf("%s differs across runs: %+v vs %+v", g, first[g], second[g])
		}
	}
}
