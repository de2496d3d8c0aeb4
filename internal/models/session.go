package models

// LineItem represents a single dish on a receipt.
// Items can be shared among multiple guests.
type LineItem struct {
	// ID is the unique identifier for the item (UUID format).
	ID string `json:"id"`

	// Name is the dish name as printed on the receipt (may be Hebrew,
	// Latin, or a mix).
	Name string `json:"name"`

	// Price is the price of this item. Never negative.
	Price float64 `json:"price"`

	// Assignees is the list of guest names who share this item.
	// The item is split equally among them. An empty list means the item
	// is not yet allocated to anyone and is excluded from totals.
	Assignees []string `json:"assignees"`
}

// Session holds the full bill-splitting state for one table.
type Session struct {
	// ID is the unique identifier for the session (UUID format).
	ID string `json:"id"`

	// Guests is the ordered list of diner names. Replaced wholesale each
	// time guests are set; never merged.
	Guests []string `json:"guests"`

	// Items is the ordered list of line items, both extracted and
	// manually added. Extraction only ever appends.
	Items []LineItem `json:"items"`

	// TipPercent is the uniform tip surcharge applied to every assigned
	// item before per-guest division. Never negative.
	TipPercent float64 `json:"tip_percent"`

	// CreatedAt is the Unix timestamp when the session was created.
	CreatedAt int64 `json:"created_at"`
}

// GuestShare is one guest's computed share of the bill.
// It is a snapshot: editing the session does not update it.
type GuestShare struct {
	// Subtotal is the guest's share before tip.
	Subtotal float64 `json:"subtotal"`

	// Total is the guest's share including the proportional tip.
	Total float64 `json:"total"`
}
