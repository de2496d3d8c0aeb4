// Package models defines the core domain models for SplitBill.
//
// # Models
//
//   - Session: one table's bill-splitting state (guests, items, tip)
//   - LineItem: a single dish on the receipt, assignable to guests
//   - GuestShare: one guest's computed share of the bill
//
// Guests are identified by name strings exactly as typed (case-sensitive,
// no user accounts). A session lives only as long as the server process;
// there is no persistence.
//
// # Design principles
//
//  1. Assignees reference guests by name, not by pointer, so a session can
//     be serialized to JSON as-is.
//  2. Mutation goes through the session service, which preserves the
//     invariants (non-negative prices, assignees drawn from the current
//     guest list). The structs themselves carry no behavior.
package models
