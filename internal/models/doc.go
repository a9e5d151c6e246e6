// Package models defines the core domain models for patungan.
//
// # Models
//
//   - User: registered account that owns bills
//   - Bill: a shared bill with its adjustment policy (discount, tip, tax)
//   - Participant: a person splitting one bill, identified by an opaque ID
//   - Item: a priced line on a bill with a quantity
//   - SplitWeight: one participant's relative weight on one item
//   - ShareLink: a public token that exposes a read-only view of a bill
//   - Snapshot: everything the allocation engine needs for one computation
//
// # Design Principles
//
// 1. **IDs, not pointers**: relationships are expressed with ID strings
// 2. **Nullable policy**: each adjustment field is independently nullable (*float64)
// 3. **Creation order**: participants and items are always returned in the order they were added
package models
