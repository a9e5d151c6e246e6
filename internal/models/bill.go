package models

// DefaultBillTitle is used when a bill is created without a title.
const DefaultBillTitle = "Split Bill"

// Bill represents a bill owned by a user.
// Participants, items and splits are stored separately and loaded into a Snapshot.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string

	// OwnerID is the user who created the bill.
	OwnerID string

	// Title is the human-readable name for the bill.
	Title string

	// CreatedAt is the Unix timestamp when the bill was created.
	CreatedAt int64

	// SavedAt is the Unix timestamp when the owner last saved the bill to history.
	// Nil if never saved.
	SavedAt *int64

	// Policy holds the discount, tip and tax settings.
	Policy AdjustmentPolicy
}

// AdjustmentPolicy holds the six nullable adjustment fields of a bill.
// For each pair, the amount takes precedence over the percent.
type AdjustmentPolicy struct {
	DiscountPercent *float64
	DiscountAmount  *float64
	TipPercent      *float64
	TipAmount       *float64
	TaxPercent      *float64
	TaxAmount       *float64
}

// Participant is one person splitting a bill.
type Participant struct {
	ID     string
	BillID string
	Name   string
}

// Item represents a single line item on a bill.
type Item struct {
	// ID is the unique identifier for the item (UUID format).
	ID string

	// BillID is the bill this item belongs to.
	BillID string

	// Name is the description of the item (e.g., "Pizza", "Es Teh").
	Name string

	// UnitPrice is the price of one unit.
	UnitPrice float64

	// Quantity is the number of units, at least 1.
	Quantity int
}

// LineTotal returns UnitPrice × Quantity.
func (i Item) LineTotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// ItemPatch carries the optional fields of an item update. Nil fields are left unchanged.
type ItemPatch struct {
	Name      *string
	UnitPrice *float64
	Quantity  *int
}

// Empty reports whether the patch changes nothing.
func (p ItemPatch) Empty() bool {
	return p.Name == nil && p.UnitPrice == nil && p.Quantity == nil
}

// SplitWeight is one participant's relative weight on an item.
type SplitWeight struct {
	ParticipantID string
	Weight        float64
}

// ShareLink exposes a read-only view of a bill through an unguessable token.
type ShareLink struct {
	Token     string
	BillID    string
	CreatedAt int64
}

// Snapshot is the fully loaded state of one bill.
type Snapshot struct {
	Bill         Bill
	Participants []Participant
	Items        []Item

	// Splits maps item ID to its recorded weights. Items without an entry have no split.
	Splits map[string][]SplitWeight
}
