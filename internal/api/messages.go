package api

// User is the public view of an account.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type CurrentUserRequest struct{}

type CurrentUserResponse struct {
	User User `json:"user"`
}

// Bill is the header of a bill without its contents.
type Bill struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CreatedAt int64  `json:"created_at"`
	SavedAt   *int64 `json:"saved_at"`
}

type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Item struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"line_total"`

	// Weights maps participant ID to weight. Empty means the item is split equally.
	Weights map[string]float64 `json:"weights,omitempty"`
}

// Adjustments is the stored discount, tip and tax policy of a bill.
type Adjustments struct {
	DiscountPercent *float64 `json:"discount_percent"`
	DiscountAmount  *float64 `json:"discount_amount"`
	TipPercent      *float64 `json:"tip_percent"`
	TipAmount       *float64 `json:"tip_amount"`
	TaxPercent      *float64 `json:"tax_percent"`
	TaxAmount       *float64 `json:"tax_amount"`
}

// AdjustmentsInput is the request form of Adjustments. Omitted fields are null.
type AdjustmentsInput struct {
	DiscountPercent Amount `json:"discount_percent"`
	DiscountAmount  Amount `json:"discount_amount"`
	TipPercent      Amount `json:"tip_percent"`
	TipAmount       Amount `json:"tip_amount"`
	TaxPercent      Amount `json:"tax_percent"`
	TaxAmount       Amount `json:"tax_amount"`
}

// Summary is the allocation of a bill. Totals is keyed by participant ID.
type Summary struct {
	Participants []Participant      `json:"participants"`
	Items        []Item             `json:"items,omitempty"`
	Subtotal     float64            `json:"subtotal"`
	Discount     float64            `json:"discount"`
	Tip          float64            `json:"tip"`
	Tax          float64            `json:"tax"`
	Total        float64            `json:"total"`
	Totals       map[string]float64 `json:"totals"`
}

// BillHistoryEntry is one row of ListBills with its computed totals.
type BillHistoryEntry struct {
	Bill
	ParticipantCount int     `json:"participant_count"`
	ItemCount        int     `json:"item_count"`
	Subtotal         float64 `json:"subtotal"`
	Discount         float64 `json:"discount"`
	Tip              float64 `json:"tip"`
	Tax              float64 `json:"tax"`
	Total            float64 `json:"total"`
}

type CreateBillRequest struct {
	Title string `json:"title"`
}

type CreateBillResponse struct {
	Bill Bill `json:"bill"`
}

type GetBillRequest struct {
	BillID string `json:"bill_id"`
}

type GetBillResponse struct {
	Bill         Bill          `json:"bill"`
	Participants []Participant `json:"participants"`
	Items        []Item        `json:"items"`
	Adjustments  Adjustments   `json:"adjustments"`
}

type ListBillsRequest struct {
	Limit int `json:"limit"`
}

type ListBillsResponse struct {
	Bills []BillHistoryEntry `json:"bills"`
}

type SaveBillRequest struct {
	BillID string `json:"bill_id"`
}

type SaveBillResponse struct {
	Bill Bill `json:"bill"`
}

type DeleteBillRequest struct {
	BillID string `json:"bill_id"`
}

type DeleteBillResponse struct{}

type ResetBillRequest struct {
	BillID string `json:"bill_id"`
}

type ResetBillResponse struct{}

type AddParticipantsRequest struct {
	BillID string   `json:"bill_id"`
	Names  []string `json:"names"`
}

type AddParticipantsResponse struct {
	Participants []Participant `json:"participants"`
}

type ListParticipantsRequest struct {
	BillID string `json:"bill_id"`
}

type ListParticipantsResponse struct {
	Participants []Participant `json:"participants"`
}

type RemoveParticipantRequest struct {
	BillID        string `json:"bill_id"`
	ParticipantID string `json:"participant_id"`
}

type RemoveParticipantResponse struct{}

type AddItemRequest struct {
	BillID   string `json:"bill_id"`
	Name     string `json:"name"`
	Price    Amount `json:"price"`
	Quantity Amount `json:"quantity"`
}

type AddItemResponse struct {
	Item Item `json:"item"`
}

type ListItemsRequest struct {
	BillID string `json:"bill_id"`
}

type ListItemsResponse struct {
	Items []Item `json:"items"`
}

// UpdateItemRequest changes only the fields that are present.
type UpdateItemRequest struct {
	BillID   string  `json:"bill_id"`
	ItemID   string  `json:"item_id"`
	Name     *string `json:"name"`
	Price    Amount  `json:"price"`
	Quantity Amount  `json:"quantity"`
}

type UpdateItemResponse struct {
	Item Item `json:"item"`
}

type RemoveItemRequest struct {
	BillID string `json:"bill_id"`
	ItemID string `json:"item_id"`
}

type RemoveItemResponse struct{}

// SetItemSplitsRequest replaces an item's weights. Weights maps participant ID to weight.
type SetItemSplitsRequest struct {
	BillID  string            `json:"bill_id"`
	ItemID  string            `json:"item_id"`
	Weights map[string]Amount `json:"weights"`
}

type SetItemSplitsResponse struct {
	Item Item `json:"item"`
}

type SetAdjustmentsRequest struct {
	BillID string `json:"bill_id"`
	AdjustmentsInput
}

type SetAdjustmentsResponse struct {
	Adjustments Adjustments `json:"adjustments"`
}

type GetSummaryRequest struct {
	BillID string `json:"bill_id"`
}

type GetSummaryResponse struct {
	Summary Summary `json:"summary"`
}

type CreateShareLinkRequest struct {
	BillID string `json:"bill_id"`
}

type CreateShareLinkResponse struct {
	Token string `json:"token"`
}

// CalculateItem is an item of a stateless calculation.
// Weights is keyed by participant name.
type CalculateItem struct {
	Name     string            `json:"name"`
	Price    Amount            `json:"price"`
	Quantity Amount            `json:"quantity"`
	Weights  map[string]Amount `json:"weights,omitempty"`
}

// CalculateSplitRequest allocates a bill that is never stored.
// Participant names must be unique; they double as participant IDs in the summary.
type CalculateSplitRequest struct {
	Participants []string        `json:"participants"`
	Items        []CalculateItem `json:"items"`
	AdjustmentsInput
}

type CalculateSplitResponse struct {
	Summary Summary `json:"summary"`
}

type GetSharedBillRequest struct {
	Token string `json:"token"`
}

type GetSharedBillResponse struct {
	Title   string  `json:"title"`
	Summary Summary `json:"summary"`
}
