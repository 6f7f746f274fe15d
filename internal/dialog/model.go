package dialog

import "time"

type Step string

const (
	// StepAwaitSKU: a quantity arrived but no product context exists yet.
	StepAwaitSKU Step = "await_sku"
	// StepAwaitWarehouse: product resolved, several warehouses hold stock.
	StepAwaitWarehouse Step = "await_warehouse"
)

// State is the live dialog of one actor. At most one exists per actor;
// a state older than the store TTL is treated as absent on read.
type State struct {
	Step      Step      `json:"step"`
	Box       int       `json:"box"`
	Piece     int       `json:"piece"`
	SKU       string    `json:"sku,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
