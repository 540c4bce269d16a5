package types

import (
	"encoding/json"
	"time"

	"github.com/docstacker/docsign/types"
)

// SessionRecord is the persisted form of a workflow session.
type SessionRecord struct {
	ID     string                 `json:"id"`
	Roster []types.Signer         `json:"roster"`
	Fields []types.SignatureField `json:"fields"`
	// Dump of the session machines, see state_machines.FSMInstance
	FSM json.RawMessage `json:"fsm"`
	// Rendered page sizes reported by the viewer, by page number
	PageSizes map[int]PageSize `json:"page_sizes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
