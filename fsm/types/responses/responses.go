package responses

import "github.com/docstacker/docsign/types"

// Event:  "" (status query)
// States: any of signing_sequence_fsm
type SigningStatusResponse struct {
	State         string
	Index         int
	Total         int
	CompleteCount int
	AllComplete   bool
	// False for a single signer sequence
	NavigationAvailable bool
	AvailableEvents     []string
	Signers             []*SignerStatusEntry
}

type SignerStatusEntry struct {
	SignerID string
	Name     string
	Color    string
	Complete bool
	// BLAKE2b digest of the captured image
	Digest string
}

// Event:  "event_signatures_finalize"
// States: "state_signatures_finalized"
type SignaturesFinalizedResponse struct {
	SignatureMap types.SignatureMap
}

// Event:  any of workflow_fsm
type WorkflowStageResponse struct {
	Stage            string
	DocumentID       string
	SignedDocumentID string
	FinalDocumentID  string
}
