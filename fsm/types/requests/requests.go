package requests

import (
	"time"

	"github.com/docstacker/docsign/types"
)

// Events: "event_signer_next", "event_signer_previous",
// "event_signatures_finalize", "event_signatures_reopen",
// "event_workflow_back_*"
type DefaultRequest struct {
	CreatedAt time.Time
}

// States: "state_signer_editing"
// Events: "event_signature_capture"
type SignatureCaptureRequest struct {
	// Nil clears the signature of the current signer
	Raster    types.Raster
	CreatedAt time.Time
}

// States: "state_signer_editing", "state_signer_reviewing"
// Events: "event_signer_select"
type SignerSelectRequest struct {
	Index     int
	CreatedAt time.Time
}

// States: "state_signer_editing", "state_signer_reviewing"
// Events: "event_signer_resign"
type ReSignRequest struct {
	SignerID  string
	CreatedAt time.Time
}

// Checked before the documents are sent for stacking.
type UploadRequest struct {
	HasCover  bool
	HasBody   bool
	Signers   []types.Signer
	CreatedAt time.Time
}

// States: "stage_upload"
// Events: "event_documents_stacked"
type DocumentsStackedRequest struct {
	DocumentID string
	PageCount  int
	PageWidth  float64
	PageHeight float64
	CreatedAt  time.Time
}

// States: "stage_place_fields"
// Events: "event_fields_placed"
type FieldsPlacedRequest struct {
	// Signers lacking any field
	Uncovered   []types.Signer
	FieldsCount int
	CreatedAt   time.Time
}

// States: "stage_sign"
// Events: "event_document_signed"
type DocumentSignedRequest struct {
	SignedDocumentID string
	CreatedAt        time.Time
}

// States: "stage_download"
// Events: "event_document_finalized"
type DocumentFinalizedRequest struct {
	FinalDocumentID string
	CreatedAt       time.Time
}
