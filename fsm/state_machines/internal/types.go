package internal

import (
	"time"

	"github.com/docstacker/docsign/types"
)

// SigningSequencePayload is the state of one signing session.
type SigningSequencePayload struct {
	// Signers in signing order, only those owning a signature field
	Signers []types.Signer
	// Signature fields of the document
	Fields     []types.SignatureField
	Signatures map[string]types.Raster
	Index      int

	SignatureMap types.SignatureMap `json:",omitempty"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p *SigningSequencePayload) SignersCount() int {
	return len(p.Signers)
}

func (p *SigningSequencePayload) Current() types.Signer {
	return p.Signers[p.Index]
}

func (p *SigningSequencePayload) HasSignature(signerID string) bool {
	return !p.Signatures[signerID].IsEmpty()
}

// FirstIncomplete returns the index of the first signer without a signature,
// or SignersCount when all have signed.
func (p *SigningSequencePayload) FirstIncomplete() int {
	for i, s := range p.Signers {
		if !p.HasSignature(s.ID) {
			return i
		}
	}
	return len(p.Signers)
}

func (p *SigningSequencePayload) AllComplete() bool {
	return p.FirstIncomplete() == len(p.Signers)
}

func (p *SigningSequencePayload) CompleteCount() int {
	count := 0
	for _, s := range p.Signers {
		if p.HasSignature(s.ID) {
			count++
		}
	}
	return count
}

func (p *SigningSequencePayload) SignerIndex(signerID string) int {
	for i, s := range p.Signers {
		if s.ID == signerID {
			return i
		}
	}
	return -1
}

// WorkflowPayload holds what the stages produce.
type WorkflowPayload struct {
	DocumentID       string
	PageCount        int
	PageWidth        float64
	PageHeight       float64
	SignedDocumentID string
	FinalDocumentID  string

	CreatedAt time.Time
	UpdatedAt time.Time
}
