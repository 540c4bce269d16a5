package requests

import (
	"strings"

	"github.com/docstacker/docsign/fsm/config"
	"github.com/docstacker/docsign/types"
)

func (r *DefaultRequest) Validate() error {
	if r.CreatedAt.IsZero() {
		return types.Validationf("{CreatedAt} is not set")
	}

	return nil
}

func (r *SignatureCaptureRequest) Validate() error {
	if r.CreatedAt.IsZero() {
		return types.Validationf("{CreatedAt} is not set")
	}

	return nil
}

func (r *SignerSelectRequest) Validate() error {
	if r.Index < 0 {
		return types.Validationf("{Index} cannot be a negative number")
	}

	if r.CreatedAt.IsZero() {
		return types.Validationf("{CreatedAt} is not set")
	}

	return nil
}

func (r *ReSignRequest) Validate() error {
	if strings.TrimSpace(r.SignerID) == "" {
		return types.Validationf("{SignerID} cannot be empty")
	}

	if r.CreatedAt.IsZero() {
		return types.Validationf("{CreatedAt} is not set")
	}

	return nil
}

func (r *UploadRequest) Validate() error {
	if !r.HasCover {
		return types.Validationf("cover document is required")
	}

	if !r.HasBody {
		return types.Validationf("body document is required")
	}

	if len(r.Signers) < config.SignersMinCount {
		return types.Validationf("at least %d signer is required", config.SignersMinCount)
	}

	if len(r.Signers) > config.SignersMaxCount {
		return types.Validationf("at most %d signers are allowed", config.SignersMaxCount)
	}

	for i, s := range r.Signers {
		if strings.TrimSpace(s.Name) == "" {
			return types.Validationf("signer #%d must have a name", i+1)
		}
	}

	if r.CreatedAt.IsZero() {
		return types.Validationf("{CreatedAt} is not set")
	}

	return nil
}

func (r *DocumentsStackedRequest) Validate() error {
	if r.DocumentID == "" {
		return types.Validationf("{DocumentID} cannot be empty")
	}

	if r.PageCount < 1 {
		return types.Validationf("{PageCount} must be positive")
	}

	if r.PageWidth < 0 || r.PageHeight < 0 {
		return types.Validationf("page size cannot be negative")
	}

	if r.CreatedAt.IsZero() {
		return types.Validationf("{CreatedAt} is not set")
	}

	return nil
}

func (r *FieldsPlacedRequest) Validate() error {
	if len(r.Uncovered) > 0 {
		names := make([]string, 0, len(r.Uncovered))
		for _, s := range r.Uncovered {
			names = append(names, s.Name)
		}
		return types.Validationf("please add at least one signature field for: %s", strings.Join(names, ", "))
	}

	if r.FieldsCount == 0 {
		return types.Validationf("please add at least one signature field")
	}

	if r.CreatedAt.IsZero() {
		return types.Validationf("{CreatedAt} is not set")
	}

	return nil
}

func (r *DocumentSignedRequest) Validate() error {
	if r.SignedDocumentID == "" {
		return types.Validationf("{SignedDocumentID} cannot be empty")
	}

	if r.CreatedAt.IsZero() {
		return types.Validationf("{CreatedAt} is not set")
	}

	return nil
}

func (r *DocumentFinalizedRequest) Validate() error {
	if r.FinalDocumentID == "" {
		return types.Validationf("{FinalDocumentID} cannot be empty")
	}

	if r.CreatedAt.IsZero() {
		return types.Validationf("{CreatedAt} is not set")
	}

	return nil
}
