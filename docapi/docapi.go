package docapi

import (
	"context"

	"github.com/docstacker/docsign/types"
)

// Document is a source file sent for stacking.
type Document struct {
	Filename string
	Content  []byte
}

func (d *Document) Present() bool {
	return d != nil && len(d.Content) > 0
}

// StackRequest holds the source documents. Cover and Body are mandatory.
type StackRequest struct {
	Letterhead *Document
	Cover      *Document
	Body       *Document
	Terms      *Document
	Stamp      *Document
}

type StackResult struct {
	DocumentID string `json:"documentId"`
	PageCount  int    `json:"pageCount"`
	Message    string `json:"message,omitempty"`
}

type DocumentInfo struct {
	DocumentID string  `json:"documentId"`
	PageCount  int     `json:"pageCount"`
	PageWidth  float64 `json:"pageWidth"`
	PageHeight float64 `json:"pageHeight"`
}

// DocumentService is the document backend. Every failed call is reported as
// types.ErrCollaboratorFailure.
type DocumentService interface {
	Stack(ctx context.Context, request StackRequest) (StackResult, error)
	GetDocumentInfo(ctx context.Context, documentID string) (DocumentInfo, error)
	// GetPageImage returns the rendered page, pages are 0-indexed
	GetPageImage(ctx context.Context, documentID string, page int) (types.Raster, error)
	SaveFields(ctx context.Context, documentID string, fields []types.SignatureField) error
	GetFields(ctx context.Context, documentID string) ([]types.SignatureField, error)
	// Sign returns the id of the signed document
	Sign(ctx context.Context, documentID string, signatures types.SignatureMap) (string, error)
	// Finalize returns the id of the flattened document
	Finalize(ctx context.Context, documentID string) (string, error)
	DownloadURL(documentID string) string
	PreviewURL(documentID string) string
}
