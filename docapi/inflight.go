package docapi

import (
	"context"
	"fmt"
	"sync"

	"github.com/docstacker/docsign/types"
)

// stackKey guards Stack calls, which have no document id yet.
const stackKey = "\x00stack"

// InflightGuard rejects a call for a document while another call for the same
// document is still running.
type InflightGuard struct {
	next DocumentService

	mu       sync.Mutex
	inflight map[string]bool
}

func NewInflightGuard(next DocumentService) *InflightGuard {
	return &InflightGuard{
		next:     next,
		inflight: make(map[string]bool),
	}
}

func (g *InflightGuard) acquire(key string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.inflight[key] {
		return nil, fmt.Errorf("%w: %q", types.ErrRequestInFlight, key)
	}
	g.inflight[key] = true

	return func() {
		g.mu.Lock()
		delete(g.inflight, key)
		g.mu.Unlock()
	}, nil
}

func (g *InflightGuard) Stack(ctx context.Context, request StackRequest) (StackResult, error) {
	release, err := g.acquire(stackKey)
	if err != nil {
		return StackResult{}, err
	}
	defer release()

	return g.next.Stack(ctx, request)
}

func (g *InflightGuard) GetDocumentInfo(ctx context.Context, documentID string) (DocumentInfo, error) {
	release, err := g.acquire(documentID)
	if err != nil {
		return DocumentInfo{}, err
	}
	defer release()

	return g.next.GetDocumentInfo(ctx, documentID)
}

// GetPageImage is keyed by page so that pages of one document load in
// parallel.
func (g *InflightGuard) GetPageImage(ctx context.Context, documentID string, page int) (types.Raster, error) {
	release, err := g.acquire(fmt.Sprintf("%s/pages/%d", documentID, page))
	if err != nil {
		return nil, err
	}
	defer release()

	return g.next.GetPageImage(ctx, documentID, page)
}

func (g *InflightGuard) SaveFields(ctx context.Context, documentID string, fields []types.SignatureField) error {
	release, err := g.acquire(documentID)
	if err != nil {
		return err
	}
	defer release()

	return g.next.SaveFields(ctx, documentID, fields)
}

func (g *InflightGuard) GetFields(ctx context.Context, documentID string) ([]types.SignatureField, error) {
	release, err := g.acquire(documentID)
	if err != nil {
		return nil, err
	}
	defer release()

	return g.next.GetFields(ctx, documentID)
}

func (g *InflightGuard) Sign(ctx context.Context, documentID string, signatures types.SignatureMap) (string, error) {
	release, err := g.acquire(documentID)
	if err != nil {
		return "", err
	}
	defer release()

	return g.next.Sign(ctx, documentID, signatures)
}

func (g *InflightGuard) Finalize(ctx context.Context, documentID string) (string, error) {
	release, err := g.acquire(documentID)
	if err != nil {
		return "", err
	}
	defer release()

	return g.next.Finalize(ctx, documentID)
}

func (g *InflightGuard) DownloadURL(documentID string) string {
	return g.next.DownloadURL(documentID)
}

func (g *InflightGuard) PreviewURL(documentID string) string {
	return g.next.PreviewURL(documentID)
}
