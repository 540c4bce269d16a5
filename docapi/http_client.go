package docapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/docstacker/docsign/types"
)

const maxErrorBody = 512

// HTTPClient talks to the document backend REST API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates a client for baseURL. A zero timeout means none.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) documentURL(documentID string, parts ...string) string {
	u := fmt.Sprintf("%s/api/documents/%s", c.baseURL, url.PathEscape(documentID))
	if len(parts) > 0 {
		u += "/" + strings.Join(parts, "/")
	}
	return u
}

func (c *HTTPClient) Stack(ctx context.Context, request StackRequest) (StackResult, error) {
	var result StackResult

	if !request.Cover.Present() || !request.Body.Present() {
		return result, types.Validationf("cover and body documents are required")
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	parts := []struct {
		name string
		doc  *Document
	}{
		{"letterhead", request.Letterhead},
		{"cover", request.Cover},
		{"body", request.Body},
		{"terms", request.Terms},
		{"stamp", request.Stamp},
	}
	for _, part := range parts {
		if !part.doc.Present() {
			continue
		}
		filename := part.doc.Filename
		if filename == "" {
			filename = part.name + ".pdf"
		}
		w, err := writer.CreateFormFile(part.name, filename)
		if err != nil {
			return result, fmt.Errorf("failed to create form file %s: %w", part.name, err)
		}
		if _, err = w.Write(part.doc.Content); err != nil {
			return result, fmt.Errorf("failed to write form file %s: %w", part.name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return result, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	err := c.do(ctx, http.MethodPost, c.baseURL+"/api/stack", writer.FormDataContentType(), body, &result)
	if err != nil {
		return result, err
	}
	if result.DocumentID == "" {
		return result, fmt.Errorf("%w: stack returned an empty document id", types.ErrCollaboratorFailure)
	}
	return result, nil
}

func (c *HTTPClient) GetDocumentInfo(ctx context.Context, documentID string) (DocumentInfo, error) {
	var info DocumentInfo
	err := c.do(ctx, http.MethodGet, c.documentURL(documentID, "info"), "", nil, &info)
	return info, err
}

func (c *HTTPClient) GetPageImage(ctx context.Context, documentID string, page int) (types.Raster, error) {
	if page < 0 {
		return nil, types.Validationf("page number cannot be negative")
	}

	var buf bytes.Buffer
	err := c.do(ctx, http.MethodGet, c.documentURL(documentID, "pages", fmt.Sprint(page), "image"), "", nil, &buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *HTTPClient) SaveFields(ctx context.Context, documentID string, fields []types.SignatureField) error {
	if fields == nil {
		fields = []types.SignatureField{}
	}
	payload, err := json.Marshal(map[string]interface{}{"fields": fields})
	if err != nil {
		return fmt.Errorf("failed to marshal fields: %w", err)
	}
	return c.do(ctx, http.MethodPost, c.documentURL(documentID, "fields"), "application/json", bytes.NewReader(payload), nil)
}

func (c *HTTPClient) GetFields(ctx context.Context, documentID string) ([]types.SignatureField, error) {
	var fields []types.SignatureField
	err := c.do(ctx, http.MethodGet, c.documentURL(documentID, "fields"), "", nil, &fields)
	return fields, err
}

func (c *HTTPClient) Sign(ctx context.Context, documentID string, signatures types.SignatureMap) (string, error) {
	payload, err := json.Marshal(map[string]interface{}{"signatures": signatures})
	if err != nil {
		return "", fmt.Errorf("failed to marshal signatures: %w", err)
	}

	var result struct {
		DocumentID string `json:"documentId"`
	}
	if err = c.do(ctx, http.MethodPost, c.documentURL(documentID, "sign"), "application/json", bytes.NewReader(payload), &result); err != nil {
		return "", err
	}
	if result.DocumentID == "" {
		return "", fmt.Errorf("%w: sign returned an empty document id", types.ErrCollaboratorFailure)
	}
	return result.DocumentID, nil
}

func (c *HTTPClient) Finalize(ctx context.Context, documentID string) (string, error) {
	var result struct {
		DocumentID string `json:"documentId"`
	}
	if err := c.do(ctx, http.MethodPost, c.documentURL(documentID, "finalize"), "", nil, &result); err != nil {
		return "", err
	}
	if result.DocumentID == "" {
		return "", fmt.Errorf("%w: finalize returned an empty document id", types.ErrCollaboratorFailure)
	}
	return result.DocumentID, nil
}

func (c *HTTPClient) DownloadURL(documentID string) string {
	return c.documentURL(documentID, "download")
}

func (c *HTTPClient) PreviewURL(documentID string) string {
	return c.documentURL(documentID, "preview")
}

// do performs the request. out may be nil, a *bytes.Buffer for raw bodies or
// a value to decode JSON into.
func (c *HTTPClient) do(ctx context.Context, method, u, contentType string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", types.ErrCollaboratorFailure, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", types.ErrCollaboratorFailure, method, u, err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response body: %v", types.ErrCollaboratorFailure, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if len(responseBody) > maxErrorBody {
			responseBody = responseBody[:maxErrorBody]
		}
		return fmt.Errorf("%w: %s %s: status %d: %s", types.ErrCollaboratorFailure, method, u, resp.StatusCode, strings.TrimSpace(string(responseBody)))
	}

	switch o := out.(type) {
	case nil:
		return nil
	case *bytes.Buffer:
		o.Write(responseBody)
		return nil
	default:
		if err = json.Unmarshal(responseBody, out); err != nil {
			return fmt.Errorf("%w: failed to decode response of %s: %v", types.ErrCollaboratorFailure, u, err)
		}
		return nil
	}
}
