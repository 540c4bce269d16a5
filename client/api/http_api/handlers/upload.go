package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	. "github.com/docstacker/docsign/client/api/dto"
	cs "github.com/docstacker/docsign/client/api/http_api/context_service"
	req "github.com/docstacker/docsign/client/api/http_api/requests"
	"github.com/docstacker/docsign/docapi"
)

// maxDocumentSize caps a single uploaded document.
const maxDocumentSize = 64 << 20

func readDocument(c echo.Context, name string) (*docapi.Document, error) {
	fh, err := c.FormFile(name)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, maxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if len(content) > maxDocumentSize {
		return nil, fmt.Errorf("%s exceeds %d bytes", name, maxDocumentSize)
	}
	return &docapi.Document{Filename: fh.Filename, Content: content}, nil
}

// StackDocuments accepts a multipart form with the letterhead, cover, body,
// terms and stamp files. Cover and body are required.
func (a *HTTPApp) StackDocuments(c echo.Context) error {
	stx := c.(*cs.ContextService)
	formDTO := &SessionIdDTO{}
	if err := stx.BindToDTO(&req.SessionIdForm{}, formDTO); err != nil {
		return err
	}

	sess, err := a.session(stx, formDTO.SessionID)
	if sess == nil {
		return err
	}

	var (
		request docapi.StackRequest
		parts   = []struct {
			name string
			dst  **docapi.Document
		}{
			{"letterhead", &request.Letterhead},
			{"cover", &request.Cover},
			{"body", &request.Body},
			{"terms", &request.Terms},
			{"stamp", &request.Stamp},
		}
	)
	for _, part := range parts {
		if *part.dst, err = readDocument(c, part.name); err != nil {
			return stx.JsonError(http.StatusBadRequest, err)
		}
	}

	view, err := sess.StackDocuments(c.Request().Context(), request)
	return reply(stx, view, err)
}
