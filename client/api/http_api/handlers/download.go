package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	. "github.com/docstacker/docsign/client/api/dto"
	cs "github.com/docstacker/docsign/client/api/http_api/context_service"
	req "github.com/docstacker/docsign/client/api/http_api/requests"
	"github.com/docstacker/docsign/client/api/http_api/responses"
)

func (a *HTTPApp) FinalizeDocument(c echo.Context) error {
	stx := c.(*cs.ContextService)
	formDTO := &SessionIdDTO{}
	if err := stx.BindToDTO(&req.SessionIdForm{}, formDTO); err != nil {
		return err
	}

	sess, err := a.session(stx, formDTO.SessionID)
	if sess == nil {
		return err
	}
	view, err := sess.FinalizeDocument(c.Request().Context())
	return reply(stx, view, err)
}

func (a *HTTPApp) GetDownloadURL(c echo.Context) error {
	stx := c.(*cs.ContextService)
	formDTO := &SessionIdDTO{}
	if err := stx.BindToDTO(&req.SessionIdForm{}, formDTO); err != nil {
		return err
	}

	sess, err := a.session(stx, formDTO.SessionID)
	if sess == nil {
		return err
	}
	downloadURL, err := sess.DownloadURL()
	if err != nil {
		return stx.JsonServiceError(err)
	}
	previewURL, err := sess.PreviewURL()
	return reply(stx, responses.DownloadURLResponse{DownloadURL: downloadURL, PreviewURL: previewURL}, err)
}

func (a *HTTPApp) GetDownloadQR(c echo.Context) error {
	stx := c.(*cs.ContextService)
	formDTO := &SessionIdDTO{}
	if err := stx.BindToDTO(&req.SessionIdForm{}, formDTO); err != nil {
		return err
	}

	sess, err := a.session(stx, formDTO.SessionID)
	if sess == nil {
		return err
	}
	png, err := sess.DownloadQR()
	if err != nil {
		return stx.JsonServiceError(err)
	}
	return stx.Blob(http.StatusOK, "image/png", png)
}
