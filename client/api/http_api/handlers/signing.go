package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/docstacker/docsign/capture"
	. "github.com/docstacker/docsign/client/api/dto"
	cs "github.com/docstacker/docsign/client/api/http_api/context_service"
	req "github.com/docstacker/docsign/client/api/http_api/requests"
	"github.com/docstacker/docsign/client/api/http_api/responses"
)

func (a *HTTPApp) GetTypedStyles(c echo.Context) error {
	stx := c.(*cs.ContextService)
	return stx.Json(http.StatusOK, responses.TypedStylesResponse{
		Styles:  capture.Styles(),
		Default: capture.DefaultStyle,
	})
}

func (a *HTTPApp) CaptureFreehand(c echo.Context) error {
	stx := c.(*cs.ContextService)
	formDTO := &CaptureFreehandDTO{}
	if err := stx.BindToDTO(&req.CaptureFreehandForm{}, formDTO); err != nil {
		return err
	}

	sess, err := a.session(stx, formDTO.SessionID)
	if sess == nil {
		return err
	}
	strokes := make([]capture.Stroke, 0, len(formDTO.Strokes))
	for _, s := range formDTO.Strokes {
		strokes = append(strokes, s)
	}
	status, err := sess.CaptureFreehand(strokes)
	return reply(stx, status, err)
}

func (a *HTTPApp) CaptureTyped(c echo.Context) error {
	stx := c.(*cs.ContextService)
	formDTO := &CaptureTypedDTO{}
	if err := stx.BindToDTO(&req.CaptureTypedForm{}, formDTO); err != nil {
		return err
	}

	sess, err := a.session(stx, formDTO.SessionID)
	if sess == nil {
		return err
	}
	status, scale, err := sess.CaptureTyped(formDTO.Name, formDTO.Style)
	return reply(stx, responses.CaptureTypedResponse{Status: status, Scale: scale}, err)
}

func (a *HTTPApp) ClearSignature(c echo.Context) error {
	stx := c.(*cs.ContextService)
	formDTO := &SessionIdDTO{}
	if err := stx.BindToDTO(&req.SessionIdForm{}, formDTO); err != nil {
		return err
	}

	sess, err := a.session(stx, formDTO.SessionID)
	if sess == nil {
		return err
	}
	status, err := sess.ClearSignature()
	return reply(stx, status, err)
}

func (a *HTTPApp) NextSigner(c echo.Context) error {
	stx := c.(*cs.ContextService)
	formDTO := &SessionIdDTO{}
	if err := stx.BindToDTO(&req.SessionIdForm{}, formDTO); err != nil {
		return err
	}

	sess, err := a.session(stx, formDTO.SessionID)
	if sess == nil {
		return err
	}
	status, err := sess.NextSigner()
	return reply(stx, status, err)
}

func (a *HTTPApp) PreviousSigner(c echo.Context) error {
	stx := c.(*cs.ContextService)
	formDTO := &SessionIdDTO{}
	if err := stx.BindToDTO(&req.SessionIdForm{}, formDTO); err != nil {
		return err
	}

	sess, err := a.session(stx, formDTO.SessionID)
	if sess == nil {
		return err
	}
	status, err := sess.PreviousSigner()
	return reply(stx, status, err)
}

func (a *HTTPApp) SelectSigner(c echo.Context) error {
	stx := c.(*cs.ContextService)
	formDTO := &SelectSignerDTO{}
	if err := stx.BindToDTO(&req.SelectSignerForm{}, formDTO); err != nil {
		return err
	}

	sess, err := a.session(stx, formDTO.SessionID)
	if sess == nil {
		return err
	}
	status, err := sess.SelectSigner(formDTO.Index)
	return reply(stx, status, err)
}

func (a *HTTPApp) ReSign(c echo.Context) error {
	stx := c.(*cs.ContextService)
	formDTO := &SignerIdDTO{}
	if err := stx.BindToDTO(&req.SignerIdForm{}, formDTO); err != nil {
		return err
	}

	sess, err := a.session(stx, formDTO.SessionID)
	if sess == nil {
		return err
	}
	status, err := sess.ReSign(formDTO.SignerID)
	return reply(stx, status, err)
}

func (a *HTTPApp) GetSigningStatus(c echo.Context) error {
	stx := c.(*cs.ContextService)
	formDTO := &SessionIdDTO{}
	if err := stx.BindToDTO(&req.SessionIdForm{}, formDTO); err != nil {
		return err
	}

	sess, err := a.session(stx, formDTO.SessionID)
	if sess == nil {
		return err
	}
	status, err := sess.SigningStatus()
	return reply(stx, status, err)
}

func (a *HTTPApp) CompleteSigning(c echo.Context) error {
	stx := c.(*cs.ContextService)
	formDTO := &SessionIdDTO{}
	if err := stx.BindToDTO(&req.SessionIdForm{}, formDTO); err != nil {
		return err
	}

	sess, err := a.session(stx, formDTO.SessionID)
	if sess == nil {
		return err
	}
	view, err := sess.CompleteSigning(c.Request().Context())
	return reply(stx, view, err)
}
