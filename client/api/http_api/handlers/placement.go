package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	. "github.com/docstacker/docsign/client/api/dto"
	cs "github.com/docstacker/docsign/client/api/http_api/context_service"
	req "github.com/docstacker/docsign/client/api/http_api/requests"
	"github.com/docstacker/docsign/pkg/geometry"
	"github.com/docstacker/docsign/types"
)

// GetPageImage opens the page for dragging and returns its image.
func (a *HTTPApp) GetPageImage(c echo.Context) error {
	stx := c.(*cs.ContextService)
	formDTO := &PageDTO{}
	if err := stx.BindToDTO(&req.PageForm{}, formDTO); err != nil {
		return err
	}

	sess, err := a.session(stx, formDTO.SessionID)
	if sess == nil {
		return err
	}
	raster, err := sess.OpenPage(c.Request().Context(), formDTO.Page)
	if err != nil {
		return stx.JsonServiceError(err)
	}
	return stx.Blob(http.StatusOK, "image/png", raster)
}

func (a *HTTPApp) SetPageImageSize(c echo.Context) error {
	stx := c.(*cs.ContextService)
	formDTO := &PageImageSizeDTO{}
	if err := stx.BindToDTO(&req.PageImageSizeForm{}, formDTO); err != nil {
		return err
	}

	sess, err := a.session(stx, formDTO.SessionID)
	if sess == nil {
		return err
	}
	return reply(stx, "ok", sess.SetPageImageSize(formDTO.Page, formDTO.Width, formDTO.Height))
}

func (a *HTTPApp) AddField(c echo.Context) error {
	stx := c.(*cs.ContextService)
	formDTO := &AddFieldDTO{}
	if err := stx.BindToDTO(&req.AddFieldForm{}, formDTO); err != nil {
		return err
	}

	sess, err := a.session(stx, formDTO.SessionID)
	if sess == nil {
		return err
	}
	field, err := sess.AddField(types.FieldType(formDTO.FieldType), formDTO.SignerID, formDTO.Page)
	return reply(stx, field, err)
}

func (a *HTTPApp) MoveField(c echo.Context) error {
	stx := c.(*cs.ContextService)
	formDTO := &MoveFieldDTO{}
	if err := stx.BindToDTO(&req.MoveFieldForm{}, formDTO); err != nil {
		return err
	}

	sess, err := a.session(stx, formDTO.SessionID)
	if sess == nil {
		return err
	}
	field, err := sess.MoveField(formDTO.FieldID, geometry.Point{X: formDTO.DX, Y: formDTO.DY})
	return reply(stx, field, err)
}

func (a *HTTPApp) DeleteField(c echo.Context) error {
	stx := c.(*cs.ContextService)
	formDTO := &FieldIdDTO{}
	if err := stx.BindToDTO(&req.FieldIdForm{}, formDTO); err != nil {
		return err
	}

	sess, err := a.session(stx, formDTO.SessionID)
	if sess == nil {
		return err
	}
	return reply(stx, "ok", sess.DeleteField(formDTO.FieldID))
}

func (a *HTTPApp) GetFieldsOnPage(c echo.Context) error {
	stx := c.(*cs.ContextService)
	formDTO := &PageDTO{}
	if err := stx.BindToDTO(&req.PageForm{}, formDTO); err != nil {
		return err
	}

	sess, err := a.session(stx, formDTO.SessionID)
	if sess == nil {
		return err
	}
	return stx.Json(http.StatusOK, sess.FieldsOnPage(formDTO.Page))
}

// GetCoverage lists the signers that still have no field.
func (a *HTTPApp) GetCoverage(c echo.Context) error {
	stx := c.(*cs.ContextService)
	formDTO := &SessionIdDTO{}
	if err := stx.BindToDTO(&req.SessionIdForm{}, formDTO); err != nil {
		return err
	}

	sess, err := a.session(stx, formDTO.SessionID)
	if sess == nil {
		return err
	}
	uncovered := sess.Coverage()
	if uncovered == nil {
		uncovered = []types.Signer{}
	}
	return stx.Json(http.StatusOK, uncovered)
}

func (a *HTTPApp) PointerDown(c echo.Context) error {
	stx := c.(*cs.ContextService)
	formDTO := &PointerDownDTO{}
	if err := stx.BindToDTO(&req.PointerDownForm{}, formDTO); err != nil {
		return err
	}

	sess, err := a.session(stx, formDTO.SessionID)
	if sess == nil {
		return err
	}
	err = sess.PointerDown(formDTO.Page, formDTO.FieldID, geometry.Point{X: formDTO.X, Y: formDTO.Y})
	return reply(stx, "ok", err)
}

func (a *HTTPApp) PointerMove(c echo.Context) error {
	stx := c.(*cs.ContextService)
	formDTO := &PointerMoveDTO{}
	if err := stx.BindToDTO(&req.PointerMoveForm{}, formDTO); err != nil {
		return err
	}

	sess, err := a.session(stx, formDTO.SessionID)
	if sess == nil {
		return err
	}
	field, err := sess.PointerMove(geometry.Point{X: formDTO.X, Y: formDTO.Y})
	return reply(stx, field, err)
}

func (a *HTTPApp) PointerUp(c echo.Context) error {
	stx := c.(*cs.ContextService)
	formDTO := &SessionIdDTO{}
	if err := stx.BindToDTO(&req.SessionIdForm{}, formDTO); err != nil {
		return err
	}

	sess, err := a.session(stx, formDTO.SessionID)
	if sess == nil {
		return err
	}
	field, err := sess.PointerUp()
	return reply(stx, field, err)
}

func (a *HTTPApp) AutoPlaceFields(c echo.Context) error {
	stx := c.(*cs.ContextService)
	formDTO := &AutoPlaceDTO{}
	if err := stx.BindToDTO(&req.AutoPlaceForm{}, formDTO); err != nil {
		return err
	}

	sess, err := a.session(stx, formDTO.SessionID)
	if sess == nil {
		return err
	}
	placed, err := sess.AutoPlace([]byte(formDTO.Seed))
	return reply(stx, placed, err)
}

func (a *HTTPApp) ReloadFields(c echo.Context) error {
	stx := c.(*cs.ContextService)
	formDTO := &SessionIdDTO{}
	if err := stx.BindToDTO(&req.SessionIdForm{}, formDTO); err != nil {
		return err
	}

	sess, err := a.session(stx, formDTO.SessionID)
	if sess == nil {
		return err
	}
	fields, err := sess.ReloadFields(c.Request().Context())
	return reply(stx, fields, err)
}

func (a *HTTPApp) CompletePlacement(c echo.Context) error {
	stx := c.(*cs.ContextService)
	formDTO := &SessionIdDTO{}
	if err := stx.BindToDTO(&req.SessionIdForm{}, formDTO); err != nil {
		return err
	}

	sess, err := a.session(stx, formDTO.SessionID)
	if sess == nil {
		return err
	}
	view, err := sess.CompletePlacement(c.Request().Context())
	return reply(stx, view, err)
}
