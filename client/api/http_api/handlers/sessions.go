package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	. "github.com/docstacker/docsign/client/api/dto"
	cs "github.com/docstacker/docsign/client/api/http_api/context_service"
	req "github.com/docstacker/docsign/client/api/http_api/requests"
)

func (a *HTTPApp) CreateSession(c echo.Context) error {
	stx := c.(*cs.ContextService)
	formDTO := &CreateSessionDTO{}
	if err := stx.BindToDTO(&req.CreateSessionForm{}, formDTO); err != nil {
		return err
	}

	sess, err := a.workflow.CreateSession(formDTO.Signers)
	if err != nil {
		return stx.JsonServiceError(err)
	}
	return stx.Json(http.StatusOK, sess.Snapshot())
}

func (a *HTTPApp) GetSession(c echo.Context) error {
	stx := c.(*cs.ContextService)
	formDTO := &SessionIdDTO{}
	if err := stx.BindToDTO(&req.SessionIdForm{}, formDTO); err != nil {
		return err
	}

	sess, err := a.session(stx, formDTO.SessionID)
	if sess == nil {
		return err
	}
	return stx.Json(http.StatusOK, sess.Snapshot())
}

func (a *HTTPApp) GetSessions(c echo.Context) error {
	stx := c.(*cs.ContextService)
	return stx.Json(http.StatusOK, a.workflow.ListSessions())
}

func (a *HTTPApp) DeleteSession(c echo.Context) error {
	stx := c.(*cs.ContextService)
	formDTO := &SessionIdDTO{}
	if err := stx.BindToDTO(&req.SessionIdForm{}, formDTO); err != nil {
		return err
	}

	if err := a.workflow.DeleteSession(formDTO.SessionID); err != nil {
		return stx.JsonServiceError(err)
	}
	return stx.Json(http.StatusOK, "ok")
}

func (a *HTTPApp) Back(c echo.Context) error {
	stx := c.(*cs.ContextService)
	formDTO := &SessionIdDTO{}
	if err := stx.BindToDTO(&req.SessionIdForm{}, formDTO); err != nil {
		return err
	}

	sess, err := a.session(stx, formDTO.SessionID)
	if sess == nil {
		return err
	}
	view, err := sess.Back()
	return reply(stx, view, err)
}

func (a *HTTPApp) GetAuditLog(c echo.Context) error {
	stx := c.(*cs.ContextService)
	formDTO := &SessionIdDTO{}
	if err := stx.BindToDTO(&req.SessionIdForm{}, formDTO); err != nil {
		return err
	}

	messages, err := a.workflow.AuditLog(formDTO.SessionID)
	return reply(stx, messages, err)
}

func (a *HTTPApp) GetFSMGraph(c echo.Context) error {
	stx := c.(*cs.ContextService)
	formDTO := &SessionIdDTO{}
	if err := stx.BindToDTO(&req.SessionIdForm{}, formDTO); err != nil {
		return err
	}

	sess, err := a.session(stx, formDTO.SessionID)
	if sess == nil {
		return err
	}
	return stx.Json(http.StatusOK, sess.FSMGraphs())
}
