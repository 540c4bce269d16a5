package handlers

import (
	"github.com/labstack/echo/v4"

	. "github.com/docstacker/docsign/client/api/dto"
	cs "github.com/docstacker/docsign/client/api/http_api/context_service"
	req "github.com/docstacker/docsign/client/api/http_api/requests"
)

func (a *HTTPApp) AddSigner(c echo.Context) error {
	stx := c.(*cs.ContextService)
	formDTO := &SignerNameDTO{}
	if err := stx.BindToDTO(&req.SignerNameForm{}, formDTO); err != nil {
		return err
	}

	sess, err := a.session(stx, formDTO.SessionID)
	if sess == nil {
		return err
	}
	signer, err := sess.AddSigner(formDTO.Name)
	return reply(stx, signer, err)
}

func (a *HTTPApp) RemoveSigner(c echo.Context) error {
	stx := c.(*cs.ContextService)
	formDTO := &SignerIdDTO{}
	if err := stx.BindToDTO(&req.SignerIdForm{}, formDTO); err != nil {
		return err
	}

	sess, err := a.session(stx, formDTO.SessionID)
	if sess == nil {
		return err
	}
	if err = sess.RemoveSigner(formDTO.SignerID); err != nil {
		return stx.JsonServiceError(err)
	}
	return reply(stx, sess.Roster(), nil)
}

func (a *HTTPApp) RenameSigner(c echo.Context) error {
	stx := c.(*cs.ContextService)
	formDTO := &RenameSignerDTO{}
	if err := stx.BindToDTO(&req.RenameSignerForm{}, formDTO); err != nil {
		return err
	}

	sess, err := a.session(stx, formDTO.SessionID)
	if sess == nil {
		return err
	}
	signer, err := sess.RenameSigner(formDTO.SignerID, formDTO.Name)
	return reply(stx, signer, err)
}
