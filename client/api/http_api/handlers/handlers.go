package handlers

import (
	cs "github.com/docstacker/docsign/client/api/http_api/context_service"
	"github.com/docstacker/docsign/client/services"
	"github.com/docstacker/docsign/client/services/workflow"
	"github.com/docstacker/docsign/common"
)

type HTTPApp struct {
	workflow workflow.Service
	logger   common.Logger
}

func NewHTTPApp(sp *services.ServiceProvider) *HTTPApp {
	return &HTTPApp{
		workflow: sp.WorkflowService(),
		logger:   sp.Logger(),
	}
}

// session looks up the session, writing the error response when it is
// missing.
func (a *HTTPApp) session(stx *cs.ContextService, sessionID string) (*workflow.Session, error) {
	sess, err := a.workflow.GetSession(sessionID)
	if err != nil {
		return nil, stx.JsonServiceError(err)
	}
	return sess, nil
}

// reply writes data, or the error with its mapped status.
func reply(stx *cs.ContextService, data interface{}, err error) error {
	if err != nil {
		return stx.JsonServiceError(err)
	}
	return stx.Json(200, data)
}
