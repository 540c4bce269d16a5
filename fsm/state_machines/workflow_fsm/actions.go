package workflow_fsm

import (
	"github.com/docstacker/docsign/fsm/fsm"
	"github.com/docstacker/docsign/fsm/state_machines/internal"
	"github.com/docstacker/docsign/fsm/types/requests"
	"github.com/docstacker/docsign/fsm/types/responses"
)

func (m *WorkflowFSM) actionDocumentsStacked(inEvent fsm.Event, args ...interface{}) (outEvent fsm.Event, response interface{}, err error) {
	m.payloadMu.Lock()
	defer m.payloadMu.Unlock()

	if len(args) != 1 {
		err = fsm.NewErr(fsm.ErrorLevel, "{arg0} required {DocumentsStackedRequest}")
		return
	}

	request, ok := args[0].(requests.DocumentsStackedRequest)
	if !ok {
		err = fsm.NewErr(fsm.ErrorLevel, "cannot cast {arg0} to type {DocumentsStackedRequest}")
		return
	}

	if err = request.Validate(); err != nil {
		return
	}

	if m.payload.CreatedAt.IsZero() {
		m.payload.CreatedAt = request.CreatedAt
	}
	m.payload.DocumentID = request.DocumentID
	m.payload.PageCount = request.PageCount
	m.payload.PageWidth = request.PageWidth
	m.payload.PageHeight = request.PageHeight
	m.payload.SignedDocumentID = ""
	m.payload.FinalDocumentID = ""
	m.payload.UpdatedAt = request.CreatedAt

	return inEvent, m.stageResponse(StagePlaceFields), nil
}

func (m *WorkflowFSM) actionFieldsPlaced(inEvent fsm.Event, args ...interface{}) (outEvent fsm.Event, response interface{}, err error) {
	m.payloadMu.Lock()
	defer m.payloadMu.Unlock()

	if len(args) != 1 {
		err = fsm.NewErr(fsm.ErrorLevel, "{arg0} required {FieldsPlacedRequest}")
		return
	}

	request, ok := args[0].(requests.FieldsPlacedRequest)
	if !ok {
		err = fsm.NewErr(fsm.ErrorLevel, "cannot cast {arg0} to type {FieldsPlacedRequest}")
		return
	}

	if err = request.Validate(); err != nil {
		return
	}

	m.payload.UpdatedAt = request.CreatedAt

	return inEvent, m.stageResponse(StageSign), nil
}

func (m *WorkflowFSM) actionDocumentSigned(inEvent fsm.Event, args ...interface{}) (outEvent fsm.Event, response interface{}, err error) {
	m.payloadMu.Lock()
	defer m.payloadMu.Unlock()

	if len(args) != 1 {
		err = fsm.NewErr(fsm.ErrorLevel, "{arg0} required {DocumentSignedRequest}")
		return
	}

	request, ok := args[0].(requests.DocumentSignedRequest)
	if !ok {
		err = fsm.NewErr(fsm.ErrorLevel, "cannot cast {arg0} to type {DocumentSignedRequest}")
		return
	}

	if err = request.Validate(); err != nil {
		return
	}

	m.payload.SignedDocumentID = request.SignedDocumentID
	// a previous final artifact belongs to an older signing round
	m.payload.FinalDocumentID = ""
	m.payload.UpdatedAt = request.CreatedAt

	return inEvent, m.stageResponse(StageDownload), nil
}

func (m *WorkflowFSM) actionDocumentFinalized(inEvent fsm.Event, args ...interface{}) (outEvent fsm.Event, response interface{}, err error) {
	m.payloadMu.Lock()
	defer m.payloadMu.Unlock()

	if len(args) != 1 {
		err = fsm.NewErr(fsm.ErrorLevel, "{arg0} required {DocumentFinalizedRequest}")
		return
	}

	request, ok := args[0].(requests.DocumentFinalizedRequest)
	if !ok {
		err = fsm.NewErr(fsm.ErrorLevel, "cannot cast {arg0} to type {DocumentFinalizedRequest}")
		return
	}

	if err = request.Validate(); err != nil {
		return
	}

	m.payload.FinalDocumentID = request.FinalDocumentID
	m.payload.UpdatedAt = request.CreatedAt

	return inEvent, m.stageResponse(StageDownload), nil
}

func (m *WorkflowFSM) actionBack(inEvent fsm.Event, args ...interface{}) (outEvent fsm.Event, response interface{}, err error) {
	m.payloadMu.Lock()
	defer m.payloadMu.Unlock()

	if len(args) != 1 {
		err = fsm.NewErr(fsm.ErrorLevel, "{arg0} required {DefaultRequest}")
		return
	}

	request, ok := args[0].(requests.DefaultRequest)
	if !ok {
		err = fsm.NewErr(fsm.ErrorLevel, "cannot cast {arg0} to type {DefaultRequest}")
		return
	}

	if err = request.Validate(); err != nil {
		return
	}

	var dst fsm.State
	switch m.FSM.State() {
	case StagePlaceFields:
		outEvent, dst = eventBackToUploadInternal, StageUpload
	case StageSign:
		outEvent, dst = eventBackToPlaceFieldsInternal, StagePlaceFields
	case StageDownload:
		outEvent, dst = eventBackToSignInternal, StageSign
	default:
		err = fsm.NewErrf(fsm.ErrorLevel, "cannot go back from stage \"%s\"", m.FSM.State())
		return
	}

	m.payload.UpdatedAt = request.CreatedAt

	return outEvent, m.stageResponse(dst), nil
}

func (m *WorkflowFSM) stageResponse(stage fsm.State) responses.WorkflowStageResponse {
	return responses.WorkflowStageResponse{
		Stage:            string(stage),
		DocumentID:       m.payload.DocumentID,
		SignedDocumentID: m.payload.SignedDocumentID,
		FinalDocumentID:  m.payload.FinalDocumentID,
	}
}

// Payload returns a copy of the machine payload.
func (m *WorkflowFSM) Payload() internal.WorkflowPayload {
	m.payloadMu.RLock()
	defer m.payloadMu.RUnlock()

	return *m.payload
}

// ResultDocumentID is the final artifact if finalized, the signed one
// otherwise.
func (m *WorkflowFSM) ResultDocumentID() string {
	m.payloadMu.RLock()
	defer m.payloadMu.RUnlock()

	if m.payload.FinalDocumentID != "" {
		return m.payload.FinalDocumentID
	}
	return m.payload.SignedDocumentID
}
