package workflow_fsm

import (
	"sync"

	"github.com/docstacker/docsign/fsm/fsm"
	"github.com/docstacker/docsign/fsm/state_machines/internal"
	"github.com/docstacker/docsign/types"
)

const (
	FsmName = "workflow_fsm"

	StageUpload      = fsm.State("stage_upload")
	StagePlaceFields = fsm.State("stage_place_fields")
	StageSign        = fsm.State("stage_sign")
	StageDownload    = fsm.State("stage_download")

	// Events

	EventDocumentsStacked  = fsm.Event("event_documents_stacked")
	EventFieldsPlaced      = fsm.Event("event_fields_placed")
	EventDocumentSigned    = fsm.Event("event_document_signed")
	EventDocumentFinalized = fsm.Event("event_document_finalized")
	EventBack              = fsm.Event("event_workflow_back")

	eventBackToUploadInternal      = fsm.Event("event_workflow_back_to_upload_internal")
	eventBackToPlaceFieldsInternal = fsm.Event("event_workflow_back_to_place_fields_internal")
	eventBackToSignInternal        = fsm.Event("event_workflow_back_to_sign_internal")
)

// Stages in order.
var Stages = []fsm.State{StageUpload, StagePlaceFields, StageSign, StageDownload}

type WorkflowFSM struct {
	*fsm.FSM
	payload   *internal.WorkflowPayload
	payloadMu sync.RWMutex
}

func newMachine() *WorkflowFSM {
	machine := &WorkflowFSM{}

	machine.FSM = fsm.MustNewFSM(
		FsmName,
		StageUpload,
		[]fsm.EventDesc{
			// Forward
			{Name: EventDocumentsStacked, SrcState: []fsm.State{StageUpload}, DstState: StagePlaceFields},
			{Name: EventFieldsPlaced, SrcState: []fsm.State{StagePlaceFields}, DstState: StageSign},
			{Name: EventDocumentSigned, SrcState: []fsm.State{StageSign}, DstState: StageDownload},
			{Name: EventDocumentFinalized, SrcState: []fsm.State{StageDownload}, DstState: StageDownload},

			// Back, the destination is chosen by the action
			{Name: EventBack, SrcState: []fsm.State{StagePlaceFields, StageSign, StageDownload}, DstState: StageUpload},
			{Name: eventBackToUploadInternal, SrcState: []fsm.State{StagePlaceFields}, DstState: StageUpload, IsInternal: true},
			{Name: eventBackToPlaceFieldsInternal, SrcState: []fsm.State{StageSign}, DstState: StagePlaceFields, IsInternal: true},
			{Name: eventBackToSignInternal, SrcState: []fsm.State{StageDownload}, DstState: StageSign, IsInternal: true},
		},
		fsm.Callbacks{
			EventDocumentsStacked:  machine.actionDocumentsStacked,
			EventFieldsPlaced:      machine.actionFieldsPlaced,
			EventDocumentSigned:    machine.actionDocumentSigned,
			EventDocumentFinalized: machine.actionDocumentFinalized,
			EventBack:              machine.actionBack,
		},
	)

	return machine
}

func New() *WorkflowFSM {
	return newMachine().WithSetup(StageUpload, &internal.WorkflowPayload{})
}

func (m *WorkflowFSM) WithSetup(state fsm.State, payload *internal.WorkflowPayload) *WorkflowFSM {
	m.payloadMu.Lock()
	defer m.payloadMu.Unlock()

	m.payload = payload
	m.FSM = m.FSM.MustCopyWithState(state)
	return m
}

// Restore recreates a machine from a persisted stage and payload.
func Restore(state fsm.State, payload *internal.WorkflowPayload) (*WorkflowFSM, error) {
	if payload == nil {
		return nil, types.Validationf("workflow payload is empty")
	}
	if StageIndex(state) < 0 {
		return nil, types.Validationf("unknown workflow stage %q", state)
	}
	return newMachine().WithSetup(state, payload), nil
}

// StageIndex returns the position of the stage, or -1.
func StageIndex(state fsm.State) int {
	for i, s := range Stages {
		if s == state {
			return i
		}
	}
	return -1
}
