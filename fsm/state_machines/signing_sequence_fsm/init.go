package signing_sequence_fsm

import (
	"sync"

	"github.com/docstacker/docsign/fsm/fsm"
	"github.com/docstacker/docsign/fsm/state_machines/internal"
	"github.com/docstacker/docsign/types"
)

const (
	FsmName = "signing_sequence_fsm"

	// Current signer has no signature yet, or asked to re-sign
	StateSignerEditing = fsm.State("state_signer_editing")
	// Current signer already has a signature, re-sign is required to edit
	StateSignerReviewing = fsm.State("state_signer_reviewing")

	StateSignaturesFinalized = fsm.State("state_signatures_finalized")

	// Events

	EventCaptureSignature   = fsm.Event("event_signature_capture")
	EventNextSigner         = fsm.Event("event_signer_next")
	EventPreviousSigner     = fsm.Event("event_signer_previous")
	EventSelectSigner       = fsm.Event("event_signer_select")
	EventReSign             = fsm.Event("event_signer_resign")
	EventFinalizeSignatures = fsm.Event("event_signatures_finalize")
	EventReopenSignatures   = fsm.Event("event_signatures_reopen")

	eventEnterEditingInternal   = fsm.Event("event_signer_enter_editing_internal")
	eventEnterReviewingInternal = fsm.Event("event_signer_enter_reviewing_internal")
)

var navigationEvents = map[fsm.Event]bool{
	EventNextSigner:     true,
	EventPreviousSigner: true,
	EventSelectSigner:   true,
}

type SigningSequenceFSM struct {
	*fsm.FSM
	payload   *internal.SigningSequencePayload
	payloadMu sync.RWMutex
}

func newMachine() *SigningSequenceFSM {
	machine := &SigningSequenceFSM{}

	signing := []fsm.State{StateSignerEditing, StateSignerReviewing}

	machine.FSM = fsm.MustNewFSM(
		FsmName,
		StateSignerEditing,
		[]fsm.EventDesc{
			// Capture
			{Name: EventCaptureSignature, SrcState: []fsm.State{StateSignerEditing}, DstState: StateSignerEditing},

			// Navigation, the destination is chosen by the action
			{Name: EventNextSigner, SrcState: signing, DstState: StateSignerEditing},
			{Name: EventPreviousSigner, SrcState: signing, DstState: StateSignerEditing},
			{Name: EventSelectSigner, SrcState: signing, DstState: StateSignerEditing},
			{Name: eventEnterEditingInternal, SrcState: signing, DstState: StateSignerEditing, IsInternal: true},
			{Name: eventEnterReviewingInternal, SrcState: signing, DstState: StateSignerReviewing, IsInternal: true},

			{Name: EventReSign, SrcState: signing, DstState: StateSignerEditing},

			// Finalize
			{Name: EventFinalizeSignatures, SrcState: signing, DstState: StateSignaturesFinalized},
			{Name: EventReopenSignatures, SrcState: []fsm.State{StateSignaturesFinalized}, DstState: StateSignerReviewing},
		},
		fsm.Callbacks{
			EventCaptureSignature:   machine.actionCaptureSignature,
			EventNextSigner:         machine.actionNextSigner,
			EventPreviousSigner:     machine.actionPreviousSigner,
			EventSelectSigner:       machine.actionSelectSigner,
			EventReSign:             machine.actionReSign,
			EventFinalizeSignatures: machine.actionFinalizeSignatures,
			EventReopenSignatures:   machine.actionReopenSignatures,
		},
	)

	return machine
}

// New builds the sequence from the roster and the document fields. Only
// signers owning at least one signature field take part, in roster order.
// Signatures already captured for those signers are kept.
func New(roster []types.Signer, fields []types.SignatureField, captured map[string]types.Raster) (*SigningSequenceFSM, error) {
	payload := &internal.SigningSequencePayload{
		Fields:     signatureFields(fields),
		Signatures: make(map[string]types.Raster),
	}

	owners := make(map[string]bool)
	for _, f := range payload.Fields {
		owners[f.SignerRole] = true
	}
	for _, s := range roster {
		if !owners[s.ID] {
			continue
		}
		payload.Signers = append(payload.Signers, s)
		if raster := captured[s.ID]; !raster.IsEmpty() {
			payload.Signatures[s.ID] = raster
		}
	}

	if len(payload.Signers) == 0 {
		return nil, types.Validationf("no signers have been assigned signature fields")
	}

	state := StateSignerEditing
	if payload.HasSignature(payload.Signers[0].ID) {
		state = StateSignerReviewing
	}

	return newMachine().WithSetup(state, payload), nil
}

func (m *SigningSequenceFSM) WithSetup(state fsm.State, payload *internal.SigningSequencePayload) *SigningSequenceFSM {
	m.payloadMu.Lock()
	defer m.payloadMu.Unlock()

	m.payload = payload
	m.FSM = m.FSM.MustCopyWithState(state)
	return m
}

// Restore recreates a machine from a persisted state and payload.
func Restore(state fsm.State, payload *internal.SigningSequencePayload) (*SigningSequenceFSM, error) {
	if payload == nil || len(payload.Signers) == 0 {
		return nil, types.Validationf("signing sequence payload is empty")
	}
	if payload.Index < 0 || payload.Index >= len(payload.Signers) {
		return nil, types.Validationf("signer index %d is out of range", payload.Index)
	}
	if payload.Signatures == nil {
		payload.Signatures = make(map[string]types.Raster)
	}

	switch state {
	case StateSignerEditing, StateSignerReviewing, StateSignaturesFinalized:
	default:
		return nil, types.Validationf("unknown signing state %q", state)
	}

	return newMachine().WithSetup(state, payload), nil
}
