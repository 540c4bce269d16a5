package state_machines

import (
	"encoding/json"
	"fmt"

	"github.com/docstacker/docsign/fsm/fsm"
	"github.com/docstacker/docsign/fsm/state_machines/internal"
	"github.com/docstacker/docsign/fsm/state_machines/signing_sequence_fsm"
	"github.com/docstacker/docsign/fsm/state_machines/workflow_fsm"
	"github.com/docstacker/docsign/types"
)

// FSMDump is the persisted form of the machines of one session.
type FSMDump struct {
	Id string

	WorkflowState fsm.State
	Workflow      internal.WorkflowPayload

	// Empty until the placement stage is completed for the first time
	SequenceState fsm.State                        `json:",omitempty"`
	Sequence      *internal.SigningSequencePayload `json:",omitempty"`
}

// FSMInstance groups the machines driving one session.
type FSMInstance struct {
	Id       string
	Workflow *workflow_fsm.WorkflowFSM
	Sequence *signing_sequence_fsm.SigningSequenceFSM
}

func New(id string) *FSMInstance {
	return &FSMInstance{
		Id:       id,
		Workflow: workflow_fsm.New(),
	}
}

// FromDump restores the machines from data produced by Dump.
func FromDump(data []byte) (*FSMInstance, error) {
	var dump FSMDump
	if err := dump.Unmarshal(data); err != nil {
		return nil, fmt.Errorf("cannot read machine dump: %w", err)
	}

	i := &FSMInstance{Id: dump.Id}

	workflow := dump.Workflow
	machine, err := workflow_fsm.Restore(dump.WorkflowState, &workflow)
	if err != nil {
		return nil, fmt.Errorf("failed to restore %s: %w", workflow_fsm.FsmName, err)
	}
	i.Workflow = machine

	if dump.Sequence != nil {
		sequence, err := signing_sequence_fsm.Restore(dump.SequenceState, dump.Sequence)
		if err != nil {
			return nil, fmt.Errorf("failed to restore %s: %w", signing_sequence_fsm.FsmName, err)
		}
		i.Sequence = sequence
	}

	return i, nil
}

// NewSequence builds a signing sequence without installing it, keeping the
// signatures captured so far for signers that are still part of it.
func (i *FSMInstance) NewSequence(roster []types.Signer, fields []types.SignatureField) (*signing_sequence_fsm.SigningSequenceFSM, error) {
	var captured map[string]types.Raster
	if i.Sequence != nil {
		captured = i.Sequence.Signatures()
	}
	return signing_sequence_fsm.New(roster, fields, captured)
}

// StartSequence replaces the signing sequence, see NewSequence.
func (i *FSMInstance) StartSequence(roster []types.Signer, fields []types.SignatureField) error {
	sequence, err := i.NewSequence(roster, fields)
	if err != nil {
		return err
	}
	i.Sequence = sequence

	return nil
}

func (i *FSMInstance) Dump() ([]byte, error) {
	dump := &FSMDump{
		Id:            i.Id,
		WorkflowState: i.Workflow.State(),
		Workflow:      i.Workflow.Payload(),
	}
	if i.Sequence != nil {
		payload := i.Sequence.Payload()
		dump.SequenceState = i.Sequence.State()
		dump.Sequence = &payload
	}
	return dump.Marshal()
}

// Machines returns the machines for visualization, workflow first.
func (i *FSMInstance) Machines() []*fsm.FSM {
	machines := []*fsm.FSM{i.Workflow.FSM}
	if i.Sequence != nil {
		machines = append(machines, i.Sequence.FSM)
	}
	return machines
}

func (d *FSMDump) Marshal() ([]byte, error) {
	return json.Marshal(d)
}

func (d *FSMDump) Unmarshal(data []byte) error {
	return json.Unmarshal(data, d)
}
