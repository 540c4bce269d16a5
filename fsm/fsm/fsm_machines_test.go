package fsm

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testName = "fsm_test"

	stateDraft     = State("state_draft")
	stateReview    = State("state_review")
	stateApproved  = State("state_approved")
	stateCancelled = State("state_cancelled")

	eventSubmit   = Event("event_submit")
	eventReject   = Event("event_reject")
	eventApprove  = Event("event_approve")
	eventCancel   = Event("event_cancel")
	eventAudit    = Event("event_audit_internal")
	eventToDraft  = Event("event_to_draft_internal")
	eventFailSafe = Event("event_fail")
)

func newTestingFSM(approveErr error, calls *[]Event) *FSM {
	record := func(event Event) {
		if calls != nil {
			*calls = append(*calls, event)
		}
	}
	return MustNewFSM(
		testName,
		stateDraft,
		[]EventDesc{
			{Name: eventSubmit, SrcState: []State{stateDraft}, DstState: stateReview},
			{Name: eventReject, SrcState: []State{stateReview}, DstState: stateReview},
			{Name: eventToDraft, SrcState: []State{stateReview}, DstState: stateDraft, IsInternal: true},
			{Name: eventApprove, SrcState: []State{stateReview}, DstState: stateApproved},
			{Name: eventAudit, SrcState: []State{stateApproved}, DstState: stateApproved, IsInternal: true, IsAuto: true},
			{Name: eventCancel, SrcState: []State{stateDraft, stateReview}, DstState: stateCancelled},
			{Name: eventFailSafe, SrcState: []State{stateDraft}, DstState: StateGlobalDone},
		},
		Callbacks{
			eventReject: func(event Event, args ...interface{}) (Event, interface{}, error) {
				record(event)
				return eventToDraft, "rejected", nil
			},
			eventApprove: func(event Event, args ...interface{}) (Event, interface{}, error) {
				record(event)
				return event, nil, approveErr
			},
			eventAudit: func(event Event, args ...interface{}) (Event, interface{}, error) {
				record(event)
				return event, nil, nil
			},
		},
	)
}

func compareRecoverStr(t *testing.T, r interface{}, assertion string) {
	if r == nil {
		return
	}
	msg, ok := r.(string)
	if !ok {
		t.Error("not asserted recover:", r)
	}
	if msg != assertion {
		t.Error("not asserted recover:", msg)
	}
}

func TestMustNewFSM_Empty_Name_Panic(t *testing.T) {
	defer func() {
		compareRecoverStr(t, recover(), "machine name cannot be empty")
	}()
	MustNewFSM("", "init_state", []EventDesc{}, nil)

	t.Errorf("did not panic on empty machine name")
}

func TestMustNewFSM_Empty_Initial_State_Panic(t *testing.T) {
	defer func() {
		compareRecoverStr(t, recover(), "initial state state cannot be empty")
	}()
	MustNewFSM("fsm", "", []EventDesc{}, nil)

	t.Errorf("did not panic on empty initial")
}

func TestMustNewFSM_Empty_Events_Panic(t *testing.T) {
	defer func() {
		compareRecoverStr(t, recover(), "cannot init fsm with empty events")
	}()
	MustNewFSM("fsm", "init_state", []EventDesc{}, nil)

	t.Errorf("did not panic on empty events list")
}

func TestMustNewFSM_Event_Empty_Source_Panic(t *testing.T) {
	defer func() {
		compareRecoverStr(t, recover(), "event must have minimum one source available state")
	}()
	MustNewFSM("fsm", "init_state", []EventDesc{
		{Name: "event", SrcState: []State{}, DstState: StateGlobalDone},
	}, nil)

	t.Errorf("did not panic on empty event sources")
}

func TestMustNewFSM_States_Min_Panic(t *testing.T) {
	defer func() {
		compareRecoverStr(t, recover(), "machine must contain at least two states")
	}()
	MustNewFSM("fsm", "init_state", []EventDesc{
		{Name: "event", SrcState: []State{"init_state"}, DstState: StateGlobalDone},
	}, nil)

	t.Errorf("did not panic on less than two states")
}

func TestMustNewFSM_Cyclic_Machine(t *testing.T) {
	req := require.New(t)

	f := MustNewFSM("cyclic", "a", []EventDesc{
		{Name: "forward", SrcState: []State{"a"}, DstState: "b"},
		{Name: "back", SrcState: []State{"b"}, DstState: "a"},
	}, nil)

	req.False(f.IsFinState("a"))
	req.False(f.IsFinState("b"))

	_, err := f.Do("forward")
	req.NoError(err)
	_, err = f.Do("back")
	req.NoError(err)
	req.Equal(State("a"), f.State())
}

func TestFSM_Name(t *testing.T) {
	req := require.New(t)
	f := newTestingFSM(nil, nil)

	req.Equal(testName, f.Name())
	req.Equal(stateDraft, f.InitialState())
	req.True(f.IsFinState(stateCancelled))
	req.True(f.IsFinState(StateGlobalDone))
	req.False(f.IsFinState(stateReview))
}

func TestFSM_EventsList(t *testing.T) {
	req := require.New(t)
	f := newTestingFSM(nil, nil)

	req.Equal([]Event{eventApprove, eventCancel, eventFailSafe, eventReject, eventSubmit}, f.EventsList())
	req.Equal([]State{stateApproved, stateDraft, stateReview}, f.StatesSourcesList())
	req.Equal([]Event{eventCancel, eventFailSafe, eventSubmit}, f.AvailableEvents())
	req.True(f.Can(eventSubmit))
	req.False(f.Can(eventApprove))
}

func TestFSM_Do(t *testing.T) {
	req := require.New(t)
	var calls []Event
	f := newTestingFSM(nil, &calls)

	_, err := f.Do(eventApprove)
	req.ErrorIs(err, ErrEventUnavailable)

	resp, err := f.Do(eventSubmit)
	req.NoError(err)
	req.Equal(stateReview, resp.State)

	_, err = f.Do(eventToDraft)
	req.ErrorIs(err, ErrEventInternal)

	// callback reroutes to an internal transition
	resp, err = f.Do(eventReject)
	req.NoError(err)
	req.Equal(stateDraft, resp.State)
	req.Equal("rejected", resp.Data)

	_, err = f.Do(eventSubmit)
	req.NoError(err)

	// auto event runs after approve
	resp, err = f.Do(eventApprove)
	req.NoError(err)
	req.Equal(stateApproved, resp.State)
	req.Equal([]Event{eventReject, eventApprove, eventAudit}, calls)
}

func TestFSM_Callback_Error_Keeps_State(t *testing.T) {
	req := require.New(t)
	cause := errors.New("not allowed")
	f := newTestingFSM(WrapErrf(WarnLevel, cause, "cannot approve"), nil)

	_, err := f.Do(eventSubmit)
	req.NoError(err)

	resp, err := f.Do(eventApprove)
	req.ErrorIs(err, cause)
	req.Equal(stateReview, resp.State)
	req.Equal(stateReview, f.State())

	var fsmErr *FsmError
	req.True(errors.As(err, &fsmErr))
	req.Equal(WarnLevel, fsmErr.Level())
	req.Equal("warn: cannot approve: not allowed", err.Error())
}

func TestFSM_MustCopyWithState(t *testing.T) {
	req := require.New(t)
	f := newTestingFSM(nil, nil)

	copied := f.MustCopyWithState(stateReview)
	req.Equal(stateReview, copied.State())
	req.Equal(stateDraft, f.State())

	_, err := copied.Do(eventCancel)
	req.NoError(err)
	req.Equal(stateCancelled, copied.State())
	req.Equal(stateDraft, f.State())

	defer func() {
		compareRecoverStr(t, recover(), "state \"state_unknown\" does not exist in machine \"fsm_test\"")
	}()
	f.MustCopyWithState("state_unknown")

	t.Errorf("did not panic on unknown state")
}

func TestVisualize(t *testing.T) {
	req := require.New(t)
	f := newTestingFSM(nil, nil)

	graph := Visualize(f)
	req.True(strings.HasPrefix(graph, "digraph fsm_test {\n    \"state_draft\""))
	req.Contains(graph, `"state_review" -> "state_draft" [ label = "event_to_draft_internal", style = "dashed" ];`)
	req.Contains(graph, `"state_draft" [ shape = "doublecircle" ];`)
}
