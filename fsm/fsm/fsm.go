package fsm

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

//
//  machine := fsm.MustNewFSM(name, initialState, events, callbacks)
//
//  resp, err := machine.Do(event, args...)
//  if err != nil {
//     return err
//  }
//

const (
	StateGlobalIdle = State("__idle")
	StateGlobalDone = State("__done")
)

const (
	EventRunDefault EventRunMode = iota
	EventRunBefore
	EventRunAfter
)

var (
	ErrEventUnavailable = errors.New("event is not available")
	ErrEventInternal    = errors.New("event is internal")
)

type State string

func (s *State) String() string {
	return string(*s)
}

type Event string

func (e *Event) String() string {
	return string(*e)
}

func (e *Event) IsEmpty() bool {
	return e.String() == ""
}

type EventRunMode uint8

// Response returns result for processing with events
type Response struct {
	// Returns machine execution result state
	State State
	// Must be cast, according to mapper event_name->response_type
	Data interface{}
}

type FSM struct {
	name         string
	initialState State
	currentState State

	transitions map[trKey]*trEvent

	autoTransitions map[State]*trEvent

	callbacks Callbacks

	// Finish states, cannot be linked as SrcState in this machine.
	// A machine may have none when every state can be left.
	finStates map[State]bool

	// stateMu guards access to the currentState state.
	stateMu sync.RWMutex
}

// Transition key source + event
type trKey struct {
	source State
	event  Event
}

// Transition lightweight event description
type trEvent struct {
	event      Event
	dstState   State
	isInternal bool
	isAuto     bool
	runMode    EventRunMode
}

type EventDesc struct {
	Name Event

	SrcState []State

	// Dst state changes after callback
	DstState State

	// Internal events, cannot be emitted from external call
	IsInternal bool

	// Event must run without manual call
	IsAuto bool

	AutoRunMode EventRunMode
}

// Callback may return an outEvent to pick another transition for the
// destination, usually an internal one.
type Callback func(event Event, args ...interface{}) (Event, interface{}, error)

type Callbacks map[Event]Callback

func MustNewFSM(machineName string, initialState State, events []EventDesc, callbacks Callbacks) *FSM {
	machineName = strings.TrimSpace(machineName)
	initialState = State(strings.TrimSpace(initialState.String()))

	if machineName == "" {
		panic("machine name cannot be empty")
	}

	if initialState == "" {
		panic("initial state state cannot be empty")
	}

	if len(events) == 0 {
		panic("cannot init fsm with empty events")
	}

	f := &FSM{
		name:            machineName,
		currentState:    initialState,
		initialState:    initialState,
		transitions:     make(map[trKey]*trEvent),
		autoTransitions: make(map[State]*trEvent),
		finStates:       make(map[State]bool),
		callbacks:       make(map[Event]Callback),
	}

	allEvents := make(map[Event]bool)

	// Required for find finStates
	allSources := make(map[State]bool)
	allStates := make(map[State]bool)

	// Validate events
	for _, event := range events {
		event.Name = Event(strings.TrimSpace(event.Name.String()))
		event.DstState = State(strings.TrimSpace(event.DstState.String()))

		if event.Name == "" {
			panic("cannot init empty event")
		}

		if event.DstState == "" {
			panic("event dest cannot be empty, use StateGlobalDone for finish or external state")
		}

		if _, ok := allEvents[event.Name]; ok {
			panic(fmt.Sprintf("duplicate event \"%s\"", event.Name))
		}

		allEvents[event.Name] = true
		allStates[event.DstState] = true

		trimmedSourcesCounter := 0

		for _, sourceState := range event.SrcState {
			sourceState := State(strings.TrimSpace(sourceState.String()))

			if sourceState == "" {
				continue
			}

			tKey := trKey{
				sourceState,
				event.Name,
			}

			if sourceState == StateGlobalDone {
				panic("StateGlobalDone cannot set as source state")
			}

			if _, ok := f.transitions[tKey]; ok {
				panic("duplicate dst for pair `source + event`")
			}

			if event.IsAuto && event.AutoRunMode == EventRunDefault {
				event.AutoRunMode = EventRunAfter
			}

			trEvent := &trEvent{
				tKey.event,
				event.DstState,
				event.IsInternal,
				event.IsAuto,
				event.AutoRunMode,
			}

			f.transitions[tKey] = trEvent

			if event.IsAuto {
				if event.AutoRunMode != EventRunBefore && event.AutoRunMode != EventRunAfter {
					panic("{AutoRunMode} not set for auto event")
				}

				if _, ok := f.autoTransitions[sourceState]; ok {
					panic(fmt.Sprintf(
						"auto event \"%s\" already exists for state \"%s\"",
						event.Name,
						sourceState,
					))
				}
				f.autoTransitions[sourceState] = trEvent
			}

			allSources[sourceState] = true
			trimmedSourcesCounter++
		}

		if trimmedSourcesCounter == 0 {
			panic("event must have minimum one source available state")
		}
	}

	if len(allStates) < 2 {
		panic("machine must contain at least two states")
	}

	// Validate callbacks
	for event, callback := range callbacks {
		if event == "" {
			panic("callback machineName cannot be empty")
		}

		if _, ok := allEvents[event]; !ok {
			panic(fmt.Sprintf("callback for unknown event \"%s\"", event))
		}

		f.callbacks[event] = callback
	}

	for state := range allStates {
		if state == StateGlobalIdle {
			continue
		}
		// Exit states cannot be a source in this machine
		if _, exists := allSources[state]; !exists || state == StateGlobalDone {
			f.finStates[state] = true
		}
	}

	return f
}

// MustCopyWithState returns a machine sharing the transition table of f,
// positioned at state.
func (f *FSM) MustCopyWithState(state State) *FSM {
	if !f.knownState(state) {
		panic(fmt.Sprintf("state \"%s\" does not exist in machine \"%s\"", state, f.name))
	}

	return &FSM{
		name:            f.name,
		initialState:    f.initialState,
		currentState:    state,
		transitions:     f.transitions,
		autoTransitions: f.autoTransitions,
		callbacks:       f.callbacks,
		finStates:       f.finStates,
	}
}

func (f *FSM) knownState(state State) bool {
	if state == f.initialState {
		return true
	}
	for key, tr := range f.transitions {
		if key.source == state || tr.dstState == state {
			return true
		}
	}
	return false
}

func (f *FSM) DoInternal(event Event, args ...interface{}) (resp *Response, err error) {
	trEvent, ok := f.transitions[trKey{f.State(), event}]
	if !ok {
		return nil, fmt.Errorf("%w: cannot execute event \"%s\" for state \"%s\"", ErrEventUnavailable, event, f.State())
	}

	return f.do(trEvent, args...)
}

func (f *FSM) Do(event Event, args ...interface{}) (resp *Response, err error) {
	trEvent, ok := f.transitions[trKey{f.State(), event}]
	if !ok {
		return nil, fmt.Errorf("%w: cannot execute event \"%s\" for state \"%s\"", ErrEventUnavailable, event, f.State())
	}
	if trEvent.isInternal {
		return nil, fmt.Errorf("%w: \"%s\"", ErrEventInternal, event)
	}

	return f.do(trEvent, args...)
}

func (f *FSM) do(trEvent *trEvent, args ...interface{}) (resp *Response, err error) {
	var outEvent Event

	// Process auto event
	if autoEvent, ok := f.autoTransitions[f.State()]; ok && autoEvent.runMode == EventRunBefore {
		if outEvent, err = f.runAuto(autoEvent, args...); err != nil {
			return &Response{State: f.State()}, err
		}
		outEvent = ""
	}

	resp = &Response{
		State: f.State(),
	}

	if callback, ok := f.callbacks[trEvent.event]; ok {
		outEvent, resp.Data, err = callback(trEvent.event, args...)
		// Do not try change state on error
		if err != nil {
			return resp, err
		}
	}

	// Set state when callback executed
	if outEvent.IsEmpty() || trEvent.event == outEvent {
		err = f.SetState(trEvent.event)
	} else {
		err = f.SetState(outEvent)
	}
	if err != nil {
		return resp, err
	}

	// Process auto event
	if autoEvent, ok := f.autoTransitions[f.State()]; ok && autoEvent.runMode == EventRunAfter {
		if _, err = f.runAuto(autoEvent, args...); err != nil {
			resp.State = f.State()
			return resp, err
		}
	}

	resp.State = f.State()

	return
}

func (f *FSM) runAuto(autoEvent *trEvent, args ...interface{}) (outEvent Event, err error) {
	if callback, ok := f.callbacks[autoEvent.event]; ok {
		outEvent, _, err = callback(autoEvent.event, args...)
		if err != nil {
			return
		}
	}
	if outEvent.IsEmpty() || autoEvent.event == outEvent {
		err = f.SetState(autoEvent.event)
	} else {
		err = f.SetState(outEvent)
	}
	return
}

// State returns the currentState state of the FSM.
func (f *FSM) State() State {
	f.stateMu.RLock()
	defer f.stateMu.RUnlock()
	return f.currentState
}

// SetState moves to the destination of event from the current state.
// The call does not trigger any callbacks, if defined.
func (f *FSM) SetState(event Event) error {
	f.stateMu.Lock()
	defer f.stateMu.Unlock()

	trEvent, ok := f.transitions[trKey{f.currentState, event}]
	if !ok {
		return fmt.Errorf("%w: cannot change state \"%s\" with event \"%s\"", ErrEventUnavailable, f.currentState, event)
	}

	f.currentState = trEvent.dstState

	return nil
}

func (f *FSM) Name() string {
	return f.name
}

func (f *FSM) InitialState() State {
	return f.initialState
}

// EventsList returns all public events of the machine, sorted.
func (f *FSM) EventsList() (events []Event) {
	eventsMap := make(map[Event]bool)
	for key, tr := range f.transitions {
		if !tr.isInternal {
			eventsMap[key.event] = true
		}
	}
	return sortedEvents(eventsMap)
}

// AvailableEvents returns the public events that can be emitted from the
// current state, sorted.
func (f *FSM) AvailableEvents() []Event {
	state := f.State()
	eventsMap := make(map[Event]bool)
	for key, tr := range f.transitions {
		if key.source == state && !tr.isInternal {
			eventsMap[key.event] = true
		}
	}
	return sortedEvents(eventsMap)
}

// Can reports whether a public event can be emitted from the current state.
func (f *FSM) Can(event Event) bool {
	tr, ok := f.transitions[trKey{f.State(), event}]
	return ok && !tr.isInternal
}

func (f *FSM) StatesSourcesList() (states []State) {
	allStates := make(map[State]bool)
	for key := range f.transitions {
		allStates[key.source] = true
	}

	for state := range allStates {
		states = append(states, state)
	}
	sort.Slice(states, func(i, j int) bool { return states[i] < states[j] })

	return
}

func (f *FSM) IsFinState(state State) bool {
	_, exists := f.finStates[state]
	return exists
}

func sortedEvents(m map[Event]bool) []Event {
	events := make([]Event, 0, len(m))
	for event := range m {
		events = append(events, event)
	}
	sort.Slice(events, func(i, j int) bool { return events[i] < events[j] })
	return events
}
