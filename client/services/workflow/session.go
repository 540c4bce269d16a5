package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/docstacker/docsign/client/repositories/session"
	ctypes "github.com/docstacker/docsign/client/types"
	"github.com/docstacker/docsign/common"
	"github.com/docstacker/docsign/docapi"
	"github.com/docstacker/docsign/fsm/fsm"
	"github.com/docstacker/docsign/fsm/state_machines"
	"github.com/docstacker/docsign/fsm/state_machines/workflow_fsm"
	"github.com/docstacker/docsign/fsm/types/responses"
	"github.com/docstacker/docsign/placement"
	"github.com/docstacker/docsign/storage"
	"github.com/docstacker/docsign/types"
)

// Session is one document being prepared and signed. All operations of a
// session are serialized by its mutex, collaborator calls included.
type Session struct {
	mu sync.Mutex

	id       string
	roster   []types.Signer
	engine   *placement.Engine
	machines *state_machines.FSMInstance

	views     map[int]*placement.PageView
	drag      *placement.Drag
	pageSizes map[int]ctypes.PageSize

	docs    docapi.DocumentService
	repo    session.SessionRepo
	audit   storage.Storage
	logger  common.Logger
	qrSize  int
	deleted bool

	auditTimeout time.Duration

	createdAt time.Time
	updatedAt time.Time
}

// View is the externally visible state of a session.
type View struct {
	ID         string                 `json:"id"`
	Stage      string                 `json:"stage"`
	StageIndex int                    `json:"stage_index"`
	Roster     []types.Signer         `json:"roster"`
	Fields     []types.SignatureField `json:"fields"`

	DocumentID       string  `json:"document_id,omitempty"`
	PageCount        int     `json:"page_count"`
	PageWidth        float64 `json:"page_width,omitempty"`
	PageHeight       float64 `json:"page_height,omitempty"`
	SignedDocumentID string  `json:"signed_document_id,omitempty"`
	FinalDocumentID  string  `json:"final_document_id,omitempty"`

	Signing *responses.SigningStatusResponse `json:"signing,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type deps struct {
	docs   docapi.DocumentService
	repo   session.SessionRepo
	audit  storage.Storage
	logger common.Logger
	qrSize int

	auditTimeout time.Duration
}

func newSession(id string, d deps) *Session {
	now := time.Now().UTC()
	return &Session{
		id:        id,
		engine:    placement.NewEngine(nil),
		machines:  state_machines.New(id),
		views:     make(map[int]*placement.PageView),
		pageSizes: make(map[int]ctypes.PageSize),
		docs:      d.docs,
		repo:      d.repo,
		audit:     d.audit,
		logger:    d.logger,
		qrSize:    d.qrSize,
		createdAt: now,

		auditTimeout: d.auditTimeout,
		updatedAt: now,
	}
}

func restoreSession(record *ctypes.SessionRecord, d deps) (*Session, error) {
	machines, err := state_machines.FromDump(record.FSM)
	if err != nil {
		return nil, fmt.Errorf("failed to restore machines of session %s: %w", record.ID, err)
	}

	s := newSession(record.ID, d)
	s.roster = append([]types.Signer(nil), record.Roster...)
	s.engine.SetRoster(s.roster)
	if err = s.engine.Load(record.Fields); err != nil {
		return nil, fmt.Errorf("failed to restore fields of session %s: %w", record.ID, err)
	}
	s.machines = machines
	for page, size := range record.PageSizes {
		s.pageSizes[page] = size
	}
	s.createdAt = record.CreatedAt
	s.updatedAt = record.UpdatedAt

	return s, nil
}

func (s *Session) ID() string {
	return s.id
}

// Snapshot returns the current state of the session.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.view()
}

func (s *Session) view() View {
	payload := s.machines.Workflow.Payload()
	stage := s.machines.Workflow.State()

	v := View{
		ID:               s.id,
		Stage:            string(stage),
		StageIndex:       workflow_fsm.StageIndex(stage),
		Roster:           append([]types.Signer{}, s.roster...),
		Fields:           s.engine.Fields(),
		DocumentID:       payload.DocumentID,
		PageCount:        payload.PageCount,
		PageWidth:        payload.PageWidth,
		PageHeight:       payload.PageHeight,
		SignedDocumentID: payload.SignedDocumentID,
		FinalDocumentID:  payload.FinalDocumentID,
		CreatedAt:        s.createdAt,
		UpdatedAt:        s.updatedAt,
	}
	if s.machines.Sequence != nil && stage != workflow_fsm.StageUpload {
		status := s.machines.Sequence.Status()
		v.Signing = &status
	}
	return v
}

// FSMGraphs renders the session machines in dot format.
func (s *Session) FSMGraphs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var graphs []string
	for _, m := range s.machines.Machines() {
		graphs = append(graphs, fsm.Visualize(m))
	}
	return graphs
}

func (s *Session) stage() fsm.State {
	return s.machines.Workflow.State()
}

func (s *Session) requireStage(stage fsm.State) error {
	if s.deleted {
		return fmt.Errorf("%w: %s", types.ErrSessionNotFound, s.id)
	}
	if current := s.stage(); current != stage {
		return types.Validationf("operation is available at %s only, the session is at %s", stage, current)
	}
	return nil
}

func (s *Session) record() (*ctypes.SessionRecord, error) {
	dump, err := s.machines.Dump()
	if err != nil {
		return nil, fmt.Errorf("failed to dump machines: %w", err)
	}

	pageSizes := make(map[int]ctypes.PageSize, len(s.pageSizes))
	for page, size := range s.pageSizes {
		pageSizes[page] = size
	}

	return &ctypes.SessionRecord{
		ID:        s.id,
		Roster:    append([]types.Signer{}, s.roster...),
		Fields:    s.engine.Fields(),
		FSM:       json.RawMessage(dump),
		PageSizes: pageSizes,
		CreatedAt: s.createdAt,
		UpdatedAt: s.updatedAt,
	}, nil
}

// persist saves the session after a mutation. Failures are logged, the
// in-memory state stays authoritative.
func (s *Session) persist() {
	s.updatedAt = time.Now().UTC()
	if s.repo == nil || s.deleted {
		return
	}

	record, err := s.record()
	if err == nil {
		err = s.repo.PutSession(record)
	}
	if err != nil {
		s.logger.Error("failed to save session %s: %v", s.id, err)
	}
}

// emit appends an audit event. Audit failures never fail the operation.
// The session stays locked during the write, so storages that accept a
// context get at most auditTimeout.
func (s *Session) emit(event string, data interface{}) {
	if s.audit == nil {
		return
	}

	msg, err := storage.NewMessage(s.id, event, data)
	if err == nil {
		if sender, ok := s.audit.(storage.ContextSender); ok && s.auditTimeout > 0 {
			ctx, cancel := context.WithTimeout(context.Background(), s.auditTimeout)
			err = sender.SendContext(ctx, msg)
			cancel()
		} else {
			err = s.audit.Send(msg)
		}
	}
	if err != nil {
		s.logger.Error("failed to append audit event %s of session %s: %v", event, s.id, err)
	}
}

// closeViews ends every page view, releasing an active drag.
func (s *Session) closeViews() {
	for page, v := range s.views {
		v.Close()
		delete(s.views, page)
	}
	s.drag = nil
}

// machineErr reports events that are not allowed in the current state as
// validation errors.
func machineErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, fsm.ErrEventUnavailable) || errors.Is(err, fsm.ErrEventInternal) {
		return fmt.Errorf("%w: %v", types.ErrValidation, err)
	}
	return err
}
