package workflow

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/docstacker/docsign/client/repositories/session"
	"github.com/docstacker/docsign/common"
	"github.com/docstacker/docsign/docapi"
	"github.com/docstacker/docsign/fsm/config"
	"github.com/docstacker/docsign/qr"
	"github.com/docstacker/docsign/storage"
	"github.com/docstacker/docsign/types"
)

const defaultSignerName = "Signer 1"

// Service is the registry of workflow sessions.
type Service interface {
	CreateSession(signerNames []string) (*Session, error)
	GetSession(id string) (*Session, error)
	ListSessions() []View
	DeleteSession(id string) error
	LoadSessions() error
	AuditLog(id string) ([]storage.Message, error)
}

type BaseService struct {
	sync.RWMutex

	sessions map[string]*Session
	deps     deps
}

func NewService(
	docs docapi.DocumentService,
	repo session.SessionRepo,
	audit storage.Storage,
	logger common.Logger,
	qrSize int,
) *BaseService {
	if qrSize <= 0 {
		qrSize = qr.DefaultSize
	}
	return &BaseService{
		sessions: make(map[string]*Session),
		deps: deps{
			docs:   docs,
			repo:   repo,
			audit:  audit,
			logger: logger,
			qrSize: qrSize,

			auditTimeout: config.AuditWriteTimeout,
		},
	}
}

// LoadSessions restores the sessions saved in the repository.
func (s *BaseService) LoadSessions() error {
	if s.deps.repo == nil {
		return nil
	}
	records, err := s.deps.repo.GetSessions()
	if err != nil {
		return fmt.Errorf("failed to get sessions: %w", err)
	}

	s.Lock()
	defer s.Unlock()

	for _, record := range records {
		restored, err := restoreSession(record, s.deps)
		if err != nil {
			s.deps.logger.Error("skipping session %s: %v", record.ID, err)
			continue
		}
		s.sessions[restored.id] = restored
	}
	s.deps.logger.Log("%d sessions loaded", len(s.sessions))

	return nil
}

// CreateSession starts a session at the upload stage. Without names the
// roster holds a single default signer.
func (s *BaseService) CreateSession(signerNames []string) (*Session, error) {
	if len(signerNames) == 0 {
		signerNames = []string{defaultSignerName}
	}
	if len(signerNames) > config.SignersMaxCount {
		return nil, types.Validationf("maximum %d signers allowed", config.SignersMaxCount)
	}

	sess := newSession(uuid.New().String(), s.deps)
	for i, name := range signerNames {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, types.Validationf("signer #%d must have a name", i+1)
		}
		sess.roster = append(sess.roster, types.Signer{
			ID:    newSignerID(),
			Name:  name,
			Color: sess.nextColor(),
		})
	}
	sess.engine.SetRoster(sess.roster)

	s.Lock()
	s.sessions[sess.id] = sess
	s.Unlock()

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.persist()
	sess.emit(storage.EventSessionCreated, map[string]interface{}{"roster": sess.roster})
	s.deps.logger.Log("session %s created with %d signers", sess.id, len(sess.roster))

	return sess, nil
}

func (s *BaseService) GetSession(id string) (*Session, error) {
	s.RLock()
	defer s.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrSessionNotFound, id)
	}
	return sess, nil
}

// ListSessions returns snapshots ordered by creation time.
func (s *BaseService) ListSessions() []View {
	s.RLock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.RUnlock()

	views := make([]View, 0, len(sessions))
	for _, sess := range sessions {
		views = append(views, sess.Snapshot())
	}
	sort.Slice(views, func(i, j int) bool {
		if views[i].CreatedAt.Equal(views[j].CreatedAt) {
			return views[i].ID < views[j].ID
		}
		return views[i].CreatedAt.Before(views[j].CreatedAt)
	})
	return views
}

func (s *BaseService) DeleteSession(id string) error {
	s.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		s.Unlock()
		return fmt.Errorf("%w: %s", types.ErrSessionNotFound, id)
	}
	delete(s.sessions, id)
	s.Unlock()

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.closeViews()
	sess.deleted = true
	if s.deps.repo != nil {
		if err := s.deps.repo.DeleteSession(id); err != nil {
			return fmt.Errorf("failed to delete session %s: %w", id, err)
		}
	}
	sess.emit(storage.EventSessionDeleted, nil)

	return nil
}

// AuditLog returns the audit events of the session in append order.
func (s *BaseService) AuditLog(id string) ([]storage.Message, error) {
	if s.deps.audit == nil {
		return nil, nil
	}
	messages, err := s.deps.audit.GetMessages(0)
	if err != nil {
		return nil, fmt.Errorf("failed to read audit log: %w", err)
	}
	return storage.FilterBySession(messages, id), nil
}
