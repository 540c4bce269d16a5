package session

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/docstacker/docsign/client/modules/state"
	"github.com/docstacker/docsign/client/types"
	dtypes "github.com/docstacker/docsign/types"
)

const SessionsKey = "sessions"

type SessionRepo interface {
	PutSession(session *types.SessionRecord) error
	DeleteSession(sessionID string) error
	GetSessions() ([]*types.SessionRecord, error)
	GetSessionByID(sessionID string) (*types.SessionRecord, error)
}

// BaseSessionRepo keeps every session under its own composite key.
type BaseSessionRepo struct {
	state     state.State
	keyPrefix string
}

func NewSessionRepo(s state.State, namespace string) *BaseSessionRepo {
	return &BaseSessionRepo{
		state:     s,
		keyPrefix: state.MakeCompositeKeyString(namespace, SessionsKey) + "_",
	}
}

func (r *BaseSessionRepo) key(sessionID string) string {
	return r.keyPrefix + sessionID
}

// PutSession creates or replaces the session record.
func (r *BaseSessionRepo) PutSession(session *types.SessionRecord) error {
	if session == nil || session.ID == "" {
		return fmt.Errorf("session id is empty")
	}

	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := r.state.Set(r.key(session.ID), sessionJSON); err != nil {
		return fmt.Errorf("failed to put session: %w", err)
	}
	return nil
}

func (r *BaseSessionRepo) DeleteSession(sessionID string) error {
	if err := r.state.Delete(r.key(sessionID)); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *BaseSessionRepo) GetSessionByID(sessionID string) (*types.SessionRecord, error) {
	bz, err := r.state.Get(r.key(sessionID))
	if err != nil {
		return nil, fmt.Errorf("failed to get session (key: %s): %w", r.key(sessionID), err)
	}
	if len(bz) == 0 {
		return nil, fmt.Errorf("%w: %s", dtypes.ErrSessionNotFound, sessionID)
	}

	var session types.SessionRecord
	if err := json.Unmarshal(bz, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// GetSessions returns all sessions, oldest first.
func (r *BaseSessionRepo) GetSessions() ([]*types.SessionRecord, error) {
	keys, err := r.state.Keys(r.keyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	sessions := make([]*types.SessionRecord, 0, len(keys))
	for _, key := range keys {
		session, err := r.GetSessionByID(strings.TrimPrefix(key, r.keyPrefix))
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})
	return sessions, nil
}
