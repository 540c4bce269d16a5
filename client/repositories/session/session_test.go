package session

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/docstacker/docsign/client/modules/state"
	"github.com/docstacker/docsign/client/types"
	"github.com/docstacker/docsign/mocks/clientMocks"
	dtypes "github.com/docstacker/docsign/types"
)

func newRecord(id string, createdAt time.Time) *types.SessionRecord {
	return &types.SessionRecord{
		ID:     id,
		Roster: []dtypes.Signer{{ID: "signer_1", Name: "Alice", Color: "#1976d2"}},
		Fields: []dtypes.SignatureField{
			{ID: "f1", FieldType: dtypes.FieldSignature, XNorm: 0.3, YNorm: 0.7, WidthNorm: 0.25, HeightNorm: 0.08, SignerRole: "signer_1", Required: true},
		},
		FSM:       json.RawMessage(`{"Id":"` + id + `"}`),
		PageSizes: map[int]types.PageSize{0: {Width: 800, Height: 1131}},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestPutSession(t *testing.T) {
	req := require.New(t)

	stg, err := state.NewLevelDBState(filepath.Join(t.TempDir(), "state"))
	req.NoError(err)
	defer stg.Close()

	repo := NewSessionRepo(stg, "test")

	record := newRecord("session_1", time.Now().UTC())
	req.NoError(repo.PutSession(record))

	loaded, err := repo.GetSessionByID(record.ID)
	req.NoError(err)
	req.Equal(record.Roster, loaded.Roster)
	req.Equal(record.Fields, loaded.Fields)
	req.JSONEq(string(record.FSM), string(loaded.FSM))
	req.Equal(record.PageSizes, loaded.PageSizes)

	record.Roster[0].Name = "Alice B."
	req.NoError(repo.PutSession(record))
	loaded, err = repo.GetSessionByID(record.ID)
	req.NoError(err)
	req.Equal("Alice B.", loaded.Roster[0].Name)

	req.Error(repo.PutSession(&types.SessionRecord{}))
}

func TestGetSessions(t *testing.T) {
	req := require.New(t)

	stg, err := state.NewLevelDBState(filepath.Join(t.TempDir(), "state"))
	req.NoError(err)
	defer stg.Close()

	repo := NewSessionRepo(stg, "test")
	other := NewSessionRepo(stg, "other")

	now := time.Now().UTC()
	req.NoError(repo.PutSession(newRecord("b", now)))
	req.NoError(repo.PutSession(newRecord("a", now.Add(time.Minute))))
	req.NoError(other.PutSession(newRecord("c", now)))

	sessions, err := repo.GetSessions()
	req.NoError(err)
	req.Len(sessions, 2)
	req.Equal("b", sessions[0].ID)
	req.Equal("a", sessions[1].ID)

	req.NoError(repo.DeleteSession("b"))
	_, err = repo.GetSessionByID("b")
	req.ErrorIs(err, dtypes.ErrSessionNotFound)

	sessions, err = repo.GetSessions()
	req.NoError(err)
	req.Len(sessions, 1)
}

func TestSessionRepo_StateErrors(t *testing.T) {
	var (
		req  = require.New(t)
		ctrl = gomock.NewController(t)
	)
	defer ctrl.Finish()

	stg := clientMocks.NewMockState(ctrl)
	repo := NewSessionRepo(stg, "test")

	stg.EXPECT().Set("test_sessions_s1", gomock.Any()).Times(1).Return(errors.New("disk full"))
	req.Error(repo.PutSession(newRecord("s1", time.Now())))

	stg.EXPECT().Get("test_sessions_s1").Times(1).Return([]byte("{broken"), nil)
	_, err := repo.GetSessionByID("s1")
	req.Error(err)

	stg.EXPECT().Keys("test_sessions_").Times(1).Return(nil, errors.New("iterator failed"))
	_, err = repo.GetSessions()
	req.Error(err)
}

func TestGetSessionByID_EmptyValue(t *testing.T) {
	var (
		req  = require.New(t)
		ctrl = gomock.NewController(t)
	)
	defer ctrl.Finish()

	stg := clientMocks.NewMockState(ctrl)
	repo := NewSessionRepo(stg, "test")

	stg.EXPECT().Get("test_sessions_gone").Times(1).Return([]byte{}, nil)
	_, err := repo.GetSessionByID("gone")
	req.ErrorIs(err, dtypes.ErrSessionNotFound)
}
