package workflow

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/docstacker/docsign/fsm/config"
	"github.com/docstacker/docsign/fsm/state_machines/workflow_fsm"
	"github.com/docstacker/docsign/storage"
	"github.com/docstacker/docsign/types"
)

func newSignerID() string {
	return "signer_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:9]
}

// nextColor returns the first palette color not used by the roster.
func (s *Session) nextColor() string {
	used := make(map[string]bool, len(s.roster))
	for _, signer := range s.roster {
		used[signer.Color] = true
	}
	for _, c := range config.SignerColors {
		if !used[c] {
			return c
		}
	}
	return config.SignerColors[len(s.roster)%len(config.SignerColors)]
}

func (s *Session) signerIndex(id string) int {
	for i, signer := range s.roster {
		if signer.ID == id {
			return i
		}
	}
	return -1
}

// AddSigner appends a signer to the roster.
func (s *Session) AddSigner(name string) (types.Signer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStage(workflow_fsm.StageUpload); err != nil {
		return types.Signer{}, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return types.Signer{}, types.Validationf("signer name cannot be empty")
	}
	if len(s.roster) >= config.SignersMaxCount {
		return types.Signer{}, types.Validationf("maximum %d signers allowed", config.SignersMaxCount)
	}

	signer := types.Signer{
		ID:    newSignerID(),
		Name:  name,
		Color: s.nextColor(),
	}
	s.roster = append(s.roster, signer)
	s.engine.SetRoster(s.roster)

	s.persist()
	s.emit(storage.EventSignerAdded, signer)

	return signer, nil
}

// RemoveSigner drops the signer together with their fields.
func (s *Session) RemoveSigner(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStage(workflow_fsm.StageUpload); err != nil {
		return err
	}

	idx := s.signerIndex(id)
	if idx < 0 {
		return fmt.Errorf("%w: %q", types.ErrInvalidSigner, id)
	}
	if len(s.roster) <= config.SignersMinCount {
		return types.Validationf("at least %d signer is required", config.SignersMinCount)
	}

	s.roster = append(s.roster[:idx], s.roster[idx+1:]...)
	removed := s.engine.RemoveSignerFields(id)
	s.engine.SetRoster(s.roster)

	s.persist()
	s.emit(storage.EventSignerRemoved, map[string]interface{}{
		"signerId":      id,
		"removedFields": removed,
	})

	return nil
}

func (s *Session) RenameSigner(id, name string) (types.Signer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStage(workflow_fsm.StageUpload); err != nil {
		return types.Signer{}, err
	}

	idx := s.signerIndex(id)
	if idx < 0 {
		return types.Signer{}, fmt.Errorf("%w: %q", types.ErrInvalidSigner, id)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return types.Signer{}, types.Validationf("signer name cannot be empty")
	}

	s.roster[idx].Name = name
	s.engine.SetRoster(s.roster)

	s.persist()
	s.emit(storage.EventSignerRenamed, s.roster[idx])

	return s.roster[idx], nil
}

func (s *Session) Roster() []types.Signer {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]types.Signer{}, s.roster...)
}
