package workflow

import (
	"context"
	"time"

	"github.com/docstacker/docsign/fsm/state_machines/signing_sequence_fsm"
	"github.com/docstacker/docsign/fsm/state_machines/workflow_fsm"
	"github.com/docstacker/docsign/fsm/types/requests"
	"github.com/docstacker/docsign/qr"
	"github.com/docstacker/docsign/storage"
	"github.com/docstacker/docsign/types"
)

// FinalizeDocument flattens the signed document on the backend.
func (s *Session) FinalizeDocument(ctx context.Context) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStage(workflow_fsm.StageDownload); err != nil {
		return View{}, err
	}

	signedID := s.machines.Workflow.Payload().SignedDocumentID
	finalID, err := s.docs.Finalize(ctx, signedID)
	if err != nil {
		return View{}, err
	}

	_, err = s.machines.Workflow.Do(workflow_fsm.EventDocumentFinalized, requests.DocumentFinalizedRequest{
		FinalDocumentID: finalID,
		CreatedAt:       time.Now(),
	})
	if err != nil {
		return View{}, machineErr(err)
	}

	s.persist()
	s.emit(storage.EventDocumentFinalized, map[string]string{
		"signedDocumentId": signedID,
		"finalDocumentId":  finalID,
	})

	return s.view(), nil
}

func (s *Session) resultDocumentID() (string, error) {
	if err := s.requireStage(workflow_fsm.StageDownload); err != nil {
		return "", err
	}
	id := s.machines.Workflow.ResultDocumentID()
	if id == "" {
		return "", types.Validationf("document is not signed yet")
	}
	return id, nil
}

// DownloadURL points at the final document if there is one, at the signed
// one otherwise.
func (s *Session) DownloadURL() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.resultDocumentID()
	if err != nil {
		return "", err
	}
	return s.docs.DownloadURL(id), nil
}

func (s *Session) PreviewURL() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.resultDocumentID()
	if err != nil {
		return "", err
	}
	return s.docs.PreviewURL(id), nil
}

// DownloadQR renders the download URL as a PNG QR code.
func (s *Session) DownloadQR() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.resultDocumentID()
	if err != nil {
		return nil, err
	}
	return qr.EncodeQR(s.docs.DownloadURL(id), s.qrSize)
}

// Back returns to the previous stage. Roster, fields and signatures are kept.
func (s *Session) Back() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.deleted {
		return View{}, types.ErrSessionNotFound
	}

	from := s.stage()
	if from == workflow_fsm.StageDownload && s.machines.Sequence != nil &&
		s.machines.Sequence.State() == signing_sequence_fsm.StateSignaturesFinalized {
		if _, err := s.machines.Sequence.Do(signing_sequence_fsm.EventReopenSignatures, s.defaultRequest()); err != nil {
			return View{}, machineErr(err)
		}
	}

	resp, err := s.machines.Workflow.Do(workflow_fsm.EventBack, s.defaultRequest())
	if err != nil {
		return View{}, machineErr(err)
	}

	s.closeViews()
	s.persist()
	s.emit(storage.EventStageBack, map[string]string{
		"from": string(from),
		"to":   string(resp.State),
	})

	return s.view(), nil
}
