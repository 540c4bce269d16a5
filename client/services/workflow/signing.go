package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/docstacker/docsign/capture"
	"github.com/docstacker/docsign/fsm/fsm"
	"github.com/docstacker/docsign/fsm/state_machines/signing_sequence_fsm"
	"github.com/docstacker/docsign/fsm/state_machines/workflow_fsm"
	"github.com/docstacker/docsign/fsm/types/requests"
	"github.com/docstacker/docsign/fsm/types/responses"
	"github.com/docstacker/docsign/storage"
	"github.com/docstacker/docsign/types"
)

func (s *Session) requireSequence() error {
	if err := s.requireStage(workflow_fsm.StageSign); err != nil {
		return err
	}
	if s.machines.Sequence == nil {
		return types.Validationf("signing sequence is not started")
	}
	return nil
}

func (s *Session) defaultRequest() requests.DefaultRequest {
	return requests.DefaultRequest{CreatedAt: time.Now()}
}

// capture stores the raster of the current signer, nil clears it.
func (s *Session) capture(raster types.Raster) (responses.SigningStatusResponse, error) {
	signer := s.machines.Sequence.CurrentSigner()

	_, err := s.machines.Sequence.Do(signing_sequence_fsm.EventCaptureSignature, requests.SignatureCaptureRequest{
		Raster:    raster,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return responses.SigningStatusResponse{}, machineErr(err)
	}

	s.persist()
	if raster.IsEmpty() {
		s.emit(storage.EventSignatureCleared, map[string]string{"signerId": signer.ID})
	} else {
		s.emit(storage.EventSignatureCaptured, map[string]string{
			"signerId": signer.ID,
			"digest":   raster.Digest(),
		})
	}

	return s.machines.Sequence.Status(), nil
}

// CaptureFreehand replays pointer strokes on a signature pad and stores the
// result for the current signer. Strokes without a segment clear the
// signature.
func (s *Session) CaptureFreehand(strokes []capture.Stroke) (responses.SigningStatusResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireSequence(); err != nil {
		return responses.SigningStatusResponse{}, err
	}

	var (
		pad    = capture.NewPad()
		raster types.Raster
		err    error
	)
	for _, stroke := range strokes {
		if len(stroke) == 0 {
			continue
		}
		pad.PointerDown(stroke[0])
		for _, pt := range stroke[1:] {
			pad.PointerMove(pt)
		}
		if raster, err = pad.PointerUp(); err != nil {
			return responses.SigningStatusResponse{}, fmt.Errorf("failed to render strokes: %w", err)
		}
	}

	return s.capture(raster)
}

// CaptureTyped renders the name with the style preset and stores it for the
// current signer. A blank name clears the signature.
func (s *Session) CaptureTyped(name, style string) (responses.SigningStatusResponse, float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireSequence(); err != nil {
		return responses.SigningStatusResponse{}, 0, err
	}
	if style == "" {
		style = capture.DefaultStyle
	}

	typed, err := capture.RenderTyped(name, style)
	if err != nil {
		return responses.SigningStatusResponse{}, 0, err
	}
	status, err := s.capture(typed.Raster)
	return status, typed.Scale, err
}

func (s *Session) ClearSignature() (responses.SigningStatusResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireSequence(); err != nil {
		return responses.SigningStatusResponse{}, err
	}
	return s.capture(nil)
}

func (s *Session) navigate(event fsm.Event, request interface{}) (responses.SigningStatusResponse, error) {
	if err := s.requireSequence(); err != nil {
		return responses.SigningStatusResponse{}, err
	}
	if _, err := s.machines.Sequence.Do(event, request); err != nil {
		return responses.SigningStatusResponse{}, machineErr(err)
	}
	s.persist()
	return s.machines.Sequence.Status(), nil
}

func (s *Session) NextSigner() (responses.SigningStatusResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.navigate(signing_sequence_fsm.EventNextSigner, s.defaultRequest())
}

func (s *Session) PreviousSigner() (responses.SigningStatusResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.navigate(signing_sequence_fsm.EventPreviousSigner, s.defaultRequest())
}

func (s *Session) SelectSigner(index int) (responses.SigningStatusResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.navigate(signing_sequence_fsm.EventSelectSigner, requests.SignerSelectRequest{
		Index:     index,
		CreatedAt: time.Now(),
	})
}

// ReSign clears the signature of the signer and makes them current.
func (s *Session) ReSign(signerID string) (responses.SigningStatusResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status, err := s.navigate(signing_sequence_fsm.EventReSign, requests.ReSignRequest{
		SignerID:  signerID,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return status, err
	}
	s.emit(storage.EventSignatureCleared, map[string]string{"signerId": signerID})

	return status, nil
}

func (s *Session) SigningStatus() (responses.SigningStatusResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.machines.Sequence == nil {
		return responses.SigningStatusResponse{}, types.Validationf("signing sequence is not started")
	}
	return s.machines.Sequence.Status(), nil
}

// CompleteSigning builds the signature map and sends it to the backend. If
// the backend fails the sequence is reopened and the stage is kept.
func (s *Session) CompleteSigning(ctx context.Context) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireSequence(); err != nil {
		return View{}, err
	}
	documentID, err := s.documentID()
	if err != nil {
		return View{}, err
	}

	signatureMap := s.machines.Sequence.SignatureMap()
	if s.machines.Sequence.State() != signing_sequence_fsm.StateSignaturesFinalized {
		resp, err := s.machines.Sequence.Do(signing_sequence_fsm.EventFinalizeSignatures, s.defaultRequest())
		if err != nil {
			return View{}, machineErr(err)
		}
		finalized, ok := resp.Data.(responses.SignaturesFinalizedResponse)
		if !ok {
			return View{}, fmt.Errorf("unexpected finalize response %T", resp.Data)
		}
		signatureMap = finalized.SignatureMap
	}

	signedID, err := s.docs.Sign(ctx, documentID, signatureMap)
	if err != nil {
		if _, reopenErr := s.machines.Sequence.Do(signing_sequence_fsm.EventReopenSignatures, s.defaultRequest()); reopenErr != nil {
			s.logger.Error("session %s: failed to reopen signatures: %v", s.id, reopenErr)
		}
		return View{}, err
	}

	_, err = s.machines.Workflow.Do(workflow_fsm.EventDocumentSigned, requests.DocumentSignedRequest{
		SignedDocumentID: signedID,
		CreatedAt:        time.Now(),
	})
	if err != nil {
		return View{}, machineErr(err)
	}

	s.persist()
	s.emit(storage.EventDocumentSigned, map[string]interface{}{
		"documentId":       documentID,
		"signedDocumentId": signedID,
		"fieldsCount":      len(signatureMap),
	})
	s.logger.Log("session %s: document %s signed as %s", s.id, documentID, signedID)

	return s.view(), nil
}
