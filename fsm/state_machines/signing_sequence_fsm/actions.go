package signing_sequence_fsm

import (
	"fmt"
	"strings"

	"github.com/docstacker/docsign/fsm/fsm"
	"github.com/docstacker/docsign/fsm/types/requests"
	"github.com/docstacker/docsign/fsm/types/responses"
	"github.com/docstacker/docsign/types"
)

func (m *SigningSequenceFSM) actionCaptureSignature(inEvent fsm.Event, args ...interface{}) (outEvent fsm.Event, response interface{}, err error) {
	m.payloadMu.Lock()
	defer m.payloadMu.Unlock()

	if len(args) != 1 {
		err = fsm.NewErr(fsm.ErrorLevel, "{arg0} required {SignatureCaptureRequest}")
		return
	}

	request, ok := args[0].(requests.SignatureCaptureRequest)
	if !ok {
		err = fsm.NewErr(fsm.ErrorLevel, "cannot cast {arg0} to type {SignatureCaptureRequest}")
		return
	}

	if err = request.Validate(); err != nil {
		return
	}

	signer := m.payload.Current()
	if request.Raster.IsEmpty() {
		delete(m.payload.Signatures, signer.ID)
	} else {
		m.payload.Signatures[signer.ID] = request.Raster
	}
	m.payload.UpdatedAt = request.CreatedAt

	return
}

func (m *SigningSequenceFSM) actionNextSigner(inEvent fsm.Event, args ...interface{}) (outEvent fsm.Event, response interface{}, err error) {
	m.payloadMu.Lock()
	defer m.payloadMu.Unlock()

	request, err := m.defaultRequest(args...)
	if err != nil {
		return
	}

	if err = m.checkNavigation(); err != nil {
		return
	}

	signer := m.payload.Current()
	if !m.payload.HasSignature(signer.ID) {
		err = types.Validationf("%s has not signed yet", signer.Name)
		return
	}

	// Next on the last signer keeps everything as is
	if m.payload.Index == m.payload.SignersCount()-1 {
		outEvent = m.stayEvent()
		return
	}

	m.payload.Index++
	m.payload.UpdatedAt = request.CreatedAt

	return m.enterEvent(), nil, nil
}

func (m *SigningSequenceFSM) actionPreviousSigner(inEvent fsm.Event, args ...interface{}) (outEvent fsm.Event, response interface{}, err error) {
	m.payloadMu.Lock()
	defer m.payloadMu.Unlock()

	request, err := m.defaultRequest(args...)
	if err != nil {
		return
	}

	if err = m.checkNavigation(); err != nil {
		return
	}

	if m.payload.Index == 0 {
		err = types.Validationf("already at the first signer")
		return
	}

	m.payload.Index--
	m.payload.UpdatedAt = request.CreatedAt

	return m.enterEvent(), nil, nil
}

func (m *SigningSequenceFSM) actionSelectSigner(inEvent fsm.Event, args ...interface{}) (outEvent fsm.Event, response interface{}, err error) {
	m.payloadMu.Lock()
	defer m.payloadMu.Unlock()

	if len(args) != 1 {
		err = fsm.NewErr(fsm.ErrorLevel, "{arg0} required {SignerSelectRequest}")
		return
	}

	request, ok := args[0].(requests.SignerSelectRequest)
	if !ok {
		err = fsm.NewErr(fsm.ErrorLevel, "cannot cast {arg0} to type {SignerSelectRequest}")
		return
	}

	if err = request.Validate(); err != nil {
		return
	}

	if err = m.checkNavigation(); err != nil {
		return
	}

	if request.Index >= m.payload.SignersCount() {
		err = types.Validationf("signer index %d is out of range", request.Index)
		return
	}

	// Signers after the first incomplete one cannot be reached yet
	if request.Index > m.payload.FirstIncomplete() {
		err = types.Validationf("%s has not signed yet", m.payload.Signers[m.payload.FirstIncomplete()].Name)
		return
	}

	m.payload.Index = request.Index
	m.payload.UpdatedAt = request.CreatedAt

	return m.enterEvent(), nil, nil
}

func (m *SigningSequenceFSM) actionReSign(inEvent fsm.Event, args ...interface{}) (outEvent fsm.Event, response interface{}, err error) {
	m.payloadMu.Lock()
	defer m.payloadMu.Unlock()

	if len(args) != 1 {
		err = fsm.NewErr(fsm.ErrorLevel, "{arg0} required {ReSignRequest}")
		return
	}

	request, ok := args[0].(requests.ReSignRequest)
	if !ok {
		err = fsm.NewErr(fsm.ErrorLevel, "cannot cast {arg0} to type {ReSignRequest}")
		return
	}

	if err = request.Validate(); err != nil {
		return
	}

	idx := m.payload.SignerIndex(request.SignerID)
	if idx < 0 {
		err = fmt.Errorf("%w: %q is not in the signing sequence", types.ErrInvalidSigner, request.SignerID)
		return
	}

	delete(m.payload.Signatures, request.SignerID)
	m.payload.Index = idx
	m.payload.UpdatedAt = request.CreatedAt

	return
}

func (m *SigningSequenceFSM) actionFinalizeSignatures(inEvent fsm.Event, args ...interface{}) (outEvent fsm.Event, response interface{}, err error) {
	m.payloadMu.Lock()
	defer m.payloadMu.Unlock()

	request, err := m.defaultRequest(args...)
	if err != nil {
		return
	}

	if !m.payload.AllComplete() {
		var names []string
		for _, s := range m.payload.Signers {
			if !m.payload.HasSignature(s.ID) {
				names = append(names, s.Name)
			}
		}
		err = fmt.Errorf("%w: missing signatures for: %s", types.ErrIncompleteSignature, strings.Join(names, ", "))
		return
	}

	signatureMap, err := m.buildSignatureMap()
	if err != nil {
		return
	}

	m.payload.SignatureMap = signatureMap
	m.payload.UpdatedAt = request.CreatedAt

	responseData := responses.SignaturesFinalizedResponse{
		SignatureMap: signatureMap,
	}

	return inEvent, responseData, nil
}

func (m *SigningSequenceFSM) actionReopenSignatures(inEvent fsm.Event, args ...interface{}) (outEvent fsm.Event, response interface{}, err error) {
	m.payloadMu.Lock()
	defer m.payloadMu.Unlock()

	request, err := m.defaultRequest(args...)
	if err != nil {
		return
	}

	m.payload.SignatureMap = nil
	m.payload.UpdatedAt = request.CreatedAt

	return
}
