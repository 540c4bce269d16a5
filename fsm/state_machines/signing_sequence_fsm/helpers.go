package signing_sequence_fsm

import (
	"fmt"

	"github.com/docstacker/docsign/fsm/fsm"
	"github.com/docstacker/docsign/fsm/state_machines/internal"
	"github.com/docstacker/docsign/fsm/types/requests"
	"github.com/docstacker/docsign/fsm/types/responses"
	"github.com/docstacker/docsign/types"
)

func signatureFields(fields []types.SignatureField) []types.SignatureField {
	result := make([]types.SignatureField, 0, len(fields))
	for _, f := range fields {
		if f.FieldType == types.FieldSignature {
			result = append(result, f)
		}
	}
	return result
}

func (m *SigningSequenceFSM) defaultRequest(args ...interface{}) (request requests.DefaultRequest, err error) {
	if len(args) != 1 {
		err = fsm.NewErr(fsm.ErrorLevel, "{arg0} required {DefaultRequest}")
		return
	}

	request, ok := args[0].(requests.DefaultRequest)
	if !ok {
		err = fsm.NewErr(fsm.ErrorLevel, "cannot cast {arg0} to type {DefaultRequest}")
		return
	}

	err = request.Validate()
	return
}

func (m *SigningSequenceFSM) checkNavigation() error {
	if m.payload.SignersCount() < 2 {
		return fsm.WrapErrf(fsm.InfoLevel, types.ErrNavigationUnavailable, "single signer sequence")
	}
	return nil
}

// enterEvent picks the state for the signer at the current index.
func (m *SigningSequenceFSM) enterEvent() fsm.Event {
	if m.payload.HasSignature(m.payload.Current().ID) {
		return eventEnterReviewingInternal
	}
	return eventEnterEditingInternal
}

func (m *SigningSequenceFSM) stayEvent() fsm.Event {
	if m.FSM.State() == StateSignerReviewing {
		return eventEnterReviewingInternal
	}
	return eventEnterEditingInternal
}

func (m *SigningSequenceFSM) buildSignatureMap() (types.SignatureMap, error) {
	signatureMap := make(types.SignatureMap, len(m.payload.Fields))
	for _, field := range m.payload.Fields {
		raster := m.payload.Signatures[field.SignerRole]
		if raster.IsEmpty() {
			return nil, fmt.Errorf("%w: field %q of %q has no signature", types.ErrIncompleteSignature, field.ID, field.SignerRole)
		}
		signatureMap[field.ID] = types.SignatureEntry{
			Raster:  raster,
			FieldID: field.ID,
		}
	}
	return signatureMap, nil
}

// AvailableEvents hides navigation for a single signer sequence.
func (m *SigningSequenceFSM) AvailableEvents() []fsm.Event {
	m.payloadMu.RLock()
	defer m.payloadMu.RUnlock()

	return m.availableEvents()
}

func (m *SigningSequenceFSM) availableEvents() []fsm.Event {
	events := m.FSM.AvailableEvents()
	if m.payload.SignersCount() > 1 {
		return events
	}

	filtered := events[:0]
	for _, e := range events {
		if !navigationEvents[e] {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

func (m *SigningSequenceFSM) Status() responses.SigningStatusResponse {
	m.payloadMu.RLock()
	defer m.payloadMu.RUnlock()

	status := responses.SigningStatusResponse{
		State:               string(m.FSM.State()),
		Index:               m.payload.Index,
		Total:               m.payload.SignersCount(),
		CompleteCount:       m.payload.CompleteCount(),
		AllComplete:         m.payload.AllComplete(),
		NavigationAvailable: m.payload.SignersCount() > 1,
		Signers:             make([]*responses.SignerStatusEntry, 0, m.payload.SignersCount()),
	}

	for _, s := range m.payload.Signers {
		entry := &responses.SignerStatusEntry{
			SignerID: s.ID,
			Name:     s.Name,
			Color:    s.Color,
			Complete: m.payload.HasSignature(s.ID),
		}
		if entry.Complete {
			entry.Digest = m.payload.Signatures[s.ID].Digest()
		}
		status.Signers = append(status.Signers, entry)
	}

	for _, e := range m.availableEvents() {
		status.AvailableEvents = append(status.AvailableEvents, string(e))
	}

	return status
}

// Signatures returns a copy of the captured signatures by signer id.
func (m *SigningSequenceFSM) Signatures() map[string]types.Raster {
	m.payloadMu.RLock()
	defer m.payloadMu.RUnlock()

	result := make(map[string]types.Raster, len(m.payload.Signatures))
	for k, v := range m.payload.Signatures {
		result[k] = v
	}
	return result
}

func (m *SigningSequenceFSM) CurrentSigner() types.Signer {
	m.payloadMu.RLock()
	defer m.payloadMu.RUnlock()

	return m.payload.Current()
}

func (m *SigningSequenceFSM) SignatureMap() types.SignatureMap {
	m.payloadMu.RLock()
	defer m.payloadMu.RUnlock()

	return m.payload.SignatureMap
}

// Payload returns a copy of the machine payload for persistence.
func (m *SigningSequenceFSM) Payload() internal.SigningSequencePayload {
	m.payloadMu.RLock()
	defer m.payloadMu.RUnlock()

	p := *m.payload
	p.Signers = append([]types.Signer(nil), m.payload.Signers...)
	p.Fields = append([]types.SignatureField(nil), m.payload.Fields...)
	p.Signatures = make(map[string]types.Raster, len(m.payload.Signatures))
	for k, v := range m.payload.Signatures {
		p.Signatures[k] = v
	}
	return p
}
