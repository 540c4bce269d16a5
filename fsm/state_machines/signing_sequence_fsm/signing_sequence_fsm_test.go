package signing_sequence_fsm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/docstacker/docsign/fsm/fsm"
	"github.com/docstacker/docsign/fsm/types/requests"
	"github.com/docstacker/docsign/fsm/types/responses"
	"github.com/docstacker/docsign/types"
)

var (
	alice = types.Signer{ID: "signer_alice", Name: "Alice", Color: "#1976d2"}
	bob   = types.Signer{ID: "signer_bob", Name: "Bob", Color: "#9c27b0"}
	carol = types.Signer{ID: "signer_carol", Name: "Carol", Color: "#2e7d32"}

	rasterA = types.Raster("png-alice")
	rasterB = types.Raster("png-bob")
)

func field(id, signer string, fieldType types.FieldType) types.SignatureField {
	return types.SignatureField{
		ID: id, FieldType: fieldType, XNorm: 0.3, YNorm: 0.7,
		WidthNorm: 0.25, HeightNorm: 0.08, SignerRole: signer, Required: true,
	}
}

func now() time.Time {
	return time.Now()
}

func capture(t *testing.T, m *SigningSequenceFSM, raster types.Raster) {
	_, err := m.Do(EventCaptureSignature, requests.SignatureCaptureRequest{Raster: raster, CreatedAt: now()})
	require.NoError(t, err)
}

func newTwoSigners(t *testing.T) *SigningSequenceFSM {
	m, err := New(
		[]types.Signer{alice, bob, carol},
		[]types.SignatureField{
			field("f1", alice.ID, types.FieldSignature),
			field("f2", bob.ID, types.FieldSignature),
			field("f3", bob.ID, types.FieldSignature),
			field("f4", carol.ID, types.FieldDate),
		},
		nil,
	)
	require.NoError(t, err)
	return m
}

func TestNew_SequenceSkipsSignersWithoutSignatureFields(t *testing.T) {
	req := require.New(t)
	m := newTwoSigners(t)

	status := m.Status()
	req.Equal(2, status.Total)
	req.Equal(alice.ID, status.Signers[0].SignerID)
	req.Equal(bob.ID, status.Signers[1].SignerID)
	req.Equal(string(StateSignerEditing), status.State)

	_, err := New([]types.Signer{carol}, []types.SignatureField{field("f4", carol.ID, types.FieldText)}, nil)
	req.ErrorIs(err, types.ErrValidation)
}

func TestNext_RequiresSignature(t *testing.T) {
	req := require.New(t)
	m := newTwoSigners(t)

	_, err := m.Do(EventNextSigner, requests.DefaultRequest{CreatedAt: now()})
	req.ErrorIs(err, types.ErrValidation)
	req.Equal(StateSignerEditing, m.State())
	req.Equal(0, m.Status().Index)

	capture(t, m, rasterA)
	resp, err := m.Do(EventNextSigner, requests.DefaultRequest{CreatedAt: now()})
	req.NoError(err)
	req.Equal(StateSignerEditing, resp.State)
	req.Equal(bob, m.CurrentSigner())

	capture(t, m, rasterB)
	// no-op at the end
	resp, err = m.Do(EventNextSigner, requests.DefaultRequest{CreatedAt: now()})
	req.NoError(err)
	req.Equal(StateSignerEditing, resp.State)
	req.Equal(1, m.Status().Index)
}

func TestPrevious_KeepsSignatures(t *testing.T) {
	req := require.New(t)
	m := newTwoSigners(t)

	_, err := m.Do(EventPreviousSigner, requests.DefaultRequest{CreatedAt: now()})
	req.ErrorIs(err, types.ErrValidation)

	capture(t, m, rasterA)
	_, err = m.Do(EventNextSigner, requests.DefaultRequest{CreatedAt: now()})
	req.NoError(err)

	resp, err := m.Do(EventPreviousSigner, requests.DefaultRequest{CreatedAt: now()})
	req.NoError(err)
	req.Equal(StateSignerReviewing, resp.State)
	req.Equal(rasterA, m.Signatures()[alice.ID])

	// capture is not possible while reviewing
	_, err = m.Do(EventCaptureSignature, requests.SignatureCaptureRequest{Raster: rasterB, CreatedAt: now()})
	req.ErrorIs(err, fsm.ErrEventUnavailable)

	resp, err = m.Do(EventNextSigner, requests.DefaultRequest{CreatedAt: now()})
	req.NoError(err)
	req.Equal(StateSignerEditing, resp.State)
}

func TestSelect_CannotSkipIncomplete(t *testing.T) {
	req := require.New(t)
	m, err := New([]types.Signer{alice, bob, carol}, []types.SignatureField{
		field("f1", alice.ID, types.FieldSignature),
		field("f2", bob.ID, types.FieldSignature),
		field("f3", carol.ID, types.FieldSignature),
	}, nil)
	req.NoError(err)

	_, err = m.Do(EventSelectSigner, requests.SignerSelectRequest{Index: 1, CreatedAt: now()})
	req.ErrorIs(err, types.ErrValidation)

	capture(t, m, rasterA)
	_, err = m.Do(EventSelectSigner, requests.SignerSelectRequest{Index: 2, CreatedAt: now()})
	req.ErrorIs(err, types.ErrValidation)

	resp, err := m.Do(EventSelectSigner, requests.SignerSelectRequest{Index: 1, CreatedAt: now()})
	req.NoError(err)
	req.Equal(StateSignerEditing, resp.State)

	resp, err = m.Do(EventSelectSigner, requests.SignerSelectRequest{Index: 0, CreatedAt: now()})
	req.NoError(err)
	req.Equal(StateSignerReviewing, resp.State)

	_, err = m.Do(EventSelectSigner, requests.SignerSelectRequest{Index: 9, CreatedAt: now()})
	req.ErrorIs(err, types.ErrValidation)
}

func TestReSign_ClearsOnlyThatSigner(t *testing.T) {
	req := require.New(t)
	m := newTwoSigners(t)

	capture(t, m, rasterA)
	_, err := m.Do(EventNextSigner, requests.DefaultRequest{CreatedAt: now()})
	req.NoError(err)
	capture(t, m, rasterB)

	resp, err := m.Do(EventReSign, requests.ReSignRequest{SignerID: alice.ID, CreatedAt: now()})
	req.NoError(err)
	req.Equal(StateSignerEditing, resp.State)
	req.Equal(alice, m.CurrentSigner())

	signatures := m.Signatures()
	req.NotContains(signatures, alice.ID)
	req.Equal(rasterB, signatures[bob.ID])

	_, err = m.Do(EventReSign, requests.ReSignRequest{SignerID: carol.ID, CreatedAt: now()})
	req.ErrorIs(err, types.ErrInvalidSigner)
}

func TestFinalize_Gate(t *testing.T) {
	req := require.New(t)
	m := newTwoSigners(t)

	capture(t, m, rasterA)
	_, err := m.Do(EventFinalizeSignatures, requests.DefaultRequest{CreatedAt: now()})
	req.ErrorIs(err, types.ErrIncompleteSignature)
	req.ErrorIs(err, types.ErrValidation)
	req.NotEqual(StateSignaturesFinalized, m.State())

	_, err = m.Do(EventNextSigner, requests.DefaultRequest{CreatedAt: now()})
	req.NoError(err)
	capture(t, m, rasterB)

	resp, err := m.Do(EventFinalizeSignatures, requests.DefaultRequest{CreatedAt: now()})
	req.NoError(err)
	req.Equal(StateSignaturesFinalized, resp.State)

	finalized, ok := resp.Data.(responses.SignaturesFinalizedResponse)
	req.True(ok)
	req.Len(finalized.SignatureMap, 3)
	req.Equal(types.SignatureEntry{Raster: rasterA, FieldID: "f1"}, finalized.SignatureMap["f1"])
	req.Equal(rasterB, finalized.SignatureMap["f2"].Raster)
	req.Equal(rasterB, finalized.SignatureMap["f3"].Raster)
	req.NotContains(finalized.SignatureMap, "f4")

	resp, err = m.Do(EventReopenSignatures, requests.DefaultRequest{CreatedAt: now()})
	req.NoError(err)
	req.Equal(StateSignerReviewing, resp.State)
	req.Nil(m.SignatureMap())
}

func TestSingleSigner_NoNavigation(t *testing.T) {
	req := require.New(t)
	m, err := New([]types.Signer{alice}, []types.SignatureField{field("f1", alice.ID, types.FieldSignature)}, nil)
	req.NoError(err)

	req.NotContains(m.AvailableEvents(), EventNextSigner)
	req.NotContains(m.AvailableEvents(), EventPreviousSigner)
	req.False(m.Status().NavigationAvailable)

	capture(t, m, rasterA)
	_, err = m.Do(EventNextSigner, requests.DefaultRequest{CreatedAt: now()})
	req.ErrorIs(err, types.ErrNavigationUnavailable)

	resp, err := m.Do(EventFinalizeSignatures, requests.DefaultRequest{CreatedAt: now()})
	req.NoError(err)
	req.Equal(StateSignaturesFinalized, resp.State)
}

func TestNew_KeepsCapturedSignatures(t *testing.T) {
	req := require.New(t)

	m, err := New(
		[]types.Signer{alice, bob},
		[]types.SignatureField{field("f1", alice.ID, types.FieldSignature), field("f2", bob.ID, types.FieldSignature)},
		map[string]types.Raster{alice.ID: rasterA, carol.ID: rasterB},
	)
	req.NoError(err)
	req.Equal(StateSignerReviewing, m.State())
	req.Equal(map[string]types.Raster{alice.ID: rasterA}, m.Signatures())
	req.Equal(1, m.Status().CompleteCount)
}

func TestRestore(t *testing.T) {
	req := require.New(t)
	m := newTwoSigners(t)

	capture(t, m, rasterA)
	_, err := m.Do(EventNextSigner, requests.DefaultRequest{CreatedAt: now()})
	req.NoError(err)

	payload := m.Payload()
	restored, err := Restore(m.State(), &payload)
	req.NoError(err)
	req.Equal(m.Status(), restored.Status())

	payload.Index = 5
	_, err = Restore(StateSignerEditing, &payload)
	req.ErrorIs(err, types.ErrValidation)
}
