package state_machines

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ssf "github.com/docstacker/docsign/fsm/state_machines/signing_sequence_fsm"
	wf "github.com/docstacker/docsign/fsm/state_machines/workflow_fsm"
	"github.com/docstacker/docsign/fsm/types/requests"
	"github.com/docstacker/docsign/types"
)

var (
	tm = time.Now()

	testRoster = []types.Signer{
		{ID: "signer_1", Name: "User 1", Color: "#1976d2"},
		{ID: "signer_2", Name: "User 2", Color: "#9c27b0"},
	}

	testFields = []types.SignatureField{
		{ID: "f1", FieldType: types.FieldSignature, XNorm: 0.1, YNorm: 0.1, WidthNorm: 0.2, HeightNorm: 0.06, SignerRole: "signer_1", Required: true},
		{ID: "f2", FieldType: types.FieldSignature, XNorm: 0.4, YNorm: 0.1, WidthNorm: 0.2, HeightNorm: 0.06, SignerRole: "signer_2", Required: true},
	}
)

func TestCreate_Positive(t *testing.T) {
	req := require.New(t)

	instance := New("session-1")
	req.Equal(wf.StageUpload, instance.Workflow.State())
	req.Nil(instance.Sequence)
	req.Len(instance.Machines(), 1)
}

func TestDump_RoundTrip(t *testing.T) {
	req := require.New(t)

	instance := New("session-1")
	_, err := instance.Workflow.Do(wf.EventDocumentsStacked, requests.DocumentsStackedRequest{
		DocumentID: "doc-1", PageCount: 2, CreatedAt: tm,
	})
	req.NoError(err)

	dump, err := instance.Dump()
	req.NoError(err)

	restored, err := FromDump(dump)
	req.NoError(err)
	req.Equal("session-1", restored.Id)
	req.Equal(wf.StagePlaceFields, restored.Workflow.State())
	req.Nil(restored.Sequence)

	req.NoError(instance.StartSequence(testRoster, testFields))
	_, err = instance.Sequence.Do(ssf.EventCaptureSignature, requests.SignatureCaptureRequest{
		Raster: types.Raster("png"), CreatedAt: tm,
	})
	req.NoError(err)
	_, err = instance.Sequence.Do(ssf.EventNextSigner, requests.DefaultRequest{CreatedAt: tm})
	req.NoError(err)

	dump, err = instance.Dump()
	req.NoError(err)

	restored, err = FromDump(dump)
	req.NoError(err)
	req.NotNil(restored.Sequence)
	req.Equal(instance.Sequence.State(), restored.Sequence.State())
	req.Equal(instance.Sequence.Status(), restored.Sequence.Status())
	req.Len(restored.Machines(), 2)

	_, err = FromDump([]byte("{broken"))
	req.Error(err)
}

func TestStartSequence_KeepsSignatures(t *testing.T) {
	req := require.New(t)

	instance := New("session-1")
	req.NoError(instance.StartSequence(testRoster, testFields))
	_, err := instance.Sequence.Do(ssf.EventCaptureSignature, requests.SignatureCaptureRequest{
		Raster: types.Raster("png"), CreatedAt: tm,
	})
	req.NoError(err)

	// signer_2 lost their field, signer_1 keeps the signature
	req.NoError(instance.StartSequence(testRoster, testFields[:1]))
	req.Equal(map[string]types.Raster{"signer_1": types.Raster("png")}, instance.Sequence.Signatures())
	req.Equal(1, instance.Sequence.Status().Total)

	req.ErrorIs(instance.StartSequence(testRoster, nil), types.ErrValidation)
}
