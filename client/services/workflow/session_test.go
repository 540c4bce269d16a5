package workflow

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/docstacker/docsign/capture"
	"github.com/docstacker/docsign/common"
	"github.com/docstacker/docsign/docapi"
	"github.com/docstacker/docsign/fsm/state_machines/signing_sequence_fsm"
	"github.com/docstacker/docsign/fsm/state_machines/workflow_fsm"
	"github.com/docstacker/docsign/mocks/docapiMocks"
	"github.com/docstacker/docsign/mocks/repoMocks"
	"github.com/docstacker/docsign/mocks/storageMocks"
	"github.com/docstacker/docsign/pkg/geometry"
	"github.com/docstacker/docsign/qr"
	"github.com/docstacker/docsign/types"
)

const testDocumentID = "doc_stacked"

type testEnv struct {
	svc   *BaseService
	docs  *docapiMocks.MockDocumentService
	audit *storageMocks.MockStorage
	repo  *repoMocks.MockSessionRepo
}

func newTestEnv(t *testing.T) *testEnv {
	ctrl := gomock.NewController(t)

	env := &testEnv{
		docs:  docapiMocks.NewMockDocumentService(ctrl),
		audit: storageMocks.NewMockStorage(ctrl),
		repo:  repoMocks.NewMockSessionRepo(ctrl),
	}
	env.audit.EXPECT().Send(gomock.Any()).Return(nil).AnyTimes()
	env.repo.EXPECT().PutSession(gomock.Any()).Return(nil).AnyTimes()

	logger := common.NewLoggerTo("workflow_test", &bytes.Buffer{})
	env.svc = NewService(env.docs, env.repo, env.audit, logger, 0)

	return env
}

func testStackRequest() docapi.StackRequest {
	return docapi.StackRequest{
		Cover: &docapi.Document{Filename: "cover.pdf", Content: []byte("%PDF-cover")},
		Body:  &docapi.Document{Filename: "body.pdf", Content: []byte("%PDF-body")},
	}
}

func (env *testEnv) stack(t *testing.T, sess *Session, pages int) {
	req := require.New(t)

	env.docs.EXPECT().Stack(gomock.Any(), gomock.Any()).
		Return(docapi.StackResult{DocumentID: testDocumentID, PageCount: pages}, nil)
	env.docs.EXPECT().GetDocumentInfo(gomock.Any(), testDocumentID).
		Return(docapi.DocumentInfo{DocumentID: testDocumentID, PageCount: pages, PageWidth: 612, PageHeight: 792}, nil)

	view, err := sess.StackDocuments(context.Background(), testStackRequest())
	req.NoError(err)
	req.Equal(string(workflow_fsm.StagePlaceFields), view.Stage)
	req.Equal(pages, view.PageCount)
}

// toSign adds a field per signer and completes the placement.
func (env *testEnv) toSign(t *testing.T, sess *Session) {
	req := require.New(t)

	for i, signer := range sess.Roster() {
		_, err := sess.AddField(types.FieldSignature, signer.ID, i%sess.Snapshot().PageCount)
		req.NoError(err)
	}
	env.docs.EXPECT().SaveFields(gomock.Any(), testDocumentID, gomock.Any()).Return(nil)

	view, err := sess.CompletePlacement(context.Background())
	req.NoError(err)
	req.Equal(string(workflow_fsm.StageSign), view.Stage)
}

func TestCoverageScenario(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	sess, err := env.svc.CreateSession([]string{"A", "B", "C"})
	req.NoError(err)
	env.stack(t, sess, 2)

	roster := sess.Roster()
	a, b, c := roster[0], roster[1], roster[2]

	_, err = sess.AddField(types.FieldSignature, a.ID, 0)
	req.NoError(err)
	_, err = sess.AddField(types.FieldSignature, b.ID, 1)
	req.NoError(err)

	req.Equal([]types.Signer{c}, sess.Coverage())

	_, err = sess.CompletePlacement(context.Background())
	req.ErrorIs(err, types.ErrValidation)
	req.Contains(err.Error(), "C")
	req.Equal(string(workflow_fsm.StagePlaceFields), sess.Snapshot().Stage)

	_, err = sess.AddField(types.FieldSignature, c.ID, 1)
	req.NoError(err)
	req.Empty(sess.Coverage())
	req.Len(sess.FieldsOnPage(1), 2)

	env.docs.EXPECT().SaveFields(gomock.Any(), testDocumentID, gomock.Len(3)).Return(nil)
	view, err := sess.CompletePlacement(context.Background())
	req.NoError(err)
	req.Equal(string(workflow_fsm.StageSign), view.Stage)
	req.NotNil(view.Signing)
	req.Equal(3, view.Signing.Total)
}

func TestMoveFieldClampsToPage(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	sess, err := env.svc.CreateSession([]string{"Alice"})
	req.NoError(err)
	env.stack(t, sess, 1)

	placed, err := sess.AutoPlace([]byte("seed"))
	req.NoError(err)
	req.Len(placed, 1)
	req.Equal(0.2, placed[0].WidthNorm)
	req.Equal(0.06, placed[0].HeightNorm)

	moved, err := sess.MoveField(placed[0].ID, geometry.Point{X: 2.0, Y: -2.0})
	req.NoError(err)
	req.InDelta(0.8, moved.XNorm, 1e-9)
	req.Equal(0.0, moved.YNorm)

	_, err = sess.MoveField("missing", geometry.Point{X: 0.1})
	req.ErrorIs(err, types.ErrUnknownField)
}

func TestStageOrderViolation(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	sess, err := env.svc.CreateSession(nil)
	req.NoError(err)
	signer := sess.Roster()[0]
	req.Equal(defaultSignerName, signer.Name)

	_, err = sess.AddField(types.FieldSignature, signer.ID, 0)
	req.ErrorIs(err, types.ErrValidation)

	_, err = sess.Back()
	req.ErrorIs(err, types.ErrValidation)

	_, err = sess.CompleteSigning(context.Background())
	req.ErrorIs(err, types.ErrValidation)

	_, err = sess.DownloadURL()
	req.ErrorIs(err, types.ErrValidation)

	// documents are checked before the backend is called
	_, err = sess.StackDocuments(context.Background(), docapi.StackRequest{Cover: testStackRequest().Cover})
	req.ErrorIs(err, types.ErrValidation)

	env.stack(t, sess, 1)
	_, err = sess.AddSigner("Bob")
	req.ErrorIs(err, types.ErrValidation)
}

func TestCompletePlacementWithoutSignatureField(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	sess, err := env.svc.CreateSession([]string{"Alice"})
	req.NoError(err)
	env.stack(t, sess, 1)

	signer := sess.Roster()[0]
	_, err = sess.AddField(types.FieldText, signer.ID, 0)
	req.NoError(err)
	_, err = sess.AddField(types.FieldDate, signer.ID, 0)
	req.NoError(err)
	req.Empty(sess.Coverage())

	// SaveFields has no expectation, the backend must not be called
	_, err = sess.CompletePlacement(context.Background())
	req.ErrorIs(err, types.ErrValidation)

	view := sess.Snapshot()
	req.Equal(string(workflow_fsm.StagePlaceFields), view.Stage)
	req.Nil(view.Signing)
	req.Len(view.Fields, 2)
}

func TestRoster(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	sess, err := env.svc.CreateSession([]string{"Alice"})
	req.NoError(err)

	_, err = sess.AddSigner("  ")
	req.ErrorIs(err, types.ErrValidation)

	for _, name := range []string{"Bob", "Carol", "Dave", "Eve"} {
		_, err = sess.AddSigner(name)
		req.NoError(err)
	}
	_, err = sess.AddSigner("Frank")
	req.ErrorIs(err, types.ErrValidation)

	roster := sess.Roster()
	colors := make(map[string]bool)
	for _, s := range roster {
		req.Regexp(`^signer_[0-9a-f]{9}$`, s.ID)
		colors[s.Color] = true
	}
	req.Len(colors, 5)

	renamed, err := sess.RenameSigner(roster[1].ID, "Robert")
	req.NoError(err)
	req.Equal("Robert", renamed.Name)

	req.NoError(sess.RemoveSigner(roster[1].ID))
	req.ErrorIs(sess.RemoveSigner(roster[1].ID), types.ErrInvalidSigner)

	// the freed color is reused
	added, err := sess.AddSigner("Frank")
	req.NoError(err)
	req.Equal(roster[1].Color, added.Color)

	for _, s := range sess.Roster()[1:] {
		req.NoError(sess.RemoveSigner(s.ID))
	}
	req.ErrorIs(sess.RemoveSigner(roster[0].ID), types.ErrValidation)
}

func TestDragThroughSession(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	sess, err := env.svc.CreateSession([]string{"Alice"})
	req.NoError(err)
	env.stack(t, sess, 2)

	field, err := sess.AddField(types.FieldSignature, sess.Roster()[0].ID, 0)
	req.NoError(err)
	other, err := sess.AddField(types.FieldDate, sess.Roster()[0].ID, 0)
	req.NoError(err)

	req.ErrorIs(sess.PointerDown(0, field.ID, geometry.Point{}), types.ErrImageNotLoaded)

	env.docs.EXPECT().GetPageImage(gomock.Any(), testDocumentID, 0).Return(types.Raster("png"), nil)
	raster, err := sess.OpenPage(context.Background(), 0)
	req.NoError(err)
	req.Equal(types.Raster("png"), raster)

	_, err = sess.OpenPage(context.Background(), 5)
	req.ErrorIs(err, types.ErrValidation)

	req.ErrorIs(sess.PointerDown(0, field.ID, geometry.Point{X: 300, Y: 700}), types.ErrImageNotLoaded)
	req.NoError(sess.SetPageImageSize(0, 1000, 1000))

	// grab the field 10px inside its origin
	req.NoError(sess.PointerDown(0, field.ID, geometry.Point{X: 310, Y: 710}))
	req.ErrorIs(sess.PointerDown(0, other.ID, geometry.Point{X: 310, Y: 710}), types.ErrDragInProgress)

	moved, err := sess.PointerMove(geometry.Point{X: 110, Y: 110})
	req.NoError(err)
	req.InDelta(0.1, moved.XNorm, 1e-9)
	req.InDelta(0.1, moved.YNorm, 1e-9)

	released, err := sess.PointerUp()
	req.NoError(err)
	req.Equal(moved, *released)

	released, err = sess.PointerUp()
	req.NoError(err)
	req.Nil(released)

	// closing the page cancels a drag
	req.NoError(sess.PointerDown(0, other.ID, geometry.Point{X: 300, Y: 700}))
	sess.ClosePage(0)
	_, err = sess.PointerMove(geometry.Point{X: 0, Y: 0})
	req.ErrorIs(err, types.ErrValidation)

	req.NoError(sess.DeleteField(other.ID))
	req.ErrorIs(sess.DeleteField(other.ID), types.ErrUnknownField)
	req.Len(sess.Fields(), 1)
}

func TestSignFailureKeepsState(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	sess, err := env.svc.CreateSession([]string{"Alice"})
	req.NoError(err)
	env.stack(t, sess, 1)
	env.toSign(t, sess)

	_, err = sess.CompleteSigning(context.Background())
	req.ErrorIs(err, types.ErrIncompleteSignature)

	status, scale, err := sess.CaptureTyped("Alice Liddell", "")
	req.NoError(err)
	req.Equal(1.0, scale)
	req.True(status.AllComplete)
	req.False(status.NavigationAvailable)

	_, err = sess.NextSigner()
	req.ErrorIs(err, types.ErrNavigationUnavailable)

	env.docs.EXPECT().Sign(gomock.Any(), testDocumentID, gomock.Any()).
		Return("", types.ErrCollaboratorFailure)
	_, err = sess.CompleteSigning(context.Background())
	req.ErrorIs(err, types.ErrCollaboratorFailure)

	view := sess.Snapshot()
	req.Equal(string(workflow_fsm.StageSign), view.Stage)
	req.Equal(1, view.Signing.CompleteCount)
	req.NotEqual(string(signing_sequence_fsm.StateSignaturesFinalized), view.Signing.State)

	var signed types.SignatureMap
	env.docs.EXPECT().Sign(gomock.Any(), testDocumentID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, m types.SignatureMap) (string, error) {
			signed = m
			return "doc_signed", nil
		})
	view, err = sess.CompleteSigning(context.Background())
	req.NoError(err)
	req.Equal(string(workflow_fsm.StageDownload), view.Stage)
	req.Equal("doc_signed", view.SignedDocumentID)

	req.Len(signed, 1)
	for fieldID, entry := range signed {
		req.Equal(fieldID, entry.FieldID)
		req.False(entry.Raster.IsEmpty())
	}
}

func TestBackAndNextPreserveData(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	sess, err := env.svc.CreateSession([]string{"Alice", "Bob"})
	req.NoError(err)
	env.stack(t, sess, 2)
	env.toSign(t, sess)

	status, err := sess.CaptureFreehand([]capture.Stroke{
		{{X: 10, Y: 10}, {X: 100, Y: 60}, {X: 200, Y: 20}},
	})
	req.NoError(err)
	req.Equal(1, status.CompleteCount)
	alice := status.Signers[0]

	status, err = sess.NextSigner()
	req.NoError(err)
	req.Equal(1, status.Index)

	_, err = sess.PreviousSigner()
	req.NoError(err)
	status, err = sess.NextSigner()
	req.NoError(err)
	req.Equal(1, status.Index)
	req.Equal(alice.Digest, status.Signers[0].Digest)

	fieldsBefore := sess.Fields()
	rosterBefore := sess.Roster()

	view, err := sess.Back()
	req.NoError(err)
	req.Equal(string(workflow_fsm.StagePlaceFields), view.Stage)
	req.Equal(fieldsBefore, view.Fields)
	req.Equal(rosterBefore, view.Roster)

	env.docs.EXPECT().SaveFields(gomock.Any(), testDocumentID, gomock.Any()).Return(nil)
	view, err = sess.CompletePlacement(context.Background())
	req.NoError(err)
	req.Equal(1, view.Signing.CompleteCount)
	req.Equal(alice.Digest, view.Signing.Signers[0].Digest)

	// a stroke without a segment clears the signature
	status, err = sess.SelectSigner(1)
	req.NoError(err)
	status, err = sess.CaptureFreehand([]capture.Stroke{{{X: 5, Y: 5}}})
	req.NoError(err)
	req.Equal(1, status.CompleteCount)

	_, err = sess.SelectSigner(0)
	req.NoError(err)
	status, err = sess.ReSign(alice.SignerID)
	req.NoError(err)
	req.Equal(0, status.CompleteCount)
	req.Equal(string(signing_sequence_fsm.StateSignerEditing), status.State)
}

func TestDownload(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	sess, err := env.svc.CreateSession([]string{"Alice"})
	req.NoError(err)
	env.stack(t, sess, 1)
	env.toSign(t, sess)

	_, _, err = sess.CaptureTyped("Alice", capture.DefaultStyle)
	req.NoError(err)
	env.docs.EXPECT().Sign(gomock.Any(), testDocumentID, gomock.Any()).Return("doc_signed", nil)
	_, err = sess.CompleteSigning(context.Background())
	req.NoError(err)

	env.docs.EXPECT().DownloadURL(gomock.Any()).DoAndReturn(func(id string) string {
		return "http://backend/api/documents/" + id + "/download"
	}).AnyTimes()

	url, err := sess.DownloadURL()
	req.NoError(err)
	req.Equal("http://backend/api/documents/doc_signed/download", url)

	env.docs.EXPECT().Finalize(gomock.Any(), "doc_signed").Return("doc_final", nil)
	view, err := sess.FinalizeDocument(context.Background())
	req.NoError(err)
	req.Equal("doc_final", view.FinalDocumentID)

	url, err = sess.DownloadURL()
	req.NoError(err)
	req.Equal("http://backend/api/documents/doc_final/download", url)

	png, err := sess.DownloadQR()
	req.NoError(err)
	decoded, err := qr.DecodeBytes(png)
	req.NoError(err)
	req.Equal(url, decoded)

	// back to signing keeps the signatures
	view, err = sess.Back()
	req.NoError(err)
	req.Equal(string(workflow_fsm.StageSign), view.Stage)
	req.True(view.Signing.AllComplete)
	req.NotEqual(string(signing_sequence_fsm.StateSignaturesFinalized), view.Signing.State)
}

func TestCollaboratorFailureOnStack(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	sess, err := env.svc.CreateSession([]string{"Alice"})
	req.NoError(err)

	env.docs.EXPECT().Stack(gomock.Any(), gomock.Any()).
		Return(docapi.StackResult{}, errors.New("boom"))
	_, err = sess.StackDocuments(context.Background(), testStackRequest())
	req.Error(err)
	req.Equal(string(workflow_fsm.StageUpload), sess.Snapshot().Stage)
}
