package placement

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/docstacker/docsign/pkg/geometry"
	"github.com/docstacker/docsign/types"
)

var (
	signerA = types.Signer{ID: "signer_a", Name: "Alice", Color: "#1976d2"}
	signerB = types.Signer{ID: "signer_b", Name: "Bob", Color: "#9c27b0"}
	signerC = types.Signer{ID: "signer_c", Name: "Carol", Color: "#2e7d32"}
)

func newTestEngine(roster ...types.Signer) *Engine {
	e := NewEngine(roster)
	counter := 0
	e.newID = func() string {
		counter++
		return fmt.Sprintf("field_%d", counter)
	}
	return e
}

func TestEngine_AddField(t *testing.T) {
	req := require.New(t)
	e := newTestEngine(signerA)

	field, err := e.AddField(types.FieldSignature, signerA.ID, 2)
	req.NoError(err)
	req.Equal("field_1", field.ID)
	req.Equal(2, field.PageNumber)
	req.Equal(0.30, field.XNorm)
	req.Equal(0.70, field.YNorm)
	req.Equal(0.25, field.WidthNorm)
	req.Equal(0.08, field.HeightNorm)
	req.Equal(signerA.ID, field.SignerRole)
	req.True(field.Required)

	_, err = e.AddField(types.FieldSignature, "signer_unknown", 0)
	req.ErrorIs(err, types.ErrInvalidSigner)

	_, err = e.AddField("stamp", signerA.ID, 0)
	req.ErrorIs(err, types.ErrValidation)

	_, err = e.AddField(types.FieldDate, signerA.ID, -1)
	req.ErrorIs(err, types.ErrValidation)

	req.Len(e.Fields(), 1)
}

func TestEngine_AddDeleteRoundTrip(t *testing.T) {
	req := require.New(t)
	e := newTestEngine(signerA, signerB)

	_, err := e.AddField(types.FieldSignature, signerA.ID, 0)
	req.NoError(err)
	_, err = e.AddField(types.FieldText, signerB.ID, 1)
	req.NoError(err)
	before := e.Fields()

	field, err := e.AddField(types.FieldDate, signerB.ID, 0)
	req.NoError(err)
	req.NoError(e.DeleteField(field.ID))

	if diff := cmp.Diff(before, e.Fields()); diff != "" {
		t.Fatalf("fields changed after add+delete (-want +got):\n%s", diff)
	}

	req.ErrorIs(e.DeleteField(field.ID), types.ErrUnknownField)
	req.Equal(before, e.Fields())
}

func TestEngine_MoveField_Clamp(t *testing.T) {
	req := require.New(t)
	e := newTestEngine(signerA)

	err := e.Load([]types.SignatureField{{
		ID:         "f1",
		FieldType:  types.FieldSignature,
		XNorm:      0.3,
		YNorm:      0.7,
		WidthNorm:  0.2,
		HeightNorm: 0.06,
		SignerRole: signerA.ID,
		Required:   true,
	}})
	req.NoError(err)

	moved, err := e.MoveField("f1", geometry.Point{X: 2.0, Y: -2.0})
	req.NoError(err)
	req.Equal(0.8, moved.XNorm)
	req.Equal(0.0, moved.YNorm)
	req.Equal(0.2, moved.WidthNorm)
	req.Equal(0.06, moved.HeightNorm)

	_, err = e.MoveField("missing", geometry.Point{})
	req.ErrorIs(err, types.ErrUnknownField)
}

func TestEngine_MoveField_InvariantHolds(t *testing.T) {
	req := require.New(t)
	e := newTestEngine(signerA)

	field, err := e.AddField(types.FieldSignature, signerA.ID, 0)
	req.NoError(err)

	deltas := []geometry.Point{
		{X: 0.1, Y: 0.1},
		{X: -5, Y: 3},
		{X: 1e6, Y: -1e6},
		{X: 0.33, Y: -0.12},
		{X: -0.01, Y: 0.5},
		{X: 0.75, Y: 0.92},
	}
	for _, d := range deltas {
		field, err = e.MoveField(field.ID, d)
		req.NoError(err)
		req.True(field.XNorm >= 0 && field.XNorm <= 1-field.WidthNorm, "x=%v after %v", field.XNorm, d)
		req.True(field.YNorm >= 0 && field.YNorm <= 1-field.HeightNorm, "y=%v after %v", field.YNorm, d)
	}
}

func TestEngine_FieldsOnPage(t *testing.T) {
	req := require.New(t)
	e := newTestEngine(signerA, signerB)

	f1, _ := e.AddField(types.FieldSignature, signerA.ID, 0)
	_, _ = e.AddField(types.FieldSignature, signerB.ID, 1)
	f3, _ := e.AddField(types.FieldDate, signerB.ID, 0)

	onFirst := e.FieldsOnPage(0)
	req.Len(onFirst, 2)
	req.Equal(f1.ID, onFirst[0].ID)
	req.Equal(f3.ID, onFirst[1].ID)
	req.Empty(e.FieldsOnPage(7))
}

func TestEngine_ValidateCoverage(t *testing.T) {
	req := require.New(t)
	roster := []types.Signer{signerA, signerB, signerC}
	e := newTestEngine(roster...)

	_, err := e.AddField(types.FieldSignature, signerA.ID, 0)
	req.NoError(err)
	_, err = e.AddField(types.FieldSignature, signerB.ID, 1)
	req.NoError(err)

	missing := e.ValidateCoverage(roster)
	req.Equal([]types.Signer{signerC}, missing)

	_, err = e.AddField(types.FieldSignature, signerC.ID, 1)
	req.NoError(err)
	req.Empty(e.ValidateCoverage(roster))
}

func TestEngine_RemoveSignerFields(t *testing.T) {
	req := require.New(t)
	e := newTestEngine(signerA, signerB)

	_, _ = e.AddField(types.FieldSignature, signerA.ID, 0)
	b1, _ := e.AddField(types.FieldSignature, signerB.ID, 0)
	b2, _ := e.AddField(types.FieldText, signerB.ID, 1)

	removed := e.RemoveSignerFields(signerB.ID)
	req.Equal([]string{b1.ID, b2.ID}, removed)
	req.Len(e.Fields(), 1)
	req.Equal(map[string]int{signerA.ID: 1, signerB.ID: 0}, e.CountBySigner())
}

func TestEngine_Load_Rejects(t *testing.T) {
	req := require.New(t)
	e := newTestEngine(signerA)

	outside := types.SignatureField{
		ID: "f1", FieldType: types.FieldSignature, XNorm: 0.9, YNorm: 0.1,
		WidthNorm: 0.2, HeightNorm: 0.1, SignerRole: signerA.ID,
	}
	req.ErrorIs(e.Load([]types.SignatureField{outside}), types.ErrValidation)

	foreign := outside
	foreign.XNorm = 0.1
	foreign.SignerRole = "signer_x"
	req.ErrorIs(e.Load([]types.SignatureField{foreign}), types.ErrInvalidSigner)

	ok := outside
	ok.XNorm = 0.1
	req.ErrorIs(e.Load([]types.SignatureField{ok, ok}), types.ErrValidation)
	req.NoError(e.Load([]types.SignatureField{ok}))
	req.Len(e.SignatureFields(), 1)
}

func TestEngine_AutoPlace_Deterministic(t *testing.T) {
	req := require.New(t)
	roster := []types.Signer{signerA, signerB, signerC}

	first := newTestEngine(roster...)
	second := newTestEngine(roster...)

	p1, err := first.AutoPlace([]byte("seed"), 2)
	req.NoError(err)
	p2, err := second.AutoPlace([]byte("seed"), 2)
	req.NoError(err)
	req.Equal(p1, p2)

	req.Len(p1, 3)
	req.Equal(0, p1[0].PageNumber)
	req.Equal(1, p1[1].PageNumber)
	req.Equal(1, p1[2].PageNumber)
	for _, f := range p1 {
		req.True(BoxOf(f).Valid())
		req.Equal(types.FieldSignature, f.FieldType)
	}
	req.Empty(first.ValidateCoverage(roster))

	_, err = first.AutoPlace(nil, 0)
	req.ErrorIs(err, types.ErrValidation)
}
