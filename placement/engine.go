package placement

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/docstacker/docsign/fsm/config"
	"github.com/docstacker/docsign/pkg/geometry"
	"github.com/docstacker/docsign/types"
)

// Engine owns the ordered field collection of one document.
type Engine struct {
	mu sync.Mutex

	roster []types.Signer
	fields []types.SignatureField

	// drag is the single active drag, if any
	drag *Drag

	newID func() string
}

func NewEngine(roster []types.Signer) *Engine {
	e := &Engine{
		newID: func() string { return uuid.New().String() },
	}
	e.roster = append(e.roster, roster...)
	return e
}

// SetRoster replaces the signers fields may be assigned to. Existing fields
// are not touched, see RemoveSignerFields.
func (e *Engine) SetRoster(roster []types.Signer) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.roster = append([]types.Signer(nil), roster...)
}

func (e *Engine) Roster() []types.Signer {
	e.mu.Lock()
	defer e.mu.Unlock()

	return append([]types.Signer(nil), e.roster...)
}

func (e *Engine) hasSigner(id string) bool {
	for _, s := range e.roster {
		if s.ID == id {
			return true
		}
	}
	return false
}

func (e *Engine) indexOf(id string) int {
	for i := range e.fields {
		if e.fields[i].ID == id {
			return i
		}
	}
	return -1
}

// AddField creates a field at the default box on the given page.
func (e *Engine) AddField(fieldType types.FieldType, signerID string, pageNumber int) (types.SignatureField, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !fieldType.Valid() {
		return types.SignatureField{}, types.Validationf("unknown field type %q", fieldType)
	}
	if pageNumber < 0 {
		return types.SignatureField{}, types.Validationf("page number cannot be negative")
	}
	if !e.hasSigner(signerID) {
		return types.SignatureField{}, fmt.Errorf("%w: %q is not in the roster", types.ErrInvalidSigner, signerID)
	}

	field := types.SignatureField{
		ID:         e.newID(),
		FieldType:  fieldType,
		PageNumber: pageNumber,
		XNorm:      config.DefaultFieldX,
		YNorm:      config.DefaultFieldY,
		WidthNorm:  config.DefaultFieldWidth,
		HeightNorm: config.DefaultFieldHeight,
		SignerRole: signerID,
		Required:   true,
	}
	e.fields = append(e.fields, field)

	return field, nil
}

// MoveField translates a field by a normalized delta. The result is clamped
// so the field stays on the page.
func (e *Engine) MoveField(id string, delta geometry.Point) (types.SignatureField, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.moveField(id, delta)
}

func (e *Engine) moveField(id string, delta geometry.Point) (types.SignatureField, error) {
	idx := e.indexOf(id)
	if idx < 0 {
		return types.SignatureField{}, fmt.Errorf("%w: %q", types.ErrUnknownField, id)
	}

	box := BoxOf(e.fields[idx]).Translate(delta).ClampInside()
	e.fields[idx].XNorm = box.X
	e.fields[idx].YNorm = box.Y

	return e.fields[idx], nil
}

// DeleteField removes a field. Deleting an absent id reports ErrUnknownField
// and leaves the collection unchanged.
func (e *Engine) DeleteField(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %q", types.ErrUnknownField, id)
	}
	if e.drag != nil && e.drag.fieldID == id {
		e.drag.released = true
		e.drag = nil
	}
	e.fields = append(e.fields[:idx], e.fields[idx+1:]...)

	return nil
}

// FieldsOnPage returns the fields of one page in insertion order.
func (e *Engine) FieldsOnPage(pageNumber int) []types.SignatureField {
	e.mu.Lock()
	defer e.mu.Unlock()

	result := make([]types.SignatureField, 0)
	for _, f := range e.fields {
		if f.PageNumber == pageNumber {
			result = append(result, f)
		}
	}
	return result
}

// ValidateCoverage returns the signers that own no field, in roster order.
// An empty result means every signer is covered.
func (e *Engine) ValidateCoverage(signers []types.Signer) []types.Signer {
	e.mu.Lock()
	defer e.mu.Unlock()

	owned := make(map[string]bool, len(e.fields))
	for _, f := range e.fields {
		owned[f.SignerRole] = true
	}

	missing := make([]types.Signer, 0)
	for _, s := range signers {
		if !owned[s.ID] {
			missing = append(missing, s)
		}
	}
	return missing
}

func (e *Engine) Fields() []types.SignatureField {
	e.mu.Lock()
	defer e.mu.Unlock()

	return append([]types.SignatureField(nil), e.fields...)
}

func (e *Engine) Field(id string) (types.SignatureField, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.indexOf(id)
	if idx < 0 {
		return types.SignatureField{}, fmt.Errorf("%w: %q", types.ErrUnknownField, id)
	}
	return e.fields[idx], nil
}

// SignatureFields returns only the fields of type signature.
func (e *Engine) SignatureFields() []types.SignatureField {
	e.mu.Lock()
	defer e.mu.Unlock()

	result := make([]types.SignatureField, 0)
	for _, f := range e.fields {
		if f.FieldType == types.FieldSignature {
			result = append(result, f)
		}
	}
	return result
}

// CountBySigner returns the number of fields every signer owns.
func (e *Engine) CountBySigner() map[string]int {
	e.mu.Lock()
	defer e.mu.Unlock()

	counts := make(map[string]int, len(e.roster))
	for _, s := range e.roster {
		counts[s.ID] = 0
	}
	for _, f := range e.fields {
		counts[f.SignerRole]++
	}
	return counts
}

// RemoveSignerFields drops every field owned by the signer and returns the
// removed ids.
func (e *Engine) RemoveSignerFields(signerID string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	var (
		removed []string
		kept    = e.fields[:0]
	)
	for _, f := range e.fields {
		if f.SignerRole == signerID {
			removed = append(removed, f.ID)
			if e.drag != nil && e.drag.fieldID == f.ID {
				e.drag.released = true
				e.drag = nil
			}
			continue
		}
		kept = append(kept, f)
	}
	e.fields = kept

	return removed
}

// Load replaces the collection, e.g. with fields restored from a snapshot.
func (e *Engine) Load(fields []types.SignatureField) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.ID == "" || seen[f.ID] {
			return types.Validationf("field id %q is empty or duplicated", f.ID)
		}
		seen[f.ID] = true
		if !f.FieldType.Valid() {
			return types.Validationf("field %q has unknown type %q", f.ID, f.FieldType)
		}
		if f.PageNumber < 0 || !BoxOf(f).Valid() {
			return types.Validationf("field %q is outside the page", f.ID)
		}
		if !e.hasSigner(f.SignerRole) {
			return fmt.Errorf("%w: field %q belongs to %q", types.ErrInvalidSigner, f.ID, f.SignerRole)
		}
	}

	if e.drag != nil {
		e.drag.released = true
		e.drag = nil
	}
	e.fields = append([]types.SignatureField(nil), fields...)

	return nil
}

// BoxOf returns the normalized box of a field.
func BoxOf(f types.SignatureField) geometry.Box {
	return geometry.Box{X: f.XNorm, Y: f.YNorm, W: f.WidthNorm, H: f.HeightNorm}
}
