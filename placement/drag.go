package placement

import (
	"fmt"

	"github.com/docstacker/docsign/pkg/geometry"
	"github.com/docstacker/docsign/types"
)

// PageView is the interaction scope of one rendered page. It starts in the
// loading state: until ImageLoaded reports the rendered size every pointer
// operation is suppressed.
type PageView struct {
	engine *Engine
	page   int
	size   geometry.Size
	closed bool
}

// Drag is a pointer gesture on a single field, created by PointerDown.
type Drag struct {
	view     *PageView
	fieldID  string
	offset   geometry.Point
	released bool
}

func (e *Engine) OpenPage(page int) *PageView {
	return &PageView{engine: e, page: page}
}

func (v *PageView) Page() int {
	return v.page
}

// ImageLoaded records the rendered pixel size of the page image.
func (v *PageView) ImageLoaded(width, height float64) error {
	v.engine.mu.Lock()
	defer v.engine.mu.Unlock()

	if v.closed {
		return types.ErrViewClosed
	}
	size := geometry.Size{W: width, H: height}
	if !size.Known() {
		return types.Validationf("image size must be positive, got %vx%v", width, height)
	}
	v.size = size
	return nil
}

// ImageUnloaded returns the view to the loading state, e.g. when another
// image is requested. A drag owned by the view is cancelled.
func (v *PageView) ImageUnloaded() {
	v.engine.mu.Lock()
	defer v.engine.mu.Unlock()

	v.size = geometry.Size{}
	v.releaseOwned()
}

func (v *PageView) Loaded() bool {
	v.engine.mu.Lock()
	defer v.engine.mu.Unlock()

	return v.size.Known()
}

func (v *PageView) Size() geometry.Size {
	v.engine.mu.Lock()
	defer v.engine.mu.Unlock()

	return v.size
}

// PointerDown starts dragging a field. pointer is in pixels relative to the
// image origin.
func (v *PageView) PointerDown(fieldID string, pointer geometry.Point) (*Drag, error) {
	e := v.engine
	e.mu.Lock()
	defer e.mu.Unlock()

	if v.closed {
		return nil, types.ErrViewClosed
	}
	if !v.size.Known() {
		return nil, types.ErrImageNotLoaded
	}
	if e.drag != nil {
		return nil, fmt.Errorf("%w: %q", types.ErrDragInProgress, e.drag.fieldID)
	}

	idx := e.indexOf(fieldID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownField, fieldID)
	}
	field := e.fields[idx]
	if field.PageNumber != v.page {
		return nil, types.Validationf("field %q is on page %d, not %d", fieldID, field.PageNumber, v.page)
	}

	box := BoxOf(field)
	at, err := v.size.Normalize(pointer)
	if err != nil {
		return nil, types.ErrImageNotLoaded
	}
	if !box.Contains(at) {
		return nil, types.Validationf("pointer (%.0f, %.0f) is outside field %q", pointer.X, pointer.Y, fieldID)
	}

	origin := v.size.Denormalize(box.Origin())
	d := &Drag{
		view:    v,
		fieldID: fieldID,
		offset:  pointer.Sub(origin),
	}
	e.drag = d

	return d, nil
}

// Close ends the view. A drag owned by the view is released.
func (v *PageView) Close() {
	v.engine.mu.Lock()
	defer v.engine.mu.Unlock()

	v.closed = true
	v.releaseOwned()
}

func (v *PageView) releaseOwned() {
	e := v.engine
	if e.drag != nil && e.drag.view == v {
		e.drag.released = true
		e.drag = nil
	}
}

func (d *Drag) FieldID() string {
	return d.fieldID
}

// Move repositions the field so that the pointer keeps its offset inside the
// field box. The position is clamped to the page.
func (d *Drag) Move(pointer geometry.Point) (types.SignatureField, error) {
	e := d.view.engine
	e.mu.Lock()
	defer e.mu.Unlock()

	if d.released {
		return types.SignatureField{}, types.Validationf("drag of %q is already released", d.fieldID)
	}

	target, err := d.view.size.Normalize(pointer.Sub(d.offset))
	if err != nil {
		return types.SignatureField{}, types.ErrImageNotLoaded
	}

	idx := e.indexOf(d.fieldID)
	if idx < 0 {
		return types.SignatureField{}, fmt.Errorf("%w: %q", types.ErrUnknownField, d.fieldID)
	}

	return e.moveField(d.fieldID, target.Sub(BoxOf(e.fields[idx]).Origin()))
}

// Release ends the gesture. It is safe to call more than once.
func (d *Drag) Release() {
	e := d.view.engine
	e.mu.Lock()
	defer e.mu.Unlock()

	if d.released {
		return
	}
	d.released = true
	if e.drag == d {
		e.drag = nil
	}
}

// ActiveDrag returns the id of the field being dragged.
func (e *Engine) ActiveDrag() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.drag == nil {
		return "", false
	}
	return e.drag.fieldID, true
}
