package workflow

import (
	"context"
	"fmt"
	"time"

	"lukechampine.com/frand"

	ctypes "github.com/docstacker/docsign/client/types"
	"github.com/docstacker/docsign/fsm/state_machines/workflow_fsm"
	"github.com/docstacker/docsign/fsm/types/requests"
	"github.com/docstacker/docsign/pkg/geometry"
	"github.com/docstacker/docsign/placement"
	"github.com/docstacker/docsign/storage"
	"github.com/docstacker/docsign/types"
)

const autoPlaceSeedSize = 32

func (s *Session) checkPage(page int) error {
	pageCount := s.machines.Workflow.Payload().PageCount
	if page < 0 || page >= pageCount {
		return types.Validationf("page %d is out of range [0, %d)", page, pageCount)
	}
	return nil
}

// openView replaces the view of the page with a fresh one in the loading
// state.
func (s *Session) openView(page int) *placement.PageView {
	if old, ok := s.views[page]; ok {
		old.Close()
		if _, active := s.engine.ActiveDrag(); !active {
			s.drag = nil
		}
	}
	view := s.engine.OpenPage(page)
	s.views[page] = view
	return view
}

// OpenPage fetches the page image and opens a view for it. The view stays in
// the loading state until SetPageImageSize.
func (s *Session) OpenPage(ctx context.Context, page int) (types.Raster, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStage(workflow_fsm.StagePlaceFields); err != nil {
		return nil, err
	}
	if err := s.checkPage(page); err != nil {
		return nil, err
	}
	documentID, err := s.documentID()
	if err != nil {
		return nil, err
	}

	raster, err := s.docs.GetPageImage(ctx, documentID, page)
	if err != nil {
		return nil, err
	}
	s.openView(page)

	return raster, nil
}

// SetPageImageSize reports the rendered size of a page image, enabling drags
// on it.
func (s *Session) SetPageImageSize(page int, width, height float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStage(workflow_fsm.StagePlaceFields); err != nil {
		return err
	}
	if err := s.checkPage(page); err != nil {
		return err
	}

	view, ok := s.views[page]
	if !ok {
		view = s.openView(page)
	}
	if err := view.ImageLoaded(width, height); err != nil {
		return err
	}
	s.pageSizes[page] = ctypes.PageSize{Width: width, Height: height}
	s.persist()

	return nil
}

// ClosePage ends the view of the page, cancelling a drag on it.
func (s *Session) ClosePage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if view, ok := s.views[page]; ok {
		view.Close()
		delete(s.views, page)
	}
	if _, active := s.engine.ActiveDrag(); !active {
		s.drag = nil
	}
}

func (s *Session) PointerDown(page int, fieldID string, pointer geometry.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStage(workflow_fsm.StagePlaceFields); err != nil {
		return err
	}

	view, ok := s.views[page]
	if !ok {
		size, known := s.pageSizes[page]
		if !known {
			return types.ErrImageNotLoaded
		}
		// restored sessions keep the last reported size
		view = s.openView(page)
		if err := view.ImageLoaded(size.Width, size.Height); err != nil {
			return err
		}
	}

	drag, err := view.PointerDown(fieldID, pointer)
	if err != nil {
		return err
	}
	s.drag = drag

	return nil
}

func (s *Session) PointerMove(pointer geometry.Point) (types.SignatureField, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStage(workflow_fsm.StagePlaceFields); err != nil {
		return types.SignatureField{}, err
	}
	if s.drag == nil {
		return types.SignatureField{}, types.Validationf("no field is being dragged")
	}

	return s.drag.Move(pointer)
}

// PointerUp ends the drag. It is a no-op without an active drag.
func (s *Session) PointerUp() (*types.SignatureField, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.drag == nil {
		return nil, nil
	}
	drag := s.drag
	s.drag = nil
	drag.Release()

	field, err := s.engine.Field(drag.FieldID())
	if err != nil {
		return nil, err
	}
	s.persist()
	s.emit(storage.EventFieldMoved, field)

	return &field, nil
}

func (s *Session) AddField(fieldType types.FieldType, signerID string, page int) (types.SignatureField, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStage(workflow_fsm.StagePlaceFields); err != nil {
		return types.SignatureField{}, err
	}
	if err := s.checkPage(page); err != nil {
		return types.SignatureField{}, err
	}

	field, err := s.engine.AddField(fieldType, signerID, page)
	if err != nil {
		return types.SignatureField{}, err
	}
	s.persist()
	s.emit(storage.EventFieldAdded, field)

	return field, nil
}

// MoveField shifts a field by a normalized delta, clamped to the page.
func (s *Session) MoveField(id string, delta geometry.Point) (types.SignatureField, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStage(workflow_fsm.StagePlaceFields); err != nil {
		return types.SignatureField{}, err
	}

	field, err := s.engine.MoveField(id, delta)
	if err != nil {
		return types.SignatureField{}, err
	}
	s.persist()
	s.emit(storage.EventFieldMoved, field)

	return field, nil
}

func (s *Session) DeleteField(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStage(workflow_fsm.StagePlaceFields); err != nil {
		return err
	}

	if err := s.engine.DeleteField(id); err != nil {
		return err
	}
	if s.drag != nil && s.drag.FieldID() == id {
		s.drag = nil
	}
	s.persist()
	s.emit(storage.EventFieldDeleted, map[string]string{"fieldId": id})

	return nil
}

func (s *Session) FieldsOnPage(page int) []types.SignatureField {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.engine.FieldsOnPage(page)
}

func (s *Session) Fields() []types.SignatureField {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.engine.Fields()
}

// Coverage returns the roster signers that have no field yet.
func (s *Session) Coverage() []types.Signer {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.engine.ValidateCoverage(s.roster)
}

// AutoPlace adds one signature field per signer. Equal seeds give equal
// layouts, an empty seed picks a random one.
func (s *Session) AutoPlace(seed []byte) ([]types.SignatureField, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStage(workflow_fsm.StagePlaceFields); err != nil {
		return nil, err
	}
	if len(seed) == 0 {
		seed = frand.Bytes(autoPlaceSeedSize)
	}

	placed, err := s.engine.AutoPlace(seed, s.machines.Workflow.Payload().PageCount)
	if err != nil {
		return nil, err
	}
	s.persist()
	s.emit(storage.EventFieldsAutoPlaced, placed)

	return placed, nil
}

// ReloadFields replaces the fields with the ones stored by the backend.
func (s *Session) ReloadFields(ctx context.Context) ([]types.SignatureField, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStage(workflow_fsm.StagePlaceFields); err != nil {
		return nil, err
	}
	documentID, err := s.documentID()
	if err != nil {
		return nil, err
	}

	fields, err := s.docs.GetFields(ctx, documentID)
	if err != nil {
		return nil, err
	}
	s.closeViews()
	if err = s.engine.Load(fields); err != nil {
		return nil, err
	}
	s.persist()

	return s.engine.Fields(), nil
}

// CompletePlacement saves the fields on the backend and starts signing. Every
// signer must own at least one field.
func (s *Session) CompletePlacement(ctx context.Context) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStage(workflow_fsm.StagePlaceFields); err != nil {
		return View{}, err
	}
	if s.drag != nil {
		return View{}, fmt.Errorf("%w: %q", types.ErrDragInProgress, s.drag.FieldID())
	}

	placed := requests.FieldsPlacedRequest{
		Uncovered:   s.engine.ValidateCoverage(s.roster),
		FieldsCount: len(s.engine.Fields()),
		CreatedAt:   time.Now(),
	}
	if err := placed.Validate(); err != nil {
		return View{}, err
	}

	documentID, err := s.documentID()
	if err != nil {
		return View{}, err
	}
	fields := s.engine.Fields()
	// without a signature field there is nothing to sign, so the backend is
	// not touched
	sequence, err := s.machines.NewSequence(s.roster, fields)
	if err != nil {
		return View{}, err
	}
	if err = s.docs.SaveFields(ctx, documentID, fields); err != nil {
		return View{}, err
	}
	if _, err = s.machines.Workflow.Do(workflow_fsm.EventFieldsPlaced, placed); err != nil {
		return View{}, machineErr(err)
	}
	s.machines.Sequence = sequence

	s.closeViews()
	s.persist()
	s.emit(storage.EventFieldsSaved, map[string]interface{}{
		"documentId":  documentID,
		"fieldsCount": len(fields),
	})

	return s.view(), nil
}
