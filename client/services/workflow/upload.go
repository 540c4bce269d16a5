package workflow

import (
	"context"
	"fmt"
	"time"

	ctypes "github.com/docstacker/docsign/client/types"
	"github.com/docstacker/docsign/docapi"
	"github.com/docstacker/docsign/fsm/state_machines/workflow_fsm"
	"github.com/docstacker/docsign/fsm/types/requests"
	"github.com/docstacker/docsign/storage"
)

// StackDocuments sends the uploaded documents to the backend and moves the
// session to field placement.
func (s *Session) StackDocuments(ctx context.Context, request docapi.StackRequest) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStage(workflow_fsm.StageUpload); err != nil {
		return View{}, err
	}

	upload := requests.UploadRequest{
		HasCover:  request.Cover.Present(),
		HasBody:   request.Body.Present(),
		Signers:   s.roster,
		CreatedAt: time.Now(),
	}
	if err := upload.Validate(); err != nil {
		return View{}, err
	}

	result, err := s.docs.Stack(ctx, request)
	if err != nil {
		return View{}, err
	}
	info, err := s.docs.GetDocumentInfo(ctx, result.DocumentID)
	if err != nil {
		return View{}, err
	}

	pageCount := info.PageCount
	if pageCount <= 0 {
		pageCount = result.PageCount
	}

	_, err = s.machines.Workflow.Do(workflow_fsm.EventDocumentsStacked, requests.DocumentsStackedRequest{
		DocumentID: result.DocumentID,
		PageCount:  pageCount,
		PageWidth:  info.PageWidth,
		PageHeight: info.PageHeight,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		return View{}, machineErr(err)
	}

	// a new document may be shorter than the previous one
	s.closeViews()
	s.pageSizes = make(map[int]ctypes.PageSize)
	var dropped []string
	for _, f := range s.engine.Fields() {
		if f.PageNumber >= pageCount {
			if err = s.engine.DeleteField(f.ID); err == nil {
				dropped = append(dropped, f.ID)
			}
		}
	}

	s.persist()
	s.emit(storage.EventDocumentsStacked, map[string]interface{}{
		"documentId":    result.DocumentID,
		"pageCount":     pageCount,
		"droppedFields": dropped,
	})
	s.logger.Log("session %s: documents stacked into %s, %d pages", s.id, result.DocumentID, pageCount)

	return s.view(), nil
}

func (s *Session) documentID() (string, error) {
	id := s.machines.Workflow.Payload().DocumentID
	if id == "" {
		return "", fmt.Errorf("session %s has no stacked document", s.id)
	}
	return id, nil
}
