package storage

import (
	"context"
	"encoding/json"
	"time"
)

// Audit events appended by the workflow.
const (
	EventSessionCreated    = "session_created"
	EventSessionDeleted    = "session_deleted"
	EventSignerAdded       = "signer_added"
	EventSignerRemoved     = "signer_removed"
	EventSignerRenamed     = "signer_renamed"
	EventDocumentsStacked  = "documents_stacked"
	EventFieldAdded        = "field_added"
	EventFieldMoved        = "field_moved"
	EventFieldDeleted      = "field_deleted"
	EventFieldsAutoPlaced  = "fields_auto_placed"
	EventFieldsSaved       = "fields_saved"
	EventSignatureCaptured = "signature_captured"
	EventSignatureCleared  = "signature_cleared"
	EventDocumentSigned    = "document_signed"
	EventDocumentFinalized = "document_finalized"
	EventStageBack         = "stage_back"
)

// Message is a single record of the append-only audit log.
type Message struct {
	ID        string          `json:"id"`
	Offset    uint64          `json:"offset"`
	SessionID string          `json:"session_id"`
	Event     string          `json:"event"`
	Data      json.RawMessage `json:"data,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type Storage interface {
	Send(messages ...Message) error
	GetMessages(offset uint64) ([]Message, error)
	Close() error
}

// ContextSender is a Storage whose writes can be bounded by the caller.
type ContextSender interface {
	SendContext(ctx context.Context, messages ...Message) error
}

// NewMessage builds a message with data encoded as JSON.
func NewMessage(sessionID, event string, data interface{}) (Message, error) {
	msg := Message{
		SessionID: sessionID,
		Event:     event,
		CreatedAt: time.Now().UTC(),
	}
	if data == nil {
		return msg, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return msg, err
	}
	msg.Data = raw
	return msg, nil
}

// FilterBySession keeps the messages of one session, preserving order.
func FilterBySession(messages []Message, sessionID string) []Message {
	filtered := make([]Message, 0, len(messages))
	for _, m := range messages {
		if m.SessionID == sessionID {
			filtered = append(filtered, m)
		}
	}
	return filtered
}
