package requests

import "github.com/docstacker/docsign/pkg/geometry"

type SessionIdForm struct {
	SessionID string `query:"sessionID" form:"sessionID" json:"sessionID" validate:"attr=sessionID,min=1"`
}

type CreateSessionForm struct {
	Signers []string `json:"signers"`
}

type SignerNameForm struct {
	SessionID string `json:"sessionID" validate:"attr=sessionID,min=1"`
	Name      string `json:"name" validate:"attr=name,min=1"`
}

type SignerIdForm struct {
	SessionID string `json:"sessionID" validate:"attr=sessionID,min=1"`
	SignerID  string `json:"signerID" validate:"attr=signerID,min=1"`
}

type RenameSignerForm struct {
	SessionID string `json:"sessionID" validate:"attr=sessionID,min=1"`
	SignerID  string `json:"signerID" validate:"attr=signerID,min=1"`
	Name      string `json:"name" validate:"attr=name,min=1"`
}

type PageForm struct {
	SessionID string `query:"sessionID" json:"sessionID" validate:"attr=sessionID,min=1"`
	Page      int    `query:"page" json:"page"`
}

type PageImageSizeForm struct {
	SessionID string  `json:"sessionID" validate:"attr=sessionID,min=1"`
	Page      int     `json:"page"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
}

type AddFieldForm struct {
	SessionID string `json:"sessionID" validate:"attr=sessionID,min=1"`
	FieldType string `json:"fieldType" validate:"attr=fieldType,min=1"`
	SignerID  string `json:"signerID" validate:"attr=signerID,min=1"`
	Page      int    `json:"page"`
}

type MoveFieldForm struct {
	SessionID string  `json:"sessionID" validate:"attr=sessionID,min=1"`
	FieldID   string  `json:"fieldID" validate:"attr=fieldID,min=1"`
	DX        float64 `json:"dx"`
	DY        float64 `json:"dy"`
}

type FieldIdForm struct {
	SessionID string `json:"sessionID" validate:"attr=sessionID,min=1"`
	FieldID   string `json:"fieldID" validate:"attr=fieldID,min=1"`
}

type PointerDownForm struct {
	SessionID string  `json:"sessionID" validate:"attr=sessionID,min=1"`
	Page      int     `json:"page"`
	FieldID   string  `json:"fieldID" validate:"attr=fieldID,min=1"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

type PointerMoveForm struct {
	SessionID string  `json:"sessionID" validate:"attr=sessionID,min=1"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

type AutoPlaceForm struct {
	SessionID string `json:"sessionID" validate:"attr=sessionID,min=1"`
	// Empty seed gives a random layout
	Seed string `json:"seed"`
}

type CaptureFreehandForm struct {
	SessionID string             `json:"sessionID" validate:"attr=sessionID,min=1"`
	Strokes   [][]geometry.Point `json:"strokes"`
}

type CaptureTypedForm struct {
	SessionID string `json:"sessionID" validate:"attr=sessionID,min=1"`
	Name      string `json:"name"`
	Style     string `json:"style"`
}

type SelectSignerForm struct {
	SessionID string `json:"sessionID" validate:"attr=sessionID,min=1"`
	Index     int    `json:"index"`
}
