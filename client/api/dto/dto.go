package dto

import "github.com/docstacker/docsign/pkg/geometry"

// This packages contains DTO (Data Transfer Object) structures
// for providing validated and sanitized values to service layer

type SessionIdDTO struct {
	SessionID string
}

type CreateSessionDTO struct {
	Signers []string
}

type SignerNameDTO struct {
	SessionID string
	Name      string
}

type SignerIdDTO struct {
	SessionID string
	SignerID  string
}

type RenameSignerDTO struct {
	SessionID string
	SignerID  string
	Name      string
}

type PageDTO struct {
	SessionID string
	Page      int
}

type PageImageSizeDTO struct {
	SessionID string
	Page      int
	Width     float64
	Height    float64
}

type AddFieldDTO struct {
	SessionID string
	FieldType string
	SignerID  string
	Page      int
}

type MoveFieldDTO struct {
	SessionID string
	FieldID   string
	DX        float64
	DY        float64
}

type FieldIdDTO struct {
	SessionID string
	FieldID   string
}

type PointerDownDTO struct {
	SessionID string
	Page      int
	FieldID   string
	X         float64
	Y         float64
}

type PointerMoveDTO struct {
	SessionID string
	X         float64
	Y         float64
}

type AutoPlaceDTO struct {
	SessionID string
	Seed      string
}

type CaptureFreehandDTO struct {
	SessionID string
	Strokes   [][]geometry.Point
}

type CaptureTypedDTO struct {
	SessionID string
	Name      string
	Style     string
}

type SelectSignerDTO struct {
	SessionID string
	Index     int
}
