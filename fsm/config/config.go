package config

import "time"

const (
	SignersMinCount = 1
	SignersMaxCount = 5

	// Box of a freshly added field, normalized.
	DefaultFieldX      = 0.30
	DefaultFieldY      = 0.70
	DefaultFieldWidth  = 0.25
	DefaultFieldHeight = 0.08

	// Box used by auto placement.
	AutoFieldWidth  = 0.20
	AutoFieldHeight = 0.06

	SignatureCanvasWidth  = 500
	SignatureCanvasHeight = 150
	SignatureStrokeWidth  = 2.0
	TypedFontSize         = 48.0
	TypedHorizontalMargin = 40

	BackendRequestTimeout = time.Minute * 2

	// Upper bound of an audit write made while a session is locked
	AuditWriteTimeout = time.Second * 5
)

// SignerColors are assigned to signers in order.
var SignerColors = []string{"#1976d2", "#9c27b0", "#2e7d32", "#ed6c02", "#d32f2f"}
