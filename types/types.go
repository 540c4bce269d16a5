package types

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
)

type FieldType string

const (
	FieldSignature FieldType = "signature"
	FieldText      FieldType = "text"
	FieldDate      FieldType = "date"
)

func (t FieldType) Valid() bool {
	switch t {
	case FieldSignature, FieldText, FieldDate:
		return true
	}
	return false
}

// Signer is a party expected to sign the document.
type Signer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// SignatureField is a placeholder on a page. Coordinates are fractions of the
// rendered page size.
type SignatureField struct {
	ID          string    `json:"id"`
	FieldType   FieldType `json:"fieldType"`
	PageNumber  int       `json:"pageNumber"`
	XNorm       float64   `json:"xNorm"`
	YNorm       float64   `json:"yNorm"`
	WidthNorm   float64   `json:"widthNorm"`
	HeightNorm  float64   `json:"heightNorm"`
	SignerRole  string    `json:"signerRole"`
	Required    bool      `json:"required"`
	AnchorLogic string    `json:"anchorLogic,omitempty"`
}

// Raster is an encoded PNG image.
type Raster []byte

const dataURLPrefix = "data:image/png;base64,"

func (r Raster) IsEmpty() bool {
	return len(r) == 0
}

// DataURL returns the image as a base64 data URL.
func (r Raster) DataURL() string {
	return dataURLPrefix + base64.StdEncoding.EncodeToString(r)
}

// Digest is a hex encoded BLAKE2b-256 hash of the image bytes.
func (r Raster) Digest() string {
	sum := blake2b.Sum256(r)
	return hex.EncodeToString(sum[:])
}

// RasterFromDataURL decodes the "data:image/png;base64,..." form.
func RasterFromDataURL(s string) (Raster, error) {
	if !strings.HasPrefix(s, dataURLPrefix) {
		return nil, fmt.Errorf("%w: not a png data url", ErrValidation)
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(s, dataURLPrefix))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode data url: %v", ErrValidation, err)
	}
	return data, nil
}

type SignatureEntry struct {
	Raster  Raster
	FieldID string
}

func (e SignatureEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		ImageBase64 string `json:"imageBase64"`
		FieldID     string `json:"fieldId"`
	}{
		ImageBase64: e.Raster.DataURL(),
		FieldID:     e.FieldID,
	})
}

func (e *SignatureEntry) UnmarshalJSON(data []byte) error {
	var aux struct {
		ImageBase64 string `json:"imageBase64"`
		FieldID     string `json:"fieldId"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	raster, err := RasterFromDataURL(aux.ImageBase64)
	if err != nil {
		return err
	}
	e.Raster = raster
	e.FieldID = aux.FieldID
	return nil
}

// SignatureMap maps a field id to the signature placed into it.
type SignatureMap map[string]SignatureEntry
