package qr

import (
	"bytes"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testURL = "http://localhost:8000/api/documents/7f1c2a/download"

func TestEncodeQR_RoundTrip(t *testing.T) {
	req := require.New(t)

	data, err := EncodeQR(testURL, 256)
	req.NoError(err)

	img, err := png.Decode(bytes.NewReader(data))
	req.NoError(err)
	req.Equal(256, img.Bounds().Dx())

	decoded, err := DecodeBytes(data)
	req.NoError(err)
	req.Equal(testURL, decoded)
}

func TestEncodeQR_Defaults(t *testing.T) {
	req := require.New(t)

	_, err := EncodeQR("", DefaultSize)
	req.Error(err)

	data, err := EncodeQR(testURL, 0)
	req.NoError(err)
	img, err := png.Decode(bytes.NewReader(data))
	req.NoError(err)
	req.Equal(DefaultSize, img.Bounds().Dx())
}

func TestWriteQR(t *testing.T) {
	req := require.New(t)

	path := filepath.Join(t.TempDir(), "download.png")
	req.NoError(WriteQR(path, testURL, DefaultSize))

	decoded, err := ReadQRFile(path)
	req.NoError(err)
	req.Equal(testURL, decoded)

	_, err = ReadQRFile(filepath.Join(t.TempDir(), "missing.png"))
	req.Error(err)

	_, err = DecodeBytes([]byte("not an image"))
	req.Error(err)
}
