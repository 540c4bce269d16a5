package qr

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	encoder "github.com/skip2/go-qrcode"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

const (
	DefaultSize = 512
	minSize     = 64
)

// EncodeQR renders data as a PNG QR code of size x size pixels.
func EncodeQR(data string, size int) ([]byte, error) {
	if data == "" {
		return nil, fmt.Errorf("nothing to encode")
	}
	if size < minSize {
		size = DefaultSize
	}
	png, err := encoder.Encode(data, encoder.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode the data: %w", err)
	}
	return png, nil
}

func WriteQR(path, data string, size int) error {
	png, err := EncodeQR(data, size)
	if err != nil {
		return err
	}
	if err = os.WriteFile(path, png, 0644); err != nil {
		return fmt.Errorf("failed to write QR file: %w", err)
	}
	return nil
}

func ReadDataFromQR(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("failed to get NewBinaryBitmapFromImage: %w", err)
	}

	qrReader := qrcode.NewQRCodeReader()
	result, err := qrReader.Decode(bmp, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decode the QR-code contents: %w", err)
	}
	return result.String(), nil
}

// Decode reads a QR code from an encoded image (png, jpeg, gif, bmp or tiff).
func Decode(r io.Reader) (string, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}
	return ReadDataFromQR(img)
}

func DecodeBytes(data []byte) (string, error) {
	return Decode(bytes.NewReader(data))
}

func ReadQRFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open QR file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
