package capture

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"sort"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomediumitalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/gosmallcapsitalic"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/docstacker/docsign/fsm/config"
	"github.com/docstacker/docsign/types"
)

const DefaultStyle = "go-italic"

var styleSources = map[string][]byte{
	"go-italic":           goitalic.TTF,
	"go-bold-italic":      gobolditalic.TTF,
	"go-medium-italic":    gomediumitalic.TTF,
	"go-smallcaps-italic": gosmallcapsitalic.TTF,
	"go-mono-italic":      gomonoitalic.TTF,
}

var (
	parsedMu sync.Mutex
	parsed   = make(map[string]*opentype.Font)
)

// Styles lists the available typed signature presets.
func Styles() []string {
	names := make([]string, 0, len(styleSources))
	for name := range styleSources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func loadStyle(style string) (*opentype.Font, error) {
	if style == "" {
		style = DefaultStyle
	}
	src, ok := styleSources[style]
	if !ok {
		return nil, types.Validationf("unknown signature style %q", style)
	}

	parsedMu.Lock()
	defer parsedMu.Unlock()

	if fnt, ok := parsed[style]; ok {
		return fnt, nil
	}
	fnt, err := opentype.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", style, err)
	}
	parsed[style] = fnt
	return fnt, nil
}

// Typed is the result of rendering a typed name. Raster is nil for a blank
// name.
type Typed struct {
	Raster types.Raster
	Scale  float64
}

// RenderTyped draws the name centered on the signature surface at the base
// font size. A name wider than the available width is scaled down uniformly
// so it stays on one line.
func RenderTyped(name, style string) (Typed, error) {
	fnt, err := loadStyle(style)
	if err != nil {
		return Typed{}, err
	}
	if strings.TrimSpace(name) == "" {
		return Typed{}, nil
	}

	base, err := newFace(fnt, config.TypedFontSize)
	if err != nil {
		return Typed{}, err
	}
	textWidth := fixedToFloat(font.MeasureString(base, name))
	_ = base.Close()

	maxWidth := float64(config.SignatureCanvasWidth - config.TypedHorizontalMargin)
	scale := 1.0
	if textWidth > maxWidth {
		scale = maxWidth / textWidth
	}

	face, err := newFace(fnt, config.TypedFontSize*scale)
	if err != nil {
		return Typed{}, err
	}
	defer face.Close()

	img := image.NewRGBA(image.Rect(0, 0, config.SignatureCanvasWidth, config.SignatureCanvasHeight))
	draw.Draw(img, img.Bounds(), image.Transparent, image.Point{}, draw.Src)

	metrics := face.Metrics()
	width := fixedToFloat(font.MeasureString(face, name))
	x := (float64(config.SignatureCanvasWidth) - width) / 2
	// baseline that puts the middle of the glyph box on the surface middle
	y := (float64(config.SignatureCanvasHeight) + fixedToFloat(metrics.Ascent) - fixedToFloat(metrics.Descent)) / 2

	d := &font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)},
	}
	d.DrawString(name)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Typed{}, fmt.Errorf("failed to encode signature: %w", err)
	}

	return Typed{Raster: buf.Bytes(), Scale: scale}, nil
}

func newFace(fnt *opentype.Font, size float64) (font.Face, error) {
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	return face, nil
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
