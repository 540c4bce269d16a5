package capture

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/docstacker/docsign/pkg/geometry"
)

func TestPad_NoSegmentYieldsNil(t *testing.T) {
	req := require.New(t)
	pad := NewPad()

	raster, err := pad.PointerUp()
	req.NoError(err)
	req.Nil(raster)

	pad.PointerDown(geometry.Point{X: 10, Y: 10})
	raster, err = pad.PointerUp()
	req.NoError(err)
	req.Nil(raster)
}

func TestPad_StrokeRendersRaster(t *testing.T) {
	req := require.New(t)
	pad := NewPad()

	pad.PointerMove(geometry.Point{X: 1, Y: 1})
	req.Empty(pad.Strokes())

	pad.PointerDown(geometry.Point{X: 20, Y: 30})
	pad.PointerMove(geometry.Point{X: 120, Y: 90})
	pad.PointerMove(geometry.Point{X: 240, Y: 40})
	raster, err := pad.Leave()
	req.NoError(err)
	req.NotNil(raster)

	img, err := png.Decode(bytes.NewReader(raster))
	req.NoError(err)
	req.Equal(500, img.Bounds().Dx())
	req.Equal(150, img.Bounds().Dy())

	// the line passes through its own start point
	_, _, _, a := img.At(20, 30).RGBA()
	req.NotZero(a)
	_, _, _, a = img.At(480, 140).RGBA()
	req.Zero(a)

	req.Nil(pad.Clear())
	req.Empty(pad.Strokes())
}

func TestPad_LeaveAfterStrokeKeepsImage(t *testing.T) {
	req := require.New(t)
	pad := NewPad()

	pad.PointerDown(geometry.Point{X: 20, Y: 30})
	pad.PointerMove(geometry.Point{X: 200, Y: 100})
	drawn, err := pad.PointerUp()
	req.NoError(err)
	req.NotNil(drawn)

	// leaving without a stroke in progress still reports the drawing
	left, err := pad.Leave()
	req.NoError(err)
	req.Equal(drawn, left)

	again, err := pad.PointerUp()
	req.NoError(err)
	req.Equal(drawn, again)
}

func TestRenderTyped(t *testing.T) {
	req := require.New(t)

	result, err := RenderTyped("Jane Doe", "")
	req.NoError(err)
	req.NotNil(result.Raster)
	req.Equal(1.0, result.Scale)

	img, err := png.Decode(bytes.NewReader(result.Raster))
	req.NoError(err)
	req.Equal(500, img.Bounds().Dx())
	req.Equal(150, img.Bounds().Dy())
}

func TestRenderTyped_LongNameIsScaled(t *testing.T) {
	req := require.New(t)

	name := strings.Repeat("Maximilian Alexander ", 4)
	for _, style := range Styles() {
		result, err := RenderTyped(name, style)
		req.NoError(err)
		req.NotNil(result.Raster, style)
		req.Less(result.Scale, 1.0, style)
		req.Greater(result.Scale, 0.0, style)
	}
}

func TestRenderTyped_BlankName(t *testing.T) {
	req := require.New(t)

	for _, name := range []string{"", "   ", "\t\n"} {
		result, err := RenderTyped(name, DefaultStyle)
		req.NoError(err)
		req.Nil(result.Raster)
	}

	_, err := RenderTyped("Jane", "comic-sans")
	req.Error(err)
}

func TestStyles(t *testing.T) {
	req := require.New(t)

	styles := Styles()
	req.Len(styles, 5)
	req.Contains(styles, DefaultStyle)
}
