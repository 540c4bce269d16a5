package capture

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/docstacker/docsign/fsm/config"
	"github.com/docstacker/docsign/pkg/geometry"
	"github.com/docstacker/docsign/types"
)

// Stroke is a sequence of pointer positions in surface pixels, origin
// top-left.
type Stroke []geometry.Point

// Pad accumulates freehand strokes between pointer down and pointer up.
type Pad struct {
	strokes []Stroke
	drawing bool
}

func NewPad() *Pad {
	return &Pad{}
}

func (p *Pad) PointerDown(pt geometry.Point) {
	p.drawing = true
	p.strokes = append(p.strokes, Stroke{pt})
}

func (p *Pad) PointerMove(pt geometry.Point) {
	if !p.drawing {
		return
	}
	last := len(p.strokes) - 1
	p.strokes[last] = append(p.strokes[last], pt)
}

// PointerUp ends the current stroke. It returns the raster of everything
// drawn so far, also when no stroke is in progress, or nil when no segment
// has been drawn.
func (p *Pad) PointerUp() (types.Raster, error) {
	p.drawing = false
	return RenderStrokes(p.strokes)
}

// Leave is a pointer leaving the surface, handled as pointer up.
func (p *Pad) Leave() (types.Raster, error) {
	return p.PointerUp()
}

// Clear resets the surface. The result is always nil.
func (p *Pad) Clear() types.Raster {
	p.strokes = nil
	p.drawing = false
	return nil
}

func (p *Pad) Strokes() []Stroke {
	return append([]Stroke(nil), p.strokes...)
}

func hasSegment(strokes []Stroke) bool {
	for _, s := range strokes {
		if len(s) > 1 {
			return true
		}
	}
	return false
}

// RenderStrokes draws the strokes as connected black segments with round caps
// and joins on a transparent surface. Strokes without a segment are skipped;
// nil is returned if nothing is left to draw.
func RenderStrokes(strokes []Stroke) (types.Raster, error) {
	if !hasSegment(strokes) {
		return nil, nil
	}

	width := float64(config.SignatureCanvasWidth)
	height := float64(config.SignatureCanvasHeight)

	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	ctx.SetFillColor(canvas.Transparent)
	ctx.SetStrokeColor(canvas.Black)
	ctx.SetStrokeWidth(config.SignatureStrokeWidth)
	ctx.SetStrokeCapper(canvas.RoundCap)
	ctx.SetStrokeJoiner(canvas.RoundJoin)

	for _, stroke := range strokes {
		if len(stroke) < 2 {
			continue
		}
		// canvas has its origin bottom-left
		path := &canvas.Path{}
		path.MoveTo(stroke[0].X, height-stroke[0].Y)
		for _, pt := range stroke[1:] {
			path.LineTo(pt.X, height-pt.Y)
		}
		ctx.DrawPath(0, 0, path)
	}

	img := rasterizer.Draw(c, canvas.DPMM(1.0), canvas.DefaultColorSpace)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode signature: %w", err)
	}
	return buf.Bytes(), nil
}
