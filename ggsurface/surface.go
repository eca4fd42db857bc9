// Package ggsurface implements arbor.Surface on top of a gogpu/gg software
// context. It needs no window or graphics driver, which makes it the
// backend for headless hosts, golden-image tests and PNG export.
//
// Blend modes map onto gg's layer blending: BlendMultiply and BlendScreen
// are honored, every other mode composites as source-over.
package ggsurface

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/gg"

	"github.com/phanxgames/arbor"
)

type state struct {
	transform [6]float64
	alpha     float64
	blend     arbor.BlendMode
}

// Surface is an arbor.Surface that rasterizes into a *gg.Context.
type Surface struct {
	dc    *gg.Context
	state state
	stack []state
}

var _ arbor.Surface = (*Surface)(nil)

// New creates a transparent w x h surface.
func New(w, h int) *Surface {
	return Wrap(gg.NewContext(w, h))
}

// Wrap adapts an existing context. The context's transform is reset to
// identity.
func Wrap(dc *gg.Context) *Surface {
	s := &Surface{dc: dc}
	s.state = state{transform: arbor.IdentityTransform(), alpha: 1}
	dc.SetTransform(gg.Identity())
	return s
}

// Context returns the underlying gg context for direct drawing. Drawers
// reach it through a type assertion on the arbor.Surface they are given.
func (s *Surface) Context() *gg.Context { return s.dc }

func (s *Surface) Save() {
	s.stack = append(s.stack, s.state)
	s.dc.Push()
}

func (s *Surface) Restore() {
	if len(s.stack) == 0 {
		return
	}
	s.state = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	s.dc.Pop()
}

// SetTransform sets the matrix mapping local to device space.
func (s *Surface) SetTransform(m [6]float64) {
	s.state.transform = m
	s.dc.SetTransform(toMatrix(m))
}

func (s *Surface) Transform() [6]float64          { return s.state.transform }
func (s *Surface) SetAlpha(a float64)             { s.state.alpha = a }
func (s *Surface) Alpha() float64                 { return s.state.alpha }
func (s *Surface) SetBlendMode(b arbor.BlendMode) { s.state.blend = b }
func (s *Surface) BlendMode() arbor.BlendMode     { return s.state.blend }
func (s *Surface) Size() (int, int)               { return s.dc.Width(), s.dc.Height() }
func (s *Surface) ClipRect(x, y, w, h float64)    { s.dc.ClipRect(x, y, w, h) }
func (s *Surface) Clear()                         { s.dc.Clear() }

// FillRect fills the local-space rectangle with c, scaled by the current
// alpha.
func (s *Surface) FillRect(x, y, w, h float64, c arbor.Color) {
	s.fill(c, func() { s.dc.DrawRectangle(x, y, w, h) })
}

// FillCircle fills a local-space circle with c, scaled by the current alpha.
func (s *Surface) FillCircle(cx, cy, r float64, c arbor.Color) {
	s.fill(c, func() { s.dc.DrawCircle(cx, cy, r) })
}

func (s *Surface) fill(c arbor.Color, path func()) {
	a := c.A * s.state.alpha
	if a <= 0 {
		return
	}
	layered := s.state.blend == arbor.BlendMultiply || s.state.blend == arbor.BlendScreen
	if layered {
		s.dc.PushLayer(ggBlend(s.state.blend), 1)
	}
	s.dc.SetRGBA(c.R, c.G, c.B, a)
	path()
	if err := s.dc.Fill(); err != nil {
		arbor.Logger().Warn("ggsurface: fill failed", "err", err)
	}
	if layered {
		s.dc.PopLayer()
	}
}

// Composite draws another ggsurface into the local rectangle (x, y, w, h).
func (s *Surface) Composite(src arbor.Surface, x, y, w, h float64) {
	gs, ok := src.(*Surface)
	if !ok || gs == s || s.state.alpha <= 0 {
		return
	}
	img := gg.ImageBufFromImage(gs.Snapshot())
	s.dc.DrawImageEx(img, gg.DrawImageOptions{
		X:             x,
		Y:             y,
		DstWidth:      w,
		DstHeight:     h,
		Interpolation: gg.InterpNearest,
		Opacity:       min(s.state.alpha, 1),
		BlendMode:     ggBlend(s.state.blend),
	})
}

// Snapshot returns the current pixels.
func (s *Surface) Snapshot() image.Image {
	_ = s.dc.FlushGPU()
	return s.dc.Image()
}

// Pixel returns the color at device pixel (x, y).
func (s *Surface) Pixel(x, y int) color.RGBA {
	r, g, b, a := s.Snapshot().At(x, y).RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}

// SavePNG writes the surface to a PNG file.
func (s *Surface) SavePNG(path string) error {
	if err := s.dc.SavePNG(path); err != nil {
		return fmt.Errorf("ggsurface: save %s: %w", path, err)
	}
	return nil
}

// toMatrix converts an [a, b, c, d, tx, ty] matrix to gg's row form.
func toMatrix(m [6]float64) gg.Matrix {
	return gg.Matrix{
		A: m[0], B: m[2], C: m[4],
		D: m[1], E: m[3], F: m[5],
	}
}

func ggBlend(b arbor.BlendMode) gg.BlendMode {
	switch b {
	case arbor.BlendMultiply:
		return gg.BlendMultiply
	case arbor.BlendScreen:
		return gg.BlendScreen
	default:
		return gg.BlendNormal
	}
}
