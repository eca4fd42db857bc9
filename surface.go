package arbor

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Surface is the drawing target of a SceneRenderer. The renderer only uses
// the state operations; behaviors reach for backend-specific drawing through
// a type assertion (for example to *EbitenSurface).
//
// Transforms use the [a, b, c, d, tx, ty] layout of Node.WorldTransform.
type Surface interface {
	// Save pushes transform, alpha, blend mode and clip.
	Save()
	// Restore pops the state pushed by the matching Save.
	Restore()
	SetTransform(m [6]float64)
	Transform() [6]float64
	SetAlpha(a float64)
	Alpha() float64
	SetBlendMode(b BlendMode)
	BlendMode() BlendMode
	// ClipRect intersects the clip region with a rectangle given in the
	// current transform's local space.
	ClipRect(x, y, w, h float64)
	// Clear erases the whole surface to transparent.
	Clear()
	// Composite draws the contents of src into the local-space rectangle
	// (x, y, w, h) using the current state. Sources from a different backend
	// are ignored.
	Composite(src Surface, x, y, w, h float64)
	Size() (w, h int)
}

// surfaceState is the Save/Restore unit shared by the backends.
type surfaceState struct {
	transform [6]float64
	alpha     float64
	blend     BlendMode
	clip      image.Rectangle
}

// EbitenSurface is a Surface backed by an *ebiten.Image.
//
// Clipping is rectangular in device space: ClipRect clips to the bounding
// box of the transformed rectangle.
type EbitenSurface struct {
	img   *ebiten.Image
	state surfaceState
	stack []surfaceState
}

var _ Surface = (*EbitenSurface)(nil)

// whitePixel is a 1x1 white image used for solid fills. Created lazily so
// the package can be used without a running graphics driver.
var whitePixel *ebiten.Image

func solidImage() *ebiten.Image {
	if whitePixel == nil {
		whitePixel = ebiten.NewImage(1, 1)
		whitePixel.Fill(ColorWhite.RGBA())
	}
	return whitePixel
}

// NewEbitenSurface wraps img. The initial state is the identity transform,
// alpha 1, BlendNormal and no clipping.
func NewEbitenSurface(img *ebiten.Image) *EbitenSurface {
	s := &EbitenSurface{img: img}
	s.Reset(img)
	return s
}

// Reset retargets the surface to img and clears the state stack. Used by
// App to reuse one surface for the screen image ebiten hands to Draw.
func (s *EbitenSurface) Reset(img *ebiten.Image) {
	s.img = img
	s.stack = s.stack[:0]
	s.state = surfaceState{
		transform: identityTransform,
		alpha:     1,
		clip:      img.Bounds(),
	}
}

// Image returns the full backing image.
func (s *EbitenSurface) Image() *ebiten.Image {
	return s.img
}

// Target returns the backing image restricted to the current clip.
func (s *EbitenSurface) Target() *ebiten.Image {
	if s.state.clip == s.img.Bounds() {
		return s.img
	}
	return s.img.SubImage(s.state.clip).(*ebiten.Image)
}

func (s *EbitenSurface) Save() {
	s.stack = append(s.stack, s.state)
}

func (s *EbitenSurface) Restore() {
	if len(s.stack) == 0 {
		return
	}
	s.state = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}

func (s *EbitenSurface) SetTransform(m [6]float64) { s.state.transform = m }
func (s *EbitenSurface) Transform() [6]float64     { return s.state.transform }
func (s *EbitenSurface) SetAlpha(a float64)        { s.state.alpha = a }
func (s *EbitenSurface) Alpha() float64            { return s.state.alpha }
func (s *EbitenSurface) SetBlendMode(b BlendMode)  { s.state.blend = b }
func (s *EbitenSurface) BlendMode() BlendMode      { return s.state.blend }

func (s *EbitenSurface) ClipRect(x, y, w, h float64) {
	r := deviceBounds(s.state.transform, x, y, w, h)
	s.state.clip = s.state.clip.Intersect(image.Rect(
		int(math.Floor(r.X)), int(math.Floor(r.Y)),
		int(math.Ceil(r.X+r.Width)), int(math.Ceil(r.Y+r.Height)),
	))
}

func (s *EbitenSurface) Clear() {
	s.img.Clear()
}

func (s *EbitenSurface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// GeoM returns the current transform as an ebiten.GeoM.
func (s *EbitenSurface) GeoM() ebiten.GeoM {
	return geoM(s.state.transform)
}

// DrawImage draws img with its top-left corner at local (x, y).
func (s *EbitenSurface) DrawImage(img *ebiten.Image, x, y float64) {
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(x, y)
	op.GeoM.Concat(s.GeoM())
	op.ColorScale.ScaleAlpha(float32(s.state.alpha))
	op.Blend = s.state.blend.EbitenBlend()
	s.Target().DrawImage(img, &op)
}

// FillRect fills the local-space rectangle with c, scaled by the current alpha.
func (s *EbitenSurface) FillRect(x, y, w, h float64, c Color) {
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.GeoM.Concat(s.GeoM())
	op.ColorScale.ScaleWithColor(c.RGBA())
	op.ColorScale.ScaleAlpha(float32(s.state.alpha))
	op.Blend = s.state.blend.EbitenBlend()
	s.Target().DrawImage(solidImage(), &op)
}

func (s *EbitenSurface) Composite(src Surface, x, y, w, h float64) {
	es, ok := src.(*EbitenSurface)
	if !ok || es == s {
		return
	}
	sw, sh := es.Size()
	if sw == 0 || sh == 0 {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(w/float64(sw), h/float64(sh))
	op.GeoM.Translate(x, y)
	op.GeoM.Concat(s.GeoM())
	op.ColorScale.ScaleAlpha(float32(s.state.alpha))
	op.Blend = s.state.blend.EbitenBlend()
	s.Target().DrawImage(es.img, &op)
}

// geoM converts an [a, b, c, d, tx, ty] matrix to an ebiten.GeoM.
func geoM(m [6]float64) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}

// deviceBounds returns the axis-aligned bounds of the local rectangle
// (x, y, w, h) after applying m.
func deviceBounds(m [6]float64, x, y, w, h float64) Rect {
	xs := [4]float64{}
	ys := [4]float64{}
	xs[0], ys[0] = transformPoint(m, x, y)
	xs[1], ys[1] = transformPoint(m, x+w, y)
	xs[2], ys[2] = transformPoint(m, x, y+h)
	xs[3], ys[3] = transformPoint(m, x+w, y+h)
	minX, maxX := xs[0], xs[0]
	minY, maxY := ys[0], ys[0]
	for i := 1; i < 4; i++ {
		minX = min(minX, xs[i])
		maxX = max(maxX, xs[i])
		minY = min(minY, ys[i])
		maxY = max(maxY, ys[i])
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
