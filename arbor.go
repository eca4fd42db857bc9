package arbor

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R float64 `yaml:"r"`
	G float64 `yaml:"g"`
	B float64 `yaml:"b"`
	A float64 `yaml:"a"`
}

// ColorWhite is opaque white.
var ColorWhite = Color{1, 1, 1, 1}

// RGBA converts the color to a premultiplied color.RGBA.
func (c Color) RGBA() color.RGBA {
	clamp := func(v float64) uint8 {
		if v <= 0 {
			return 0
		}
		if v >= 1 {
			return 255
		}
		return uint8(v*255 + 0.5)
	}
	return color.RGBA{
		R: clamp(c.R * c.A),
		G: clamp(c.G * c.A),
		B: clamp(c.B * c.A),
		A: clamp(c.A),
	}
}

// Vec2 is a 2D vector used for positions, offsets and velocities.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersect returns the overlapping area of r and other. The result has zero
// size when they do not overlap.
func (r Rect) Intersect(other Rect) Rect {
	x0 := max(r.X, other.X)
	y0 := max(r.Y, other.Y)
	x1 := min(r.X+r.Width, other.X+other.Width)
	y1 := min(r.Y+r.Height, other.Y+other.Height)
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: x0, Y: y0}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// BlendMode selects a compositing operation.
type BlendMode uint8

const (
	BlendNormal   BlendMode = iota // source-over (standard alpha blending)
	BlendAdd                       // additive / lighter
	BlendMultiply                  // multiply (source * destination; only darkens)
	BlendScreen                    // screen (1 - (1-src)*(1-dst); only brightens)
	BlendErase                     // destination-out (punch transparent holes)
	BlendBelow                     // destination-over (draw behind existing content)
	BlendNone                      // opaque copy (skip blending)
)

var blendNames = map[string]BlendMode{
	"source-over":      BlendNormal,
	"lighter":          BlendAdd,
	"multiply":         BlendMultiply,
	"screen":           BlendScreen,
	"destination-out":  BlendErase,
	"destination-over": BlendBelow,
	"copy":             BlendNone,
}

// ParseBlendMode maps a canvas composite-operation name ("source-over",
// "lighter", "multiply", ...) to a BlendMode.
func ParseBlendMode(name string) (BlendMode, bool) {
	b, ok := blendNames[name]
	return b, ok
}

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendNormal:
		return ebiten.BlendSourceOver
	case BlendAdd:
		return ebiten.BlendLighter
	case BlendMultiply:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
			BlendFactorSourceAlpha:      ebiten.BlendFactorDestinationAlpha,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceAlpha,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendScreen:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorOne,
			BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceColor,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendErase:
		return ebiten.BlendDestinationOut
	case BlendBelow:
		return ebiten.BlendDestinationOver
	case BlendNone:
		return ebiten.BlendCopy
	default:
		return ebiten.BlendSourceOver
	}
}

// BoundingShape selects the hit-test geometry of a node.
type BoundingShape uint8

const (
	ShapeRect   BoundingShape = iota // width x height box around the origin
	ShapeCircle                      // radius around the origin
	ShapeNone                        // always hit; used for background panels
)

var shapeNames = map[string]BoundingShape{
	"rect":   ShapeRect,
	"circle": ShapeCircle,
	"none":   ShapeNone,
}

// ParseBoundingShape maps "rect", "circle" or "none" to a BoundingShape.
func ParseBoundingShape(name string) (BoundingShape, bool) {
	s, ok := shapeNames[name]
	return s, ok
}

// EventType names a node event. Built-in events use the constants below;
// applications may fire their own names.
type EventType string

const (
	EventEnterFrame EventType = "enterframe" // once per tick from FrameUpdater
	EventAdded      EventType = "added"      // node attached to a parent
	EventRemoved    EventType = "removed"    // node detached from its parent
	EventPointOver  EventType = "pointover"  // pointer started overlapping the node
	EventPointOut   EventType = "pointout"   // pointer stopped overlapping the node
	EventPointStart EventType = "pointstart" // pointer pressed over the node
	EventPointStay  EventType = "pointstay"  // every frame while pressed
	EventPointMove  EventType = "pointmove"  // pressed and the pointer moved
	EventPointEnd   EventType = "pointend"   // pointer released after pressing the node
	EventClick      EventType = "click"      // synthetic click after a release
)

// CursorShape is the pointer affordance requested by the PointerReconciler.
type CursorShape uint8

const (
	CursorDefault CursorShape = iota // normal arrow
	CursorPointer                    // hand; something under a pointer is interactive
	CursorText
	CursorCrosshair
	CursorMove
	CursorNotAllowed
)

// EbitenCursor returns the ebiten cursor shape for c.
func (c CursorShape) EbitenCursor() ebiten.CursorShapeType {
	switch c {
	case CursorPointer:
		return ebiten.CursorShapePointer
	case CursorText:
		return ebiten.CursorShapeText
	case CursorCrosshair:
		return ebiten.CursorShapeCrosshair
	case CursorMove:
		return ebiten.CursorShapeMove
	case CursorNotAllowed:
		return ebiten.CursorShapeNotAllowed
	default:
		return ebiten.CursorShapeDefault
	}
}
