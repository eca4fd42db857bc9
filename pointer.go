package arbor

import "math"

// MouseButton identifies a mouse button. Touches press MouseButtonLeft.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

func (b MouseButton) flag() uint8 { return 1 << b }

// Flick velocity tuning.
const (
	flickCacheSize   = 3
	flickMinDistance = 10.0
	flickMaxDistance = 100.0
)

// Pointer is the per-frame record of one mouse or touch input. Press state
// is a bitmask of held buttons; Update derives the start and end edges by
// comparing it with the previous frame's mask.
type Pointer struct {
	ID    int
	Touch bool

	X, Y           float64
	PrevX, PrevY   float64
	StartX, StartY float64
	DX, DY         float64
	Moved          bool

	// FlickX/FlickY hold the release velocity when the last few positions
	// before the release covered more than the minimum flick distance.
	FlickX, FlickY float64

	flags      uint8
	now, last  uint8
	start, end uint8
	tempX      float64
	tempY      float64
	cache      []Vec2
	released   bool
}

// NewPointer creates an idle pointer with the given id.
func NewPointer(id int) *Pointer {
	return &Pointer{ID: id, cache: make([]Vec2, 0, flickCacheSize+1)}
}

// MoveTo records a new raw position. It becomes the pointer's position on
// the next Update.
func (p *Pointer) MoveTo(x, y float64) {
	p.tempX = x
	p.tempY = y
}

// Press marks button as held at (x, y). The press does not count as
// movement.
func (p *Pointer) Press(x, y float64, button MouseButton) {
	p.MoveTo(x, y)
	p.flags |= button.flag()
	p.X, p.Y = x, y
	p.PrevX, p.PrevY = x, y
	p.FlickX, p.FlickY = 0, 0
	p.cache = p.cache[:0]
}

// Release marks button as no longer held and computes the flick velocity
// from the cached recent positions.
func (p *Pointer) Release(button MouseButton) {
	p.flags &^= button.flag()
	if len(p.cache) < 2 {
		return
	}
	first := p.cache[0]
	last := p.cache[len(p.cache)-1]
	vx, vy := last.X-first.X, last.Y-first.Y
	l := math.Hypot(vx, vy)
	if l > flickMinDistance {
		norm := min(max(l, flickMinDistance), flickMaxDistance)
		p.FlickX = vx / l * norm
		p.FlickY = vy / l * norm
	}
	p.cache = p.cache[:0]
}

// Update advances the pointer by one frame: press edges, delta, moved flag
// and position history.
func (p *Pointer) Update() {
	p.last = p.now
	p.now = p.flags
	p.start = (p.now ^ p.last) & p.now
	p.end = (p.now ^ p.last) & p.last

	p.DX = p.tempX - p.X
	p.DY = p.tempY - p.Y
	p.Moved = p.DX != 0 || p.DY != 0

	if p.start != 0 {
		p.StartX, p.StartY = p.X, p.Y
	}
	p.PrevX, p.PrevY = p.X, p.Y
	p.X, p.Y = p.tempX, p.tempY

	if len(p.cache) > flickCacheSize {
		copy(p.cache, p.cache[1:])
		p.cache = p.cache[:len(p.cache)-1]
	}
	p.cache = append(p.cache, Vec2{p.X, p.Y})
}

// Pressed reports whether any button is held this frame.
func (p *Pointer) Pressed() bool { return p.now != 0 }

// PressStarted reports whether a button went down this frame.
func (p *Pointer) PressStarted() bool { return p.start != 0 }

// PressEnded reports whether a button went up this frame.
func (p *Pointer) PressEnded() bool { return p.end != 0 }

// ButtonPressed reports whether button is held this frame.
func (p *Pointer) ButtonPressed(b MouseButton) bool { return p.now&b.flag() != 0 }

// PointerSource supplies the active pointers for a frame.
type PointerSource interface {
	// Update reads the device state for the new frame.
	Update()
	// Pointers returns the active pointers. The slice must not be retained.
	Pointers() []*Pointer
	// Primary returns the pointer used in single-pointer mode, or nil.
	Primary() *Pointer
}

// updateTouches advances touch pointers and drops the ones whose release
// edge was reported on the previous frame. Returns the surviving slice.
func updateTouches(touches []*Pointer) []*Pointer {
	kept := touches[:0]
	for _, p := range touches {
		if p.released {
			continue
		}
		p.Update()
		if p.flags == 0 {
			p.released = true
		}
		kept = append(kept, p)
	}
	for i := len(kept); i < len(touches); i++ {
		touches[i] = nil
	}
	return kept
}
