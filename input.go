package arbor

import (
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
)

// maxPointers bounds the pointer ids handed out by EbitenInput:
// pointer 0 = mouse, 1-9 = touch.
const maxPointers = 10

// KeyModifiers is a bitmask of keyboard modifier keys held during a pointer
// event.
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// readModifiers reads the current keyboard modifier state.
func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= ModMeta
	}
	return mods
}

var mouseButtons = [...]struct {
	ours   MouseButton
	ebiten ebiten.MouseButton
}{
	{MouseButtonLeft, ebiten.MouseButtonLeft},
	{MouseButtonRight, ebiten.MouseButtonRight},
	{MouseButtonMiddle, ebiten.MouseButtonMiddle},
}

// EbitenInput is the PointerSource that reads ebiten's mouse and touch
// state. The mouse is always pointer 0; each touch gets a slot id 1-9 for
// as long as the finger stays down, plus one frame to report the release.
type EbitenInput struct {
	// ScreenToRoot converts screen coordinates into root-node coordinates.
	// Nil means they are the same.
	ScreenToRoot func(x, y float64) (float64, float64)

	// Modifiers holds the keyboard modifiers read on the last Update.
	Modifiers KeyModifiers

	mouse     *Pointer
	touches   []*Pointer
	touchMap  [maxPointers]ebiten.TouchID
	touchUsed [maxPointers]bool
	touchIDs  []ebiten.TouchID
	active    []*Pointer
}

var _ PointerSource = (*EbitenInput)(nil)

// NewEbitenInput creates an input source with the mouse pointer idle at (0, 0).
func NewEbitenInput() *EbitenInput {
	return &EbitenInput{mouse: NewPointer(0)}
}

func (in *EbitenInput) toRoot(x, y int) (float64, float64) {
	fx, fy := float64(x), float64(y)
	if in.ScreenToRoot != nil {
		return in.ScreenToRoot(fx, fy)
	}
	return fx, fy
}

// Update reads the device state for the new frame.
func (in *EbitenInput) Update() {
	in.Modifiers = readModifiers()
	in.updateMouse()
	in.updateTouches()

	in.active = append(in.active[:0], in.mouse)
	in.active = append(in.active, in.touches...)
}

func (in *EbitenInput) updateMouse() {
	x, y := in.toRoot(ebiten.CursorPosition())
	p := in.mouse
	p.MoveTo(x, y)
	for _, b := range mouseButtons {
		down := ebiten.IsMouseButtonPressed(b.ebiten)
		held := p.flags&b.ours.flag() != 0
		switch {
		case down && !held:
			p.Press(x, y, b.ours)
		case !down && held:
			p.Release(b.ours)
		}
	}
	p.Update()
}

func (in *EbitenInput) updateTouches() {
	in.touchIDs = ebiten.AppendTouchIDs(in.touchIDs[:0])

	var seen [maxPointers]bool
	for _, tid := range in.touchIDs {
		slot, fresh := in.touchSlot(tid)
		if slot < 0 {
			continue
		}
		seen[slot] = true
		x, y := in.toRoot(ebiten.TouchPosition(tid))
		if fresh {
			p := NewPointer(slot)
			p.Touch = true
			p.Press(x, y, MouseButtonLeft)
			in.touches = append(in.touches, p)
			continue
		}
		if p := in.touchPointer(slot); p != nil {
			p.MoveTo(x, y)
		}
	}

	// Fingers that left the screen release their pointer; the slot is
	// freed right away, the pointer lives one more frame for the end edge.
	for i := 1; i < maxPointers; i++ {
		if in.touchUsed[i] && !seen[i] {
			if p := in.touchPointer(i); p != nil {
				p.Release(MouseButtonLeft)
			}
			in.touchUsed[i] = false
			in.touchMap[i] = 0
		}
	}

	in.touches = updateTouches(in.touches)
	slices.SortFunc(in.touches, func(a, b *Pointer) int { return a.ID - b.ID })
}

// touchPointer returns the live (not yet released) pointer in slot.
func (in *EbitenInput) touchPointer(slot int) *Pointer {
	for _, p := range in.touches {
		if p.ID == slot && !p.released {
			return p
		}
	}
	return nil
}

// touchSlot maps an ebiten.TouchID to a pointer slot (1-9).
// Returns the existing slot or allocates a new one (fresh = true).
// Returns -1 if full.
func (in *EbitenInput) touchSlot(tid ebiten.TouchID) (slot int, fresh bool) {
	for i := 1; i < maxPointers; i++ {
		if in.touchUsed[i] && in.touchMap[i] == tid {
			return i, false
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !in.touchUsed[i] && in.touchPointer(i) == nil && !in.slotReleasing(i) {
			in.touchUsed[i] = true
			in.touchMap[i] = tid
			return i, true
		}
	}
	return -1, false
}

// slotReleasing reports whether a released pointer still occupies slot.
func (in *EbitenInput) slotReleasing(slot int) bool {
	for _, p := range in.touches {
		if p.ID == slot {
			return true
		}
	}
	return false
}

// Pointers returns the mouse followed by the touches in slot order.
func (in *EbitenInput) Pointers() []*Pointer {
	return in.active
}

// Primary returns the lowest touch slot while a finger is down (or was
// lifted this frame), otherwise the mouse.
func (in *EbitenInput) Primary() *Pointer {
	if len(in.touches) > 0 {
		return in.touches[0]
	}
	return in.mouse
}

// Mouse returns pointer 0.
func (in *EbitenInput) Mouse() *Pointer {
	return in.mouse
}
