package arbor

import "slices"

// syntheticPointerEvent represents a single queued pointer event.
type syntheticPointerEvent struct {
	id      int
	x, y    float64
	pressed bool
	button  MouseButton
}

// VirtualPointers is a PointerSource driven entirely by code: tests, test
// scripts and headless hosts use it instead of EbitenInput.
//
// Pointers can be driven immediately (Press, Move, Release act before the
// next Update) or through the inject queue, which feeds one event per frame
// exactly like a real device would.
type VirtualPointers struct {
	// Touch makes newly created pointers touch pointers: they exist only
	// while pressed (plus the frame reporting the release) and a release
	// while overlapping a node also points out of it.
	Touch bool

	pointers []*Pointer
	queue    []syntheticPointerEvent
}

var _ PointerSource = (*VirtualPointers)(nil)

// NewVirtualPointers creates an empty source.
func NewVirtualPointers() *VirtualPointers {
	return &VirtualPointers{}
}

// Pointer returns the pointer with id, creating it when it does not exist
// (or when its touch has already ended).
func (v *VirtualPointers) Pointer(id int) *Pointer {
	for i, p := range v.pointers {
		if p.ID != id {
			continue
		}
		if !p.released {
			return p
		}
		v.pointers = slices.Delete(v.pointers, i, i+1)
		break
	}
	p := NewPointer(id)
	p.Touch = v.Touch
	v.pointers = append(v.pointers, p)
	slices.SortFunc(v.pointers, func(a, b *Pointer) int { return a.ID - b.ID })
	return p
}

// Press presses the primary button of pointer id at (x, y).
func (v *VirtualPointers) Press(id int, x, y float64) {
	v.Pointer(id).Press(x, y, MouseButtonLeft)
}

// Move moves pointer id to (x, y).
func (v *VirtualPointers) Move(id int, x, y float64) {
	v.Pointer(id).MoveTo(x, y)
}

// Release releases the primary button of pointer id.
func (v *VirtualPointers) Release(id int) {
	v.Pointer(id).Release(MouseButtonLeft)
}

// InjectPress queues a press of pointer 0 at (x, y). Queued events are
// consumed one per Update.
func (v *VirtualPointers) InjectPress(x, y float64) {
	v.queue = append(v.queue, syntheticPointerEvent{x: x, y: y, pressed: true})
}

// InjectMove queues a move of pointer 0 to (x, y) with the button held.
// Use this between InjectPress and InjectRelease to simulate a drag.
func (v *VirtualPointers) InjectMove(x, y float64) {
	v.queue = append(v.queue, syntheticPointerEvent{x: x, y: y, pressed: true})
}

// InjectRelease queues a release of pointer 0 at (x, y).
func (v *VirtualPointers) InjectRelease(x, y float64) {
	v.queue = append(v.queue, syntheticPointerEvent{x: x, y: y})
}

// InjectClick queues a press followed by a release at the same
// coordinates. Consumes two frames.
func (v *VirtualPointers) InjectClick(x, y float64) {
	v.InjectPress(x, y)
	v.InjectRelease(x, y)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY),
// linearly interpolated moves over frames-2 intermediate frames, and
// release at (toX, toY). The total sequence consumes `frames` frames.
// Minimum frames is 2 (press + release).
func (v *VirtualPointers) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	v.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		v.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	v.InjectRelease(toX, toY)
}

// Pending returns the number of queued events not yet consumed.
func (v *VirtualPointers) Pending() int {
	return len(v.queue)
}

// Update consumes at most one queued event and advances every pointer by
// one frame.
func (v *VirtualPointers) Update() {
	if len(v.queue) > 0 {
		evt := v.queue[0]
		copy(v.queue, v.queue[1:])
		v.queue = v.queue[:len(v.queue)-1]
		v.apply(evt)
	}

	kept := v.pointers[:0]
	for _, p := range v.pointers {
		if p.released {
			continue
		}
		p.Update()
		if p.Touch && p.flags == 0 {
			p.released = true
		}
		kept = append(kept, p)
	}
	clear(v.pointers[len(kept):])
	v.pointers = kept
}

func (v *VirtualPointers) apply(evt syntheticPointerEvent) {
	p := v.Pointer(evt.id)
	held := p.flags&evt.button.flag() != 0
	switch {
	case evt.pressed && !held:
		p.Press(evt.x, evt.y, evt.button)
	case evt.pressed:
		p.MoveTo(evt.x, evt.y)
	default:
		p.MoveTo(evt.x, evt.y)
		if held {
			p.Release(evt.button)
		}
	}
}

// Pointers returns the live pointers in id order.
func (v *VirtualPointers) Pointers() []*Pointer {
	return v.pointers
}

// Primary returns the pointer with the lowest id, or nil.
func (v *VirtualPointers) Primary() *Pointer {
	if len(v.pointers) == 0 {
		return nil
	}
	return v.pointers[0]
}
