package arbor

import (
	"math"
	"slices"

	"github.com/tanema/gween/ease"
)

// Accessory is a per-node helper updated once per frame from the node's
// EventEnterFrame. Accessories that also implement Attached or Detached
// are notified when they join or leave a node.
type Accessory interface {
	Update(ctx *FrameContext)
}

type attachedNotifier interface {
	Attached(n *Node)
}

type detachedNotifier interface {
	Detached(n *Node)
}

// Events fired by the built-in accessories.
const (
	EventDragStart   EventType = "dragstart"
	EventDrag        EventType = "drag"
	EventDragEnd     EventType = "dragend"
	EventBackEnd     EventType = "backend"
	EventFlickStart  EventType = "flickstart"
	EventFlickCancel EventType = "flickcancel"
)

// Attach adds a to the node. The first attachment registers the
// enter-frame listener that drives every accessory of the node.
func (n *Node) Attach(a Accessory) {
	if !n.accessoryOn {
		n.accessoryOn = true
		n.On(EventEnterFrame, n.updateAccessories)
	}
	n.accessories = append(n.accessories, a)
	if an, ok := a.(attachedNotifier); ok {
		an.Attached(n)
	}
}

// Detach removes a from the node. Returns false if it was not attached.
func (n *Node) Detach(a Accessory) bool {
	i := slices.Index(n.accessories, a)
	if i < 0 {
		return false
	}
	n.accessories = slices.Delete(n.accessories, i, i+1)
	if dn, ok := a.(detachedNotifier); ok {
		dn.Detached(n)
	}
	return true
}

// Accessories returns the attached accessories. The slice must not be mutated.
func (n *Node) Accessories() []Accessory {
	return n.accessories
}

func (n *Node) updateAccessories(e *Event) {
	if len(n.accessories) == 0 {
		return
	}
	ctx := e.Frame
	if ctx == nil {
		ctx = &FrameContext{}
	}
	// Accessories may detach themselves while updating.
	for _, a := range slices.Clone(n.accessories) {
		a.Update(ctx)
	}
}

// Physical integrates a simple velocity per frame: velocity is scaled by
// Friction, Gravity is added, then the node moves by the velocity.
type Physical struct {
	Velocity Vec2
	Gravity  Vec2
	Friction float64

	target *Node
}

// NewPhysical creates an integrator with no friction loss (Friction 1).
func NewPhysical() *Physical {
	return &Physical{Friction: 1}
}

func (p *Physical) Attached(n *Node) { p.target = n }
func (p *Physical) Detached(*Node)   { p.target = nil }

// Force replaces the velocity.
func (p *Physical) Force(x, y float64) { p.Velocity = Vec2{x, y} }

// AddForce adds to the velocity.
func (p *Physical) AddForce(x, y float64) {
	p.Velocity.X += x
	p.Velocity.Y += y
}

// Update advances the integrator by one frame.
func (p *Physical) Update(*FrameContext) {
	if p.target == nil {
		return
	}
	p.Velocity.X = p.Velocity.X*p.Friction + p.Gravity.X
	p.Velocity.Y = p.Velocity.Y*p.Friction + p.Gravity.Y
	p.target.X += p.Velocity.X
	p.target.Y += p.Velocity.Y
}

// Draggable moves its node with the pointer that pressed it. Attaching makes
// the node interactive. The node fires EventDragStart, EventDrag and
// EventDragEnd.
type Draggable struct {
	// Disabled ignores new presses while set. A drag in progress finishes.
	Disabled bool
	// LockX and LockY keep the node from moving along that axis.
	LockX, LockY bool

	// InitialX and InitialY hold the node position at the last drag start.
	InitialX, InitialY float64

	target   *Node
	dragging bool
	handles  []ListenerHandle
	back     *TweenGroup
}

// NewDraggable creates an enabled draggable.
func NewDraggable() *Draggable {
	return &Draggable{}
}

// Dragging reports whether a drag is in progress.
func (d *Draggable) Dragging() bool { return d.dragging }

func (d *Draggable) Attached(n *Node) {
	d.target = n
	d.dragging = false
	n.SetInteractive(true)
	d.handles = append(d.handles,
		n.On(EventPointStart, d.onStart),
		n.On(EventPointMove, d.onMove),
		n.On(EventPointEnd, d.onEnd),
	)
}

func (d *Draggable) Detached(*Node) {
	for _, h := range d.handles {
		h.Remove()
	}
	d.handles = d.handles[:0]
	d.dragging = false
	d.target = nil
}

func (d *Draggable) onStart(e *Event) {
	if d.Disabled || d.back != nil {
		return
	}
	d.dragging = true
	d.InitialX, d.InitialY = d.target.X, d.target.Y
	d.target.Flare(EventDragStart)
}

func (d *Draggable) onMove(e *Event) {
	if !d.dragging {
		return
	}
	if !d.LockX {
		d.target.X += e.Pointer.DX
	}
	if !d.LockY {
		d.target.Y += e.Pointer.DY
	}
	d.target.Flare(EventDrag)
}

func (d *Draggable) onEnd(*Event) {
	if !d.dragging {
		return
	}
	d.dragging = false
	d.target.Flare(EventDragEnd)
}

// Update is a no-op; dragging is driven by pointer events.
func (d *Draggable) Update(*FrameContext) {}

// Back returns the node to where the last drag started. With a positive
// duration the move is tweened (with fn, or ease.OutElastic when nil) and
// the node ignores pointers until it arrives. EventBackEnd fires on arrival.
func (d *Draggable) Back(duration float32, fn ease.TweenFunc) {
	t := d.target
	if t == nil {
		return
	}
	d.dragging = false
	if duration <= 0 {
		t.X, t.Y = d.InitialX, d.InitialY
		t.Flare(EventBackEnd)
		return
	}
	if fn == nil {
		fn = ease.OutElastic
	}
	t.SetInteractive(false)
	d.back = TweenPosition(t, d.InitialX, d.InitialY, duration, fn)
	d.back.OnDone = func() {
		d.back = nil
		t.SetInteractive(true)
		t.Flare(EventBackEnd)
	}
	t.Attach(d.back)
}

// Flickable drags its node while pressed and keeps it gliding after the
// release, slowing down by Friction every frame. EventFlickStart carries the
// unit flick direction as a Vec2. A release without recent motion fires
// EventFlickCancel instead.
type Flickable struct {
	Friction   float64
	Horizontal bool
	Vertical   bool
	Velocity   Vec2

	InitialX, InitialY float64

	target  *Node
	deltas  []Vec2
	handles []ListenerHandle
}

// NewFlickable creates a flickable moving on both axes with friction 0.9.
func NewFlickable() *Flickable {
	return &Flickable{Friction: 0.9, Horizontal: true, Vertical: true}
}

func (f *Flickable) Attached(n *Node) {
	f.target = n
	n.SetInteractive(true)
	f.handles = append(f.handles,
		n.On(EventPointStart, f.onStart),
		n.On(EventPointStay, f.onStay),
		n.On(EventPointEnd, f.onEnd),
	)
}

func (f *Flickable) Detached(*Node) {
	for _, h := range f.handles {
		h.Remove()
	}
	f.handles = f.handles[:0]
	f.target = nil
}

func (f *Flickable) onStart(*Event) {
	f.InitialX, f.InitialY = f.target.X, f.target.Y
	f.Velocity = Vec2{}
	f.deltas = f.deltas[:0]
}

func (f *Flickable) onStay(e *Event) {
	p := e.Pointer
	if f.Horizontal {
		f.target.X += p.DX
	}
	if f.Vertical {
		f.target.Y += p.DY
	}
	if len(f.deltas) > flickCacheSize {
		f.deltas = slices.Delete(f.deltas, 0, 1)
	}
	f.deltas = append(f.deltas, Vec2{p.DX, p.DY})
}

func (f *Flickable) onEnd(*Event) {
	var delta *Vec2
	for i := len(f.deltas) - 1; i >= 0; i-- {
		v := f.deltas[i]
		if v.X*v.X+v.Y*v.Y > flickMinDistance {
			delta = &v
			break
		}
	}
	f.deltas = f.deltas[:0]
	if delta == nil {
		f.target.Flare(EventFlickCancel)
		return
	}
	f.Velocity = *delta
	l := math.Hypot(delta.X, delta.Y)
	dir := Vec2{X: delta.X / l, Y: delta.Y / l}
	f.target.Fire(&Event{Type: EventFlickStart, Data: dir})
}

// Update glides the node by the remaining velocity.
func (f *Flickable) Update(*FrameContext) {
	if f.target == nil {
		return
	}
	f.Velocity.X *= f.Friction
	f.Velocity.Y *= f.Friction
	if f.Horizontal {
		f.target.X += f.Velocity.X
	}
	if f.Vertical {
		f.target.Y += f.Velocity.Y
	}
}

// Cancel puts the node back where the last press started and stops it.
func (f *Flickable) Cancel() {
	if f.target == nil {
		return
	}
	f.target.X, f.target.Y = f.InitialX, f.InitialY
	f.Velocity = Vec2{}
}
