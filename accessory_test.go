package arbor

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

// tick runs one full frame on root: pointers, update pass, pointer pass.
type tick struct {
	ctx *FrameContext
	u   *FrameUpdater
	v   *VirtualPointers
	r   *PointerReconciler
}

func newTick() *tick {
	ctx := &FrameContext{}
	v := NewVirtualPointers()
	return &tick{ctx: ctx, u: NewFrameUpdater(ctx), v: v, r: newTestReconciler(v)}
}

func (k *tick) run(root *Node, dt float64) {
	k.v.Update()
	k.ctx.Advance(dt)
	k.u.Update(root)
	k.r.Check(root)
}

func TestAttachDetach(t *testing.T) {
	n := NewNode("n")
	p := NewPhysical()
	n.Attach(p)
	if len(n.Accessories()) != 1 || !n.Has(EventEnterFrame) {
		t.Fatal("Attach should register the accessory and the frame listener")
	}
	n.Attach(NewPhysical())
	if len(n.events.listeners[EventEnterFrame]) != 1 {
		t.Error("only one frame listener per node")
	}
	if !n.Detach(p) || n.Detach(p) {
		t.Error("Detach should succeed once")
	}
	if len(n.Accessories()) != 1 {
		t.Errorf("Accessories = %d, want 1", len(n.Accessories()))
	}
}

func TestPhysicalIntegrates(t *testing.T) {
	n := NewNode("ball")
	p := NewPhysical()
	p.Gravity = Vec2{0, 1}
	p.Force(2, 0)
	n.Attach(p)

	u := NewFrameUpdater(nil)
	u.Update(n)
	u.Update(n)

	assertNear(t, "x", n.X, 4)
	assertNear(t, "y", n.Y, 3)
	assertNear(t, "vy", p.Velocity.Y, 2)

	p.Friction = 0.5
	p.Gravity = Vec2{}
	p.AddForce(2, 0)
	u.Update(n)
	assertNear(t, "vx after friction", p.Velocity.X, 2)
	assertNear(t, "x after friction", n.X, 6)

	n.Detach(p)
	u.Update(n)
	assertNear(t, "x after detach", n.X, 6)
}

func TestDraggableFollowsPointer(t *testing.T) {
	root := NewNode("root")
	card := NewNode("card").AddTo(root)
	card.SetPosition(100, 100)
	d := NewDraggable()
	card.Attach(d)
	if !card.Interactive {
		t.Fatal("Draggable should make the node interactive")
	}

	var events []EventType
	for _, et := range []EventType{EventDragStart, EventDrag, EventDragEnd, EventBackEnd} {
		card.On(et, func(e *Event) { events = append(events, e.Type) })
	}

	k := newTick()
	k.v.Press(0, 100, 100)
	k.run(root, 0.1)
	if !d.Dragging() {
		t.Fatal("press should start a drag")
	}

	k.v.Move(0, 130, 110)
	k.run(root, 0.1)
	assertNear(t, "x", card.X, 130)
	assertNear(t, "y", card.Y, 110)

	k.v.Release(0)
	k.run(root, 0.1)
	if d.Dragging() {
		t.Error("release should end the drag")
	}

	d.Back(0, nil)
	assertNear(t, "x after back", card.X, 100)
	assertNear(t, "y after back", card.Y, 100)

	want := []EventType{EventDragStart, EventDrag, EventDragEnd, EventBackEnd}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("events[%d] = %s, want %s", i, events[i], want[i])
		}
	}
}

func TestDraggableLockAxis(t *testing.T) {
	root := NewNode("root")
	card := NewNode("card").AddTo(root)
	d := NewDraggable()
	d.LockY = true
	card.Attach(d)

	k := newTick()
	k.v.Press(0, 0, 0)
	k.run(root, 0.1)
	k.v.Move(0, 10, 10)
	k.run(root, 0.1)
	assertNear(t, "x", card.X, 10)
	assertNear(t, "y", card.Y, 0)
}

func TestDraggableDisabled(t *testing.T) {
	root := NewNode("root")
	card := NewNode("card").AddTo(root)
	d := NewDraggable()
	d.Disabled = true
	card.Attach(d)

	k := newTick()
	k.v.Press(0, 0, 0)
	k.run(root, 0.1)
	k.v.Move(0, 10, 10)
	k.run(root, 0.1)
	if d.Dragging() || card.X != 0 {
		t.Error("disabled draggable should not move")
	}
}

func TestDraggableTweenedBack(t *testing.T) {
	root := NewNode("root")
	card := NewNode("card").AddTo(root)
	d := NewDraggable()
	card.Attach(d)
	d.InitialX, d.InitialY = 0, 0
	card.SetPosition(50, 0)

	arrived := false
	card.On(EventBackEnd, func(*Event) { arrived = true })

	d.Back(0.5, ease.Linear)
	if card.Interactive {
		t.Error("node should ignore pointers while returning")
	}
	k := newTick()
	k.run(root, 0.25)
	if arrived {
		t.Error("should not arrive halfway")
	}
	if math.Abs(card.X-25) > 0.5 {
		t.Errorf("X = %f, want ~25 halfway", card.X)
	}
	k.run(root, 0.25)
	if !arrived || !card.Interactive {
		t.Error("node should arrive and become interactive again")
	}
	if math.Abs(card.X) > 0.5 {
		t.Errorf("X = %f, want ~0", card.X)
	}
}

func TestDraggableDetachRemovesListeners(t *testing.T) {
	card := NewNode("card")
	d := NewDraggable()
	card.Attach(d)
	card.Detach(d)
	if card.Has(EventPointStart) || card.Has(EventPointMove) || card.Has(EventPointEnd) {
		t.Error("Detach should remove the pointer listeners")
	}
}

func TestFlickableGlides(t *testing.T) {
	root := NewNode("root")
	panel := NewNode("panel").AddTo(root)
	panel.SetPosition(100, 100)
	f := NewFlickable()
	f.Vertical = false
	panel.Attach(f)

	var flick Vec2
	panel.On(EventFlickStart, func(e *Event) { flick = e.Data.(Vec2) })

	k := newTick()
	k.v.Press(0, 100, 100)
	k.run(root, 0.1)
	k.v.Move(0, 120, 130)
	k.run(root, 0.1)
	assertNear(t, "x while dragging", panel.X, 120)
	assertNear(t, "y locked", panel.Y, 100)

	k.v.Release(0)
	k.run(root, 0.1)
	// The event carries the unit direction; the glide keeps the raw delta.
	l := math.Sqrt(20*20 + 30*30)
	assertNear(t, "flick x", flick.X, 20/l)
	assertNear(t, "flick y", flick.Y, 30/l)
	assertNear(t, "velocity x", f.Velocity.X, 20)
	assertNear(t, "velocity y", f.Velocity.Y, 30)

	k.run(root, 0.1)
	assertNear(t, "x after glide", panel.X, 138)
	assertNear(t, "y after glide", panel.Y, 100)

	f.Cancel()
	assertNear(t, "x after cancel", panel.X, 100)
	assertNear(t, "velocity after cancel", f.Velocity.X, 0)
}

func TestFlickableCancelOnSlowRelease(t *testing.T) {
	root := NewNode("root")
	panel := NewNode("panel").AddTo(root)
	f := NewFlickable()
	panel.Attach(f)

	cancelled := false
	panel.On(EventFlickCancel, func(*Event) { cancelled = true })

	k := newTick()
	k.v.Press(0, 0, 0)
	k.run(root, 0.1)
	k.v.Move(0, 2, 1)
	k.run(root, 0.1)
	k.v.Release(0)
	k.run(root, 0.1)
	if !cancelled {
		t.Error("a slow release should cancel the flick")
	}
	assertNear(t, "velocity", f.Velocity.X, 0)
}
