package arbor

import "github.com/hajimehoshi/ebiten/v2"

// EntityStore is the interface for optional ECS integration.
// When set on a PointerReconciler, pointer transitions of nodes with a
// non-zero EntityID are forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent carries interaction data for the ECS bridge.
type InteractionEvent struct {
	Type      EventType
	EntityID  uint32
	PointerID int
	Touch     bool
	GlobalX   float64
	GlobalY   float64
	LocalX    float64
	LocalY    float64
	DeltaX    float64
	DeltaY    float64
}

// PointerReconciler runs the pointer pass. For every (node, pointer id)
// pair it tracks an idle, over or pressed state and fires EventPointOver,
// EventPointOut, EventPointStart, EventPointStay, EventPointMove and
// EventPointEnd on the transitions. After a release it fires the synthetic
// EventClick on nodes pressed since the previous release.
type PointerReconciler struct {
	// MultiPointer reconciles every pointer of the source. When false only
	// the source's primary pointer is used.
	MultiPointer bool

	// HoverCursor is requested while any non-background node is under a
	// pointer; NormalCursor otherwise.
	HoverCursor  CursorShape
	NormalCursor CursorShape

	// SetCursor applies the cursor affordance. Nil uses
	// ebiten.SetCursorShape.
	SetCursor func(CursorShape)

	source  PointerSource
	store   EntityStore
	enabled bool

	held      []heldEntry
	heldNodes []*Node
	tracked   map[*Node]struct{}
	pass      uint64
	cursor    CursorShape
	visited   int
	pointers  []*Pointer
}

// heldEntry records that pointer id is over n.
type heldEntry struct {
	n  *Node
	id int
}

// NewPointerReconciler creates an enabled, multi-pointer reconciler that
// reads from src.
func NewPointerReconciler(src PointerSource) *PointerReconciler {
	return &PointerReconciler{
		MultiPointer: true,
		HoverCursor:  CursorPointer,
		NormalCursor: CursorDefault,
		source:       src,
		enabled:      true,
		tracked:      make(map[*Node]struct{}),
	}
}

// Source returns the pointer source.
func (r *PointerReconciler) Source() PointerSource { return r.source }

// SetSource replaces the pointer source.
func (r *PointerReconciler) SetSource(src PointerSource) { r.source = src }

// SetEntityStore sets the optional ECS bridge.
func (r *PointerReconciler) SetEntityStore(store EntityStore) { r.store = store }

// Enable turns the pointer pass on.
func (r *PointerReconciler) Enable() { r.enabled = true }

// Disable turns the pointer pass off. Per-node state is kept as is.
func (r *PointerReconciler) Disable() { r.enabled = false }

// Enabled reports whether Check does anything.
func (r *PointerReconciler) Enabled() bool { return r.enabled }

// Held returns the nodes currently under some pointer, in the order they
// were entered. A node under two pointers appears twice. The slice is reused
// by the next call and must not be mutated.
func (r *PointerReconciler) Held() []*Node {
	clear(r.heldNodes)
	r.heldNodes = r.heldNodes[:0]
	for _, h := range r.held {
		r.heldNodes = append(r.heldNodes, h.n)
	}
	return r.heldNodes
}

// ResetHeld forgets every held node and all per-pointer node state, so the
// next pass starts from idle. Used when the root is replaced.
func (r *PointerReconciler) ResetHeld() {
	clear(r.held)
	r.held = r.held[:0]
	for n := range r.tracked {
		clear(n.overFlags)
		clear(n.touchFlags)
	}
	clear(r.tracked)
}

// Cursor returns the cursor applied by the last Check.
func (r *PointerReconciler) Cursor() CursorShape { return r.cursor }

// Visited returns how many nodes the last Check traversed.
func (r *PointerReconciler) Visited() int { return r.visited }

// Check runs the pointer pass over the tree rooted at root. Each visited
// node's world matrix is recomposed right before it is hit-tested, top
// down, so hit tests always use this frame's geometry.
func (r *PointerReconciler) Check(root *Node) {
	r.visited = 0
	if !r.enabled || r.source == nil || root == nil {
		return
	}
	r.pass++
	r.pointers = r.pointers[:0]
	if r.MultiPointer {
		r.pointers = append(r.pointers, r.source.Pointers()...)
	} else if p := r.source.Primary(); p != nil {
		r.pointers = append(r.pointers, p)
	}

	released := false
	for _, p := range r.pointers {
		if p.PressEnded() {
			released = true
		}
	}

	if len(r.pointers) > 0 {
		r.checkNode(root)
	}
	r.prune()
	if released {
		fireClicks(root)
	}
	r.applyCursor()
}

func (r *PointerReconciler) checkNode(n *Node) {
	if !n.active {
		return
	}
	r.visited++
	n.recompose()

	if n.Interactive {
		n.checkedPass = r.pass
		for _, p := range r.pointers {
			r.checkPoint(n, p)
		}
	}
	for _, child := range snapshotChildren(n) {
		r.checkNode(child)
	}
}

func (r *PointerReconciler) checkPoint(n *Node, p *Pointer) {
	if n.overFlags == nil {
		n.overFlags = make(map[int]bool)
		n.touchFlags = make(map[int]bool)
	}
	id := p.ID
	prevOver := n.overFlags[id]
	over := n.HitTest(p.X, p.Y)
	n.overFlags[id] = over

	if over {
		r.tracked[n] = struct{}{}
	}

	if !prevOver && over {
		r.emit(n, p, EventPointOver, over)
		if n.Shape != ShapeNone {
			r.hold(n, id)
		}
	}
	if prevOver && !over {
		r.emit(n, p, EventPointOut, over)
		r.unhold(n, id)
	}

	if over && p.PressStarted() {
		n.touchFlags[id] = true
		r.emit(n, p, EventPointStart, over)
		n.clicked = true
	}

	if n.touchFlags[id] {
		r.emit(n, p, EventPointStay, over)
		if p.Moved {
			r.emit(n, p, EventPointMove, over)
		}
		if p.PressEnded() {
			n.touchFlags[id] = false
			r.emit(n, p, EventPointEnd, over)
		}
	}

	// A lifted finger no longer hovers anything, whether or not it pressed
	// this node.
	if p.Touch && p.PressEnded() && n.overFlags[id] {
		n.overFlags[id] = false
		r.emit(n, p, EventPointOut, false)
		r.unhold(n, id)
	}
}

// emit fires t on n and forwards it to the entity store.
func (r *PointerReconciler) emit(n *Node, p *Pointer, t EventType, over bool) {
	if n.Has(t) {
		n.Fire(&Event{Type: t, Pointer: p, Over: over, Reconciler: r})
	}
	if r.store == nil || n.EntityID == 0 {
		return
	}
	lx, ly := n.WorldToLocal(p.X, p.Y)
	r.store.EmitEvent(InteractionEvent{
		Type:      t,
		EntityID:  n.EntityID,
		PointerID: p.ID,
		Touch:     p.Touch,
		GlobalX:   p.X,
		GlobalY:   p.Y,
		LocalX:    lx,
		LocalY:    ly,
		DeltaX:    p.DX,
		DeltaY:    p.DY,
	})
}

func (r *PointerReconciler) hold(n *Node, id int) {
	r.held = append(r.held, heldEntry{n, id})
}

// unhold removes the entry for (n, id) from the held set.
func (r *PointerReconciler) unhold(n *Node, id int) {
	for i, h := range r.held {
		if h.n == n && h.id == id {
			copy(r.held[i:], r.held[i+1:])
			r.held[len(r.held)-1] = heldEntry{}
			r.held = r.held[:len(r.held)-1]
			return
		}
	}
}

// prune drops pointer state the pass could not reconcile: nodes that were
// removed, deactivated or made non-interactive since they were entered, and
// pointer ids the source no longer reports. No events are fired for them.
func (r *PointerReconciler) prune() {
	for n := range r.tracked {
		checked := n.checkedPass == r.pass
		if !checked {
			n.clicked = false
		}
		for id := range n.overFlags {
			if !checked || !r.live(id) {
				delete(n.overFlags, id)
			}
		}
		for id := range n.touchFlags {
			if !checked || !r.live(id) {
				delete(n.touchFlags, id)
			}
		}
		if !hasPointerState(n) {
			delete(r.tracked, n)
		}
	}

	kept := r.held[:0]
	for _, h := range r.held {
		if h.n.checkedPass == r.pass && r.live(h.id) {
			kept = append(kept, h)
		}
	}
	clear(r.held[len(kept):])
	r.held = kept
}

// live reports whether pointer id took part in the current pass.
func (r *PointerReconciler) live(id int) bool {
	for _, p := range r.pointers {
		if p.ID == id {
			return true
		}
	}
	return false
}

func hasPointerState(n *Node) bool {
	for _, on := range n.overFlags {
		if on {
			return true
		}
	}
	for _, on := range n.touchFlags {
		if on {
			return true
		}
	}
	return false
}

func (r *PointerReconciler) applyCursor() {
	c := r.NormalCursor
	if len(r.held) > 0 {
		c = r.HoverCursor
	}
	r.cursor = c
	if r.SetCursor != nil {
		r.SetCursor(c)
		return
	}
	ebiten.SetCursorShape(c.EbitenCursor())
}

// fireClicks walks the tree post-order, fires EventClick on every node
// pressed since the last release and clears the pressed marks.
func fireClicks(n *Node) {
	for _, child := range snapshotChildren(n) {
		fireClicks(child)
	}
	if n.clicked && n.Has(EventClick) {
		n.Flare(EventClick)
	}
	n.clicked = false
}
