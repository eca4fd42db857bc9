package arbor

// FrameContext is handed to update hooks and enter-frame listeners.
type FrameContext struct {
	// Frame counts completed ticks.
	Frame uint64
	// Delta is the duration of the current tick in seconds.
	Delta float64
	// Elapsed is the sum of all deltas so far, in seconds.
	Elapsed float64
	// Pointers is the pointer source of the running app, or nil.
	Pointers PointerSource
	// App is the running application, or nil for headless hosts.
	App *App
}

// Advance moves the context to the next tick.
func (c *FrameContext) Advance(dt float64) {
	c.Frame++
	c.Delta = dt
	c.Elapsed += dt
}

// FrameUpdater runs the update pass: a pre-order walk that fires
// EventEnterFrame and calls Updater hooks on every active node.
type FrameUpdater struct {
	ctx     *FrameContext
	visited int
}

// NewFrameUpdater creates an updater that passes ctx to every hook.
// A nil ctx gets a zero FrameContext.
func NewFrameUpdater(ctx *FrameContext) *FrameUpdater {
	if ctx == nil {
		ctx = &FrameContext{}
	}
	return &FrameUpdater{ctx: ctx}
}

// Context returns the frame context handed to hooks.
func (u *FrameUpdater) Context() *FrameContext {
	return u.ctx
}

// Visited returns how many nodes the last Update call processed.
func (u *FrameUpdater) Visited() int {
	return u.visited
}

// Update walks the tree rooted at root. Inactive nodes are skipped together
// with their subtrees. Each node's world matrix and alpha are recomposed
// right after its own hooks ran, so children's hooks see their parent's
// geometry for this frame.
func (u *FrameUpdater) Update(root *Node) {
	u.visited = 0
	u.updateNode(root)
}

func (u *FrameUpdater) updateNode(n *Node) {
	if !n.active {
		return
	}
	u.visited++

	if n.Has(EventEnterFrame) {
		n.Fire(&Event{Type: EventEnterFrame, Frame: u.ctx})
	}
	if up, ok := n.behavior.(Updater); ok {
		up.Update(u.ctx)
	}
	n.recompose()

	for _, child := range snapshotChildren(n) {
		u.updateNode(child)
	}
}
