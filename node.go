package arbor

// Updater is implemented by node behaviors that run logic every tick.
type Updater interface {
	Update(ctx *FrameContext)
}

// Drawer is implemented by node behaviors that paint onto a Surface. The
// surface already carries the node's world transform, world alpha and blend
// mode when Draw is called, so drawing happens in local coordinates.
type Drawer interface {
	Draw(s Surface)
}

// Clipper is implemented by node behaviors that restrict drawing of the node
// and its subtree. Clip applies the region to s in local coordinates.
type Clipper interface {
	Clip(s Surface)
}

// UpdateFunc adapts a function to the Updater interface.
type UpdateFunc func(ctx *FrameContext)

// Update calls f(ctx).
func (f UpdateFunc) Update(ctx *FrameContext) { f(ctx) }

// DrawFunc adapts a function to the Drawer interface.
type DrawFunc func(s Surface)

// Draw calls f(s).
func (f DrawFunc) Draw(s Surface) { f(s) }

// nodeIDCounter is a plain counter; arbor is single-threaded.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is the scene graph element. A single flat struct carries the tree,
// transform and visual state for every node; per-kind behavior lives in the
// optional behavior value (see Updater, Drawer, Clipper).
type Node struct {
	// Identity
	ID   uint32
	Name string

	// Hierarchy
	parent   *Node
	children []*Node
	active   bool
	events   eventRegistry
	behavior any

	// Transform (local). Rotation is in degrees.
	X, Y             float64
	ScaleX, ScaleY   float64
	Rotation         float64
	OriginX, OriginY float64

	// Bounds
	Shape       BoundingShape
	Interactive bool
	width       float64
	height      float64
	radius      float64
	diameter    float64

	// Computed
	localTransform [6]float64
	worldTransform [6]float64
	hasWorld       bool
	rotationCached bool
	cachedRotation float64
	sin, cos       float64

	// Visual
	Visible           bool
	Alpha             float64
	BlendMode         BlendMode
	RenderChildBySelf bool
	worldAlpha        float64

	// Pointer state keyed by pointer id.
	overFlags   map[int]bool
	touchFlags  map[int]bool
	clicked     bool
	checkedPass uint64

	// Accessories updated from the enter-frame event.
	accessories []Accessory
	accessoryOn bool

	// Metadata
	UserData any
	EntityID uint32

	disposed bool
}

// Default geometry for new nodes.
const (
	DefaultWidth  = 64
	DefaultHeight = 64
	DefaultRadius = 32
)

// NewNode creates a detached, active, visible node with default geometry:
// 64x64 rectangle bounds, origin at the center and unit scale.
func NewNode(name string) *Node {
	n := &Node{
		ID:         nextNodeID(),
		Name:       name,
		active:     true,
		ScaleX:     1,
		ScaleY:     1,
		OriginX:    0.5,
		OriginY:    0.5,
		Shape:      ShapeRect,
		width:      DefaultWidth,
		height:     DefaultHeight,
		Visible:    true,
		Alpha:      1,
		worldAlpha: 1,
	}
	n.SetRadius(DefaultRadius)
	n.localTransform = identityTransform
	n.worldTransform = identityTransform
	return n
}

// NewNodeWith creates a node whose behavior is b. See SetBehavior.
func NewNodeWith(name string, b any) *Node {
	n := NewNode(name)
	n.behavior = b
	return n
}

// SetBehavior sets the value whose optional Updater, Drawer and Clipper
// implementations are invoked by the frame passes. A nil behavior makes the
// node a plain group.
func (n *Node) SetBehavior(b any) {
	n.behavior = b
}

// Behavior returns the node's behavior value, or nil.
func (n *Node) Behavior() any {
	return n.behavior
}

// --- Tree manipulation ---

// AddChild appends child to this node's children and fires EventAdded on
// the child. If child already has a parent, it is removed from that parent
// first. Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) *Node {
	n.insertChild(child, -1)
	return child
}

// AddChildAt inserts child at the given index.
// Same reparenting and cycle-check behavior as AddChild.
func (n *Node) AddChildAt(child *Node, index int) *Node {
	n.insertChild(child, index)
	return child
}

// AddTo appends this node to parent and returns this node.
func (n *Node) AddTo(parent *Node) *Node {
	parent.AddChild(n)
	return n
}

func (n *Node) insertChild(child *Node, index int) {
	if child == nil {
		panic("arbor: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("arbor: adding child would create a cycle")
	}
	if child.parent != nil {
		moving := child.parent == n
		child.Remove()
		// The list shrank by one; an index valid before the move stays valid.
		if moving && index > len(n.children) {
			index = len(n.children)
		}
	}
	if index < 0 {
		n.children = append(n.children, child)
	} else {
		if index > len(n.children) {
			panic("arbor: child index out of range")
		}
		n.children = append(n.children, nil)
		copy(n.children[index+1:], n.children[index:])
		n.children[index] = child
	}
	child.parent = n
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
	if child.Has(EventAdded) {
		child.Flare(EventAdded)
	}
}

// RemoveChild detaches child from this node and fires EventRemoved on it.
// No-op if child is not a child of this node.
func (n *Node) RemoveChild(child *Node) {
	if child == nil || child.parent != n {
		return
	}
	n.removeChildByPtr(child)
	child.parent = nil
	if child.Has(EventRemoved) {
		child.Flare(EventRemoved)
	}
}

// RemoveChildAt removes and returns the child at the given index.
func (n *Node) RemoveChildAt(index int) *Node {
	if index < 0 || index >= len(n.children) {
		panic("arbor: child index out of range")
	}
	child := n.children[index]
	n.RemoveChild(child)
	return child
}

// Remove detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) Remove() {
	if n.parent == nil {
		return
	}
	n.parent.RemoveChild(n)
}

// RemoveChildren detaches all children from this node.
func (n *Node) RemoveChildren() {
	for len(n.children) > 0 {
		n.RemoveChild(n.children[len(n.children)-1])
	}
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at index. Negative indices count from the end
// (-1 is the last child). Returns nil when out of range.
func (n *Node) ChildAt(index int) *Node {
	if index < 0 {
		index += len(n.children)
	}
	if index < 0 || index >= len(n.children) {
		return nil
	}
	return n.children[index]
}

// ChildIndex returns the index of child, or -1 if it is not a child of n.
func (n *Node) ChildIndex(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// SetChildIndex moves child to a new index among its siblings.
func (n *Node) SetChildIndex(child *Node, index int) {
	if child.parent != n {
		panic("arbor: child's parent is not this node")
	}
	nc := len(n.children)
	if index < 0 || index >= nc {
		panic("arbor: child index out of range")
	}
	oldIndex := n.ChildIndex(child)
	if oldIndex == index {
		return
	}
	if oldIndex < index {
		copy(n.children[oldIndex:], n.children[oldIndex+1:index+1])
	} else {
		copy(n.children[index+1:], n.children[index:oldIndex])
	}
	n.children[index] = child
}

// ChildByName returns the first direct child named name, or nil.
func (n *Node) ChildByName(name string) *Node {
	for _, c := range n.children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Find returns the first node named name in a depth-first search of n's
// subtree, n included, or nil.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.children {
		if f := c.Find(name); f != nil {
			return f
		}
	}
	return nil
}

// Parent returns the node's parent, or nil when detached.
func (n *Node) Parent() *Node {
	return n.parent
}

// Root walks the parent chain and returns the topmost ancestor. A detached
// node is its own root.
func (n *Node) Root() *Node {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// --- Activity ---

// IsActive reports whether the node takes part in update and pointer passes.
func (n *Node) IsActive() bool {
	return n.active
}

// SetActive enables or disables the node. Inactive nodes and their subtrees
// are skipped by the FrameUpdater and PointerReconciler.
func (n *Node) SetActive(active bool) {
	n.active = active
}

// WakeUp activates the node.
func (n *Node) WakeUp() { n.active = true }

// Sleep deactivates the node.
func (n *Node) Sleep() { n.active = false }

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.Remove()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.parent = nil
		child.dispose()
	}
	n.children = nil
	n.parent = nil
	n.events = eventRegistry{}
	n.behavior = nil
	n.overFlags = nil
	n.touchFlags = nil
	n.accessories = nil
	n.accessoryOn = false
	n.UserData = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node (or node itself).
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// snapshotChildren copies the child list so a pass can iterate it while
// callbacks add or remove children.
func snapshotChildren(n *Node) []*Node {
	if len(n.children) == 0 {
		return nil
	}
	s := make([]*Node, len(n.children))
	copy(s, n.children)
	return s
}
