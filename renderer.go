package arbor

// rectFiller is implemented by surfaces that can fill a local-space
// rectangle. Used for the collider overlay.
type rectFiller interface {
	FillRect(x, y, w, h float64, c Color)
}

// colliderColor is the translucent fill of the collider overlay.
var colliderColor = Color{1, 0, 0, 0.4}

// SceneRenderer runs the render pass: a pre-order walk that recomposes
// world matrices and alpha, applies them to the Surface and calls Drawer
// and Clipper hooks.
//
// Nodes that are invisible and not interactive are skipped together with
// their subtrees. Invisible interactive nodes keep their matrices (and those
// of their descendants) current so hit testing stays correct, but nothing
// under them is drawn.
type SceneRenderer struct {
	// ShowCollider overlays every drawn node's bounding box when the
	// surface supports rectangle fills.
	ShowCollider bool

	surface Surface
	visited int
	drawn   int
}

// NewSceneRenderer creates a renderer that draws onto s.
func NewSceneRenderer(s Surface) *SceneRenderer {
	return &SceneRenderer{surface: s}
}

// Surface returns the target surface.
func (r *SceneRenderer) Surface() Surface { return r.surface }

// SetSurface retargets the renderer.
func (r *SceneRenderer) SetSurface(s Surface) { r.surface = s }

// Visited returns how many nodes the last pass recomposed.
func (r *SceneRenderer) Visited() int { return r.visited }

// Drawn returns how many Draw hooks the last pass called.
func (r *SceneRenderer) Drawn() int { return r.drawn }

// Render draws root and its subtree. The surface state is saved before and
// restored after the pass.
func (r *SceneRenderer) Render(root *Node) {
	r.visited, r.drawn = 0, 0
	if root == nil {
		return
	}
	r.surface.Save()
	r.renderNode(root)
	r.surface.Restore()
}

// RenderChildren draws the children of n, but not n itself, as if n sat at
// the origin of the surface with full opacity. Layers use it to paint their
// subtree into a private surface. n's cached world state is restored
// afterwards.
func (r *SceneRenderer) RenderChildren(n *Node) {
	r.visited, r.drawn = 0, 0
	world, has, alpha := n.worldTransform, n.hasWorld, n.worldAlpha
	n.worldTransform, n.hasWorld, n.worldAlpha = identityTransform, true, 1

	r.surface.Save()
	for _, child := range snapshotChildren(n) {
		r.renderNode(child)
	}
	r.surface.Restore()

	n.worldTransform, n.hasWorld, n.worldAlpha = world, has, alpha
}

func (r *SceneRenderer) renderNode(n *Node) {
	if !n.Visible && !n.Interactive {
		return
	}
	n.recompose()
	r.visited++

	if !n.Visible {
		r.recomposeHidden(n)
		return
	}

	s := r.surface
	s.SetAlpha(n.worldAlpha)
	s.SetBlendMode(n.BlendMode)
	s.SetTransform(n.worldTransform)

	if c, ok := n.behavior.(Clipper); ok {
		s.Save()
		c.Clip(s)
		r.drawSelf(n)
		r.renderChildren(n)
		s.Restore()
	} else {
		r.drawSelf(n)
		r.renderChildren(n)
	}

	if r.ShowCollider {
		r.drawCollider(n)
	}
}

func (r *SceneRenderer) drawSelf(n *Node) {
	if d, ok := n.behavior.(Drawer); ok {
		d.Draw(r.surface)
		r.drawn++
	}
}

func (r *SceneRenderer) renderChildren(n *Node) {
	if n.RenderChildBySelf {
		return
	}
	for _, child := range snapshotChildren(n) {
		r.renderNode(child)
	}
}

// recomposeHidden keeps the matrices under an invisible interactive node
// current without drawing anything. Invisible non-interactive subtrees are
// skipped, as in renderNode.
func (r *SceneRenderer) recomposeHidden(n *Node) {
	for _, child := range snapshotChildren(n) {
		if !child.Visible && !child.Interactive {
			continue
		}
		child.recompose()
		r.visited++
		r.recomposeHidden(child)
	}
}

func (r *SceneRenderer) drawCollider(n *Node) {
	f, ok := r.surface.(rectFiller)
	if !ok || n.Shape == ShapeNone {
		return
	}
	s := r.surface
	s.Save()
	s.SetTransform(n.worldTransform)
	s.SetAlpha(1)
	s.SetBlendMode(BlendNormal)
	w, h := n.Width(), n.Height()
	f.FillRect(-w*n.OriginX, -h*n.OriginY, w, h, colliderColor)
	s.Restore()
}
