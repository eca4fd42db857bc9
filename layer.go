package arbor

import "github.com/hajimehoshi/ebiten/v2"

// Layer paints its subtree into a private surface with its own
// SceneRenderer, then composites that surface as a single image when the
// main pass reaches it. The layer node has RenderChildBySelf set, so the
// main pass never draws the children directly.
//
// The private pass runs from the layer node's EventEnterFrame listener and
// places the children relative to the layer's origin, ignoring where the
// layer itself sits in the tree.
type Layer struct {
	Node *Node

	surface  Surface
	renderer *SceneRenderer
	handle   ListenerHandle
}

// NewLayer creates a layer node that renders into s. The node's size is the
// surface size.
func NewLayer(name string, s Surface) *Layer {
	l := &Layer{
		surface:  s,
		renderer: NewSceneRenderer(s),
	}
	n := NewNodeWith(name, l)
	n.RenderChildBySelf = true
	w, h := s.Size()
	n.SetSize(float64(w), float64(h))
	l.Node = n
	l.handle = n.On(EventEnterFrame, func(*Event) { l.Refresh() })
	return l
}

// NewEbitenLayer creates a layer backed by a new w x h ebiten image.
func NewEbitenLayer(name string, w, h int) *Layer {
	return NewLayer(name, NewEbitenSurface(ebiten.NewImage(w, h)))
}

// Surface returns the private surface.
func (l *Layer) Surface() Surface { return l.surface }

// Renderer returns the private renderer.
func (l *Layer) Renderer() *SceneRenderer { return l.renderer }

// Refresh clears the private surface and repaints the children. Called
// automatically every frame; call it directly for hosts that render
// without running the update pass.
func (l *Layer) Refresh() {
	l.surface.Clear()
	l.renderer.RenderChildren(l.Node)
}

// Draw composites the private surface over the layer's bounds.
func (l *Layer) Draw(s Surface) {
	n := l.Node
	w, h := n.Width(), n.Height()
	s.Composite(l.surface, -w*n.OriginX, -h*n.OriginY, w, h)
}

// Freeze stops the per-frame repaint; the last image keeps being composited.
func (l *Layer) Freeze() {
	l.handle.Remove()
	l.handle = ListenerHandle{}
}

// Thaw resumes the per-frame repaint after Freeze.
func (l *Layer) Thaw() {
	if l.handle.node != nil {
		return
	}
	l.handle = l.Node.On(EventEnterFrame, func(*Event) { l.Refresh() })
}
