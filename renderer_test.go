package arbor

import "testing"

// spySurface records the calls the render pass makes.
type spySurface struct {
	w, h int

	state surfaceState
	stack []surfaceState

	saves, restores int
	clips           int
	clears          int
	fills           int
	composites      []spyComposite
}

type spyComposite struct {
	src        Surface
	x, y, w, h float64
	alpha      float64
}

func newSpySurface(w, h int) *spySurface {
	return &spySurface{w: w, h: h, state: surfaceState{transform: identityTransform, alpha: 1}}
}

func (s *spySurface) Save() {
	s.saves++
	s.stack = append(s.stack, s.state)
}

func (s *spySurface) Restore() {
	s.restores++
	if len(s.stack) == 0 {
		return
	}
	s.state = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}

func (s *spySurface) SetTransform(m [6]float64)   { s.state.transform = m }
func (s *spySurface) Transform() [6]float64       { return s.state.transform }
func (s *spySurface) SetAlpha(a float64)          { s.state.alpha = a }
func (s *spySurface) Alpha() float64              { return s.state.alpha }
func (s *spySurface) SetBlendMode(b BlendMode)    { s.state.blend = b }
func (s *spySurface) BlendMode() BlendMode        { return s.state.blend }
func (s *spySurface) ClipRect(x, y, w, h float64) { s.clips++ }
func (s *spySurface) Clear()                      { s.clears++ }
func (s *spySurface) Size() (int, int)            { return s.w, s.h }

func (s *spySurface) Composite(src Surface, x, y, w, h float64) {
	s.composites = append(s.composites, spyComposite{src, x, y, w, h, s.state.alpha})
}

func (s *spySurface) FillRect(x, y, w, h float64, c Color) { s.fills++ }

// drawRecorder is a behavior that records what the surface looked like when
// it was drawn.
type drawRecorder struct {
	name  string
	log   *[]string
	alpha float64
	world [6]float64
	blend BlendMode
}

func (d *drawRecorder) Draw(s Surface) {
	*d.log = append(*d.log, d.name)
	d.alpha = s.Alpha()
	d.world = s.Transform()
	d.blend = s.BlendMode()
}

func recordedNode(name string, log *[]string) (*Node, *drawRecorder) {
	d := &drawRecorder{name: name, log: log}
	return NewNodeWith(name, d), d
}

type clipRecorder struct {
	drawRecorder
}

func (c *clipRecorder) Clip(s Surface) { s.ClipRect(-10, -10, 20, 20) }

func TestRenderPreOrder(t *testing.T) {
	var log []string
	root, _ := recordedNode("root", &log)
	a, _ := recordedNode("a", &log)
	a1, _ := recordedNode("a1", &log)
	b, _ := recordedNode("b", &log)
	root.AddChild(a)
	a.AddChild(a1)
	root.AddChild(b)

	s := newSpySurface(100, 100)
	r := NewSceneRenderer(s)
	r.Render(root)

	want := []string{"root", "a", "a1", "b"}
	if len(log) != len(want) {
		t.Fatalf("draw order = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("log[%d] = %s, want %s", i, log[i], want[i])
		}
	}
	if r.Drawn() != 4 || r.Visited() != 4 {
		t.Errorf("Drawn=%d Visited=%d, want 4 and 4", r.Drawn(), r.Visited())
	}
	if s.saves != s.restores {
		t.Errorf("unbalanced Save/Restore: %d vs %d", s.saves, s.restores)
	}
}

func TestRenderAppliesWorldState(t *testing.T) {
	var log []string
	parent, _ := recordedNode("parent", &log)
	parent.SetPosition(10, 0)
	parent.SetAlpha(0.5)
	child, rec := recordedNode("child", &log)
	child.SetPosition(5, 5)
	child.SetAlpha(0.5)
	child.SetBlendMode(BlendAdd)
	parent.AddChild(child)

	NewSceneRenderer(newSpySurface(10, 10)).Render(parent)

	assertNear(t, "alpha", rec.alpha, 0.25)
	assertMatrix(t, "world", rec.world, [6]float64{1, 0, 0, 1, 15, 5})
	if rec.blend != BlendAdd {
		t.Errorf("blend = %v, want BlendAdd", rec.blend)
	}
}

func TestRenderNegativeAlphaIsZero(t *testing.T) {
	var log []string
	n, rec := recordedNode("n", &log)
	n.SetAlpha(-1)
	NewSceneRenderer(newSpySurface(10, 10)).Render(n)
	assertNear(t, "alpha", rec.alpha, 0)
}

func TestRenderInvisibleShortCircuit(t *testing.T) {
	var log []string
	root := NewNode("root")
	hidden, _ := recordedNode("hidden", &log)
	hidden.Hide()
	root.AddChild(hidden)
	for range 10 {
		c, _ := recordedNode("deep", &log)
		hidden.AddChild(c)
	}

	r := NewSceneRenderer(newSpySurface(10, 10))
	r.Render(root)
	if len(log) != 0 {
		t.Errorf("nothing under an invisible node should draw, got %v", log)
	}
	if r.Visited() != 1 {
		t.Errorf("Visited = %d, want 1 (root only)", r.Visited())
	}
}

func TestRenderInvisibleInteractiveRecomposes(t *testing.T) {
	var log []string
	root := NewNode("root")
	hidden, _ := recordedNode("hidden", &log)
	hidden.SetInteractive(true)
	hidden.SetPosition(100, 0)
	hidden.Hide()
	root.AddChild(hidden)
	child, _ := recordedNode("child", &log)
	child.SetPosition(0, 50)
	hidden.AddChild(child)
	off, _ := recordedNode("off", &log)
	off.Hide()
	child.AddChild(off)
	under, _ := recordedNode("under", &log)
	off.AddChild(under)

	r := NewSceneRenderer(newSpySurface(10, 10))
	r.Render(root)
	if len(log) != 0 {
		t.Errorf("invisible subtree should not draw, got %v", log)
	}
	if r.Visited() != 3 {
		t.Errorf("Visited = %d, want 3", r.Visited())
	}
	x, y := child.LocalToWorld(0, 0)
	assertNear(t, "child x", x, 100)
	assertNear(t, "child y", y, 50)

	// An invisible, non-interactive node stops the hidden walk too.
	if off.HasWorldTransform() || under.HasWorldTransform() {
		t.Errorf("hidden non-interactive subtree was recomposed: off=%v under=%v",
			off.HasWorldTransform(), under.HasWorldTransform())
	}
}

func TestRenderClipperSavesAndRestores(t *testing.T) {
	var log []string
	clip := &clipRecorder{drawRecorder{name: "clip", log: &log}}
	root := NewNodeWith("clip", clip)
	child, _ := recordedNode("child", &log)
	root.AddChild(child)

	s := newSpySurface(10, 10)
	NewSceneRenderer(s).Render(root)

	if s.clips != 1 {
		t.Errorf("clips = %d, want 1", s.clips)
	}
	// One pair for the pass, one for the clip scope.
	if s.saves != 2 || s.restores != 2 {
		t.Errorf("saves=%d restores=%d, want 2 and 2", s.saves, s.restores)
	}
	if len(log) != 2 {
		t.Errorf("draw log = %v, want clip and child", log)
	}
}

func TestRenderChildBySelf(t *testing.T) {
	var log []string
	root, _ := recordedNode("root", &log)
	root.RenderChildBySelf = true
	child, _ := recordedNode("child", &log)
	root.AddChild(child)

	NewSceneRenderer(newSpySurface(10, 10)).Render(root)
	if len(log) != 1 || log[0] != "root" {
		t.Errorf("log = %v, want [root]", log)
	}
}

func TestRenderRemoveDuringDraw(t *testing.T) {
	var log []string
	root := NewNode("root")
	b, _ := recordedNode("b", &log)
	a := NewNodeWith("a", DrawFunc(func(Surface) {
		log = append(log, "a")
		root.RemoveChild(b)
	}))
	root.AddChild(a)
	root.AddChild(b)

	NewSceneRenderer(newSpySurface(10, 10)).Render(root)
	if len(log) != 2 {
		t.Errorf("snapshot should still draw b this frame, log = %v", log)
	}
	// b was removed mid-pass, so it composed against no parent.
	assertMatrix(t, "b world", b.WorldTransform(), identityTransform)
}

func TestRenderChildrenIgnoresParentPlacement(t *testing.T) {
	var log []string
	layer := NewNode("layer")
	layer.SetPosition(300, 300)
	layer.SetAlpha(0.2)
	layer.RecomputeWorldMatrix()
	layer.RecomputeWorldAlpha()
	before := layer.WorldTransform()

	child, rec := recordedNode("child", &log)
	child.SetPosition(5, 6)
	layer.AddChild(child)

	NewSceneRenderer(newSpySurface(10, 10)).RenderChildren(layer)
	assertMatrix(t, "child world", rec.world, [6]float64{1, 0, 0, 1, 5, 6})
	assertNear(t, "child alpha", rec.alpha, 1)
	assertMatrix(t, "layer world restored", layer.WorldTransform(), before)
	assertNear(t, "layer alpha restored", layer.WorldAlpha(), 0.2)
}

func TestRenderShowCollider(t *testing.T) {
	root := NewNode("root")
	NewNode("child").AddTo(root)
	bg := NewNode("bg").AddTo(root)
	bg.SetBoundingShape(ShapeNone)

	s := newSpySurface(10, 10)
	r := NewSceneRenderer(s)
	r.ShowCollider = true
	r.Render(root)
	if s.fills != 2 {
		t.Errorf("fills = %d, want 2 (ShapeNone has no box)", s.fills)
	}
}

func TestRenderNilRoot(t *testing.T) {
	s := newSpySurface(10, 10)
	NewSceneRenderer(s).Render(nil)
	if s.saves != 0 {
		t.Error("nil root should not touch the surface")
	}
}
