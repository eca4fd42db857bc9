package arbor

import "testing"

func newTestApp(root *Node) (*App, *VirtualPointers) {
	a := NewApp(root, DefaultRunConfig())
	a.Reconciler().SetCursor = func(CursorShape) {}
	v := NewVirtualPointers()
	a.SetPointerSource(v)
	return a, v
}

func TestNewAppWiring(t *testing.T) {
	cfg := DefaultRunConfig()
	cfg.MultiTouch = false
	cfg.ShowCollider = true
	cfg.ClearColor = ColorWhite
	a := NewApp(NewNode("root"), cfg)

	if a.Reconciler().MultiPointer {
		t.Error("MultiTouch=false should select single-pointer mode")
	}
	if !a.Renderer().ShowCollider {
		t.Error("ShowCollider should reach the renderer")
	}
	if a.ClearColor != ColorWhite {
		t.Error("ClearColor should come from the config")
	}
	if a.Context().App != a {
		t.Error("frame context should point back at the app")
	}
	if _, ok := a.Reconciler().Source().(*EbitenInput); !ok {
		t.Error("default pointer source should be EbitenInput")
	}
	w, h := a.Layout(0, 0)
	if w != 640 || h != 960 {
		t.Errorf("Layout = %dx%d", w, h)
	}
}

func TestAppStepOrder(t *testing.T) {
	root := NewNode("root")
	button := NewNode("button").AddTo(root)
	button.SetInteractive(true)

	var order []string
	button.On(EventEnterFrame, func(*Event) { order = append(order, "enterframe") })
	button.On(EventPointStart, func(*Event) { order = append(order, "pointstart") })

	a, v := newTestApp(root)
	v.Press(0, 0, 0)
	a.Step(0.5)

	if len(order) != 2 || order[0] != "enterframe" || order[1] != "pointstart" {
		t.Errorf("order = %v, want [enterframe pointstart]", order)
	}
	if a.Frame() != 1 {
		t.Errorf("Frame = %d, want 1", a.Frame())
	}
	assertNear(t, "delta", a.Context().Delta, 0.5)
}

func TestAppContextSeesPointers(t *testing.T) {
	var seen PointerSource
	root := NewNodeWith("root", UpdateFunc(func(ctx *FrameContext) { seen = ctx.Pointers }))
	a, v := newTestApp(root)
	a.Step(0.1)
	if seen != v {
		t.Error("hooks should see the app's pointer source")
	}
}

func TestAppSetRootResetsHeld(t *testing.T) {
	root := NewNode("root")
	NewNode("button").AddTo(root).SetInteractive(true)

	a, v := newTestApp(root)
	v.Move(0, 0, 0)
	a.Step(0.1)
	if len(a.Reconciler().Held()) != 1 {
		t.Fatalf("Held = %d, want 1", len(a.Reconciler().Held()))
	}

	a.SetRoot(NewNode("other"))
	if len(a.Reconciler().Held()) != 0 {
		t.Error("SetRoot should forget held nodes")
	}
	a.Step(0.1)
	if a.Reconciler().Cursor() != CursorDefault {
		t.Error("cursor should reset under the new root")
	}
}

func TestAppNilRoot(t *testing.T) {
	a, _ := newTestApp(nil)
	a.Step(0.1)
	a.Render(newSpySurface(10, 10))
	if a.Frame() != 1 {
		t.Errorf("Frame = %d, want 1", a.Frame())
	}
}

func TestAppTickClearsAndRenders(t *testing.T) {
	var log []string
	root, _ := recordedNode("root", &log)
	a, _ := newTestApp(root)
	a.ClearColor = Color{A: 1}

	s := newSpySurface(10, 10)
	a.Tick(s, 0.1)
	if s.fills != 1 {
		t.Errorf("fills = %d, want 1 clear fill", s.fills)
	}
	if len(log) != 1 {
		t.Errorf("draws = %v, want [root]", log)
	}

	a.ClearColor = Color{}
	a.Tick(s, 0.1)
	if s.fills != 1 {
		t.Error("transparent clear color should skip the fill")
	}
}

func TestAppDebugMode(t *testing.T) {
	a, _ := newTestApp(NewNode("root"))
	a.SetDebugMode(true)
	defer a.SetDebugMode(false)
	if !globalDebug {
		t.Error("SetDebugMode should turn on node checks")
	}
	a.Tick(newSpySurface(10, 10), 0.1)
	if a.stats.updated != 1 || a.stats.rendered != 1 {
		t.Errorf("stats = %+v", a.stats)
	}
}
