package arbor

import "testing"

func TestPointerPressEdges(t *testing.T) {
	p := NewPointer(0)

	p.Press(10, 10, MouseButtonLeft)
	p.Update()
	if !p.PressStarted() || !p.Pressed() || p.PressEnded() {
		t.Error("frame 1: want start edge and pressed")
	}
	if p.Moved {
		t.Error("a press alone is not a move")
	}
	assertNear(t, "StartX", p.StartX, 10)

	p.MoveTo(15, 12)
	p.Update()
	if p.PressStarted() || !p.Pressed() {
		t.Error("frame 2: want held without a new start edge")
	}
	if !p.Moved {
		t.Error("frame 2: want Moved")
	}
	assertNear(t, "DX", p.DX, 5)
	assertNear(t, "DY", p.DY, 2)
	assertNear(t, "PrevX", p.PrevX, 10)

	p.Release(MouseButtonLeft)
	p.Update()
	if !p.PressEnded() || p.Pressed() {
		t.Error("frame 3: want end edge and released")
	}
	if p.Moved {
		t.Error("frame 3: no movement")
	}

	p.Update()
	if p.PressEnded() || p.PressStarted() {
		t.Error("frame 4: edges last exactly one frame")
	}
}

func TestPointerButtons(t *testing.T) {
	p := NewPointer(0)
	p.Press(0, 0, MouseButtonRight)
	p.Update()
	if !p.ButtonPressed(MouseButtonRight) || p.ButtonPressed(MouseButtonLeft) {
		t.Error("only the right button should be held")
	}

	// A second button going down while one is held is its own start edge.
	p.Press(0, 0, MouseButtonLeft)
	p.Update()
	if !p.PressStarted() {
		t.Error("left press should start an edge")
	}
	p.Release(MouseButtonRight)
	p.Update()
	if !p.PressEnded() || !p.Pressed() {
		t.Error("right release should end an edge while left stays held")
	}
}

func TestPointerFlick(t *testing.T) {
	tests := []struct {
		name  string
		moves []float64
		want  float64
	}{
		{"fast", []float64{20, 40}, 40},
		{"clamped", []float64{200, 400}, flickMaxDistance},
		{"slow", []float64{2, 4}, 0},
		{"single frame", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPointer(0)
			p.Press(0, 0, MouseButtonLeft)
			p.Update()
			for _, x := range tt.moves {
				p.MoveTo(x, 0)
				p.Update()
			}
			p.Release(MouseButtonLeft)
			assertNear(t, "FlickX", p.FlickX, tt.want)
			assertNear(t, "FlickY", p.FlickY, 0)
		})
	}
}

func TestPointerFlickResetOnPress(t *testing.T) {
	p := NewPointer(0)
	p.Press(0, 0, MouseButtonLeft)
	p.Update()
	p.MoveTo(50, 0)
	p.Update()
	p.Release(MouseButtonLeft)
	p.Update()
	if p.FlickX == 0 {
		t.Fatal("expected a flick")
	}
	p.Press(50, 0, MouseButtonLeft)
	assertNear(t, "FlickX after press", p.FlickX, 0)
}

func TestUpdateTouchesDropsReleased(t *testing.T) {
	a := NewPointer(1)
	a.Touch = true
	b := NewPointer(2)
	b.Touch = true
	a.Press(0, 0, MouseButtonLeft)
	b.Press(5, 5, MouseButtonLeft)
	touches := updateTouches([]*Pointer{a, b})

	a.Release(MouseButtonLeft)
	touches = updateTouches(touches)
	if len(touches) != 2 || !a.PressEnded() {
		t.Fatal("released touch should survive the frame that reports its end")
	}
	touches = updateTouches(touches)
	if len(touches) != 1 || touches[0] != b {
		t.Errorf("released touch should be dropped, got %d pointers", len(touches))
	}
}
