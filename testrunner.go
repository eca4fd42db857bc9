package arbor

import (
	"encoding/json"
	"fmt"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action  string  `json:"action"`
	Label   string  `json:"label,omitempty"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	FromX   float64 `json:"fromX,omitempty"`
	FromY   float64 `json:"fromY,omitempty"`
	ToX     float64 `json:"toX,omitempty"`
	ToY     float64 `json:"toY,omitempty"`
	Frames  int     `json:"frames,omitempty"`
	Pointer int     `json:"pointer,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

var knownActions = map[string]bool{
	"click": true, "drag": true, "wait": true, "screenshot": true,
	"press": true, "move": true, "release": true,
}

// TestRunner sequences synthetic pointer input and screenshots across
// frames for automated visual testing. Attach to an App via SetTestRunner.
//
// Script actions: click, drag, press, move, release (all at x/y or
// fromX/fromY to toX/toY), wait (frames) and screenshot (label).
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
	pointers  *VirtualPointers
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready
// to be attached to an App via SetTestRunner.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if !knownActions[st.Action] {
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps, pointers: NewVirtualPointers()}, nil
}

// SetTestRunner attaches a TestRunner to the app. The app's pointer source
// becomes the runner's virtual pointers.
func (a *App) SetTestRunner(runner *TestRunner) {
	a.testRunner = runner
	if runner != nil {
		a.SetPointerSource(runner.pointers)
	}
}

// Pointers returns the virtual pointers the runner drives.
func (r *TestRunner) Pointers() *VirtualPointers {
	return r.pointers
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame. Called from App.Step before the
// pointer source updates.
func (r *TestRunner) step(a *App) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if r.pointers.Pending() > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	v := r.pointers
	switch st.Action {
	case "screenshot":
		a.Screenshot(st.Label)
	case "click":
		v.InjectClick(st.X, st.Y)
	case "drag":
		v.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, max(st.Frames, 2))
	case "press":
		v.Press(st.Pointer, st.X, st.Y)
	case "move":
		v.Move(st.Pointer, st.X, st.Y)
	case "release":
		v.Move(st.Pointer, st.X, st.Y)
		v.Release(st.Pointer)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && v.Pending() == 0 {
		r.done = true
	}
}
