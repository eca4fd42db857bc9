package arbor

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// nopHandler is a slog.Handler that discards all records. Enabled returns
// false so callers skip formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger configures the logger used by arbor. By default arbor produces
// no log output. Pass nil to restore the silent default.
//
// Levels used:
//   - [slog.LevelDebug]: per-frame pass timings in debug mode
//   - [slog.LevelInfo]: lifecycle (run started, screenshots written)
//   - [slog.LevelWarn]: tree shape warnings, failed screenshot writes
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// globalDebug mirrors the most recently set App debug flag so that node
// operations, which have no back pointer to the App, can run the checks.
var globalDebug bool

// debugStats holds per-frame pass timings. Only collected in debug mode.
type debugStats struct {
	updateTime time.Duration
	checkTime  time.Duration
	renderTime time.Duration
	updated    int
	checked    int
	rendered   int
	drawn      int
}

// log writes the frame stats at debug level.
func (s debugStats) log(frame uint64) {
	Logger().Debug("arbor frame",
		"frame", frame,
		"update", s.updateTime,
		"check", s.checkTime,
		"render", s.renderTime,
		"total", s.updateTime+s.checkTime+s.renderTime,
		"updated", s.updated,
		"checked", s.checked,
		"rendered", s.rendered,
		"drawn", s.drawn,
	)
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Only called in debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("arbor debug: %s on disposed node %q", op, n.Name))
	}
}

const debugMaxTreeDepth = 32

// debugCheckTreeDepth warns if tree depth exceeds debugMaxTreeDepth.
func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		Logger().Warn("tree depth exceeds threshold",
			"node", n.Name, "depth", depth, "threshold", debugMaxTreeDepth)
	}
}

const debugMaxChildCount = 1000

// debugCheckChildCount warns if a node has more than debugMaxChildCount children.
func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		Logger().Warn("child count exceeds threshold",
			"node", n.Name, "children", len(n.children), "threshold", debugMaxChildCount)
	}
}
