package arbor

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields on a Node simultaneously.
// Create one via the convenience constructors (TweenPosition, TweenScale,
// TweenAlpha, TweenRotation). A group is an Accessory: attach it to a node
// and it advances by the frame delta every tick, detaching itself when
// finished. It can also be driven by hand with Advance.
//
// If the target node is disposed, the group stops immediately.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	target *Node

	// Done is set once every tween has reached its end value.
	Done bool
	// OnDone is called once when the group finishes.
	OnDone func()
}

// Advance moves all tweens forward by dt seconds and writes the values to
// the target fields.
func (g *TweenGroup) Advance(dt float32) {
	if g.Done {
		return
	}
	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	if allDone {
		g.finish()
	}
}

func (g *TweenGroup) finish() {
	g.Done = true
	if g.target != nil {
		g.target.Detach(g)
	}
	if g.OnDone != nil {
		g.OnDone()
	}
}

// Update advances the group by the frame delta.
func (g *TweenGroup) Update(ctx *FrameContext) {
	g.Advance(float32(ctx.Delta))
}

// Attached records the node the group was attached to.
func (g *TweenGroup) Attached(n *Node) { g.target = n }

// Reset rewinds every tween to its start value and clears Done.
func (g *TweenGroup) Reset() {
	for i := 0; i < g.count; i++ {
		g.tweens[i].Reset()
	}
	g.Done = false
}

func newTweenGroup(node *Node, duration float32, fn ease.TweenFunc, pairs ...*float64) *TweenGroup {
	if fn == nil {
		fn = ease.Linear
	}
	g := &TweenGroup{target: node, count: len(pairs) / 2}
	for i := 0; i < g.count; i++ {
		field, to := pairs[2*i], pairs[2*i+1]
		g.tweens[i] = gween.New(float32(*field), float32(*to), duration, fn)
		g.fields[i] = field
	}
	return g
}

// TweenPosition creates a TweenGroup that animates node.X and node.Y to the
// given target coordinates over the specified duration using the easing function.
func TweenPosition(node *Node, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node, duration, fn, &node.X, &toX, &node.Y, &toY)
}

// TweenScale creates a TweenGroup that animates node.ScaleX and node.ScaleY.
func TweenScale(node *Node, toSX, toSY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node, duration, fn, &node.ScaleX, &toSX, &node.ScaleY, &toSY)
}

// TweenAlpha creates a TweenGroup that animates node.Alpha.
func TweenAlpha(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node, duration, fn, &node.Alpha, &to)
}

// TweenRotation creates a TweenGroup that animates node.Rotation (degrees).
func TweenRotation(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node, duration, fn, &node.Rotation, &to)
}
