package arbor

// SetVisible shows or hides the node.
func (n *Node) SetVisible(v bool) {
	n.Visible = v
}

// Show makes the node visible.
func (n *Node) Show() { n.Visible = true }

// Hide makes the node invisible. An invisible node that is also not
// interactive costs nothing per frame in the render pass.
func (n *Node) Hide() { n.Visible = false }

// SetAlpha sets the node's opacity. Values are not clamped here; a negative
// alpha composes to a world alpha of 0.
func (n *Node) SetAlpha(a float64) {
	n.Alpha = a
}

// SetBlendMode sets the compositing operation used when drawing the node.
func (n *Node) SetBlendMode(b BlendMode) {
	n.BlendMode = b
}

// RecomputeWorldAlpha composes Alpha with the parent's cached world alpha.
func (n *Node) RecomputeWorldAlpha() {
	if n.Alpha < 0 {
		n.worldAlpha = 0
		return
	}
	if n.parent == nil {
		n.worldAlpha = n.Alpha
		return
	}
	n.worldAlpha = n.parent.worldAlpha * n.Alpha
}

// WorldAlpha returns the cached world alpha.
func (n *Node) WorldAlpha() float64 {
	return n.worldAlpha
}

// recompose refreshes both cached world values.
func (n *Node) recompose() {
	n.RecomputeWorldMatrix()
	n.RecomputeWorldAlpha()
}
