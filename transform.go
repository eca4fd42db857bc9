package arbor

import "math"

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// IdentityTransform returns the identity affine matrix [1, 0, 0, 1, 0, 0].
func IdentityTransform() [6]float64 {
	return identityTransform
}

// refreshRotation recomputes the cached sine and cosine when Rotation has
// changed since the last call.
func (n *Node) refreshRotation() {
	if n.rotationCached && n.cachedRotation == n.Rotation {
		return
	}
	n.cachedRotation = n.Rotation
	n.rotationCached = true
	n.sin, n.cos = math.Sincos(n.Rotation * (math.Pi / 180))
}

// computeLocalTransform computes the local affine matrix from the node's
// transform properties. Returns [a, b, c, d, tx, ty].
//
// Composition order:
//
//	Scale -> Rotate -> Translate(X, Y)
//
// The origin is not part of the matrix; it only shifts the node's bounds
// (hit testing) and where behaviors draw relative to (0, 0).
func computeLocalTransform(n *Node) [6]float64 {
	n.refreshRotation()
	return [6]float64{
		n.cos * n.ScaleX,
		n.sin * n.ScaleX,
		-n.sin * n.ScaleY,
		n.cos * n.ScaleY,
		n.X,
		n.Y,
	}
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular (determinant ≈ 0).
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// parentWorld returns the parent's cached world matrix, or identity when
// there is no parent or the parent has never been composed.
func (n *Node) parentWorld() [6]float64 {
	if n.parent == nil || !n.parent.hasWorld {
		return identityTransform
	}
	return n.parent.worldTransform
}

// RecomputeWorldMatrix rebuilds the local matrix and composes it with the
// parent's cached world matrix. Passes call it top-down, so the parent's
// cache is always from the same pass.
func (n *Node) RecomputeWorldMatrix() {
	n.localTransform = computeLocalTransform(n)
	n.worldTransform = multiplyAffine(n.parentWorld(), n.localTransform)
	n.hasWorld = true
}

// LocalTransform returns the local matrix computed by the last recompose.
func (n *Node) LocalTransform() [6]float64 {
	return n.localTransform
}

// WorldTransform returns the cached world matrix.
func (n *Node) WorldTransform() [6]float64 {
	return n.worldTransform
}

// HasWorldTransform reports whether the world matrix has been computed.
func (n *Node) HasWorldTransform() bool {
	return n.hasWorld
}

// --- Transform property setters ---

// SetPosition sets the node's local X and Y.
func (n *Node) SetPosition(x, y float64) {
	n.X = x
	n.Y = y
}

// MoveBy offsets the node's position.
func (n *Node) MoveBy(dx, dy float64) {
	n.X += dx
	n.Y += dy
}

// SetScale sets ScaleX and ScaleY.
func (n *Node) SetScale(sx, sy float64) {
	n.ScaleX = sx
	n.ScaleY = sy
}

// SetRotation sets the node's rotation in degrees.
func (n *Node) SetRotation(deg float64) {
	n.Rotation = deg
}

// SetOrigin sets the normalized pivot (0..1 on each axis).
func (n *Node) SetOrigin(ox, oy float64) {
	n.OriginX = ox
	n.OriginY = oy
}

// --- Bounds ---

// SetSize sets the rectangle dimensions.
func (n *Node) SetSize(w, h float64) {
	n.width = w
	n.height = h
}

// SetWidth sets the rectangle width.
func (n *Node) SetWidth(w float64) { n.width = w }

// SetHeight sets the rectangle height.
func (n *Node) SetHeight(h float64) { n.height = h }

// SetRadius sets the circle radius and the diameter used as width and height
// for non-rectangular shapes.
func (n *Node) SetRadius(r float64) {
	n.radius = r
	n.diameter = r * 2
}

// SetBoundingShape selects the hit-test geometry.
func (n *Node) SetBoundingShape(s BoundingShape) {
	n.Shape = s
}

// SetInteractive enables or disables pointer reconciliation for the node
// and optionally changes its bounding shape.
func (n *Node) SetInteractive(flag bool, shape ...BoundingShape) {
	n.Interactive = flag
	if len(shape) > 0 {
		n.Shape = shape[0]
	}
}

// Width returns the stored width for rectangles and the diameter otherwise.
func (n *Node) Width() float64 {
	if n.Shape == ShapeRect {
		return n.width
	}
	return n.diameter
}

// Height returns the stored height for rectangles and the diameter otherwise.
func (n *Node) Height() float64 {
	if n.Shape == ShapeRect {
		return n.height
	}
	return n.diameter
}

// Radius returns the stored radius for circles; for rectangles it is the
// average half-extent (w+h)/4.
func (n *Node) Radius() float64 {
	if n.Shape == ShapeRect {
		return (n.width + n.height) / 4
	}
	return n.radius
}

// Left returns the x of the left edge in the parent's frame. The edge
// properties ignore rotation and scale.
func (n *Node) Left() float64 { return n.X - n.Width()*n.OriginX }

// Right returns the x of the right edge in the parent's frame.
func (n *Node) Right() float64 { return n.X + n.Width()*(1-n.OriginX) }

// Top returns the y of the top edge in the parent's frame.
func (n *Node) Top() float64 { return n.Y - n.Height()*n.OriginY }

// Bottom returns the y of the bottom edge in the parent's frame.
func (n *Node) Bottom() float64 { return n.Y + n.Height()*(1-n.OriginY) }

// CenterX returns the x of the bounds' center.
func (n *Node) CenterX() float64 { return n.X + n.Width()/2 - n.Width()*n.OriginX }

// CenterY returns the y of the bounds' center.
func (n *Node) CenterY() float64 { return n.Y + n.Height()/2 - n.Height()*n.OriginY }

// SetLeft moves the node so its left edge is at v.
func (n *Node) SetLeft(v float64) { n.X = v + n.Width()*n.OriginX }

// SetRight moves the node so its right edge is at v.
func (n *Node) SetRight(v float64) { n.X = v - n.Width()*(1-n.OriginX) }

// SetTop moves the node so its top edge is at v.
func (n *Node) SetTop(v float64) { n.Y = v + n.Height()*n.OriginY }

// SetBottom moves the node so its bottom edge is at v.
func (n *Node) SetBottom(v float64) { n.Y = v - n.Height()*(1-n.OriginY) }

// --- Hit testing ---

// HitTest reports whether the root-space point (x, y) falls inside the
// node's bounding shape. The point is mapped into local space through the
// inverse of the cached world matrix, so the matrix must have been composed
// this frame (the frame passes do that before hit-testing). Both bounds are
// exclusive; ShapeNone always hits.
func (n *Node) HitTest(x, y float64) bool {
	switch n.Shape {
	case ShapeRect:
		lx, ly := n.WorldToLocal(x, y)
		w, h := n.width, n.height
		left := -w * n.OriginX
		right := w * (1 - n.OriginX)
		top := -h * n.OriginY
		bottom := h * (1 - n.OriginY)
		return left < lx && lx < right && top < ly && ly < bottom
	case ShapeCircle:
		lx, ly := n.WorldToLocal(x, y)
		return lx*lx+ly*ly < n.radius*n.radius
	default:
		return true
	}
}

// HitTestNode reports whether the axis-aligned bounds of n and other
// overlap, using Left/Top/Right/Bottom. Touching edges do not overlap.
func (n *Node) HitTestNode(other *Node) bool {
	return n.Left() < other.Right() && n.Right() > other.Left() &&
		n.Top() < other.Bottom() && n.Bottom() > other.Top()
}

// --- Coordinate conversion ---

// WorldToLocal converts a root-space point to this node's local coordinate space.
func (n *Node) WorldToLocal(wx, wy float64) (lx, ly float64) {
	inv := invertAffine(n.worldTransform)
	return transformPoint(inv, wx, wy)
}

// LocalToWorld converts a local-space point to root space.
func (n *Node) LocalToWorld(lx, ly float64) (wx, wy float64) {
	return transformPoint(n.worldTransform, lx, ly)
}
