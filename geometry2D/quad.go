package geometry2D

type Point struct {
	X [2]float64
}

func NewPoint(x, y float64) (p Point) {
	p.X[0] = x
	p.X[1] = y
	return
}

func Mid(a, b Point) (m Point) {
	m.X[0] = 0.5 * (a.X[0] + b.X[0])
	m.X[1] = 0.5 * (a.X[1] + b.X[1])
	return
}

// Quad is a convex quadrilateral cell. Vertex ordering follows the owning
// mesh convention: 0 = bottom left, 1 = bottom right, 2 = top left,
// 3 = top right.
type Quad struct {
	V [4]Point
}

func NewQuad(v0, v1, v2, v3 Point) (q Quad) {
	q.V = [4]Point{v0, v1, v2, v3}
	return
}

// EdgeMidpoints returns the midpoints of the two vertical edges (v0-v2,
// v1-v3) followed by the two horizontal edges (v0-v1, v2-v3).
func (q Quad) EdgeMidpoints() (mpt [4]Point) {
	mpt[0] = Mid(q.V[0], q.V[2])
	mpt[1] = Mid(q.V[1], q.V[3])
	mpt[2] = Mid(q.V[0], q.V[1])
	mpt[3] = Mid(q.V[2], q.V[3])
	return
}

// Centroid is the average of the four edge midpoints.
func (q Quad) Centroid() (cpt Point) {
	mpt := q.EdgeMidpoints()
	cpt.X[0] = (mpt[0].X[0] + mpt[1].X[0] + mpt[2].X[0] + mpt[3].X[0]) * 0.25
	cpt.X[1] = (mpt[0].X[1] + mpt[1].X[1] + mpt[2].X[1] + mpt[3].X[1]) * 0.25
	return
}

// FaceVertices returns the endpoint vertex indices of face f. Face numbering
// is left, right, bottom, top.
func FaceVertices(f int) (verts [2]int) {
	switch f {
	case 0:
		verts = [2]int{0, 2}
	case 1:
		verts = [2]int{1, 3}
	case 2:
		verts = [2]int{0, 1}
	case 3:
		verts = [2]int{2, 3}
	default:
		panic("face number out of range")
	}
	return
}
