package FE2D

import (
	"math"

	"github.com/quadfem/fequad/geometry2D"
	"github.com/quadfem/fequad/utils"
	"gonum.org/v1/gonum/mat"
)

// QuadratureRule is an ordered set of physical space sample points with
// Jacobian scaled weights, ready to hand to the element fill calls.
type QuadratureRule struct {
	Points  []geometry2D.Point
	Weights []float64
}

func (q QuadratureRule) NQ() int {
	return len(q.Points)
}

// GaussLegendre returns the n point Gauss Legendre rule on [-1,1] via the
// Golub-Welsch eigenvalue decomposition of the Jacobi matrix.
func GaussLegendre(n int) (X, W utils.Vector) {
	var (
		x = make([]float64, n)
		w = make([]float64, n)
	)
	if n < 1 {
		panic("GaussLegendre: need at least one point")
	}
	if n == 1 {
		x[0] = 0.
		w[0] = 2.
		return utils.NewVector(n, x), utils.NewVector(n, w)
	}

	// symmetric tridiagonal Jacobi matrix: zero diagonal, off diagonal
	// b_i = i/sqrt(4i^2-1)
	data := make([]float64, 2*n)
	for i := 1; i < n; i++ {
		fi := float64(i)
		data[2*(i-1)+1] = fi / math.Sqrt(4.*fi*fi-1.)
	}
	JJ := mat.NewSymBandDense(n, 1, data)

	var eig mat.EigenSym
	if ok := eig.Factorize(JJ, true); !ok {
		panic("GaussLegendre: eigen decomposition failed")
	}
	var EV mat.Dense
	eig.VectorsTo(&EV)
	copy(x, eig.Values(nil))
	for j := 0; j < n; j++ {
		v0 := EV.At(0, j)
		w[j] = 2. * v0 * v0
	}
	return utils.NewVector(n, x), utils.NewVector(n, w)
}

// CellRule maps the n x n tensor product Gauss rule onto cell through the
// bilinear map of its four vertices, returning physical points and JxW
// weights.
func CellRule(cell geometry2D.Quad, n int) (q QuadratureRule) {
	var (
		X, W = GaussLegendre(n)
		xd   = X.Data()
		wd   = W.Data()
	)
	q.Points = make([]geometry2D.Point, 0, n*n)
	q.Weights = make([]float64, 0, n*n)
	for j := 0; j < n; j++ {
		eta := 0.5 * (xd[j] + 1.)
		for i := 0; i < n; i++ {
			xi := 0.5 * (xd[i] + 1.)
			q.Points = append(q.Points, bilinearMap(cell, xi, eta))
			// reference cell is [0,1]^2, so each Gauss weight picks up 1/2
			q.Weights = append(q.Weights, 0.25*wd[i]*wd[j]*bilinearJacobian(cell, xi, eta))
		}
	}
	return
}

// EdgeRule maps the n point Gauss rule onto face of cell, weighted by half
// the segment length.
func EdgeRule(cell geometry2D.Quad, face, n int) (q QuadratureRule) {
	verts := geometry2D.FaceVertices(face)
	return segmentRule(cell.V[verts[0]], cell.V[verts[1]], n)
}

// SubEdgeRule maps the n point Gauss rule onto one refined child of face:
// child 0 runs from the face start vertex to the face midpoint, child 1 from
// the midpoint to the end vertex.
func SubEdgeRule(cell geometry2D.Quad, face, child, n int) (q QuadratureRule) {
	verts := geometry2D.FaceVertices(face)
	var (
		a = cell.V[verts[0]]
		b = cell.V[verts[1]]
		m = geometry2D.Mid(a, b)
	)
	switch child {
	case 0:
		return segmentRule(a, m, n)
	case 1:
		return segmentRule(m, b, n)
	default:
		panic("sub face number out of range")
	}
}

func segmentRule(a, b geometry2D.Point, n int) (q QuadratureRule) {
	var (
		X, W = GaussLegendre(n)
		xd   = X.Data()
		wd   = W.Data()
		dx   = b.X[0] - a.X[0]
		dy   = b.X[1] - a.X[1]
		half = 0.5 * math.Sqrt(dx*dx+dy*dy)
	)
	q.Points = make([]geometry2D.Point, n)
	q.Weights = make([]float64, n)
	for i := 0; i < n; i++ {
		t := 0.5 * (xd[i] + 1.)
		q.Points[i] = geometry2D.NewPoint(a.X[0]+t*dx, a.X[1]+t*dy)
		q.Weights[i] = half * wd[i]
	}
	return
}

// bilinearMap evaluates the standard bilinear map of the four vertices at
// reference coordinates (xi,eta) in [0,1]^2, honoring the mesh vertex
// ordering (bottom left, bottom right, top left, top right).
func bilinearMap(cell geometry2D.Quad, xi, eta float64) (p geometry2D.Point) {
	var (
		phi = [4]float64{
			(1. - xi) * (1. - eta),
			xi * (1. - eta),
			(1. - xi) * eta,
			xi * eta,
		}
	)
	for k := 0; k < 4; k++ {
		p.X[0] += phi[k] * cell.V[k].X[0]
		p.X[1] += phi[k] * cell.V[k].X[1]
	}
	return
}

func bilinearJacobian(cell geometry2D.Quad, xi, eta float64) float64 {
	var (
		dphiDxi  = [4]float64{-(1. - eta), 1. - eta, -eta, eta}
		dphiDeta = [4]float64{-(1. - xi), -xi, 1. - xi, xi}

		xXi, yXi, xEta, yEta float64
	)
	for k := 0; k < 4; k++ {
		xXi += dphiDxi[k] * cell.V[k].X[0]
		yXi += dphiDxi[k] * cell.V[k].X[1]
		xEta += dphiDeta[k] * cell.V[k].X[0]
		yEta += dphiDeta[k] * cell.V[k].X[1]
	}
	return math.Abs(xXi*yEta - xEta*yXi)
}
