package Poisson2D

import (
	"github.com/quadfem/fequad/geometry2D"
)

// HangingNode ties a midpoint DOF on a refined edge to the two endpoint DOFs
// of the unrefined neighbor. The interpolation weights come from the
// element's constraint table.
type HangingNode struct {
	Slave   int
	Masters [2]int
}

// Mesh is a quadrilateral mesh with one scalar DOF per vertex. Cells store
// vertex indices in the element ordering (bottom left, bottom right, top
// left, top right).
type Mesh struct {
	Verts       []geometry2D.Point
	EToV        [][4]int
	IsBoundary  []bool
	Constraints []HangingNode
}

func (msh *Mesh) NVerts() int {
	return len(msh.Verts)
}

func (msh *Mesh) NCells() int {
	return len(msh.EToV)
}

func (msh *Mesh) Quad(k int) (q geometry2D.Quad) {
	ev := msh.EToV[k]
	return geometry2D.NewQuad(msh.Verts[ev[0]], msh.Verts[ev[1]], msh.Verts[ev[2]], msh.Verts[ev[3]])
}

// NewCartesianMesh builds a conforming nx x ny mesh of the unit square.
func NewCartesianMesh(nx, ny int) (msh *Mesh) {
	var (
		hx = 1. / float64(nx)
		hy = 1. / float64(ny)
	)
	msh = &Mesh{}
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			msh.Verts = append(msh.Verts, geometry2D.NewPoint(float64(i)*hx, float64(j)*hy))
			msh.IsBoundary = append(msh.IsBoundary, i == 0 || i == nx || j == 0 || j == ny)
		}
	}
	vid := func(i, j int) int { return j*(nx+1) + i }
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			msh.EToV = append(msh.EToV, [4]int{vid(i, j), vid(i+1, j), vid(i, j+1), vid(i+1, j+1)})
		}
	}
	return
}

// NewHangingNodeMesh builds the smallest mesh with a refinement interface:
// [0,2]x[0,1] with one coarse cell on the left half and a 2x2 block of fine
// cells on the right half. The fine vertex at (1,0.5) hangs on the coarse
// edge from (1,0) to (1,1).
func NewHangingNodeMesh() (msh *Mesh) {
	msh = &Mesh{
		Verts: []geometry2D.Point{
			geometry2D.NewPoint(0., 0.),    // 0
			geometry2D.NewPoint(1., 0.),    // 1
			geometry2D.NewPoint(1.5, 0.),   // 2
			geometry2D.NewPoint(2., 0.),    // 3
			geometry2D.NewPoint(1., 0.5),   // 4, hanging
			geometry2D.NewPoint(1.5, 0.5),  // 5
			geometry2D.NewPoint(2., 0.5),   // 6
			geometry2D.NewPoint(0., 1.),    // 7
			geometry2D.NewPoint(1., 1.),    // 8
			geometry2D.NewPoint(1.5, 1.),   // 9
			geometry2D.NewPoint(2., 1.),    // 10
		},
		EToV: [][4]int{
			{0, 1, 7, 8},  // coarse
			{1, 2, 4, 5},  // fine, bottom left
			{2, 3, 5, 6},  // fine, bottom right
			{4, 5, 8, 9},  // fine, top left
			{5, 6, 9, 10}, // fine, top right
		},
		Constraints: []HangingNode{
			{Slave: 4, Masters: [2]int{1, 8}},
		},
	}
	msh.IsBoundary = make([]bool, len(msh.Verts))
	for i, p := range msh.Verts {
		x, y := p.X[0], p.X[1]
		msh.IsBoundary[i] = x == 0. || x == 2. || y == 0. || y == 1.
	}
	return
}
