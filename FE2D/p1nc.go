package FE2D

import (
	"math"

	"github.com/quadfem/fequad/geometry2D"
	"github.com/quadfem/fequad/utils"
)

const (
	// NDofsPerCell is fixed for this element: one scalar DOF per vertex.
	NDofsPerCell = 4

	// DegeneracyTol is the relative threshold below which the edge midpoint
	// determinant is treated as zero.
	DegeneracyTol = 1.e-14
)

// ShapeCoeffs defines one affine shape function N(x,y) = A*x + B*y + C.
type ShapeCoeffs struct {
	A, B, C float64
}

/*
P1NC implements the P1 nonconforming element on quadrilateral cells: four
affine shape functions per cell, derived from the cell's edge midpoints so
that each function takes the value 0.25 at the centroid and the four sum to
the constant 1 everywhere in the plane. Continuity across cell boundaries
holds only at edge midpoints, which is what makes the element nonconforming.

Shape coefficients are recomputed per cell on every fill call; the only
state shared across cells is the interface constraint table and the zero
Hessian block held by EvalData, both immutable after construction, so
concurrent evaluation of different cells with separate output buffers needs
no synchronization.
*/
type P1NC struct {
	interfaceConstraints  utils.Matrix
	unitFaceSupportPoints [2]float64
}

func NewP1NC() (el *P1NC) {
	el = &P1NC{
		// face support points: the 2 end vertices of the unit face
		unitFaceSupportPoints: [2]float64{0., 1.},
	}
	el.initializeConstraints()
	return
}

func (el *P1NC) Name() string {
	return "FE_P1NC"
}

func (el *P1NC) DofsPerObject() (vertex, edge, interior int) {
	return 1, 0, 0
}

func (el *P1NC) NDofs() int {
	return NDofsPerCell
}

func (el *P1NC) RequiresUpdateFlags(requested UpdateFlags) (out UpdateFlags) {
	out = UpdateDefault

	if requested.Has(UpdateValues) {
		out |= UpdateValues | UpdateQuadraturePoints
	}
	if requested.Has(UpdateGradients) {
		out |= UpdateGradients
	}
	if requested.Has(UpdateNormalVectors) {
		out |= UpdateNormalVectors | UpdateJxWValues
	}
	if requested.Has(UpdateHessians) {
		out |= UpdateHessians
	}
	// flags outside the dependency table pass through unchanged
	out |= requested & (UpdateQuadraturePoints | UpdateJxWValues)
	return
}

// ConstraintTable exposes the hanging node interpolation table: the midpoint
// DOF introduced when one side of an edge is refined is the average of the
// two endpoint DOFs on the coarse side.
func (el *P1NC) ConstraintTable() utils.Matrix {
	return el.interfaceConstraints
}

func (el *P1NC) Clone() FiniteElement2D {
	return NewP1NC()
}

func (el *P1NC) initializeConstraints() {
	C := utils.NewMatrix(1, 2, []float64{0.5, 0.5})
	el.interfaceConstraints = C.SetReadOnly("interfaceConstraints")
}

// LinearShapeCoefficients derives the four affine coefficient triples of one
// cell from its vertex geometry. The construction runs through the four edge
// midpoints and the centroid: the linear parts solve the 2x2 midpoint
// system, the constant parts pin every shape function to 0.25 at the
// centroid. A DegenerateCellError is returned when the midpoint determinant
// is numerically zero (collinear or self intersecting vertices).
func LinearShapeCoefficients(cell geometry2D.Quad) (coeffs [NDofsPerCell]ShapeCoeffs, err error) {
	var (
		mpt = cell.EdgeMidpoints()
		cpt = cell.Centroid()
		sgX = [NDofsPerCell]float64{0.5, -0.5, 0.5, -0.5}
		sgY = [NDofsPerCell]float64{0.5, 0.5, -0.5, -0.5}
	)
	det := (mpt[0].X[0]-mpt[1].X[0])*(mpt[2].X[1]-mpt[3].X[1]) -
		(mpt[2].X[0]-mpt[3].X[0])*(mpt[0].X[1]-mpt[1].X[1])

	scale := (math.Abs(mpt[0].X[0]-mpt[1].X[0]) + math.Abs(mpt[2].X[0]-mpt[3].X[0])) *
		(math.Abs(mpt[0].X[1]-mpt[1].X[1]) + math.Abs(mpt[2].X[1]-mpt[3].X[1]))
	if math.Abs(det) <= DegeneracyTol*scale {
		err = &DegenerateCellError{Det: det}
		return
	}

	for k := 0; k < NDofsPerCell; k++ {
		coeffs[k].A = ((mpt[2].X[1]-mpt[3].X[1])*sgX[k] - (mpt[0].X[1]-mpt[1].X[1])*sgY[k]) / det
		coeffs[k].B = (-(mpt[2].X[0]-mpt[3].X[0])*sgX[k] + (mpt[0].X[0]-mpt[1].X[0])*sgY[k]) / det
		coeffs[k].C = 0.25 - cpt.X[0]*coeffs[k].A - cpt.X[1]*coeffs[k].B
	}
	return
}

// NewEvalData resolves the requested flags and, when Hessians are needed,
// prepares the zero second derivative block once for nQ quadrature points.
// The zero block does not depend on the cell, so it is the one legitimate
// cross call cache.
func (el *P1NC) NewEvalData(requested UpdateFlags, nQ int) (data *EvalData) {
	data = &EvalData{
		UpdateEach: el.RequiresUpdateFlags(requested),
		NQ:         nQ,
	}
	if data.UpdateEach.Has(UpdateHessians) {
		Z := utils.NewMatrix(NDofsPerCell, nQ)
		data.shapeHessians = Z.SetReadOnly("shapeHessians")
	}
	return
}

// FillValues evaluates the cell basis at interior quadrature points, writing
// into the caller owned buffers of out. qp carries physical coordinates
// already mapped from reference space.
func (el *P1NC) FillValues(cell geometry2D.Quad, qp []geometry2D.Point, data *EvalData, out *EvalOutput) (err error) {
	if err = el.fillShape(cell, qp, data, out); err != nil {
		return
	}
	if data.UpdateEach.Has(UpdateHessians) {
		if len(qp) != data.NQ {
			return &BufferSizeMismatchError{
				Name:  "EvalData.shapeHessians",
				Rows:  NDofsPerCell,
				Cols:  data.NQ,
				WantR: NDofsPerCell,
				WantC: len(qp),
			}
		}
		for _, buf := range []struct {
			name string
			m    utils.Matrix
		}{
			{"HessXX", out.HessXX},
			{"HessXY", out.HessXY},
			{"HessYY", out.HessYY},
		} {
			if err = checkBuffer(buf.name, buf.m, NDofsPerCell, len(qp)); err != nil {
				return
			}
			copy(buf.m.Data(), data.shapeHessians.Data())
		}
	}
	return
}

// FillFaceValues evaluates the cell basis at quadrature points restricted to
// one face. The shape functions are affine, so the evaluation rule is the
// interior one; only the supplied points differ.
func (el *P1NC) FillFaceValues(cell geometry2D.Quad, face int, qp []geometry2D.Point, data *EvalData, out *EvalOutput) error {
	_ = face
	return el.fillShape(cell, qp, data, out)
}

// FillSubFaceValues evaluates the cell basis at quadrature points restricted
// to a refined child of one face.
func (el *P1NC) FillSubFaceValues(cell geometry2D.Quad, face, subFace int, qp []geometry2D.Point, data *EvalData, out *EvalOutput) error {
	_, _ = face, subFace
	return el.fillShape(cell, qp, data, out)
}

func (el *P1NC) fillShape(cell geometry2D.Quad, qp []geometry2D.Point, data *EvalData, out *EvalOutput) (err error) {
	var (
		flags = data.UpdateEach
		nQ    = len(qp)
	)
	if flags.Has(UpdateValues) {
		if err = checkBuffer("Values", out.Values, NDofsPerCell, nQ); err != nil {
			return
		}
	}
	if flags.Has(UpdateGradients) {
		if err = checkBuffer("GradX", out.GradX, NDofsPerCell, nQ); err != nil {
			return
		}
		if err = checkBuffer("GradY", out.GradY, NDofsPerCell, nQ); err != nil {
			return
		}
	}

	coeffs, err := LinearShapeCoefficients(cell)
	if err != nil {
		return
	}

	if flags.Has(UpdateValues | UpdateGradients) {
		for i := 0; i < nQ; i++ {
			for k := 0; k < NDofsPerCell; k++ {
				if flags.Has(UpdateValues) {
					out.Values.Set(k, i, coeffs[k].A*qp[i].X[0]+coeffs[k].B*qp[i].X[1]+coeffs[k].C)
				}
				if flags.Has(UpdateGradients) {
					// constant per cell, independent of the point
					out.GradX.Set(k, i, coeffs[k].A)
					out.GradY.Set(k, i, coeffs[k].B)
				}
			}
		}
	}
	return nil
}

func checkBuffer(name string, m utils.Matrix, wantR, wantC int) error {
	if m.M == nil {
		return &BufferSizeMismatchError{Name: name, WantR: wantR, WantC: wantC}
	}
	nr, nc := m.Dims()
	if nr != wantR || nc != wantC {
		return &BufferSizeMismatchError{Name: name, Rows: nr, Cols: nc, WantR: wantR, WantC: wantC}
	}
	return nil
}
