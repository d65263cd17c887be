package FE2D

import (
	"errors"
	"math"
	"testing"

	"github.com/quadfem/fequad/geometry2D"

	"github.com/stretchr/testify/assert"
)

func unitSquare() geometry2D.Quad {
	return geometry2D.NewQuad(
		geometry2D.NewPoint(0, 0),
		geometry2D.NewPoint(1, 0),
		geometry2D.NewPoint(0, 1),
		geometry2D.NewPoint(1, 1),
	)
}

func skewedQuad() geometry2D.Quad {
	return geometry2D.NewQuad(
		geometry2D.NewPoint(0, 0),
		geometry2D.NewPoint(2, 0.2),
		geometry2D.NewPoint(-0.3, 1.5),
		geometry2D.NewPoint(2.2, 1.9),
	)
}

func TestP1NCUnitSquareCoefficients(t *testing.T) {
	coeffs, err := LinearShapeCoefficients(unitSquare())
	assert.NoError(t, err)
	// N0 = -0.5x - 0.5y + 0.75, N1 = 0.5x - 0.5y + 0.25,
	// N2 = -0.5x + 0.5y + 0.25, N3 = 0.5x + 0.5y - 0.25
	assert.True(t, nearVec([]float64{-0.5, -0.5, 0.75}, []float64{coeffs[0].A, coeffs[0].B, coeffs[0].C}, 1.e-12))
	assert.True(t, nearVec([]float64{0.5, -0.5, 0.25}, []float64{coeffs[1].A, coeffs[1].B, coeffs[1].C}, 1.e-12))
	assert.True(t, nearVec([]float64{-0.5, 0.5, 0.25}, []float64{coeffs[2].A, coeffs[2].B, coeffs[2].C}, 1.e-12))
	assert.True(t, nearVec([]float64{0.5, 0.5, -0.25}, []float64{coeffs[3].A, coeffs[3].B, coeffs[3].C}, 1.e-12))
}

func TestPartitionOfUnity(t *testing.T) {
	// the four shape functions sum to 1 everywhere in the plane, not just
	// inside the cell
	for _, cell := range []geometry2D.Quad{unitSquare(), skewedQuad()} {
		coeffs, err := LinearShapeCoefficients(cell)
		assert.NoError(t, err)
		for _, pt := range []geometry2D.Point{
			geometry2D.NewPoint(0.3, 0.7),
			geometry2D.NewPoint(-2, 5),
			geometry2D.NewPoint(10, -3),
			cell.Centroid(),
		} {
			var sum float64
			for k := 0; k < NDofsPerCell; k++ {
				sum += coeffs[k].A*pt.X[0] + coeffs[k].B*pt.X[1] + coeffs[k].C
			}
			assert.True(t, near(1., sum, 1.e-12))
		}
		// the linear parts of a partition of unity cancel
		var sumA, sumB float64
		for k := 0; k < NDofsPerCell; k++ {
			sumA += coeffs[k].A
			sumB += coeffs[k].B
		}
		assert.True(t, near(0., sumA, 1.e-12))
		assert.True(t, near(0., sumB, 1.e-12))
	}
}

func TestCentroidValue(t *testing.T) {
	for _, cell := range []geometry2D.Quad{unitSquare(), skewedQuad()} {
		coeffs, err := LinearShapeCoefficients(cell)
		assert.NoError(t, err)
		cpt := cell.Centroid()
		for k := 0; k < NDofsPerCell; k++ {
			val := coeffs[k].A*cpt.X[0] + coeffs[k].B*cpt.X[1] + coeffs[k].C
			assert.True(t, near(0.25, val, 1.e-12))
		}
	}
}

func TestFillValues(t *testing.T) {
	var (
		el   = NewP1NC()
		cell = unitSquare()
		qp   = []geometry2D.Point{
			geometry2D.NewPoint(0.5, 0.5),
			geometry2D.NewPoint(0.2, 0.8),
			geometry2D.NewPoint(1.5, -0.5),
		}
		data = el.NewEvalData(UpdateValues|UpdateGradients|UpdateHessians, len(qp))
		out  = NewEvalOutput(el.NDofs(), len(qp))
	)
	assert.NoError(t, el.FillValues(cell, qp, data, out))

	// value 0.25 for every shape function at the centroid
	assert.True(t, nearVec([]float64{0.25, 0.25, 0.25, 0.25}, out.Values.Col(0).Data(), 1.e-12))
	// unit square gradients
	assert.True(t, nearVec([]float64{-0.5, 0.5, -0.5, 0.5}, out.GradX.Col(0).Data(), 1.e-12))
	assert.True(t, nearVec([]float64{-0.5, -0.5, 0.5, 0.5}, out.GradY.Col(0).Data(), 1.e-12))

	for i := range qp {
		// gradients are constant per cell across all quadrature points
		assert.True(t, nearVec(out.GradX.Col(0).Data(), out.GradX.Col(i).Data(), 1.e-15))
		assert.True(t, nearVec(out.GradY.Col(0).Data(), out.GradY.Col(i).Data(), 1.e-15))
		for k := 0; k < el.NDofs(); k++ {
			// second derivatives of an affine basis are identically zero
			assert.Equal(t, 0., out.HessXX.At(k, i))
			assert.Equal(t, 0., out.HessXY.At(k, i))
			assert.Equal(t, 0., out.HessYY.At(k, i))
		}
	}
}

func TestFaceMatchesInterior(t *testing.T) {
	// face and sub face evaluation run the same affine rule as interior
	// evaluation, so values at the same physical point must agree
	var (
		el   = NewP1NC()
		cell = skewedQuad()
	)
	for face := 0; face < 4; face++ {
		var (
			rule    = EdgeRule(cell, face, 3)
			data    = el.NewEvalData(UpdateValues|UpdateGradients, rule.NQ())
			faceOut = NewEvalOutput(el.NDofs(), rule.NQ())
			intOut  = NewEvalOutput(el.NDofs(), rule.NQ())
		)
		assert.NoError(t, el.FillFaceValues(cell, face, rule.Points, data, faceOut))
		assert.NoError(t, el.FillValues(cell, rule.Points, data, intOut))
		assert.True(t, nearVec(intOut.Values.Data(), faceOut.Values.Data(), 1.e-14))
		assert.True(t, nearVec(intOut.GradX.Data(), faceOut.GradX.Data(), 1.e-14))

		for child := 0; child < 2; child++ {
			var (
				subRule = SubEdgeRule(cell, face, child, 3)
				subOut  = NewEvalOutput(el.NDofs(), subRule.NQ())
				refOut  = NewEvalOutput(el.NDofs(), subRule.NQ())
				subData = el.NewEvalData(UpdateValues, subRule.NQ())
			)
			assert.NoError(t, el.FillSubFaceValues(cell, face, child, subRule.Points, subData, subOut))
			assert.NoError(t, el.FillValues(cell, subRule.Points, subData, refOut))
			assert.True(t, nearVec(refOut.Values.Data(), subOut.Values.Data(), 1.e-14))
		}
	}
}

func TestDegenerateCell(t *testing.T) {
	// four collinear vertices: the reference implementation would divide by
	// zero here and produce NaN coefficients; this implementation guards the
	// determinant instead
	cell := geometry2D.NewQuad(
		geometry2D.NewPoint(0, 0),
		geometry2D.NewPoint(1, 1),
		geometry2D.NewPoint(2, 2),
		geometry2D.NewPoint(3, 3),
	)
	coeffs, err := LinearShapeCoefficients(cell)
	assert.Error(t, err)
	var dce *DegenerateCellError
	assert.True(t, errors.As(err, &dce))
	for k := 0; k < NDofsPerCell; k++ {
		assert.False(t, math.IsNaN(coeffs[k].A) || math.IsInf(coeffs[k].A, 0))
	}

	el := NewP1NC()
	data := el.NewEvalData(UpdateValues, 1)
	out := NewEvalOutput(el.NDofs(), 1)
	err = el.FillValues(cell, []geometry2D.Point{geometry2D.NewPoint(0, 0)}, data, out)
	assert.True(t, errors.As(err, &dce))
}

func TestBufferSizeMismatch(t *testing.T) {
	var (
		el   = NewP1NC()
		cell = unitSquare()
		qp   = []geometry2D.Point{geometry2D.NewPoint(0.5, 0.5), geometry2D.NewPoint(0.1, 0.1)}
		data = el.NewEvalData(UpdateValues, len(qp))
	)
	out := NewEvalOutput(el.NDofs(), 5) // wrong quadrature count
	err := el.FillValues(cell, qp, data, out)
	var bse *BufferSizeMismatchError
	assert.True(t, errors.As(err, &bse))
	assert.Equal(t, "Values", bse.Name)

	// unallocated buffer
	err = el.FillValues(cell, qp, data, &EvalOutput{})
	assert.True(t, errors.As(err, &bse))
}

func TestRequiresUpdateFlags(t *testing.T) {
	el := NewP1NC()

	// values need physical quadrature points to evaluate the affine formula
	assert.Equal(t, UpdateValues|UpdateQuadraturePoints, el.RequiresUpdateFlags(UpdateValues))
	// gradients are constant per cell and need nothing extra
	assert.Equal(t, UpdateGradients, el.RequiresUpdateFlags(UpdateGradients))
	// cell normals need Jacobian weights
	assert.Equal(t, UpdateNormalVectors|UpdateJxWValues, el.RequiresUpdateFlags(UpdateNormalVectors))
	assert.Equal(t, UpdateHessians, el.RequiresUpdateFlags(UpdateHessians))
	assert.Equal(t, UpdateDefault, el.RequiresUpdateFlags(UpdateDefault))
	// flags outside the table pass through unchanged
	assert.Equal(t, UpdateJxWValues, el.RequiresUpdateFlags(UpdateJxWValues))

	// idempotent closure
	for _, f := range []UpdateFlags{
		UpdateValues,
		UpdateValues | UpdateGradients | UpdateHessians,
		UpdateNormalVectors,
		UpdateQuadraturePoints | UpdateGradients,
	} {
		once := el.RequiresUpdateFlags(f)
		assert.Equal(t, once, el.RequiresUpdateFlags(once))
	}
}

func TestConstraintTable(t *testing.T) {
	el := NewP1NC()
	C := el.ConstraintTable()
	nr, nc := C.Dims()
	assert.Equal(t, 1, nr)
	assert.Equal(t, 2, nc)
	assert.True(t, nearVec([]float64{0.5, 0.5}, C.Data(), 0.))
	// the table is immutable after construction
	assert.Panics(t, func() { C.Set(0, 0, 1.) })
}

func TestDescriptor(t *testing.T) {
	el := NewP1NC()
	assert.Equal(t, "FE_P1NC", el.Name())
	v, e, i := el.DofsPerObject()
	assert.Equal(t, 1, v)
	assert.Equal(t, 0, e)
	assert.Equal(t, 0, i)
	assert.Equal(t, 4, el.NDofs())
}

func TestClone(t *testing.T) {
	var (
		el = NewP1NC()
		cl = el.Clone()
	)
	assert.Equal(t, el.Name(), cl.Name())
	assert.True(t, nearVec(el.ConstraintTable().Data(), cl.ConstraintTable().Data(), 0.))
	// no shared mutable state: the clone's table is a separate allocation
	assert.NotSame(t, el.ConstraintTable().M, cl.ConstraintTable().M)
}

func nearVec(a, b []float64, tol float64) (l bool) {
	if len(a) != len(b) {
		return false
	}
	for i, val := range a {
		if !near(b[i], val, tol) {
			return false
		}
	}
	return true
}

func near(a, b float64, tolI ...float64) (l bool) {
	var (
		tol = 1.e-08
	)
	if len(tolI) != 0 {
		tol = tolI[0]
	}
	bound := math.Max(tol, tol*math.Abs(a))
	if math.Abs(a-b) <= bound {
		l = true
	}
	return
}
