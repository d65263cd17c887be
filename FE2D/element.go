package FE2D

import (
	"github.com/quadfem/fequad/geometry2D"
	"github.com/quadfem/fequad/utils"
)

// FiniteElement2D is the capability contract shared by scalar element types
// on two dimensional meshes. Other element kinds are sibling implementations
// of this interface, not subtypes of each other.
type FiniteElement2D interface {
	Name() string
	// DofsPerObject declares the DOF layout per mesh entity kind
	// (vertex, edge, interior).
	DofsPerObject() (vertex, edge, interior int)
	NDofs() int
	// RequiresUpdateFlags closes a requested flag set over the element's
	// dependency table. It is idempotent and never adds result flags that
	// were not requested.
	RequiresUpdateFlags(requested UpdateFlags) UpdateFlags
	NewEvalData(requested UpdateFlags, nQ int) *EvalData
	FillValues(cell geometry2D.Quad, qp []geometry2D.Point, data *EvalData, out *EvalOutput) error
	FillFaceValues(cell geometry2D.Quad, face int, qp []geometry2D.Point, data *EvalData, out *EvalOutput) error
	FillSubFaceValues(cell geometry2D.Quad, face, subFace int, qp []geometry2D.Point, data *EvalData, out *EvalOutput) error
	// ConstraintTable is the hanging node interpolation table, read only.
	ConstraintTable() utils.Matrix
	Clone() FiniteElement2D
}

// EvalData carries the per-context state of an evaluation: the resolved
// flag set and the precomputed zero Hessian block. It is created once per
// quadrature layout and reused across cells.
type EvalData struct {
	UpdateEach UpdateFlags
	NQ         int

	shapeHessians utils.Matrix // 4 x nQ zero block, shared by all cells
}

// EvalOutput holds the caller owned output buffers, each sized
// NDofs x len(qp) before the call. Gradient and Hessian tensors are stored
// one component per matrix.
type EvalOutput struct {
	Values         utils.Matrix
	GradX, GradY   utils.Matrix
	HessXX, HessXY utils.Matrix
	HessYY         utils.Matrix
}

// NewEvalOutput allocates all component buffers for nDofs x nQ. Callers that
// manage their own storage can fill the struct directly instead.
func NewEvalOutput(nDofs, nQ int) *EvalOutput {
	return &EvalOutput{
		Values: utils.NewMatrix(nDofs, nQ),
		GradX:  utils.NewMatrix(nDofs, nQ),
		GradY:  utils.NewMatrix(nDofs, nQ),
		HessXX: utils.NewMatrix(nDofs, nQ),
		HessXY: utils.NewMatrix(nDofs, nQ),
		HessYY: utils.NewMatrix(nDofs, nQ),
	}
}
