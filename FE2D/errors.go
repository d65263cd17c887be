package FE2D

import "fmt"

// DegenerateCellError reports a cell whose edge-midpoint determinant is zero
// or numerically indistinguishable from zero, so that no affine basis can be
// derived from it. Retrying cannot help since the geometry is fixed.
type DegenerateCellError struct {
	Det float64
}

func (e *DegenerateCellError) Error() string {
	return fmt.Sprintf("degenerate cell: edge midpoint determinant %v is numerically zero", e.Det)
}

// BufferSizeMismatchError reports a caller-supplied output buffer whose
// dimensions do not match DOF count x quadrature point count.
type BufferSizeMismatchError struct {
	Name         string
	Rows, Cols   int
	WantR, WantC int
}

func (e *BufferSizeMismatchError) Error() string {
	return fmt.Sprintf("output buffer %s has dims %vx%v, want %vx%v",
		e.Name, e.Rows, e.Cols, e.WantR, e.WantC)
}
