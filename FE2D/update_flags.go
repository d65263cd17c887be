package FE2D

import "strings"

// UpdateFlags declares which quantities a caller needs filled during
// evaluation, so that per-cell work can be limited to what is used.
type UpdateFlags uint16

const UpdateDefault UpdateFlags = 0

const (
	UpdateValues UpdateFlags = 1 << iota
	UpdateGradients
	UpdateHessians
	UpdateQuadraturePoints
	UpdateNormalVectors
	UpdateJxWValues
)

func (f UpdateFlags) Has(g UpdateFlags) bool {
	return f&g != 0
}

// String returns the string representation of an UpdateFlags set
func (f UpdateFlags) String() string {
	if f == UpdateDefault {
		return "Default"
	}
	names := []struct {
		flag UpdateFlags
		name string
	}{
		{UpdateValues, "Values"},
		{UpdateGradients, "Gradients"},
		{UpdateHessians, "Hessians"},
		{UpdateQuadraturePoints, "QuadraturePoints"},
		{UpdateNormalVectors, "NormalVectors"},
		{UpdateJxWValues, "JxWValues"},
	}
	var out []string
	for _, n := range names {
		if f.Has(n.flag) {
			out = append(out, n.name)
		}
	}
	return strings.Join(out, "|")
}
