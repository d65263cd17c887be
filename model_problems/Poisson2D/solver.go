package Poisson2D

import (
	"fmt"
	"math"

	"github.com/quadfem/fequad/utils"
)

// CG is a Jacobi preconditioned conjugate gradient solver over the
// assembled CSR stiffness matrix.
type CG struct {
	MaxIter int
	Tol     float64
	niter   int
	ndof    int
}

func (cg *CG) Status() string {
	return fmt.Sprintf("CG solver: %v dof, converged in %v iterations", cg.ndof, cg.niter)
}

func (cg *CG) Solve(A utils.CSR, b []float64) (x []float64, err error) {
	var (
		size = len(b)
		diag = make([]float64, size)
	)
	cg.ndof = size
	for i := 0; i < size; i++ {
		diag[i] = A.At(i, i)
		if diag[i] == 0. {
			err = fmt.Errorf("zero diagonal at dof %v, matrix is not SPD", i)
			return
		}
	}
	precon := func(z, r []float64) {
		for i := range r {
			z[i] = r[i] / diag[i]
		}
	}

	x = make([]float64, size)
	r := make([]float64, size)
	z := make([]float64, size)
	p := make([]float64, size)
	Ap := make([]float64, size)

	copy(r, b) // r = b - A*0
	precon(z, r)
	copy(p, z)
	rz := dot(r, z)

	for cg.niter = 1; cg.niter <= cg.MaxIter; cg.niter++ {
		A.MulVec(p, Ap)
		alpha := rz / dot(p, Ap)
		for i := range x {
			x[i] += alpha * p[i]
			r[i] -= alpha * Ap[i]
		}
		if math.Sqrt(dot(r, r)) < cg.Tol {
			return
		}
		precon(z, r)
		rzNext := dot(r, z)
		beta := rzNext / rz
		for i := range p {
			p[i] = z[i] + beta*p[i]
		}
		rz = rzNext
	}
	err = fmt.Errorf("CG did not converge in %v iterations", cg.MaxIter)
	return
}

func dot(a, b []float64) (val float64) {
	for i := range a {
		val += a[i] * b[i]
	}
	return
}
