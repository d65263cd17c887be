package Poisson2D

import (
	"github.com/quadfem/fequad/FE2D"
	"github.com/quadfem/fequad/geometry2D"
	"github.com/quadfem/fequad/utils"
)

// Poisson discretizes -Laplace(u) = f on a quadrilateral mesh with the P1
// nonconforming element, Dirichlet data g on the boundary and hanging node
// DOFs eliminated through the element's constraint table.
type Poisson struct {
	Msh    *Mesh
	El     *FE2D.P1NC
	QOrder int
}

func NewPoisson(msh *Mesh, qOrder int) (p *Poisson) {
	p = &Poisson{
		Msh:    msh,
		El:     FE2D.NewP1NC(),
		QOrder: qOrder,
	}
	return
}

type dofTerm struct {
	dof    int
	weight float64
}

// resolveDof expands a vertex DOF into its unconstrained representation:
// a hanging DOF becomes its two masters weighted by the constraint table,
// any other DOF is itself with weight one.
func (p *Poisson) resolveDof(d int) []dofTerm {
	C := p.El.ConstraintTable()
	for _, hn := range p.Msh.Constraints {
		if hn.Slave == d {
			return []dofTerm{
				{hn.Masters[0], C.At(0, 0)},
				{hn.Masters[1], C.At(0, 1)},
			}
		}
	}
	return []dofTerm{{d, 1.}}
}

// Assemble builds the constrained global stiffness matrix and load vector.
// Dirichlet DOFs are eliminated symmetrically: their couplings move to the
// right hand side and their rows become identity.
func (p *Poisson) Assemble(f, g func(geometry2D.Point) float64) (K utils.CSR, rhs []float64, err error) {
	var (
		msh  = p.Msh
		n    = msh.NVerts()
		A    = utils.NewDOK(n, n)
		el   = p.El
		nQ   = p.QOrder * p.QOrder
		data = el.NewEvalData(FE2D.UpdateValues|FE2D.UpdateGradients, nQ)
		out  = FE2D.NewEvalOutput(el.NDofs(), nQ)
	)
	rhs = make([]float64, n)

	for k := 0; k < msh.NCells(); k++ {
		var (
			cell = msh.Quad(k)
			rule = FE2D.CellRule(cell, p.QOrder)
			kloc [4][4]float64
			floc [4]float64
		)
		if err = el.FillValues(cell, rule.Points, data, out); err != nil {
			return
		}
		for q := 0; q < rule.NQ(); q++ {
			w := rule.Weights[q]
			fq := f(rule.Points[q])
			for i := 0; i < 4; i++ {
				floc[i] += w * fq * out.Values.At(i, q)
				for j := 0; j < 4; j++ {
					kloc[i][j] += w * (out.GradX.At(i, q)*out.GradX.At(j, q) +
						out.GradY.At(i, q)*out.GradY.At(j, q))
				}
			}
		}

		ev := msh.EToV[k]
		for i := 0; i < 4; i++ {
			for _, ti := range p.resolveDof(ev[i]) {
				if msh.IsBoundary[ti.dof] {
					continue
				}
				rhs[ti.dof] += ti.weight * floc[i]
				for j := 0; j < 4; j++ {
					for _, tj := range p.resolveDof(ev[j]) {
						v := ti.weight * tj.weight * kloc[i][j]
						if msh.IsBoundary[tj.dof] {
							rhs[ti.dof] -= v * g(msh.Verts[tj.dof])
						} else {
							A.Accumulate(ti.dof, tj.dof, v)
						}
					}
				}
			}
		}
	}

	// identity rows for eliminated DOFs
	for d := 0; d < n; d++ {
		if msh.IsBoundary[d] {
			A.Set(d, d, 1.)
			rhs[d] = g(msh.Verts[d])
		}
	}
	for _, hn := range msh.Constraints {
		if !msh.IsBoundary[hn.Slave] {
			A.Set(hn.Slave, hn.Slave, 1.)
			rhs[hn.Slave] = 0.
		}
	}

	K = A.ToCSR()
	return
}

// Run assembles, solves with conjugate gradients and recovers the hanging
// DOF values from their masters.
func (p *Poisson) Run(f, g func(geometry2D.Point) float64) (u []float64, err error) {
	K, rhs, err := p.Assemble(f, g)
	if err != nil {
		return
	}
	cg := &CG{MaxIter: 10 * p.Msh.NVerts(), Tol: 1.e-12}
	if u, err = cg.Solve(K, rhs); err != nil {
		return
	}
	C := p.El.ConstraintTable()
	for _, hn := range p.Msh.Constraints {
		if !p.Msh.IsBoundary[hn.Slave] {
			u[hn.Slave] = C.At(0, 0)*u[hn.Masters[0]] + C.At(0, 1)*u[hn.Masters[1]]
		}
	}
	return
}
