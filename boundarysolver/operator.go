package boundarysolver

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"

	"github.com/salam-lobad/ablate/domain"
)

/*
GradientOperator assembles the gradients of every stencil as one sparse matrix
of (len(stencils)*dim) x nCells. Row s*dim+d gives component d of the gradient
at stencil s, as a combination of one value per cell.
*/
func (bs *BoundarySolver) GradientOperator() *sparse.CSR {
	var (
		dim    = bs.subDomain.GetDimensions()
		nCells = bs.subDomain.GetMesh().NumElements
		dok    = sparse.NewDOK(max(len(bs.stencils)*dim, 1), max(nCells, 1))
	)
	for s, gs := range bs.stencils {
		for i, c := range gs.Stencil {
			for d := 0; d < dim; d++ {
				row, w := s*dim+d, gs.GradientWeights[i*dim+d]
				dok.Set(row, c, dok.At(row, c)+w)
				dok.Set(row, gs.Cell, dok.At(row, gs.Cell)-w)
			}
		}
	}
	return dok.ToCSR()
}

// ApplyGradientOperator returns the stencil gradients of one component of field held in vec
func (bs *BoundarySolver) ApplyGradientOperator(op *sparse.CSR, vec *domain.Vector, fieldName string,
	component int) (grads *mat.VecDense, err error) {
	var (
		field  *domain.Field
		nr, nc = op.Dims()
	)
	if field, err = bs.subDomain.GetField(fieldName); err != nil {
		return
	}
	if component < 0 || component >= field.NumComponents {
		err = fmt.Errorf("field %s has no component %d", fieldName, component)
		return
	}
	if nc < vec.NumCells {
		err = fmt.Errorf("operator has %d columns, vector has %d cells", nc, vec.NumCells)
		return
	}
	u := mat.NewVecDense(nc, nil)
	for cell := 0; cell < vec.NumCells; cell++ {
		u.SetVec(cell, vec.FieldRead(cell, field)[component])
	}
	grads = mat.NewVecDense(nr, nil)
	grads.MulVec(op, u)
	return
}
