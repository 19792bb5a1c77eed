package domain

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Vector holds the packed values of one discrete system, TotalDim values per cell
type Vector struct {
	*mat.VecDense
	Location FieldLocation
	TotalDim int
	NumCells int
}

func NewVector(ds *DiscreteSystem, numCells int) *Vector {
	v := &Vector{
		Location: ds.Location,
		TotalDim: ds.TotalDim,
		NumCells: numCells,
	}
	if n := ds.TotalDim * numCells; n > 0 {
		v.VecDense = mat.NewVecDense(n, nil)
	} else {
		v.VecDense = &mat.VecDense{}
	}
	return v
}

// PointRead returns the slice of values stored for cell, writes go through to the vector
func (v *Vector) PointRead(cell int) []float64 {
	if cell < 0 || cell >= v.NumCells {
		panic(fmt.Sprintf("cell %d out of range [0,%d)", cell, v.NumCells))
	}
	data := v.RawVector().Data
	return data[cell*v.TotalDim : (cell+1)*v.TotalDim : (cell+1)*v.TotalDim]
}

// FieldRead returns the components of field f stored for cell
func (v *Vector) FieldRead(cell int, f *Field) []float64 {
	if f.Location != v.Location {
		panic(fmt.Sprintf("field %s is a %s field, vector holds %s", f.Name, f.Location, v.Location))
	}
	return v.PointRead(cell)[f.Offset : f.Offset+f.NumComponents]
}

func (v *Vector) Zero() {
	if v.TotalDim*v.NumCells > 0 {
		v.VecDense.Zero()
	}
}

func (v *Vector) Duplicate() (r *Vector) {
	r = &Vector{
		Location: v.Location,
		TotalDim: v.TotalDim,
		NumCells: v.NumCells,
		VecDense: &mat.VecDense{},
	}
	if v.TotalDim*v.NumCells > 0 {
		r.VecDense = mat.VecDenseCopyOf(v.VecDense)
	}
	return
}

func (v *Vector) Data() []float64 {
	if v.TotalDim*v.NumCells == 0 {
		return nil
	}
	return v.RawVector().Data
}
