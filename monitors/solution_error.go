package monitors

import (
	"fmt"
	"math"
	"strings"

	"github.com/salam-lobad/ablate/domain"
	"github.com/salam-lobad/ablate/mathfunctions"
	"github.com/salam-lobad/ablate/utils"
)

// Scope selects whether errors are reduced per component or per field
type Scope uint8

const (
	Component Scope = iota
	Vector
)

func (s Scope) String() string {
	switch s {
	case Component:
		return "component"
	case Vector:
		return "vector"
	}
	return fmt.Sprintf("Scope(%d)", uint8(s))
}

func NewScope(label string) (s Scope, err error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "component", "":
		s = Component
	case "vector":
		s = Vector
	default:
		err = fmt.Errorf("unknown error scope %q", label)
	}
	return
}

/*
SolutionErrorMonitor compares field values with exact solutions at the cell
centroids. With Component scope it returns one error per field component, with
Vector scope one per field, in the order of the exact solutions.
*/
type SolutionErrorMonitor struct {
	Scope  Scope
	Norm   utils.Norm
	Region *domain.Region // Nil for every cell of each field
}

func NewSolutionErrorMonitor(scope Scope, norm utils.Norm, region *domain.Region) *SolutionErrorMonitor {
	return &SolutionErrorMonitor{Scope: scope, Norm: norm, Region: region}
}

func (sem *SolutionErrorMonitor) ComputeError(sd *domain.SubDomain, time float64, vec *domain.Vector,
	exactSolutions []*mathfunctions.FieldFunction) (errs []float64, err error) {
	var (
		dim = sd.GetDimensions()
		dm  = sd.GetDomain()
	)
	for _, fn := range exactSolutions {
		var field *domain.Field
		if field, err = sd.GetField(fn.Name); err != nil {
			return nil, fmt.Errorf("error monitor: %w", err)
		}
		if field.Location != vec.Location {
			return nil, fmt.Errorf("error monitor: field %s is a %s field, vector holds %s",
				fn.Name, field.Location, vec.Location)
		}
		if fn.Function.Size() != field.NumComponents {
			return nil, fmt.Errorf("error monitor: exact solution for %s has %d components, field has %d",
				fn.Name, fn.Function.Size(), field.NumComponents)
		}
		cells := dm.GetLabel(field.Region).Cells
		if sem.Region != nil {
			cells = cells.Intersect(dm.GetLabel(sem.Region).Cells)
		}
		var (
			nc         = field.NumComponents
			exact      = make([]float64, nc)
			components = make([][]float64, nc)
			magnitudes []float64
		)
		for _, cell := range cells.Points() {
			cg := sd.GetCellGeometry(cell)
			fn.Function.EvalVector(cg.Centroid[:], dim, time, exact)
			values := vec.FieldRead(cell, field)
			var mag2 float64
			for c := 0; c < nc; c++ {
				diff := values[c] - exact[c]
				components[c] = append(components[c], diff)
				mag2 += diff * diff
			}
			magnitudes = append(magnitudes, mag2)
		}
		switch sem.Scope {
		case Component:
			for c := 0; c < nc; c++ {
				errs = append(errs, utils.ComputeNorm(sem.Norm, components[c]))
			}
		case Vector:
			for i, m2 := range magnitudes {
				magnitudes[i] = math.Sqrt(m2)
			}
			errs = append(errs, utils.ComputeNorm(sem.Norm, magnitudes))
		}
	}
	return
}
