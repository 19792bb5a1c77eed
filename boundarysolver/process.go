package boundarysolver

import (
	"fmt"

	"github.com/salam-lobad/ablate/domain"
)

/*
GradientProcess writes the boundary gradients of SOL and AUX fields into a SOL
output field. The output holds dim components for each input component, SOL
inputs first, in the order listed. With AlongNormal it holds one component per
input component, the derivative along the boundary normal.
*/
type GradientProcess struct {
	OutputField string
	InputFields []string
	AuxFields   []string
	AlongNormal bool
	SourceType  BoundarySourceType

	inputComponents []int
	auxComponents   []int
}

func NewGradientProcess(outputField string, inputFields, auxFields []string, alongNormal bool,
	sourceType BoundarySourceType) *GradientProcess {
	return &GradientProcess{
		OutputField: outputField,
		InputFields: inputFields,
		AuxFields:   auxFields,
		AlongNormal: alongNormal,
		SourceType:  sourceType,
	}
}

func (gp *GradientProcess) Setup(bs *BoundarySolver) (err error) {
	var (
		sd       = bs.GetSubDomain()
		dim      = sd.GetDimensions()
		expected int
	)
	gp.inputComponents, gp.auxComponents = nil, nil
	for _, name := range gp.InputFields {
		f, err := sd.GetField(name)
		if err != nil {
			return fmt.Errorf("gradient process: %w", err)
		}
		gp.inputComponents = append(gp.inputComponents, f.NumComponents)
		expected += f.NumComponents
	}
	for _, name := range gp.AuxFields {
		f, err := sd.GetField(name)
		if err != nil {
			return fmt.Errorf("gradient process: %w", err)
		}
		gp.auxComponents = append(gp.auxComponents, f.NumComponents)
		expected += f.NumComponents
	}
	if !gp.AlongNormal {
		expected *= dim
	}
	out, err := sd.GetField(gp.OutputField)
	if err != nil {
		return fmt.Errorf("gradient process: %w", err)
	}
	if out.NumComponents != expected {
		return fmt.Errorf("gradient process: output field %s has %d components, need %d",
			gp.OutputField, out.NumComponents, expected)
	}
	return bs.RegisterFunction(gp.computeGradients, []string{gp.OutputField}, gp.InputFields, gp.AuxFields,
		gp.SourceType)
}

func (gp *GradientProcess) Initialize(bs *BoundarySolver) error { return nil }

func (gp *GradientProcess) computeGradients(dim int, fg *BoundaryFVFaceGeom, boundaryCell *domain.CellGeom,
	uOff []int, boundaryValues []float64, stencilValues [][]float64,
	aOff []int, auxValues []float64, stencilAuxValues [][]float64,
	stencilSize int, stencil []int, stencilWeights []float64,
	sOff []int, source []float64) error {
	var (
		pointValues = make([]float64, stencilSize)
		out         = source[sOff[0]:]
		next        int
	)
	eval := func(offsets, components []int, center []float64, values [][]float64) {
		for k, off := range offsets {
			for c := 0; c < components[k]; c++ {
				for i := 0; i < stencilSize; i++ {
					pointValues[i] = values[i][off+c]
				}
				if gp.AlongNormal {
					out[next] = ComputeGradientAlongNormal(dim, fg, center[off+c], stencilSize, pointValues, stencilWeights)
					next++
					continue
				}
				ComputeGradient(dim, center[off+c], stencilSize, pointValues, stencilWeights, out[next:next+dim])
				next += dim
			}
		}
	}
	eval(uOff, gp.inputComponents, boundaryValues, stencilValues)
	eval(aOff, gp.auxComponents, auxValues, stencilAuxValues)
	return nil
}
