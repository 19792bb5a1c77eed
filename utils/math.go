package utils

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// DotVector is the dot product of the first dim entries of a and b
func DotVector(dim int, a, b []float64) float64 {
	return floats.Dot(a[:dim], b[:dim])
}

// MagVector is the Euclidean length of the first dim entries of a
func MagVector(dim int, a []float64) float64 {
	return floats.Norm(a[:dim], 2)
}

// NormVector scales the first dim entries of a to unit length in place
func NormVector(dim int, a []float64) {
	mag := MagVector(dim, a)
	if mag == 0 {
		return
	}
	floats.Scale(1./mag, a[:dim])
}

func Distance(dim int, a, b []float64) float64 {
	return floats.Distance(a[:dim], b[:dim], 2)
}

// Norm selects how a set of error values is reduced to a single number
type Norm uint8

const (
	L1     Norm = iota // sum(|e|)
	L1Norm             // sum(|e|)/N
	L2                 // sqrt(sum(e^2))
	L2Norm             // sqrt(sum(e^2)/N)
	LInf               // max(|e|)
)

var normNames = map[Norm]string{
	L1:     "l1",
	L1Norm: "l1_norm",
	L2:     "l2",
	L2Norm: "l2_norm",
	LInf:   "linf",
}

func (n Norm) String() string {
	if name, ok := normNames[n]; ok {
		return name
	}
	return fmt.Sprintf("Norm(%d)", uint8(n))
}

func NewNorm(label string) (n Norm, err error) {
	label = strings.ToLower(strings.TrimSpace(label))
	for key, name := range normNames {
		if name == label {
			return key, nil
		}
	}
	err = fmt.Errorf("unknown norm %q, expected one of l1, l1_norm, l2, l2_norm, linf", label)
	return
}

func ComputeNorm(norm Norm, values []float64) (r float64) {
	var (
		N = float64(len(values))
	)
	if len(values) == 0 {
		return
	}
	switch norm {
	case L1:
		r = floats.Norm(values, 1)
	case L1Norm:
		r = floats.Norm(values, 1) / N
	case L2:
		r = floats.Norm(values, 2)
	case L2Norm:
		r = floats.Norm(values, 2) / math.Sqrt(N)
	case LInf:
		r = floats.Norm(values, math.Inf(1))
	default:
		panic(fmt.Sprintf("unsupported norm %v", norm))
	}
	return
}
