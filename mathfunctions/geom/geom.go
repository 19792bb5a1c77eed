// Package geom holds indicator functions that are 1 inside a shape and 0 outside.
// They are used to create mesh labels.
package geom

import (
	"fmt"
)

type Sphere struct {
	Center []float64
	Radius float64
}

func NewSphere(center []float64, radius float64) *Sphere {
	return &Sphere{Center: center, Radius: radius}
}

func (s *Sphere) Size() int { return 1 }

func (s *Sphere) Eval(x []float64, dim int, time float64) float64 {
	var (
		dist2 float64
	)
	for d := 0; d < dim && d < len(s.Center); d++ {
		dx := x[d] - s.Center[d]
		dist2 += dx * dx
	}
	if dist2 <= s.Radius*s.Radius {
		return 1
	}
	return 0
}

func (s *Sphere) EvalVector(x []float64, dim int, time float64, result []float64) {
	result[0] = s.Eval(x, dim, time)
}

func (s *Sphere) String() string {
	return fmt.Sprintf("sphere(center=%v, radius=%g)", s.Center, s.Radius)
}

// Box is the axis aligned box Lower <= x <= Upper
type Box struct {
	Lower, Upper []float64
}

func NewBox(lower, upper []float64) *Box {
	return &Box{Lower: lower, Upper: upper}
}

func (b *Box) Size() int { return 1 }

func (b *Box) Eval(x []float64, dim int, time float64) float64 {
	for d := 0; d < dim && d < len(b.Lower); d++ {
		if x[d] < b.Lower[d] || x[d] > b.Upper[d] {
			return 0
		}
	}
	return 1
}

func (b *Box) EvalVector(x []float64, dim int, time float64, result []float64) {
	result[0] = b.Eval(x, dim, time)
}

func (b *Box) String() string {
	return fmt.Sprintf("box(lower=%v, upper=%v)", b.Lower, b.Upper)
}
