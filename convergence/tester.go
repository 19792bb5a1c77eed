package convergence

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// Tolerance is the allowed difference between observed and expected rates
const Tolerance = 0.2

/*
ConvergenceTester records error norms against a mesh spacing h and reports
the observed order of accuracy of each component, the slope of log10(error)
against log10(h) by least squares.
*/
type ConvergenceTester struct {
	Name         string
	hHistory     []float64
	errorHistory [][]float64 // [record][component]
}

func NewConvergenceTester(name string) *ConvergenceTester {
	return &ConvergenceTester{Name: name}
}

func (ct *ConvergenceTester) Record(h float64, errors []float64) {
	e := make([]float64, len(errors))
	copy(e, errors)
	ct.hHistory = append(ct.hHistory, h)
	ct.errorHistory = append(ct.errorHistory, e)
}

func (ct *ConvergenceTester) Len() int { return len(ct.hHistory) }

// Rates returns the observed order for each component, NaN when it can not be computed
func (ct *ConvergenceTester) Rates() (rates []float64) {
	if len(ct.errorHistory) == 0 {
		return
	}
	nc := len(ct.errorHistory[0])
	rates = make([]float64, nc)
	for c := 0; c < nc; c++ {
		rates[c] = ct.rate(c)
	}
	return
}

func (ct *ConvergenceTester) rate(c int) float64 {
	var x, y []float64
	for i, h := range ct.hHistory {
		if c >= len(ct.errorHistory[i]) {
			return math.NaN()
		}
		e := ct.errorHistory[i][c]
		if h <= 0 || e <= 0 || math.IsNaN(e) || math.IsInf(e, 0) {
			return math.NaN()
		}
		x = append(x, math.Log10(h))
		y = append(y, math.Log10(e))
	}
	if len(x) < 2 {
		return math.NaN()
	}
	_, slope := stat.LinearRegression(x, y, nil, false)
	return slope
}

/*
CompareConvergenceRate checks the observed rate of each component against
expected within Tolerance. NaN entries in expected are not checked. The
message lists every component that failed.
*/
func (ct *ConvergenceTester) CompareConvergenceRate(expected []float64) (ok bool, message string) {
	var (
		rates = ct.Rates()
		sb    strings.Builder
	)
	ok = true
	if len(rates) != len(expected) {
		return false, fmt.Sprintf("%s: %d components recorded, %d rates expected", ct.Name, len(rates), len(expected))
	}
	for c, want := range expected {
		if math.IsNaN(want) {
			continue
		}
		if math.IsNaN(rates[c]) || math.Abs(rates[c]-want) > Tolerance {
			ok = false
			fmt.Fprintf(&sb, "%s: component %d converged at %.3f, expected %.3f\n", ct.Name, c, rates[c], want)
		}
	}
	if !ok {
		sb.WriteString(ct.String())
	}
	message = sb.String()
	return
}

func (ct *ConvergenceTester) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s convergence history\n", ct.Name)
	for i, h := range ct.hHistory {
		fmt.Fprintf(&sb, "  h = %-12.6g", h)
		for _, e := range ct.errorHistory[i] {
			fmt.Fprintf(&sb, " %12.6e", e)
		}
		sb.WriteString("\n")
	}
	if rates := ct.Rates(); rates != nil {
		sb.WriteString("  order       ")
		for _, r := range rates {
			fmt.Fprintf(&sb, " %12.4f", r)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
