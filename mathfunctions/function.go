package mathfunctions

import (
	"fmt"

	"github.com/expr-lang/expr/vm"
)

/*
MathFunction is an analytic function of space and time. Vector valued functions
have Size() > 1 and are evaluated into a caller provided result slice.
Coordinates beyond dim are treated as zero.
*/
type MathFunction interface {
	Eval(x []float64, dim int, time float64) float64
	EvalVector(x []float64, dim int, time float64, result []float64)
	Size() int
}

// FieldFunction binds a function to the field it initializes or checks
type FieldFunction struct {
	Name     string
	Function MathFunction
}

func NewFieldFunction(name string, fn MathFunction) *FieldFunction {
	return &FieldFunction{Name: name, Function: fn}
}

// Create parses a comma separated list of expressions in x, y, z and t, one per component
func Create(expression string) (mf MathFunction, err error) {
	var (
		program *vm.Program
		size    int
	)
	if program, size, err = compileVector(expression); err != nil {
		err = fmt.Errorf("unable to create function from %q: %w", expression, err)
		return
	}
	mf = &parsedFunction{
		expression: expression,
		program:    program,
		size:       size,
	}
	return
}

// MustCreate is Create for expressions known at compile time
func MustCreate(expression string) MathFunction {
	mf, err := Create(expression)
	if err != nil {
		panic(err)
	}
	return mf
}

type parsedFunction struct {
	expression string
	program    *vm.Program
	size       int
}

func (pf *parsedFunction) String() string { return pf.expression }

func (pf *parsedFunction) Size() int { return pf.size }

func (pf *parsedFunction) Eval(x []float64, dim int, time float64) float64 {
	var result [1]float64
	if pf.size == 1 {
		pf.EvalVector(x, dim, time, result[:])
		return result[0]
	}
	values := make([]float64, pf.size)
	pf.EvalVector(x, dim, time, values)
	return values[0]
}

func (pf *parsedFunction) EvalVector(x []float64, dim int, time float64, result []float64) {
	if len(result) < pf.size {
		panic(fmt.Sprintf("result length %d is less than function size %d",
			len(result), pf.size))
	}
	values, err := runVector(pf.program, newPoint(x, dim, time), result[:0])
	if err != nil {
		panic(fmt.Sprintf("evaluating %q: %s", pf.expression, err))
	}
	if len(values) != pf.size {
		panic(fmt.Sprintf("evaluating %q: have %d components, expected %d", pf.expression, len(values), pf.size))
	}
}

// ConstantFunction returns the same values everywhere
type ConstantFunction []float64

func NewConstant(values ...float64) ConstantFunction { return ConstantFunction(values) }

func (cf ConstantFunction) Size() int { return len(cf) }

func (cf ConstantFunction) Eval(x []float64, dim int, time float64) float64 { return cf[0] }

func (cf ConstantFunction) EvalVector(x []float64, dim int, time float64, result []float64) {
	copy(result, cf)
}

// SimpleFunction adapts a scalar Go function into a MathFunction
type SimpleFunction func(x []float64, dim int, time float64) float64

func (sf SimpleFunction) Size() int { return 1 }

func (sf SimpleFunction) Eval(x []float64, dim int, time float64) float64 {
	return sf(x, dim, time)
}

func (sf SimpleFunction) EvalVector(x []float64, dim int, time float64, result []float64) {
	result[0] = sf(x, dim, time)
}
