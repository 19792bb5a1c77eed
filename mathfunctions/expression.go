package mathfunctions

import (
	"fmt"
	"math"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// point is the environment expressions are evaluated in
type point struct {
	X     float64 `expr:"x"`
	Y     float64 `expr:"y"`
	Z     float64 `expr:"z"`
	T     float64 `expr:"t"`
	Pi    float64 `expr:"pi"`
	UPi   float64 `expr:"_pi"`
	Euler float64 `expr:"e"`
}

func newPoint(x []float64, dim int, time float64) (p point) {
	p.T, p.Pi, p.UPi, p.Euler = time, math.Pi, math.Pi, math.E
	if dim > len(x) {
		dim = len(x)
	}
	if dim > 0 {
		p.X = x[0]
	}
	if dim > 1 {
		p.Y = x[1]
	}
	if dim > 2 {
		p.Z = x[2]
	}
	return
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	}
	return 0, fmt.Errorf("%v (%T) is not a number", v, v)
}

func unary(name string, fn func(float64) float64) expr.Option {
	return expr.Function(name, func(params ...any) (any, error) {
		a, err := toFloat(params[0])
		if err != nil {
			return nil, err
		}
		return fn(a), nil
	}, new(func(float64) float64))
}

func binary(name string, fn func(float64, float64) float64) expr.Option {
	return expr.Function(name, func(params ...any) (any, error) {
		a, err := toFloat(params[0])
		if err != nil {
			return nil, err
		}
		b, err := toFloat(params[1])
		if err != nil {
			return nil, err
		}
		return fn(a, b), nil
	}, new(func(float64, float64) float64))
}

func sign(a float64) float64 {
	switch {
	case a > 0:
		return 1
	case a < 0:
		return -1
	}
	return 0
}

// abs, ceil, floor, max and min are expr builtins
var options = []expr.Option{
	expr.Env(point{}),
	unary("sin", math.Sin),
	unary("cos", math.Cos),
	unary("tan", math.Tan),
	unary("asin", math.Asin),
	unary("acos", math.Acos),
	unary("atan", math.Atan),
	unary("sinh", math.Sinh),
	unary("cosh", math.Cosh),
	unary("tanh", math.Tanh),
	unary("exp", math.Exp),
	unary("log", math.Log),
	unary("ln", math.Log),
	unary("log10", math.Log10),
	unary("sqrt", math.Sqrt),
	unary("sign", sign),
	binary("pow", math.Pow),
	binary("atan2", math.Atan2),
	binary("mod", math.Mod),
}

/*
compileVector compiles a comma separated list of expressions as one array
literal. The program is run once at the origin to count the components and to
reject expressions that do not evaluate to numbers.
*/
func compileVector(expression string) (program *vm.Program, size int, err error) {
	if program, err = expr.Compile("["+expression+"]", options...); err != nil {
		return
	}
	var values []float64
	if values, err = runVector(program, newPoint(nil, 0, 0), nil); err != nil {
		return
	}
	if size = len(values); size == 0 {
		err = fmt.Errorf("empty expression")
	}
	return
}

// runVector appends the components evaluated at p to values
func runVector(program *vm.Program, p point, values []float64) ([]float64, error) {
	out, err := expr.Run(program, p)
	if err != nil {
		return nil, err
	}
	list, ok := out.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a list of components, have %T", out)
	}
	for i, v := range list {
		f, err := toFloat(v)
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}
		values = append(values, f)
	}
	return values, nil
}
