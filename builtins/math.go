package builtins

import (
	"math"
	"math/bits"
	"sort"

	"github.com/example/jsvm/runtime"
)

var mathUnaryFuncs = map[string]func(float64) float64{
	"abs":   math.Abs,
	"ceil":  math.Ceil,
	"floor": math.Floor,
	"trunc": math.Trunc,
	"sqrt":  math.Sqrt,
	"cbrt":  math.Cbrt,
	"log":   math.Log,
	"log2":  math.Log2,
	"log10": math.Log10,
	"log1p": math.Log1p,
	"exp":   math.Exp,
	"expm1": math.Expm1,
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"asin":  math.Asin,
	"acos":  math.Acos,
	"atan":  math.Atan,
	"sinh":  math.Sinh,
	"cosh":  math.Cosh,
	"tanh":  math.Tanh,
	"asinh": math.Asinh,
	"acosh": math.Acosh,
	"atanh": math.Atanh,
	"round": jsRound,
	"sign":  jsSign,
	"fround": func(f float64) float64 {
		return float64(float32(f))
	},
	"clz32": func(f float64) float64 {
		return float64(bits.LeadingZeros32(runtime.ToUint32(f)))
	},
}

func (l *lib) createMathObject() *runtime.Object {
	m := l.realm.NewObject()

	setConstant(m, "PI", runtime.NewNumber(math.Pi))
	setConstant(m, "E", runtime.NewNumber(math.E))
	setConstant(m, "LN2", runtime.NewNumber(math.Ln2))
	setConstant(m, "LN10", runtime.NewNumber(math.Ln10))
	setConstant(m, "LOG2E", runtime.NewNumber(math.Log2E))
	setConstant(m, "LOG10E", runtime.NewNumber(math.Log10E))
	setConstant(m, "SQRT2", runtime.NewNumber(math.Sqrt2))
	setConstant(m, "SQRT1_2", runtime.NewNumber(1/math.Sqrt2))

	names := make([]string, 0, len(mathUnaryFuncs))
	for name := range mathUnaryFuncs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		l.setMethod(m, name, 1, mathUnary(mathUnaryFuncs[name]))
	}
	l.setMethod(m, "max", 2, mathExtreme(math.Inf(-1), math.Max))
	l.setMethod(m, "min", 2, mathExtreme(math.Inf(1), math.Min))
	l.setMethod(m, "pow", 2, mathBinary(jsPow))
	l.setMethod(m, "atan2", 2, mathBinary(math.Atan2))
	l.setMethod(m, "imul", 2, mathBinary(func(a, b float64) float64 {
		return float64(runtime.ToInt32(a) * runtime.ToInt32(b))
	}))
	l.setMethod(m, "hypot", 2, mathHypot)
	l.setMethod(m, "random", 0, func(_ *runtime.Value, _ []*runtime.Value) (*runtime.Value, error) {
		return runtime.NewNumber(l.random()), nil
	})

	setDataProp(m, "@@toStringTag", runtime.NewString("Math"), false, false, true)
	return m
}

func mathUnary(fn func(float64) float64) runtime.CallableFunc {
	return func(_ *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		n, err := toNumber(argAt(args, 0))
		if err != nil {
			return nil, err
		}
		return runtime.NewNumber(fn(n)), nil
	}
}

func mathBinary(fn func(a, b float64) float64) runtime.CallableFunc {
	return func(_ *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		a, err := toNumber(argAt(args, 0))
		if err != nil {
			return nil, err
		}
		b, err := toNumber(argAt(args, 1))
		if err != nil {
			return nil, err
		}
		return runtime.NewNumber(fn(a, b)), nil
	}
}

// mathExtreme folds Math.max and Math.min. Any NaN argument wins.
func mathExtreme(start float64, pick func(a, b float64) float64) runtime.CallableFunc {
	return func(_ *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		result := start
		for _, a := range args {
			n, err := toNumber(a)
			if err != nil {
				return nil, err
			}
			if math.IsNaN(n) || math.IsNaN(result) {
				result = math.NaN()
				continue
			}
			result = pick(result, n)
		}
		return runtime.NewNumber(result), nil
	}
}

func mathHypot(_ *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	sum := 0.0
	inf := false
	for _, a := range args {
		n, err := toNumber(a)
		if err != nil {
			return nil, err
		}
		if math.IsInf(n, 0) {
			inf = true
		}
		sum += n * n
	}
	if inf {
		return runtime.PosInf, nil
	}
	return runtime.NewNumber(math.Sqrt(sum)), nil
}

// jsRound rounds half up, unlike math.Round which rounds half away from zero.
func jsRound(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f == 0 {
		return f
	}
	if f < 0 && f >= -0.5 {
		return math.Copysign(0, -1)
	}
	return math.Floor(f + 0.5)
}

func jsSign(f float64) float64 {
	switch {
	case math.IsNaN(f) || f == 0:
		return f
	case f > 0:
		return 1
	default:
		return -1
	}
}

// jsPow differs from math.Pow for a NaN exponent and for |base| == 1 with an
// infinite exponent, which are both NaN in JS.
func jsPow(base, exp float64) float64 {
	if math.IsNaN(exp) {
		return math.NaN()
	}
	if math.Abs(base) == 1 && math.IsInf(exp, 0) {
		return math.NaN()
	}
	return math.Pow(base, exp)
}
