package interpreter

import (
	"math"
	"strings"

	"github.com/example/jsvm/runtime"
)

// binaryFunc is the semantic function of one binary operator.
type binaryFunc func(a, b *runtime.Value) (*runtime.Value, error)

var binaryOperators = map[string]binaryFunc{
	"==":         opLooseEquals,
	"!=":         negate(opLooseEquals),
	"===":        opStrictEquals,
	"!==":        negate(opStrictEquals),
	"<":          opLess,
	">":          opGreater,
	"<=":         opLessEqual,
	">=":         opGreaterEqual,
	"+":          opAdd,
	"-":          arithmetic(func(a, b float64) float64 { return a - b }),
	"*":          arithmetic(func(a, b float64) float64 { return a * b }),
	"/":          arithmetic(func(a, b float64) float64 { return a / b }),
	"%":          arithmetic(jsRemainder),
	"**":         arithmetic(jsPow),
	"&":          bitwise(func(a, b int32) int32 { return a & b }),
	"|":          bitwise(func(a, b int32) int32 { return a | b }),
	"^":          bitwise(func(a, b int32) int32 { return a ^ b }),
	"<<":         bitwise(func(a, b int32) int32 { return a << (uint32(b) & 31) }),
	">>":         bitwise(func(a, b int32) int32 { return a >> (uint32(b) & 31) }),
	">>>":        opUnsignedShiftRight,
	"in":         opIn,
	"instanceof": opInstanceOf,
}

// binaryOp applies op. Compound assignment passes the operator without "=".
func binaryOp(op string, a, b *runtime.Value) (*runtime.Value, error) {
	fn, ok := binaryOperators[op]
	if !ok {
		return nil, runtime.ErrorUnsupported("unknown operator %s", op)
	}
	return fn(a, b)
}

func negate(fn binaryFunc) binaryFunc {
	return func(a, b *runtime.Value) (*runtime.Value, error) {
		v, err := fn(a, b)
		if err != nil {
			return nil, err
		}
		return runtime.NewBool(!v.Bool), nil
	}
}

func opLooseEquals(a, b *runtime.Value) (*runtime.Value, error) {
	eq, err := runtime.AbstractEquals(a, b)
	return runtime.NewBool(eq), err
}

func opStrictEquals(a, b *runtime.Value) (*runtime.Value, error) {
	return runtime.NewBool(runtime.StrictEquals(a, b)), nil
}

// opAdd concatenates when either primitive operand is a string and adds
// numerically otherwise.
func opAdd(a, b *runtime.Value) (*runtime.Value, error) {
	pa, err := runtime.ToPrimitive(a, "default")
	if err != nil {
		return nil, err
	}
	pb, err := runtime.ToPrimitive(b, "default")
	if err != nil {
		return nil, err
	}
	if pa.Type == runtime.TypeString || pb.Type == runtime.TypeString {
		return runtime.NewString(pa.ToString() + pb.ToString()), nil
	}
	return runtime.NewNumber(pa.ToNumber() + pb.ToNumber()), nil
}

func arithmetic(fn func(a, b float64) float64) binaryFunc {
	return func(a, b *runtime.Value) (*runtime.Value, error) {
		x, err := runtime.ToNumberValue(a)
		if err != nil {
			return nil, err
		}
		y, err := runtime.ToNumberValue(b)
		if err != nil {
			return nil, err
		}
		return runtime.NewNumber(fn(x, y)), nil
	}
}

// jsRemainder keeps the sign of the dividend, as math.Mod does.
func jsRemainder(a, b float64) float64 {
	if b == 0 || math.IsInf(a, 0) || math.IsNaN(a) || math.IsNaN(b) {
		return math.NaN()
	}
	if math.IsInf(b, 0) {
		return a
	}
	return math.Mod(a, b)
}

func jsPow(a, b float64) float64 {
	if math.IsNaN(b) {
		return math.NaN()
	}
	if b == 0 {
		return 1
	}
	if (a == 1 || a == -1) && math.IsInf(b, 0) {
		return math.NaN()
	}
	return math.Pow(a, b)
}

func bitwise(fn func(a, b int32) int32) binaryFunc {
	return func(a, b *runtime.Value) (*runtime.Value, error) {
		x, err := runtime.ToNumberValue(a)
		if err != nil {
			return nil, err
		}
		y, err := runtime.ToNumberValue(b)
		if err != nil {
			return nil, err
		}
		return runtime.NewNumber(float64(fn(runtime.ToInt32(x), runtime.ToInt32(y)))), nil
	}
}

func opUnsignedShiftRight(a, b *runtime.Value) (*runtime.Value, error) {
	x, err := runtime.ToNumberValue(a)
	if err != nil {
		return nil, err
	}
	y, err := runtime.ToNumberValue(b)
	if err != nil {
		return nil, err
	}
	return runtime.NewNumber(float64(runtime.ToUint32(x) >> (runtime.ToUint32(y) & 31))), nil
}

// compare implements the abstract relational comparison. ok is false when
// either side is NaN, which makes every relational operator false.
func compare(a, b *runtime.Value) (less bool, ok bool, err error) {
	pa, err := runtime.ToPrimitive(a, "number")
	if err != nil {
		return false, false, err
	}
	pb, err := runtime.ToPrimitive(b, "number")
	if err != nil {
		return false, false, err
	}
	if pa.Type == runtime.TypeString && pb.Type == runtime.TypeString {
		return strings.Compare(pa.Str, pb.Str) < 0, true, nil
	}
	x, y := pa.ToNumber(), pb.ToNumber()
	if math.IsNaN(x) || math.IsNaN(y) {
		return false, false, nil
	}
	return x < y, true, nil
}

func opLess(a, b *runtime.Value) (*runtime.Value, error) {
	less, ok, err := compare(a, b)
	return runtime.NewBool(ok && less), err
}

func opGreater(a, b *runtime.Value) (*runtime.Value, error) {
	less, ok, err := compare(b, a)
	return runtime.NewBool(ok && less), err
}

func opLessEqual(a, b *runtime.Value) (*runtime.Value, error) {
	greater, ok, err := compare(b, a)
	return runtime.NewBool(ok && !greater), err
}

func opGreaterEqual(a, b *runtime.Value) (*runtime.Value, error) {
	less, ok, err := compare(a, b)
	return runtime.NewBool(ok && !less), err
}

func opIn(a, b *runtime.Value) (*runtime.Value, error) {
	if !b.IsObject() {
		return nil, typeError("Cannot use 'in' operator to search for '%s' in %s", a.ToString(), b.ToString())
	}
	key, err := runtime.ToPropertyKey(a)
	if err != nil {
		return nil, err
	}
	return runtime.NewBool(b.Object.HasProperty(key)), nil
}

func opInstanceOf(a, b *runtime.Value) (*runtime.Value, error) {
	if !b.IsCallable() {
		return nil, typeError("Right-hand side of 'instanceof' is not callable")
	}
	if !a.IsObject() {
		return runtime.False, nil
	}
	proto := b.Object.Get("prototype")
	if !proto.IsObject() {
		return runtime.False, nil
	}
	return runtime.NewBool(a.Object.InstanceOf(proto.Object)), nil
}

// unaryFunc is the semantic function of a unary operator other than typeof
// and delete, which need the operand's reference.
type unaryFunc func(v *runtime.Value) (*runtime.Value, error)

var unaryOperators = map[string]unaryFunc{
	"-": func(v *runtime.Value) (*runtime.Value, error) {
		n, err := runtime.ToNumberValue(v)
		return runtime.NewNumber(-n), err
	},
	"+": func(v *runtime.Value) (*runtime.Value, error) {
		n, err := runtime.ToNumberValue(v)
		return runtime.NewNumber(n), err
	},
	"!": func(v *runtime.Value) (*runtime.Value, error) {
		return runtime.NewBool(!v.ToBoolean()), nil
	},
	"~": func(v *runtime.Value) (*runtime.Value, error) {
		n, err := runtime.ToNumberValue(v)
		return runtime.NewNumber(float64(^runtime.ToInt32(n))), err
	},
	"void": func(*runtime.Value) (*runtime.Value, error) {
		return runtime.Undefined, nil
	},
	"typeof": func(v *runtime.Value) (*runtime.Value, error) {
		return runtime.NewString(v.TypeOf()), nil
	},
}

// updateOp applies ++ or -- and returns the old and new numeric values.
func updateOp(op string, v *runtime.Value) (old, updated *runtime.Value, err error) {
	n, err := runtime.ToNumberValue(v)
	if err != nil {
		return nil, nil, err
	}
	if op == "++" {
		return runtime.NewNumber(n), runtime.NewNumber(n + 1), nil
	}
	return runtime.NewNumber(n), runtime.NewNumber(n - 1), nil
}

// logicalShortCircuits reports whether a logical operator returns its left
// operand without evaluating the right one.
func logicalShortCircuits(op string, left *runtime.Value) bool {
	switch op {
	case "&&":
		return !left.ToBoolean()
	case "||":
		return left.ToBoolean()
	case "??":
		return !left.IsNullish()
	}
	return false
}
