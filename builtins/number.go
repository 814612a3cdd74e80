package builtins

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/example/jsvm/runtime"
)

func (l *lib) createNumberConstructor() *runtime.Object {
	proto := l.realm.NumberPrototype
	proto.OType = runtime.ObjTypeBoxed
	proto.SetSlot("primitive", runtime.Zero)

	l.setMethod(proto, "toFixed", 1, numberToFixed)
	l.setMethod(proto, "toPrecision", 1, numberToPrecision)
	l.setMethod(proto, "toExponential", 1, numberToExponential)
	l.setMethod(proto, "toString", 1, numberToString)
	l.setMethod(proto, "toLocaleString", 0, numberToString)
	l.setMethod(proto, "valueOf", 0, numberValueOf)

	ctor := l.newConstructor("Number", 1, proto, numberConstructorCall, l.numberConstruct)

	setConstant(ctor, "MAX_SAFE_INTEGER", runtime.NewNumber(1<<53-1))
	setConstant(ctor, "MIN_SAFE_INTEGER", runtime.NewNumber(-(1<<53 - 1)))
	setConstant(ctor, "MAX_VALUE", runtime.NewNumber(math.MaxFloat64))
	setConstant(ctor, "MIN_VALUE", runtime.NewNumber(5e-324))
	setConstant(ctor, "EPSILON", runtime.NewNumber(math.Nextafter(1, 2)-1))
	setConstant(ctor, "POSITIVE_INFINITY", runtime.PosInf)
	setConstant(ctor, "NEGATIVE_INFINITY", runtime.NegInf)
	setConstant(ctor, "NaN", runtime.NaN)

	l.setMethod(ctor, "isInteger", 1, numberIsInteger)
	l.setMethod(ctor, "isFinite", 1, numberIsFinite)
	l.setMethod(ctor, "isNaN", 1, numberIsNaN)
	l.setMethod(ctor, "isSafeInteger", 1, numberIsSafeInteger)
	l.setMethod(ctor, "parseFloat", 1, globalParseFloat)
	l.setMethod(ctor, "parseInt", 2, globalParseInt)

	return ctor
}

// thisNumber unboxes the receiver of a Number.prototype method.
func thisNumber(this *runtime.Value, method string) (float64, error) {
	if v := primitive(this); v.Type == runtime.TypeNumber {
		return v.Number, nil
	}
	return 0, fmt.Errorf("TypeError: Number.prototype.%s requires that 'this' be a Number", method)
}

func numberConstructorCall(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	if len(args) == 0 {
		return runtime.Zero, nil
	}
	n, err := toNumber(args[0])
	if err != nil {
		return nil, err
	}
	return runtime.NewNumber(n), nil
}

func (l *lib) numberConstruct(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	v, err := numberConstructorCall(this, args)
	if err != nil {
		return nil, err
	}
	return l.box(v), nil
}

// digitsArg reads an integer argument in [lo, hi] for the formatting methods.
func digitsArg(args []*runtime.Value, method string, lo, hi int) (int, bool, error) {
	a := argAt(args, 0)
	if a.Type == runtime.TypeUndefined {
		return 0, false, nil
	}
	n, err := toInteger(a)
	if err != nil {
		return 0, false, err
	}
	if n < float64(lo) || n > float64(hi) {
		return 0, false, fmt.Errorf("RangeError: %s() argument must be between %d and %d", method, lo, hi)
	}
	return int(n), true, nil
}

func numberToFixed(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	n, err := thisNumber(this, "toFixed")
	if err != nil {
		return nil, err
	}
	digits, _, err := digitsArg(args, "toFixed", 0, 100)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(n) || math.IsInf(n, 0) || math.Abs(n) >= 1e21 {
		return runtime.NewString(runtime.NumberToString(n)), nil
	}
	return runtime.NewString(fixed(n, digits)), nil
}

// fixed formats n with digits fractional digits, rounding ties away from
// zero. strconv rounds ties to even, so the exact expansion is rounded by
// hand.
func fixed(n float64, digits int) string {
	s := strconv.FormatFloat(math.Abs(n), 'f', 1100, 64)
	dot := strings.IndexByte(s, '.')
	keep := []byte(s[:dot+1+digits])
	if s[dot+1+digits] >= '5' {
		i := len(keep) - 1
		for ; i >= 0; i-- {
			if keep[i] == '.' {
				continue
			}
			if keep[i] != '9' {
				keep[i]++
				break
			}
			keep[i] = '0'
		}
		if i < 0 {
			keep = append([]byte{'1'}, keep...)
		}
	}
	out := strings.TrimSuffix(string(keep), ".")
	if n < 0 {
		out = "-" + out
	}
	return out
}

// exponential rewrites Go's e-notation exponent ("e+05") the JS way ("e+5").
func exponential(s string) string {
	mant, exp, ok := strings.Cut(s, "e")
	if !ok {
		return s
	}
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mant + "e" + sign + digits
}

func numberToPrecision(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	n, err := thisNumber(this, "toPrecision")
	if err != nil {
		return nil, err
	}
	prec, ok, err := digitsArg(args, "toPrecision", 1, 100)
	if err != nil {
		return nil, err
	}
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
		return runtime.NewString(runtime.NumberToString(n)), nil
	}
	if n == 0 {
		return runtime.NewString(strconv.FormatFloat(0, 'f', prec-1, 64)), nil
	}
	e := strconv.FormatFloat(n, 'e', prec-1, 64)
	_, expPart, _ := strings.Cut(e, "e")
	exp, _ := strconv.Atoi(expPart)
	if exp < -6 || exp >= prec {
		return runtime.NewString(exponential(e)), nil
	}
	return runtime.NewString(strconv.FormatFloat(n, 'f', prec-1-exp, 64)), nil
}

func numberToExponential(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	n, err := thisNumber(this, "toExponential")
	if err != nil {
		return nil, err
	}
	digits, ok, err := digitsArg(args, "toExponential", 0, 100)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return runtime.NewString(runtime.NumberToString(n)), nil
	}
	if !ok {
		digits = -1
	}
	return runtime.NewString(exponential(strconv.FormatFloat(n, 'e', digits, 64))), nil
}

func numberToString(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	n, err := thisNumber(this, "toString")
	if err != nil {
		return nil, err
	}
	radix := 10
	if r := argAt(args, 0); r.Type != runtime.TypeUndefined {
		f, err := toInteger(r)
		if err != nil {
			return nil, err
		}
		if f < 2 || f > 36 {
			return nil, fmt.Errorf("RangeError: toString() radix must be between 2 and 36")
		}
		radix = int(f)
	}
	if radix == 10 || math.IsNaN(n) || math.IsInf(n, 0) {
		return runtime.NewString(runtime.NumberToString(n)), nil
	}
	return runtime.NewString(formatRadix(n, radix)), nil
}

// formatRadix renders n in base radix with up to 20 fractional digits.
func formatRadix(n float64, radix int) string {
	const digitChars = "0123456789abcdefghijklmnopqrstuvwxyz"
	neg := n < 0
	n = math.Abs(n)
	whole := math.Floor(n)
	frac := n - whole

	var intDigits []byte
	for whole >= 1 {
		d := int(math.Mod(whole, float64(radix)))
		intDigits = append(intDigits, digitChars[d])
		whole = math.Floor(whole / float64(radix))
	}
	if len(intDigits) == 0 {
		intDigits = []byte{'0'}
	}
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i := len(intDigits) - 1; i >= 0; i-- {
		b.WriteByte(intDigits[i])
	}
	if frac > 0 {
		b.WriteByte('.')
		for i := 0; i < 20 && frac > 0; i++ {
			frac *= float64(radix)
			d := int(frac)
			b.WriteByte(digitChars[d])
			frac -= float64(d)
		}
	}
	return b.String()
}

func numberValueOf(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	n, err := thisNumber(this, "valueOf")
	if err != nil {
		return nil, err
	}
	return runtime.NewNumber(n), nil
}

func numberIsInteger(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	a := argAt(args, 0)
	return runtime.NewBool(a.Type == runtime.TypeNumber && runtime.IsInteger(a.Number)), nil
}

func numberIsFinite(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	a := argAt(args, 0)
	return runtime.NewBool(a.Type == runtime.TypeNumber && !math.IsNaN(a.Number) && !math.IsInf(a.Number, 0)), nil
}

func numberIsNaN(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	a := argAt(args, 0)
	return runtime.NewBool(a.Type == runtime.TypeNumber && math.IsNaN(a.Number)), nil
}

func numberIsSafeInteger(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	a := argAt(args, 0)
	ok := a.Type == runtime.TypeNumber && runtime.IsInteger(a.Number) && math.Abs(a.Number) <= 1<<53-1
	return runtime.NewBool(ok), nil
}
