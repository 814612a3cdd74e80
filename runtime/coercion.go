package runtime

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ToNumber implements the ECMAScript ToNumber abstract operation for
// primitives. Objects yield NaN; call ToPrimitive first when valueOf matters.
func (v *Value) ToNumber() float64 {
	if v == nil {
		return math.NaN()
	}
	switch v.Type {
	case TypeNull:
		return 0
	case TypeBoolean:
		if v.Bool {
			return 1
		}
		return 0
	case TypeNumber:
		return v.Number
	case TypeString:
		return StringToNumber(v.Str)
	case TypeObject:
		if prim, ok := v.Object.Slot("primitive").(*Value); ok {
			return prim.ToNumber()
		}
		if v.Object.OType == ObjTypeArray {
			return StringToNumber(v.ToString())
		}
		return math.NaN()
	default:
		return math.NaN()
	}
}

// StringToNumber parses a numeric string literal, including 0x/0o/0b prefixes.
func StringToNumber(str string) float64 {
	s := strings.TrimSpace(str)
	if s == "" {
		return 0
	}
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return math.NaN()
			}
			return float64(n)
		}
	}
	if strings.ContainsAny(s, "_xXpP") || strings.HasPrefix(s, "inf") || strings.HasPrefix(s, "Inf") || strings.EqualFold(s, "nan") {
		return math.NaN()
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return n
		}
		return math.NaN()
	}
	return n
}

// ToInt32 implements the ECMAScript ToInt32 conversion.
func ToInt32(f float64) int32 {
	return int32(ToUint32(f))
}

// ToUint32 implements the ECMAScript ToUint32 conversion.
func ToUint32(f float64) uint32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	f = math.Trunc(f)
	f = math.Mod(f, 4294967296)
	if f < 0 {
		f += 4294967296
	}
	return uint32(f)
}

// ToPrimitive converts objects through valueOf/toString. hint is "number",
// "string" or "default".
func ToPrimitive(v *Value, hint string) (*Value, error) {
	if !v.IsObject() {
		if v == nil {
			return Undefined, nil
		}
		return v, nil
	}
	order := []string{"valueOf", "toString"}
	if hint == "string" {
		order = []string{"toString", "valueOf"}
	}
	called := false
	for _, name := range order {
		fn, err := v.Object.GetWithReceiver(name, v)
		if err != nil {
			return nil, err
		}
		if !fn.IsCallable() {
			continue
		}
		called = true
		result, err := fn.Object.Callable(v, nil)
		if err != nil {
			return nil, err
		}
		if !result.IsObject() {
			return result, nil
		}
	}
	if called {
		return nil, fmt.Errorf("TypeError: Cannot convert object to primitive value")
	}
	// Sandboxes without Object.prototype methods still get a rendering.
	return NewString(v.Object.describe()), nil
}

// ToStringValue is ToString with user-visible toString/valueOf calls.
func ToStringValue(v *Value) (string, error) {
	prim, err := ToPrimitive(v, "string")
	if err != nil {
		return "", err
	}
	return prim.ToString(), nil
}

// ToNumberValue is ToNumber with user-visible valueOf/toString calls.
func ToNumberValue(v *Value) (float64, error) {
	prim, err := ToPrimitive(v, "number")
	if err != nil {
		return 0, err
	}
	return prim.ToNumber(), nil
}

// ToPropertyKey converts a value used as a computed key.
func ToPropertyKey(v *Value) (string, error) {
	if v != nil && v.Type == TypeNumber {
		return NumberToString(v.Number), nil
	}
	return ToStringValue(v)
}

// StrictEquals implements === comparison.
func StrictEquals(a, b *Value) bool {
	if a == nil {
		a = Undefined
	}
	if b == nil {
		b = Undefined
	}
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case TypeUndefined, TypeNull:
		return true
	case TypeBoolean:
		return a.Bool == b.Bool
	case TypeNumber:
		return a.Number == b.Number
	case TypeString:
		return a.Str == b.Str
	case TypeObject:
		return a.Object == b.Object
	default:
		return false
	}
}

// SameValueZero is StrictEquals except that NaN equals NaN.
func SameValueZero(a, b *Value) bool {
	if a != nil && b != nil && a.Type == TypeNumber && b.Type == TypeNumber &&
		math.IsNaN(a.Number) && math.IsNaN(b.Number) {
		return true
	}
	return StrictEquals(a, b)
}

// AbstractEquals implements == comparison.
func AbstractEquals(a, b *Value) (bool, error) {
	if a == nil {
		a = Undefined
	}
	if b == nil {
		b = Undefined
	}
	if a.Type == b.Type {
		return StrictEquals(a, b), nil
	}
	if a.IsNullish() && b.IsNullish() {
		return true, nil
	}
	if a.IsNullish() || b.IsNullish() {
		return false, nil
	}
	switch {
	case a.Type == TypeNumber && b.Type == TypeString:
		return a.Number == b.ToNumber(), nil
	case a.Type == TypeString && b.Type == TypeNumber:
		return a.ToNumber() == b.Number, nil
	case a.Type == TypeBoolean:
		return AbstractEquals(NewNumber(a.ToNumber()), b)
	case b.Type == TypeBoolean:
		return AbstractEquals(a, NewNumber(b.ToNumber()))
	case a.Type == TypeObject:
		prim, err := ToPrimitive(a, "default")
		if err != nil {
			return false, err
		}
		return AbstractEquals(prim, b)
	case b.Type == TypeObject:
		prim, err := ToPrimitive(b, "default")
		if err != nil {
			return false, err
		}
		return AbstractEquals(a, prim)
	}
	return false, nil
}
