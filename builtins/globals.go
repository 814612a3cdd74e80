package builtins

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/example/jsvm/runtime"
)

func (l *lib) registerGlobalFunctions(g map[string]*runtime.Value) {
	fn := func(name string, length int, f runtime.CallableFunc) {
		g[name] = runtime.NewObject(l.newFuncObject(name, length, f))
	}
	fn("parseInt", 2, globalParseInt)
	fn("parseFloat", 1, globalParseFloat)
	fn("isNaN", 1, globalIsNaN)
	fn("isFinite", 1, globalIsFinite)
	fn("encodeURI", 1, globalEncodeURI)
	fn("decodeURI", 1, globalDecodeURI)
	fn("encodeURIComponent", 1, globalEncodeURIComponent)
	fn("decodeURIComponent", 1, globalDecodeURIComponent)
	fn("eval", 1, globalEval)

	g["undefined"] = runtime.Undefined
	g["NaN"] = runtime.NaN
	g["Infinity"] = runtime.PosInf
}

func globalParseInt(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	str, err := toStr(argAt(args, 0))
	if err != nil {
		return nil, err
	}
	s := strings.TrimLeft(str, jsSpace)
	radix := 0
	if r := argAt(args, 1); r.Type != runtime.TypeUndefined {
		n, err := toNumber(r)
		if err != nil {
			return nil, err
		}
		radix = int(runtime.ToInt32(n))
	}

	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	if radix != 0 && (radix < 2 || radix > 36) {
		return runtime.NaN, nil
	}
	if (radix == 0 || radix == 16) && len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s, radix = s[2:], 16
	}
	if radix == 0 {
		radix = 10
	}

	result, digits := 0.0, 0
	for _, c := range s {
		d := digitValue(c)
		if d < 0 || d >= radix {
			break
		}
		result = result*float64(radix) + float64(d)
		digits++
	}
	if digits == 0 {
		return runtime.NaN, nil
	}
	if neg {
		result = -result
	}
	return runtime.NewNumber(result), nil
}

func digitValue(c rune) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	}
	return -1
}

func globalParseFloat(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	str, err := toStr(argAt(args, 0))
	if err != nil {
		return nil, err
	}
	s := strings.TrimLeft(str, jsSpace)
	body := strings.TrimLeft(s, "+-")
	if strings.HasPrefix(body, "Infinity") && len(s)-len(body) <= 1 {
		if strings.HasPrefix(s, "-") {
			return runtime.NegInf, nil
		}
		return runtime.PosInf, nil
	}

	// Longest prefix matching StrDecimalLiteral.
	end, mantissa := 0, false
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		end, mantissa = i, true
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
			end, mantissa = i, true
		}
	}
	if mantissa && i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
			end = j
		}
	}
	if !mantissa {
		return runtime.NaN, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); !ok || ne.Err != strconv.ErrRange {
			return runtime.NaN, nil
		}
	}
	return runtime.NewNumber(f), nil
}

func globalIsNaN(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	n, err := toNumber(argAt(args, 0))
	if err != nil {
		return nil, err
	}
	return runtime.NewBool(math.IsNaN(n)), nil
}

func globalIsFinite(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	n, err := toNumber(argAt(args, 0))
	if err != nil {
		return nil, err
	}
	return runtime.NewBool(!math.IsNaN(n) && !math.IsInf(n, 0)), nil
}

func globalEval(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	return nil, fmt.Errorf("EvalError: eval is not supported")
}

const (
	uriUnreserved = "-_.!~*'()"
	uriReserved   = ";/?:@&=+$,#"
)

func uriArg(args []*runtime.Value) (string, error) {
	return toStr(argAt(args, 0))
}

func globalEncodeURI(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	s, err := uriArg(args)
	if err != nil {
		return nil, err
	}
	return runtime.NewString(encodeURI(s, uriUnreserved+uriReserved)), nil
}

func globalEncodeURIComponent(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	s, err := uriArg(args)
	if err != nil {
		return nil, err
	}
	return runtime.NewString(encodeURI(s, uriUnreserved)), nil
}

func globalDecodeURI(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	s, err := uriArg(args)
	if err != nil {
		return nil, err
	}
	out, err := decodeURI(s, uriReserved)
	if err != nil {
		return nil, err
	}
	return runtime.NewString(out), nil
}

func globalDecodeURIComponent(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	s, err := uriArg(args)
	if err != nil {
		return nil, err
	}
	out, err := decodeURI(s, "")
	if err != nil {
		return nil, err
	}
	return runtime.NewString(out), nil
}

// encodeURI percent-encodes the UTF-8 bytes of every rune outside the
// alphanumerics and keep.
func encodeURI(s, keep string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || strings.ContainsRune(keep, r) {
			b.WriteRune(r)
			continue
		}
		var buf [utf8.UTFMax]byte
		n := utf8.EncodeRune(buf[:], r)
		for _, c := range buf[:n] {
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

// decodeURI reverses percent-encoding, leaving escapes of characters in
// preserve untouched.
func decodeURI(s, preserve string) (string, error) {
	malformed := fmt.Errorf("URIError: URI malformed")
	var b strings.Builder
	for i := 0; i < len(s); {
		if s[i] != '%' {
			b.WriteByte(s[i])
			i++
			continue
		}
		var raw []byte
		start := i
		for i < len(s) && s[i] == '%' {
			if i+2 >= len(s) {
				return "", malformed
			}
			c, err := strconv.ParseUint(s[i+1:i+3], 16, 8)
			if err != nil {
				return "", malformed
			}
			raw = append(raw, byte(c))
			i += 3
			if utf8.FullRune(raw) {
				break
			}
		}
		r, size := utf8.DecodeRune(raw)
		if size != len(raw) || (r == utf8.RuneError && size == 1) {
			return "", malformed
		}
		if r < utf8.RuneSelf && strings.ContainsRune(preserve, r) {
			b.WriteString(s[start:i])
			continue
		}
		b.WriteRune(r)
	}
	return b.String(), nil
}
