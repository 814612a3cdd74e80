package builtins

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/dlclark/regexp2"

	"github.com/example/jsvm/runtime"
)

func (l *lib) createStringConstructor() *runtime.Object {
	proto := l.realm.StringPrototype
	proto.OType = runtime.ObjTypeBoxed
	proto.SetSlot("primitive", runtime.NewString(""))

	l.setMethod(proto, "charAt", 1, stringCharAt)
	l.setMethod(proto, "charCodeAt", 1, stringCharCodeAt)
	l.setMethod(proto, "codePointAt", 1, stringCodePointAt)
	l.setMethod(proto, "at", 1, stringAt)
	l.setMethod(proto, "indexOf", 1, stringIndexOf)
	l.setMethod(proto, "lastIndexOf", 1, stringLastIndexOf)
	l.setMethod(proto, "includes", 1, stringIncludes)
	l.setMethod(proto, "startsWith", 1, stringStartsWith)
	l.setMethod(proto, "endsWith", 1, stringEndsWith)
	l.setMethod(proto, "slice", 2, stringSlice)
	l.setMethod(proto, "substring", 2, stringSubstring)
	l.setMethod(proto, "substr", 2, stringSubstr)
	l.setMethod(proto, "toUpperCase", 0, stringToUpperCase)
	l.setMethod(proto, "toLowerCase", 0, stringToLowerCase)
	l.setMethod(proto, "toLocaleUpperCase", 0, stringToUpperCase)
	l.setMethod(proto, "toLocaleLowerCase", 0, stringToLowerCase)
	l.setMethod(proto, "trim", 0, stringTrim)
	l.setMethod(proto, "trimStart", 0, stringTrimStart)
	l.setMethod(proto, "trimEnd", 0, stringTrimEnd)
	l.setMethod(proto, "padStart", 2, stringPadStart)
	l.setMethod(proto, "padEnd", 2, stringPadEnd)
	l.setMethod(proto, "repeat", 1, stringRepeat)
	l.setMethod(proto, "concat", 1, stringConcat)
	l.setMethod(proto, "split", 2, l.stringSplit)
	l.setMethod(proto, "replace", 2, l.stringReplace)
	l.setMethod(proto, "replaceAll", 2, l.stringReplaceAll)
	l.setMethod(proto, "match", 1, l.stringMatch)
	l.setMethod(proto, "matchAll", 1, l.stringMatchAll)
	l.setMethod(proto, "search", 1, l.stringSearch)
	l.setMethod(proto, "localeCompare", 1, stringLocaleCompare)
	l.setMethod(proto, "toString", 0, stringValueOf)
	l.setMethod(proto, "valueOf", 0, stringValueOf)
	l.setMethod(proto, iteratorKey, 0, l.stringIterator)

	ctor := l.newConstructor("String", 1, proto, stringConstructorCall, l.stringConstruct)

	l.setMethod(ctor, "fromCharCode", 1, stringFromCharCode)
	l.setMethod(ctor, "fromCodePoint", 1, stringFromCodePoint)

	return ctor
}

func stringConstructorCall(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	if len(args) == 0 {
		return runtime.NewString(""), nil
	}
	s, err := toStr(args[0])
	if err != nil {
		return nil, err
	}
	return runtime.NewString(s), nil
}

func (l *lib) stringConstruct(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	v, err := stringConstructorCall(this, args)
	if err != nil {
		return nil, err
	}
	return l.box(v), nil
}

const maxStringLength = 1 << 29

// thisString coerces the receiver, rejecting undefined and null.
func thisString(this *runtime.Value, method string) ([]rune, error) {
	if this.IsNullish() {
		return nil, fmt.Errorf("TypeError: String.prototype.%s called on null or undefined", method)
	}
	s, err := toStr(primitive(this))
	if err != nil {
		return nil, err
	}
	return []rune(s), nil
}

// argString converts args[i] to a string, using def for undefined.
func argString(args []*runtime.Value, i int, def string) (string, error) {
	v := argAt(args, i)
	if v.Type == runtime.TypeUndefined {
		return def, nil
	}
	return toStr(v)
}

func stringValueOf(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	if v := primitive(this); v.Type == runtime.TypeString {
		return v, nil
	}
	return nil, fmt.Errorf("TypeError: String.prototype.valueOf requires that 'this' be a String")
}

func stringCharAt(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	s, err := thisString(this, "charAt")
	if err != nil {
		return nil, err
	}
	n, err := toInteger(argAt(args, 0))
	if err != nil {
		return nil, err
	}
	if n < 0 || n >= float64(len(s)) {
		return runtime.NewString(""), nil
	}
	return runtime.NewString(string(s[int(n)])), nil
}

func stringCharCodeAt(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	s, err := thisString(this, "charCodeAt")
	if err != nil {
		return nil, err
	}
	n, err := toInteger(argAt(args, 0))
	if err != nil {
		return nil, err
	}
	if n < 0 || n >= float64(len(s)) {
		return runtime.NaN, nil
	}
	r := s[int(n)]
	if r > 0xFFFF {
		hi, _ := utf16.EncodeRune(r)
		return runtime.NewNumber(float64(hi)), nil
	}
	return runtime.NewNumber(float64(r)), nil
}

func stringCodePointAt(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	s, err := thisString(this, "codePointAt")
	if err != nil {
		return nil, err
	}
	n, err := toInteger(argAt(args, 0))
	if err != nil {
		return nil, err
	}
	if n < 0 || n >= float64(len(s)) {
		return runtime.Undefined, nil
	}
	return runtime.NewNumber(float64(s[int(n)])), nil
}

func stringAt(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	s, err := thisString(this, "at")
	if err != nil {
		return nil, err
	}
	n, err := toInteger(argAt(args, 0))
	if err != nil {
		return nil, err
	}
	if n < 0 {
		n += float64(len(s))
	}
	if n < 0 || n >= float64(len(s)) {
		return runtime.Undefined, nil
	}
	return runtime.NewString(string(s[int(n)])), nil
}

// runeIndex finds sub in s at or after from, in runes.
func runeIndex(s, sub []rune, from int) int {
	for i := from; i+len(sub) <= len(s); i++ {
		if string(s[i:i+len(sub)]) == string(sub) {
			return i
		}
	}
	return -1
}

func stringIndexOf(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	s, err := thisString(this, "indexOf")
	if err != nil {
		return nil, err
	}
	sub, err := argString(args, 0, "undefined")
	if err != nil {
		return nil, err
	}
	from, err := toInteger(argAt(args, 1))
	if err != nil {
		return nil, err
	}
	from = math.Max(0, math.Min(from, float64(len(s))))
	return runtime.NewNumber(float64(runeIndex(s, []rune(sub), int(from)))), nil
}

func stringLastIndexOf(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	s, err := thisString(this, "lastIndexOf")
	if err != nil {
		return nil, err
	}
	sub, err := argString(args, 0, "undefined")
	if err != nil {
		return nil, err
	}
	subRunes := []rune(sub)
	from := len(s) - len(subRunes)
	if pos := argAt(args, 1); pos.Type != runtime.TypeUndefined {
		n, err := toNumber(pos)
		if err != nil {
			return nil, err
		}
		if !math.IsNaN(n) {
			from = int(math.Min(math.Max(math.Trunc(n), 0), float64(from)))
		}
	}
	for i := from; i >= 0; i-- {
		if i+len(subRunes) <= len(s) && string(s[i:i+len(subRunes)]) == sub {
			return runtime.NewNumber(float64(i)), nil
		}
	}
	return runtime.NewNumber(-1), nil
}

func rejectRegExp(v *runtime.Value, method string) error {
	if regexpOf(v) != nil {
		return fmt.Errorf("TypeError: First argument to String.prototype.%s must not be a regular expression", method)
	}
	return nil
}

func stringIncludes(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	s, err := thisString(this, "includes")
	if err != nil {
		return nil, err
	}
	if err := rejectRegExp(argAt(args, 0), "includes"); err != nil {
		return nil, err
	}
	sub, err := argString(args, 0, "undefined")
	if err != nil {
		return nil, err
	}
	from, err := relativeIndex(argAt(args, 1), len(s), 0)
	if err != nil {
		return nil, err
	}
	return runtime.NewBool(runeIndex(s, []rune(sub), from) >= 0), nil
}

func stringStartsWith(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	s, err := thisString(this, "startsWith")
	if err != nil {
		return nil, err
	}
	if err := rejectRegExp(argAt(args, 0), "startsWith"); err != nil {
		return nil, err
	}
	sub, err := argString(args, 0, "undefined")
	if err != nil {
		return nil, err
	}
	pos, err := toInteger(argAt(args, 1))
	if err != nil {
		return nil, err
	}
	start := int(math.Max(0, math.Min(pos, float64(len(s)))))
	return runtime.NewBool(strings.HasPrefix(string(s[start:]), sub)), nil
}

func stringEndsWith(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	s, err := thisString(this, "endsWith")
	if err != nil {
		return nil, err
	}
	if err := rejectRegExp(argAt(args, 0), "endsWith"); err != nil {
		return nil, err
	}
	sub, err := argString(args, 0, "undefined")
	if err != nil {
		return nil, err
	}
	end := len(s)
	if pos := argAt(args, 1); pos.Type != runtime.TypeUndefined {
		n, err := toInteger(pos)
		if err != nil {
			return nil, err
		}
		end = int(math.Max(0, math.Min(n, float64(len(s)))))
	}
	return runtime.NewBool(strings.HasSuffix(string(s[:end]), sub)), nil
}

func stringSlice(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	s, err := thisString(this, "slice")
	if err != nil {
		return nil, err
	}
	start, err := relativeIndex(argAt(args, 0), len(s), 0)
	if err != nil {
		return nil, err
	}
	end, err := relativeIndex(argAt(args, 1), len(s), len(s))
	if err != nil {
		return nil, err
	}
	if start >= end {
		return runtime.NewString(""), nil
	}
	return runtime.NewString(string(s[start:end])), nil
}

func stringSubstring(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	s, err := thisString(this, "substring")
	if err != nil {
		return nil, err
	}
	clamp := func(v *runtime.Value, def int) (int, error) {
		if v.Type == runtime.TypeUndefined {
			return def, nil
		}
		n, err := toInteger(v)
		if err != nil {
			return 0, err
		}
		return int(math.Max(0, math.Min(n, float64(len(s))))), nil
	}
	start, err := clamp(argAt(args, 0), 0)
	if err != nil {
		return nil, err
	}
	end, err := clamp(argAt(args, 1), len(s))
	if err != nil {
		return nil, err
	}
	if start > end {
		start, end = end, start
	}
	return runtime.NewString(string(s[start:end])), nil
}

func stringSubstr(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	s, err := thisString(this, "substr")
	if err != nil {
		return nil, err
	}
	start, err := relativeIndex(argAt(args, 0), len(s), 0)
	if err != nil {
		return nil, err
	}
	length := float64(len(s) - start)
	if l := argAt(args, 1); l.Type != runtime.TypeUndefined {
		n, err := toInteger(l)
		if err != nil {
			return nil, err
		}
		length = math.Max(0, math.Min(n, length))
	}
	return runtime.NewString(string(s[start : start+int(length)])), nil
}

func stringToUpperCase(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	s, err := thisString(this, "toUpperCase")
	if err != nil {
		return nil, err
	}
	return runtime.NewString(strings.ToUpper(string(s))), nil
}

func stringToLowerCase(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	s, err := thisString(this, "toLowerCase")
	if err != nil {
		return nil, err
	}
	return runtime.NewString(strings.ToLower(string(s))), nil
}

// jsSpace matches the WhiteSpace and LineTerminator productions.
const jsSpace = " \t\n\v\f\r\u00a0\u1680\u2000\u2001\u2002\u2003\u2004\u2005\u2006\u2007\u2008\u2009\u200a\u2028\u2029\u202f\u205f\u3000\ufeff"

func stringTrim(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	s, err := thisString(this, "trim")
	if err != nil {
		return nil, err
	}
	return runtime.NewString(strings.Trim(string(s), jsSpace)), nil
}

func stringTrimStart(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	s, err := thisString(this, "trimStart")
	if err != nil {
		return nil, err
	}
	return runtime.NewString(strings.TrimLeft(string(s), jsSpace)), nil
}

func stringTrimEnd(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	s, err := thisString(this, "trimEnd")
	if err != nil {
		return nil, err
	}
	return runtime.NewString(strings.TrimRight(string(s), jsSpace)), nil
}

func pad(this *runtime.Value, args []*runtime.Value, method string, atStart bool) (*runtime.Value, error) {
	s, err := thisString(this, method)
	if err != nil {
		return nil, err
	}
	target, err := toInteger(argAt(args, 0))
	if err != nil {
		return nil, err
	}
	filler, err := argString(args, 1, " ")
	if err != nil {
		return nil, err
	}
	missing := int(target) - len(s)
	if missing <= 0 || filler == "" {
		return runtime.NewString(string(s)), nil
	}
	fill := []rune(strings.Repeat(filler, missing/len([]rune(filler))+1))[:missing]
	if atStart {
		return runtime.NewString(string(fill) + string(s)), nil
	}
	return runtime.NewString(string(s) + string(fill)), nil
}

func stringPadStart(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	return pad(this, args, "padStart", true)
}

func stringPadEnd(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	return pad(this, args, "padEnd", false)
}

func stringRepeat(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	s, err := thisString(this, "repeat")
	if err != nil {
		return nil, err
	}
	n, err := toInteger(argAt(args, 0))
	if err != nil {
		return nil, err
	}
	if n < 0 || math.IsInf(n, 1) {
		return nil, fmt.Errorf("RangeError: Invalid count value: %s", runtime.NumberToString(n))
	}
	if n*float64(len(s)) > maxStringLength {
		return nil, fmt.Errorf("RangeError: Invalid string length")
	}
	return runtime.NewString(strings.Repeat(string(s), int(n))), nil
}

func stringConcat(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	s, err := thisString(this, "concat")
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	b.WriteString(string(s))
	for _, a := range args {
		part, err := toStr(a)
		if err != nil {
			return nil, err
		}
		b.WriteString(part)
	}
	return runtime.NewString(b.String()), nil
}

func (l *lib) stringSplit(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	s, err := thisString(this, "split")
	if err != nil {
		return nil, err
	}
	limit := math.MaxUint32
	if lv := argAt(args, 1); lv.Type != runtime.TypeUndefined {
		n, err := toNumber(lv)
		if err != nil {
			return nil, err
		}
		limit = int(runtime.ToUint32(n))
	}
	var parts []*runtime.Value
	add := func(p *runtime.Value) bool {
		if len(parts) >= limit {
			return false
		}
		parts = append(parts, p)
		return true
	}
	sepArg := argAt(args, 0)
	switch {
	case sepArg.Type == runtime.TypeUndefined:
		add(runtime.NewString(string(s)))
	case regexpOf(sepArg) != nil:
		if err := splitRegExp(regexpOf(sepArg), s, add); err != nil {
			return nil, err
		}
	default:
		sep, err := toStr(sepArg)
		if err != nil {
			return nil, err
		}
		if sep == "" {
			for _, r := range s {
				if !add(runtime.NewString(string(r))) {
					break
				}
			}
			break
		}
		for _, p := range strings.Split(string(s), sep) {
			if !add(runtime.NewString(p)) {
				break
			}
		}
	}
	return l.newArray(parts), nil
}

// splitRegExp splits on every match, splicing capture groups into the
// output the way String.prototype.split does.
func splitRegExp(re *regexp2.Regexp, s []rune, add func(*runtime.Value) bool) error {
	if len(s) == 0 {
		m, err := re.FindRunesMatchStartingAt(s, 0)
		if err != nil {
			return err
		}
		if m == nil {
			add(runtime.NewString(""))
		}
		return nil
	}
	last := 0
	for from := 0; from < len(s); {
		m, err := re.FindRunesMatchStartingAt(s, from)
		if err != nil {
			return err
		}
		if m == nil || m.Index >= len(s) {
			break
		}
		end := m.Index + m.Length
		if end == last {
			from = m.Index + 1
			continue
		}
		if !add(runtime.NewString(string(s[last:m.Index]))) {
			return nil
		}
		captures, _ := captureValues(m)
		for _, c := range captures {
			if !add(c) {
				return nil
			}
		}
		last, from = end, end
	}
	add(runtime.NewString(string(s[last:])))
	return nil
}

// replacer computes the replacement text for one match, calling a function
// replacer or expanding a template.
func replacer(replaceArg *runtime.Value) (func(matched string, pos int, input []rune, captures []*runtime.Value, named *runtime.Value) (string, error), error) {
	if replaceArg.IsCallable() {
		return func(matched string, pos int, input []rune, captures []*runtime.Value, named *runtime.Value) (string, error) {
			args := append([]*runtime.Value{runtime.NewString(matched)}, captures...)
			args = append(args, runtime.NewNumber(float64(pos)), runtime.NewString(string(input)))
			if named.IsObject() {
				args = append(args, named)
			}
			v, err := callFunction(replaceArg, runtime.Undefined, args...)
			if err != nil {
				return "", err
			}
			return toStr(v)
		}, nil
	}
	tmpl, err := toStr(replaceArg)
	if err != nil {
		return nil, err
	}
	return func(matched string, pos int, input []rune, captures []*runtime.Value, named *runtime.Value) (string, error) {
		return expandReplacement(tmpl, matched, input, pos, captures, named), nil
	}, nil
}

// captureValues splits a regexp2 match into its positional captures and
// the named-groups object.
func captureValues(m *regexp2.Match) ([]*runtime.Value, *runtime.Value) {
	groups := m.Groups()
	captures := make([]*runtime.Value, 0, len(groups))
	named := runtime.Undefined
	for i, g := range groups {
		if i == 0 {
			continue
		}
		v := runtime.Undefined
		if len(g.Captures) > 0 {
			v = runtime.NewString(g.String())
		}
		captures = append(captures, v)
		if g.Name != strconv.Itoa(i) {
			if named == runtime.Undefined {
				named = runtime.NewObject(runtime.NewOrdinaryObject(nil))
			}
			named.Object.Set(g.Name, v)
		}
	}
	return captures, named
}

func (l *lib) stringReplace(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	return l.replace(this, args, "replace", false)
}

func (l *lib) stringReplaceAll(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	return l.replace(this, args, "replaceAll", true)
}

func (l *lib) replace(this *runtime.Value, args []*runtime.Value, method string, all bool) (*runtime.Value, error) {
	s, err := thisString(this, method)
	if err != nil {
		return nil, err
	}
	pattern := argAt(args, 0)
	repl, err := replacer(argAt(args, 1))
	if err != nil {
		return nil, err
	}

	if re := regexpOf(pattern); re != nil {
		global := strings.Contains(pattern.Object.Get("flags").ToString(), "g")
		if all && !global {
			return nil, fmt.Errorf("TypeError: replaceAll must be called with a global RegExp")
		}
		var matches []*regexp2.Match
		if global {
			if matches, err = allMatches(re, string(s)); err != nil {
				return nil, err
			}
			pattern.Object.Set("lastIndex", runtime.Zero)
		} else {
			m, err := execRegExp(pattern, string(s))
			if err != nil {
				return nil, err
			}
			if m != nil {
				matches = append(matches, m)
			}
		}
		var b strings.Builder
		last := 0
		for _, m := range matches {
			captures, named := captureValues(m)
			out, err := repl(m.String(), m.Index, s, captures, named)
			if err != nil {
				return nil, err
			}
			b.WriteString(string(s[last:m.Index]))
			b.WriteString(out)
			last = m.Index + m.Length
		}
		b.WriteString(string(s[last:]))
		return runtime.NewString(b.String()), nil
	}

	search, err := toStr(pattern)
	if err != nil {
		return nil, err
	}
	needle := []rune(search)
	var b strings.Builder
	last, from := 0, 0
	for {
		pos := runeIndex(s, needle, from)
		if pos < 0 {
			break
		}
		out, err := repl(search, pos, s, nil, runtime.Undefined)
		if err != nil {
			return nil, err
		}
		b.WriteString(string(s[last:pos]))
		b.WriteString(out)
		last = pos + len(needle)
		from = last
		if len(needle) == 0 {
			from++
		}
		if !all || from > len(s) {
			break
		}
	}
	b.WriteString(string(s[last:]))
	return runtime.NewString(b.String()), nil
}

// coerceRegExp returns v when it is a RegExp and otherwise compiles it as
// a pattern with flags.
func (l *lib) coerceRegExp(v *runtime.Value, flags string) (*runtime.Value, error) {
	if regexpOf(v) != nil {
		return v, nil
	}
	pattern := ""
	if v.Type != runtime.TypeUndefined {
		var err error
		if pattern, err = toStr(v); err != nil {
			return nil, err
		}
	}
	return l.newRegExp(pattern, flags)
}

func (l *lib) stringMatch(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	s, err := thisString(this, "match")
	if err != nil {
		return nil, err
	}
	rx, err := l.coerceRegExp(argAt(args, 0), "")
	if err != nil {
		return nil, err
	}
	if !strings.Contains(rx.Object.Get("flags").ToString(), "g") {
		m, err := execRegExp(rx, string(s))
		if err != nil || m == nil {
			return runtime.Null, err
		}
		return l.matchArray(m, string(s)), nil
	}
	matches, err := allMatches(regexpOf(rx), string(s))
	if err != nil {
		return nil, err
	}
	rx.Object.Set("lastIndex", runtime.Zero)
	if len(matches) == 0 {
		return runtime.Null, nil
	}
	out := make([]*runtime.Value, len(matches))
	for i, m := range matches {
		out[i] = runtime.NewString(m.String())
	}
	return l.newArray(out), nil
}

func (l *lib) stringMatchAll(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	s, err := thisString(this, "matchAll")
	if err != nil {
		return nil, err
	}
	rx, err := l.coerceRegExp(argAt(args, 0), "g")
	if err != nil {
		return nil, err
	}
	if !strings.Contains(rx.Object.Get("flags").ToString(), "g") {
		return nil, fmt.Errorf("TypeError: String.prototype.matchAll called with a non-global RegExp argument")
	}
	matches, err := allMatches(regexpOf(rx), string(s))
	if err != nil {
		return nil, err
	}
	i := 0
	return l.newListIterator(func() (*runtime.Value, bool) {
		if i >= len(matches) {
			return nil, false
		}
		i++
		return l.matchArray(matches[i-1], string(s)), true
	}), nil
}

func (l *lib) stringSearch(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	s, err := thisString(this, "search")
	if err != nil {
		return nil, err
	}
	rx, err := l.coerceRegExp(argAt(args, 0), "")
	if err != nil {
		return nil, err
	}
	m, err := match(regexpOf(rx), s, 0, false)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return runtime.NewNumber(-1), nil
	}
	return runtime.NewNumber(float64(m.Index)), nil
}

func stringLocaleCompare(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	s, err := thisString(this, "localeCompare")
	if err != nil {
		return nil, err
	}
	other, err := toStr(argAt(args, 0))
	if err != nil {
		return nil, err
	}
	return runtime.NewNumber(float64(strings.Compare(string(s), other))), nil
}

func (l *lib) stringIterator(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	s, err := thisString(this, iteratorKey)
	if err != nil {
		return nil, err
	}
	i := 0
	return l.newListIterator(func() (*runtime.Value, bool) {
		if i >= len(s) {
			return nil, false
		}
		i++
		return runtime.NewString(string(s[i-1])), true
	}), nil
}

func stringFromCharCode(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	units := make([]uint16, len(args))
	for i, a := range args {
		n, err := toNumber(a)
		if err != nil {
			return nil, err
		}
		units[i] = uint16(runtime.ToUint32(n))
	}
	return runtime.NewString(string(utf16.Decode(units))), nil
}

func stringFromCodePoint(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	var b strings.Builder
	for _, a := range args {
		n, err := toNumber(a)
		if err != nil {
			return nil, err
		}
		if n < 0 || n > unicode.MaxRune || n != math.Trunc(n) {
			return nil, fmt.Errorf("RangeError: Invalid code point %s", runtime.NumberToString(n))
		}
		b.WriteRune(rune(n))
	}
	return runtime.NewString(b.String()), nil
}
