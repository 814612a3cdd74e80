package builtins

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/example/jsvm/runtime"
)

const slotRegexp = "regexp"

func (l *lib) createRegExpConstructor() *runtime.Object {
	proto := l.realm.RegExpPrototype

	l.setMethod(proto, "test", 1, l.regexpTest)
	l.setMethod(proto, "exec", 1, l.regexpExec)
	l.setMethod(proto, "toString", 0, regexpToString)

	return l.newConstructor("RegExp", 2, proto, l.regexpConstructorCall, l.regexpConstructorCall)
}

func (l *lib) regexpConstructorCall(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	patternArg, flagsArg := argAt(args, 0), argAt(args, 1)
	pattern, flags := "", ""
	if re := regexpOf(patternArg); re != nil {
		pattern = patternArg.Object.Get("source").ToString()
		flags = patternArg.Object.Get("flags").ToString()
	} else if patternArg.Type != runtime.TypeUndefined {
		var err error
		if pattern, err = toStr(patternArg); err != nil {
			return nil, err
		}
	}
	if flagsArg.Type != runtime.TypeUndefined {
		var err error
		if flags, err = toStr(flagsArg); err != nil {
			return nil, err
		}
	}
	return l.newRegExp(pattern, flags)
}

// compileRegExp translates JS flags into regexp2 options. g and y only
// affect lastIndex handling and are not compile options.
func compileRegExp(pattern, flags string) (*regexp2.Regexp, error) {
	opts := regexp2.RegexOptions(regexp2.ECMAScript)
	for _, f := range flags {
		switch f {
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		case 's':
			opts |= regexp2.Singleline
		case 'u':
			opts |= regexp2.Unicode
		case 'g', 'y', 'd':
		default:
			return nil, fmt.Errorf("SyntaxError: Invalid flags supplied to RegExp constructor '%s'", flags)
		}
		if strings.Count(flags, string(f)) > 1 {
			return nil, fmt.Errorf("SyntaxError: Invalid flags supplied to RegExp constructor '%s'", flags)
		}
	}
	re, err := regexp2.Compile(pattern, opts)
	if err != nil {
		return nil, fmt.Errorf("SyntaxError: Invalid regular expression: /%s/: %s", pattern, err)
	}
	return re, nil
}

func (l *lib) newRegExp(pattern, flags string) (*runtime.Value, error) {
	re, err := compileRegExp(pattern, flags)
	if err != nil {
		return nil, err
	}
	obj := runtime.NewOrdinaryObject(l.realm.RegExpPrototype)
	obj.OType = runtime.ObjTypeRegExp
	obj.SetSlot(slotRegexp, re)
	setDataProp(obj, "source", runtime.NewString(pattern), false, false, true)
	setDataProp(obj, "flags", runtime.NewString(flags), false, false, true)
	setDataProp(obj, "global", runtime.NewBool(strings.Contains(flags, "g")), false, false, true)
	setDataProp(obj, "ignoreCase", runtime.NewBool(strings.Contains(flags, "i")), false, false, true)
	setDataProp(obj, "multiline", runtime.NewBool(strings.Contains(flags, "m")), false, false, true)
	setDataProp(obj, "sticky", runtime.NewBool(strings.Contains(flags, "y")), false, false, true)
	setDataProp(obj, "lastIndex", runtime.Zero, true, false, false)
	return runtime.NewObject(obj), nil
}

func regexpOf(v *runtime.Value) *regexp2.Regexp {
	if !v.IsObject() {
		return nil
	}
	re, _ := v.Object.Slot(slotRegexp).(*regexp2.Regexp)
	return re
}

func thisRegExp(this *runtime.Value, method string) (*regexp2.Regexp, error) {
	re := regexpOf(this)
	if re == nil {
		return nil, fmt.Errorf("TypeError: RegExp.prototype.%s called on incompatible receiver %s", method, this.ToString())
	}
	return re, nil
}

// match runs re against s from rune offset start. A sticky match must begin
// exactly at start.
func match(re *regexp2.Regexp, s []rune, start int, sticky bool) (*regexp2.Match, error) {
	if start > len(s) {
		return nil, nil
	}
	m, err := re.FindRunesMatchStartingAt(s, start)
	if err != nil || m == nil {
		return nil, err
	}
	if sticky && m.Index != start {
		return nil, nil
	}
	return m, nil
}

// execRegExp implements RegExpBuiltinExec: global and sticky regexps read and
// advance lastIndex.
func execRegExp(rx *runtime.Value, s string) (*regexp2.Match, error) {
	re := regexpOf(rx)
	flags := rx.Object.Get("flags").ToString()
	global, sticky := strings.Contains(flags, "g"), strings.Contains(flags, "y")
	runes := []rune(s)
	start := 0
	if global || sticky {
		n, err := toInteger(rx.Object.Get("lastIndex"))
		if err != nil {
			return nil, err
		}
		if n < 0 || n > float64(len(runes)) {
			rx.Object.Set("lastIndex", runtime.Zero)
			return nil, nil
		}
		start = int(n)
	}
	m, err := match(re, runes, start, sticky)
	if err != nil {
		return nil, err
	}
	if global || sticky {
		if m == nil {
			rx.Object.Set("lastIndex", runtime.Zero)
		} else {
			rx.Object.Set("lastIndex", runtime.NewNumber(float64(m.Index+m.Length)))
		}
	}
	return m, nil
}

// matchArray builds the exec() result: the match, its groups, index, input
// and named groups.
func (l *lib) matchArray(m *regexp2.Match, input string) *runtime.Value {
	captures, named := captureValues(m)
	els := append([]*runtime.Value{runtime.NewString(m.String())}, captures...)
	arr := l.realm.NewArray(els)
	arr.Set("index", runtime.NewNumber(float64(m.Index)))
	arr.Set("input", runtime.NewString(input))
	arr.Set("groups", named)
	return runtime.NewObject(arr)
}

func (l *lib) regexpTest(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	if _, err := thisRegExp(this, "test"); err != nil {
		return nil, err
	}
	s, err := toStr(argAt(args, 0))
	if err != nil {
		return nil, err
	}
	m, err := execRegExp(this, s)
	if err != nil {
		return nil, err
	}
	return runtime.NewBool(m != nil), nil
}

func (l *lib) regexpExec(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	if _, err := thisRegExp(this, "exec"); err != nil {
		return nil, err
	}
	s, err := toStr(argAt(args, 0))
	if err != nil {
		return nil, err
	}
	m, err := execRegExp(this, s)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return runtime.Null, nil
	}
	return l.matchArray(m, s), nil
}

func regexpToString(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	obj := toObject(this)
	if obj == nil {
		return nil, fmt.Errorf("TypeError: RegExp.prototype.toString called on incompatible receiver %s", this.ToString())
	}
	source := obj.Get("source").ToString()
	if source == "" {
		source = "(?:)"
	}
	return runtime.NewString("/" + source + "/" + obj.Get("flags").ToString()), nil
}

// allMatches returns every non-overlapping match of re in s.
func allMatches(re *regexp2.Regexp, s string) ([]*regexp2.Match, error) {
	var out []*regexp2.Match
	m, err := re.FindRunesMatchStartingAt([]rune(s), 0)
	for m != nil && err == nil {
		out = append(out, m)
		m, err = re.FindNextMatch(m)
	}
	return out, err
}

// expandReplacement substitutes $$, $&, $`, $', $n and $<name> in a
// replacement template.
func expandReplacement(tmpl string, matched string, input []rune, pos int, captures []*runtime.Value, named *runtime.Value) string {
	if !strings.Contains(tmpl, "$") {
		return tmpl
	}
	var b strings.Builder
	r := []rune(tmpl)
	for i := 0; i < len(r); i++ {
		if r[i] != '$' || i+1 == len(r) {
			b.WriteRune(r[i])
			continue
		}
		switch c := r[i+1]; {
		case c == '$':
			b.WriteByte('$')
			i++
		case c == '&':
			b.WriteString(matched)
			i++
		case c == '`':
			b.WriteString(string(input[:pos]))
			i++
		case c == '\'':
			end := pos + len([]rune(matched))
			if end < len(input) {
				b.WriteString(string(input[end:]))
			}
			i++
		case c >= '0' && c <= '9':
			n := int(c - '0')
			width := 1
			if i+2 < len(r) && r[i+2] >= '0' && r[i+2] <= '9' {
				if two := n*10 + int(r[i+2]-'0'); two >= 1 && two <= len(captures) {
					n, width = two, 2
				}
			}
			if n < 1 || n > len(captures) {
				b.WriteRune('$')
				continue
			}
			if v := captures[n-1]; v.Type != runtime.TypeUndefined {
				b.WriteString(v.ToString())
			}
			i += width
		case c == '<' && named.IsObject():
			rest := r[i+2:]
			end := -1
			for j, rr := range rest {
				if rr == '>' {
					end = j
					break
				}
			}
			if end < 0 {
				b.WriteRune('$')
				continue
			}
			if v := named.Object.Get(string(rest[:end])); v.Type != runtime.TypeUndefined {
				b.WriteString(v.ToString())
			}
			i += 2 + end
		default:
			b.WriteRune('$')
		}
	}
	return b.String()
}
