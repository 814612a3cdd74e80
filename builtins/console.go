package builtins

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/jsvm/runtime"
)

const inspectDepth = 2

func (l *lib) createConsoleObject() *runtime.Object {
	console := l.realm.NewObject()

	l.setMethod(console, "log", 0, l.printer(func() io.Writer { return l.stdout }))
	l.setMethod(console, "info", 0, l.printer(func() io.Writer { return l.stdout }))
	l.setMethod(console, "debug", 0, l.printer(func() io.Writer { return l.stdout }))
	l.setMethod(console, "warn", 0, l.printer(func() io.Writer { return l.stderr }))
	l.setMethod(console, "error", 0, l.printer(func() io.Writer { return l.stderr }))
	l.setMethod(console, "assert", 0, l.consoleAssert)

	return console
}

func (l *lib) printer(out func() io.Writer) runtime.CallableFunc {
	return func(_ *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		fmt.Fprintln(out(), formatArgs(args))
		return runtime.Undefined, nil
	}
}

func (l *lib) consoleAssert(_ *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	if argAt(args, 0).ToBoolean() {
		return runtime.Undefined, nil
	}
	msg := "Assertion failed"
	if len(args) > 1 {
		msg += ": " + formatArgs(args[1:])
	}
	fmt.Fprintln(l.stderr, msg)
	return runtime.Undefined, nil
}

// formatArgs joins console arguments the way Node does: top-level strings
// print raw, everything else is inspected.
func formatArgs(args []*runtime.Value) string {
	parts := make([]string, len(args))
	for i, a := range args {
		if a.Type == runtime.TypeString {
			parts[i] = a.Str
		} else {
			parts[i] = Inspect(a)
		}
	}
	return strings.Join(parts, " ")
}

// Inspect renders v for display, quoting strings and expanding objects
// two levels deep.
func Inspect(v *runtime.Value) string {
	var b strings.Builder
	inspect(&b, v, 0, nil)
	return b.String()
}

func inspect(b *strings.Builder, v *runtime.Value, depth int, seen []*runtime.Object) {
	if v == nil {
		b.WriteString("undefined")
		return
	}
	switch v.Type {
	case runtime.TypeString:
		b.WriteString("'" + strings.ReplaceAll(v.Str, "'", `\'`) + "'")
		return
	case runtime.TypeObject:
	default:
		b.WriteString(v.ToString())
		return
	}

	obj := v.Object
	for _, s := range seen {
		if s == obj {
			b.WriteString("[Circular]")
			return
		}
	}
	switch obj.OType {
	case runtime.ObjTypeFunction:
		name := obj.Get("name").ToString()
		if name == "" {
			b.WriteString("[Function (anonymous)]")
		} else {
			b.WriteString("[Function: " + name + "]")
		}
		return
	case runtime.ObjTypeError:
		b.WriteString(obj.Get("stack").ToString())
		return
	case runtime.ObjTypeRegExp:
		b.WriteString("/" + obj.Get("source").ToString() + "/" + obj.Get("flags").ToString())
		return
	case runtime.ObjTypeBoxed:
		prim, _ := obj.Slot("primitive").(*runtime.Value)
		if prim != nil {
			t := prim.TypeOf()
			b.WriteString("[" + strings.ToUpper(t[:1]) + t[1:] + ": ")
			inspect(b, prim, depth+1, seen)
			b.WriteString("]")
			return
		}
	case runtime.ObjTypePromise:
		b.WriteString("Promise { ")
		switch p := runtime.PromiseOf(v); {
		case p == nil || p.State == runtime.PromisePending:
			b.WriteString("<pending>")
		case p.State == runtime.PromiseRejected:
			b.WriteString("<rejected> ")
			inspect(b, p.Result, depth+1, append(seen, obj))
		default:
			inspect(b, p.Result, depth+1, append(seen, obj))
		}
		b.WriteString(" }")
		return
	}

	if depth > inspectDepth {
		if obj.OType == runtime.ObjTypeArray {
			b.WriteString("[Array]")
		} else {
			b.WriteString("[Object]")
		}
		return
	}
	seen = append(seen, obj)

	var parts []string
	if obj.OType == runtime.ObjTypeArray {
		holes := 0
		flush := func() {
			if holes > 0 {
				parts = append(parts, fmt.Sprintf("<%d empty item%s>", holes, plural(holes)))
				holes = 0
			}
		}
		for _, el := range obj.ArrayData {
			if el == nil {
				holes++
				continue
			}
			flush()
			var eb strings.Builder
			inspect(&eb, el, depth+1, seen)
			parts = append(parts, eb.String())
		}
		flush()
	}
	for _, k := range obj.EnumerableKeys() {
		if obj.OType == runtime.ObjTypeArray && isIndexKey(k) {
			continue
		}
		var eb strings.Builder
		eb.WriteString(inspectKey(k) + ": ")
		prop := obj.GetOwnProperty(k)
		if prop != nil && prop.IsAccessor {
			eb.WriteString("[Getter/Setter]")
		} else {
			inspect(&eb, obj.Get(k), depth+1, seen)
		}
		parts = append(parts, eb.String())
	}

	prefix := ""
	if name := constructorName(obj); name != "" && name != "Object" && name != "Array" {
		prefix = name + " "
	}
	open, close := "{", "}"
	if obj.OType == runtime.ObjTypeArray {
		open, close = "[", "]"
	}
	if len(parts) == 0 {
		b.WriteString(prefix + open + close)
		return
	}
	b.WriteString(prefix + open + " " + strings.Join(parts, ", ") + " " + close)
}

func constructorName(obj *runtime.Object) string {
	if obj.Prototype == nil {
		return "[Object: null prototype]"
	}
	ctor := obj.Prototype.Get("constructor")
	if !ctor.IsObject() {
		return ""
	}
	return ctor.Object.Get("name").ToString()
}

func inspectKey(k string) string {
	for i, r := range k {
		ident := r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (i > 0 && r >= '0' && r <= '9')
		if !ident {
			return "'" + k + "'"
		}
	}
	if k == "" {
		return "''"
	}
	return k
}

func isIndexKey(k string) bool {
	n, err := strconv.Atoi(k)
	return err == nil && n >= 0 && strconv.Itoa(n) == k
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
