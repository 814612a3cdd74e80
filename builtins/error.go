package builtins

import (
	"errors"
	"strings"

	"github.com/example/jsvm/runtime"
)

func (l *lib) createErrorConstructor() *runtime.Object {
	proto := l.realm.ErrorPrototype
	setDataProp(proto, "name", runtime.NewString("Error"), true, false, true)
	setDataProp(proto, "message", runtime.NewString(""), true, false, true)
	l.setMethod(proto, "toString", 0, errorToString)

	l.errorProtos["Error"] = proto
	construct := l.errorConstructor("Error", proto)
	return l.newConstructor("Error", 1, proto, construct, construct)
}

// createErrorSubtype creates a native error constructor such as TypeError
// whose prototype inherits from Error.prototype.
func (l *lib) createErrorSubtype(name string, errorCtor *runtime.Object) *runtime.Object {
	proto := runtime.NewOrdinaryObject(errorCtor.Get("prototype").Object)
	setDataProp(proto, "name", runtime.NewString(name), true, false, true)
	setDataProp(proto, "message", runtime.NewString(""), true, false, true)

	l.errorProtos[name] = proto
	construct := l.errorConstructor(name, proto)
	ctor := l.newConstructor(name, 1, proto, construct, construct)
	ctor.Prototype = errorCtor
	return ctor
}

// errorConstructor builds error objects; Error(msg) and new Error(msg)
// behave the same.
func (l *lib) errorConstructor(name string, proto *runtime.Object) runtime.CallableFunc {
	return func(_ *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		msg := ""
		if m := argAt(args, 0); m.Type != runtime.TypeUndefined {
			var err error
			if msg, err = toStr(m); err != nil {
				return nil, err
			}
		}
		obj := l.realm.NewError(proto, name, msg)
		if opts := argAt(args, 1); opts.IsObject() && opts.Object.HasProperty("cause") {
			setDataProp(obj, "cause", opts.Object.Get("cause"), true, false, true)
		}
		return runtime.NewObject(obj), nil
	}
}

func errorToString(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	obj := toObject(this)
	if obj == nil {
		return runtime.NewString("Error"), nil
	}
	name := "Error"
	if n := obj.Get("name"); n.Type != runtime.TypeUndefined {
		name = n.ToString()
	}
	msg := ""
	if m := obj.Get("message"); m.Type != runtime.TypeUndefined {
		msg = m.ToString()
	}
	switch {
	case name == "":
		return runtime.NewString(msg), nil
	case msg == "":
		return runtime.NewString(name), nil
	}
	return runtime.NewString(name + ": " + msg), nil
}

// errorValue converts a Go error raised inside a builtin into the value a
// rejection or a catch clause sees.
func (l *lib) errorValue(err error) *runtime.Value {
	var ex *runtime.Exception
	if errors.As(err, &ex) {
		return ex.Value
	}
	name, msg := "Error", err.Error()
	var engErr *runtime.Error
	if errors.As(err, &engErr) {
		name, msg = engErr.Kind.JSName(), engErr.Message
	} else if prefix, rest, ok := strings.Cut(msg, ": "); ok && l.errorProtos[prefix] != nil {
		name, msg = prefix, rest
	}
	proto := l.errorProtos[name]
	if proto == nil {
		proto = l.realm.ErrorPrototype
	}
	return runtime.NewObject(l.realm.NewError(proto, name, msg))
}
