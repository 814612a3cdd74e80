package builtins

import (
	"fmt"
	"math"

	"github.com/example/jsvm/runtime"
)

const iteratorKey = "@@iterator"

func (l *lib) newFuncObject(name string, length int, fn runtime.CallableFunc) *runtime.Object {
	return l.realm.NewFunction(name, length, fn)
}

func (l *lib) setMethod(obj *runtime.Object, name string, length int, fn runtime.CallableFunc) {
	setDataProp(obj, name, runtime.NewObject(l.newFuncObject(name, length, fn)), true, false, true)
}

// setGetter defines a read-only accessor.
func (l *lib) setGetter(obj *runtime.Object, name string, fn runtime.CallableFunc) {
	obj.DefineProperty(name, &runtime.Property{
		Getter:       runtime.NewObject(l.newFuncObject("get "+name, 0, fn)),
		Setter:       runtime.Undefined,
		IsAccessor:   true,
		Configurable: true,
	})
}

func setDataProp(obj *runtime.Object, name string, val *runtime.Value, writable, enumerable, configurable bool) {
	obj.DefineProperty(name, &runtime.Property{
		Value:        val,
		Writable:     writable,
		Enumerable:   enumerable,
		Configurable: configurable,
	})
}

func setConstant(obj *runtime.Object, name string, val *runtime.Value) {
	setDataProp(obj, name, val, false, false, false)
}

// newConstructor links a constructor function with its prototype object.
func (l *lib) newConstructor(name string, length int, proto *runtime.Object, call, construct runtime.CallableFunc) *runtime.Object {
	ctor := l.newFuncObject(name, length, call)
	ctor.Constructor = construct
	setDataProp(ctor, "prototype", runtime.NewObject(proto), false, false, false)
	setDataProp(proto, "constructor", runtime.NewObject(ctor), true, false, true)
	return ctor
}

func toObject(v *runtime.Value) *runtime.Object {
	if v.IsObject() {
		return v.Object
	}
	return nil
}

func argAt(args []*runtime.Value, i int) *runtime.Value {
	if i < len(args) && args[i] != nil {
		return args[i]
	}
	return runtime.Undefined
}

func toNumber(v *runtime.Value) (float64, error) {
	return runtime.ToNumberValue(v)
}

// toInteger implements ToIntegerOrInfinity.
func toInteger(v *runtime.Value) (float64, error) {
	n, err := runtime.ToNumberValue(v)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(n) {
		return 0, nil
	}
	if math.IsInf(n, 0) {
		return n, nil
	}
	return math.Trunc(n), nil
}

// relativeIndex resolves a possibly negative index argument against length,
// clamping to [0, length]. def is used for undefined.
func relativeIndex(v *runtime.Value, length, def int) (int, error) {
	if v.Type == runtime.TypeUndefined {
		return def, nil
	}
	n, err := toInteger(v)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		n += float64(length)
		if n < 0 {
			n = 0
		}
	}
	if n > float64(length) {
		n = float64(length)
	}
	return int(n), nil
}

func toStr(v *runtime.Value) (string, error) {
	return runtime.ToStringValue(v)
}

// callFunction invokes fn, failing with a TypeError when it is not callable.
func callFunction(fn, this *runtime.Value, args ...*runtime.Value) (*runtime.Value, error) {
	if !fn.IsCallable() {
		return nil, fmt.Errorf("TypeError: %s is not a function", fn.ToString())
	}
	v, err := fn.Object.Callable(this, args)
	if v == nil && err == nil {
		v = runtime.Undefined
	}
	return v, err
}

// callbackArg returns args[i] when it is callable.
func callbackArg(args []*runtime.Value, i int) (*runtime.Value, error) {
	fn := argAt(args, i)
	if !fn.IsCallable() {
		return nil, fmt.Errorf("TypeError: %s is not a function", fn.ToString())
	}
	return fn, nil
}

// primitive unwraps a boxed primitive or returns v unchanged.
func primitive(v *runtime.Value) *runtime.Value {
	if v.IsObject() && v.Object.OType == runtime.ObjTypeBoxed {
		if prim, ok := v.Object.Slot("primitive").(*runtime.Value); ok {
			return prim
		}
	}
	return v
}

// box creates a wrapper object for new String/Number/Boolean.
func (l *lib) box(v *runtime.Value) *runtime.Value {
	return runtime.NewObject(l.realm.Box(v))
}

func (l *lib) newArray(data []*runtime.Value) *runtime.Value {
	return runtime.NewObject(l.realm.NewArray(data))
}

// iterResult builds an iterator result object.
func (l *lib) iterResult(v *runtime.Value, done bool) *runtime.Value {
	obj := l.realm.NewObject()
	obj.Set("value", v)
	obj.Set("done", runtime.NewBool(done))
	return runtime.NewObject(obj)
}

// newListIterator returns an iterator object producing next() values until
// it reports false.
func (l *lib) newListIterator(next func() (*runtime.Value, bool)) *runtime.Value {
	it := l.realm.NewObject()
	itVal := runtime.NewObject(it)
	done := false
	l.setMethod(it, "next", 0, func(_ *runtime.Value, _ []*runtime.Value) (*runtime.Value, error) {
		if done {
			return l.iterResult(runtime.Undefined, true), nil
		}
		v, ok := next()
		if !ok {
			done = true
			return l.iterResult(runtime.Undefined, true), nil
		}
		return l.iterResult(v, false), nil
	})
	l.setMethod(it, iteratorKey, 0, func(_ *runtime.Value, _ []*runtime.Value) (*runtime.Value, error) {
		return itVal, nil
	})
	return itVal
}

// iterate walks an array, string or iterator-protocol object.
func iterate(v *runtime.Value, fn func(*runtime.Value) error) error {
	switch {
	case v.Type == runtime.TypeString:
		for _, r := range v.Str {
			if err := fn(runtime.NewString(string(r))); err != nil {
				return err
			}
		}
		return nil
	case !v.IsObject():
		return fmt.Errorf("TypeError: %s is not iterable", v.ToString())
	case v.Object.OType == runtime.ObjTypeArray && v.Object.GetOwnProperty(iteratorKey) == nil:
		for i := 0; i < len(v.Object.ArrayData); i++ {
			el := v.Object.ArrayData[i]
			if el == nil {
				el = runtime.Undefined
			}
			if err := fn(el); err != nil {
				return err
			}
		}
		return nil
	}
	method, err := v.Object.GetWithReceiver(iteratorKey, v)
	if err != nil {
		return err
	}
	if !method.IsCallable() {
		return fmt.Errorf("TypeError: %s is not iterable", v.ToString())
	}
	it, err := callFunction(method, v)
	if err != nil {
		return err
	}
	if !it.IsObject() {
		return fmt.Errorf("TypeError: Result of the Symbol.iterator method is not an object")
	}
	next := it.Object.Get("next")
	for {
		res, err := callFunction(next, it)
		if err != nil {
			return err
		}
		if !res.IsObject() {
			return fmt.Errorf("TypeError: Iterator result %s is not an object", res.ToString())
		}
		if res.Object.Get("done").ToBoolean() {
			return nil
		}
		if err := fn(res.Object.Get("value")); err != nil {
			if ret := it.Object.Get("return"); ret.IsCallable() {
				_, _ = callFunction(ret, it)
			}
			return err
		}
	}
}

// listFrom collects the values iterate produces.
func listFrom(v *runtime.Value) ([]*runtime.Value, error) {
	var out []*runtime.Value
	err := iterate(v, func(el *runtime.Value) error {
		out = append(out, el)
		return nil
	})
	return out, err
}
