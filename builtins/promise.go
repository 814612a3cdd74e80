package builtins

import (
	"fmt"

	"github.com/example/jsvm/runtime"
)

func (l *lib) createPromiseConstructor() *runtime.Object {
	proto := l.realm.PromisePrototype

	l.setMethod(proto, "then", 2, l.promiseThen)
	l.setMethod(proto, "catch", 1, l.promiseCatch)
	l.setMethod(proto, "finally", 1, l.promiseFinally)
	setDataProp(proto, "@@toStringTag", runtime.NewString("Promise"), false, false, true)

	ctor := l.newConstructor("Promise", 1, proto, promiseCallWithoutNew, l.promiseConstruct)

	l.setMethod(ctor, "resolve", 1, l.promiseResolve)
	l.setMethod(ctor, "reject", 1, l.promiseReject)
	l.setMethod(ctor, "all", 1, l.promiseAll)
	l.setMethod(ctor, "allSettled", 1, l.promiseAllSettled)
	l.setMethod(ctor, "race", 1, l.promiseRace)
	l.setMethod(ctor, "any", 1, l.promiseAny)

	return ctor
}

func promiseCallWithoutNew(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	return nil, fmt.Errorf("TypeError: Promise constructor cannot be invoked without 'new'")
}

func (l *lib) newPromise() (*runtime.Value, *runtime.Promise) {
	obj, p := runtime.NewPromise(l.realm.PromisePrototype)
	return runtime.NewObject(obj), p
}

// resolvingFunctions returns the resolve and reject functions handed to an
// executor.
func (l *lib) resolvingFunctions(p *runtime.Promise) (*runtime.Value, *runtime.Value) {
	resolve := l.newFuncObject("", 1, func(_ *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		p.Resolve(argAt(args, 0))
		return runtime.Undefined, nil
	})
	reject := l.newFuncObject("", 1, func(_ *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		p.Reject(argAt(args, 0))
		return runtime.Undefined, nil
	})
	return runtime.NewObject(resolve), runtime.NewObject(reject)
}

func (l *lib) promiseConstruct(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	executor := argAt(args, 0)
	if !executor.IsCallable() {
		return nil, fmt.Errorf("TypeError: Promise resolver %s is not a function", executor.ToString())
	}
	v, p := l.newPromise()
	resolve, reject := l.resolvingFunctions(p)
	if _, err := callFunction(executor, runtime.Undefined, resolve, reject); err != nil {
		p.Reject(l.errorValue(err))
	}
	return v, nil
}

func thisPromise(this *runtime.Value, method string) (*runtime.Promise, error) {
	p := runtime.PromiseOf(this)
	if p == nil {
		return nil, fmt.Errorf("TypeError: Method Promise.prototype.%s called on incompatible receiver %s", method, this.ToString())
	}
	return p, nil
}

// reaction wraps a then() handler: its result resolves next, a throw
// rejects it. A missing handler passes the settlement through.
func (l *lib) reaction(handler *runtime.Value, next *runtime.Promise, fulfilled bool) func(*runtime.Value) {
	return func(v *runtime.Value) {
		if !handler.IsCallable() {
			if fulfilled {
				next.Resolve(v)
			} else {
				next.Reject(v)
			}
			return
		}
		res, err := callFunction(handler, runtime.Undefined, v)
		if err != nil {
			next.Reject(l.errorValue(err))
			return
		}
		next.Resolve(res)
	}
}

func (l *lib) promiseThen(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	p, err := thisPromise(this, "then")
	if err != nil {
		return nil, err
	}
	v, next := l.newPromise()
	p.Then(l.reaction(argAt(args, 0), next, true), l.reaction(argAt(args, 1), next, false))
	return v, nil
}

func (l *lib) promiseCatch(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	if !this.IsObject() {
		return nil, fmt.Errorf("TypeError: Method Promise.prototype.catch called on incompatible receiver %s", this.ToString())
	}
	then, err := this.Object.GetWithReceiver("then", this)
	if err != nil {
		return nil, err
	}
	return callFunction(then, this, runtime.Undefined, argAt(args, 0))
}

func (l *lib) promiseFinally(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	p, err := thisPromise(this, "finally")
	if err != nil {
		return nil, err
	}
	onFinally := argAt(args, 0)
	v, next := l.newPromise()
	settle := func(pass func(*runtime.Value)) func(*runtime.Value) {
		return func(result *runtime.Value) {
			if onFinally.IsCallable() {
				if _, err := callFunction(onFinally, runtime.Undefined); err != nil {
					next.Reject(l.errorValue(err))
					return
				}
			}
			pass(result)
		}
	}
	p.Then(settle(next.Resolve), settle(next.Reject))
	return v, nil
}

func (l *lib) promiseResolve(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	x := argAt(args, 0)
	if runtime.PromiseOf(x) != nil {
		return x, nil
	}
	v, p := l.newPromise()
	p.Resolve(x)
	return v, nil
}

func (l *lib) promiseReject(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	v, p := l.newPromise()
	p.Reject(argAt(args, 0))
	return v, nil
}

// settleEach adopts every element of an iterable and reports each
// settlement with the element's index. It returns the element count.
func (l *lib) settleEach(iterable *runtime.Value, onFulfilled, onRejected func(i int, v *runtime.Value)) (int, error) {
	items, err := listFrom(iterable)
	if err != nil {
		return 0, err
	}
	for i, item := range items {
		_, p := l.newPromise()
		p.Resolve(item)
		i := i
		p.Then(func(v *runtime.Value) { onFulfilled(i, v) }, func(v *runtime.Value) { onRejected(i, v) })
	}
	return len(items), nil
}

func (l *lib) promiseAll(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	v, p := l.newPromise()
	var results []*runtime.Value
	remaining := 0
	counted := false
	n, err := l.settleEach(argAt(args, 0), func(i int, val *runtime.Value) {
		results = growTo(results, i)
		results[i] = val
		remaining--
		if counted && remaining == 0 {
			p.Resolve(l.newArray(results))
		}
	}, func(_ int, reason *runtime.Value) {
		p.Reject(reason)
	})
	if err != nil {
		p.Reject(l.errorValue(err))
		return v, nil
	}
	remaining += n
	counted = true
	if remaining == 0 {
		p.Resolve(l.newArray(growTo(results, n-1)))
	}
	return v, nil
}

func (l *lib) promiseAllSettled(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	v, p := l.newPromise()
	var results []*runtime.Value
	remaining := 0
	counted := false
	record := func(i int, status, key string, val *runtime.Value) {
		entry := l.realm.NewObject()
		entry.Set("status", runtime.NewString(status))
		entry.Set(key, val)
		results = growTo(results, i)
		results[i] = runtime.NewObject(entry)
		remaining--
		if counted && remaining == 0 {
			p.Resolve(l.newArray(results))
		}
	}
	n, err := l.settleEach(argAt(args, 0), func(i int, val *runtime.Value) {
		record(i, "fulfilled", "value", val)
	}, func(i int, reason *runtime.Value) {
		record(i, "rejected", "reason", reason)
	})
	if err != nil {
		p.Reject(l.errorValue(err))
		return v, nil
	}
	remaining += n
	counted = true
	if remaining == 0 {
		p.Resolve(l.newArray(growTo(results, n-1)))
	}
	return v, nil
}

func (l *lib) promiseRace(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	v, p := l.newPromise()
	_, err := l.settleEach(argAt(args, 0), func(_ int, val *runtime.Value) {
		p.Resolve(val)
	}, func(_ int, reason *runtime.Value) {
		p.Reject(reason)
	})
	if err != nil {
		p.Reject(l.errorValue(err))
	}
	return v, nil
}

func (l *lib) promiseAny(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	v, p := l.newPromise()
	var reasons []*runtime.Value
	remaining := 0
	counted := false
	reject := func() {
		agg := l.realm.NewError(l.errorProtos["Error"], "AggregateError", "All promises were rejected")
		agg.Set("errors", l.newArray(reasons))
		p.Reject(runtime.NewObject(agg))
	}
	n, err := l.settleEach(argAt(args, 0), func(_ int, val *runtime.Value) {
		p.Resolve(val)
	}, func(i int, reason *runtime.Value) {
		reasons = growTo(reasons, i)
		reasons[i] = reason
		remaining--
		if counted && remaining == 0 {
			reject()
		}
	})
	if err != nil {
		p.Reject(l.errorValue(err))
		return v, nil
	}
	remaining += n
	counted = true
	if remaining == 0 {
		reasons = growTo(reasons, n-1)
		reject()
	}
	return v, nil
}

// growTo extends s so that index i is valid, filling with undefined.
func growTo(s []*runtime.Value, i int) []*runtime.Value {
	for len(s) <= i {
		s = append(s, runtime.Undefined)
	}
	return s
}
