package runtime

// PromiseState is the settlement state of a promise.
type PromiseState int

const (
	PromisePending PromiseState = iota
	PromiseFulfilled
	PromiseRejected
)

// Promise is the internal cell behind promise objects. Reactions run
// synchronously when the promise settles; there is no job queue.
type Promise struct {
	State     PromiseState
	Result    *Value
	onFulfill []func(*Value)
	onReject  []func(*Value)
}

// NewPromise allocates a pending promise object.
func NewPromise(proto *Object) (*Object, *Promise) {
	p := &Promise{Result: Undefined}
	obj := NewOrdinaryObject(proto)
	obj.OType = ObjTypePromise
	obj.SetSlot("promise", p)
	return obj, p
}

// PromiseOf returns the promise cell of obj, or nil.
func PromiseOf(v *Value) *Promise {
	if !v.IsObject() {
		return nil
	}
	p, _ := v.Object.Slot("promise").(*Promise)
	return p
}

// Resolve settles p with v, adopting the state of v when it is a promise or a
// thenable.
func (p *Promise) Resolve(v *Value) {
	if p.State != PromisePending {
		return
	}
	if other := PromiseOf(v); other != nil {
		if other == p {
			p.Reject(NewString("TypeError: Chaining cycle detected for promise"))
			return
		}
		other.Then(p.Resolve, p.Reject)
		return
	}
	if v.IsObject() {
		then, err := v.Object.GetWithReceiver("then", v)
		if err != nil {
			p.Reject(NewString(err.Error()))
			return
		}
		if then.IsCallable() {
			resolve := NewFunctionObject(nil, func(_ *Value, args []*Value) (*Value, error) {
				p.Resolve(argOrUndefined(args))
				return Undefined, nil
			})
			reject := NewFunctionObject(nil, func(_ *Value, args []*Value) (*Value, error) {
				p.Reject(argOrUndefined(args))
				return Undefined, nil
			})
			if _, err := then.Object.Callable(v, []*Value{NewObject(resolve), NewObject(reject)}); err != nil {
				if ex, ok := err.(*Exception); ok {
					p.Reject(ex.Value)
				} else {
					p.Reject(NewString(err.Error()))
				}
			}
			return
		}
	}
	p.settle(PromiseFulfilled, v)
}

// Reject settles p as rejected with reason v.
func (p *Promise) Reject(v *Value) {
	if p.State != PromisePending {
		return
	}
	p.settle(PromiseRejected, v)
}

func (p *Promise) settle(state PromiseState, v *Value) {
	if v == nil {
		v = Undefined
	}
	p.State = state
	p.Result = v
	handlers := p.onFulfill
	if state == PromiseRejected {
		handlers = p.onReject
	}
	p.onFulfill, p.onReject = nil, nil
	for _, h := range handlers {
		h(v)
	}
}

// Then registers reactions. A settled promise runs the matching one at once.
func (p *Promise) Then(onFulfilled, onRejected func(*Value)) {
	switch p.State {
	case PromiseFulfilled:
		if onFulfilled != nil {
			onFulfilled(p.Result)
		}
	case PromiseRejected:
		if onRejected != nil {
			onRejected(p.Result)
		}
	default:
		if onFulfilled != nil {
			p.onFulfill = append(p.onFulfill, onFulfilled)
		}
		if onRejected != nil {
			p.onReject = append(p.onReject, onRejected)
		}
	}
}

func argOrUndefined(args []*Value) *Value {
	if len(args) == 0 || args[0] == nil {
		return Undefined
	}
	return args[0]
}
