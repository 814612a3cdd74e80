package interpreter

import (
	"github.com/example/jsvm/ast"
	"github.com/example/jsvm/runtime"
)

// maxYieldsPerStep bounds the values one resumption may queue. A step runs a
// whole top-level statement, so a yield inside an endless loop would never
// return control otherwise.
const maxYieldsPerStep = 10000

const slotMachine = "machine"

// genMachine runs a generator or async body as a resumable state machine.
// label indexes the next top-level statement; each step runs statements
// until one of them yields, and every yield in that statement is queued.
type genMachine struct {
	path  *Path
	body  []ast.Statement
	label int
	sent  *runtime.Value
	queue []*runtime.Value
	final *runtime.Value

	started bool
	running bool
	done    bool
}

func newMachine(p *Path, body []ast.Statement) *genMachine {
	return &genMachine{path: p, body: body, sent: runtime.Undefined, final: runtime.Undefined}
}

// step resumes the machine with sent and reports the next produced value.
func (m *genMachine) step(sent *runtime.Value) (*runtime.Value, bool, runtime.Signal) {
	if m.running {
		_, sig := m.path.throw(typeError("Generator is already running"))
		return nil, false, sig
	}
	if v, ok := m.dequeue(); ok {
		return v, false, runtime.Signal{}
	}
	if m.done {
		return m.finish(), true, runtime.Signal{}
	}

	m.running = true
	defer func() { m.running = false }()
	m.sent = sent
	scope := m.path.Scope
	if !m.started {
		m.started = true
		scope.Claim()
		if sig := m.path.hoist(m.body, scope); sig.Abrupt() {
			m.done = true
			return nil, true, sig
		}
	}
	for m.label < len(m.body) && len(m.queue) == 0 {
		stmt := m.body[m.label]
		m.label++
		if _, ok := stmt.(*ast.FunctionDeclaration); ok {
			continue
		}
		_, sig := m.path.ChildIn(stmt, scope).Evaluate()
		switch sig.Kind {
		case runtime.SigReturn:
			m.final = sig.Value
			m.label = len(m.body)
		case runtime.SigThrow:
			m.done = true
			m.queue = nil
			return nil, true, sig
		}
	}
	if m.label >= len(m.body) {
		m.done = true
	}
	if v, ok := m.dequeue(); ok {
		return v, false, runtime.Signal{}
	}
	return m.finish(), true, runtime.Signal{}
}

func (m *genMachine) dequeue() (*runtime.Value, bool) {
	if len(m.queue) == 0 {
		return nil, false
	}
	v := m.queue[0]
	m.queue = m.queue[1:]
	return v, true
}

// finish hands out the return value once; later calls see undefined.
func (m *genMachine) finish() *runtime.Value {
	v := m.final
	m.final = runtime.Undefined
	if v == nil {
		v = runtime.Undefined
	}
	return v
}

func (m *genMachine) push(v *runtime.Value) runtime.Signal {
	if len(m.queue) >= maxYieldsPerStep {
		return m.path.throwSignal(rangeError("generator queued more than %d values in one step", maxYieldsPerStep))
	}
	m.queue = append(m.queue, v)
	return runtime.Signal{}
}

// newGenerator creates the generator object for one call of c.
func (p *Path) newGenerator(c *closure, scope *runtime.Scope) *runtime.Value {
	realm := p.realm()
	proto := realm.GeneratorPrototype
	if pv := c.self.Get("prototype"); pv.IsObject() {
		proto = pv.Object
	}
	gen := runtime.NewOrdinaryObject(proto)
	gen.OType = runtime.ObjTypeGenerator
	genVal := runtime.NewObject(gen)

	m := newMachine(p.ChildIn(c.node.Body, scope), c.node.Body.Body)
	gen.SetSlot(slotMachine, m)
	scope.Const(bindingGenerator, genVal)

	result := func(v *runtime.Value, done bool) *runtime.Value {
		obj := realm.NewObject()
		obj.Set("value", v)
		obj.Set("done", runtime.NewBool(done))
		return runtime.NewObject(obj)
	}
	method := func(name string, fn runtime.CallableFunc) {
		gen.DefineProperty(name, &runtime.Property{Value: runtime.NewObject(realm.NewFunction(name, 1, fn)), Writable: true, Configurable: true})
	}
	method("next", func(_ *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		v, done, sig := m.step(argument(args, 0))
		if sig.Abrupt() {
			return nil, p.engine.signalError(sig)
		}
		return result(v, done), nil
	})
	method("return", func(_ *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		if m.running {
			return nil, typeError("Generator is already running")
		}
		m.done, m.queue, m.final = true, nil, runtime.Undefined
		return result(argument(args, 0), true), nil
	})
	method("throw", func(_ *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		if m.running {
			return nil, typeError("Generator is already running")
		}
		m.done, m.queue, m.final = true, nil, runtime.Undefined
		return nil, &runtime.Exception{Value: argument(args, 0)}
	})
	method(IteratorKey, func(this *runtime.Value, _ []*runtime.Value) (*runtime.Value, error) {
		return genVal, nil
	})
	return genVal
}

// runAsync drives the machine to completion and settles a promise with the
// outcome.
func (p *Path) runAsync(c *closure, scope *runtime.Scope) *runtime.Value {
	obj, promise := runtime.NewPromise(p.realm().PromisePrototype)
	m := newMachine(p.ChildIn(c.node.Body, scope), c.node.Body.Body)
	for {
		v, done, sig := m.step(runtime.Undefined)
		if sig.Kind == runtime.SigThrow {
			promise.Reject(sig.Value)
			break
		}
		if done {
			promise.Resolve(v)
			break
		}
	}
	return runtime.NewObject(obj)
}

func argument(args []*runtime.Value, i int) *runtime.Value {
	if i < len(args) && args[i] != nil {
		return args[i]
	}
	return runtime.Undefined
}

// evalYield queues the yielded value on the running machine and evaluates
// to the value the current step was resumed with.
func evalYield(p *Path) (*runtime.Value, runtime.Signal) {
	n := p.Node.(*ast.YieldExpression)
	b := p.Scope.Resolve(bindingGenerator)
	if b == nil {
		return p.throw(runtime.ErrorUnsupported("yield outside a generator"))
	}
	m := b.Value.Object.Slot(slotMachine).(*genMachine)
	v := runtime.Undefined
	if n.Argument != nil {
		var sig runtime.Signal
		if v, sig = p.eval(n.Argument); sig.Abrupt() {
			return nil, sig
		}
	}
	if !n.Delegate {
		if sig := m.push(v); sig.Abrupt() {
			return nil, sig
		}
		return m.sent, runtime.Signal{}
	}
	var pushed runtime.Signal
	sig := p.iterate(v, describeNode(n.Argument), func(item *runtime.Value) bool {
		pushed = m.push(item)
		return !pushed.Abrupt()
	})
	if sig.Abrupt() {
		return nil, sig
	}
	if pushed.Abrupt() {
		return nil, pushed
	}
	return runtime.Undefined, runtime.Signal{}
}

// evalAwait unwraps a settled promise or thenable. Values that are not
// promises pass through; a rejection throws at the await site.
func evalAwait(p *Path) (*runtime.Value, runtime.Signal) {
	v, sig := p.eval(p.Node.(*ast.AwaitExpression).Argument)
	if sig.Abrupt() {
		return nil, sig
	}
	promise := runtime.PromiseOf(v)
	if promise == nil && v.IsObject() {
		if then := v.Object.Get("then"); then.IsCallable() {
			_, promise = runtime.NewPromise(p.realm().PromisePrototype)
			promise.Resolve(v)
		}
	}
	if promise == nil {
		return v, runtime.Signal{}
	}
	switch promise.State {
	case runtime.PromiseFulfilled:
		return promise.Result, runtime.Signal{}
	case runtime.PromiseRejected:
		p.engine.markThrown(promise.Result)
		return nil, runtime.Throw(promise.Result)
	}
	return p.throw(typeError("await on a promise that is still pending"))
}
