package builtins

import (
	"testing"

	"github.com/example/jsvm/runtime"
)

func TestPromiseChains(t *testing.T) {
	expectEval(t, []struct {
		expr string
		want interface{}
	}{
		{`(() => { let r; Promise.resolve(1).then(v => { r = v + 1; }); return r; })()`, 2.0},
		{`(() => { let r; Promise.reject(new Error("no")).catch(e => { r = e.message; }); return r; })()`, "no"},
		{`(() => { let r; new Promise((res) => res(5)).then(v => v * 2).then(v => { r = v; }); return r; })()`, 10.0},
		{`(() => { let r; new Promise(() => { throw new TypeError("t"); }).catch(e => { r = e.name; }); return r; })()`, "TypeError"},
		{`(() => { let r = []; Promise.resolve(1).finally(() => r.push("f")).then(v => r.push(v)); return r; })()`, []interface{}{"f", 1.0}},
		{`(() => { let r; Promise.all([1, Promise.resolve(2)]).then(v => { r = v; }); return r; })()`, []interface{}{1.0, 2.0}},
		{`(() => { let r; Promise.all([1, Promise.reject("x")]).catch(e => { r = e; }); return r; })()`, "x"},
		{`(() => { let r; Promise.race([Promise.resolve("a"), Promise.resolve("b")]).then(v => { r = v; }); return r; })()`, "a"},
		{`(() => { let r; Promise.any([Promise.reject(1), Promise.resolve(2)]).then(v => { r = v; }); return r; })()`, 2.0},
		{`(() => { let r; Promise.any([Promise.reject(1)]).catch(e => { r = e.errors; }); return r; })()`, []interface{}{1.0}},
		{`(() => { let r; Promise.allSettled([Promise.reject(1), 2]).then(v => { r = v.map(x => x.status); }); return r; })()`, []interface{}{"rejected", "fulfilled"}},
		{`Object.prototype.toString.call(Promise.resolve())`, "[object Promise]"},
	})
}

func TestPromiseRequiresNew(t *testing.T) {
	if _, err := promiseCallWithoutNew(runtime.Undefined, nil); err == nil {
		t.Error("calling Promise without new succeeded")
	}
}

func TestPromiseResolveAdoptsPromise(t *testing.T) {
	l := setup()
	p, _ := l.newPromise()
	got, err := l.promiseResolve(runtime.Undefined, []*runtime.Value{p})
	if err != nil {
		t.Fatal(err)
	}
	if got != p {
		t.Error("Promise.resolve(p) did not return p")
	}
}
