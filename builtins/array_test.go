package builtins

import (
	"reflect"
	"testing"

	"github.com/example/jsvm/runtime"
)

func numbers(vals ...float64) []interface{} {
	out := make([]interface{}, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}

func TestArrayPushPop(t *testing.T) {
	l := setup()
	arr := l.newArray([]*runtime.Value{num(1), num(2), num(3)})

	length, err := arrayPush(arr, []*runtime.Value{num(4)})
	if err != nil || length.Number != 4 {
		t.Fatalf("push: got %v, %v", length, err)
	}
	popped, err := arrayPop(arr, nil)
	if err != nil || popped.Number != 4 {
		t.Fatalf("pop: got %v, %v", popped, err)
	}
	if got := runtime.ToGo(arr); !reflect.DeepEqual(got, numbers(1, 2, 3)) {
		t.Errorf("array = %v", got)
	}
}

func TestArrayRejectsNonArrayReceiver(t *testing.T) {
	if _, err := arrayPush(str("x"), nil); err == nil {
		t.Error("expected TypeError for non-array receiver")
	}
}

func TestArrayMethods(t *testing.T) {
	expectEval(t, []struct {
		expr string
		want interface{}
	}{
		{`[1, 2, 3].map(x => x * 2)`, numbers(2, 4, 6)},
		{`[1, 2, 3, 4].filter(x => x % 2 === 0)`, numbers(2, 4)},
		{`[1, 2, 3].reduce((a, b) => a + b)`, 6.0},
		{`[1, 2, 3].reduce((a, b) => a + b, 10)`, 16.0},
		{`["a", "b"].reduceRight((a, b) => a + b)`, "ba"},
		{`[1, 2, 3].indexOf(2)`, 1.0},
		{`[1, 2, 3].includes(4)`, false},
		{`[NaN].includes(NaN)`, true},
		{`[NaN].indexOf(NaN)`, -1.0},
		{`[5, 1, 4].find(x => x < 5)`, 1.0},
		{`[5, 1, 4].findIndex(x => x > 10)`, -1.0},
		{`[1, 2, 3].slice(-2)`, numbers(2, 3)},
		{`[1, 2].concat([3], 4)`, numbers(1, 2, 3, 4)},
		{`[1, 2, 3].join("-")`, "1-2-3"},
		{`[1, null, undefined, 2].join()`, "1,,,2"},
		{`[3, 1, 2].reverse()`, numbers(2, 1, 3)},
		{`[1, [2, [3, [4]]]].flat(Infinity)`, numbers(1, 2, 3, 4)},
		{`[1, 2].flatMap(x => [x, x])`, numbers(1, 1, 2, 2)},
		{`[1, 2, 3].at(-1)`, 3.0},
		{`new Array(3).fill(0)`, numbers(0, 0, 0)},
		{`[1, 2, 3].every(x => x > 0)`, true},
		{`[1, 2, 3].some(x => x > 2)`, true},
		{`Array.isArray([])`, true},
		{`Array.isArray({ length: 0 })`, false},
		{`Array.from("abc")`, []interface{}{"a", "b", "c"}},
		{`Array.from({ length: 3 }, (_, i) => i * i)`, numbers(0, 1, 4)},
		{`Array.of(7, 8)`, numbers(7, 8)},
		{`[...[1, 2].keys()]`, numbers(0, 1)},
		{`[...["a"].entries()]`, []interface{}{[]interface{}{0.0, "a"}}},
	})
}

func TestArraySplice(t *testing.T) {
	expectEval(t, []struct {
		expr string
		want interface{}
	}{
		{`(() => { const a = [1, 2, 3, 4]; const r = a.splice(1, 2, "x"); return [a, r]; })()`,
			[]interface{}{[]interface{}{1.0, "x", 4.0}, numbers(2, 3)}},
		{`(() => { const a = [1, 2, 3]; a.splice(-1); return a; })()`, numbers(1, 2)},
		{`(() => { const a = [1, 2]; a.unshift(0); a.shift(); a.shift(); return a; })()`, numbers(2)},
	})
}

func TestArraySort(t *testing.T) {
	expectEval(t, []struct {
		expr string
		want interface{}
	}{
		{`[10, 9, 1].sort()`, numbers(1, 10, 9)},
		{`[10, 9, 1].sort((a, b) => a - b)`, numbers(1, 9, 10)},
		{`[3, undefined, 1].sort()`, []interface{}{1.0, 3.0, nil}},
		{`[{k: 1, v: "a"}, {k: 0, v: "b"}, {k: 1, v: "c"}].sort((x, y) => x.k - y.k).map(o => o.v).join("")`, "bac"},
	})
}
