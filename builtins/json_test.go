package builtins

import (
	"bytes"
	"testing"

	"github.com/example/jsvm/runtime"
)

func TestJSONStringify(t *testing.T) {
	expectEval(t, []struct {
		expr string
		want interface{}
	}{
		{`JSON.stringify({ b: 1, a: [true, null, "x"] })`, `{"b":1,"a":[true,null,"x"]}`},
		{`JSON.stringify({ u: undefined, f: function () {}, n: NaN })`, `{"n":null}`},
		{`JSON.stringify([undefined, function () {}])`, `[null,null]`},
		{`JSON.stringify(undefined)`, nil},
		{`JSON.stringify("a\"b\n<")`, `"a\"b\n<"`},
		{`JSON.stringify({ a: [1] }, null, 2)`, "{\n  \"a\": [\n    1\n  ]\n}"},
		{`JSON.stringify({ a: 1, b: 2, c: 3 }, ["c", "a"])`, `{"c":3,"a":1}`},
		{`JSON.stringify({ a: 1, b: "x" }, (k, v) => typeof v === "number" ? v * 10 : v)`, `{"a":10,"b":"x"}`},
		{`JSON.stringify({ toJSON() { return "custom"; } })`, `"custom"`},
		{`JSON.stringify(new String("boxed"))`, `"boxed"`},
		{`JSON.stringify({}, null, "--")`, `{}`},
		{`Object.prototype.toString.call(JSON)`, "[object JSON]"},
	})
}

func TestJSONStringifyCycle(t *testing.T) {
	l := setup()
	obj := l.realm.NewObject()
	obj.Set("self", runtime.NewObject(obj))
	if _, err := l.jsonStringify(runtime.Undefined, []*runtime.Value{runtime.NewObject(obj)}); err == nil {
		t.Fatal("expected TypeError for circular structure")
	}
}

func TestJSONParse(t *testing.T) {
	expectEval(t, []struct {
		expr string
		want interface{}
	}{
		{`JSON.parse('{"z":1,"a":[1,"two",null,false]}')`, map[string]interface{}{"z": 1.0, "a": []interface{}{1.0, "two", nil, false}}},
		{`Object.keys(JSON.parse('{"z":1,"a":2,"m":3}'))`, []interface{}{"z", "a", "m"}},
		{`JSON.parse(" 42 ")`, 42.0},
		{`JSON.parse('"\\u0041"')`, "A"},
		{`JSON.parse('{"a":1,"b":2}', (k, v) => k === "a" ? undefined : v)`, map[string]interface{}{"b": 2.0}},
		{`JSON.parse("[1,2]", (k, v) => Array.isArray(v) ? v.length : v * 2)`, 2.0},
	})
}

func TestJSONParseErrors(t *testing.T) {
	l := newLib(runtime.NewRealm(), WithOutput(&bytes.Buffer{}, &bytes.Buffer{}))
	for _, text := range []string{"", "{", "[1,]", "1 2", "{'a':1}"} {
		if _, err := l.jsonParse(runtime.Undefined, []*runtime.Value{str(text)}); err == nil {
			t.Errorf("JSON.parse(%q) succeeded, want SyntaxError", text)
		}
	}
}
