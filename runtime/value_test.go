package runtime

import (
	"math"
	"reflect"
	"testing"
)

func TestNumberToString(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{1, "1"},
		{-1.5, "-1.5"},
		{123456789, "123456789"},
		{0.1, "0.1"},
		{1e21, "1e+21"},
		{1.5e-10, "1.5e-10"},
		{math.NaN(), "NaN"},
		{math.Inf(-1), "-Infinity"},
	}
	for _, tt := range tests {
		if got := NumberToString(tt.in); got != tt.want {
			t.Errorf("NumberToString(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStringToNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"  42  ", 42},
		{"0x1f", 31},
		{"0b101", 5},
		{"1e3", 1000},
		{"-Infinity", math.Inf(-1)},
	}
	for _, tt := range tests {
		if got := StringToNumber(tt.in); got != tt.want {
			t.Errorf("StringToNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	for _, bad := range []string{"abc", "1_000", "inf", "NaN"} {
		if got := StringToNumber(bad); !math.IsNaN(got) {
			t.Errorf("StringToNumber(%q) = %v, want NaN", bad, got)
		}
	}
}

func TestAbstractEquals(t *testing.T) {
	tests := []struct {
		a, b *Value
		want bool
	}{
		{Null, Undefined, true},
		{NewNumber(1), NewString("1"), true},
		{True, NewNumber(1), true},
		{NewString(""), False, true},
		{Null, Zero, false},
		{NewNumber(math.NaN()), NewNumber(math.NaN()), false},
	}
	for _, tt := range tests {
		got, err := AbstractEquals(tt.a, tt.b)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("%s == %s: got %v", tt.a.ToString(), tt.b.ToString(), got)
		}
	}
}

func TestToInt32(t *testing.T) {
	if got := ToInt32(4294967295); got != -1 {
		t.Errorf("ToInt32(2^32-1) = %d", got)
	}
	if got := ToUint32(-1); got != 4294967295 {
		t.Errorf("ToUint32(-1) = %d", got)
	}
}

func TestObjectKeyOrder(t *testing.T) {
	obj := NewOrdinaryObject(nil)
	obj.Set("z", NewNumber(1))
	obj.Set("a", NewNumber(2))
	obj.Set("m", NewNumber(3))
	obj.Delete("a")
	obj.Set("a", NewNumber(4))
	want := []string{"z", "m", "a"}
	if got := obj.OwnKeys(); !reflect.DeepEqual(got, want) {
		t.Errorf("OwnKeys = %v, want %v", got, want)
	}
}

func TestArrayElements(t *testing.T) {
	arr := NewArrayObject(nil, []*Value{NewNumber(1)})
	arr.Set("3", NewNumber(4))
	if got := arr.Get("length").Number; got != 4 {
		t.Fatalf("length = %v, want 4", got)
	}
	if !arr.Get("1").IsNullish() {
		t.Error("hole should read as undefined")
	}
	if got := arr.OwnKeys(); !reflect.DeepEqual(got, []string{"0", "3"}) {
		t.Errorf("OwnKeys = %v", got)
	}
	arr.Set("length", NewNumber(1))
	if len(arr.ArrayData) != 1 {
		t.Errorf("length assignment should truncate, got %d", len(arr.ArrayData))
	}
}

func TestAccessorProperties(t *testing.T) {
	var stored *Value
	obj := NewOrdinaryObject(nil)
	obj.DefineProperty("x", &Property{
		IsAccessor: true,
		Getter: NewObject(NewFunctionObject(nil, func(this *Value, args []*Value) (*Value, error) {
			return NewNumber(7), nil
		})),
		Setter: NewObject(NewFunctionObject(nil, func(this *Value, args []*Value) (*Value, error) {
			stored = args[0]
			return Undefined, nil
		})),
	})
	child := NewOrdinaryObject(obj)
	if got := child.Get("x").Number; got != 7 {
		t.Errorf("inherited getter returned %v", got)
	}
	child.Set("x", NewNumber(3))
	if stored == nil || stored.Number != 3 {
		t.Error("inherited setter was not called")
	}
	if child.HasOwnProperty("x") {
		t.Error("setter assignment must not create an own property")
	}
}

func TestToGoAndFromGo(t *testing.T) {
	r := NewRealm()
	in := map[string]interface{}{
		"name":  "axetroy",
		"list":  []interface{}{1, "two", true, nil},
		"inner": map[string]interface{}{"n": 1.5},
	}
	v := r.FromGo(in)
	if !v.IsObject() || v.Object.Prototype != r.ObjectPrototype {
		t.Fatal("expected an object in the realm")
	}
	got := ToGo(v)
	want := map[string]interface{}{
		"name":  "axetroy",
		"list":  []interface{}{float64(1), "two", true, nil},
		"inner": map[string]interface{}{"n": 1.5},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ToGo(FromGo(x)) = %#v", got)
	}
}

func TestToGoCutsCycles(t *testing.T) {
	obj := NewOrdinaryObject(nil)
	obj.Set("self", NewObject(obj))
	got := ToGo(NewObject(obj)).(map[string]interface{})
	if got["self"] != nil {
		t.Errorf("cycle should become nil, got %#v", got["self"])
	}
}
