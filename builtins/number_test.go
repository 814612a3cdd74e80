package builtins

import (
	"testing"

	"github.com/example/jsvm/runtime"
)

func TestNumberFormatting(t *testing.T) {
	expectEval(t, []struct {
		expr string
		want interface{}
	}{
		{`(1.005).toFixed(1)`, "1.0"},
		{`(12.5).toFixed()`, "13"},
		{`(1e21).toFixed(2)`, "1e+21"},
		{`(123.456).toPrecision(4)`, "123.5"},
		{`(0.000123).toPrecision(2)`, "0.00012"},
		{`(123456).toPrecision(2)`, "1.2e+5"},
		{`(12345).toExponential(2)`, "1.23e+4"},
		{`(255).toString(16)`, "ff"},
		{`(255).toString(2)`, "11111111"},
		{`(-10).toString(36)`, "-a"},
		{`(0.5).toString(2)`, "0.1"},
		{`String(0.000001)`, "0.000001"},
		{`String(1e-7)`, "1e-7"},
		{`String(1e21)`, "1e+21"},
		{`String(-0)`, "0"},
	})
}

func TestNumberStatics(t *testing.T) {
	expectEval(t, []struct {
		expr string
		want interface{}
	}{
		{`Number.isInteger(5)`, true},
		{`Number.isInteger("5")`, false},
		{`Number.isSafeInteger(Math.pow(2, 53))`, false},
		{`Number.isNaN(NaN)`, true},
		{`Number.isNaN("x")`, false},
		{`Number.isFinite(Infinity)`, false},
		{`Number.MAX_SAFE_INTEGER`, 9007199254740991.0},
		{`Number("  42  ")`, 42.0},
		{`Number("0x1f")`, 31.0},
		{`Number("")`, 0.0},
		{`Number.isNaN(Number("abc"))`, true},
		{`Number(true)`, 1.0},
		{`typeof new Number(1)`, "object"},
		{`new Number(2) * 3`, 6.0},
	})
}

func TestNumberRangeErrors(t *testing.T) {
	for _, call := range []struct {
		name string
		fn   runtime.CallableFunc
		arg  float64
	}{
		{"toFixed", numberToFixed, 101},
		{"toPrecision", numberToPrecision, 0},
		{"toString", numberToString, 37},
	} {
		if _, err := call.fn(num(1), []*runtime.Value{num(call.arg)}); err == nil {
			t.Errorf("%s(%v) succeeded, want RangeError", call.name, call.arg)
		}
	}
}

func TestNumberMethodsRejectOtherReceivers(t *testing.T) {
	if _, err := numberValueOf(str("1"), nil); err == nil {
		t.Error("valueOf on a string succeeded")
	}
}

func TestFixed(t *testing.T) {
	tests := []struct {
		n      float64
		digits int
		want   string
	}{
		{2.5, 0, "3"},
		{-2.5, 0, "-3"},
		{9.995, 2, "9.99"},
		{9.5, 0, "10"},
		{0.125, 2, "0.13"},
		{1, 3, "1.000"},
	}
	for _, tt := range tests {
		if got := fixed(tt.n, tt.digits); got != tt.want {
			t.Errorf("fixed(%v, %d) = %q, want %q", tt.n, tt.digits, got, tt.want)
		}
	}
}

func TestExponential(t *testing.T) {
	tests := []struct{ in, want string }{
		{"1.5e+05", "1.5e+5"},
		{"2e-07", "2e-7"},
		{"1e+00", "1e+0"},
		{"123", "123"},
	}
	for _, tt := range tests {
		if got := exponential(tt.in); got != tt.want {
			t.Errorf("exponential(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
