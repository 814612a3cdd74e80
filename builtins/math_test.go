package builtins

import (
	"bytes"
	"math"
	"testing"

	"github.com/example/jsvm/interpreter"
	"github.com/example/jsvm/runtime"
)

func TestMathFunctions(t *testing.T) {
	expectEval(t, []struct {
		expr string
		want interface{}
	}{
		{`Math.abs(-3)`, 3.0},
		{`Math.floor(-1.5)`, -2.0},
		{`Math.ceil(1.2)`, 2.0},
		{`Math.trunc(-1.7)`, -1.0},
		{`Math.round(2.5)`, 3.0},
		{`Math.round(-2.5)`, -2.0},
		{`Math.max(1, 3, 2)`, 3.0},
		{`Math.min()`, math.Inf(1)},
		{`Number.isNaN(Math.max(1, NaN))`, true},
		{`Math.pow(2, 10)`, 1024.0},
		{`Number.isNaN(Math.pow(1, Infinity))`, true},
		{`Math.sqrt(16)`, 4.0},
		{`Math.hypot(3, 4)`, 5.0},
		{`Math.sign(-5)`, -1.0},
		{`Math.imul(3, 4)`, 12.0},
		{`Math.clz32(1)`, 31.0},
		{`Math.cbrt(27)`, 3.0},
		{`Object.prototype.toString.call(Math)`, "[object Math]"},
	})
}

func TestMathRandomInjectable(t *testing.T) {
	ctx := NewContext(WithOutput(&bytes.Buffer{}, &bytes.Buffer{}), WithRandom(func() float64 { return 0.25 }))
	v, err := interpreter.RunInContext(`module.exports = Math.floor(Math.random() * 8);`, ctx, interpreter.PresetEnv)
	if err != nil {
		t.Fatal(err)
	}
	if v.Type != runtime.TypeNumber || v.Number != 2 {
		t.Errorf("got %v, want 2", v.ToString())
	}
}

func TestJSRound(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0.5, 1},
		{1.4999, 1},
		{-0.5, 0},
		{-1.5, -1},
		{-1.6, -2},
	}
	for _, tt := range tests {
		if got := jsRound(tt.in); got != tt.want {
			t.Errorf("jsRound(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if got := jsRound(-0.2); !math.Signbit(got) {
		t.Errorf("jsRound(-0.2) = %v, want -0", got)
	}
}
