package interpreter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/example/jsvm/runtime"
)

const (
	slotEngineError = "engineError"
	slotFrames      = "frames"
)

// makeErrorObject creates a JS error of the named type. The prototype comes
// from the sandbox constructor when one exists so instanceof works.
func (e *engine) makeErrorObject(errorType, message string) *runtime.Value {
	proto := e.ctx.ErrorPrototype(errorType)
	return runtime.NewObject(runtime.NewErrorObject(proto, errorType, message))
}

// errorValue converts a Go error into the JS value a script can catch.
func (e *engine) errorValue(err error) *runtime.Value {
	var ex *runtime.Exception
	if errors.As(err, &ex) {
		return ex.Value
	}
	var engErr *runtime.Error
	if errors.As(err, &engErr) {
		v := e.makeErrorObject(engErr.Kind.JSName(), engErr.Message)
		v.Object.SetSlot(slotEngineError, engErr)
		e.markThrown(v)
		return v
	}
	v := errorFromGoError(e, err)
	e.markThrown(v)
	return v
}

// typeError builds an error in the "TypeError: ..." convention host
// builtins use.
func typeError(format string, args ...interface{}) error {
	return fmt.Errorf("TypeError: "+format, args...)
}

func rangeError(format string, args ...interface{}) error {
	return fmt.Errorf("RangeError: "+format, args...)
}

// errorFromGoError parses the "TypeError: ..." prefix convention host
// builtins use and creates the matching error type.
func errorFromGoError(e *engine, goErr error) *runtime.Value {
	msg := goErr.Error()
	for _, et := range []string{"TypeError", "ReferenceError", "SyntaxError", "RangeError", "URIError", "EvalError"} {
		if rest, ok := strings.CutPrefix(msg, et+": "); ok {
			return e.makeErrorObject(et, rest)
		}
	}
	return e.makeErrorObject("Error", msg)
}

// markThrown records the call stack at a throw site. Error objects keep the
// frames of their first throw and get the trace appended to their stack.
func (e *engine) markThrown(v *runtime.Value) {
	frames := e.stack.Frames()
	e.thrown = frames
	if !v.IsObject() || v.Object.OType != runtime.ObjTypeError {
		return
	}
	if v.Object.Slot(slotFrames) != nil {
		return
	}
	v.Object.SetSlot(slotFrames, frames)
	stack := v.Object.Get("stack")
	if stack.Type != runtime.TypeString {
		stack = runtime.NewString(v.ToString())
	}
	v.Object.Set("stack", runtime.NewString(stack.Str+e.stack.Trace()))
}

// goError converts an uncaught thrown value into the error Run returns.
func (e *engine) goError(v *runtime.Value) error {
	frames := e.thrown
	if v.IsObject() {
		if f, ok := v.Object.Slot(slotFrames).([]runtime.Frame); ok {
			frames = f
		}
		if engErr, ok := v.Object.Slot(slotEngineError).(*runtime.Error); ok {
			out := *engErr
			out.Stack = frames
			return &out
		}
	}
	return &runtime.Exception{Value: v, Stack: frames}
}
