package runtime

import (
	"fmt"
	"strings"

	"github.com/example/jsvm/ast"
)

// MaxCallDepth bounds nested invocations before a RangeError is raised.
const MaxCallDepth = 1500

// Frame is one call-stack entry: the callee name and the call site.
type Frame struct {
	Name     string
	Filename string
	Location ast.Position
}

func (f Frame) String() string {
	name := f.Name
	if name == "" {
		name = "<anonymous>"
	}
	file := f.Filename
	if file == "" {
		file = "<input>"
	}
	return fmt.Sprintf("at %s (%s:%d:%d)", name, file, f.Location.Line, f.Location.Column)
}

// CallStack records nested invocations for diagnostic traces. One stack is
// shared by a whole run.
type CallStack struct {
	Filename string
	frames   []Frame
}

func NewCallStack(filename string) *CallStack {
	return &CallStack{Filename: filename}
}

// Enter pushes a frame. The returned func pops it and must be deferred so the
// frame is released on every exit path.
func (cs *CallStack) Enter(name string, loc ast.Position) (func(), error) {
	if len(cs.frames) >= MaxCallDepth {
		return func() {}, newError(StackOverflow, "Maximum call stack size exceeded")
	}
	depth := len(cs.frames)
	cs.frames = append(cs.frames, Frame{Name: name, Filename: cs.Filename, Location: loc})
	return func() { cs.frames = cs.frames[:depth] }, nil
}

// Depth returns the number of active frames.
func (cs *CallStack) Depth() int {
	return len(cs.frames)
}

// Frames returns the active frames, innermost first.
func (cs *CallStack) Frames() []Frame {
	out := make([]Frame, len(cs.frames))
	for i, f := range cs.frames {
		out[len(cs.frames)-1-i] = f
	}
	return out
}

// Trace renders the active frames, innermost first, one per line.
func (cs *CallStack) Trace() string {
	var b strings.Builder
	for _, f := range cs.Frames() {
		b.WriteString("\n    ")
		b.WriteString(f.String())
	}
	return b.String()
}
