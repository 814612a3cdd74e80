package runtime

import (
	"fmt"
	"strings"
)

// ErrorKind classifies failures raised by the engine itself.
type ErrorKind int

const (
	NameNotDefined ErrorKind = iota + 1
	DuplicateDeclaration
	ConstAssignment
	NotAFunction
	PropertyAccessOnNullOrUndefined
	NotIterable
	NoSuperCall
	NotAConstructor
	UnsupportedSyntax
	StackOverflow
)

var kindNames = map[ErrorKind]string{
	NameNotDefined:                  "NameNotDefined",
	DuplicateDeclaration:            "DuplicateDeclaration",
	ConstAssignment:                 "ConstAssignment",
	NotAFunction:                    "NotAFunction",
	PropertyAccessOnNullOrUndefined: "PropertyAccessOnNullOrUndefined",
	NotIterable:                     "NotIterable",
	NoSuperCall:                     "NoSuperCall",
	NotAConstructor:                 "NotAConstructor",
	UnsupportedSyntax:               "UnsupportedSyntax",
	StackOverflow:                   "StackOverflow",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// JSName is the constructor name of the JS error object raised for k.
func (k ErrorKind) JSName() string {
	switch k {
	case NameNotDefined, NoSuperCall:
		return "ReferenceError"
	case DuplicateDeclaration, UnsupportedSyntax:
		return "SyntaxError"
	case StackOverflow:
		return "RangeError"
	default:
		return "TypeError"
	}
}

// Sentinels for errors.Is.
var (
	ErrNameNotDefined                  = &Error{Kind: NameNotDefined}
	ErrDuplicateDeclaration            = &Error{Kind: DuplicateDeclaration}
	ErrConstAssignment                 = &Error{Kind: ConstAssignment}
	ErrNotAFunction                    = &Error{Kind: NotAFunction}
	ErrPropertyAccessOnNullOrUndefined = &Error{Kind: PropertyAccessOnNullOrUndefined}
	ErrNotIterable                     = &Error{Kind: NotIterable}
	ErrNoSuperCall                     = &Error{Kind: NoSuperCall}
	ErrNotAConstructor                 = &Error{Kind: NotAConstructor}
	ErrUnsupportedSyntax               = &Error{Kind: UnsupportedSyntax}
	ErrStackOverflow                   = &Error{Kind: StackOverflow}
)

// Error is a structured engine failure.
type Error struct {
	Kind    ErrorKind
	Message string
	Stack   []Frame
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.JSName() + ": " + e.Kind.String()
	}
	return e.Kind.JSName() + ": " + e.Message
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func newError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func ErrorNameNotDefined(name string) *Error {
	return newError(NameNotDefined, "%s is not defined", name)
}

func ErrorDuplicateDeclaration(name string) *Error {
	return newError(DuplicateDeclaration, "Identifier '%s' has already been declared", name)
}

func ErrorConstAssignment() *Error {
	return newError(ConstAssignment, "Assignment to constant variable.")
}

func ErrorNotAFunction(callee string) *Error {
	return newError(NotAFunction, "%s is not a function", callee)
}

func ErrorPropertyAccess(prop string, base *Value) *Error {
	return newError(PropertyAccessOnNullOrUndefined, "Cannot read property '%s' of %s", prop, base.ToString())
}

func ErrorPropertyWrite(prop string, base *Value) *Error {
	return newError(PropertyAccessOnNullOrUndefined, "Cannot set property '%s' of %s", prop, base.ToString())
}

func ErrorNotIterable(what string) *Error {
	return newError(NotIterable, "%s is not iterable", what)
}

func ErrorNoSuperCall() *Error {
	return newError(NoSuperCall, "Must call super constructor in derived class before accessing 'this' or returning from derived constructor")
}

func ErrorNotAConstructor(callee string) *Error {
	return newError(NotAConstructor, "%s is not a constructor", callee)
}

func ErrorUnsupported(format string, args ...interface{}) *Error {
	return newError(UnsupportedSyntax, format, args...)
}

// Exception is a user-thrown value that escaped the program.
type Exception struct {
	Value *Value
	Stack []Frame
}

func (e *Exception) Error() string {
	msg := "Uncaught " + e.Value.ToString()
	if e.Value.IsObject() && e.Value.Object.OType == ObjTypeError {
		msg = "Uncaught " + e.Value.Object.describe()
	}
	if len(e.Stack) == 0 {
		return msg
	}
	var b strings.Builder
	b.WriteString(msg)
	for _, f := range e.Stack {
		b.WriteString("\n    ")
		b.WriteString(f.String())
	}
	return b.String()
}
