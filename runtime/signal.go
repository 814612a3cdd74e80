package runtime

// SignalKind tags an early exit from statement evaluation.
type SignalKind int

const (
	SigNone SignalKind = iota
	SigBreak
	SigContinue
	SigReturn
	// SigThrow carries a thrown value. It never leaves the interpreter.
	SigThrow
)

func (k SignalKind) String() string {
	switch k {
	case SigBreak:
		return "break"
	case SigContinue:
		return "continue"
	case SigReturn:
		return "return"
	case SigThrow:
		return "throw"
	}
	return "none"
}

// Signal is returned next to a value by every rule. The zero Signal means
// normal completion.
type Signal struct {
	Kind  SignalKind
	Label string
	Value *Value
}

// Abrupt reports whether s interrupts the current statement sequence.
func (s Signal) Abrupt() bool {
	return s.Kind != SigNone
}

func Break(label string) Signal    { return Signal{Kind: SigBreak, Label: label} }
func Continue(label string) Signal { return Signal{Kind: SigContinue, Label: label} }
func Return(v *Value) Signal       { return Signal{Kind: SigReturn, Value: v} }
func Throw(v *Value) Signal        { return Signal{Kind: SigThrow, Value: v} }
