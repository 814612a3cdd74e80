package builtins

import (
	"fmt"

	"github.com/example/jsvm/runtime"
)

// Well-known symbols are plain string keys: the value model has no symbol
// type, so Symbol.iterator is the property name "@@iterator".
var wellKnownSymbols = []string{"iterator", "asyncIterator", "toStringTag", "toPrimitive", "hasInstance"}

func (l *lib) createSymbolObject() *runtime.Object {
	sym := l.newFuncObject("Symbol", 0, func(_ *runtime.Value, _ []*runtime.Value) (*runtime.Value, error) {
		return nil, fmt.Errorf("TypeError: Symbol() is not supported; only well-known symbols are available")
	})
	for _, name := range wellKnownSymbols {
		setConstant(sym, name, runtime.NewString("@@"+name))
	}
	return sym
}
