package builtins

import (
	"fmt"

	"github.com/example/jsvm/runtime"
)

func (l *lib) createBooleanConstructor() *runtime.Object {
	proto := l.realm.BooleanPrototype
	proto.OType = runtime.ObjTypeBoxed
	proto.SetSlot("primitive", runtime.False)

	l.setMethod(proto, "toString", 0, booleanToString)
	l.setMethod(proto, "valueOf", 0, booleanValueOf)

	return l.newConstructor("Boolean", 1, proto, booleanConstructorCall, func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		return l.box(runtime.NewBool(argAt(args, 0).ToBoolean())), nil
	})
}

func thisBool(this *runtime.Value, method string) (bool, error) {
	if v := primitive(this); v.Type == runtime.TypeBoolean {
		return v.Bool, nil
	}
	return false, fmt.Errorf("TypeError: Boolean.prototype.%s requires that 'this' be a Boolean", method)
}

func booleanConstructorCall(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	return runtime.NewBool(argAt(args, 0).ToBoolean()), nil
}

func booleanToString(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	b, err := thisBool(this, "toString")
	if err != nil {
		return nil, err
	}
	if b {
		return runtime.NewString("true"), nil
	}
	return runtime.NewString("false"), nil
}

func booleanValueOf(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	b, err := thisBool(this, "valueOf")
	if err != nil {
		return nil, err
	}
	return runtime.NewBool(b), nil
}
