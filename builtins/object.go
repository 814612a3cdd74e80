package builtins

import (
	"fmt"
	"math"

	"github.com/example/jsvm/runtime"
)

func (l *lib) createObjectConstructor() *runtime.Object {
	proto := l.realm.ObjectPrototype

	l.setMethod(proto, "hasOwnProperty", 1, objectProtoHasOwnProperty)
	l.setMethod(proto, "isPrototypeOf", 1, objectProtoIsPrototypeOf)
	l.setMethod(proto, "propertyIsEnumerable", 1, objectProtoPropertyIsEnumerable)
	l.setMethod(proto, "toString", 0, objectProtoToString)
	l.setMethod(proto, "toLocaleString", 0, objectProtoToString)
	l.setMethod(proto, "valueOf", 0, objectProtoValueOf)

	ctor := l.newConstructor("Object", 1, proto, l.objectConstructorCall, l.objectConstructorCall)

	l.setMethod(ctor, "keys", 1, l.objectKeys)
	l.setMethod(ctor, "values", 1, l.objectValues)
	l.setMethod(ctor, "entries", 1, l.objectEntries)
	l.setMethod(ctor, "fromEntries", 1, l.objectFromEntries)
	l.setMethod(ctor, "assign", 2, objectAssign)
	l.setMethod(ctor, "create", 2, l.objectCreate)
	l.setMethod(ctor, "getPrototypeOf", 1, l.objectGetPrototypeOf)
	l.setMethod(ctor, "setPrototypeOf", 2, objectSetPrototypeOf)
	l.setMethod(ctor, "defineProperty", 3, objectDefineProperty)
	l.setMethod(ctor, "defineProperties", 2, objectDefineProperties)
	l.setMethod(ctor, "getOwnPropertyNames", 1, l.objectGetOwnPropertyNames)
	l.setMethod(ctor, "getOwnPropertyDescriptor", 2, l.objectGetOwnPropertyDescriptor)
	l.setMethod(ctor, "freeze", 1, objectFreeze)
	l.setMethod(ctor, "isFrozen", 1, objectIsFrozen)
	l.setMethod(ctor, "is", 2, objectIs)

	return ctor
}

func (l *lib) objectConstructorCall(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	v := argAt(args, 0)
	if v.IsNullish() {
		return runtime.NewObject(l.realm.NewObject()), nil
	}
	if v.IsObject() {
		return v, nil
	}
	return l.box(v), nil
}

// requireObject rejects undefined and null the way Object.keys and friends do.
func (l *lib) requireObject(v *runtime.Value) (*runtime.Object, error) {
	if v.IsNullish() {
		return nil, fmt.Errorf("TypeError: Cannot convert undefined or null to object")
	}
	if v.IsObject() {
		return v.Object, nil
	}
	return l.realm.Box(v), nil
}

func (l *lib) objectKeys(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	obj, err := l.requireObject(argAt(args, 0))
	if err != nil {
		return nil, err
	}
	keys := obj.EnumerableKeys()
	out := make([]*runtime.Value, len(keys))
	for i, k := range keys {
		out[i] = runtime.NewString(k)
	}
	return l.newArray(out), nil
}

func (l *lib) objectValues(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	obj, err := l.requireObject(argAt(args, 0))
	if err != nil {
		return nil, err
	}
	var out []*runtime.Value
	for _, k := range obj.EnumerableKeys() {
		v, err := obj.GetWithReceiver(k, runtime.NewObject(obj))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return l.newArray(out), nil
}

func (l *lib) objectEntries(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	obj, err := l.requireObject(argAt(args, 0))
	if err != nil {
		return nil, err
	}
	var out []*runtime.Value
	for _, k := range obj.EnumerableKeys() {
		v, err := obj.GetWithReceiver(k, runtime.NewObject(obj))
		if err != nil {
			return nil, err
		}
		out = append(out, l.newArray([]*runtime.Value{runtime.NewString(k), v}))
	}
	return l.newArray(out), nil
}

func (l *lib) objectFromEntries(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	obj := l.realm.NewObject()
	err := iterate(argAt(args, 0), func(entry *runtime.Value) error {
		if !entry.IsObject() {
			return fmt.Errorf("TypeError: Iterator value %s is not an entry object", entry.ToString())
		}
		key, err := runtime.ToPropertyKey(entry.Object.Get("0"))
		if err != nil {
			return err
		}
		obj.Set(key, entry.Object.Get("1"))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return runtime.NewObject(obj), nil
}

func objectAssign(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	target := argAt(args, 0)
	if !target.IsObject() {
		return nil, fmt.Errorf("TypeError: Cannot convert undefined or null to object")
	}
	for _, src := range args[1:] {
		if !src.IsObject() {
			continue
		}
		for _, k := range src.Object.EnumerableKeys() {
			v, err := src.Object.GetWithReceiver(k, src)
			if err != nil {
				return nil, err
			}
			if err := target.Object.SetWithReceiver(k, v, target); err != nil {
				return nil, err
			}
		}
	}
	return target, nil
}

func (l *lib) objectCreate(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	protoArg := argAt(args, 0)
	var proto *runtime.Object
	switch {
	case protoArg.Type == runtime.TypeNull:
	case protoArg.IsObject():
		proto = protoArg.Object
	default:
		return nil, fmt.Errorf("TypeError: Object prototype may only be an Object or null: %s", protoArg.ToString())
	}
	obj := runtime.NewObject(runtime.NewOrdinaryObject(proto))
	if props := argAt(args, 1); props.IsObject() {
		if _, err := objectDefineProperties(runtime.Undefined, []*runtime.Value{obj, props}); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

func (l *lib) objectGetPrototypeOf(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	obj, err := l.requireObject(argAt(args, 0))
	if err != nil {
		return nil, err
	}
	if obj.Prototype == nil {
		return runtime.Null, nil
	}
	return runtime.NewObject(obj.Prototype), nil
}

func objectSetPrototypeOf(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	target, protoArg := argAt(args, 0), argAt(args, 1)
	if !target.IsObject() {
		return target, nil
	}
	switch {
	case protoArg.Type == runtime.TypeNull:
		target.Object.Prototype = nil
	case protoArg.IsObject():
		for cur := protoArg.Object; cur != nil; cur = cur.Prototype {
			if cur == target.Object {
				return nil, fmt.Errorf("TypeError: Cyclic __proto__ value")
			}
		}
		target.Object.Prototype = protoArg.Object
	default:
		return nil, fmt.Errorf("TypeError: Object prototype may only be an Object or null: %s", protoArg.ToString())
	}
	return target, nil
}

// toPropertyDescriptor reads a descriptor object. Missing attributes
// default to false.
func toPropertyDescriptor(desc *runtime.Value) (*runtime.Property, error) {
	if !desc.IsObject() {
		return nil, fmt.Errorf("TypeError: Property description must be an object: %s", desc.ToString())
	}
	d := desc.Object
	prop := &runtime.Property{
		Enumerable:   d.Get("enumerable").ToBoolean(),
		Configurable: d.Get("configurable").ToBoolean(),
	}
	if d.HasProperty("get") || d.HasProperty("set") {
		if d.HasProperty("value") || d.HasProperty("writable") {
			return nil, fmt.Errorf("TypeError: Invalid property descriptor. Cannot both specify accessors and a value or writable attribute")
		}
		prop.IsAccessor = true
		prop.Getter = d.Get("get")
		prop.Setter = d.Get("set")
		return prop, nil
	}
	prop.Value = d.Get("value")
	prop.Writable = d.Get("writable").ToBoolean()
	return prop, nil
}

func objectDefineProperty(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	target := argAt(args, 0)
	if !target.IsObject() {
		return nil, fmt.Errorf("TypeError: Object.defineProperty called on non-object")
	}
	key, err := runtime.ToPropertyKey(argAt(args, 1))
	if err != nil {
		return nil, err
	}
	prop, err := toPropertyDescriptor(argAt(args, 2))
	if err != nil {
		return nil, err
	}
	if existing := target.Object.GetOwnProperty(key); existing != nil && !existing.Configurable {
		return nil, fmt.Errorf("TypeError: Cannot redefine property: %s", key)
	}
	target.Object.DefineProperty(key, prop)
	return target, nil
}

func objectDefineProperties(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	target, props := argAt(args, 0), argAt(args, 1)
	if !props.IsObject() {
		return target, nil
	}
	for _, k := range props.Object.EnumerableKeys() {
		if _, err := objectDefineProperty(this, []*runtime.Value{target, runtime.NewString(k), props.Object.Get(k)}); err != nil {
			return nil, err
		}
	}
	return target, nil
}

func (l *lib) objectGetOwnPropertyNames(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	obj, err := l.requireObject(argAt(args, 0))
	if err != nil {
		return nil, err
	}
	keys := obj.OwnKeys()
	out := make([]*runtime.Value, 0, len(keys)+1)
	for _, k := range keys {
		out = append(out, runtime.NewString(k))
	}
	if obj.OType == runtime.ObjTypeArray {
		out = append(out, runtime.NewString("length"))
	}
	return l.newArray(out), nil
}

func (l *lib) objectGetOwnPropertyDescriptor(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	obj, err := l.requireObject(argAt(args, 0))
	if err != nil {
		return nil, err
	}
	key, err := runtime.ToPropertyKey(argAt(args, 1))
	if err != nil {
		return nil, err
	}
	prop := obj.GetOwnProperty(key)
	if prop == nil {
		return runtime.Undefined, nil
	}
	desc := l.realm.NewObject()
	if prop.IsAccessor {
		desc.Set("get", orUndefined(prop.Getter))
		desc.Set("set", orUndefined(prop.Setter))
	} else {
		desc.Set("value", orUndefined(prop.Value))
		desc.Set("writable", runtime.NewBool(prop.Writable))
	}
	desc.Set("enumerable", runtime.NewBool(prop.Enumerable))
	desc.Set("configurable", runtime.NewBool(prop.Configurable))
	return runtime.NewObject(desc), nil
}

func orUndefined(v *runtime.Value) *runtime.Value {
	if v == nil {
		return runtime.Undefined
	}
	return v
}

// objectFreeze marks every own data property read-only. Array elements are
// not covered: they have no descriptor of their own.
func objectFreeze(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	target := argAt(args, 0)
	if !target.IsObject() {
		return target, nil
	}
	for _, prop := range target.Object.Properties {
		prop.Configurable = false
		if !prop.IsAccessor {
			prop.Writable = false
		}
	}
	target.Object.SetSlot("frozen", true)
	return target, nil
}

func objectIsFrozen(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	target := argAt(args, 0)
	if !target.IsObject() {
		return runtime.True, nil
	}
	frozen, _ := target.Object.Slot("frozen").(bool)
	return runtime.NewBool(frozen), nil
}

func objectIs(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	a, b := argAt(args, 0), argAt(args, 1)
	if a.Type == runtime.TypeNumber && b.Type == runtime.TypeNumber && a.Number == 0 && b.Number == 0 {
		return runtime.NewBool(math.Signbit(a.Number) == math.Signbit(b.Number)), nil
	}
	return runtime.NewBool(runtime.SameValueZero(a, b)), nil
}

func objectProtoHasOwnProperty(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	key, err := runtime.ToPropertyKey(argAt(args, 0))
	if err != nil {
		return nil, err
	}
	obj := toObject(this)
	if obj == nil {
		if this.Type == runtime.TypeString {
			return runtime.NewBool(key == "length"), nil
		}
		return runtime.False, nil
	}
	return runtime.NewBool(obj.HasOwnProperty(key)), nil
}

func objectProtoIsPrototypeOf(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	obj, v := toObject(this), argAt(args, 0)
	if obj == nil || !v.IsObject() {
		return runtime.False, nil
	}
	return runtime.NewBool(v.Object.InstanceOf(obj)), nil
}

func objectProtoPropertyIsEnumerable(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	obj := toObject(this)
	if obj == nil {
		return runtime.False, nil
	}
	key, err := runtime.ToPropertyKey(argAt(args, 0))
	if err != nil {
		return nil, err
	}
	prop := obj.GetOwnProperty(key)
	return runtime.NewBool(prop != nil && prop.Enumerable), nil
}

func objectProtoToString(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	switch {
	case this.Type == runtime.TypeUndefined:
		return runtime.NewString("[object Undefined]"), nil
	case this.Type == runtime.TypeNull:
		return runtime.NewString("[object Null]"), nil
	}
	return runtime.NewString("[object " + classOf(this) + "]"), nil
}

// classOf returns the builtin tag used by Object.prototype.toString.
func classOf(v *runtime.Value) string {
	switch v.Type {
	case runtime.TypeString:
		return "String"
	case runtime.TypeNumber:
		return "Number"
	case runtime.TypeBoolean:
		return "Boolean"
	}
	if tag := v.Object.Get("@@toStringTag"); tag.Type == runtime.TypeString {
		return tag.Str
	}
	switch v.Object.OType {
	case runtime.ObjTypeArray:
		return "Array"
	case runtime.ObjTypeFunction:
		return "Function"
	case runtime.ObjTypeError:
		return "Error"
	case runtime.ObjTypeRegExp:
		return "RegExp"
	case runtime.ObjTypePromise:
		return "Promise"
	case runtime.ObjTypeGenerator:
		return "Generator"
	case runtime.ObjTypeBoxed:
		return classOf(primitive(v))
	}
	if v.Object.Callable != nil {
		return "Function"
	}
	return "Object"
}

func objectProtoValueOf(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	return this, nil
}
