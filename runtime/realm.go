package runtime

// Realm holds the intrinsic prototypes one execution context allocates
// objects with. Prototypes are taken from the sandbox constructors when the
// host supplies them and are bare objects otherwise.
type Realm struct {
	ObjectPrototype    *Object
	FunctionPrototype  *Object
	ArrayPrototype     *Object
	StringPrototype    *Object
	NumberPrototype    *Object
	BooleanPrototype   *Object
	ErrorPrototype     *Object
	RegExpPrototype    *Object
	PromisePrototype   *Object
	GeneratorPrototype *Object
}

// NewRealm creates a realm of empty prototypes chained to ObjectPrototype.
func NewRealm() *Realm {
	objProto := NewOrdinaryObject(nil)
	child := func() *Object { return NewOrdinaryObject(objProto) }
	r := &Realm{
		ObjectPrototype:    objProto,
		FunctionPrototype:  child(),
		ArrayPrototype:     child(),
		StringPrototype:    child(),
		NumberPrototype:    child(),
		BooleanPrototype:   child(),
		ErrorPrototype:     child(),
		RegExpPrototype:    child(),
		PromisePrototype:   child(),
		GeneratorPrototype: child(),
	}
	return r
}

// Adopt replaces intrinsic prototypes with the prototype objects of matching
// sandbox constructors.
func (r *Realm) Adopt(sandbox map[string]*Value) {
	slots := map[string]**Object{
		"Object":   &r.ObjectPrototype,
		"Function": &r.FunctionPrototype,
		"Array":    &r.ArrayPrototype,
		"String":   &r.StringPrototype,
		"Number":   &r.NumberPrototype,
		"Boolean":  &r.BooleanPrototype,
		"Error":    &r.ErrorPrototype,
		"RegExp":   &r.RegExpPrototype,
		"Promise":  &r.PromisePrototype,
	}
	for name, slot := range slots {
		ctor, ok := sandbox[name]
		if !ok || !ctor.IsObject() {
			continue
		}
		if proto := ctor.Object.Get("prototype"); proto.IsObject() {
			*slot = proto.Object
		}
	}
}

// NewObject allocates a plain object inheriting from Object.prototype.
func (r *Realm) NewObject() *Object {
	return NewOrdinaryObject(r.ObjectPrototype)
}

// NewArray allocates an array inheriting from Array.prototype.
func (r *Realm) NewArray(elements []*Value) *Object {
	return NewArrayObject(r.ArrayPrototype, elements)
}

// NewFunction allocates a host function with name and length set.
func (r *Realm) NewFunction(name string, length int, fn CallableFunc) *Object {
	obj := NewFunctionObject(r.FunctionPrototype, fn)
	obj.DefineProperty("name", &Property{Value: NewString(name), Configurable: true})
	obj.DefineProperty("length", &Property{Value: NewNumber(float64(length)), Configurable: true})
	return obj
}

// NewError allocates an error object of the named type using proto.
func (r *Realm) NewError(proto *Object, name, message string) *Object {
	if proto == nil {
		proto = r.ErrorPrototype
	}
	return NewErrorObject(proto, name, message)
}

// Box wraps a primitive so its prototype methods can be looked up.
func (r *Realm) Box(v *Value) *Object {
	var proto *Object
	switch v.Type {
	case TypeString:
		proto = r.StringPrototype
	case TypeNumber:
		proto = r.NumberPrototype
	case TypeBoolean:
		proto = r.BooleanPrototype
	default:
		return nil
	}
	obj := NewOrdinaryObject(proto)
	obj.OType = ObjTypeBoxed
	obj.SetSlot("primitive", v)
	if v.Type == TypeString {
		obj.DefineProperty("length", &Property{Value: NewNumber(float64(len([]rune(v.Str))))})
	}
	return obj
}
