package runtime

import (
	"math"
	"strconv"
	"strings"
)

// ValueType represents the type of a JavaScript value.
type ValueType int

const (
	TypeUndefined ValueType = iota
	TypeNull
	TypeBoolean
	TypeNumber
	TypeString
	TypeObject
)

func (t ValueType) String() string {
	switch t {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "object" // typeof null === "object"
	case TypeBoolean:
		return "boolean"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value represents a JavaScript value.
type Value struct {
	Type   ValueType
	Bool   bool
	Number float64
	Str    string
	Object *Object
}

var (
	Undefined = &Value{Type: TypeUndefined}
	Null      = &Value{Type: TypeNull}
	True      = &Value{Type: TypeBoolean, Bool: true}
	False     = &Value{Type: TypeBoolean, Bool: false}
	NaN       = &Value{Type: TypeNumber, Number: math.NaN()}
	PosInf    = &Value{Type: TypeNumber, Number: math.Inf(1)}
	NegInf    = &Value{Type: TypeNumber, Number: math.Inf(-1)}
	Zero      = &Value{Type: TypeNumber, Number: 0}
)

func NewNumber(n float64) *Value {
	return &Value{Type: TypeNumber, Number: n}
}

func NewString(s string) *Value {
	return &Value{Type: TypeString, Str: s}
}

func NewBool(b bool) *Value {
	if b {
		return True
	}
	return False
}

func NewObject(obj *Object) *Value {
	return &Value{Type: TypeObject, Object: obj}
}

// IsNullish reports whether v is undefined or null. A nil *Value counts as undefined.
func (v *Value) IsNullish() bool {
	return v == nil || v.Type == TypeUndefined || v.Type == TypeNull
}

// IsObject reports whether v holds an object.
func (v *Value) IsObject() bool {
	return v != nil && v.Type == TypeObject && v.Object != nil
}

// IsCallable reports whether v is a function object.
func (v *Value) IsCallable() bool {
	return v.IsObject() && v.Object.Callable != nil
}

// ToBoolean implements the ECMAScript ToBoolean abstract operation.
func (v *Value) ToBoolean() bool {
	if v == nil {
		return false
	}
	switch v.Type {
	case TypeBoolean:
		return v.Bool
	case TypeNumber:
		return v.Number != 0 && !math.IsNaN(v.Number)
	case TypeString:
		return len(v.Str) > 0
	case TypeObject:
		return true
	default:
		return false
	}
}

// ToString implements ToString for primitives. Objects are rendered without
// invoking user code; use ToPrimitive first when toString/valueOf matter.
func (v *Value) ToString() string {
	if v == nil {
		return "undefined"
	}
	switch v.Type {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeBoolean:
		if v.Bool {
			return "true"
		}
		return "false"
	case TypeNumber:
		return NumberToString(v.Number)
	case TypeString:
		return v.Str
	case TypeObject:
		return v.Object.describe()
	default:
		return "undefined"
	}
}

// TypeOf returns the result of the typeof operator.
func (v *Value) TypeOf() string {
	if v.IsCallable() {
		return "function"
	}
	if v == nil {
		return "undefined"
	}
	return v.Type.String()
}

// NumberToString formats a float the way Number.prototype.toString does for radix 10.
func NumberToString(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case n == 0:
		return "0"
	}
	abs := math.Abs(n)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	s := strconv.FormatFloat(n, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	if exp[0] == '+' || exp[0] == '-' {
		sign := exp[:1]
		exp = strings.TrimLeft(exp[1:], "0")
		return mant + "e" + sign + exp
	}
	return mant + "e+" + exp
}

// ObjectType describes the kind of object.
type ObjectType int

const (
	ObjTypeOrdinary ObjectType = iota
	ObjTypeArray
	ObjTypeFunction
	ObjTypeRegExp
	ObjTypeError
	ObjTypePromise
	ObjTypeGenerator
	ObjTypeBoxed
)

// Object represents a JavaScript object. Own keys keep insertion order.
type Object struct {
	OType       ObjectType
	Properties  map[string]*Property
	keys        []string
	Prototype   *Object
	Callable    CallableFunc
	Constructor CallableFunc
	Internal    map[string]interface{} // internal slots

	// Array elements; nil entries are holes.
	ArrayData []*Value
}

// Property represents a property descriptor.
type Property struct {
	Value        *Value
	Getter       *Value // for accessor properties
	Setter       *Value // for accessor properties
	Writable     bool
	Enumerable   bool
	Configurable bool
	IsAccessor   bool
}

// CallableFunc is the Go function signature for JS callable objects.
type CallableFunc func(this *Value, args []*Value) (*Value, error)

// NewOrdinaryObject creates a plain object.
func NewOrdinaryObject(proto *Object) *Object {
	return &Object{
		OType:      ObjTypeOrdinary,
		Properties: make(map[string]*Property),
		Prototype:  proto,
	}
}

// NewArrayObject creates an array object from values.
func NewArrayObject(proto *Object, elements []*Value) *Object {
	if elements == nil {
		elements = []*Value{}
	}
	return &Object{
		OType:      ObjTypeArray,
		Properties: make(map[string]*Property),
		Prototype:  proto,
		ArrayData:  elements,
	}
}

// NewFunctionObject creates a function object.
func NewFunctionObject(proto *Object, callable CallableFunc) *Object {
	return &Object{
		OType:      ObjTypeFunction,
		Properties: make(map[string]*Property),
		Prototype:  proto,
		Callable:   callable,
	}
}

// NewErrorObject creates an error object with a name and message.
func NewErrorObject(proto *Object, name, message string) *Object {
	obj := &Object{
		OType:      ObjTypeError,
		Properties: make(map[string]*Property),
		Prototype:  proto,
	}
	obj.DefineProperty("message", &Property{Value: NewString(message), Writable: true, Configurable: true})
	if proto == nil || proto.Get("name").ToString() != name {
		obj.DefineProperty("name", &Property{Value: NewString(name), Writable: true, Configurable: true})
	}
	obj.DefineProperty("stack", &Property{Value: NewString(name + ": " + message), Writable: true, Configurable: true})
	return obj
}

// arrayIndex parses a canonical array index key.
func arrayIndex(name string) (int, bool) {
	if name == "" || len(name) > 10 || (len(name) > 1 && name[0] == '0') {
		return 0, false
	}
	n := 0
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, n < math.MaxInt32
}

// GetOwnProperty returns the own descriptor for name, synthesizing one for
// array elements and length.
func (o *Object) GetOwnProperty(name string) *Property {
	if o.OType == ObjTypeArray {
		if name == "length" {
			return &Property{Value: NewNumber(float64(len(o.ArrayData))), Writable: true}
		}
		if i, ok := arrayIndex(name); ok {
			if i < len(o.ArrayData) && o.ArrayData[i] != nil {
				return &Property{Value: o.ArrayData[i], Writable: true, Enumerable: true, Configurable: true}
			}
			return nil
		}
	}
	return o.Properties[name]
}

// Get retrieves a property, walking the prototype chain. Getter errors are
// swallowed; use GetWithReceiver to observe them.
func (o *Object) Get(name string) *Value {
	v, err := o.GetWithReceiver(name, NewObject(o))
	if err != nil || v == nil {
		return Undefined
	}
	return v
}

// GetWithReceiver retrieves a property, invoking getters with receiver as this.
func (o *Object) GetWithReceiver(name string, receiver *Value) (*Value, error) {
	for cur := o; cur != nil; cur = cur.Prototype {
		prop := cur.GetOwnProperty(name)
		if prop == nil {
			continue
		}
		if prop.IsAccessor {
			if !prop.Getter.IsCallable() {
				return Undefined, nil
			}
			return prop.Getter.Object.Callable(receiver, nil)
		}
		if prop.Value == nil {
			return Undefined, nil
		}
		return prop.Value, nil
	}
	return Undefined, nil
}

// Set assigns a property value. Setter errors are swallowed; use
// SetWithReceiver to observe them.
func (o *Object) Set(name string, val *Value) {
	_ = o.SetWithReceiver(name, val, NewObject(o))
}

// SetWithReceiver assigns name, calling an inherited or own setter when one
// exists. Writes to non-writable data properties are ignored.
func (o *Object) SetWithReceiver(name string, val *Value, receiver *Value) error {
	if o.OType == ObjTypeArray {
		if name == "length" {
			o.setLength(int(val.ToNumber()))
			return nil
		}
		if i, ok := arrayIndex(name); ok {
			if i >= len(o.ArrayData) {
				grown := make([]*Value, i+1)
				copy(grown, o.ArrayData)
				o.ArrayData = grown
			}
			o.ArrayData[i] = val
			return nil
		}
	}
	if prop, ok := o.Properties[name]; ok && !prop.IsAccessor {
		if prop.Writable {
			prop.Value = val
		}
		return nil
	}
	for cur := o; cur != nil; cur = cur.Prototype {
		prop, ok := cur.Properties[name]
		if !ok {
			continue
		}
		if prop.IsAccessor {
			if !prop.Setter.IsCallable() {
				return nil
			}
			_, err := prop.Setter.Object.Callable(receiver, []*Value{val})
			return err
		}
		if !prop.Writable {
			return nil
		}
		break
	}
	o.DefineProperty(name, &Property{
		Value:        val,
		Writable:     true,
		Enumerable:   true,
		Configurable: true,
	})
	return nil
}

func (o *Object) setLength(n int) {
	if n < 0 {
		n = 0
	}
	if n <= len(o.ArrayData) {
		o.ArrayData = o.ArrayData[:n]
		return
	}
	grown := make([]*Value, n)
	copy(grown, o.ArrayData)
	o.ArrayData = grown
}

// DefineProperty defines a property with full descriptor control.
func (o *Object) DefineProperty(name string, prop *Property) {
	if o.OType == ObjTypeArray && !prop.IsAccessor {
		if _, ok := arrayIndex(name); ok || name == "length" {
			_ = o.SetWithReceiver(name, prop.Value, NewObject(o))
			return
		}
	}
	if _, exists := o.Properties[name]; !exists {
		o.keys = append(o.keys, name)
	}
	o.Properties[name] = prop
}

// Delete removes an own property. It reports false for non-configurable ones.
func (o *Object) Delete(name string) bool {
	if o.OType == ObjTypeArray {
		if i, ok := arrayIndex(name); ok {
			if i < len(o.ArrayData) {
				o.ArrayData[i] = nil
			}
			return true
		}
		if name == "length" {
			return false
		}
	}
	prop, ok := o.Properties[name]
	if !ok {
		return true
	}
	if !prop.Configurable {
		return false
	}
	delete(o.Properties, name)
	for i, k := range o.keys {
		if k == name {
			o.keys = append(o.keys[:i:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

// HasProperty checks own and prototype chain.
func (o *Object) HasProperty(name string) bool {
	for cur := o; cur != nil; cur = cur.Prototype {
		if cur.GetOwnProperty(name) != nil {
			return true
		}
	}
	return false
}

// HasOwnProperty checks only own properties.
func (o *Object) HasOwnProperty(name string) bool {
	return o.GetOwnProperty(name) != nil
}

// OwnKeys returns own property names: array indices first, then the rest in
// insertion order.
func (o *Object) OwnKeys() []string {
	keys := make([]string, 0, len(o.ArrayData)+len(o.keys))
	for i, v := range o.ArrayData {
		if v != nil {
			keys = append(keys, strconv.Itoa(i))
		}
	}
	return append(keys, o.keys...)
}

// EnumerableKeys returns own enumerable property names in OwnKeys order.
func (o *Object) EnumerableKeys() []string {
	var keys []string
	for _, k := range o.OwnKeys() {
		if p := o.GetOwnProperty(k); p != nil && p.Enumerable {
			keys = append(keys, k)
		}
	}
	return keys
}

// InstanceOf walks o's prototype chain looking for proto.
func (o *Object) InstanceOf(proto *Object) bool {
	for cur := o.Prototype; cur != nil; cur = cur.Prototype {
		if cur == proto {
			return true
		}
	}
	return false
}

// Slot returns an internal slot value.
func (o *Object) Slot(name string) interface{} {
	if o.Internal == nil {
		return nil
	}
	return o.Internal[name]
}

// SetSlot stores an internal slot value.
func (o *Object) SetSlot(name string, v interface{}) {
	if o.Internal == nil {
		o.Internal = make(map[string]interface{})
	}
	o.Internal[name] = v
}

func (o *Object) describe() string {
	switch o.OType {
	case ObjTypeError:
		name := o.Get("name").ToString()
		msg := o.Get("message")
		if name == "undefined" || name == "" {
			name = "Error"
		}
		if msg.Type != TypeString || msg.Str == "" {
			return name
		}
		return name + ": " + msg.Str
	case ObjTypeArray:
		parts := make([]string, len(o.ArrayData))
		for i, v := range o.ArrayData {
			if !v.IsNullish() {
				parts[i] = v.ToString()
			}
		}
		return strings.Join(parts, ",")
	case ObjTypeFunction:
		if src, ok := o.Slot("source").(string); ok && src != "" {
			return src
		}
		return "function " + o.Get("name").ToString() + "() { [native code] }"
	case ObjTypeBoxed:
		if prim, ok := o.Slot("primitive").(*Value); ok {
			return prim.ToString()
		}
	}
	return "[object Object]"
}
