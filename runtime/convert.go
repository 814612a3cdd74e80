package runtime

import (
	"fmt"
	"math"
	"reflect"
	"sort"
)

// ToGo converts a value into plain Go data: nil, bool, float64, string,
// []interface{} and map[string]interface{}. Functions are dropped from
// objects and become nil elsewhere; cycles are cut with nil.
func ToGo(v *Value) interface{} {
	return toGo(v, make(map[*Object]bool))
}

func toGo(v *Value, seen map[*Object]bool) interface{} {
	if v == nil {
		return nil
	}
	switch v.Type {
	case TypeBoolean:
		return v.Bool
	case TypeNumber:
		return v.Number
	case TypeString:
		return v.Str
	case TypeObject:
	default:
		return nil
	}
	obj := v.Object
	if obj.Callable != nil || seen[obj] {
		return nil
	}
	seen[obj] = true
	defer delete(seen, obj)
	switch obj.OType {
	case ObjTypeArray:
		out := make([]interface{}, len(obj.ArrayData))
		for i, el := range obj.ArrayData {
			out[i] = toGo(el, seen)
		}
		return out
	case ObjTypeError:
		return obj.describe()
	case ObjTypeBoxed:
		if prim, ok := obj.Slot("primitive").(*Value); ok {
			return toGo(prim, seen)
		}
	}
	out := make(map[string]interface{})
	for _, k := range obj.EnumerableKeys() {
		val := obj.Get(k)
		if val.IsCallable() {
			continue
		}
		out[k] = toGo(val, seen)
	}
	return out
}

// FromGo converts Go data into a value allocated in r. Maps become objects
// with keys in sorted order, slices become arrays, numeric kinds become
// numbers, and CallableFunc values become host functions.
func (r *Realm) FromGo(x interface{}) *Value {
	switch x := x.(type) {
	case nil:
		return Null
	case *Value:
		return x
	case *Object:
		return NewObject(x)
	case bool:
		return NewBool(x)
	case string:
		return NewString(x)
	case float64:
		return NewNumber(x)
	case int:
		return NewNumber(float64(x))
	case int64:
		return NewNumber(float64(x))
	case CallableFunc:
		return NewObject(r.NewFunction("", 0, x))
	case func(this *Value, args []*Value) (*Value, error):
		return NewObject(r.NewFunction("", 0, x))
	case []interface{}:
		els := make([]*Value, len(x))
		for i, el := range x {
			els[i] = r.FromGo(el)
		}
		return NewObject(r.NewArray(els))
	case map[string]interface{}:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := r.NewObject()
		for _, k := range keys {
			obj.Set(k, r.FromGo(x[k]))
		}
		return NewObject(obj)
	}
	return r.fromReflect(reflect.ValueOf(x))
}

func (r *Realm) fromReflect(rv reflect.Value) *Value {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return NewNumber(float64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return NewNumber(float64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		return NewNumber(rv.Float())
	case reflect.Slice, reflect.Array:
		els := make([]*Value, rv.Len())
		for i := range els {
			els[i] = r.FromGo(rv.Index(i).Interface())
		}
		return NewObject(r.NewArray(els))
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		m := make(map[string]interface{}, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return r.FromGo(m)
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null
		}
		return r.FromGo(rv.Elem().Interface())
	}
	return NewString(fmt.Sprint(rv.Interface()))
}

// IsInteger reports whether n is a finite whole number.
func IsInteger(n float64) bool {
	return !math.IsInf(n, 0) && !math.IsNaN(n) && n == math.Trunc(n)
}
