package builtins

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/example/jsvm/runtime"
)

func (l *lib) createArrayConstructor() *runtime.Object {
	proto := l.realm.ArrayPrototype

	l.setMethod(proto, "push", 1, arrayPush)
	l.setMethod(proto, "pop", 0, arrayPop)
	l.setMethod(proto, "shift", 0, arrayShift)
	l.setMethod(proto, "unshift", 1, arrayUnshift)
	l.setMethod(proto, "splice", 2, l.arraySplice)
	l.setMethod(proto, "slice", 2, l.arraySlice)
	l.setMethod(proto, "concat", 1, l.arrayConcat)
	l.setMethod(proto, "indexOf", 1, arrayIndexOf)
	l.setMethod(proto, "lastIndexOf", 1, arrayLastIndexOf)
	l.setMethod(proto, "includes", 1, arrayIncludes)
	l.setMethod(proto, "find", 1, arrayFind)
	l.setMethod(proto, "findIndex", 1, arrayFindIndex)
	l.setMethod(proto, "forEach", 1, arrayForEach)
	l.setMethod(proto, "map", 1, l.arrayMap)
	l.setMethod(proto, "filter", 1, l.arrayFilter)
	l.setMethod(proto, "reduce", 1, arrayReduce)
	l.setMethod(proto, "reduceRight", 1, arrayReduceRight)
	l.setMethod(proto, "every", 1, arrayEvery)
	l.setMethod(proto, "some", 1, arraySome)
	l.setMethod(proto, "sort", 1, arraySort)
	l.setMethod(proto, "reverse", 0, arrayReverse)
	l.setMethod(proto, "fill", 1, arrayFill)
	l.setMethod(proto, "join", 1, arrayJoin)
	l.setMethod(proto, "toString", 0, arrayToString)
	l.setMethod(proto, "at", 1, arrayAt)
	l.setMethod(proto, "flat", 0, l.arrayFlat)
	l.setMethod(proto, "flatMap", 1, l.arrayFlatMap)
	l.setMethod(proto, "keys", 0, l.arrayKeys)
	l.setMethod(proto, "values", 0, l.arrayValues)
	l.setMethod(proto, "entries", 0, l.arrayEntries)
	l.setMethod(proto, iteratorKey, 0, l.arrayValues)

	ctor := l.newConstructor("Array", 1, proto, l.arrayConstructorCall, l.arrayConstructorCall)

	l.setMethod(ctor, "isArray", 1, arrayIsArray)
	l.setMethod(ctor, "from", 1, l.arrayFrom)
	l.setMethod(ctor, "of", 0, l.arrayOf)

	return ctor
}

// thisArray returns the receiver's backing object. Methods are generic only
// over real arrays.
func thisArray(this *runtime.Value, method string) (*runtime.Object, error) {
	if !this.IsObject() || this.Object.OType != runtime.ObjTypeArray {
		return nil, fmt.Errorf("TypeError: Array.prototype.%s called on non-array %s", method, this.ToString())
	}
	return this.Object, nil
}

// element returns the i-th element with holes read as undefined.
func element(obj *runtime.Object, i int) *runtime.Value {
	if i < len(obj.ArrayData) && obj.ArrayData[i] != nil {
		return obj.ArrayData[i]
	}
	return runtime.Undefined
}

func (l *lib) arrayConstructorCall(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	if len(args) == 1 && args[0].Type == runtime.TypeNumber {
		n := args[0].Number
		if n < 0 || n != math.Trunc(n) || n > math.MaxUint32 {
			return nil, fmt.Errorf("RangeError: Invalid array length")
		}
		return l.newArray(make([]*runtime.Value, int(n))), nil
	}
	return l.newArray(append([]*runtime.Value(nil), args...)), nil
}

func arrayIsArray(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	a := argAt(args, 0)
	return runtime.NewBool(a.IsObject() && a.Object.OType == runtime.ObjTypeArray), nil
}

func (l *lib) arrayFrom(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	src := argAt(args, 0)
	mapFn := argAt(args, 1)
	var items []*runtime.Value
	switch {
	case src.IsNullish():
		return nil, fmt.Errorf("TypeError: %s is not iterable", src.ToString())
	case src.Type == runtime.TypeString || src.IsObject() && (src.Object.OType == runtime.ObjTypeArray || src.Object.HasProperty(iteratorKey)):
		var err error
		if items, err = listFrom(src); err != nil {
			return nil, err
		}
	case src.IsObject():
		// array-like
		n := int(src.Object.Get("length").ToNumber())
		for i := 0; i < n; i++ {
			items = append(items, src.Object.Get(strconv.Itoa(i)))
		}
	}
	if mapFn.IsCallable() {
		for i, v := range items {
			mapped, err := callFunction(mapFn, runtime.Undefined, v, runtime.NewNumber(float64(i)))
			if err != nil {
				return nil, err
			}
			items[i] = mapped
		}
	}
	return l.newArray(items), nil
}

func (l *lib) arrayOf(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	return l.newArray(append([]*runtime.Value(nil), args...)), nil
}

func arrayPush(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	obj, err := thisArray(this, "push")
	if err != nil {
		return nil, err
	}
	obj.ArrayData = append(obj.ArrayData, args...)
	return runtime.NewNumber(float64(len(obj.ArrayData))), nil
}

func arrayPop(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	obj, err := thisArray(this, "pop")
	if err != nil {
		return nil, err
	}
	if len(obj.ArrayData) == 0 {
		return runtime.Undefined, nil
	}
	last := element(obj, len(obj.ArrayData)-1)
	obj.ArrayData = obj.ArrayData[:len(obj.ArrayData)-1]
	return last, nil
}

func arrayShift(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	obj, err := thisArray(this, "shift")
	if err != nil {
		return nil, err
	}
	if len(obj.ArrayData) == 0 {
		return runtime.Undefined, nil
	}
	first := element(obj, 0)
	obj.ArrayData = append([]*runtime.Value(nil), obj.ArrayData[1:]...)
	return first, nil
}

func arrayUnshift(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	obj, err := thisArray(this, "unshift")
	if err != nil {
		return nil, err
	}
	obj.ArrayData = append(append([]*runtime.Value(nil), args...), obj.ArrayData...)
	return runtime.NewNumber(float64(len(obj.ArrayData))), nil
}

func (l *lib) arraySplice(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	obj, err := thisArray(this, "splice")
	if err != nil {
		return nil, err
	}
	length := len(obj.ArrayData)
	start, err := relativeIndex(argAt(args, 0), length, 0)
	if err != nil {
		return nil, err
	}
	deleteCount := length - start
	switch {
	case len(args) == 0:
		deleteCount = 0
	case len(args) > 1:
		n, err := toInteger(args[1])
		if err != nil {
			return nil, err
		}
		deleteCount = int(math.Max(0, math.Min(n, float64(length-start))))
	}
	removed := append([]*runtime.Value(nil), obj.ArrayData[start:start+deleteCount]...)
	var items []*runtime.Value
	if len(args) > 2 {
		items = args[2:]
	}
	data := make([]*runtime.Value, 0, length-deleteCount+len(items))
	data = append(data, obj.ArrayData[:start]...)
	data = append(data, items...)
	data = append(data, obj.ArrayData[start+deleteCount:]...)
	obj.ArrayData = data
	return l.newArray(removed), nil
}

func (l *lib) arraySlice(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	obj, err := thisArray(this, "slice")
	if err != nil {
		return nil, err
	}
	length := len(obj.ArrayData)
	start, err := relativeIndex(argAt(args, 0), length, 0)
	if err != nil {
		return nil, err
	}
	end, err := relativeIndex(argAt(args, 1), length, length)
	if err != nil {
		return nil, err
	}
	if start >= end {
		return l.newArray(nil), nil
	}
	return l.newArray(append([]*runtime.Value(nil), obj.ArrayData[start:end]...)), nil
}

func (l *lib) arrayConcat(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	obj, err := thisArray(this, "concat")
	if err != nil {
		return nil, err
	}
	result := append([]*runtime.Value(nil), obj.ArrayData...)
	for _, a := range args {
		if a.IsObject() && a.Object.OType == runtime.ObjTypeArray {
			result = append(result, a.Object.ArrayData...)
		} else {
			result = append(result, a)
		}
	}
	return l.newArray(result), nil
}

func arrayIndexOf(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	obj, err := thisArray(this, "indexOf")
	if err != nil {
		return nil, err
	}
	from, err := relativeIndex(argAt(args, 1), len(obj.ArrayData), 0)
	if err != nil {
		return nil, err
	}
	target := argAt(args, 0)
	for i := from; i < len(obj.ArrayData); i++ {
		if obj.ArrayData[i] != nil && runtime.StrictEquals(obj.ArrayData[i], target) {
			return runtime.NewNumber(float64(i)), nil
		}
	}
	return runtime.NewNumber(-1), nil
}

func arrayLastIndexOf(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	obj, err := thisArray(this, "lastIndexOf")
	if err != nil {
		return nil, err
	}
	target := argAt(args, 0)
	from := len(obj.ArrayData) - 1
	if len(args) > 1 {
		n, err := toInteger(args[1])
		if err != nil {
			return nil, err
		}
		if n < 0 {
			n += float64(len(obj.ArrayData))
		}
		from = int(math.Min(n, float64(from)))
	}
	for i := from; i >= 0; i-- {
		if obj.ArrayData[i] != nil && runtime.StrictEquals(obj.ArrayData[i], target) {
			return runtime.NewNumber(float64(i)), nil
		}
	}
	return runtime.NewNumber(-1), nil
}

func arrayIncludes(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	obj, err := thisArray(this, "includes")
	if err != nil {
		return nil, err
	}
	from, err := relativeIndex(argAt(args, 1), len(obj.ArrayData), 0)
	if err != nil {
		return nil, err
	}
	target := argAt(args, 0)
	for i := from; i < len(obj.ArrayData); i++ {
		if runtime.SameValueZero(element(obj, i), target) {
			return runtime.True, nil
		}
	}
	return runtime.False, nil
}

// eachElement calls fn with (element, index, array) for every index below
// the length observed at the start, skipping holes when skipHoles is set.
// Iteration stops when fn returns false.
func eachElement(this *runtime.Value, method string, args []*runtime.Value, skipHoles bool, fn func(i int, v, res *runtime.Value) bool) error {
	obj, err := thisArray(this, method)
	if err != nil {
		return err
	}
	callback, err := callbackArg(args, 0)
	if err != nil {
		return err
	}
	thisArg := argAt(args, 1)
	n := len(obj.ArrayData)
	for i := 0; i < n && i < len(obj.ArrayData); i++ {
		if skipHoles && obj.ArrayData[i] == nil {
			continue
		}
		v := element(obj, i)
		res, err := callFunction(callback, thisArg, v, runtime.NewNumber(float64(i)), this)
		if err != nil {
			return err
		}
		if !fn(i, v, res) {
			return nil
		}
	}
	return nil
}

func arrayFind(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	found := runtime.Undefined
	err := eachElement(this, "find", args, false, func(_ int, v, res *runtime.Value) bool {
		if res.ToBoolean() {
			found = v
			return false
		}
		return true
	})
	return found, err
}

func arrayFindIndex(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	found := -1
	err := eachElement(this, "findIndex", args, false, func(i int, _, res *runtime.Value) bool {
		if res.ToBoolean() {
			found = i
			return false
		}
		return true
	})
	return runtime.NewNumber(float64(found)), err
}

func arrayForEach(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	err := eachElement(this, "forEach", args, true, func(int, *runtime.Value, *runtime.Value) bool { return true })
	return runtime.Undefined, err
}

func (l *lib) arrayMap(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	obj, err := thisArray(this, "map")
	if err != nil {
		return nil, err
	}
	out := make([]*runtime.Value, len(obj.ArrayData))
	err = eachElement(this, "map", args, true, func(i int, _, res *runtime.Value) bool {
		out[i] = res
		return true
	})
	if err != nil {
		return nil, err
	}
	return l.newArray(out), nil
}

func (l *lib) arrayFilter(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	var out []*runtime.Value
	err := eachElement(this, "filter", args, true, func(_ int, v, res *runtime.Value) bool {
		if res.ToBoolean() {
			out = append(out, v)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return l.newArray(out), nil
}

func arrayEvery(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	result := true
	err := eachElement(this, "every", args, true, func(_ int, _, res *runtime.Value) bool {
		result = res.ToBoolean()
		return result
	})
	return runtime.NewBool(result), err
}

func arraySome(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	result := false
	err := eachElement(this, "some", args, true, func(_ int, _, res *runtime.Value) bool {
		result = res.ToBoolean()
		return !result
	})
	return runtime.NewBool(result), err
}

func reduce(this *runtime.Value, args []*runtime.Value, method string, reverse bool) (*runtime.Value, error) {
	obj, err := thisArray(this, method)
	if err != nil {
		return nil, err
	}
	callback, err := callbackArg(args, 0)
	if err != nil {
		return nil, err
	}
	var indices []int
	for i, v := range obj.ArrayData {
		if v != nil {
			indices = append(indices, i)
		}
	}
	if reverse {
		for i, j := 0, len(indices)-1; i < j; i, j = i+1, j-1 {
			indices[i], indices[j] = indices[j], indices[i]
		}
	}
	var acc *runtime.Value
	if len(args) > 1 {
		acc = args[1]
	} else {
		if len(indices) == 0 {
			return nil, fmt.Errorf("TypeError: Reduce of empty array with no initial value")
		}
		acc = obj.ArrayData[indices[0]]
		indices = indices[1:]
	}
	for _, i := range indices {
		acc, err = callFunction(callback, runtime.Undefined, acc, element(obj, i), runtime.NewNumber(float64(i)), this)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func arrayReduce(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	return reduce(this, args, "reduce", false)
}

func arrayReduceRight(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	return reduce(this, args, "reduceRight", true)
}

// arraySort is a stable sort. undefined sorts last and holes after that;
// without a comparator elements compare as strings.
func arraySort(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	obj, err := thisArray(this, "sort")
	if err != nil {
		return nil, err
	}
	cmp := argAt(args, 0)
	if !cmp.IsCallable() && cmp.Type != runtime.TypeUndefined {
		return nil, fmt.Errorf("TypeError: The comparison function must be either a function or undefined")
	}
	var values []*runtime.Value
	undefs, holes := 0, 0
	for _, v := range obj.ArrayData {
		switch {
		case v == nil:
			holes++
		case v.Type == runtime.TypeUndefined:
			undefs++
		default:
			values = append(values, v)
		}
	}
	var sortErr error
	sort.SliceStable(values, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		if cmp.IsCallable() {
			res, err := callFunction(cmp, runtime.Undefined, values[i], values[j])
			if err != nil {
				sortErr = err
				return false
			}
			n, err := toNumber(res)
			if err != nil {
				sortErr = err
				return false
			}
			return n < 0
		}
		a, err := toStr(values[i])
		if err != nil {
			sortErr = err
			return false
		}
		b, err := toStr(values[j])
		if err != nil {
			sortErr = err
			return false
		}
		return a < b
	})
	if sortErr != nil {
		return nil, sortErr
	}
	for ; undefs > 0; undefs-- {
		values = append(values, runtime.Undefined)
	}
	values = append(values, make([]*runtime.Value, holes)...)
	obj.ArrayData = values
	return this, nil
}

func arrayReverse(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	obj, err := thisArray(this, "reverse")
	if err != nil {
		return nil, err
	}
	d := obj.ArrayData
	for i, j := 0, len(d)-1; i < j; i, j = i+1, j-1 {
		d[i], d[j] = d[j], d[i]
	}
	return this, nil
}

func arrayFill(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	obj, err := thisArray(this, "fill")
	if err != nil {
		return nil, err
	}
	length := len(obj.ArrayData)
	start, err := relativeIndex(argAt(args, 1), length, 0)
	if err != nil {
		return nil, err
	}
	end, err := relativeIndex(argAt(args, 2), length, length)
	if err != nil {
		return nil, err
	}
	for i := start; i < end; i++ {
		obj.ArrayData[i] = argAt(args, 0)
	}
	return this, nil
}

func arrayJoin(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	obj, err := thisArray(this, "join")
	if err != nil {
		return nil, err
	}
	sep := ","
	if s := argAt(args, 0); s.Type != runtime.TypeUndefined {
		if sep, err = toStr(s); err != nil {
			return nil, err
		}
	}
	parts := make([]string, len(obj.ArrayData))
	for i, v := range obj.ArrayData {
		if v.IsNullish() {
			continue
		}
		if parts[i], err = toStr(v); err != nil {
			return nil, err
		}
	}
	return runtime.NewString(strings.Join(parts, sep)), nil
}

func arrayToString(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	if !this.IsObject() || this.Object.OType != runtime.ObjTypeArray {
		return objectProtoToString(this, nil)
	}
	return arrayJoin(this, nil)
}

func arrayAt(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	obj, err := thisArray(this, "at")
	if err != nil {
		return nil, err
	}
	n, err := toInteger(argAt(args, 0))
	if err != nil {
		return nil, err
	}
	if n < 0 {
		n += float64(len(obj.ArrayData))
	}
	if n < 0 || n >= float64(len(obj.ArrayData)) {
		return runtime.Undefined, nil
	}
	return element(obj, int(n)), nil
}

func flatten(dst []*runtime.Value, src []*runtime.Value, depth float64) []*runtime.Value {
	for _, v := range src {
		if v == nil {
			continue
		}
		if depth >= 1 && v.IsObject() && v.Object.OType == runtime.ObjTypeArray {
			dst = flatten(dst, v.Object.ArrayData, depth-1)
			continue
		}
		dst = append(dst, v)
	}
	return dst
}

func (l *lib) arrayFlat(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	obj, err := thisArray(this, "flat")
	if err != nil {
		return nil, err
	}
	depth := 1.0
	if d := argAt(args, 0); d.Type != runtime.TypeUndefined {
		if depth, err = toInteger(d); err != nil {
			return nil, err
		}
	}
	return l.newArray(flatten(nil, obj.ArrayData, depth)), nil
}

func (l *lib) arrayFlatMap(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	mapped, err := l.arrayMap(this, args)
	if err != nil {
		return nil, err
	}
	return l.newArray(flatten(nil, mapped.Object.ArrayData, 1)), nil
}

// arrayIterator walks the live array, so elements pushed during iteration
// are visited.
func (l *lib) arrayIterator(this *runtime.Value, method string, produce func(i int, v *runtime.Value) *runtime.Value) (*runtime.Value, error) {
	obj, err := thisArray(this, method)
	if err != nil {
		return nil, err
	}
	i := 0
	return l.newListIterator(func() (*runtime.Value, bool) {
		if i >= len(obj.ArrayData) {
			return nil, false
		}
		v := produce(i, element(obj, i))
		i++
		return v, true
	}), nil
}

func (l *lib) arrayKeys(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	return l.arrayIterator(this, "keys", func(i int, _ *runtime.Value) *runtime.Value {
		return runtime.NewNumber(float64(i))
	})
}

func (l *lib) arrayValues(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	return l.arrayIterator(this, "values", func(_ int, v *runtime.Value) *runtime.Value {
		return v
	})
}

func (l *lib) arrayEntries(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	return l.arrayIterator(this, "entries", func(i int, v *runtime.Value) *runtime.Value {
		return l.newArray([]*runtime.Value{runtime.NewNumber(float64(i)), v})
	})
}
