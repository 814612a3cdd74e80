package builtins

import (
	"fmt"
	"math"

	"github.com/example/jsvm/runtime"
)

const slotEntries = "entries"

type entry struct {
	key, value *runtime.Value
	deleted    bool
}

// orderedStore keeps Map and Set entries in insertion order. Deleted
// entries stay in place so live iterators skip them.
type orderedStore struct {
	entries []*entry
	index   map[interface{}]*entry
	size    int
}

type nanKey struct{}

// hashKey maps a value to a Go map key under SameValueZero.
func hashKey(v *runtime.Value) interface{} {
	switch v.Type {
	case runtime.TypeNumber:
		if math.IsNaN(v.Number) {
			return nanKey{}
		}
		if v.Number == 0 {
			return 0.0
		}
		return v.Number
	case runtime.TypeString:
		return "s:" + v.Str
	case runtime.TypeBoolean:
		return v.Bool
	case runtime.TypeObject:
		return v.Object
	}
	return v.Type
}

func newStore() *orderedStore {
	return &orderedStore{index: make(map[interface{}]*entry)}
}

func (s *orderedStore) get(k *runtime.Value) (*entry, bool) {
	e, ok := s.index[hashKey(k)]
	return e, ok
}

func (s *orderedStore) set(k, v *runtime.Value) {
	if e, ok := s.get(k); ok {
		e.value = v
		return
	}
	if k.Type == runtime.TypeNumber && k.Number == 0 {
		k = runtime.Zero
	}
	e := &entry{key: k, value: v}
	s.entries = append(s.entries, e)
	s.index[hashKey(k)] = e
	s.size++
}

func (s *orderedStore) remove(k *runtime.Value) bool {
	e, ok := s.get(k)
	if !ok {
		return false
	}
	e.deleted = true
	delete(s.index, hashKey(k))
	s.size--
	return true
}

func (s *orderedStore) clear() {
	for _, e := range s.entries {
		e.deleted = true
	}
	s.index = make(map[interface{}]*entry)
	s.size = 0
}

// cursor returns a function yielding live entries in order, including ones
// added after the cursor was created.
func (s *orderedStore) cursor() func() (*entry, bool) {
	i := 0
	return func() (*entry, bool) {
		for i < len(s.entries) {
			e := s.entries[i]
			i++
			if !e.deleted {
				return e, true
			}
		}
		return nil, false
	}
}

func storeOf(this *runtime.Value, kind, method string) (*orderedStore, error) {
	if this.IsObject() {
		if s, ok := this.Object.Slot(slotEntries).(*orderedStore); ok && this.Object.Slot("kind") == kind {
			return s, nil
		}
	}
	return nil, fmt.Errorf("TypeError: Method %s.prototype.%s called on incompatible receiver %s", kind, method, this.ToString())
}

func (l *lib) newCollection(proto *runtime.Object, kind string) (*runtime.Value, *orderedStore) {
	obj := runtime.NewOrdinaryObject(proto)
	s := newStore()
	obj.SetSlot(slotEntries, s)
	obj.SetSlot("kind", kind)
	return runtime.NewObject(obj), s
}

func (l *lib) createMapConstructor() *runtime.Object {
	proto := l.realm.NewObject()

	l.setMethod(proto, "get", 1, func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		s, err := storeOf(this, "Map", "get")
		if err != nil {
			return nil, err
		}
		if e, ok := s.get(argAt(args, 0)); ok {
			return e.value, nil
		}
		return runtime.Undefined, nil
	})
	l.setMethod(proto, "set", 2, func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		s, err := storeOf(this, "Map", "set")
		if err != nil {
			return nil, err
		}
		s.set(argAt(args, 0), argAt(args, 1))
		return this, nil
	})
	l.collectionCommon(proto, "Map")
	l.setMethod(proto, "forEach", 1, l.collectionForEach("Map"))
	l.setMethod(proto, "keys", 0, l.collectionIterator("Map", "keys", func(e *entry) *runtime.Value { return e.key }))
	l.setMethod(proto, "values", 0, l.collectionIterator("Map", "values", func(e *entry) *runtime.Value { return e.value }))
	entries := l.collectionIterator("Map", "entries", func(e *entry) *runtime.Value {
		return l.newArray([]*runtime.Value{e.key, e.value})
	})
	l.setMethod(proto, "entries", 0, entries)
	l.setMethod(proto, iteratorKey, 0, entries)
	setDataProp(proto, "@@toStringTag", runtime.NewString("Map"), false, false, true)

	construct := func(_ *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		m, s := l.newCollection(proto, "Map")
		if init := argAt(args, 0); !init.IsNullish() {
			err := iterate(init, func(item *runtime.Value) error {
				if !item.IsObject() {
					return fmt.Errorf("TypeError: Iterator value %s is not an entry object", item.ToString())
				}
				s.set(item.Object.Get("0"), item.Object.Get("1"))
				return nil
			})
			if err != nil {
				return nil, err
			}
		}
		return m, nil
	}
	ctor := l.newConstructor("Map", 0, proto, collectionWithoutNew("Map"), construct)

	l.setMethod(ctor, "groupBy", 2, func(_ *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		fn, err := callbackArg(args, 1)
		if err != nil {
			return nil, err
		}
		m, s := l.newCollection(proto, "Map")
		i := 0
		err = iterate(argAt(args, 0), func(item *runtime.Value) error {
			key, err := callFunction(fn, runtime.Undefined, item, runtime.NewNumber(float64(i)))
			if err != nil {
				return err
			}
			i++
			group, ok := s.get(key)
			if !ok {
				s.set(key, l.newArray(nil))
				group, _ = s.get(key)
			}
			arr := group.value.Object
			arr.ArrayData = append(arr.ArrayData, item)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return m, nil
	})
	return ctor
}

func (l *lib) createSetConstructor() *runtime.Object {
	proto := l.realm.NewObject()

	l.setMethod(proto, "add", 1, func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		s, err := storeOf(this, "Set", "add")
		if err != nil {
			return nil, err
		}
		v := argAt(args, 0)
		s.set(v, v)
		return this, nil
	})
	l.collectionCommon(proto, "Set")
	l.setMethod(proto, "forEach", 1, l.collectionForEach("Set"))
	values := l.collectionIterator("Set", "values", func(e *entry) *runtime.Value { return e.key })
	l.setMethod(proto, "values", 0, values)
	l.setMethod(proto, "keys", 0, values)
	l.setMethod(proto, iteratorKey, 0, values)
	l.setMethod(proto, "entries", 0, l.collectionIterator("Set", "entries", func(e *entry) *runtime.Value {
		return l.newArray([]*runtime.Value{e.key, e.key})
	}))
	setDataProp(proto, "@@toStringTag", runtime.NewString("Set"), false, false, true)

	construct := func(_ *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		set, s := l.newCollection(proto, "Set")
		if init := argAt(args, 0); !init.IsNullish() {
			err := iterate(init, func(item *runtime.Value) error {
				s.set(item, item)
				return nil
			})
			if err != nil {
				return nil, err
			}
		}
		return set, nil
	}
	return l.newConstructor("Set", 0, proto, collectionWithoutNew("Set"), construct)
}

func collectionWithoutNew(kind string) runtime.CallableFunc {
	return func(_ *runtime.Value, _ []*runtime.Value) (*runtime.Value, error) {
		return nil, fmt.Errorf("TypeError: Constructor %s requires 'new'", kind)
	}
}

// collectionCommon installs the methods Map and Set share.
func (l *lib) collectionCommon(proto *runtime.Object, kind string) {
	l.setMethod(proto, "has", 1, func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		s, err := storeOf(this, kind, "has")
		if err != nil {
			return nil, err
		}
		_, ok := s.get(argAt(args, 0))
		return runtime.NewBool(ok), nil
	})
	l.setMethod(proto, "delete", 1, func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		s, err := storeOf(this, kind, "delete")
		if err != nil {
			return nil, err
		}
		return runtime.NewBool(s.remove(argAt(args, 0))), nil
	})
	l.setMethod(proto, "clear", 0, func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		s, err := storeOf(this, kind, "clear")
		if err != nil {
			return nil, err
		}
		s.clear()
		return runtime.Undefined, nil
	})
	l.setGetter(proto, "size", func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		s, err := storeOf(this, kind, "size")
		if err != nil {
			return nil, err
		}
		return runtime.NewNumber(float64(s.size)), nil
	})
}

func (l *lib) collectionForEach(kind string) runtime.CallableFunc {
	return func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		s, err := storeOf(this, kind, "forEach")
		if err != nil {
			return nil, err
		}
		fn, err := callbackArg(args, 0)
		if err != nil {
			return nil, err
		}
		next := s.cursor()
		for e, ok := next(); ok; e, ok = next() {
			if _, err := callFunction(fn, argAt(args, 1), e.value, e.key, this); err != nil {
				return nil, err
			}
		}
		return runtime.Undefined, nil
	}
}

func (l *lib) collectionIterator(kind, method string, project func(*entry) *runtime.Value) runtime.CallableFunc {
	return func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		s, err := storeOf(this, kind, method)
		if err != nil {
			return nil, err
		}
		next := s.cursor()
		return l.newListIterator(func() (*runtime.Value, bool) {
			e, ok := next()
			if !ok {
				return nil, false
			}
			return project(e), true
		}), nil
	}
}
