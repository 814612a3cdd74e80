package builtins

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/example/jsvm/runtime"
)

func (l *lib) createJSONObject() *runtime.Object {
	j := l.realm.NewObject()

	l.setMethod(j, "parse", 2, l.jsonParse)
	l.setMethod(j, "stringify", 3, l.jsonStringify)

	setDataProp(j, "@@toStringTag", runtime.NewString("JSON"), false, false, true)
	return j
}

func (l *lib) jsonParse(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	text, err := toStr(argAt(args, 0))
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	result, err := l.decodeJSON(dec)
	if err == nil {
		if _, extra := dec.Token(); extra != io.EOF {
			err = errors.New("unexpected data after top-level value")
		}
	}
	if err != nil {
		return nil, fmt.Errorf("SyntaxError: JSON.parse: %v", err)
	}
	if reviver := argAt(args, 1); reviver.IsCallable() {
		holder := l.realm.NewObject()
		holder.Set("", result)
		return revive(reviver, runtime.NewObject(holder), "")
	}
	return result, nil
}

// decodeJSON reads one value from the token stream. Objects keep the key
// order of the source text.
func (l *lib) decodeJSON(dec *json.Decoder) (*runtime.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, errors.New("unexpected end of JSON input")
		}
		return nil, err
	}
	switch t := tok.(type) {
	case nil:
		return runtime.Null, nil
	case bool:
		return runtime.NewBool(t), nil
	case string:
		return runtime.NewString(t), nil
	case json.Number:
		f, err := strconv.ParseFloat(string(t), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, err
		}
		return runtime.NewNumber(f), nil
	case json.Delim:
		switch t {
		case '[':
			var els []*runtime.Value
			for dec.More() {
				v, err := l.decodeJSON(dec)
				if err != nil {
					return nil, err
				}
				els = append(els, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return l.newArray(els), nil
		case '{':
			obj := l.realm.NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				v, err := l.decodeJSON(dec)
				if err != nil {
					return nil, err
				}
				setDataProp(obj, keyTok.(string), v, true, true, true)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return runtime.NewObject(obj), nil
		}
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

// revive walks the parsed value bottom-up, replacing each member with the
// reviver's result and deleting members it maps to undefined.
func revive(reviver, holder *runtime.Value, key string) (*runtime.Value, error) {
	val := holder.Object.Get(key)
	if val.IsObject() {
		var keys []string
		if val.Object.OType == runtime.ObjTypeArray {
			for i := range val.Object.ArrayData {
				keys = append(keys, strconv.Itoa(i))
			}
		} else {
			keys = val.Object.EnumerableKeys()
		}
		for _, k := range keys {
			nv, err := revive(reviver, val, k)
			if err != nil {
				return nil, err
			}
			if nv.Type == runtime.TypeUndefined {
				val.Object.Delete(k)
			} else {
				val.Object.Set(k, nv)
			}
		}
	}
	return callFunction(reviver, holder, runtime.NewString(key), val)
}

type stringifier struct {
	replacer *runtime.Value
	allow    map[string]bool
	allowed  []string
	indent   string
	stack    []*runtime.Object
}

func (l *lib) jsonStringify(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	st := &stringifier{}
	if r := argAt(args, 1); r.IsCallable() {
		st.replacer = r
	} else if r.IsObject() && r.Object.OType == runtime.ObjTypeArray {
		st.allow = make(map[string]bool)
		for _, v := range r.Object.ArrayData {
			if v == nil {
				continue
			}
			v = primitive(v)
			if v.Type != runtime.TypeString && v.Type != runtime.TypeNumber {
				continue
			}
			if k := v.ToString(); !st.allow[k] {
				st.allow[k] = true
				st.allowed = append(st.allowed, k)
			}
		}
	}
	switch sp := primitive(argAt(args, 2)); sp.Type {
	case runtime.TypeNumber:
		n := int(math.Min(10, sp.Number))
		if n > 0 {
			st.indent = strings.Repeat(" ", n)
		}
	case runtime.TypeString:
		st.indent = sp.Str
		if r := []rune(st.indent); len(r) > 10 {
			st.indent = string(r[:10])
		}
	}

	holder := l.realm.NewObject()
	holder.Set("", argAt(args, 0))
	var buf bytes.Buffer
	ok, err := st.property(&buf, runtime.NewObject(holder), "", argAt(args, 0), "")
	if err != nil {
		return nil, err
	}
	if !ok {
		return runtime.Undefined, nil
	}
	return runtime.NewString(buf.String()), nil
}

// property serializes holder[key]. It reports false when the value has no
// JSON representation (undefined, functions).
func (st *stringifier) property(buf *bytes.Buffer, holder *runtime.Value, key string, val *runtime.Value, indent string) (bool, error) {
	if val.IsObject() {
		if toJSON, err := val.Object.GetWithReceiver("toJSON", val); err != nil {
			return false, err
		} else if toJSON.IsCallable() {
			if val, err = callFunction(toJSON, val, runtime.NewString(key)); err != nil {
				return false, err
			}
		}
	}
	if st.replacer != nil {
		var err error
		if val, err = callFunction(st.replacer, holder, runtime.NewString(key), val); err != nil {
			return false, err
		}
	}
	if val.IsObject() && val.Object.OType == runtime.ObjTypeBoxed {
		val = primitive(val)
	}

	switch val.Type {
	case runtime.TypeNull:
		buf.WriteString("null")
	case runtime.TypeBoolean:
		buf.WriteString(strconv.FormatBool(val.Bool))
	case runtime.TypeNumber:
		if math.IsNaN(val.Number) || math.IsInf(val.Number, 0) {
			buf.WriteString("null")
		} else {
			buf.WriteString(runtime.NumberToString(val.Number))
		}
	case runtime.TypeString:
		quoteJSON(buf, val.Str)
	case runtime.TypeObject:
		if val.IsCallable() {
			return false, nil
		}
		return true, st.object(buf, val, indent)
	default:
		return false, nil
	}
	return true, nil
}

func (st *stringifier) object(buf *bytes.Buffer, val *runtime.Value, indent string) error {
	for _, seen := range st.stack {
		if seen == val.Object {
			return fmt.Errorf("TypeError: Converting circular structure to JSON")
		}
	}
	st.stack = append(st.stack, val.Object)
	defer func() { st.stack = st.stack[:len(st.stack)-1] }()

	inner := indent + st.indent
	sep, colon := ",", ":"
	if st.indent != "" {
		sep, colon = ",\n"+inner, ": "
	}

	if val.Object.OType == runtime.ObjTypeArray {
		if len(val.Object.ArrayData) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteByte('[')
		if st.indent != "" {
			buf.WriteString("\n" + inner)
		}
		for i := range val.Object.ArrayData {
			if i > 0 {
				buf.WriteString(sep)
			}
			k := strconv.Itoa(i)
			ok, err := st.property(buf, val, k, val.Object.Get(k), inner)
			if err != nil {
				return err
			}
			if !ok {
				buf.WriteString("null")
			}
		}
		if st.indent != "" {
			buf.WriteString("\n" + indent)
		}
		buf.WriteByte(']')
		return nil
	}

	keys := st.allowed
	if st.allow == nil {
		keys = val.Object.EnumerableKeys()
	}
	buf.WriteByte('{')
	wrote := false
	for _, k := range keys {
		v, err := val.Object.GetWithReceiver(k, val)
		if err != nil {
			return err
		}
		var member bytes.Buffer
		ok, err := st.property(&member, val, k, v, inner)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if wrote {
			buf.WriteString(sep)
		} else if st.indent != "" {
			buf.WriteString("\n" + inner)
		}
		quoteJSON(buf, k)
		buf.WriteString(colon)
		buf.Write(member.Bytes())
		wrote = true
	}
	if wrote && st.indent != "" {
		buf.WriteString("\n" + indent)
	}
	buf.WriteByte('}')
	return nil
}

// quoteJSON writes s as a JSON string literal. Unlike encoding/json it
// leaves <, > and & unescaped.
func quoteJSON(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(buf, `\u%04x`, r)
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
}
