package interpreter

import (
	"strings"

	"github.com/example/jsvm/ast"
	"github.com/example/jsvm/runtime"
)

func literals() map[ast.Kind]Rule {
	return map[ast.Kind]Rule{
		ast.KindStringLiteral: func(p *Path) (*runtime.Value, runtime.Signal) {
			return runtime.NewString(p.Node.(*ast.StringLiteral).Value), runtime.Signal{}
		},
		ast.KindNumericLiteral: func(p *Path) (*runtime.Value, runtime.Signal) {
			return runtime.NewNumber(p.Node.(*ast.NumericLiteral).Value), runtime.Signal{}
		},
		ast.KindBooleanLiteral: func(p *Path) (*runtime.Value, runtime.Signal) {
			return runtime.NewBool(p.Node.(*ast.BooleanLiteral).Value), runtime.Signal{}
		},
		ast.KindNullLiteral: func(p *Path) (*runtime.Value, runtime.Signal) {
			return runtime.Null, runtime.Signal{}
		},
		ast.KindRegExpLiteral:   evalRegExpLiteral,
		ast.KindTemplateLiteral: evalTemplateLiteral,
	}
}

// evalRegExpLiteral builds the literal through the sandbox RegExp
// constructor when there is one, and a plain {source, flags} object
// otherwise.
func evalRegExpLiteral(p *Path) (*runtime.Value, runtime.Signal) {
	n := p.Node.(*ast.RegExpLiteral)
	source, flags := runtime.NewString(n.Pattern), runtime.NewString(n.Flags)
	if ctor, ok := p.engine.ctx.Sandbox["RegExp"]; ok && ctor.IsObject() && ctor.Object.Constructor != nil {
		v, err := ctor.Object.Constructor(runtime.Undefined, []*runtime.Value{source, flags})
		if err != nil {
			return p.throw(err)
		}
		return v, runtime.Signal{}
	}
	obj := runtime.NewOrdinaryObject(p.realm().RegExpPrototype)
	obj.OType = runtime.ObjTypeRegExp
	obj.Set("source", source)
	obj.Set("flags", flags)
	obj.Set("lastIndex", runtime.Zero)
	return runtime.NewObject(obj), runtime.Signal{}
}

func evalTemplateLiteral(p *Path) (*runtime.Value, runtime.Signal) {
	n := p.Node.(*ast.TemplateLiteral)
	var b strings.Builder
	for i, quasi := range n.Quasis {
		b.WriteString(quasi)
		if i >= len(n.Expressions) {
			continue
		}
		v, sig := p.eval(n.Expressions[i])
		if sig.Abrupt() {
			return nil, sig
		}
		s, err := runtime.ToStringValue(v)
		if err != nil {
			return p.throw(err)
		}
		b.WriteString(s)
	}
	return runtime.NewString(b.String()), runtime.Signal{}
}
