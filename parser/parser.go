// Package parser turns JavaScript source into the evaluator's AST. Tokenizing
// and parsing are done by goja's parser; this package converts its tree.
package parser

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	js "github.com/dop251/goja/ast"
	"github.com/dop251/goja/file"
	jsparser "github.com/dop251/goja/parser"
	"github.com/dop251/goja/token"

	"github.com/example/jsvm/ast"
)

// ErrUnsupported marks syntax that parses but has no evaluator counterpart.
var ErrUnsupported = errors.New("unsupported syntax")

// ParseFile parses src as a script named filename.
func ParseFile(filename, src string) (*ast.Program, error) {
	prg, err := jsparser.ParseFile(nil, filename, src, jsparser.IgnoreRegExpErrors)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	c := &converter{file: prg.File}
	program := c.program(prg, filename)
	if len(c.errs) > 0 {
		return nil, fmt.Errorf("parse %s: %w", filename, errors.Join(c.errs...))
	}
	return program, nil
}

// IsIncomplete reports whether err came from input that ended too early,
// such as an unclosed block. Interactive readers keep reading when it does.
func IsIncomplete(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Unexpected end of input")
}

// converter walks a goja tree once. Unsupported nodes are recorded and
// replaced by empty statements so the walk can report every problem.
type converter struct {
	file *file.File
	errs []error
}

func (c *converter) fail(n js.Node, format string, args ...interface{}) {
	pos := c.pos(n.Idx0())
	msg := fmt.Sprintf(format, args...)
	c.errs = append(c.errs, fmt.Errorf("%d:%d: %s: %w", pos.Line, pos.Column, msg, ErrUnsupported))
}

func (c *converter) pos(idx file.Idx) ast.Position {
	if c.file == nil || idx <= 0 {
		return ast.Position{}
	}
	offset := int(idx) - c.file.Base()
	p := c.file.Position(offset)
	return ast.Position{Line: p.Line, Column: p.Column, Offset: offset}
}

func (c *converter) span(n js.Node) ast.Loc {
	return ast.Loc{Range: ast.Span{Start: c.pos(n.Idx0()), End: c.pos(n.Idx1())}}
}

func (c *converter) program(prg *js.Program, filename string) *ast.Program {
	out := &ast.Program{Filename: filename}
	if len(prg.Body) > 0 {
		out.Loc = c.span(prg)
	}
	out.Body = c.statements(prg.Body)
	return out
}

func (c *converter) statements(list []js.Statement) []ast.Statement {
	out := make([]ast.Statement, 0, len(list))
	for _, s := range list {
		out = append(out, c.statement(s))
	}
	return out
}

func (c *converter) block(b *js.BlockStatement) *ast.BlockStatement {
	if b == nil {
		return nil
	}
	return &ast.BlockStatement{Loc: c.span(b), Body: c.statements(b.List)}
}

func (c *converter) statement(s js.Statement) ast.Statement {
	switch s := s.(type) {
	case *js.BlockStatement:
		return c.block(s)
	case *js.ExpressionStatement:
		return &ast.ExpressionStatement{Loc: c.span(s), Expression: c.expression(s.Expression)}
	case *js.VariableStatement:
		return c.declaration(s, ast.DeclVar, s.List)
	case *js.LexicalDeclaration:
		return c.lexical(s)
	case *js.FunctionDeclaration:
		return &ast.FunctionDeclaration{Loc: c.span(s), Function: c.function(s.Function)}
	case *js.ClassDeclaration:
		return &ast.ClassDeclaration{Loc: c.span(s), Class: c.class(s.Class)}
	case *js.EmptyStatement:
		return &ast.EmptyStatement{Loc: c.span(s)}
	case *js.DebuggerStatement:
		return &ast.DebuggerStatement{Loc: c.span(s)}
	case *js.ReturnStatement:
		return &ast.ReturnStatement{Loc: c.span(s), Argument: c.optional(s.Argument)}
	case *js.IfStatement:
		out := &ast.IfStatement{Loc: c.span(s), Test: c.expression(s.Test), Consequent: c.statement(s.Consequent)}
		if s.Alternate != nil {
			out.Alternate = c.statement(s.Alternate)
		}
		return out
	case *js.LabelledStatement:
		return &ast.LabeledStatement{Loc: c.span(s), Label: c.identifier(s.Label), Body: c.statement(s.Statement)}
	case *js.BranchStatement:
		var label *ast.Identifier
		if s.Label != nil {
			label = c.identifier(s.Label)
		}
		if s.Token == token.CONTINUE {
			return &ast.ContinueStatement{Loc: c.span(s), Label: label}
		}
		return &ast.BreakStatement{Loc: c.span(s), Label: label}
	case *js.WhileStatement:
		return &ast.WhileStatement{Loc: c.span(s), Test: c.expression(s.Test), Body: c.statement(s.Body)}
	case *js.DoWhileStatement:
		return &ast.DoWhileStatement{Loc: c.span(s), Body: c.statement(s.Body), Test: c.expression(s.Test)}
	case *js.ForStatement:
		out := &ast.ForStatement{
			Loc:    c.span(s),
			Test:   c.optional(s.Test),
			Update: c.optional(s.Update),
			Body:   c.statement(s.Body),
		}
		switch init := s.Initializer.(type) {
		case *js.ForLoopInitializerExpression:
			out.Init = c.expression(init.Expression)
		case *js.ForLoopInitializerVarDeclList:
			out.Init = c.declaration(init, ast.DeclVar, init.List)
		case *js.ForLoopInitializerLexicalDecl:
			out.Init = c.lexical(&init.LexicalDeclaration)
		}
		return out
	case *js.ForInStatement:
		return &ast.ForInStatement{Loc: c.span(s), Left: c.forInto(s.Into), Right: c.expression(s.Source), Body: c.statement(s.Body)}
	case *js.ForOfStatement:
		return &ast.ForOfStatement{Loc: c.span(s), Left: c.forInto(s.Into), Right: c.expression(s.Source), Body: c.statement(s.Body)}
	case *js.SwitchStatement:
		out := &ast.SwitchStatement{Loc: c.span(s), Discriminant: c.expression(s.Discriminant)}
		for _, cs := range s.Body {
			out.Cases = append(out.Cases, &ast.SwitchCase{
				Loc:        c.span(cs),
				Test:       c.optional(cs.Test),
				Consequent: c.statements(cs.Consequent),
			})
		}
		return out
	case *js.ThrowStatement:
		return &ast.ThrowStatement{Loc: c.span(s), Argument: c.expression(s.Argument)}
	case *js.TryStatement:
		out := &ast.TryStatement{Loc: c.span(s), Block: c.block(s.Body), Finalizer: c.block(s.Finally)}
		if s.Catch != nil {
			handler := &ast.CatchClause{Loc: c.span(s.Catch), Body: c.block(s.Catch.Body)}
			if s.Catch.Parameter != nil {
				handler.Param = c.target(s.Catch.Parameter)
			}
			out.Handler = handler
		}
		return out
	case *js.WithStatement:
		c.fail(s, "with statement")
	case *js.BadStatement:
		c.fail(s, "malformed statement")
	default:
		c.fail(s, "statement %T", s)
	}
	return &ast.EmptyStatement{Loc: c.span(s)}
}

func (c *converter) lexical(d *js.LexicalDeclaration) *ast.VariableDeclaration {
	kind := ast.DeclLet
	if d.Token == token.CONST {
		kind = ast.DeclConst
	}
	return c.declaration(d, kind, d.List)
}

func (c *converter) declaration(n js.Node, kind ast.DeclKind, list []*js.Binding) *ast.VariableDeclaration {
	out := &ast.VariableDeclaration{Loc: c.span(n), DeclKind: kind}
	for _, b := range list {
		out.Declarations = append(out.Declarations, &ast.VariableDeclarator{
			Loc:  c.span(b),
			ID:   c.target(b.Target),
			Init: c.optional(b.Initializer),
		})
	}
	return out
}

func (c *converter) forInto(into js.ForInto) ast.Node {
	switch into := into.(type) {
	case *js.ForIntoVar:
		return c.declaration(into, ast.DeclVar, []*js.Binding{into.Binding})
	case *js.ForDeclaration:
		kind := ast.DeclLet
		if into.IsConst {
			kind = ast.DeclConst
		}
		return &ast.VariableDeclaration{
			Loc:          c.span(into),
			DeclKind:     kind,
			Declarations: []*ast.VariableDeclarator{{Loc: c.span(into), ID: c.target(into.Target)}},
		}
	case *js.ForIntoExpression:
		return c.target(into.Expression)
	}
	c.fail(into, "loop head %T", into)
	return &ast.Identifier{Name: "undefined"}
}

func (c *converter) identifier(id *js.Identifier) *ast.Identifier {
	return &ast.Identifier{Loc: c.span(id), Name: id.Name.String()}
}

func (c *converter) optional(e js.Expression) ast.Expression {
	if e == nil {
		return nil
	}
	return c.expression(e)
}

func (c *converter) function(fl *js.FunctionLiteral) ast.Function {
	fn := ast.Function{
		Params:    c.params(fl.ParameterList),
		Body:      c.block(fl.Body),
		Async:     fl.Async,
		Generator: fl.Generator,
		Source:    fl.Source,
	}
	if fl.Name != nil {
		fn.ID = c.identifier(fl.Name)
	}
	return fn
}

func (c *converter) params(pl *js.ParameterList) []ast.Expression {
	if pl == nil {
		return nil
	}
	var out []ast.Expression
	for _, b := range pl.List {
		target := c.target(b.Target)
		if b.Initializer != nil {
			out = append(out, &ast.AssignmentPattern{Loc: c.span(b), Left: target, Right: c.expression(b.Initializer)})
			continue
		}
		out = append(out, target)
	}
	if pl.Rest != nil {
		out = append(out, &ast.RestElement{Loc: c.span(pl.Rest), Argument: c.target(pl.Rest)})
	}
	return out
}

func (c *converter) arrow(a *js.ArrowFunctionLiteral) *ast.ArrowFunctionExpression {
	out := &ast.ArrowFunctionExpression{Loc: c.span(a)}
	out.Params = c.params(a.ParameterList)
	out.Async = a.Async
	out.Source = a.Source
	switch body := a.Body.(type) {
	case *js.BlockStatement:
		out.Body = c.block(body)
	case *js.ExpressionBody:
		loc := c.span(body)
		out.Concise = true
		out.Body = &ast.BlockStatement{Loc: loc, Body: []ast.Statement{
			&ast.ReturnStatement{Loc: loc, Argument: c.expression(body.Expression)},
		}}
	}
	return out
}

func (c *converter) class(cl *js.ClassLiteral) ast.Class {
	out := ast.Class{SuperClass: c.optional(cl.SuperClass)}
	if cl.Name != nil {
		out.ID = c.identifier(cl.Name)
	}
	for _, el := range cl.Body {
		switch el := el.(type) {
		case *js.MethodDefinition:
			m := &ast.ClassMethod{
				Loc:      c.span(el),
				Key:      c.expression(el.Key),
				Computed: el.Computed,
				Static:   el.Static,
				Method:   methodKind(el.Kind),
				Value:    &ast.FunctionExpression{Loc: c.span(el.Body), Function: c.function(el.Body)},
			}
			if key, ok := el.Key.(*js.StringLiteral); ok && !el.Computed && !el.Static && key.Value.String() == "constructor" {
				m.Method = ast.MethodConstructor
			}
			out.Body = append(out.Body, m)
		case *js.FieldDefinition:
			if _, private := el.Key.(*js.PrivateIdentifier); private {
				c.fail(el, "private class field")
				continue
			}
			out.Body = append(out.Body, &ast.ClassProperty{
				Loc:      c.span(el),
				Key:      c.expression(el.Key),
				Computed: el.Computed,
				Static:   el.Static,
				Value:    c.optional(el.Initializer),
			})
		default:
			c.fail(el, "class element %T", el)
		}
	}
	return out
}

func methodKind(k js.PropertyKind) ast.MethodKind {
	switch k {
	case js.PropertyKindGet:
		return ast.MethodGet
	case js.PropertyKindSet:
		return ast.MethodSet
	}
	return ast.MethodPlain
}

func (c *converter) expression(e js.Expression) ast.Expression {
	switch e := e.(type) {
	case *js.Identifier:
		return c.identifier(e)
	case *js.NullLiteral:
		return &ast.NullLiteral{Loc: c.span(e)}
	case *js.BooleanLiteral:
		return &ast.BooleanLiteral{Loc: c.span(e), Value: e.Value}
	case *js.NumberLiteral:
		out := &ast.NumericLiteral{Loc: c.span(e)}
		switch v := e.Value.(type) {
		case int64:
			out.Value = float64(v)
		case float64:
			out.Value = v
		case *big.Int:
			c.fail(e, "bigint literal")
		}
		return out
	case *js.StringLiteral:
		return &ast.StringLiteral{Loc: c.span(e), Value: e.Value.String()}
	case *js.RegExpLiteral:
		return &ast.RegExpLiteral{Loc: c.span(e), Pattern: e.Pattern, Flags: e.Flags}
	case *js.TemplateLiteral:
		tl := &ast.TemplateLiteral{Loc: c.span(e)}
		for _, el := range e.Elements {
			tl.Quasis = append(tl.Quasis, el.Parsed.String())
			tl.Raw = append(tl.Raw, el.Literal)
		}
		for _, x := range e.Expressions {
			tl.Expressions = append(tl.Expressions, c.expression(x))
		}
		if e.Tag != nil {
			return &ast.TaggedTemplateExpression{Loc: c.span(e), Tag: c.expression(e.Tag), Quasi: tl}
		}
		return tl
	case *js.ArrayLiteral:
		out := &ast.ArrayExpression{Loc: c.span(e)}
		for _, el := range e.Value {
			if el == nil {
				out.Elements = append(out.Elements, nil)
				continue
			}
			out.Elements = append(out.Elements, c.expression(el))
		}
		return out
	case *js.ObjectLiteral:
		return c.object(e)
	case *js.SpreadElement:
		return &ast.SpreadElement{Loc: c.span(e), Argument: c.expression(e.Expression)}
	case *js.FunctionLiteral:
		return &ast.FunctionExpression{Loc: c.span(e), Function: c.function(e)}
	case *js.ArrowFunctionLiteral:
		return c.arrow(e)
	case *js.ClassLiteral:
		return &ast.ClassExpression{Loc: c.span(e), Class: c.class(e)}
	case *js.UnaryExpression:
		if e.Operator == token.INCREMENT || e.Operator == token.DECREMENT {
			return &ast.UpdateExpression{
				Loc:      c.span(e),
				Operator: e.Operator.String(),
				Prefix:   !e.Postfix,
				Argument: c.expression(e.Operand),
			}
		}
		return &ast.UnaryExpression{Loc: c.span(e), Operator: e.Operator.String(), Argument: c.expression(e.Operand)}
	case *js.BinaryExpression:
		switch e.Operator {
		case token.LOGICAL_AND, token.LOGICAL_OR, token.COALESCE:
			return &ast.LogicalExpression{
				Loc:      c.span(e),
				Operator: e.Operator.String(),
				Left:     c.expression(e.Left),
				Right:    c.expression(e.Right),
			}
		}
		return &ast.BinaryExpression{
			Loc:      c.span(e),
			Operator: e.Operator.String(),
			Left:     c.expression(e.Left),
			Right:    c.expression(e.Right),
		}
	case *js.AssignExpression:
		op := "="
		if e.Operator != token.ASSIGN {
			op = e.Operator.String() + "="
		}
		return &ast.AssignmentExpression{Loc: c.span(e), Operator: op, Left: c.target(e.Left), Right: c.expression(e.Right)}
	case *js.ConditionalExpression:
		return &ast.ConditionalExpression{
			Loc:        c.span(e),
			Test:       c.expression(e.Test),
			Consequent: c.expression(e.Consequent),
			Alternate:  c.expression(e.Alternate),
		}
	case *js.SequenceExpression:
		out := &ast.SequenceExpression{Loc: c.span(e)}
		for _, x := range e.Sequence {
			out.Expressions = append(out.Expressions, c.expression(x))
		}
		return out
	case *js.CallExpression:
		callee, optional := unwrapOptional(e.Callee)
		out := &ast.CallExpression{Loc: c.span(e), Callee: c.expression(callee), Optional: optional}
		for _, a := range e.ArgumentList {
			out.Arguments = append(out.Arguments, c.expression(a))
		}
		return out
	case *js.NewExpression:
		out := &ast.NewExpression{Loc: c.span(e), Callee: c.expression(e.Callee)}
		for _, a := range e.ArgumentList {
			out.Arguments = append(out.Arguments, c.expression(a))
		}
		return out
	case *js.DotExpression:
		left, optional := unwrapOptional(e.Left)
		prop := e.Identifier
		return &ast.MemberExpression{
			Loc:      c.span(e),
			Object:   c.expression(left),
			Property: c.identifier(&prop),
			Optional: optional,
		}
	case *js.BracketExpression:
		left, optional := unwrapOptional(e.Left)
		return &ast.MemberExpression{
			Loc:      c.span(e),
			Object:   c.expression(left),
			Property: c.expression(e.Member),
			Computed: true,
			Optional: optional,
		}
	case *js.OptionalChain:
		return &ast.ChainExpression{Loc: c.span(e), Expression: c.expression(e.Expression)}
	case *js.Optional:
		return c.expression(e.Expression)
	case *js.ThisExpression:
		return &ast.ThisExpression{Loc: c.span(e)}
	case *js.SuperExpression:
		return &ast.Super{Loc: c.span(e)}
	case *js.MetaProperty:
		return &ast.MetaProperty{Loc: c.span(e), Meta: e.Meta.Name.String(), Property: e.Property.Name.String()}
	case *js.YieldExpression:
		return &ast.YieldExpression{Loc: c.span(e), Argument: c.optional(e.Argument), Delegate: e.Delegate}
	case *js.AwaitExpression:
		return &ast.AwaitExpression{Loc: c.span(e), Argument: c.expression(e.Argument)}
	case *js.ObjectPattern, *js.ArrayPattern:
		return c.target(e)
	case *js.PrivateDotExpression:
		c.fail(e, "private member access")
	case *js.BadExpression:
		c.fail(e, "malformed expression")
	default:
		c.fail(e, "expression %T", e)
	}
	return &ast.Identifier{Loc: c.span(e), Name: "undefined"}
}

func unwrapOptional(e js.Expression) (js.Expression, bool) {
	if o, ok := e.(*js.Optional); ok {
		return o.Expression, true
	}
	return e, false
}

func (c *converter) object(o *js.ObjectLiteral) *ast.ObjectExpression {
	out := &ast.ObjectExpression{Loc: c.span(o)}
	for _, p := range o.Value {
		switch p := p.(type) {
		case *js.PropertyShort:
			name := p.Name
			out.Properties = append(out.Properties, &ast.ObjectProperty{
				Loc:       c.span(p),
				Key:       c.identifier(&name),
				Value:     c.identifier(&name),
				Shorthand: true,
			})
		case *js.PropertyKeyed:
			if p.Kind == js.PropertyKindValue {
				out.Properties = append(out.Properties, &ast.ObjectProperty{
					Loc:      c.span(p),
					Key:      c.expression(p.Key),
					Value:    c.expression(p.Value),
					Computed: p.Computed,
				})
				continue
			}
			fl, ok := p.Value.(*js.FunctionLiteral)
			if !ok {
				c.fail(p, "object method %T", p.Value)
				continue
			}
			out.Properties = append(out.Properties, &ast.ObjectMethod{
				Loc:      c.span(p),
				Key:      c.expression(p.Key),
				Computed: p.Computed,
				Method:   methodKind(p.Kind),
				Function: c.function(fl),
			})
		case *js.SpreadElement:
			out.Properties = append(out.Properties, &ast.SpreadElement{Loc: c.span(p), Argument: c.expression(p.Expression)})
		default:
			c.fail(p, "object property %T", p)
		}
	}
	return out
}

// target converts an assignment or binding target, including patterns.
func (c *converter) target(e js.Expression) ast.Expression {
	switch e := e.(type) {
	case *js.Identifier:
		return c.identifier(e)
	case *js.ArrayPattern:
		out := &ast.ArrayPattern{Loc: c.span(e)}
		for _, el := range e.Elements {
			out.Elements = append(out.Elements, c.element(el))
		}
		if e.Rest != nil {
			out.Elements = append(out.Elements, &ast.RestElement{Loc: c.span(e.Rest), Argument: c.target(e.Rest)})
		}
		return out
	case *js.ObjectPattern:
		out := &ast.ObjectPattern{Loc: c.span(e)}
		for _, p := range e.Properties {
			switch p := p.(type) {
			case *js.PropertyShort:
				name := p.Name
				var value ast.Expression = c.identifier(&name)
				if p.Initializer != nil {
					value = &ast.AssignmentPattern{Loc: c.span(p), Left: value, Right: c.expression(p.Initializer)}
				}
				out.Properties = append(out.Properties, &ast.ObjectProperty{
					Loc:       c.span(p),
					Key:       c.identifier(&name),
					Value:     value,
					Shorthand: true,
				})
			case *js.PropertyKeyed:
				out.Properties = append(out.Properties, &ast.ObjectProperty{
					Loc:      c.span(p),
					Key:      c.expression(p.Key),
					Value:    c.element(p.Value),
					Computed: p.Computed,
				})
			default:
				c.fail(p, "pattern property %T", p)
			}
		}
		if e.Rest != nil {
			out.Properties = append(out.Properties, &ast.RestElement{Loc: c.span(e.Rest), Argument: c.target(e.Rest)})
		}
		return out
	}
	return c.expression(e)
}

// element converts one pattern slot: a hole, a target, or a target with a default.
func (c *converter) element(e js.Expression) ast.Expression {
	switch e := e.(type) {
	case nil:
		return nil
	case *js.AssignExpression:
		if e.Operator == token.ASSIGN {
			return &ast.AssignmentPattern{Loc: c.span(e), Left: c.target(e.Left), Right: c.expression(e.Right)}
		}
	}
	return c.target(e)
}
