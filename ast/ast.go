package ast

// Kind tags every node. The evaluator dispatches on it.
type Kind string

const (
	KindProgram Kind = "Program"

	// Statements
	KindVariableDeclaration  Kind = "VariableDeclaration"
	KindFunctionDeclaration  Kind = "FunctionDeclaration"
	KindClassDeclaration     Kind = "ClassDeclaration"
	KindExpressionStatement  Kind = "ExpressionStatement"
	KindBlockStatement       Kind = "BlockStatement"
	KindEmptyStatement       Kind = "EmptyStatement"
	KindDebuggerStatement    Kind = "DebuggerStatement"
	KindReturnStatement      Kind = "ReturnStatement"
	KindIfStatement          Kind = "IfStatement"
	KindLabeledStatement     Kind = "LabeledStatement"
	KindBreakStatement       Kind = "BreakStatement"
	KindContinueStatement    Kind = "ContinueStatement"
	KindWhileStatement       Kind = "WhileStatement"
	KindDoWhileStatement     Kind = "DoWhileStatement"
	KindForStatement         Kind = "ForStatement"
	KindForInStatement       Kind = "ForInStatement"
	KindForOfStatement       Kind = "ForOfStatement"
	KindSwitchStatement      Kind = "SwitchStatement"
	KindSwitchCase           Kind = "SwitchCase"
	KindThrowStatement       Kind = "ThrowStatement"
	KindTryStatement         Kind = "TryStatement"
	KindCatchClause          Kind = "CatchClause"

	// Literals
	KindStringLiteral  Kind = "StringLiteral"
	KindNumericLiteral Kind = "NumericLiteral"
	KindBooleanLiteral Kind = "BooleanLiteral"
	KindNullLiteral    Kind = "NullLiteral"
	KindRegExpLiteral  Kind = "RegExpLiteral"

	// Expressions
	KindIdentifier               Kind = "Identifier"
	KindThisExpression           Kind = "ThisExpression"
	KindSuper                    Kind = "Super"
	KindMetaProperty             Kind = "MetaProperty"
	KindArrayExpression          Kind = "ArrayExpression"
	KindObjectExpression         Kind = "ObjectExpression"
	KindObjectProperty           Kind = "ObjectProperty"
	KindObjectMethod             Kind = "ObjectMethod"
	KindSpreadElement            Kind = "SpreadElement"
	KindFunctionExpression       Kind = "FunctionExpression"
	KindArrowFunctionExpression  Kind = "ArrowFunctionExpression"
	KindClassExpression          Kind = "ClassExpression"
	KindTemplateLiteral          Kind = "TemplateLiteral"
	KindTaggedTemplateExpression Kind = "TaggedTemplateExpression"
	KindUnaryExpression          Kind = "UnaryExpression"
	KindUpdateExpression         Kind = "UpdateExpression"
	KindBinaryExpression         Kind = "BinaryExpression"
	KindLogicalExpression        Kind = "LogicalExpression"
	KindAssignmentExpression     Kind = "AssignmentExpression"
	KindConditionalExpression    Kind = "ConditionalExpression"
	KindCallExpression           Kind = "CallExpression"
	KindNewExpression            Kind = "NewExpression"
	KindMemberExpression         Kind = "MemberExpression"
	KindChainExpression          Kind = "ChainExpression"
	KindSequenceExpression       Kind = "SequenceExpression"
	KindYieldExpression          Kind = "YieldExpression"
	KindAwaitExpression          Kind = "AwaitExpression"

	// Patterns
	KindObjectPattern     Kind = "ObjectPattern"
	KindArrayPattern      Kind = "ArrayPattern"
	KindAssignmentPattern Kind = "AssignmentPattern"
	KindRestElement       Kind = "RestElement"
)

// Position is a 1-based line/column pair. Offset is 0-based into the source.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Offset int `json:"-"`
}

// Span is the source range a node covers.
type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Loc is embedded by every node to carry its Span.
type Loc struct {
	Range Span `json:"loc"`
}

func (l *Loc) Span() Span { return l.Range }

// Node is the interface all AST nodes implement.
type Node interface {
	Kind() Kind
	Span() Span
}

type Statement interface {
	Node
	statementNode()
}

type Expression interface {
	Node
	expressionNode()
}

// Program is the root node of every AST.
type Program struct {
	Loc
	Filename string      `json:"filename,omitempty"`
	Body     []Statement `json:"body"`
}

func (*Program) Kind() Kind { return KindProgram }

// ---------- Statements ----------

// DeclKind is the keyword a VariableDeclaration was written with.
type DeclKind string

const (
	DeclVar   DeclKind = "var"
	DeclLet   DeclKind = "let"
	DeclConst DeclKind = "const"
)

type VariableDeclaration struct {
	Loc
	DeclKind     DeclKind              `json:"kind"`
	Declarations []*VariableDeclarator `json:"declarations"`
}

// VariableDeclarator pairs a target pattern with its initializer.
type VariableDeclarator struct {
	Loc
	ID   Expression `json:"id"`   // Identifier or pattern
	Init Expression `json:"init"` // may be nil
}

// Function is shared by declarations, expressions, arrows and methods.
type Function struct {
	ID        *Identifier     `json:"id"`
	Params    []Expression    `json:"params"` // Identifier, patterns, AssignmentPattern, RestElement
	Body      *BlockStatement `json:"body"`
	Async     bool            `json:"async"`
	Generator bool            `json:"generator"`
	Source    string          `json:"-"`
}

type FunctionDeclaration struct {
	Loc
	Function
}

type ClassDeclaration struct {
	Loc
	Class
}

// Class is shared by class declarations and expressions.
type Class struct {
	ID         *Identifier   `json:"id"`
	SuperClass Expression    `json:"superClass"`
	Body       []ClassMember `json:"body"`
}

// ClassMember is a *ClassMethod or *ClassProperty.
type ClassMember interface {
	Node
	classMember()
}

// MethodKind distinguishes plain methods from accessors and constructors.
type MethodKind string

const (
	MethodConstructor MethodKind = "constructor"
	MethodPlain       MethodKind = "method"
	MethodGet         MethodKind = "get"
	MethodSet         MethodKind = "set"
)

type ClassMethod struct {
	Loc
	Key      Expression          `json:"key"`
	Computed bool                `json:"computed"`
	Static   bool                `json:"static"`
	Method   MethodKind          `json:"kind"`
	Value    *FunctionExpression `json:"value"`
}

type ClassProperty struct {
	Loc
	Key      Expression `json:"key"`
	Computed bool       `json:"computed"`
	Static   bool       `json:"static"`
	Value    Expression `json:"value"` // may be nil
}

type ExpressionStatement struct {
	Loc
	Expression Expression `json:"expression"`
}

type BlockStatement struct {
	Loc
	Body []Statement `json:"body"`
}

type EmptyStatement struct{ Loc }

type DebuggerStatement struct{ Loc }

type ReturnStatement struct {
	Loc
	Argument Expression `json:"argument"` // may be nil
}

type IfStatement struct {
	Loc
	Test       Expression `json:"test"`
	Consequent Statement  `json:"consequent"`
	Alternate  Statement  `json:"alternate"` // may be nil
}

type LabeledStatement struct {
	Loc
	Label *Identifier `json:"label"`
	Body  Statement   `json:"body"`
}

type BreakStatement struct {
	Loc
	Label *Identifier `json:"label"` // may be nil
}

type ContinueStatement struct {
	Loc
	Label *Identifier `json:"label"` // may be nil
}

type WhileStatement struct {
	Loc
	Test Expression `json:"test"`
	Body Statement  `json:"body"`
}

type DoWhileStatement struct {
	Loc
	Body Statement  `json:"body"`
	Test Expression `json:"test"`
}

type ForStatement struct {
	Loc
	Init   Node       `json:"init"`   // *VariableDeclaration, Expression or nil
	Test   Expression `json:"test"`   // may be nil
	Update Expression `json:"update"` // may be nil
	Body   Statement  `json:"body"`
}

type ForInStatement struct {
	Loc
	Left  Node       `json:"left"` // *VariableDeclaration or assignment target
	Right Expression `json:"right"`
	Body  Statement  `json:"body"`
}

type ForOfStatement struct {
	Loc
	Left  Node       `json:"left"`
	Right Expression `json:"right"`
	Body  Statement  `json:"body"`
}

type SwitchStatement struct {
	Loc
	Discriminant Expression    `json:"discriminant"`
	Cases        []*SwitchCase `json:"cases"`
}

type SwitchCase struct {
	Loc
	Test       Expression  `json:"test"` // nil for default
	Consequent []Statement `json:"consequent"`
}

type ThrowStatement struct {
	Loc
	Argument Expression `json:"argument"`
}

type TryStatement struct {
	Loc
	Block     *BlockStatement `json:"block"`
	Handler   *CatchClause    `json:"handler"`   // may be nil
	Finalizer *BlockStatement `json:"finalizer"` // may be nil
}

type CatchClause struct {
	Loc
	Param Expression      `json:"param"` // may be nil (optional catch binding)
	Body  *BlockStatement `json:"body"`
}

// ---------- Literals ----------

type StringLiteral struct {
	Loc
	Value string `json:"value"`
}

type NumericLiteral struct {
	Loc
	Value float64 `json:"value"`
}

type BooleanLiteral struct {
	Loc
	Value bool `json:"value"`
}

type NullLiteral struct{ Loc }

type RegExpLiteral struct {
	Loc
	Pattern string `json:"pattern"`
	Flags   string `json:"flags"`
}

// ---------- Expressions ----------

type Identifier struct {
	Loc
	Name string `json:"name"`
}

type ThisExpression struct{ Loc }

type Super struct{ Loc }

// MetaProperty is new.target.
type MetaProperty struct {
	Loc
	Meta     string `json:"meta"`
	Property string `json:"property"`
}

type ArrayExpression struct {
	Loc
	Elements []Expression `json:"elements"` // nil entries are holes
}

type ObjectExpression struct {
	Loc
	Properties []Node `json:"properties"` // *ObjectProperty, *ObjectMethod, *SpreadElement
}

// ObjectProperty is a key/value entry in an object literal or an object pattern.
type ObjectProperty struct {
	Loc
	Key       Expression `json:"key"`
	Value     Expression `json:"value"`
	Computed  bool       `json:"computed"`
	Shorthand bool       `json:"shorthand"`
}

type ObjectMethod struct {
	Loc
	Key      Expression `json:"key"`
	Computed bool       `json:"computed"`
	Method   MethodKind `json:"kind"` // method, get or set
	Function
}

type SpreadElement struct {
	Loc
	Argument Expression `json:"argument"`
}

type FunctionExpression struct {
	Loc
	Function
}

// ArrowFunctionExpression with a concise body is stored with a synthesized
// block holding a single return statement.
type ArrowFunctionExpression struct {
	Loc
	Function
	Concise bool `json:"expression"`
}

type ClassExpression struct {
	Loc
	Class
}

type TemplateLiteral struct {
	Loc
	Quasis      []string     `json:"quasis"`
	Raw         []string     `json:"-"`
	Expressions []Expression `json:"expressions"`
}

type TaggedTemplateExpression struct {
	Loc
	Tag   Expression       `json:"tag"`
	Quasi *TemplateLiteral `json:"quasi"`
}

type UnaryExpression struct {
	Loc
	Operator string     `json:"operator"`
	Argument Expression `json:"argument"`
}

type UpdateExpression struct {
	Loc
	Operator string     `json:"operator"` // ++ or --
	Prefix   bool       `json:"prefix"`
	Argument Expression `json:"argument"`
}

type BinaryExpression struct {
	Loc
	Operator string     `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

type LogicalExpression struct {
	Loc
	Operator string     `json:"operator"` // &&, || or ??
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

type AssignmentExpression struct {
	Loc
	Operator string     `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

type ConditionalExpression struct {
	Loc
	Test       Expression `json:"test"`
	Consequent Expression `json:"consequent"`
	Alternate  Expression `json:"alternate"`
}

type CallExpression struct {
	Loc
	Callee    Expression   `json:"callee"`
	Arguments []Expression `json:"arguments"`
	Optional  bool         `json:"optional"`
}

type NewExpression struct {
	Loc
	Callee    Expression   `json:"callee"`
	Arguments []Expression `json:"arguments"`
}

type MemberExpression struct {
	Loc
	Object   Expression `json:"object"`
	Property Expression `json:"property"`
	Computed bool       `json:"computed"`
	Optional bool       `json:"optional"`
}

// ChainExpression bounds the short-circuit of an optional chain.
type ChainExpression struct {
	Loc
	Expression Expression `json:"expression"`
}

type SequenceExpression struct {
	Loc
	Expressions []Expression `json:"expressions"`
}

type YieldExpression struct {
	Loc
	Argument Expression `json:"argument"` // may be nil
	Delegate bool       `json:"delegate"`
}

type AwaitExpression struct {
	Loc
	Argument Expression `json:"argument"`
}

// ---------- Patterns ----------

type ObjectPattern struct {
	Loc
	Properties []Node `json:"properties"` // *ObjectProperty and a trailing *RestElement
}

type ArrayPattern struct {
	Loc
	Elements []Expression `json:"elements"` // nil entries are holes; may end with *RestElement
}

type AssignmentPattern struct {
	Loc
	Left  Expression `json:"left"`
	Right Expression `json:"right"`
}

type RestElement struct {
	Loc
	Argument Expression `json:"argument"`
}
