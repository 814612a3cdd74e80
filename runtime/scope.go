package runtime

// BindingKind is the declaration keyword a Binding was created with.
type BindingKind int

const (
	KindVar BindingKind = iota
	KindLet
	KindConst
)

func (k BindingKind) String() string {
	switch k {
	case KindLet:
		return "let"
	case KindConst:
		return "const"
	}
	return "var"
}

// Binding is one named storage cell.
type Binding struct {
	Kind  BindingKind
	Name  string
	Value *Value
	Scope *Scope // owning scope
}

// ScopeType records why a scope was created.
type ScopeType int

const (
	ScopeRoot ScopeType = iota
	ScopeFunction
	ScopeMethod
	ScopeConstructor
	ScopeBlock
	ScopeLoop
	ScopeCatch
	ScopeSwitch
	ScopeObject
)

func (t ScopeType) String() string {
	return [...]string{"root", "function", "method", "constructor", "block", "loop", "catch", "switch", "object"}[t]
}

// Scope is a parent-linked table of bindings. Closures hold a *Scope and
// observe later mutations of it.
type Scope struct {
	Type     ScopeType
	Level    int
	Parent   *Scope
	Invasive bool // var declarations bubble past this scope
	Isolated bool // hoisting boundary
	Origin   *Scope
	Context  *Context

	bindings map[string]*Binding
	names    []string
	claimed  bool
}

// NewRootScope creates the single root scope of a run and binds every
// sandbox entry as a root var.
func NewRootScope(ctx *Context) *Scope {
	s := &Scope{
		Type:     ScopeRoot,
		Isolated: true,
		Context:  ctx,
		bindings: make(map[string]*Binding),
	}
	if ctx != nil {
		for _, name := range ctx.Names() {
			s.put(KindVar, name, ctx.Sandbox[name])
		}
	}
	return s
}

// CreateChild links a new scope below s. Function-like scopes are isolated;
// every other kind is invasive.
func (s *Scope) CreateChild(t ScopeType) *Scope {
	child := &Scope{
		Type:     t,
		Level:    s.Level + 1,
		Parent:   s,
		Context:  s.Context,
		bindings: make(map[string]*Binding),
	}
	switch t {
	case ScopeFunction, ScopeMethod, ScopeConstructor:
		child.Isolated = true
	default:
		child.Invasive = true
	}
	return child
}

// Fork copies s into an independent sibling: same parent, level and flags,
// with bindings copied by value.
func (s *Scope) Fork() *Scope {
	f := &Scope{
		Type:     s.Type,
		Level:    s.Level,
		Parent:   s.Parent,
		Invasive: s.Invasive,
		Isolated: s.Isolated,
		Origin:   s,
		Context:  s.Context,
		bindings: make(map[string]*Binding, len(s.bindings)),
	}
	for _, name := range s.names {
		b := s.bindings[name]
		f.put(b.Kind, b.Name, b.Value)
	}
	return f
}

// Claim marks a function scope as hosting its body block. It reports true
// only the first time, so nested blocks get their own scope.
func (s *Scope) Claim() bool {
	if !s.Isolated || s.Type == ScopeRoot || s.claimed {
		return false
	}
	s.claimed = true
	return true
}

// HoistVarTarget returns the scope var declarations made in s land in.
func (s *Scope) HoistVarTarget() *Scope {
	cur := s
	for cur.Parent != nil && cur.Invasive && !cur.Isolated {
		cur = cur.Parent
	}
	return cur
}

func (s *Scope) put(kind BindingKind, name string, v *Value) *Binding {
	if v == nil {
		v = Undefined
	}
	if _, exists := s.bindings[name]; !exists {
		s.names = append(s.names, name)
	}
	b := &Binding{Kind: kind, Name: name, Value: v, Scope: s}
	s.bindings[name] = b
	return b
}

// Declare creates a binding. var declarations are placed in HoistVarTarget.
func (s *Scope) Declare(kind BindingKind, name string, v *Value) error {
	if kind != KindVar {
		if _, exists := s.bindings[name]; exists {
			return ErrorDuplicateDeclaration(name)
		}
		s.put(kind, name, v)
		return nil
	}
	target := s.HoistVarTarget()
	if existing, ok := target.bindings[name]; ok {
		if existing.Kind != KindVar {
			return ErrorDuplicateDeclaration(name)
		}
		if target.Type == ScopeRoot && target.Context != nil &&
			target.Context.ProtectSandbox && target.Context.Defines(name) {
			return nil
		}
	}
	target.put(KindVar, name, v)
	return nil
}

// DeclareFunction binds a hoisted function declaration. Unlike a var it stays
// in s when s is a block scope.
func (s *Scope) DeclareFunction(name string, v *Value) error {
	if s.Isolated {
		return s.Declare(KindVar, name, v)
	}
	if existing, ok := s.bindings[name]; ok && existing.Kind != KindVar {
		return ErrorDuplicateDeclaration(name)
	}
	s.put(KindVar, name, v)
	return nil
}

func (s *Scope) Var(name string, v *Value) error   { return s.Declare(KindVar, name, v) }
func (s *Scope) Let(name string, v *Value) error   { return s.Declare(KindLet, name, v) }
func (s *Scope) Const(name string, v *Value) error { return s.Declare(KindConst, name, v) }

// Resolve walks s and its ancestors; the first match wins.
func (s *Scope) Resolve(name string) *Binding {
	for cur := s; cur != nil; cur = cur.Parent {
		if b, ok := cur.bindings[name]; ok {
			return b
		}
	}
	return nil
}

// ResolveOwn looks only at s.
func (s *Scope) ResolveOwn(name string) *Binding {
	return s.bindings[name]
}

// Lookup resolves name to its value or fails with NameNotDefined.
func (s *Scope) Lookup(name string) (*Value, error) {
	b := s.Resolve(name)
	if b == nil {
		return nil, ErrorNameNotDefined(name)
	}
	return b.Value, nil
}

// Assign writes to an existing binding.
func (s *Scope) Assign(name string, v *Value) error {
	b := s.Resolve(name)
	if b == nil {
		return ErrorNameNotDefined(name)
	}
	if b.Kind == KindConst {
		return ErrorConstAssignment()
	}
	b.Value = v
	return nil
}

// Delete removes an own binding and reports whether one existed.
func (s *Scope) Delete(name string) bool {
	if _, ok := s.bindings[name]; !ok {
		return false
	}
	delete(s.bindings, name)
	for i, n := range s.names {
		if n == name {
			s.names = append(s.names[:i:i], s.names[i+1:]...)
			break
		}
	}
	return true
}

// Names returns own binding names in declaration order.
func (s *Scope) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}
