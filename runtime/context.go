package runtime

import "sort"

// Context is the caller-supplied execution environment: the sandbox of
// global values and the realm objects are allocated in. A Context must not
// be shared by concurrent runs.
type Context struct {
	Sandbox map[string]*Value
	Realm   *Realm

	// ProtectSandbox turns a root-level var redeclaration of a sandbox name
	// into a no-op.
	ProtectSandbox bool
}

// NewContext wraps sandbox. A nil sandbox is treated as empty.
func NewContext(sandbox map[string]*Value) *Context {
	if sandbox == nil {
		sandbox = make(map[string]*Value)
	}
	realm := NewRealm()
	realm.Adopt(sandbox)
	return &Context{Sandbox: sandbox, Realm: realm, ProtectSandbox: true}
}

// Defines reports whether the sandbox supplies name.
func (c *Context) Defines(name string) bool {
	if c == nil {
		return false
	}
	_, ok := c.Sandbox[name]
	return ok
}

// Names returns the sandbox names in sorted order.
func (c *Context) Names() []string {
	names := make([]string, 0, len(c.Sandbox))
	for name := range c.Sandbox {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Set adds or replaces a sandbox entry.
func (c *Context) Set(name string, v *Value) {
	c.Sandbox[name] = v
}

// ErrorPrototype finds the prototype for the named error constructor,
// falling back to the realm's Error.prototype.
func (c *Context) ErrorPrototype(name string) *Object {
	if ctor, ok := c.Sandbox[name]; ok && ctor.IsObject() {
		if proto := ctor.Object.Get("prototype"); proto.IsObject() {
			return proto.Object
		}
	}
	return c.Realm.ErrorPrototype
}
