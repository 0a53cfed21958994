package value

import "fmt"

// Class is a runtime class: a name, an optional superclass to chain
// method lookup through, and its own declared methods. There is no
// separate "metaclass" here (spec.md's Non-goals exclude static/class
// methods), matching the teacher's flat Class struct in object.go.
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Function
}

func (c *Class) String() string { return fmt.Sprintf("<class %s>", c.Name) }

// FindMethod walks the inheritance chain looking for name, returning nil
// if neither this class nor any ancestor declares it.
func (c *Class) FindMethod(name string) *Function {
	if fn, ok := c.Methods[name]; ok {
		return fn
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil
}

// Arity is the initializer's arity, or zero for a class with no init
// (spec.md §4.5 "Class construction").
func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// Instance is a runtime object: a reference to its class plus a mutable
// field map. Fields shadow methods of the same name on Get.
type Instance struct {
	Class  *Class
	Fields map[string]Value
}

// NewInstance allocates a bare instance with no fields set.
func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: make(map[string]Value)}
}

func (i *Instance) String() string { return fmt.Sprintf("<class %s instance>", i.Class.Name) }

// Get looks up name as a field first, then as a bound method. ok is
// false if neither exists, leaving the caller (internal/interp) to
// raise the "Undefined property" runtime error with its own token.
func (i *Instance) Get(name string) (Value, bool) {
	if v, ok := i.Fields[name]; ok {
		return v, true
	}
	if m := i.Class.FindMethod(name); m != nil {
		return m.Bind(i), true
	}
	return nil, false
}

// Set assigns a field unconditionally; Lox allows freely adding fields
// to any instance (spec.md §4.5).
func (i *Instance) Set(name string, v Value) {
	i.Fields[name] = v
}
