// Package engine implements the entity model: the prototype-tagged
// value/callable system the shell uses both for type-like inference and
// for runtime dispatch.
package engine

import (
	"sort"
)

// ImplicitFunc coerces an entity to a primitive value. An entity with a
// String implicit "is a string".
type ImplicitFunc func(*Entity) Value

// Entity is the universal value: a named bag of properties, implicit
// coercions and an optional invocation descriptor. Entities are mutated
// freely while the universe is being populated and treated as frozen
// once evaluation starts.
type Entity struct {
	name       string
	properties map[string]*Entity
	implicits  map[Type]ImplicitFunc
	callee     *Callee
	prototype  *Entity
}

// Name returns the diagnostic label.
func (e *Entity) Name() string { return e.name }

// Property looks a child entity up by name. Lookup is direct: the
// prototype chain is never consulted.
func (e *Entity) Property(name string) (*Entity, bool) {
	p, ok := e.properties[name]
	return p, ok
}

// PropertyNames returns the property keys, sorted for deterministic
// completion and display.
func (e *Entity) PropertyNames() []string {
	names := make([]string, 0, len(e.properties))
	for name := range e.properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Implicit applies the coercion for the given type tag, if the entity
// carries one.
func (e *Entity) Implicit(t Type) (Value, bool) {
	if e == nil {
		return nil, false
	}
	fn, ok := e.implicits[t]
	if !ok {
		return nil, false
	}
	return fn(e), true
}

// HasImplicit reports whether the entity can coerce to the type tag.
func (e *Entity) HasImplicit(t Type) bool {
	_, ok := e.implicits[t]
	return ok
}

// Callee returns the invocation descriptor, or nil for entities that are
// not callable.
func (e *Entity) Callee() *Callee { return e.callee }

// Prototype returns the descriptive parent entity. It carries no lookup
// semantics.
func (e *Entity) Prototype() *Entity { return e.prototype }

// WithProperty attaches a child entity.
func (e *Entity) WithProperty(name string, property *Entity) *Entity {
	e.properties[name] = property
	return e
}

// WithImplicit attaches a primitive coercion. At most one per type tag;
// later registrations replace earlier ones.
func (e *Entity) WithImplicit(t Type, fn ImplicitFunc) *Entity {
	e.implicits[t] = fn
	return e
}

// WithCallee makes the entity invocable.
func (e *Entity) WithCallee(callee *Callee) *Entity {
	e.callee = callee
	return e
}

// Contributor produces completion candidates for a partially typed
// argument. Implementations must be pure functions of the value.
type Contributor interface {
	Contribute(partial Value) []Value
}

// Argument describes one parameter of a callee.
type Argument struct {
	Name        string
	Types       []Type
	Contributor Contributor
}

// Accepts reports whether an entity satisfies the argument: it must
// carry an implicit for one of the accepted type tags.
func (a Argument) Accepts(entity *Entity) bool {
	for _, t := range a.Types {
		if entity.HasImplicit(t) {
			return true
		}
	}
	return false
}

// DispatchFunc builds, but does not run, the execution for a call. The
// evaluator composes the returned executions into pipelines before any
// side effect happens.
type DispatchFunc func(self *Entity, args []*Entity, cfg *ExecConfig) (Execution, error)

// ResultPrototypeFunc synthesizes "what this call would return" without
// running it. Arguments may contain nils when inference could not
// resolve them.
type ResultPrototypeFunc func(self *Entity, args []*Entity) *Entity

// Callee bundles the argument spec, the dispatch function and the
// optional inference prototype.
type Callee struct {
	Arguments       []Argument
	Dispatch        DispatchFunc
	ResultPrototype ResultPrototypeFunc
}
