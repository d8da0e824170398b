package engine

import "strconv"

// Universe owns the process-wide entity table. It is created once at
// startup, populated by the builtins, and threaded into the evaluator
// and annotators; there is no other global mutable state.
type Universe struct {
	any    *Entity
	global *Entity
}

// NewUniverse creates the Any and Global roots.
func NewUniverse() *Universe {
	u := &Universe{}
	u.any = newEntity("Any", nil)
	u.global = newEntity("Global", nil)
	return u
}

func newEntity(name string, prototype *Entity) *Entity {
	return &Entity{
		name:       name,
		properties: make(map[string]*Entity),
		implicits:  make(map[Type]ImplicitFunc),
		prototype:  prototype,
	}
}

// Global returns the entity owning the top-level commands.
func (u *Universe) Global() *Entity { return u.global }

// Any returns the default prototype.
func (u *Universe) Any() *Entity { return u.any }

// MakeEntity returns a blank entity with prototype Any.
func (u *Universe) MakeEntity(name string) *Entity {
	return newEntity(name, u.any)
}

// StringEntity lifts a string into a singleton entity with the matching
// implicit.
func (u *Universe) StringEntity(s string) *Entity {
	return u.MakeEntity(s).WithImplicit(TypeString, func(*Entity) Value {
		return StringValue(s)
	})
}

// NumberEntity lifts a number into a singleton entity with the matching
// implicit.
func (u *Universe) NumberEntity(f float64) *Entity {
	name := strconv.FormatFloat(f, 'f', -1, 64)
	return u.MakeEntity(name).WithImplicit(TypeNumber, func(*Entity) Value {
		return NumberValue(f)
	})
}

// Lift converts a value into an entity. Entities pass through; strings
// and numbers lift to singletons.
func (u *Universe) Lift(v Value) *Entity {
	switch v := v.(type) {
	case StringValue:
		return u.StringEntity(string(v))
	case NumberValue:
		return u.NumberEntity(float64(v))
	case EntityValue:
		return v.Entity
	default:
		return nil
	}
}
