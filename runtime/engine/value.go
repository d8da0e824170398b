package engine

import (
	"fmt"
	"strconv"
)

// Type tags the primitive types an entity can coerce to via its
// implicits.
type Type int

const (
	TypeString Type = iota
	TypeNumber
	TypeEntity
)

func (t Type) String() string {
	switch t {
	case TypeString:
		return "String"
	case TypeNumber:
		return "Number"
	case TypeEntity:
		return "Entity"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Value is the tagged sum String | Number | Entity.
type Value interface {
	Type() Type
	Display() string
}

type StringValue string

func (StringValue) Type() Type { return TypeString }

func (v StringValue) Display() string { return strconv.Quote(string(v)) }

type NumberValue float64

func (NumberValue) Type() Type { return TypeNumber }

func (v NumberValue) Display() string {
	return strconv.FormatFloat(float64(v), 'f', -1, 64)
}

type EntityValue struct {
	Entity *Entity
}

func (EntityValue) Type() Type { return TypeEntity }

func (v EntityValue) Display() string {
	if v.Entity == nil {
		return "<nil>"
	}
	return v.Entity.Name()
}
