package ir

import (
	"strings"

	"github.com/simonsan/llhd/pkg/types"
)

// ArrayAggregate is an array literal. The type's length comes from the
// literal's length prefix when present, otherwise from the element
// count; the two are not required to agree.
type ArrayAggregate struct {
	Type   *types.ArrayType
	Values []Value
}

// NewArrayAggregate creates an array aggregate.
func NewArrayAggregate(ty *types.ArrayType, values []Value) *ArrayAggregate {
	return &ArrayAggregate{Type: ty, Values: values}
}

func (a *ArrayAggregate) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(a.Type.Element.String())
	for i, v := range a.Values {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(" ")
		sb.WriteString(refString(v))
	}
	sb.WriteString("]")
	return sb.String()
}

// StructAggregate is a struct literal of self-describing field values.
type StructAggregate struct {
	Type   *types.StructType
	Values []Value
}

// NewStructAggregate creates a struct aggregate.
func NewStructAggregate(ty *types.StructType, values []Value) *StructAggregate {
	return &StructAggregate{Type: ty, Values: values}
}

func (a *StructAggregate) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, v := range a.Values {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(refString(v))
	}
	sb.WriteString("}")
	return sb.String()
}
