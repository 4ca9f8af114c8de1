package ir

import (
	"math/big"
	"strconv"

	"github.com/simonsan/llhd/pkg/types"
)

// ConstInt is an arbitrary-precision integer constant of a fixed bit
// width.
type ConstInt struct {
	Width int
	Value *big.Int
}

// NewConstInt creates an integer constant of the given width.
func NewConstInt(width int, value *big.Int) *ConstInt {
	return &ConstInt{Width: width, Value: value}
}

// Type returns the integer type of the constant.
func (c *ConstInt) Type() types.Type {
	return types.Int(c.Width)
}

func (c *ConstInt) String() string {
	return c.Type().String() + " " + c.Value.String()
}

// ConstTime is a time constant: an exact rational number of seconds
// plus delta and epsilon step counts. The rational is constructed from
// the literal's digits without any floating-point rounding.
type ConstTime struct {
	Value   *big.Rat
	Delta   uint64
	Epsilon uint64
}

// NewConstTime creates a time constant.
func NewConstTime(value *big.Rat, delta, epsilon uint64) *ConstTime {
	return &ConstTime{Value: value, Delta: delta, Epsilon: epsilon}
}

// Type returns the time type.
func (c *ConstTime) Type() types.Type {
	return types.Time
}

func (c *ConstTime) String() string {
	s := c.Value.RatString() + "s"
	if c.Delta != 0 {
		s += " " + strconv.FormatUint(c.Delta, 10) + "d"
	}
	if c.Epsilon != 0 {
		s += " " + strconv.FormatUint(c.Epsilon, 10) + "e"
	}
	return s
}
