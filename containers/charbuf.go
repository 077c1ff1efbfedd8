package containers

import (
	"github.com/estokes/poolshark"
	"github.com/estokes/poolshark/classid"
	"github.com/estokes/poolshark/lpool"
)

// CharBuf is a growable character buffer, the adapter equivalent of a
// reusable String/Vec<u8> builder. Unlike the generic containers it is a
// single concrete type with no type parameters, so its Discriminant
// carries a class id and no layout fields at all: every CharBuf in the
// process shares exactly one pool slot.
type CharBuf struct {
	buf []byte
}

// NewCharBuf constructs an empty CharBuf, suitable as an lpool/gpool
// factory.
func NewCharBuf() *CharBuf { return &CharBuf{} }

func (c *CharBuf) WriteString(s string) { c.buf = append(c.buf, s...) }
func (c *CharBuf) WriteByte(b byte) error {
	c.buf = append(c.buf, b)
	return nil
}
func (c *CharBuf) String() string { return string(c.buf) }
func (c *CharBuf) Len() int       { return len(c.buf) }
func (c *CharBuf) Capacity() int  { return cap(c.buf) }

// Reset truncates the buffer to empty, retaining its backing array.
func (c *CharBuf) Reset() {
	c.buf = c.buf[:0]
}

func (c *CharBuf) Discriminant() poolshark.Discriminant {
	class, ok := classid.Assign("containers.CharBuf")
	if !ok {
		return poolshark.InvalidDiscriminant
	}
	d, ok := poolshark.PackDiscriminant(class, -1, poolshark.AbsentLayout, poolshark.AbsentLayout)
	if !ok {
		return poolshark.InvalidDiscriminant
	}
	return d
}

// RegisterCharBuf installs CharBuf's fresh-value factory with lpool.
func RegisterCharBuf() {
	lpool.Register[*CharBuf](func() *CharBuf { return NewCharBuf() })
}
