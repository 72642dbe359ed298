package mcfg

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// cursor is a forward-only reader over an in-memory image. Every read
// either returns the decoded value and advances the offset, or fails with
// ErrTruncated; a short read never yields a partial value.
type cursor struct {
	data []byte
	off  int
}

func (c *cursor) pos() int { return c.off }

// seekMagic positions the cursor at the first occurrence of tag at or
// after the current offset. This is the only backward-free reposition the
// cursor performs; all other movement is strictly forward.
func (c *cursor) seekMagic(tag []byte) error {
	idx := bytes.Index(c.data[c.off:], tag)
	if idx < 0 {
		return ErrMagicNotFound
	}
	c.off += idx
	return nil
}

func (c *cursor) take(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative field length %d", ErrFormat, n)
	}
	if n > len(c.data)-c.off {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d",
			ErrTruncated, n, c.off, len(c.data)-c.off)
	}
	b := c.data[c.off : c.off+n]
	c.off += n
	return b, nil
}

func (c *cursor) u8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *cursor) u16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *cursor) u32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}
