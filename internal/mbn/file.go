// Package mbn opens MBN firmware images and exposes the raw carrier
// configuration payload they carry in their third ELF program segment.
package mbn

import (
	"bytes"
	"debug/elf"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

var (
	// ErrNotELF indicates the input is not an ELF-wrapped firmware image.
	ErrNotELF = errors.New("mbn: not an ELF image")
	// ErrNoConfigSegment indicates the image lacks the program segment
	// that carries the configuration payload.
	ErrNoConfigSegment = errors.New("mbn: configuration segment missing")
)

// configSegment is the index of the program segment holding the MCFG
// payload in signed MBN images.
const configSegment = 2

// File is an opened firmware image. The underlying bytes may be a
// read-only mapping, so slices handed out by Payload are only valid until
// Close.
type File struct {
	data    []byte
	mmapped bool
}

// Open maps the image read-only, falling back to a plain read where mmap
// is unavailable.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size64 := stat.Size()
	if size64 <= 0 || size64 > int64(int(^uint(0)>>1)) {
		return nil, fmt.Errorf("%w: image size %d", ErrNotELF, size64)
	}
	size := int(size64)

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err == nil {
		return &File{data: data, mmapped: true}, nil
	}

	data = make([]byte, size)
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, err
	}
	return &File{data: data}, nil
}

// Close releases the mapping, if any.
func (f *File) Close() error {
	if f == nil || f.data == nil {
		return nil
	}
	var err error
	if f.mmapped {
		err = unix.Munmap(f.data)
	}
	f.data = nil
	f.mmapped = false
	return err
}

// Data returns the whole image. The slice is invalidated by Close.
func (f *File) Data() []byte { return f.data }

// Payload returns the raw bytes of the configuration segment.
func (f *File) Payload() ([]byte, error) {
	return Payload(f.data)
}

// Payload extracts the configuration segment from an in-memory image.
func Payload(data []byte) ([]byte, error) {
	ef, err := elf.NewFile(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotELF, err)
	}
	defer func() { _ = ef.Close() }()

	if len(ef.Progs) <= configSegment {
		return nil, fmt.Errorf("%w: image has %d program segments", ErrNoConfigSegment, len(ef.Progs))
	}
	prog := ef.Progs[configSegment]

	end := prog.Off + prog.Filesz
	if end < prog.Off || end > uint64(len(data)) {
		return nil, fmt.Errorf("%w: segment %d out of bounds", ErrNotELF, configSegment)
	}
	return data[prog.Off:end], nil
}
