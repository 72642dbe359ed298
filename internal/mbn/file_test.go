package mbn

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const (
	ehSize = 64
	phSize = 56
)

// buildELF lays out a minimal ELF64 little-endian image with one PT_LOAD
// program segment per payload, in order.
func buildELF(t *testing.T, segments ...[]byte) []byte {
	t.Helper()

	phoff := uint64(ehSize)
	dataOff := phoff + uint64(len(segments))*phSize

	var buf bytes.Buffer
	le := binary.LittleEndian

	// e_ident
	buf.Write([]byte{0x7f, 'E', 'L', 'F', 2, 1, 1, 0})
	buf.Write(make([]byte, 8))

	u16 := func(v uint16) {
		var b [2]byte
		le.PutUint16(b[:], v)
		buf.Write(b[:])
	}
	u32 := func(v uint32) {
		var b [4]byte
		le.PutUint32(b[:], v)
		buf.Write(b[:])
	}
	u64 := func(v uint64) {
		var b [8]byte
		le.PutUint64(b[:], v)
		buf.Write(b[:])
	}

	u16(2) // e_type: EXEC
	u16(0) // e_machine
	u32(1) // e_version
	u64(0) // e_entry
	u64(phoff)
	u64(0) // e_shoff
	u32(0) // e_flags
	u16(ehSize)
	u16(phSize)
	u16(uint16(len(segments)))
	u16(0) // e_shentsize
	u16(0) // e_shnum
	u16(0) // e_shstrndx

	off := dataOff
	for _, seg := range segments {
		u32(1) // p_type: PT_LOAD
		u32(4) // p_flags: R
		u64(off)
		u64(0) // p_vaddr
		u64(0) // p_paddr
		u64(uint64(len(seg)))
		u64(uint64(len(seg)))
		u64(1) // p_align
		off += uint64(len(seg))
	}
	for _, seg := range segments {
		buf.Write(seg)
	}
	return buf.Bytes()
}

func TestPayloadThirdSegment(t *testing.T) {
	t.Parallel()

	want := []byte("MCFG payload bytes")
	img := buildELF(t, []byte("boot"), []byte("hash"), want)

	got, err := Payload(img)
	if err != nil {
		t.Fatalf("payload: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("payload: got %q want %q", got, want)
	}
}

func TestPayloadTooFewSegments(t *testing.T) {
	t.Parallel()

	img := buildELF(t, []byte("boot"), []byte("hash"))
	_, err := Payload(img)
	if !errors.Is(err, ErrNoConfigSegment) {
		t.Fatalf("expected ErrNoConfigSegment, got %v", err)
	}
}

func TestPayloadNotELF(t *testing.T) {
	t.Parallel()

	_, err := Payload([]byte("definitely not firmware"))
	if !errors.Is(err, ErrNotELF) {
		t.Fatalf("expected ErrNotELF, got %v", err)
	}
}

func TestOpenRoundTrip(t *testing.T) {
	t.Parallel()

	want := []byte("segment three")
	img := buildELF(t, []byte("a"), []byte("b"), want)
	path := filepath.Join(t.TempDir(), "test.mbn")
	if err := os.WriteFile(path, img, 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}

	f, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	got, err := f.Payload()
	if err != nil {
		t.Fatalf("payload: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("payload: got %q want %q", got, want)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	// Close twice is fine.
	if err := f.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Open(filepath.Join(t.TempDir(), "absent.mbn"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}
