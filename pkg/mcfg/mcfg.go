// Package mcfg decodes MCFG carrier-configuration containers.
//
// MCFG is the record container used for modem carrier configuration in
// MBN firmware images. A container is a magic-tagged header followed by a
// run of length-prefixed item records (NV values, embedded files, NV
// files) and a fixed trailer record. The package decodes a container held
// fully in memory in a single forward pass and never re-encodes.
package mcfg

import "fmt"

const (
	// Magic is the 4-byte tag marking the start of a container header.
	// The tag may sit at any offset inside the surrounding buffer.
	Magic = "MCFG"

	// TrailerMarker is the literal carried by the trailer record payload.
	TrailerMarker = "MCFG_TRL"
)

const (
	headerVersionID   uint16 = 4995
	headerVersionSize uint16 = 4

	trailerMagic1 uint16 = 10
	trailerMagic2 uint16 = 0xA1

	// Every item record starts with a fixed 8-byte header. The declared
	// record length includes these bytes.
	itemHeaderSize = 8
)

// ItemType tags the payload shape of an item record.
type ItemType uint8

const (
	TypeNV     ItemType = 1
	TypeNVFile ItemType = 2
	TypeFile   ItemType = 4
)

func (t ItemType) String() string {
	switch t {
	case TypeNV:
		return "nv"
	case TypeNVFile:
		return "nv_file"
	case TypeFile:
		return "file"
	default:
		return fmt.Sprintf("type(%d)", uint8(t))
	}
}

// Header is the fixed container header that follows the magic tag.
type Header struct {
	FormatType        uint16
	ConfigurationType uint16
	ItemCount         uint32
	CarrierIndex      uint16
	Reserved          uint16
	Version           uint32
}

// ItemHeader precedes every item record. Length spans the whole record,
// its own eight bytes included.
type ItemHeader struct {
	Length     uint32
	Type       ItemType
	Attributes uint8
	Reserved   uint16
}

// Item is one decoded record. The concrete types are NVItem and FileItem;
// no other implementations exist.
type Item interface {
	// Type reports the record tag the item was decoded from.
	Type() ItemType
}

// NVItem is a single identified non-volatile parameter value.
type NVItem struct {
	ID   uint16
	Data []byte
}

func (NVItem) Type() ItemType { return TypeNV }

// FileItem is a named byte blob. NVFile marks items tagged as NV files;
// their payload layout is identical to plain file items.
type FileItem struct {
	Path   string
	Data   []byte
	NVFile bool
}

func (f FileItem) Type() ItemType {
	if f.NVFile {
		return TypeNVFile
	}
	return TypeFile
}

// Image is a fully decoded container.
type Image struct {
	Header Header
	Items  []Item
}
