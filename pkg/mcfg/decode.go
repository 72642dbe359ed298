package mcfg

import (
	"bytes"
	"fmt"
)

// WalkFunc receives each decoded item in container order. Returning a
// non-nil error aborts the walk and surfaces the error unchanged.
type WalkFunc func(Item) error

// Walk decodes the container embedded in data, invoking fn once per item
// record as soon as the record is decoded. The walk is a single forward
// pass: the first structural violation aborts it, and records handed to fn
// before the failure are not revisited. fn may be nil.
//
// The format reserves one unit of the header item count for the trailer,
// so Walk reads ItemCount-1 item records and then requires a trailer.
func Walk(data []byte, fn WalkFunc) (Header, error) {
	c := &cursor{data: data}
	hdr, err := readHeader(c)
	if err != nil {
		return Header{}, err
	}
	for i := uint32(0); i < hdr.ItemCount-1; i++ {
		item, err := readItem(c)
		if err != nil {
			return Header{}, fmt.Errorf("record %d: %w", i, err)
		}
		if fn != nil {
			if err := fn(item); err != nil {
				return Header{}, err
			}
		}
	}
	if err := readTrailer(c); err != nil {
		return Header{}, err
	}
	return hdr, nil
}

// Parse decodes the container embedded in data and collects every item.
func Parse(data []byte) (*Image, error) {
	img := &Image{}
	hdr, err := Walk(data, func(it Item) error {
		img.Items = append(img.Items, it)
		return nil
	})
	if err != nil {
		return nil, err
	}
	img.Header = hdr
	return img, nil
}

func readHeader(c *cursor) (Header, error) {
	if err := c.seekMagic([]byte(Magic)); err != nil {
		return Header{}, err
	}
	if _, err := c.take(len(Magic)); err != nil {
		return Header{}, err
	}

	var hdr Header
	var err error
	if hdr.FormatType, err = c.u16(); err != nil {
		return Header{}, err
	}
	if hdr.ConfigurationType, err = c.u16(); err != nil {
		return Header{}, err
	}
	if hdr.ItemCount, err = c.u32(); err != nil {
		return Header{}, err
	}
	if hdr.CarrierIndex, err = c.u16(); err != nil {
		return Header{}, err
	}
	if hdr.Reserved, err = c.u16(); err != nil {
		return Header{}, err
	}

	// The two fixed constants double as a structural checksum: a
	// misaligned or foreign buffer fails here instead of producing
	// garbage records.
	versionID, err := c.u16()
	if err != nil {
		return Header{}, err
	}
	if versionID != headerVersionID {
		return Header{}, fmt.Errorf("%w: version id %d", ErrBadHeader, versionID)
	}
	versionSize, err := c.u16()
	if err != nil {
		return Header{}, err
	}
	if versionSize != headerVersionSize {
		return Header{}, fmt.Errorf("%w: version size %d", ErrBadHeader, versionSize)
	}
	if hdr.Version, err = c.u32(); err != nil {
		return Header{}, err
	}

	if hdr.ItemCount == 0 {
		return Header{}, ErrNoItems
	}
	return hdr, nil
}

func readItemHeader(c *cursor) (ItemHeader, error) {
	length, err := c.u32()
	if err != nil {
		return ItemHeader{}, err
	}
	typ, err := c.u8()
	if err != nil {
		return ItemHeader{}, err
	}
	attrs, err := c.u8()
	if err != nil {
		return ItemHeader{}, err
	}
	reserved, err := c.u16()
	if err != nil {
		return ItemHeader{}, err
	}
	return ItemHeader{Length: length, Type: ItemType(typ), Attributes: attrs, Reserved: reserved}, nil
}

func readItem(c *cursor) (Item, error) {
	hdr, err := readItemHeader(c)
	if err != nil {
		return nil, err
	}
	switch hdr.Type {
	case TypeNV:
		return readNVItem(c, hdr)
	case TypeNVFile:
		return readFileItem(c, hdr, true)
	case TypeFile:
		return readFileItem(c, hdr, false)
	default:
		return nil, fmt.Errorf("%w %d", ErrUnknownItemType, uint8(hdr.Type))
	}
}

func readNVItem(c *cursor, hdr ItemHeader) (NVItem, error) {
	start := c.pos()
	id, err := c.u16()
	if err != nil {
		return NVItem{}, err
	}
	declared, err := c.u16()
	if err != nil {
		return NVItem{}, err
	}
	// One byte of data magic precedes the value; its presence is all the
	// format requires.
	if _, err := c.u8(); err != nil {
		return NVItem{}, err
	}
	data, err := c.take(int(declared) - 1)
	if err != nil {
		return NVItem{}, err
	}
	consumed := c.pos() - start + itemHeaderSize
	if uint32(consumed) != hdr.Length {
		return NVItem{}, fmt.Errorf("%w: nv item %d spans %d bytes, record declares %d",
			ErrItemSize, id, consumed, hdr.Length)
	}
	return NVItem{ID: id, Data: bytes.Clone(data)}, nil
}

func readFileItem(c *cursor, hdr ItemHeader, nvFile bool) (FileItem, error) {
	start := c.pos()
	headerMagic, err := c.u16()
	if err != nil {
		return FileItem{}, err
	}
	if headerMagic != 1 {
		return FileItem{}, fmt.Errorf("%w: header magic %d", ErrBadFileMagic, headerMagic)
	}
	nameLen, err := c.u16()
	if err != nil {
		return FileItem{}, err
	}
	rawName, err := c.take(int(nameLen))
	if err != nil {
		return FileItem{}, err
	}
	// The stored name carries a trailing NUL terminator.
	name := ""
	if nameLen > 0 {
		name = string(rawName[:nameLen-1])
	}
	sizeMagic, err := c.u16()
	if err != nil {
		return FileItem{}, err
	}
	if sizeMagic != 2 {
		return FileItem{}, fmt.Errorf("%w: size magic %d", ErrBadFileMagic, sizeMagic)
	}
	declared, err := c.u16()
	if err != nil {
		return FileItem{}, err
	}
	if _, err := c.u8(); err != nil {
		return FileItem{}, err
	}
	data, err := c.take(int(declared) - 1)
	if err != nil {
		return FileItem{}, err
	}
	consumed := c.pos() - start + itemHeaderSize
	if uint32(consumed) != hdr.Length {
		return FileItem{}, fmt.Errorf("%w: file item %q spans %d bytes, record declares %d",
			ErrItemSize, name, consumed, hdr.Length)
	}
	return FileItem{Path: name, Data: bytes.Clone(data), NVFile: nvFile}, nil
}

// readTrailer validates the closing record. The trailer carries no type
// tag; it is recognized purely by position after the last item.
func readTrailer(c *cursor) error {
	// Record length, unused by the trailer checks.
	if _, err := c.take(4); err != nil {
		return err
	}
	magic1, err := c.u16()
	if err != nil {
		return err
	}
	if magic1 != trailerMagic1 {
		return fmt.Errorf("%w: magic1 %#x", ErrBadTrailer, magic1)
	}
	if _, err := c.take(2); err != nil { // reserved
		return err
	}
	magic2, err := c.u16()
	if err != nil {
		return err
	}
	if magic2 != trailerMagic2 {
		return fmt.Errorf("%w: magic2 %#x", ErrBadTrailer, magic2)
	}
	dataLen, err := c.u16()
	if err != nil {
		return err
	}
	if dataLen < 8 {
		return fmt.Errorf("%w: data length %d", ErrBadTrailer, dataLen)
	}
	marker, err := c.take(int(dataLen) - 8)
	if err != nil {
		return err
	}
	if string(marker) != TrailerMarker {
		return fmt.Errorf("%w: marker %q", ErrBadTrailer, marker)
	}
	return nil
}
