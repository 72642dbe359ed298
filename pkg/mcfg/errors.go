package mcfg

import (
	"errors"
	"fmt"
)

// ErrFormat is the base of every structural decode failure. Callers can
// separate a malformed image from a tooling fault with a single
// errors.Is(err, ErrFormat).
var ErrFormat = errors.New("mcfg: malformed image")

var (
	ErrMagicNotFound   = fmt.Errorf("%w: signature not found", ErrFormat)
	ErrBadHeader       = fmt.Errorf("%w: invalid header", ErrFormat)
	ErrNoItems         = fmt.Errorf("%w: zero item count", ErrFormat)
	ErrUnknownItemType = fmt.Errorf("%w: unknown item type", ErrFormat)
	ErrItemSize        = fmt.Errorf("%w: item size mismatch", ErrFormat)
	ErrBadFileMagic    = fmt.Errorf("%w: invalid file item magic", ErrFormat)
	ErrBadTrailer      = fmt.Errorf("%w: invalid trailer", ErrFormat)
	ErrTruncated       = fmt.Errorf("%w: truncated image", ErrFormat)
)
