package framebuf

import "errors"

var (
	ErrInvalidDims     = errors.New("framebuf: width, height and channel count must be positive")
	ErrRegionOutOfBuf  = errors.New("framebuf: region exceeds buffer bounds")
	ErrShortPixelSlice = errors.New("framebuf: pixel slice too short for region")
)
