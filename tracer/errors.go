package tracer

import "errors"

var (
	ErrInterrupted   = errors.New("tracer: interrupted while rendering")
	ErrNoBuffers     = errors.New("tracer: session started without buffer params")
	ErrSessionClosed = errors.New("tracer: session closed")
	ErrUnknownDevice = errors.New("tracer: unknown device")
)
