// Package wire holds the frame encodings spoken by Holiday devices: the raw
// UDP datagram, the line based compositor pipe format and the JSON body of the
// REST API. Decoders are the exact inverse of the encoders and are used by the
// simulator to rebuild a string from whatever arrives.
package wire

import "errors"

var (
	// ErrFrameLength reports a frame whose size does not match the globe count.
	ErrFrameLength = errors.New("frame length mismatch")
	// ErrMalformed reports a frame that could not be parsed.
	ErrMalformed = errors.New("malformed frame")
)
