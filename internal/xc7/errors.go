package xc7

import "errors"

var (
	ErrIdentityMismatch       = errors.New("idcode does not match part")
	ErrMissingAddressRegister = errors.New("FDRI write before any FAR write")
	ErrMalformedScalarPayload = errors.New("scalar register write must carry exactly one word")
	ErrFrameSize              = errors.New("frame must be exactly 101 words")
	ErrTruncatedFrame         = errors.New("FDRI payload ends inside a frame")
	ErrWordAlignment          = errors.New("payload length is not a multiple of 4 bytes")
)
