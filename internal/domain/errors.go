package domain

import "errors"

var (
	ErrEmptyInput          = errors.New("empty input")
	ErrInvalidMediaType    = errors.New("invalid media type")
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	ErrDurationExceeded    = errors.New("duration exceeded")
	ErrDurationUnknown     = errors.New("duration not loaded")
	ErrUploadFailed        = errors.New("upload failed")
	ErrGenerationFailed    = errors.New("generation failed")
	ErrMetadataLoaded      = errors.New("metadata already loaded")
	ErrNotFound            = errors.New("not found")
)
