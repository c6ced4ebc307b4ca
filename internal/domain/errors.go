package domain

import "errors"

var (
	ErrInvalidSettings = errors.New("invalid settings")
	ErrDeviceNotFound  = errors.New("device not found")
	ErrInvalidReading  = errors.New("invalid reading")
)
