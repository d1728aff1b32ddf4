package capture

import "errors"

var (
	// ErrUnsupportedPlatform is returned when raw input capture is not available on this OS
	ErrUnsupportedPlatform = errors.New("raw input capture not supported on this platform")

	// ErrWindow is returned when the hidden message window cannot be created
	ErrWindow = errors.New("failed to create message window")

	// ErrRegisterDevices is returned when the platform rejects the raw mouse registration
	ErrRegisterDevices = errors.New("failed to register raw input devices")

	// ErrDecode is returned when a raw input payload cannot be read
	ErrDecode = errors.New("failed to decode raw input")

	// ErrAlreadyStarted is returned when a session already has a running pump
	ErrAlreadyStarted = errors.New("capture already started")
)
