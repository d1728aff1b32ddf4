// Package autostart starts the recorder when the user logs in.
package autostart

import "errors"

// ErrUnsupportedPlatform is returned where the recorder itself cannot run
var ErrUnsupportedPlatform = errors.New("start on login not supported on this platform")

const appName = "rawdelta"

// Enable enables auto-start on login
func Enable() error {
	return enable(appName)
}

// Disable disables auto-start on login
func Disable() error {
	return disable(appName)
}

// IsEnabled checks if auto-start is enabled
func IsEnabled() bool {
	return isEnabled(appName)
}

// Sync enables or disables auto-start to match want
func Sync(want bool) error {
	if IsEnabled() == want {
		return nil
	}
	if want {
		return Enable()
	}
	return Disable()
}
