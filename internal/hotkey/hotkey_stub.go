//go:build !windows

package hotkey

import (
	"fmt"
	"runtime"
)

func (m *Manager) startPlatform() error {
	return fmt.Errorf("global hotkeys not supported on %s", runtime.GOOS)
}
