//go:build !windows

package capture

import (
	"fmt"
	"runtime"
)

func openPlatform() (MessageSource, error) {
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, runtime.GOOS)
}
