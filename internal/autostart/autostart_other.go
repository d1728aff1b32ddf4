//go:build !windows

package autostart

func enable(string) error { return ErrUnsupportedPlatform }

func disable(string) error { return ErrUnsupportedPlatform }

func isEnabled(string) bool { return false }
