// Package hotkey provides global system-wide hotkey and mouse button monitoring.
package hotkey

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
)

// ErrEmptyHotkey is returned when a combo has no usable parts
var ErrEmptyHotkey = errors.New("empty hotkey")

// Manager matches held keys and buttons against registered combos
type Manager struct {
	mu           sync.RWMutex
	bindings     []*binding
	currentState map[string]bool // keys/buttons currently held
}

type binding struct {
	parts    []string // e.g. ["CTRL", "M"]
	original string
	callback func()
}

// NewManager creates a new hotkey manager
func NewManager() *Manager {
	return &Manager{
		currentState: make(map[string]bool),
	}
}

// Parse splits a combo such as "Ctrl+M" or "Mouse4+Shift" into upper-case parts
func Parse(hotkeyStr string) ([]string, error) {
	if strings.TrimSpace(hotkeyStr) == "" {
		return nil, ErrEmptyHotkey
	}

	parts := strings.Split(strings.ToUpper(hotkeyStr), "+")
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, fmt.Errorf("hotkey %q: empty key in combo", hotkeyStr)
		}
		if p == "CONTROL" {
			p = "CTRL"
		}
		parts[i] = p
	}
	return parts, nil
}

// Register binds a combo (e.g. "Ctrl+M", "Mouse4+Mouse5") to a callback.
// The callback runs on its own goroutine each time the combo is completed.
func (m *Manager) Register(hotkeyStr string, callback func()) (int, error) {
	parts, err := Parse(hotkeyStr)
	if err != nil {
		return -1, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.bindings = append(m.bindings, &binding{
		parts:    parts,
		original: hotkeyStr,
		callback: callback,
	})

	return len(m.bindings) - 1, nil
}

// Clear removes all registered hotkeys
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bindings = nil
}

// UpdateState records a key or button transition and fires any combo the
// press completes. Auto-repeat presses of a held key do not fire again.
func (m *Manager) UpdateState(key string, isDown bool) {
	key = strings.ToUpper(key)

	m.mu.Lock()
	wasDown := m.currentState[key]
	if isDown {
		m.currentState[key] = true
	} else {
		delete(m.currentState, key)
	}
	m.mu.Unlock()

	if isDown && !wasDown {
		m.checkMatches(key)
	}
}

func (m *Manager) checkMatches(pressed string) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, b := range m.bindings {
		// Only combos that include the key just pressed can have become complete
		match := false
		for _, part := range b.parts {
			if part == pressed {
				match = true
				break
			}
		}
		for _, part := range b.parts {
			if !m.currentState[part] {
				match = false
				break
			}
		}

		if match {
			log.Printf("Hotkey: triggered %s", b.original)
			go b.callback()
		}
	}
}

// Start installs the platform-specific global hooks.
// This is implemented in hotkey_windows.go and hotkey_stub.go.
func (m *Manager) Start() error {
	return m.startPlatform()
}
