// Package tray provides system tray functionality using getlantern/systray.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// MenuItem represents a menu item
type MenuItem struct {
	ID        int
	Title     string
	Checkable bool
	Callback  func()
	checked   bool
	item      *systray.MenuItem
}

// Tray manages the system tray icon and menu
type Tray struct {
	mu        sync.Mutex
	tooltip   string
	items     []*MenuItem
	listening bool
	ready     bool
	onExit    func()
	quitCh    chan struct{}
}

// New creates a new system tray
func New(tooltip string) *Tray {
	return &Tray{
		tooltip: tooltip,
		items:   make([]*MenuItem, 0),
		quitCh:  make(chan struct{}),
	}
}

// OnExit registers a function to run when the tray loop ends
func (t *Tray) OnExit(fn func()) {
	t.onExit = fn
}

// AddMenuItem adds a menu item to the tray
func (t *Tray) AddMenuItem(title string, callback func()) int {
	return t.add(&MenuItem{Title: title, Callback: callback})
}

// AddCheckItem adds a menu item that shows a check mark
func (t *Tray) AddCheckItem(title string, checked bool, callback func()) int {
	return t.add(&MenuItem{Title: title, Checkable: true, checked: checked, Callback: callback})
}

func (t *Tray) add(mi *MenuItem) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	mi.ID = len(t.items)
	t.items = append(t.items, mi)
	return mi.ID
}

// AddSeparator adds a separator to the menu
func (t *Tray) AddSeparator() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = append(t.items, nil) // nil indicates separator
}

// SetItemChecked sets the checked state of a menu item.
// It may be called before the tray is running.
func (t *Tray) SetItemChecked(id int, checked bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if id < 0 || id >= len(t.items) || t.items[id] == nil {
		return
	}
	mi := t.items[id]
	mi.checked = checked
	if mi.item == nil {
		return
	}
	if checked {
		mi.item.Check()
	} else {
		mi.item.Uncheck()
	}
}

// SetListening switches the icon and tooltip between the idle and recording states
func (t *Tray) SetListening(listening bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.listening = listening
	if t.ready {
		t.applyState()
	}
}

func (t *Tray) applyState() {
	if t.listening {
		systray.SetIcon(listeningIcon)
		systray.SetTooltip(t.tooltip + " (listening)")
	} else {
		systray.SetIcon(idleIcon)
		systray.SetTooltip(t.tooltip + " (paused)")
	}
}

// Run starts the tray event loop (blocks)
func (t *Tray) Run() {
	systray.Run(t.setupMenu, func() {
		close(t.quitCh)
		if t.onExit != nil {
			t.onExit()
		}
	})
}

// setupMenu is called when systray is ready
func (t *Tray) setupMenu() {
	t.mu.Lock()
	defer t.mu.Unlock()

	systray.SetTitle("rawdelta")
	t.ready = true
	t.applyState()

	for _, menuItem := range t.items {
		if menuItem == nil {
			systray.AddSeparator()
			continue
		}

		if menuItem.Checkable {
			menuItem.item = systray.AddMenuItemCheckbox(menuItem.Title, "", menuItem.checked)
		} else {
			menuItem.item = systray.AddMenuItem(menuItem.Title, "")
		}

		// Handle clicks in goroutine
		if menuItem.Callback != nil {
			go func(mi *MenuItem) {
				for {
					select {
					case <-mi.item.ClickedCh:
						mi.Callback()
					case <-t.quitCh:
						return
					}
				}
			}(menuItem)
		}
	}
}

// Stop stops the tray
func (t *Tray) Stop() {
	systray.Quit()
}
