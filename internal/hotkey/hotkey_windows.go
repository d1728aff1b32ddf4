//go:build windows

package hotkey

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procSetWindowsHookEx    = user32.NewProc("SetWindowsHookExW")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procGetMessage          = user32.NewProc("GetMessageW")
	procTranslateMessage    = user32.NewProc("TranslateMessage")
	procDispatchMessage     = user32.NewProc("DispatchMessageW")
	kernel32                = windows.NewLazySystemDLL("kernel32.dll")
	procGetModuleHandle     = kernel32.NewProc("GetModuleHandleW")
)

const (
	WH_KEYBOARD_LL = 13
	WH_MOUSE_LL    = 14
	WM_KEYDOWN     = 0x0100
	WM_KEYUP       = 0x0101
	WM_SYSKEYDOWN  = 0x0104
	WM_SYSKEYUP    = 0x0105

	WM_LBUTTONDOWN = 0x0201
	WM_LBUTTONUP   = 0x0202
	WM_RBUTTONDOWN = 0x0204
	WM_RBUTTONUP   = 0x0205
	WM_MBUTTONDOWN = 0x0207
	WM_MBUTTONUP   = 0x0208
	WM_XBUTTONDOWN = 0x020B
	WM_XBUTTONUP   = 0x020C
)

type KBDLLHOOKSTRUCT struct {
	VkCode      uint32
	ScanCode    uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

type MSLLHOOKSTRUCT struct {
	Point       struct{ X, Y int32 }
	MouseData   uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

// Low-level hooks are process wide, so only one manager can own them
var (
	hookMu       sync.Mutex
	hookManager  *Manager
	keyboardHook uintptr
	mouseHook    uintptr

	keyboardProc = windows.NewCallback(keyboardHookProc)
	mouseProc    = windows.NewCallback(mouseHookProc)
)

func (m *Manager) startPlatform() error {
	hookMu.Lock()
	if hookManager != nil {
		hookMu.Unlock()
		return errors.New("hotkey hooks already installed")
	}
	hookManager = m
	hookMu.Unlock()

	ready := make(chan error, 1)

	// Hooks must be installed on the thread that runs the message loop
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		hMod, _, _ := procGetModuleHandle.Call(0)

		var err error
		keyboardHook, _, err = procSetWindowsHookEx.Call(WH_KEYBOARD_LL, keyboardProc, hMod, 0)
		if keyboardHook == 0 {
			ready <- fmt.Errorf("setting keyboard hook: %v", err)
			return
		}

		mouseHook, _, err = procSetWindowsHookEx.Call(WH_MOUSE_LL, mouseProc, hMod, 0)
		if mouseHook == 0 {
			procUnhookWindowsHookEx.Call(keyboardHook)
			ready <- fmt.Errorf("setting mouse hook: %v", err)
			return
		}

		ready <- nil
		log.Println("Hotkey: Windows global hooks started")

		var msg struct {
			Hwnd    uintptr
			Message uint32
			Wparam  uintptr
			Lparam  uintptr
			Time    uint32
			Pt      struct{ X, Y int32 }
		}

		for {
			ret, _, _ := procGetMessage.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
			if int32(ret) <= 0 {
				break
			}
			procTranslateMessage.Call(uintptr(unsafe.Pointer(&msg)))
			procDispatchMessage.Call(uintptr(unsafe.Pointer(&msg)))
		}

		procUnhookWindowsHookEx.Call(keyboardHook)
		procUnhookWindowsHookEx.Call(mouseHook)
	}()

	if err := <-ready; err != nil {
		hookMu.Lock()
		hookManager = nil
		hookMu.Unlock()
		return err
	}
	return nil
}

func keyboardHookProc(nCode int, wParam uintptr, lParam uintptr) uintptr {
	if nCode == 0 {
		kbd := (*KBDLLHOOKSTRUCT)(unsafe.Pointer(lParam))
		if name := keyName(kbd.VkCode); name != "" {
			isDown := wParam == WM_KEYDOWN || wParam == WM_SYSKEYDOWN
			hookManager.UpdateState(name, isDown)
		}
	}
	ret, _, _ := procCallNextHookEx.Call(keyboardHook, uintptr(nCode), wParam, lParam)
	return ret
}

func mouseHookProc(nCode int, wParam uintptr, lParam uintptr) uintptr {
	if nCode == 0 {
		ms := (*MSLLHOOKSTRUCT)(unsafe.Pointer(lParam))
		var btnName string
		var isDown bool

		switch wParam {
		case WM_LBUTTONDOWN:
			btnName, isDown = "MOUSE1", true
		case WM_LBUTTONUP:
			btnName, isDown = "MOUSE1", false
		case WM_MBUTTONDOWN:
			btnName, isDown = "MOUSE2", true
		case WM_MBUTTONUP:
			btnName, isDown = "MOUSE2", false
		case WM_RBUTTONDOWN:
			btnName, isDown = "MOUSE3", true
		case WM_RBUTTONUP:
			btnName, isDown = "MOUSE3", false
		case WM_XBUTTONDOWN:
			btnName, isDown = xButtonName(ms.MouseData>>16), true
		case WM_XBUTTONUP:
			btnName, isDown = xButtonName(ms.MouseData>>16), false
		}

		if btnName != "" {
			hookManager.UpdateState(btnName, isDown)
		}
	}
	ret, _, _ := procCallNextHookEx.Call(mouseHook, uintptr(nCode), wParam, lParam)
	return ret
}
