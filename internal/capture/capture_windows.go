//go:build windows

package capture

import (
	"fmt"
	"log"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32                      = windows.NewLazySystemDLL("user32.dll")
	kernel32                    = windows.NewLazySystemDLL("kernel32.dll")
	procRegisterClassEx         = user32.NewProc("RegisterClassExW")
	procCreateWindowEx          = user32.NewProc("CreateWindowExW")
	procDefWindowProc           = user32.NewProc("DefWindowProcW")
	procRegisterRawInputDevices = user32.NewProc("RegisterRawInputDevices")
	procGetRawInputData         = user32.NewProc("GetRawInputData")
	procGetMessage              = user32.NewProc("GetMessageW")
	procTranslateMessage        = user32.NewProc("TranslateMessage")
	procDispatchMessage         = user32.NewProc("DispatchMessageW")
	procGetModuleHandle         = kernel32.NewProc("GetModuleHandleW")
)

const (
	RID_INPUT       = 0x10000003
	RIDEV_INPUTSINK = 0x00000100

	HID_USAGE_PAGE_GENERIC  = 0x01
	HID_USAGE_GENERIC_MOUSE = 0x02

	ERROR_CLASS_ALREADY_EXISTS = 1410

	windowClassName = "RawDeltaInputWindow"
)

// HWND_MESSAGE parent makes a message-only window
var hwndMessage = ^uintptr(2)

type wndClassEx struct {
	Size       uint32
	Style      uint32
	WndProc    uintptr
	ClsExtra   int32
	WndExtra   int32
	Instance   uintptr
	Icon       uintptr
	Cursor     uintptr
	Background uintptr
	MenuName   *uint16
	ClassName  *uint16
	IconSm     uintptr
}

type winMsg struct {
	Hwnd    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      struct{ X, Y int32 }
}

type rawInputDevice struct {
	UsagePage uint16
	Usage     uint16
	Flags     uint32
	Target    uintptr
}

type rawInputHeader struct {
	Type   uint32
	Size   uint32
	Device uintptr
	WParam uintptr
}

// RAWMOUSE; the button flags sit in a 4-byte aligned union
type rawMouse struct {
	Flags            uint16
	_                uint16
	ButtonFlags      uint16
	ButtonData       uint16
	RawButtons       uint32
	LastX            int32
	LastY            int32
	ExtraInformation uint32
}

var wndProc = windows.NewCallback(func(hwnd, msg, wparam, lparam uintptr) uintptr {
	ret, _, _ := procDefWindowProc.Call(hwnd, msg, wparam, lparam)
	return ret
})

// windowSource is a hidden message-only window registered as a raw mouse sink
type windowSource struct {
	hwnd uintptr
	msg  winMsg
}

func openPlatform() (MessageSource, error) {
	w := &windowSource{}
	if err := w.createWindow(); err != nil {
		return nil, err
	}
	if err := w.registerRawMouse(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *windowSource) createWindow() error {
	className, err := windows.UTF16PtrFromString(windowClassName)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWindow, err)
	}
	title, _ := windows.UTF16PtrFromString("hidden")

	hInstance, _, _ := procGetModuleHandle.Call(0)
	wc := wndClassEx{
		Size:      uint32(unsafe.Sizeof(wndClassEx{})),
		WndProc:   wndProc,
		Instance:  hInstance,
		ClassName: className,
	}

	ret, _, err := procRegisterClassEx.Call(uintptr(unsafe.Pointer(&wc)))
	if ret == 0 {
		if errno, ok := err.(windows.Errno); !ok || errno != ERROR_CLASS_ALREADY_EXISTS {
			return fmt.Errorf("%w: RegisterClassExW: %v", ErrWindow, err)
		}
	}

	hwnd, _, err := procCreateWindowEx.Call(
		0,
		uintptr(unsafe.Pointer(className)),
		uintptr(unsafe.Pointer(title)),
		0,
		0, 0, 0, 0,
		hwndMessage,
		0,
		hInstance,
		0,
	)
	if hwnd == 0 {
		return fmt.Errorf("%w: CreateWindowExW: %v", ErrWindow, err)
	}

	w.hwnd = hwnd
	log.Printf("Capture: message window created (hwnd 0x%X)", hwnd)
	return nil
}

func (w *windowSource) registerRawMouse() error {
	rid := rawInputDevice{
		UsagePage: HID_USAGE_PAGE_GENERIC,
		Usage:     HID_USAGE_GENERIC_MOUSE,
		Flags:     RIDEV_INPUTSINK,
		Target:    w.hwnd,
	}

	ret, _, err := procRegisterRawInputDevices.Call(
		uintptr(unsafe.Pointer(&rid)),
		1,
		unsafe.Sizeof(rid),
	)
	if ret == 0 {
		return fmt.Errorf("%w: %v", ErrRegisterDevices, err)
	}
	return nil
}

func (w *windowSource) Next() (Message, bool) {
	// 0 is WM_QUIT, -1 is an error; both end the pump
	ret, _, _ := procGetMessage.Call(uintptr(unsafe.Pointer(&w.msg)), 0, 0, 0)
	if int32(ret) <= 0 {
		return Message{}, false
	}
	return Message{
		Hwnd:   w.msg.Hwnd,
		ID:     w.msg.Message,
		WParam: w.msg.WParam,
		LParam: w.msg.LParam,
	}, true
}

func (w *windowSource) Decode(msg Message) (RawInput, error) {
	headerSize := unsafe.Sizeof(rawInputHeader{})

	var size uint32
	ret, _, err := procGetRawInputData.Call(
		msg.LParam,
		RID_INPUT,
		0,
		uintptr(unsafe.Pointer(&size)),
		headerSize,
	)
	if uint32(ret) == ^uint32(0) {
		return RawInput{}, fmt.Errorf("%w: size query: %v", ErrDecode, err)
	}
	if uintptr(size) < headerSize {
		return RawInput{}, fmt.Errorf("%w: payload of %d bytes", ErrDecode, size)
	}

	// uint64 backing keeps the header's pointer fields aligned
	data := make([]uint64, (size+7)/8)
	ptr := unsafe.Pointer(&data[0])
	ret, _, err = procGetRawInputData.Call(
		msg.LParam,
		RID_INPUT,
		uintptr(ptr),
		uintptr(unsafe.Pointer(&size)),
		headerSize,
	)
	if uint32(ret) == ^uint32(0) || ret == 0 {
		return RawInput{}, fmt.Errorf("%w: data read: %v", ErrDecode, err)
	}

	header := (*rawInputHeader)(ptr)
	in := RawInput{Type: DeviceType(header.Type)}
	if in.Type == DeviceMouse && uintptr(ret) >= headerSize+unsafe.Sizeof(rawMouse{}) {
		mouse := (*rawMouse)(unsafe.Add(ptr, headerSize))
		in.DX = mouse.LastX
		in.DY = mouse.LastY
	}
	return in, nil
}

func (w *windowSource) Dispatch(msg Message) {
	m := winMsg{
		Hwnd:    msg.Hwnd,
		Message: msg.ID,
		WParam:  msg.WParam,
		LParam:  msg.LParam,
	}
	procTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
	procDispatchMessage.Call(uintptr(unsafe.Pointer(&m)))
}
