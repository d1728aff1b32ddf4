// Package capture records relative mouse movement reported by the Raw Input API
// while a listening gate is open.
package capture

import (
	"fmt"
	"strings"
)

// DeviceType is the device tag carried in a raw input header (RIM_TYPE*)
type DeviceType uint32

const (
	DeviceMouse    DeviceType = 0
	DeviceKeyboard DeviceType = 1
	DeviceHID      DeviceType = 2
)

func (d DeviceType) String() string {
	switch d {
	case DeviceMouse:
		return "mouse"
	case DeviceKeyboard:
		return "keyboard"
	case DeviceHID:
		return "hid"
	default:
		return fmt.Sprintf("device(%d)", uint32(d))
	}
}

// RawInput is a decoded raw input notification
type RawInput struct {
	Type DeviceType
	DX   int32
	DY   int32
}

// Movement is one relative mouse delta
type Movement struct {
	DX int32 `json:"dx"`
	DY int32 `json:"dy"`
}

func (m Movement) String() string {
	return fmt.Sprintf("(%d, %d)", m.DX, m.DY)
}

// FormatMovements renders movements as "[(1, 0), (0, -3)]"
func FormatMovements(moves []Movement) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, m := range moves {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(m.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

// Batch is what a pause drains out of the buffer
type Batch struct {
	Movements []Movement
	// Dropped counts movements rejected because the buffer was full
	Dropped int
}

// Sum returns the total displacement of the batch
func (b Batch) Sum() (dx, dy int64) {
	for _, m := range b.Movements {
		dx += int64(m.DX)
		dy += int64(m.DY)
	}
	return dx, dy
}

// WM_INPUT
const messageInput = 0x00FF

// Message is a platform window message as seen by the capture loop
type Message struct {
	Hwnd   uintptr
	ID     uint32
	WParam uintptr
	LParam uintptr
}

// IsRawInput reports whether the message is a raw input notification
func (m Message) IsRawInput() bool {
	return m.ID == messageInput
}

// Handler receives decoded raw input from the capture loop
type Handler interface {
	OnRawInput(in RawInput)
}

// MessageSource is the platform message queue the capture loop pumps.
//
// Next blocks until a message is available. It returns false once the
// platform signals that the pump is shutting down.
type MessageSource interface {
	Next() (Message, bool)
	Decode(msg Message) (RawInput, error)
	Dispatch(msg Message)
}
