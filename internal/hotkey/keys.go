package hotkey

import "fmt"

// Windows virtual-key codes that have a combo name of their own
var vkNames = map[uint32]string{
	0x08: "BACKSPACE",
	0x09: "TAB",
	0x0D: "ENTER",
	0x10: "SHIFT", 0xA0: "SHIFT", 0xA1: "SHIFT",
	0x11: "CTRL", 0xA2: "CTRL", 0xA3: "CTRL",
	0x12: "ALT", 0xA4: "ALT", 0xA5: "ALT",
	0x13: "PAUSE",
	0x14: "CAPSLOCK",
	0x1B: "ESC",
	0x20: "SPACE",
	0x21: "PAGEUP",
	0x22: "PAGEDOWN",
	0x23: "END",
	0x24: "HOME",
	0x25: "LEFT",
	0x26: "UP",
	0x27: "RIGHT",
	0x28: "DOWN",
	0x2C: "PRINTSCREEN",
	0x2D: "INSERT",
	0x2E: "DELETE",
	0x5B: "WIN", 0x5C: "WIN",
	0x91: "SCROLLLOCK",
}

// keyName maps a virtual-key code to the name used in combos, or "" if unmapped
func keyName(vk uint32) string {
	if name, ok := vkNames[vk]; ok {
		return name
	}

	switch {
	case vk >= 'A' && vk <= 'Z', vk >= '0' && vk <= '9':
		return string(rune(vk))
	case vk >= 0x70 && vk <= 0x7B: // VK_F1..VK_F12
		return fmt.Sprintf("F%d", vk-0x6F)
	}
	return ""
}

// xButtonName maps an XBUTTON index (high word of mouseData) to its combo name
func xButtonName(index uint32) string {
	if index == 1 {
		return "MOUSE4"
	}
	return "MOUSE5"
}
