package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"StopWatch/internal/input"
)

// keyName 把 fyne 的按键名转换成快捷键配置使用的名字
func keyName(name fyne.KeyName) string {
	switch name {
	case desktop.KeyAltLeft, desktop.KeyAltRight:
		return "alt"
	case desktop.KeyControlLeft, desktop.KeyControlRight:
		return "ctrl"
	case desktop.KeyShiftLeft, desktop.KeyShiftRight:
		return "shift"
	}
	return input.NormalizeKey(string(name))
}
