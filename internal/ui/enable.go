package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// parent 自带子控件的自定义控件
type parent interface {
	Children() []fyne.CanvasObject
}

// SetEnabled 递归启用或禁用控件。
// 有子控件的只处理子控件，容器本身不动；不支持禁用的控件直接跳过。
func SetEnabled(enabled bool, objects ...fyne.CanvasObject) {
	for _, obj := range objects {
		if children := childrenOf(obj); len(children) > 0 {
			SetEnabled(enabled, children...)
			continue
		}

		d, ok := obj.(widget.Disableable)
		if !ok {
			continue
		}
		if enabled {
			d.Enable()
		} else {
			d.Disable()
		}
	}
}

func childrenOf(obj fyne.CanvasObject) []fyne.CanvasObject {
	switch o := obj.(type) {
	case *fyne.Container:
		return o.Objects
	case parent:
		return o.Children()
	}
	return nil
}
