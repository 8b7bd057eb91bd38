package ui

import (
	"image/color"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"StopWatch/internal/input"
	"StopWatch/internal/layout"
)

// hoverArea 覆盖整个窗口的透明控件，把鼠标移动转发成输入事件。
// 它不处理点击，点击仍然落到下面的按钮上。
type hoverArea struct {
	widget.BaseWidget

	src    *input.ChanSource
	width  atomic.Int64
	height atomic.Int64
}

var _ desktop.Hoverable = (*hoverArea)(nil)

func newHoverArea(src *input.ChanSource) *hoverArea {
	h := &hoverArea{src: src}
	h.ExtendBaseWidget(h)
	return h
}

func (h *hoverArea) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(canvas.NewRectangle(color.Transparent))
}

func (h *hoverArea) Resize(size fyne.Size) {
	h.width.Store(int64(size.Width))
	h.height.Store(int64(size.Height))
	h.BaseWidget.Resize(size)
}

// Bounds 窗口坐标下的区域，可以在任意 goroutine 上调用
func (h *hoverArea) Bounds() layout.Rect {
	return layout.Rect{Width: int(h.width.Load()), Height: int(h.height.Load())}
}

func (h *hoverArea) MouseIn(e *desktop.MouseEvent) {
	h.emit(e.Position)
}

func (h *hoverArea) MouseMoved(e *desktop.MouseEvent) {
	h.emit(e.Position)
}

func (h *hoverArea) MouseOut() {
	h.src.Emit(input.Event{Kind: input.PointerMove, X: -1, Y: -1})
}

func (h *hoverArea) emit(pos fyne.Position) {
	h.src.Emit(input.Event{Kind: input.PointerMove, X: int(pos.X), Y: int(pos.Y)})
}
