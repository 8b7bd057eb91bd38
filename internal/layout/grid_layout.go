package layout

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
)

// GridLayout 按 Plan 的结果摆放控件，支持跨列。
// 不可见的控件不占空间，整个网格在容器内居中。
type GridLayout struct {
	rows    int
	cols    int
	padding Padding
	cells   map[fyne.CanvasObject]Placement
}

var _ fyne.Layout = (*GridLayout)(nil)

// NewGrid 根据格子矩阵创建容器。矩阵不规整时返回错误，调用方应当把它当作启动失败处理。
func NewGrid(cells [][]Cell, padding Padding) (*fyne.Container, error) {
	placements, err := Plan(cells)
	if err != nil {
		return nil, err
	}

	l := &GridLayout{
		rows:    len(cells),
		cols:    len(cells[0]),
		padding: padding,
		cells:   make(map[fyne.CanvasObject]Placement, len(placements)),
	}

	objects := make([]fyne.CanvasObject, 0, len(placements))
	for _, p := range placements {
		obj := p.Cell.Object
		if p.Cell.Kind == KindSpacer {
			blank := canvas.NewRectangle(color.Transparent)
			blank.SetMinSize(fyne.NewSize(p.Cell.Width, 0))
			obj = blank
		}
		l.cells[obj] = p
		objects = append(objects, obj)
	}

	return container.New(l, objects...), nil
}

// Placement 返回控件所在的格子
func (l *GridLayout) Placement(obj fyne.CanvasObject) (Placement, bool) {
	p, ok := l.cells[obj]
	return p, ok
}

func (l *GridLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	widths, heights := l.tracks(objects)
	return fyne.NewSize(sum(widths), sum(heights))
}

func (l *GridLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	widths, heights := l.tracks(objects)

	offsetX := (size.Width - sum(widths)) / 2
	if offsetX < 0 {
		offsetX = 0
	}
	offsetY := (size.Height - sum(heights)) / 2
	if offsetY < 0 {
		offsetY = 0
	}

	for _, obj := range objects {
		p, ok := l.cells[obj]
		if !ok || !obj.Visible() {
			continue
		}
		x := offsetX + sum(widths[:p.Col]) + l.padding.PadX
		y := offsetY + sum(heights[:p.Row]) + l.padding.PadY
		w := sum(widths[p.Col:p.Col+p.Span]) - 2*l.padding.PadX
		h := heights[p.Row] - 2*l.padding.PadY
		obj.Move(fyne.NewPos(x, y))
		obj.Resize(fyne.NewSize(maxf(w, 0), maxf(h, 0)))
	}
}

// tracks 计算每一列的宽度和每一行的高度
func (l *GridLayout) tracks(objects []fyne.CanvasObject) ([]float32, []float32) {
	widths := make([]float32, l.cols)
	heights := make([]float32, l.rows)

	var wide []fyne.CanvasObject
	for _, obj := range objects {
		p, ok := l.cells[obj]
		if !ok || !obj.Visible() {
			continue
		}
		ms := obj.MinSize()
		h := ms.Height + 2*l.padding.IPadY + 2*l.padding.PadY
		heights[p.Row] = maxf(heights[p.Row], h)
		if p.Span > 1 {
			wide = append(wide, obj)
			continue
		}
		w := ms.Width + 2*l.padding.IPadX + 2*l.padding.PadX
		widths[p.Col] = maxf(widths[p.Col], w)
	}

	// 跨列控件放不下时，把差值补到最后一列
	for _, obj := range wide {
		p := l.cells[obj]
		need := obj.MinSize().Width + 2*l.padding.IPadX + 2*l.padding.PadX
		have := sum(widths[p.Col : p.Col+p.Span])
		if need > have {
			widths[p.Col+p.Span-1] += need - have
		}
	}
	return widths, heights
}

func sum(values []float32) float32 {
	var total float32
	for _, v := range values {
		total += v
	}
	return total
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
