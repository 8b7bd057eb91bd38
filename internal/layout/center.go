package layout

import "math"

// GoldenOffset 对话框上边缘落在参考区域 38.2% 的位置，略高于正中
const GoldenOffset = 0.382

type Size struct {
	Width  int
	Height int
}

type Point struct {
	X int
	Y int
}

type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Contains 边界上的点也算在内
func (r Rect) Contains(x, y int) bool {
	return r.X <= x && x <= r.X+r.Width && r.Y <= y && y <= r.Y+r.Height
}

// Position 计算 target 左上角坐标：水平居中，垂直方向偏上。
// reference 为空时以屏幕为参考，屏幕原点为 (0, 0)。结果不会小于 0。
func Position(target Size, reference *Rect, screen Size) Point {
	ref := Rect{Width: screen.Width, Height: screen.Height}
	if reference != nil {
		ref = *reference
	}

	x := ref.X + floorDiv(ref.Width-target.Width, 2)
	y := ref.Y + int(math.Floor(float64(ref.Height-target.Height)*GoldenOffset))
	return Point{X: max(x, 0), Y: max(y, 0)}
}

// TopCenter 主窗口的初始位置：屏幕顶部水平居中
func TopCenter(target Size, screen Size) Point {
	return Point{X: max(floorDiv(screen.Width-target.Width, 2), 0), Y: 0}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
