package layout

import (
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
)

var (
	ErrEmptyMatrix  = errors.New("layout: empty cell matrix")
	ErrRaggedRows   = errors.New("layout: the elements of each row are not equal")
	ErrDanglingSpan = errors.New("layout: span marker has no cell to continue")
	ErrNilWidget    = errors.New("layout: widget cell without object")
	ErrPaddingShape = errors.New("layout: padding must be a number or four numbers")
)

type CellKind int

const (
	KindWidget CellKind = iota
	KindSpacer
	KindSpan
)

// Cell 网格中的一个格子：控件、固定宽度的空白占位，或者“并入左侧”的标记
type Cell struct {
	Kind   CellKind
	Object fyne.CanvasObject
	Width  float32
}

func Widget(obj fyne.CanvasObject) Cell {
	return Cell{Kind: KindWidget, Object: obj}
}

func Spacer(width float32) Cell {
	return Cell{Kind: KindSpacer, Width: width}
}

// Span 表示当前格子并入同一行左侧最近的格子
func Span() Cell {
	return Cell{Kind: KindSpan}
}

// Placement 一个非 Span 格子的位置和跨列数
type Placement struct {
	Row  int
	Col  int
	Span int
	Cell Cell
}

// Padding 外边距 PadX/PadY 加在格子四周，内边距 IPadX/IPadY 加在控件本身
type Padding struct {
	PadX  float32
	PadY  float32
	IPadX float32
	IPadY float32
}

// Uniform 四个方向使用同一个值
func Uniform(n float32) Padding {
	return Padding{PadX: n, PadY: n, IPadX: n, IPadY: n}
}

// ParsePadding 接受单个数字或者四个数字，其它形状都是配置错误
func ParsePadding(v any) (Padding, error) {
	if n, ok := toFloat(v); ok {
		return Uniform(n), nil
	}

	var items []any
	switch vv := v.(type) {
	case []any:
		items = vv
	case []int:
		for _, i := range vv {
			items = append(items, i)
		}
	case []float32:
		for _, f := range vv {
			items = append(items, f)
		}
	case []float64:
		for _, f := range vv {
			items = append(items, f)
		}
	case [4]int:
		items = []any{vv[0], vv[1], vv[2], vv[3]}
	case [4]float32:
		items = []any{vv[0], vv[1], vv[2], vv[3]}
	case Padding:
		return vv, nil
	default:
		return Padding{}, fmt.Errorf("%w: got %T", ErrPaddingShape, v)
	}

	if len(items) != 4 {
		return Padding{}, fmt.Errorf("%w: got %d values", ErrPaddingShape, len(items))
	}
	var out [4]float32
	for i, item := range items {
		n, ok := toFloat(item)
		if !ok {
			return Padding{}, fmt.Errorf("%w: element %d is %T", ErrPaddingShape, i, item)
		}
		out[i] = n
	}
	return Padding{PadX: out[0], PadY: out[1], IPadX: out[2], IPadY: out[3]}, nil
}

func toFloat(v any) (float32, bool) {
	switch n := v.(type) {
	case int:
		return float32(n), true
	case int64:
		return float32(n), true
	case float32:
		return n, true
	case float64:
		return float32(n), true
	}
	return 0, false
}

// Plan 计算每个格子的行、列和跨列数。
// 跨列数等于紧跟在它右侧的连续 Span 标记个数加一。
func Plan(cells [][]Cell) ([]Placement, error) {
	if len(cells) == 0 || len(cells[0]) == 0 {
		return nil, ErrEmptyMatrix
	}

	columns := len(cells[0])
	for i, row := range cells {
		if len(row) != columns {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrRaggedRows, i, len(row), columns)
		}
	}

	var placements []Placement
	for r, row := range cells {
		for c, cell := range row {
			switch cell.Kind {
			case KindSpan:
				if c == 0 {
					return nil, fmt.Errorf("%w: row %d", ErrDanglingSpan, r)
				}
				continue
			case KindWidget:
				if cell.Object == nil {
					return nil, fmt.Errorf("%w: row %d column %d", ErrNilWidget, r, c)
				}
			}

			span := 1
			for i := c + 1; i < columns && row[i].Kind == KindSpan; i++ {
				span++
			}
			placements = append(placements, Placement{Row: r, Col: c, Span: span, Cell: cell})
		}
	}
	return placements, nil
}
