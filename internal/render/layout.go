package render

import "strings"

// Insets 用于描述内边距。
type Insets struct {
	Top    int
	Left   int
	Right  int
	Bottom int
}

// TLBR 通过 top/left/bottom/right 构造 Insets。
func TLBR(top, left, bottom, right int) Insets {
	return Insets{Top: top, Left: left, Bottom: bottom, Right: right}
}

// VH 通过垂直/水平值构造 Insets。
func VH(vertical, horizontal int) Insets {
	return Insets{Top: vertical, Left: horizontal, Bottom: vertical, Right: horizontal}
}

// Inner 返回扣除左右内边距后的可用宽度，不会小于 1。
func (in Insets) Inner(width int) int {
	return max(width-in.Left-in.Right, 1)
}

// Pad 为每行添加左侧缩进，并在上下补空行。右侧内边距只影响换行宽度。
func Pad(lines []Line, in Insets) []Line {
	out := make([]Line, 0, len(lines)+in.Top+in.Bottom)
	for range in.Top {
		out = append(out, Line{})
	}
	indent := strings.Repeat(" ", max(in.Left, 0))
	for _, l := range lines {
		if indent == "" {
			out = append(out, l)
			continue
		}
		spans := append([]Span{{Text: indent}}, l.Spans...)
		out = append(out, Line{Spans: spans, Style: l.Style})
	}
	for range in.Bottom {
		out = append(out, Line{})
	}
	return out
}
