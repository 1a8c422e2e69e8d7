package render

import "strings"

// LineToStatic 深拷贝行，便于安全缓存。
func LineToStatic(line Line) Line {
	spans := make([]Span, len(line.Spans))
	copy(spans, line.Spans)
	return Line{Spans: spans, Style: line.Style}
}

// IsBlankLineSpacesOnly 判断行是否为空或仅包含空格。
func IsBlankLineSpacesOnly(line Line) bool {
	for _, sp := range line.Spans {
		if strings.Trim(sp.Text, " ") != "" {
			return false
		}
	}
	return true
}

// PrefixLines 为首行/续行添加前缀。
func PrefixLines(lines []Line, initial Span, subsequent Span) []Line {
	out := make([]Line, 0, len(lines))
	for i, l := range lines {
		spans := make([]Span, 0, len(l.Spans)+1)
		if i == 0 {
			spans = append(spans, initial)
		} else {
			spans = append(spans, subsequent)
		}
		spans = append(spans, l.Spans...)
		out = append(out, Line{Spans: spans, Style: l.Style})
	}
	return out
}

// Stack 依次拼接多个块，块之间插入 gap 个空行。
func Stack(gap int, blocks ...[]Line) []Line {
	var out []Line
	for _, block := range blocks {
		if len(block) == 0 {
			continue
		}
		if len(out) > 0 {
			for range gap {
				out = append(out, Line{})
			}
		}
		for _, l := range block {
			out = append(out, LineToStatic(l))
		}
	}
	return out
}

// TrimBlank 去掉首尾的空白行。
func TrimBlank(lines []Line) []Line {
	start, end := 0, len(lines)
	for start < end && IsBlankLineSpacesOnly(lines[start]) {
		start++
	}
	for end > start && IsBlankLineSpacesOnly(lines[end-1]) {
		end--
	}
	return lines[start:end]
}
