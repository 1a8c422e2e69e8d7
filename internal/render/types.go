// Package render 把文本构造成带样式的行，并输出虚拟列表使用的片段。
package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Span 表示一段文本及其样式。
type Span struct {
	Text  string
	Style lipgloss.Style
}

// Line 由多个 Span 组成，可选整体样式。
type Line struct {
	Spans []Span
	Style lipgloss.Style
}

// Plain 构造无样式的单 Span 行。
func Plain(text string) Line {
	return Line{Spans: []Span{{Text: text}}}
}

// Styled 构造单一样式的行。
func Styled(text string, style lipgloss.Style) Line {
	return Line{Spans: []Span{{Text: text, Style: style}}}
}

// Text 返回行的纯文本内容。
func (l Line) Text() string {
	var b strings.Builder
	for _, sp := range l.Spans {
		b.WriteString(sp.Text)
	}
	return b.String()
}

// Buffer 收集渲染结果，按行存储。
type Buffer struct {
	Lines []Line
}

// WriteLine 追加单行。
func (b *Buffer) WriteLine(line Line) {
	if b == nil {
		return
	}
	b.Lines = append(b.Lines, line)
}

// WriteLines 追加多行。
func (b *Buffer) WriteLines(lines ...Line) {
	if b == nil {
		return
	}
	b.Lines = append(b.Lines, lines...)
}

// String 把缓冲区渲染成以换行分隔的文本。
func (b *Buffer) String() string {
	if b == nil {
		return ""
	}
	return Join(b.Lines)
}

// LinesToStrings 将样式化的行转换为字符串列表。
func LinesToStrings(lines []Line) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		segments := make([]string, 0, len(line.Spans))
		for _, sp := range line.Spans {
			segments = append(segments, sp.Style.Render(sp.Text))
		}
		out = append(out, line.Style.Render(strings.Join(segments, "")))
	}
	return out
}

// LinesToPlainStrings 去掉样式，只保留文本。
func LinesToPlainStrings(lines []Line) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, line.Text())
	}
	return out
}

// Join 渲染并以换行连接所有行。
func Join(lines []Line) string {
	return strings.Join(LinesToStrings(lines), "\n")
}

// Strip 去除文本中的 ANSI 转义序列。
func Strip(s string) string {
	return ansi.Strip(s)
}
