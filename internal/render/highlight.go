package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	dimStyle     = lipgloss.NewStyle().Faint(true)
	mentionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	linkStyle    = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("6"))
)

// HighlightChat 按词着色聊天正文：@提及加粗，链接加下划线，`代码` 变暗。
// 先按宽度换行再着色，因此每个 Span 都落在单行内。
func HighlightChat(text string, width int) []Line {
	lines := []Line{}
	for _, rawLine := range wrapText(text, width) {
		if rawLine == "" {
			lines = append(lines, Line{})
			continue
		}
		spans := []Span{}
		rest := rawLine
		for _, tok := range strings.Fields(rawLine) {
			idx := strings.Index(rest, tok)
			if idx > 0 {
				spans = append(spans, Span{Text: rest[:idx]})
			}
			spans = append(spans, Span{Text: tok, Style: tokenStyle(tok)})
			rest = rest[idx+len(tok):]
		}
		if rest != "" {
			spans = append(spans, Span{Text: rest})
		}
		lines = append(lines, Line{Spans: spans})
	}
	if len(lines) == 0 {
		return []Line{{}}
	}
	return lines
}

func tokenStyle(tok string) lipgloss.Style {
	switch {
	case isMention(tok):
		return mentionStyle
	case isLink(tok):
		return linkStyle
	case isInlineCode(tok):
		return dimStyle
	default:
		return lipgloss.Style{}
	}
}

func isMention(tok string) bool {
	return len(tok) > 1 && tok[0] == '@'
}

func isLink(tok string) bool {
	return strings.HasPrefix(tok, "http://") || strings.HasPrefix(tok, "https://")
}

func isInlineCode(tok string) bool {
	return len(tok) > 1 && strings.HasPrefix(tok, "`") && strings.HasSuffix(tok, "`")
}
