package render

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"
)

func TestLinesToPlainStrings(t *testing.T) {
	lines := []Line{
		{
			Spans: []Span{
				{Text: "• ", Style: lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))},
				{Text: "hello", Style: lipgloss.NewStyle().Bold(true)},
			},
		},
		{Spans: []Span{}},
	}

	got := LinesToPlainStrings(lines)
	require.Equal(t, []string{"• hello", ""}, got)
	for _, line := range got {
		require.NotContains(t, line, "\x1b")
	}
}

func TestStackAndPad(t *testing.T) {
	header := []Line{Plain("alice")}
	body := []Line{Plain("hi"), Plain("there")}

	require.Equal(t, []string{"alice", "", "hi", "there"}, LinesToPlainStrings(Stack(1, header, nil, body)))
	require.Equal(t, []string{"", "  hi", "  there"}, LinesToPlainStrings(Pad(body, TLBR(1, 2, 0, 0))))
	require.Equal(t, 4, VH(0, 3).Inner(10))
	require.Equal(t, 1, VH(0, 9).Inner(10))
}

func TestHighlightChatKeepsText(t *testing.T) {
	text := "ping @bob see https://example.test and `go test`"
	lines := HighlightChat(text, 200)
	require.Len(t, lines, 1)
	require.Equal(t, text, lines[0].Text())

	var mention bool
	for _, sp := range lines[0].Spans {
		if sp.Text == "@bob" && sp.Style.GetBold() {
			mention = true
		}
	}
	require.True(t, mention, "expected bold mention span")
	require.Len(t, HighlightChat("aaaa bbbb", 4), 2)
}

func TestMarkdownFallsBackAndWraps(t *testing.T) {
	md := NewMarkdown("notty")
	lines := md.Render("**bold** text", 40)
	joined := Strip(strings.Join(lines, "\n"))
	require.Contains(t, joined, "bold")
	require.Contains(t, joined, "text")
	require.Len(t, md.Render("   ", 40), 1, "blank input passes through")
}
