package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"

	"chatwin/internal/render"
	"chatwin/internal/store"
	"chatwin/internal/virtual"
)

func TestRowRendererLayout(t *testing.T) {
	r := newRowRenderer(nil, func() int { return 40 })
	msg := store.Message{Author: "alice", Body: "hello @bob"}

	frag := r.Render(msg, 0)
	require.Equal(t, 3, lipgloss.Height(string(frag)), "header + body + gap")
	lines := strings.Split(render.Strip(string(frag)), "\n")
	require.Equal(t, "alice", lines[0])
	require.Equal(t, "  hello @bob", lines[1])
}

func TestRowRendererWrapsToWidth(t *testing.T) {
	width := 20
	r := newRowRenderer(nil, func() int { return width })
	msg := store.Message{Author: "bob", Body: strings.Repeat("lorem ipsum ", 6)}

	narrow := lipgloss.Height(string(r.Render(msg, 0)))
	width = 200
	wide := lipgloss.Height(string(r.Render(msg, 0)))
	require.Greater(t, narrow, wide)
	require.Equal(t, 3, wide)
}

func TestRowRendererShowsTimestamp(t *testing.T) {
	r := newRowRenderer(nil, func() int { return 60 })
	sent := time.Date(2024, 3, 1, 9, 30, 0, 0, time.Local)
	frag := render.Strip(string(r.Render(store.Message{Author: "carol", Body: "hi", SentAt: sent}, 0)))
	require.Contains(t, frag, "2024-03-01 09:30")
}

func TestRowRendererUpdateReusesNode(t *testing.T) {
	r := newRowRenderer(nil, func() int { return 40 })
	node := &virtual.Node{Row: 9, Fragment: "old"}
	r.Update(store.Message{Author: "dave", Body: "new body"}, 3, node)
	require.Equal(t, 3, node.Row)
	require.Contains(t, render.Strip(string(node.Fragment)), "new body")
}

func TestRowRendererMarkdown(t *testing.T) {
	r := newRowRenderer(render.NewMarkdown("notty"), func() int { return 60 })
	frag := render.Strip(string(r.Render(store.Message{Author: "erin", Body: "# Title\n\nsome **bold** text"}, 0)))
	require.Contains(t, frag, "Title")
	require.Contains(t, frag, "bold")
}

func TestPlainText(t *testing.T) {
	require.Equal(t, "a: b c", plain(store.Message{Author: "a", Body: "b c"}))
}
