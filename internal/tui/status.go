package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"chatwin/internal/virtual"
)

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D7A85")).Padding(0, 1)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
)

// Status 是状态栏的数据，写入 state.Store 后经防抖再送回程序。
type Status struct {
	State  virtual.State
	Rows   int
	Row    int
	Pages  []int
	Unread int
	Live   bool
	Notice string
	Err    string
}

func (m *Model) currentStatus() Status {
	snap := m.list.Snapshot()
	s := Status{
		State:  snap.State,
		Rows:   snap.Rows,
		Row:    m.list.RowIndexAt(m.surface.ScrollTop()),
		Unread: m.unread,
		Live:   m.live,
		Notice: m.notice,
	}
	if m.debug {
		s.Pages = snap.MountedPages
	}
	if m.err != nil {
		s.Err = m.err.Error()
	}
	return s
}

// publishStatus 把最新状态写入 store；有订阅者时由其防抖转发。
func (m *Model) publishStatus() {
	s := m.currentStatus()
	if m.status == nil {
		m.statusView = s
		return
	}
	m.status.Set(s)
	if !m.statusSubscribed {
		m.statusView = s
	}
}

func statusLine(s Status, width int) string {
	parts := []string{s.State.String()}
	if s.Rows > 0 {
		parts = append(parts, fmt.Sprintf("%d/%d", s.Row+1, s.Rows))
	}
	if len(s.Pages) > 0 {
		parts = append(parts, fmt.Sprintf("pages %v", s.Pages))
	}
	if s.Live {
		parts = append(parts, "live")
	}
	if s.Unread > 0 {
		parts = append(parts, fmt.Sprintf("%d new below", s.Unread))
	}
	if s.Notice != "" {
		parts = append(parts, s.Notice)
	}
	line := strings.Join(parts, " • ")
	if s.Err != "" {
		line += " • " + errorStyle.Render("Error: "+s.Err)
	}
	return statusStyle.Width(max(width, 20)).MaxHeight(1).Render(line)
}
