// Package term 在终端中实现虚拟列表的宿主视图：记录滚动偏移和已挂载的页面，
// 每帧只把落在可见窗口内的行拼接出来。
package term

import (
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"

	"chatwin/internal/logger"
	"chatwin/internal/virtual"
)

var log = logger.Named("term")

var (
	placeholderStyle = lipgloss.NewStyle().Faint(true)
	edgeStyle        = lipgloss.NewStyle().Faint(true).Italic(true)
)

// Surface 实现 virtual.Surface。所有方法都在 Bubble Tea 的 Update 循环中调用，无需加锁。
type Surface struct {
	width         int
	viewHeight    int
	scrollTop     int
	contentHeight int
	state         virtual.State

	pages map[*virtual.Page]struct{}
	edges [2]virtual.Fragment

	loadingText string
	emptyText   string
}

func New(width, height int) *Surface {
	return &Surface{
		width:       max(width, 1),
		viewHeight:  max(height, 0),
		pages:       map[*virtual.Page]struct{}{},
		loadingText: "loading…",
		emptyText:   "no messages yet",
	}
}

func (s *Surface) ScrollTop() int { return s.scrollTop }

func (s *Surface) SetScrollTop(offset int) {
	s.scrollTop = max(offset, 0)
}

func (s *Surface) ViewHeight() int { return s.viewHeight }

func (s *Surface) SetViewHeight(height int) {
	s.viewHeight = max(height, 0)
}

func (s *Surface) ContentHeight() int { return s.contentHeight }

func (s *Surface) SetContentHeight(height int) {
	s.contentHeight = max(height, 0)
}

// Measure 返回片段占用的终端行数。
func (s *Surface) Measure(f virtual.Fragment) int {
	if f == "" {
		return 0
	}
	return lipgloss.Height(string(f))
}

func (s *Surface) Mount(p *virtual.Page) {
	s.pages[p] = struct{}{}
}

func (s *Surface) Unmount(p *virtual.Page) {
	delete(s.pages, p)
}

// SetEdge 设置顶部/底部占位。
func (s *Surface) SetEdge(e virtual.Edge, f virtual.Fragment) {
	if int(e) < len(s.edges) {
		s.edges[e] = f
	}
}

// Edge 返回当前的占位片段，供外层布局渲染在列表上下方。
func (s *Surface) Edge(e virtual.Edge) string {
	if int(e) >= len(s.edges) || s.edges[e] == "" {
		return ""
	}
	return edgeStyle.Render(string(s.edges[e]))
}

func (s *Surface) SetState(st virtual.State) {
	if s.state != st {
		log.WithField("type", "state").Debugf("%s -> %s", s.state, st)
	}
	s.state = st
}

func (s *Surface) State() virtual.State { return s.state }

// SetLoadingText 设置 loading 状态的占位文字，例如带动画的 spinner。
func (s *Surface) SetLoadingText(text string) {
	s.loadingText = text
}

func (s *Surface) SetEmptyText(text string) {
	s.emptyText = text
}

func (s *Surface) Width() int { return s.width }

// Resize 更新宽高，返回宽度是否变化（宽度变化意味着需要重新测量行高）。
func (s *Surface) Resize(width, height int) bool {
	width = max(width, 1)
	changed := width != s.width
	s.width = width
	s.SetViewHeight(height)
	return changed
}

func (s *Surface) maxScroll() int {
	return max(s.contentHeight-s.viewHeight, 0)
}

// ScrollBy 按行滚动并夹在合法范围内，返回偏移是否变化。
func (s *Surface) ScrollBy(delta int) bool {
	next := min(max(s.scrollTop+delta, 0), s.maxScroll())
	if next == s.scrollTop {
		return false
	}
	s.scrollTop = next
	return true
}

// AtBottom 报告视图是否停在内容底部。
func (s *Surface) AtBottom() bool {
	return s.scrollTop >= s.maxScroll()
}

// AtTop 报告视图是否停在内容顶部。
func (s *Surface) AtTop() bool {
	return s.scrollTop <= 0
}

// MountedPages 返回按 Index 排序的已挂载页面。
func (s *Surface) MountedPages() []*virtual.Page {
	out := make([]*virtual.Page, 0, len(s.pages))
	for p := range s.pages {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b *virtual.Page) int { return a.Index - b.Index })
	return out
}

// View 渲染可见窗口，输出恰好 viewHeight 行。
func (s *Surface) View() string {
	if s.viewHeight == 0 {
		return ""
	}
	switch s.state {
	case virtual.StateLoading:
		return s.placeholder(s.loadingText)
	case virtual.StateEmpty:
		return s.placeholder(s.emptyText)
	}

	lines := make([]string, s.viewHeight)
	top, bottom := s.scrollTop, s.scrollTop+s.viewHeight
	for _, p := range s.MountedPages() {
		if p.Top+p.Height <= top || p.Top >= bottom {
			continue
		}
		gutter := s.gutter(p)
		y := p.Top
		for _, node := range p.Nodes() {
			if y >= bottom {
				break
			}
			if node.Fragment == "" {
				continue
			}
			for _, line := range strings.Split(string(node.Fragment), "\n") {
				if y >= top && y < bottom {
					lines[y-top] = gutter + line
				}
				y++
			}
		}
	}
	return strings.Join(lines, "\n")
}

func (s *Surface) placeholder(text string) string {
	return lipgloss.Place(s.width, s.viewHeight, lipgloss.Center, lipgloss.Center, placeholderStyle.Render(text))
}

// gutter 在 debug 模式下为每页画一条不同色相的竖线。
func (s *Surface) gutter(p *virtual.Page) string {
	if p.Hue < 0 {
		return ""
	}
	c := colorful.Hsl(float64(p.Hue), 0.7, 0.5)
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render("▌")
}
