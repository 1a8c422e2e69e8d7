package tui

import (
	"hash/fnv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"

	"chatwin/internal/render"
	"chatwin/internal/store"
	"chatwin/internal/virtual"
)

var (
	timeStyle   = lipgloss.NewStyle().Faint(true)
	bodyPadding = render.TLBR(0, 2, 1, 0)
)

// rowRenderer 把消息渲染成虚拟列表的片段。宽度由宿主视图决定，
// debug 模式下要给页面色条让出一列。
type rowRenderer struct {
	markdown *render.Markdown
	width    func() int
}

func newRowRenderer(md *render.Markdown, width func() int) *rowRenderer {
	return &rowRenderer{markdown: md, width: width}
}

func (r *rowRenderer) lines(msg store.Message) []render.Line {
	width := bodyPadding.Inner(r.width())

	header := render.Line{Spans: []render.Span{
		{Text: msg.Author, Style: authorStyle(msg.Author)},
	}}
	if !msg.SentAt.IsZero() {
		header.Spans = append(header.Spans, render.Span{
			Text:  "  " + msg.SentAt.Local().Format("2006-01-02 15:04"),
			Style: timeStyle,
		})
	}

	var body []render.Line
	if r.markdown != nil {
		for _, l := range r.markdown.Render(msg.Body, width) {
			body = append(body, render.Plain(l))
		}
	} else {
		body = render.HighlightChat(msg.Body, width)
	}
	return render.Stack(0, []render.Line{header}, render.Pad(body, bodyPadding))
}

// Render 实现 Hooks.RenderRow。
func (r *rowRenderer) Render(msg store.Message, _ int) virtual.Fragment {
	return virtual.Fragment(render.Join(r.lines(msg)))
}

// Update 实现 Hooks.UpdateRow：复用节点，只替换内容。
func (r *rowRenderer) Update(msg store.Message, index int, node *virtual.Node) {
	node.Row = index
	node.Fragment = r.Render(msg, index)
}

// plain 返回去掉样式的文本，用于复制到剪贴板。
func plain(msg store.Message) string {
	var b strings.Builder
	b.WriteString(msg.Author)
	b.WriteString(": ")
	b.WriteString(msg.Body)
	return b.String()
}

// authorStyle 按作者名散列出一个固定色相。
func authorStyle(author string) lipgloss.Style {
	h := fnv.New32a()
	_, _ = h.Write([]byte(author))
	c := colorful.Hsl(float64(h.Sum32()%360), 0.6, 0.6)
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c.Hex()))
}
