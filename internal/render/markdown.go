package render

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// Markdown 用 glamour 渲染消息正文。渲染器按宽度缓存，终端宽度变化时才重建。
type Markdown struct {
	style string

	mu       sync.Mutex
	width    int
	renderer *glamour.TermRenderer
}

// NewMarkdown 创建渲染器。style 为空时自动探测终端背景，
// 测试等非终端环境可以传入 "notty"。
func NewMarkdown(style string) *Markdown {
	return &Markdown{style: style}
}

func (m *Markdown) rendererFor(width int) (*glamour.TermRenderer, error) {
	if m.renderer != nil && m.width == width {
		return m.renderer, nil
	}
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if m.style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(m.style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, err
	}
	m.renderer, m.width = r, width
	return r, nil
}

// Render 返回渲染后的行。失败时回退为按宽度换行的纯文本。
func (m *Markdown) Render(md string, width int) []string {
	if strings.TrimSpace(md) == "" {
		return []string{md}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	r, err := m.rendererFor(max(width, 1))
	if err != nil {
		return wrapText(md, width)
	}
	out, err := r.Render(md)
	if err != nil {
		return wrapText(md, width)
	}
	lines := strings.Split(strings.Trim(out, "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return lines
}
