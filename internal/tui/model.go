// Package tui 是聊天记录查看器：用虚拟列表只渲染可见窗口附近的消息，
// 向上/向下滚动时按需从消息库分页加载，并跟随实时消息流。
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
	"golang.org/x/time/rate"

	"chatwin/internal/i18n"
	"chatwin/internal/logger"
	"chatwin/internal/render"
	"chatwin/internal/state"
	"chatwin/internal/store"
	"chatwin/internal/term"
	"chatwin/internal/virtual"
)

var log = logger.Named("tui")

// chromeHeight 是列表之外固定占用的行数：顶部占位、底部占位和状态栏。
const chromeHeight = 3

const wheelStep = 3

type Options struct {
	Source Source
	// Feed 是实时消息的订阅，调用方在开始发布前订阅。
	Feed <-chan store.Message
	List virtual.Options
	// PageSize 每次分页读取的消息数，默认等于 RowsPerPage。
	PageSize  int
	Markdown  *render.Markdown
	ScrollFPS int
	Status    *state.Store[Status]
	Language  i18n.Language
	Width     int
	Height    int
}

type Model struct {
	src     Source
	feedSub <-chan store.Message
	list    *virtual.List[store.Message]
	surface *term.Surface
	keys    keyMap
	spin    spinner.Model
	search  textinput.Model
	limiter *rate.Limiter
	lang    i18n.Language

	status           *state.Store[Status]
	statusView       Status
	statusSubscribed bool

	// queued 是预取回调登记的请求，finish 时统一转成命令。
	queued  []fetchRequest
	backlog []store.Message

	pageSize         int
	searching        bool
	repaintScheduled bool
	live             bool
	debug            bool
	unread           int
	notice           string
	err              error
	width            int
	height           int
}

func New(opts Options) (*Model, error) {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = opts.Language.T(i18n.SearchPlaceholder)
	search.CharLimit = 256

	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = 90
	}
	if height <= 0 {
		height = 24
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = opts.List.RowsPerPage
	}
	limit := rate.Inf
	if opts.ScrollFPS > 0 {
		limit = rate.Limit(opts.ScrollFPS)
	}

	m := &Model{
		src:      opts.Source,
		surface:  term.New(width, max(height-chromeHeight, 1)),
		keys:     defaultKeyMap(opts.Language),
		lang:     opts.Language,
		spin:     spin,
		search:   search,
		limiter:  rate.NewLimiter(limit, 1),
		status:   opts.Status,
		pageSize: max(pageSize, 1),
		live:     opts.Feed != nil,
		feedSub:  opts.Feed,
		debug:    opts.List.Debug,
		width:    width,
		height:   height,
	}
	m.surface.SetEmptyText(m.lang.T(i18n.EmptyList) + "\n" + m.helpText())

	rows := newRowRenderer(opts.Markdown, m.rowWidth)
	hooks := virtual.Hooks[store.Message]{
		RenderRow: rows.Render,
		UpdateRow: rows.Update,
		RenderLoadingTop: func() virtual.Fragment {
			return virtual.Fragment(m.lang.T(i18n.LoadingOlder))
		},
		RenderLoadingBottom: func() virtual.Fragment {
			return virtual.Fragment(m.lang.T(i18n.LoadingNewer))
		},
		OnTopTruncate: func() {
			log.WithField("type", "truncate").Debugf("older messages evicted")
		},
		OnBottomTruncate: func() {
			log.WithField("type", "truncate").Debugf("newer messages evicted")
		},
	}
	if m.src != nil {
		hooks.PrefetchTop = func() { m.enqueue(virtual.DirectionTop) }
		hooks.PrefetchBottom = func() { m.enqueue(virtual.DirectionBottom) }
	}
	list, err := virtual.New(m.surface, opts.List, hooks)
	if err != nil {
		return nil, err
	}
	m.list = list

	if m.src == nil {
		if err := m.list.Load(nil); err != nil {
			return nil, err
		}
	}
	m.surface.SetLoadingText(m.spin.View() + " " + m.lang.T(i18n.Loading))
	m.statusView = m.currentStatus()
	return m, nil
}

// rowWidth 是消息正文可用的宽度，debug 模式下扣掉页面色条。
func (m *Model) rowWidth() int {
	w := m.surface.Width()
	if m.debug {
		w--
	}
	return max(w, 1)
}

func (m *Model) helpText() string {
	parts := []string{}
	for _, b := range m.keys.shortHelp() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick}
	if m.src != nil {
		cmds = append(cmds, loadLatestCmd(m.src, m.pageSize))
	}
	if cmd := listenFeed(m.feedSub); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case spinner.TickMsg:
		if m.list.State() != virtual.StateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		m.surface.SetLoadingText(m.spin.View() + " " + m.lang.T(i18n.Loading))
		return m, cmd
	case statusMsg:
		m.statusView = Status(msg)
		return m, nil
	case loadedMsg:
		m.handleLoaded(msg)
	case fetchedMsg:
		m.handleFetched(msg)
	case feedMsg:
		if m.src == nil {
			m.pushLive([]store.Message{msg.msg})
			return m.finish(listenFeed(m.feedSub))
		}
		return m.finish(appendCmd(m.src, msg.msg), listenFeed(m.feedSub))
	case appendedMsg:
		m.handleAppended(msg)
	case noticeMsg:
		m.notice = msg.text
		if msg.err != nil {
			m.err = msg.err
		}
	case repaintMsg:
		m.repaintScheduled = false
		m.repaint(virtual.RePaintOptions{})
	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			return m.finish(m.scroll(-wheelStep))
		case tea.MouseButtonWheelDown:
			return m.finish(m.scroll(wheelStep))
		}
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m.finish()
}

// finish 把本轮排队的预取请求转成命令并刷新状态栏。
func (m *Model) finish(cmds ...tea.Cmd) (tea.Model, tea.Cmd) {
	for _, req := range m.queued {
		cmds = append(cmds, fetchCmd(m.src, req, m.pageSize))
	}
	m.queued = m.queued[:0]
	m.publishStatus()
	return m, tea.Batch(cmds...)
}

func (m *Model) View() string {
	footer := statusLine(m.statusView, m.width)
	if m.searching {
		footer = m.search.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.surface.Edge(virtual.EdgeTop),
		m.surface.View(),
		m.surface.Edge(virtual.EdgeBottom),
		footer,
	)
}

func (m *Model) enqueue(dir virtual.Direction) {
	cursor, ok := m.edgeSeq(dir)
	if !ok {
		return
	}
	m.queued = append(m.queued, fetchRequest{dir: dir, cursor: cursor})
}

// edgeSeq 返回指定方向最外侧已加载消息的 Seq。
func (m *Model) edgeSeq(dir virtual.Direction) (int64, bool) {
	i := 0
	if dir == virtual.DirectionBottom {
		i = m.list.Len() - 1
	}
	row, ok := m.list.GetRow(i)
	if !ok {
		return 0, false
	}
	return row.Seq, true
}

func (m *Model) repaint(opts virtual.RePaintOptions) {
	if err := m.list.RePaint(opts); err != nil {
		m.err = err
		log.Warnf("repaint: %v", err)
	}
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.search.Width = max(width-4, 1)
	follow := m.surface.AtBottom()
	widthChanged := m.surface.Resize(width, max(height-chromeHeight, 1))
	if m.list.State() == virtual.StateLoading {
		return
	}
	m.repaint(virtual.RePaintOptions{Reload: widthChanged})
	if follow {
		m.scrollToEnd()
	}
}

func (m *Model) scrollToEnd() {
	if err := m.list.ScrollToEnd(); err != nil {
		m.err = err
	}
}

// scroll 移动滚动偏移；重绘受帧率限制，超出的部分合并到下一帧。
func (m *Model) scroll(delta int) tea.Cmd {
	if !m.surface.ScrollBy(delta) {
		return nil
	}
	if m.limiter.Allow() {
		m.repaint(virtual.RePaintOptions{})
		return nil
	}
	if m.repaintScheduled {
		return nil
	}
	m.repaintScheduled = true
	delay := m.limiter.Reserve().Delay()
	return tea.Tick(delay, func(time.Time) tea.Msg { return repaintMsg{} })
}

func (m *Model) handleLoaded(msg loadedMsg) {
	if msg.err != nil {
		m.err = msg.err
		log.Warnf("load messages: %v", msg.err)
		if m.list.State() == virtual.StateLoading {
			_ = m.list.Load(nil)
			m.flushBacklog()
		}
		return
	}
	m.err = nil
	m.unread = 0
	if err := m.list.LoadWindow(msg.rows, msg.window); err != nil {
		m.err = err
		return
	}
	if msg.target != "" {
		if err := m.list.ScrollToID(msg.target); err != nil {
			m.err = err
		}
		return
	}
	m.scrollToEnd()
	m.flushBacklog()
}

// flushBacklog 推送首次加载完成前到达的实时消息。
func (m *Model) flushBacklog() {
	if len(m.backlog) == 0 {
		return
	}
	backlog := m.backlog
	m.backlog = nil
	m.pushLive(backlog)
}

func (m *Model) handleFetched(msg fetchedMsg) {
	if msg.err != nil {
		m.err = msg.err
		m.list.ResetPrefetch(msg.dir)
		return
	}
	// 请求发出后窗口已变（重新加载或淘汰），按当前边缘重新评估。
	if cursor, ok := m.edgeSeq(msg.dir); !ok || cursor != msg.cursor {
		m.list.ResetPrefetch(msg.dir)
		m.repaint(virtual.RePaintOptions{})
		return
	}

	short := len(msg.rows) < m.pageSize
	switch msg.dir {
	case virtual.DirectionTop:
		if len(msg.rows) == 0 {
			m.list.MarkTopExhausted()
			return
		}
		m.list.Unshift(msg.rows...)
		if short {
			m.list.MarkTopExhausted()
		}
	case virtual.DirectionBottom:
		if len(msg.rows) == 0 {
			m.list.MarkBottomExhausted()
			return
		}
		m.list.Push(msg.rows...)
		if short {
			m.list.MarkBottomExhausted()
		}
	}
	m.repaint(virtual.RePaintOptions{})
}

func (m *Model) handleAppended(msg appendedMsg) {
	if msg.err != nil {
		m.err = msg.err
		return
	}
	if m.list.State() == virtual.StateLoading {
		m.backlog = append(m.backlog, msg.rows...)
		return
	}
	m.pushLive(msg.rows)
}

// pushLive 追加实时消息。底部被截断时新消息与已加载窗口不连续，只计数。
func (m *Model) pushLive(rows []store.Message) {
	snap := m.list.Snapshot()
	if snap.BottomIsTruncated && !snap.NoMoreBottomRows {
		m.unread += len(rows)
		return
	}
	var last int64
	if row, ok := m.list.GetRow(m.list.Len() - 1); ok {
		last = row.Seq
	}
	fresh := make([]store.Message, 0, len(rows))
	for _, r := range rows {
		if r.Seq != 0 && r.Seq <= last {
			continue
		}
		fresh = append(fresh, r)
	}
	if len(fresh) == 0 {
		return
	}
	follow := m.surface.AtBottom()
	m.list.Push(fresh...)
	if follow {
		m.scrollToEnd()
		return
	}
	m.repaint(virtual.RePaintOptions{})
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKey(msg)
	}
	page := max(m.surface.ViewHeight()-1, 1)
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		return m.finish(m.scroll(-1))
	case key.Matches(msg, m.keys.Down):
		return m.finish(m.scroll(1))
	case key.Matches(msg, m.keys.PageUp):
		return m.finish(m.scroll(-page))
	case key.Matches(msg, m.keys.PageDown):
		return m.finish(m.scroll(page))
	case key.Matches(msg, m.keys.Home):
		top := 0
		m.repaint(virtual.RePaintOptions{ScrollTop: &top})
	case key.Matches(msg, m.keys.End):
		snap := m.list.Snapshot()
		if snap.BottomIsTruncated && !snap.NoMoreBottomRows && m.src != nil {
			m.unread = 0
			return m.finish(loadLatestCmd(m.src, m.pageSize))
		}
		m.scrollToEnd()
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.SetValue("")
		return m.finish(m.search.Focus())
	case key.Matches(msg, m.keys.Copy):
		return m.finish(m.copyCurrent())
	case key.Matches(msg, m.keys.Refresh):
		m.notice = ""
		m.repaint(virtual.RePaintOptions{Refresh: true})
	}
	return m.finish()
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.searching = false
		m.search.Blur()
		return m.finish()
	case key.Matches(msg, m.keys.Confirm):
		query := strings.TrimSpace(m.search.Value())
		m.searching = false
		m.search.Blur()
		if query == "" {
			return m.finish()
		}
		return m.finish(m.find(query))
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m.finish(cmd)
}

// rowSource 让 fuzzy 直接在已加载的消息上匹配。
type rowSource struct {
	list *virtual.List[store.Message]
}

func (s rowSource) String(i int) string {
	row, _ := s.list.GetRow(i)
	return row.Author + " " + row.Body
}

func (s rowSource) Len() int { return s.list.Len() }

// find 先在已加载的行中模糊匹配，找不到再去消息库里搜索并加载命中位置附近的窗口。
func (m *Model) find(query string) tea.Cmd {
	matches := fuzzy.FindFrom(query, rowSource{list: m.list})
	if len(matches) > 0 {
		row, _ := m.list.GetRow(matches[0].Index)
		if err := m.list.ScrollToID(row.ID); err != nil {
			m.err = err
		}
		m.notice = fmt.Sprintf("%d matches", len(matches))
		return nil
	}
	if m.src == nil {
		m.notice = m.lang.T(i18n.NoMatch) + " " + query
		return nil
	}
	return loadAroundCmd(m.src, query, max(m.pageSize/2, 1), m.lang.T(i18n.NoMatch))
}

var writeClipboard = clipboard.WriteAll

func (m *Model) copyCurrent() tea.Cmd {
	row, ok := m.list.GetRow(m.list.RowIndexAt(m.surface.ScrollTop()))
	if !ok {
		return nil
	}
	text := plain(row)
	return func() tea.Msg {
		if err := writeClipboard(text); err != nil {
			return noticeMsg{err: err}
		}
		return noticeMsg{text: "copied message from " + row.Author}
	}
}
