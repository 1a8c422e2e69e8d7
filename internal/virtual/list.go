// Package virtual 实现视口窗口化引擎：只把可见区域附近的行渲染进宿主视图，
// 在头尾变更时保持滚动位置稳定，回收页面容器，并驱动双向预取。
package virtual

import (
	"fmt"
	"math"

	"chatwin/internal/logger"
)

var log = logger.Named("virtual")

const noDirty = math.MaxInt

// List 是调度器：load、滚动、显式重绘和各类变更最终都汇入这里，
// 也只有它会改动宿主视图中已挂载的内容。
type List[R Row] struct {
	opts    Options
	hooks   Hooks[R]
	surface Surface

	rows    *rowStore[R]
	heights heightIndex
	pages   *pagePool
	state   State

	noMoreTopRows     bool
	noMoreBottomRows  bool
	topIsTruncated    bool
	bottomIsTruncated bool
	// windowTop 表示 LoadWindow 声明了上方还有数据，未满额时也允许向上预取。
	windowTop         bool
	prefetchDirection Direction
	pendingTop        bool
	pendingBottom     bool

	// dirtyFrom 是自上次重绘以来发生变更的最小行索引。
	dirtyFrom int
}

// New 创建虚拟列表。MaxRowsLength 与 RowsPerPage 的倍数关系在截断时才校验。
func New[R Row](surface Surface, opts Options, hooks Hooks[R]) (*List[R], error) {
	if surface == nil {
		return nil, ErrNoSurface
	}
	if hooks.RenderRow == nil {
		return nil, ErrNoRenderer
	}
	if opts.RowsPerPage <= 0 || opts.MaxRowsLength <= 0 || opts.PrefetchThreshold < 0 || opts.RowPadding < 0 {
		return nil, fmt.Errorf("%w: %+v", ErrInvalidOptions, opts)
	}
	l := &List[R]{
		opts:      opts,
		hooks:     hooks,
		surface:   surface,
		rows:      newRowStore[R](),
		pages:     newPagePool(surface, opts.Debug),
		dirtyFrom: noDirty,
	}
	surface.SetState(StateLoading)
	return l, nil
}

// Load 替换全部行，重置标志与计数器，重新测量行高并重绘。
func (l *List[R]) Load(rows []R) error {
	return l.LoadWindow(rows, Window{})
}

// LoadWindow 与 Load 相同，但声明这些行只是更长集合中的一段，
// 使顶部/底部预取可以越过已加载的范围。
func (l *List[R]) LoadWindow(rows []R, w Window) error {
	l.rows.load(rows)
	l.noMoreTopRows = false
	l.noMoreBottomRows = false
	l.topIsTruncated = w.TopTruncated
	l.bottomIsTruncated = w.BottomTruncated
	l.windowTop = w.TopTruncated
	l.prefetchDirection = DirectionNone
	l.pendingTop = false
	l.pendingBottom = false
	l.surface.SetEdge(EdgeTop, "")
	l.surface.SetEdge(EdgeBottom, "")

	l.pages.releaseAll()
	l.measureAll()
	l.dirtyFrom = noDirty
	log.Debugf("loaded %d rows (window top=%t bottom=%t)", len(rows), w.TopTruncated, w.BottomTruncated)
	return l.RePaint(RePaintOptions{})
}

func (l *List[R]) measureAll() {
	l.heights.rebuild(l.rows.len(), func(i int) int {
		return l.surface.Measure(l.hooks.RenderRow(l.rows.rows[i], i))
	})
}

func (l *List[R]) measure(start int, rows []R) []int {
	out := make([]int, len(rows))
	for k, row := range rows {
		out[k] = max(l.surface.Measure(l.hooks.RenderRow(row, start+k)), 0)
	}
	return out
}

func (l *List[R]) markDirty(i int) {
	l.dirtyFrom = min(l.dirtyFrom, max(i, 0))
}

// Len 返回当前行数。
func (l *List[R]) Len() int {
	return l.rows.len()
}

// State 返回调度器状态。
func (l *List[R]) State() State {
	return l.state
}

// Push 在尾部追加行，不影响滚动补偿计数。
func (l *List[R]) Push(rows ...R) {
	at := l.rows.len()
	if !l.rows.push(rows...) || len(rows) == 0 {
		return
	}
	l.heights.splice(at, 0, l.measure(at, rows))
	l.pendingBottom = false
	l.markDirty(at)
}

// Pop 删除尾部一行。
func (l *List[R]) Pop() (R, bool) {
	row, ok := l.rows.pop()
	if !ok {
		return row, false
	}
	l.heights.truncate(l.rows.len())
	l.markDirty(l.rows.len())
	return row, true
}

// Unshift 在头部插入行。
func (l *List[R]) Unshift(rows ...R) {
	l.Splice(0, 0, rows...)
}

// Shift 删除头部一行。
func (l *List[R]) Shift() (R, bool) {
	removed := l.Splice(0, 1)
	if len(removed) == 0 {
		var zero R
		return zero, false
	}
	return removed[0], true
}

// Splice 在 index 处删除 deleteCount 行并插入 items，返回被删除的行。
// 变更位于当前可见行之上时，下一次重绘会补偿滚动偏移。
func (l *List[R]) Splice(index, deleteCount int, items ...R) []R {
	if !l.rows.loaded {
		return nil
	}
	index, deleteCount = l.rows.clamp(index, deleteCount)
	removedPx := l.heights.sum(index, index+deleteCount)
	inserted := l.measure(index, items)
	insertedPx := 0
	for _, h := range inserted {
		insertedPx += h
	}

	atTail := index == l.rows.len()
	removed, anchored := l.rows.splice(index, deleteCount, items...)
	l.heights.splice(index, deleteCount, inserted)
	if anchored {
		if delta := insertedPx - removedPx; delta > 0 {
			l.rows.counts.prependPx += delta
		} else {
			l.rows.counts.shiftPx += -delta
		}
	}
	if index == 0 && len(items) > 0 {
		l.pendingTop = false
	}
	if atTail && len(items) > 0 {
		l.pendingBottom = false
	}
	l.markDirty(index)
	return removed
}

// GetRow 返回第 i 行。
func (l *List[R]) GetRow(i int) (R, bool) {
	return l.rows.get(i)
}

// Find 返回第一条满足条件的行。
func (l *List[R]) Find(pred func(R) bool) (R, bool) {
	return l.rows.get(l.rows.findIndex(pred))
}

// FindIndex 返回第一条满足条件的行索引，未找到或未加载时返回 -1。
func (l *List[R]) FindIndex(pred func(R) bool) int {
	return l.rows.findIndex(pred)
}

// RowIndexAt 返回覆盖指定偏移的行，空列表返回 -1。
func (l *List[R]) RowIndexAt(offset int) int {
	n := l.rows.len()
	if n == 0 {
		return -1
	}
	return min(l.heights.firstExceeding(offset), n-1)
}

// OffsetOf 返回第 i 行的顶部偏移。
func (l *List[R]) OffsetOf(i int) int {
	return l.heights.offsetOf(i)
}

// ScrollToID 滚动到指定 ID 的行。未找到时不做任何事。
func (l *List[R]) ScrollToID(id string) error {
	if !l.rows.loaded {
		return ErrNotLoaded
	}
	index := l.rows.findIndex(func(r R) bool { return r.RowID() == id })
	if index < 0 {
		return nil
	}
	if l.state != StateReady {
		return ErrNoViewport
	}
	top := l.heights.offsetOf(index)
	l.surface.SetScrollTop(top)
	return l.RePaint(RePaintOptions{ScrollTop: &top})
}

// ScrollToEnd 滚动到最后一行。
func (l *List[R]) ScrollToEnd() error {
	if !l.rows.loaded {
		return ErrNotLoaded
	}
	if l.state != StateReady {
		return nil
	}
	top := max(l.heights.total()-l.surface.ViewHeight(), 0)
	l.surface.SetScrollTop(top)
	return l.RePaint(RePaintOptions{ScrollTop: &top})
}

// SetHeight 修改可见高度，render 为 true 时立即重绘。
func (l *List[R]) SetHeight(height int, render bool) error {
	l.surface.SetViewHeight(height)
	if !render || l.state != StateReady {
		return nil
	}
	return l.RePaint(RePaintOptions{})
}

func (l *List[R]) setState(s State) {
	if l.state == s {
		return
	}
	l.state = s
	l.surface.SetState(s)
}

// RePaint 重新计算可见范围并协调页面：先执行截断，再消费滚动补偿，
// 然后挂载/修补范围内的页面、回收范围外的页面，最后评估预取。
func (l *List[R]) RePaint(opts RePaintOptions) error {
	if !l.rows.loaded {
		return nil
	}
	if opts.Reload {
		l.pages.releaseAll()
		l.measureAll()
		opts.Refresh = true
	}
	if opts.ScrollTop != nil {
		// 显式目标已按当前行计算，之前累积的补偿作废；本次截断产生的补偿照常应用。
		l.rows.counts = counters{}
	}
	if err := l.enforce(); err != nil {
		return err
	}

	n := l.rows.len()
	if n == 0 {
		l.pages.releaseAll()
		l.surface.SetContentHeight(0)
		l.surface.SetScrollTop(0)
		l.rows.counts = counters{}
		l.rows.visible = -1
		l.dirtyFrom = noDirty
		l.setState(StateEmpty)
		return nil
	}
	l.setState(StateReady)
	total := l.heights.total()
	l.surface.SetContentHeight(total)

	viewStart := l.surface.ScrollTop()
	if opts.ScrollTop != nil {
		viewStart = *opts.ScrollTop
	}
	viewStart, shifted, popped := l.compensate(viewStart)
	viewStart = min(viewStart, max(total-l.surface.ViewHeight(), 0))
	viewStart = max(viewStart, 0)
	if viewStart != l.surface.ScrollTop() {
		l.surface.SetScrollTop(viewStart)
	}
	viewEnd := viewStart + l.surface.ViewHeight()

	padding := l.opts.RowPadding * l.heights.height(0)
	start := l.heights.firstExceeding(viewStart - padding)
	end := l.heights.firstExceeding(viewEnd + padding)
	start = min(max(start, 0), n-1)
	end = min(max(end, start), n-1)

	perPage := l.opts.RowsPerPage
	lastPage := (n - 1) / perPage
	startPage := start / perPage
	endPage := min((end+perPage-1)/perPage, lastPage)

	l.reconcile(startPage, endPage, opts.Refresh)

	l.rows.visible = start
	l.dirtyFrom = noDirty

	l.placeholders(viewStart, viewEnd)
	l.prefetch(startPage, endPage, lastPage, shifted, popped)
	return nil
}

// compensate 消费计数器并返回补偿后的滚动偏移。近似模式下以首行高度折算。
func (l *List[R]) compensate(offset int) (int, bool, bool) {
	c := l.rows.counts
	if !c.pending() {
		return offset, false, false
	}
	if l.opts.ExactAnchoring {
		offset += c.prependPx
		offset -= c.shiftPx
	} else {
		unit := l.heights.height(0)
		offset += c.prepend * unit
		offset -= c.shift * unit
	}
	log.WithField("type", "anchor").Debugf("compensated scroll (prepend=%d shift=%d pop=%d)", c.prepend, c.shift, c.pop)
	l.rows.counts = counters{}
	return offset, c.shift > 0, c.pop > 0
}

// reconcile 挂载 [startPage, endPage] 范围内的页面并回收其余页面。
func (l *List[R]) reconcile(startPage, endPage int, refresh bool) {
	n := l.rows.len()
	perPage := l.opts.RowsPerPage
	for i := startPage; i <= endPage; i++ {
		first := i * perPage
		limit := min(first+perPage, n)
		top := l.heights.offsetOf(first)
		page, state := l.pages.get(i, top, l.heights.offsetOf(limit)-top)
		switch {
		case state == pageFresh:
			l.pages.fill(page, first, limit, l.render)
		case state == pageOld || refresh || first+perPage > l.dirtyFrom:
			l.pages.update(page, first, limit, l.patch, l.render)
		}
	}
	for _, i := range l.pages.mounted() {
		if i < startPage || i > endPage {
			l.pages.release(i)
		}
	}
}

func (l *List[R]) render(j int) Fragment {
	return l.hooks.RenderRow(l.rows.rows[j], j)
}

func (l *List[R]) patch(j int, node *Node) {
	node.Row = j
	if l.hooks.UpdateRow != nil {
		l.hooks.UpdateRow(l.rows.rows[j], j, node)
		return
	}
	node.Fragment = l.render(j)
}

// Snapshot 返回当前标志、计数器与页面状态。
func (l *List[R]) Snapshot() Snapshot {
	return Snapshot{
		State:                  l.state,
		Rows:                   l.rows.len(),
		CurrentVisibleRowIndex: l.rows.visible,
		PrependCounter:         l.rows.counts.prepend,
		ShiftCounter:           l.rows.counts.shift,
		PopCounter:             l.rows.counts.pop,
		NoMoreTopRows:          l.noMoreTopRows,
		NoMoreBottomRows:       l.noMoreBottomRows,
		TopIsTruncated:         l.topIsTruncated,
		BottomIsTruncated:      l.bottomIsTruncated,
		PrefetchDirection:      l.prefetchDirection,
		MountedPages:           l.pages.mounted(),
		AvailablePages:         len(l.pages.available),
	}
}
