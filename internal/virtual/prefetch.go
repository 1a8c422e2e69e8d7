package virtual

// atBudget 判断是否已达到常驻行数上限。
func (l *List[R]) atBudget() bool {
	return l.rows.len() >= l.opts.MaxRowsLength
}

// topReachable 顶部只有在行数已满（新行会挤掉底部）或载入的是窗口片段时才预取。
// 淘汰产生的 topIsTruncated 不算，否则淘汰后再 Shift/Pop 会在未满额时触发。
func (l *List[R]) topReachable() bool {
	return l.atBudget() || l.windowTop
}

// bottomReachable 底部在未满或底部曾被截断时可以继续预取。
func (l *List[R]) bottomReachable() bool {
	return !l.atBudget() || l.bottomIsTruncated
}

// prefetch 根据可见页范围决定是否触发预取。每个方向在得到满足前只触发一次。
func (l *List[R]) prefetch(startPage, endPage, lastPage int, shifted, popped bool) {
	threshold := l.opts.PrefetchThreshold

	if !popped &&
		startPage <= threshold &&
		l.topReachable() &&
		!l.noMoreTopRows &&
		l.hooks.PrefetchTop != nil &&
		!l.pendingTop {
		l.prefetchDirection = DirectionTop
		l.pendingTop = true
		log.WithField("type", "prefetch").Debugf("prefetch top at page %d", startPage)
		l.hooks.PrefetchTop()
	}

	if !shifted &&
		lastPage-endPage <= threshold &&
		l.bottomReachable() &&
		!l.noMoreBottomRows &&
		l.hooks.PrefetchBottom != nil &&
		!l.pendingBottom {
		l.prefetchDirection = DirectionBottom
		l.pendingBottom = true
		log.WithField("type", "prefetch").Debugf("prefetch bottom at page %d/%d", endPage, lastPage)
		l.hooks.PrefetchBottom()
	}
}

// placeholders 在视图贴近可预取的边缘时显示加载占位。
func (l *List[R]) placeholders(viewStart, viewEnd int) {
	if l.hooks.RenderLoadingTop != nil {
		var f Fragment
		if viewStart == 0 && l.hooks.PrefetchTop != nil && l.topReachable() && !l.noMoreTopRows {
			f = l.hooks.RenderLoadingTop()
		}
		l.surface.SetEdge(EdgeTop, f)
	}
	if l.hooks.RenderLoadingBottom != nil {
		var f Fragment
		if viewEnd >= l.heights.total() && l.hooks.PrefetchBottom != nil && l.bottomReachable() && !l.noMoreBottomRows {
			f = l.hooks.RenderLoadingBottom()
		}
		l.surface.SetEdge(EdgeBottom, f)
	}
}

// MarkTopExhausted 表示数据源顶部已无更多数据。
func (l *List[R]) MarkTopExhausted() {
	l.noMoreTopRows = true
	l.pendingTop = false
	l.surface.SetEdge(EdgeTop, "")
}

// MarkBottomExhausted 表示数据源底部已无更多数据。
func (l *List[R]) MarkBottomExhausted() {
	l.noMoreBottomRows = true
	l.pendingBottom = false
	l.surface.SetEdge(EdgeBottom, "")
}

// ResetPrefetch 清除指定方向的待完成标记，例如数据源请求失败后允许重试。
func (l *List[R]) ResetPrefetch(d Direction) {
	switch d {
	case DirectionTop:
		l.pendingTop = false
	case DirectionBottom:
		l.pendingBottom = false
	default:
		l.pendingTop = false
		l.pendingBottom = false
	}
}
