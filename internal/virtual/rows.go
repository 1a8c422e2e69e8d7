package virtual

// counters 记录头部变更，下一次重绘时折算为滚动补偿后清零。
type counters struct {
	prepend int
	shift   int
	pop     int
	// 精确补偿模式下累计的像素增量。
	prependPx int
	shiftPx   int
}

func (c counters) pending() bool {
	return c.prepend > 0 || c.shift > 0 || c.pop > 0
}

// rowStore 持有有序行集合。未 load 时所有变更都是空操作。
type rowStore[R Row] struct {
	rows    []R
	loaded  bool
	visible int
	counts  counters
}

func newRowStore[R Row]() *rowStore[R] {
	return &rowStore[R]{visible: -1}
}

func (s *rowStore[R]) load(rows []R) {
	s.rows = append(make([]R, 0, len(rows)), rows...)
	s.loaded = true
	s.visible = -1
	s.counts = counters{}
}

func (s *rowStore[R]) len() int {
	return len(s.rows)
}

func (s *rowStore[R]) push(rows ...R) bool {
	if !s.loaded {
		return false
	}
	s.rows = append(s.rows, rows...)
	return true
}

func (s *rowStore[R]) pop() (R, bool) {
	var zero R
	if !s.loaded || len(s.rows) == 0 {
		return zero, false
	}
	last := s.rows[len(s.rows)-1]
	s.rows[len(s.rows)-1] = zero
	s.rows = s.rows[:len(s.rows)-1]
	return last, true
}

// clamp 规范化 splice 参数，负索引从尾部计算。
func (s *rowStore[R]) clamp(index, deleteCount int) (int, int) {
	n := len(s.rows)
	if index < 0 {
		index = max(n+index, 0)
	}
	index = min(index, n)
	deleteCount = min(max(deleteCount, 0), n-index)
	return index, deleteCount
}

// splice 在 index 处删除 deleteCount 行并插入 items。
// 当变更位于当前可见行之上且用户已离开顶部时，净增量计入 prepend，
// 净删除计入 shift，并同步移动可见行索引。返回被删除的行以及是否发生了锚定补偿。
func (s *rowStore[R]) splice(index, deleteCount int, items ...R) ([]R, bool) {
	if !s.loaded {
		return nil, false
	}
	index, deleteCount = s.clamp(index, deleteCount)

	removed := append([]R(nil), s.rows[index:index+deleteCount]...)
	tail := append([]R(nil), s.rows[index+deleteCount:]...)
	old := s.rows
	s.rows = append(append(s.rows[:index], items...), tail...)
	if len(s.rows) < len(old) {
		// 净删除时底层数组被复用，清掉尾部残留的引用。
		clear(old[len(s.rows):])
	}

	anchored := false
	if index <= s.visible && s.visible != 0 {
		net := len(items) - deleteCount
		switch {
		case net > 0:
			s.counts.prepend += net
			s.visible += net
			anchored = true
		case net < 0:
			s.counts.shift += -net
			s.visible = max(s.visible+net, 0)
			anchored = true
		}
	}
	return removed, anchored
}

func (s *rowStore[R]) get(i int) (R, bool) {
	var zero R
	if !s.loaded || i < 0 || i >= len(s.rows) {
		return zero, false
	}
	return s.rows[i], true
}

func (s *rowStore[R]) findIndex(pred func(R) bool) int {
	if !s.loaded || pred == nil {
		return -1
	}
	for i, row := range s.rows {
		if pred(row) {
			return i
		}
	}
	return -1
}

// dropHead 删除最早的 n 行。
func (s *rowStore[R]) dropHead(n int) {
	n = min(n, len(s.rows))
	old := s.rows
	s.rows = append(s.rows[:0], s.rows[n:]...)
	clear(old[len(s.rows):])
}

// truncate 将行数截到 n。
func (s *rowStore[R]) truncate(n int) {
	if n >= len(s.rows) {
		return
	}
	var zero R
	for i := n; i < len(s.rows); i++ {
		s.rows[i] = zero
	}
	s.rows = s.rows[:n]
}
