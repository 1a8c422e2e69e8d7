package virtual

import (
	"fmt"
	"strings"
)

type testRow struct {
	id    string
	lines int
}

func (r testRow) RowID() string { return r.id }

func makeRows(n int) []testRow {
	return makeRowsFrom(0, n)
}

func makeRowsFrom(start, n int) []testRow {
	rows := make([]testRow, n)
	for i := range rows {
		rows[i] = testRow{id: fmt.Sprintf("r%d", start+i), lines: 1}
	}
	return rows
}

func renderTestRow(r testRow, _ int) Fragment {
	lines := max(r.lines, 1)
	return Fragment(strings.TrimSuffix(strings.Repeat(r.id+"\n", lines), "\n"))
}

// fakeSurface 以行为单位模拟宿主视图，并统计挂载/卸载次数。
type fakeSurface struct {
	scrollTop     int
	viewHeight    int
	contentHeight int
	state         State
	edges         map[Edge]Fragment
	mounted       map[*Page]bool
	mounts        int
	unmounts      int
	measures      int
}

func newFakeSurface(viewHeight int) *fakeSurface {
	return &fakeSurface{
		viewHeight: viewHeight,
		edges:      map[Edge]Fragment{},
		mounted:    map[*Page]bool{},
	}
}

func (s *fakeSurface) ScrollTop() int              { return s.scrollTop }
func (s *fakeSurface) SetScrollTop(offset int)     { s.scrollTop = offset }
func (s *fakeSurface) ViewHeight() int             { return s.viewHeight }
func (s *fakeSurface) SetViewHeight(height int)    { s.viewHeight = height }
func (s *fakeSurface) SetContentHeight(height int) { s.contentHeight = height }
func (s *fakeSurface) SetEdge(e Edge, f Fragment)  { s.edges[e] = f }
func (s *fakeSurface) SetState(st State)           { s.state = st }

func (s *fakeSurface) Measure(f Fragment) int {
	s.measures++
	if f == "" {
		return 0
	}
	return strings.Count(string(f), "\n") + 1
}

func (s *fakeSurface) Mount(p *Page) {
	s.mounts++
	s.mounted[p] = true
}

func (s *fakeSurface) Unmount(p *Page) {
	s.unmounts++
	delete(s.mounted, p)
}

// mountedRange 返回已挂载页面覆盖的行区间 [first, last]，以及是否连续。
func (s *fakeSurface) mountedRange(perPage, rows int) (int, int, bool) {
	first, last := -1, -1
	covered := map[int]bool{}
	for p := range s.mounted {
		for _, n := range p.Nodes() {
			if covered[n.Row] {
				return 0, 0, false
			}
			covered[n.Row] = true
		}
		lo := p.Index * perPage
		hi := min(lo+perPage, rows) - 1
		if first == -1 || lo < first {
			first = lo
		}
		if hi > last {
			last = hi
		}
	}
	for i := first; i <= last; i++ {
		if !covered[i] {
			return first, last, false
		}
	}
	return first, last, true
}
