package virtual

import "sort"

// heightIndex 记录每行的测量高度和累计前缀和，用于偏移与行索引互转。
type heightIndex struct {
	heights    []int
	cumulative []int
}

// rebuild 逐行测量并重建前缀表，只在 load 时整体执行。
func (h *heightIndex) rebuild(n int, measure func(i int) int) {
	h.heights = make([]int, n)
	for i := range n {
		h.heights[i] = max(measure(i), 0)
	}
	h.cumulative = make([]int, n)
	h.accumulate(0)
}

// accumulate 从 from 开始重新计算前缀和。
func (h *heightIndex) accumulate(from int) {
	if len(h.cumulative) != len(h.heights) {
		h.cumulative = append(h.cumulative[:0], make([]int, len(h.heights))...)
		from = 0
	}
	running := h.offsetOf(from)
	for i := from; i < len(h.heights); i++ {
		running += h.heights[i]
		h.cumulative[i] = running
	}
}

func (h *heightIndex) len() int {
	return len(h.heights)
}

// offsetOf 返回第 i 行的顶部偏移。
func (h *heightIndex) offsetOf(i int) int {
	if i <= 0 || len(h.cumulative) == 0 {
		return 0
	}
	if i > len(h.cumulative) {
		i = len(h.cumulative)
	}
	return h.cumulative[i-1]
}

func (h *heightIndex) total() int {
	if len(h.cumulative) == 0 {
		return 0
	}
	return h.cumulative[len(h.cumulative)-1]
}

func (h *heightIndex) height(i int) int {
	if i < 0 || i >= len(h.heights) {
		return 0
	}
	return h.heights[i]
}

// sum 返回 [from, to) 行的总高度。
func (h *heightIndex) sum(from, to int) int {
	return h.offsetOf(to) - h.offsetOf(from)
}

// firstExceeding 返回累计高度大于 offset 的第一行；全部不超过时返回行数。
func (h *heightIndex) firstExceeding(offset int) int {
	return sort.Search(len(h.cumulative), func(i int) bool {
		return h.cumulative[i] > offset
	})
}

// splice 在 at 处替换 deleteCount 个高度为 inserted，并修补前缀表。
func (h *heightIndex) splice(at, deleteCount int, inserted []int) {
	at = min(max(at, 0), len(h.heights))
	deleteCount = min(max(deleteCount, 0), len(h.heights)-at)
	tail := append([]int(nil), h.heights[at+deleteCount:]...)
	h.heights = append(append(h.heights[:at], inserted...), tail...)
	h.cumulative = h.cumulative[:min(at, len(h.cumulative))]
	h.cumulative = append(h.cumulative, make([]int, len(h.heights)-len(h.cumulative))...)
	h.accumulate(at)
}

// truncate 只保留前 n 行。
func (h *heightIndex) truncate(n int) {
	if n >= len(h.heights) {
		return
	}
	n = max(n, 0)
	h.heights = h.heights[:n]
	h.cumulative = h.cumulative[:n]
}

// dropHead 删除前 n 行并整体重算前缀和。
func (h *heightIndex) dropHead(n int) {
	h.splice(0, n, nil)
}
