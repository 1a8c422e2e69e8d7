package virtual

import "slices"

// pageState 描述 getPage 返回页面的来源。
type pageState int

const (
	pageOK    pageState = iota // 已挂载且内容正确
	pageOld                    // 从空闲列表回收，内容需要修补
	pageFresh                  // 新建，内容为空
)

// nodePool 是单个页面的备用节点池，保存被裁掉的子节点供下次修补复用。
type nodePool struct {
	nodes []*Node
}

func (p *nodePool) get() (*Node, bool) {
	if len(p.nodes) == 0 {
		return nil, false
	}
	n := p.nodes[0]
	p.nodes[0] = nil
	p.nodes = p.nodes[1:]
	return n, true
}

func (p *nodePool) put(n *Node) {
	if n == nil {
		return
	}
	p.nodes = append(p.nodes, n)
}

func (p *nodePool) len() int {
	return len(p.nodes)
}

// Page 是一组连续行对应的容器，也是挂载/卸载的最小单位。
type Page struct {
	Index  int
	Top    int
	Height int
	// Hue 仅在 debug 模式下有效，用于区分页面；否则为 -1。
	Hue int

	nodes []*Node
	spare nodePool
}

// Nodes 返回页面当前的子节点，按行顺序排列。
func (p *Page) Nodes() []*Node {
	return p.nodes
}

// Spare 返回备用池中的节点数量。
func (p *Page) Spare() int {
	return p.spare.len()
}

// pagePool 管理已挂载页面与空闲容器。容器一旦创建就只会被回收，不会销毁。
type pagePool struct {
	surface   Surface
	debug     bool
	pages     map[int]*Page
	available []*Page
	created   int
}

func newPagePool(surface Surface, debug bool) *pagePool {
	return &pagePool{
		surface: surface,
		debug:   debug,
		pages:   make(map[int]*Page),
	}
}

// get 返回第 i 页：已挂载的直接返回，其次复用空闲容器，最后新建。
func (p *pagePool) get(i, top, height int) (*Page, pageState) {
	page, ok := p.pages[i]
	state := pageOK
	switch {
	case ok:
	case len(p.available) > 0:
		page = p.available[len(p.available)-1]
		p.available[len(p.available)-1] = nil
		p.available = p.available[:len(p.available)-1]
		state = pageOld
	default:
		page = p.newPage()
		state = pageFresh
	}
	page.Index = i
	page.Top = top
	page.Height = height
	if state != pageOK {
		p.pages[i] = page
		p.surface.Mount(page)
	}
	return page, state
}

func (p *pagePool) newPage() *Page {
	page := &Page{Hue: -1}
	if p.debug {
		page.Hue = (p.created * 47) % 360
	}
	p.created++
	return page
}

// fill 为新页面按行创建节点。
func (p *pagePool) fill(page *Page, start, limit int, render func(j int) Fragment) {
	for j := start; j < limit; j++ {
		node, ok := page.spare.get()
		if !ok {
			node = &Node{}
		}
		node.Row = j
		node.Fragment = render(j)
		page.nodes = append(page.nodes, node)
	}
}

// update 原地修补页面内容。超出现有子节点数的行优先取自备用池，
// 多余的子节点放回备用池。起点越界的页面直接回收。
func (p *pagePool) update(page *Page, start, limit int, patch func(j int, node *Node), render func(j int) Fragment) {
	if start >= limit {
		p.release(page.Index)
		return
	}
	count := limit - start
	for rowIdx, j := 0, start; j < limit; rowIdx, j = rowIdx+1, j+1 {
		if rowIdx < len(page.nodes) {
			patch(j, page.nodes[rowIdx])
			continue
		}
		if node, ok := page.spare.get(); ok {
			patch(j, node)
			page.nodes = append(page.nodes, node)
			continue
		}
		page.nodes = append(page.nodes, &Node{Row: j, Fragment: render(j)})
	}
	for len(page.nodes) > count {
		last := page.nodes[len(page.nodes)-1]
		page.nodes[len(page.nodes)-1] = nil
		page.nodes = page.nodes[:len(page.nodes)-1]
		page.spare.put(last)
	}
}

// release 卸载第 i 页并放入空闲列表。
func (p *pagePool) release(i int) {
	page, ok := p.pages[i]
	if !ok {
		return
	}
	delete(p.pages, i)
	p.surface.Unmount(page)
	p.available = append(p.available, page)
}

func (p *pagePool) releaseAll() {
	for i := range p.pages {
		p.release(i)
	}
}

func (p *pagePool) mounted() []int {
	out := make([]int, 0, len(p.pages))
	for i := range p.pages {
		out = append(out, i)
	}
	slices.Sort(out)
	return out
}
