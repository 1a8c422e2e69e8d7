package virtual

// Row 是虚拟列表中的一条记录，ID 用于 ScrollToID 等查找。
type Row interface {
	RowID() string
}

// Fragment 是单行记录渲染后的标记片段。
type Fragment string

// Node 是页面中已挂载的一个片段，复用时只替换内容。
type Node struct {
	Row      int
	Fragment Fragment
}

// Direction 表示预取/增长方向。
type Direction int

const (
	DirectionNone Direction = iota
	DirectionTop
	DirectionBottom
)

func (d Direction) String() string {
	switch d {
	case DirectionTop:
		return "top"
	case DirectionBottom:
		return "bottom"
	default:
		return "none"
	}
}

// State 是调度器的生命周期状态。
type State int

const (
	StateLoading State = iota
	StateEmpty
	StateReady
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateReady:
		return "ready"
	default:
		return "loading"
	}
}

// Edge 标识列表顶部或底部的占位区域。
type Edge int

const (
	EdgeTop Edge = iota
	EdgeBottom
)

// Surface 是宿主提供的可滚动视图。引擎只依赖挂载、卸载与测量三个原语，
// 以及滚动偏移和可见高度的读写。
type Surface interface {
	ScrollTop() int
	SetScrollTop(offset int)
	ViewHeight() int
	SetViewHeight(height int)
	SetContentHeight(height int)
	// Measure 离屏渲染片段并返回其高度。
	Measure(f Fragment) int
	Mount(p *Page)
	Unmount(p *Page)
	// SetEdge 设置顶部/底部占位内容，空片段表示清除。
	SetEdge(e Edge, f Fragment)
	SetState(s State)
}

// Hooks 汇总调用方提供的回调。除 RenderRow 外均可为空。
type Hooks[R Row] struct {
	RenderRow           func(row R, index int) Fragment
	UpdateRow           func(row R, index int, node *Node)
	RenderLoadingTop    func() Fragment
	RenderLoadingBottom func() Fragment
	OnTopTruncate       func()
	OnBottomTruncate    func()
	PrefetchTop         func()
	PrefetchBottom      func()
}

// Options 控制分页、预取与截断。
type Options struct {
	// PrefetchThreshold 距离边缘多少页时触发预取。
	PrefetchThreshold int
	// MaxRowsLength 常驻行数上限，必须是 RowsPerPage 的整数倍。
	MaxRowsLength int
	RowsPerPage   int
	// RowPadding 可见区域之外额外渲染的行数（按首行高度折算）。
	RowPadding int
	Debug      bool
	// ExactAnchoring 使用精确的行高增量补偿滚动，而不是首行高度近似。
	ExactAnchoring bool
}

// DefaultOptions 返回默认配置。
func DefaultOptions() Options {
	return Options{
		PrefetchThreshold: 2,
		MaxRowsLength:     10000,
		RowsPerPage:       100,
		RowPadding:        50,
	}
}

// Window 描述已加载的行是否只是更长集合中的一段。
type Window struct {
	TopTruncated    bool
	BottomTruncated bool
}

// RePaintOptions 控制单次重绘。
type RePaintOptions struct {
	// Refresh 强制修补所有在范围内的页面。
	Refresh bool
	// Reload 在重绘前重新测量全部行高。
	Reload bool
	// ScrollTop 覆盖宿主的滚动偏移，例如程序化跳转。
	ScrollTop *int
}

// Snapshot 是调度器标志与计数器的只读副本。
type Snapshot struct {
	State                  State
	Rows                   int
	CurrentVisibleRowIndex int
	PrependCounter         int
	ShiftCounter           int
	PopCounter             int
	NoMoreTopRows          bool
	NoMoreBottomRows       bool
	TopIsTruncated         bool
	BottomIsTruncated      bool
	PrefetchDirection      Direction
	MountedPages           []int
	AvailablePages         int
}
