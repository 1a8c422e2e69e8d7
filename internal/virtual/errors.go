package virtual

import "errors"

var (
	// ErrInvalidPageRatio 表示 MaxRowsLength 不是 RowsPerPage 的整数倍。
	ErrInvalidPageRatio = errors.New("invalid maxRowsLength: must be a multiple of rowsPerPage")
	// ErrInvalidOptions 表示分页参数无法使用。
	ErrInvalidOptions = errors.New("invalid virtual list options")
	ErrNoSurface      = errors.New("virtual list requires a surface")
	ErrNoRenderer     = errors.New("virtual list requires a row renderer")
	// ErrNotLoaded 表示在 Load 之前调用了需要数据的操作。
	ErrNotLoaded = errors.New("cannot scroll before load")
	// ErrNoViewport 表示列表处于空状态或加载状态，没有可滚动区域。
	ErrNoViewport = errors.New("cannot scroll in empty or loading state")
)
