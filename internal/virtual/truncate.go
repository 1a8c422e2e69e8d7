package virtual

import "fmt"

// enforce 在行数超过 MaxRowsLength 时从增长方向的对侧淘汰旧行，
// 保证正在填充的一侧不会在预取中途被截断。
func (l *List[R]) enforce() error {
	maxRows, perPage := l.opts.MaxRowsLength, l.opts.RowsPerPage
	if maxRows%perPage != 0 {
		return fmt.Errorf("%w (maxRowsLength=%d, rowsPerPage=%d)", ErrInvalidPageRatio, maxRows, perPage)
	}
	n := l.rows.len()
	if !l.rows.loaded || n <= maxRows {
		return nil
	}
	toDelete := n - maxRows

	switch l.prefetchDirection {
	case DirectionBottom:
		l.rows.counts.shiftPx += l.heights.sum(0, toDelete)
		l.rows.dropHead(toDelete)
		l.heights.dropHead(toDelete)
		l.noMoreTopRows = false
		l.rows.counts.shift += toDelete
		l.topIsTruncated = true
		l.bottomIsTruncated = false
		l.markDirty(0)
		log.WithField("type", "truncate").Debugf("evicted %d rows from top", toDelete)
		if l.hooks.OnTopTruncate != nil {
			l.hooks.OnTopTruncate()
		}
	case DirectionTop:
		l.rows.truncate(maxRows)
		l.heights.truncate(maxRows)
		l.noMoreBottomRows = false
		l.rows.counts.pop += toDelete
		l.bottomIsTruncated = true
		l.topIsTruncated = false
		l.markDirty(maxRows)
		log.WithField("type", "truncate").Debugf("evicted %d rows from bottom", toDelete)
		if l.hooks.OnBottomTruncate != nil {
			l.hooks.OnBottomTruncate()
		}
	}
	return nil
}
