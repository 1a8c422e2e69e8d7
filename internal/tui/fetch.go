package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"chatwin/internal/logger"
	"chatwin/internal/store"
	"chatwin/internal/virtual"
)

const fetchTimeout = 5 * time.Second

// Source 是消息的分页数据源，*store.Store 实现了它。
type Source interface {
	Latest(ctx context.Context, n int) ([]store.Message, error)
	Before(ctx context.Context, seq int64, n int) ([]store.Message, error)
	After(ctx context.Context, seq int64, n int) ([]store.Message, error)
	Around(ctx context.Context, seq int64, before, after int) ([]store.Message, error)
	Search(ctx context.Context, query string, limit int) ([]store.Message, error)
	Append(ctx context.Context, msgs ...store.Message) ([]store.Message, error)
	Count(ctx context.Context) (int, error)
}

// fetchRequest 由预取回调排队，在 Update 结束时转成命令，
// 避免在重绘过程中再次进入列表。
type fetchRequest struct {
	dir    virtual.Direction
	cursor int64
}

type loadedMsg struct {
	rows   []store.Message
	window virtual.Window
	target string
	err    error
}

type fetchedMsg struct {
	fetchRequest
	rows []store.Message
	err  error
}

type feedMsg struct {
	msg store.Message
}

type appendedMsg struct {
	rows []store.Message
	err  error
}

type noticeMsg struct {
	text string
	err  error
}

type repaintMsg struct{}

type statusMsg Status

func loadLatestCmd(src Source, limit int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		rows, err := src.Latest(ctx, limit)
		if err != nil {
			return loadedMsg{err: err}
		}
		total, err := src.Count(ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{rows: rows, window: virtual.Window{TopTruncated: total > len(rows)}}
	}
}

// loadAroundCmd 在数据库中搜索 query，并加载命中消息前后各 half 行。
func loadAroundCmd(src Source, query string, half int, noMatch string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		hits, err := src.Search(ctx, query, 1)
		if err != nil {
			return loadedMsg{err: err}
		}
		if len(hits) == 0 {
			return noticeMsg{text: noMatch + " " + query}
		}
		hit := hits[0]
		rows, err := src.Around(ctx, hit.Seq, half, half)
		if err != nil {
			return loadedMsg{err: err}
		}
		before, after := 0, 0
		for _, r := range rows {
			switch {
			case r.Seq < hit.Seq:
				before++
			case r.Seq > hit.Seq:
				after++
			}
		}
		return loadedMsg{
			rows:   rows,
			window: virtual.Window{TopTruncated: before >= half, BottomTruncated: after >= half},
			target: hit.ID,
		}
	}
}

func fetchCmd(src Source, req fetchRequest, limit int) tea.Cmd {
	return func() tea.Msg {
		dir := req.dir.String()
		logger.FetchLog.Request(dir, req.cursor, limit)
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		started := time.Now()
		var (
			rows []store.Message
			err  error
		)
		if req.dir == virtual.DirectionTop {
			rows, err = src.Before(ctx, req.cursor, limit)
		} else {
			rows, err = src.After(ctx, req.cursor, limit)
		}
		if err != nil {
			logger.FetchLog.Error(dir, err)
			return fetchedMsg{fetchRequest: req, err: err}
		}
		logger.FetchLog.Response(dir, len(rows), time.Since(started))
		return fetchedMsg{fetchRequest: req, rows: rows}
	}
}

func appendCmd(src Source, msg store.Message) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		rows, err := src.Append(ctx, msg)
		return appendedMsg{rows: rows, err: err}
	}
}

func listenFeed(sub <-chan store.Message) tea.Cmd {
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-sub
		if !ok {
			return nil
		}
		return feedMsg{msg: msg}
	}
}
