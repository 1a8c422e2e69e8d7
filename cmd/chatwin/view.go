package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"chatwin/internal/config"
	"chatwin/internal/events"
	"chatwin/internal/feed"
	"chatwin/internal/i18n"
	"chatwin/internal/render"
	"chatwin/internal/store"
	"chatwin/internal/tui"
)

const feedDebounce = 50 * time.Millisecond

func viewMain(root rootArgs, args []string) error {
	var overrides stringSlice
	flags := flag.NewFlagSet("view", flag.ExitOnError)
	flags.Var(&overrides, "c", "Override config value key=value (repeatable)")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("parse view args: %w", err)
	}
	cfg, err := loadConfig(root, overrides)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.StorePath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	opts := tui.Options{
		Source:    st,
		List:      cfg.ListOptions(),
		ScrollFPS: cfg.ScrollFPS,
		Language:  i18n.Normalize(cfg.Language),
	}
	if cfg.Enabled("markdown") {
		opts.Markdown = render.NewMarkdown("")
	}
	if cfg.Enabled("live_feed") {
		sub, stop := startFeed(cfg, st)
		defer stop()
		opts.Feed = sub
	}
	if err := tui.Run(opts); err != nil {
		return fmt.Errorf("program exit: %w", err)
	}
	return nil
}

// startFeed 先把 jsonl 中已有的消息导入消息库，再从导入停下的偏移处开始跟随。
// 订阅在 watcher 启动前建立，补读出的消息不会因为没有订阅者而丢失。
func startFeed(cfg config.Config, st *store.Store) (<-chan store.Message, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	n, offset, err := importFeed(ctx, st, cfg.FeedPath)
	if err != nil {
		log.Warnf("import feed %s: %v", cfg.FeedPath, err)
	} else if n > 0 {
		log.Infof("imported %d messages from %s", n, cfg.FeedPath)
	}

	bus := events.NewBus[store.Message]("feed", 64)
	entry, closer := events.NewFileLogger("bus", events.DefaultBusLogPath)
	bus.SetLogger(entry)
	sub := bus.Subscribe()

	closers := []io.Closer{}
	if closer != nil {
		closers = append(closers, closer)
	}
	stop := func() {
		cancel()
		bus.Close()
		for _, c := range closers {
			_ = c.Close()
		}
	}

	w, err := feed.NewWatcher(cfg.FeedPath, bus, feedDebounce)
	if err != nil {
		log.Warnf("feed watcher disabled: %v", err)
		return sub, stop
	}
	if err := w.StartAt(ctx, offset); err != nil {
		log.Warnf("feed watcher disabled: %v", err)
		_ = w.Close()
		return sub, stop
	}
	closers = append([]io.Closer{w}, closers...)
	return sub, stop
}

// importFeed 把 jsonl 文件中的完整行写入消息库，重复的 ID 会被忽略，文件不存在时什么也不做。
// 返回值 next 是第一个未读字节的偏移，末尾写了一半的行留给 watcher。
func importFeed(ctx context.Context, st *store.Store, path string) (n int, next int64, err error) {
	src := feed.Log{Path: path}
	msgs, next, err := src.ReadFrom(0)
	if err != nil {
		return 0, 0, err
	}
	inserted, err := st.Append(ctx, msgs...)
	return len(inserted), next, err
}
