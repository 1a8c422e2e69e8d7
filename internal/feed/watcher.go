package feed

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"chatwin/internal/events"
	"chatwin/internal/store"
)

// Watcher 跟随 jsonl 文件，把新追加的消息发布到总线上。
// 监听的是文件所在目录，因此文件被删除或重建后仍能继续跟随。
type Watcher struct {
	src      *Log
	bus      *events.Bus[store.Message]
	debounce time.Duration
	watcher  *fsnotify.Watcher

	mu     sync.Mutex
	offset int64
	done   chan struct{}
}

// NewWatcher 创建 watcher。debounce 用于合并短时间内的多次写入。
func NewWatcher(path string, bus *events.Bus[store.Message], debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		src:      &Log{Path: path},
		bus:      bus,
		debounce: debounce,
		watcher:  fw,
		done:     make(chan struct{}),
	}, nil
}

// Start 从当前文件末尾开始跟随，直到 ctx 取消或 Close。
func (w *Watcher) Start(ctx context.Context) error {
	var offset int64
	if info, err := os.Stat(w.src.Path); err == nil {
		offset = info.Size()
	}
	return w.StartAt(ctx, offset)
}

// StartAt 从字节偏移 offset 开始跟随，offset 通常来自 Log.ReadFrom 的返回值。
// 监听建立后先补读一次，offset 之后已经写入的行也会被发布。
func (w *Watcher) StartAt(ctx context.Context, offset int64) error {
	if err := w.src.ensureDir(); err != nil {
		return err
	}
	w.mu.Lock()
	w.offset = offset
	w.mu.Unlock()
	if err := w.watcher.Add(filepath.Dir(w.src.Path)); err != nil {
		return err
	}
	go w.run(ctx)
	return nil
}

// Done 在事件循环退出后关闭。
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	w.drain(ctx)

	target := filepath.Clean(w.src.Path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				w.mu.Lock()
				w.offset = 0
				w.mu.Unlock()
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if w.debounce <= 0 {
				w.drain(ctx)
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.drain(ctx)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warnf("feed watcher error: %v", err)
		}
	}
}

// drain 读取自上次偏移以来的新行并逐条发布。
func (w *Watcher) drain(ctx context.Context) {
	w.mu.Lock()
	msgs, next, err := w.src.ReadFrom(w.offset)
	w.offset = next
	w.mu.Unlock()
	if err != nil {
		log.Warnf("read feed %s: %v", w.src.Path, err)
	}
	for _, msg := range msgs {
		if err := w.bus.Publish(ctx, msg); err != nil {
			log.WithField("type", "publish").Debugf("publish %s: %v", msg.ID, err)
		}
	}
	if len(msgs) > 0 {
		log.Debugf("forwarded %d feed message(s)", len(msgs))
	}
}
