package events

import (
	"context"
	"errors"
	"sync"

	"chatwin/internal/logger"
)

var (
	// ErrBusClosed 表示总线已关闭。
	ErrBusClosed = errors.New("bus closed")
	// ErrDropped 表示事件被慢消费者丢弃。
	ErrDropped = errors.New("event dropped by slow subscriber")
)

// Bus 是带类型的广播总线。发布不会阻塞在慢订阅者上，
// 订阅通道在 Close 时关闭。
type Bus[T any] struct {
	mu     sync.Mutex
	subs   []chan T
	buffer int
	closed bool
	name   string
	log    *logger.LogEntry
}

// NewBus 创建总线，buffer 是每个订阅者的缓存大小。
func NewBus[T any](name string, buffer int) *Bus[T] {
	if buffer <= 0 {
		buffer = 64
	}
	return &Bus[T]{buffer: buffer, name: name}
}

// SetLogger 覆盖总线使用的 logger，设置后每次发布都会记录载荷。
func (b *Bus[T]) SetLogger(entry *logger.LogEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.log = entry
}

func (b *Bus[T]) Subscribe() <-chan T {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		ch := make(chan T)
		close(ch)
		return ch
	}
	ch := make(chan T, b.buffer)
	b.subs = append(b.subs, ch)
	return ch
}

// Publish 发布事件到所有订阅者。若存在丢弃，则返回 ErrDropped。
func (b *Bus[T]) Publish(ctx context.Context, evt T) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrBusClosed
	}
	subs := append([]chan T{}, b.subs...)
	entry := b.log
	b.mu.Unlock()

	dropped := 0
	for _, ch := range subs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ch <- evt:
		default:
			dropped++
		}
	}
	if entry != nil {
		entry.WithFields(logger.Fields{
			"type":        b.name,
			"subscribers": len(subs),
			"dropped":     dropped,
			"payload":     encodePayload(evt),
		}).Debug("published event")
	}
	if dropped > 0 {
		log.WithField("type", b.name).Warnf("dropped event for %d slow subscriber(s)", dropped)
		return ErrDropped
	}
	return nil
}

func (b *Bus[T]) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	subs := b.subs
	b.subs = nil
	b.mu.Unlock()

	for _, ch := range subs {
		close(ch)
	}
}

// SubscriberCount 返回当前订阅者数量。
func (b *Bus[T]) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
