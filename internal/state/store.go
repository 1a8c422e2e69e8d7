// Package state 提供线程安全的可观察值，供界面订阅状态栏等派生展示。
package state

import (
	"sync"
	"time"
)

// Store 保存一个值并在每次变更后通知订阅者。
type Store[T any] struct {
	mu        sync.Mutex
	value     T
	listeners map[int]func(T)
	nextID    int
}

func NewStore[T any](initial T) *Store[T] {
	return &Store[T]{value: initial, listeners: map[int]func(T){}}
}

func (s *Store[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set 替换当前值并通知订阅者。
func (s *Store[T]) Set(v T) {
	s.Update(func(T) T { return v })
}

// Update 基于旧值计算新值。回调在锁外执行，订阅者可以安全地读取 Store。
func (s *Store[T]) Update(fn func(T) T) {
	s.mu.Lock()
	s.value = fn(s.value)
	v := s.value
	listeners := make([]func(T), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(v)
	}
}

// Subscribe 注册监听器并返回取消函数。
func (s *Store[T]) Subscribe(fn func(T)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Debounce 包装监听器：连续变更在 d 内合并，只以最后一个值触发一次。
// 返回的 stop 会取消尚未触发的调用。
func Debounce[T any](d time.Duration, fn func(T)) (listener func(T), stop func()) {
	var (
		mu      sync.Mutex
		timer   *time.Timer
		latest  T
		stopped bool
	)
	listener = func(v T) {
		mu.Lock()
		defer mu.Unlock()
		if stopped {
			return
		}
		latest = v
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, func() {
			mu.Lock()
			if stopped {
				mu.Unlock()
				return
			}
			v := latest
			mu.Unlock()
			fn(v)
		})
	}
	stop = func() {
		mu.Lock()
		defer mu.Unlock()
		stopped = true
		if timer != nil {
			timer.Stop()
		}
	}
	return listener, stop
}
