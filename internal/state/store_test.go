package state

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStoreNotifiesSubscribers(t *testing.T) {
	s := NewStore(1)
	var got []int
	unsub := s.Subscribe(func(v int) { got = append(got, v) })

	s.Set(2)
	s.Update(func(v int) int { return v * 10 })
	unsub()
	s.Set(99)

	require.Equal(t, []int{2, 20}, got)
	require.Equal(t, 99, s.Get())
}

func TestStoreListenerMayReadStore(t *testing.T) {
	s := NewStore("a")
	var seen string
	s.Subscribe(func(string) { seen = s.Get() })
	s.Set("b")
	require.Equal(t, "b", seen)
}

func TestDebounceCoalesces(t *testing.T) {
	var calls atomic.Int32
	var last atomic.Int32
	listener, stop := Debounce(20*time.Millisecond, func(v int) {
		calls.Add(1)
		last.Store(int32(v))
	})
	defer stop()

	for i := 1; i <= 5; i++ {
		listener(i)
	}
	require.Eventually(t, func() bool { return calls.Load() > 0 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	require.Equal(t, int32(1), calls.Load())
	require.Equal(t, int32(5), last.Load())
}

func TestDebounceStopCancelsPending(t *testing.T) {
	var calls atomic.Int32
	listener, stop := Debounce(10*time.Millisecond, func(int) { calls.Add(1) })
	listener(1)
	stop()
	listener(2)
	time.Sleep(40 * time.Millisecond)
	require.Zero(t, calls.Load())
}
