package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"chatwin/internal/store"
	"chatwin/internal/virtual"
)

// memSource 是内存中的消息源，行为与 store.Store 的分页语义一致。
type memSource struct {
	mu   sync.Mutex
	msgs []store.Message
}

func newMemSource(n int) *memSource {
	s := &memSource{}
	for i := 1; i <= n; i++ {
		author := "alice"
		if i%2 == 0 {
			author = "bob"
		}
		s.msgs = append(s.msgs, store.Message{
			ID:     fmt.Sprintf("m%03d", i),
			Seq:    int64(i),
			Author: author,
			Body:   fmt.Sprintf("message %d", i),
		})
	}
	return s
}

func (s *memSource) Latest(_ context.Context, n int) ([]store.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := max(len(s.msgs)-n, 0)
	return append([]store.Message(nil), s.msgs[start:]...), nil
}

func (s *memSource) Before(_ context.Context, seq int64, n int) ([]store.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []store.Message
	for _, m := range s.msgs {
		if m.Seq < seq {
			out = append(out, m)
		}
	}
	return out[max(len(out)-n, 0):], nil
}

func (s *memSource) After(_ context.Context, seq int64, n int) ([]store.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []store.Message
	for _, m := range s.msgs {
		if m.Seq > seq && len(out) < n {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *memSource) Around(ctx context.Context, seq int64, before, after int) ([]store.Message, error) {
	older, _ := s.Before(ctx, seq, before)
	newer, _ := s.After(ctx, seq, after)
	s.mu.Lock()
	var hit []store.Message
	for _, m := range s.msgs {
		if m.Seq == seq {
			hit = append(hit, m)
		}
	}
	s.mu.Unlock()
	out := append(older, hit...)
	return append(out, newer...), nil
}

func (s *memSource) Search(_ context.Context, query string, limit int) ([]store.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []store.Message
	for i := len(s.msgs) - 1; i >= 0 && len(out) < limit; i-- {
		if strings.Contains(s.msgs[i].Body, query) {
			out = append(out, s.msgs[i])
		}
	}
	return out, nil
}

func (s *memSource) Append(_ context.Context, msgs ...store.Message) ([]store.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.Message, 0, len(msgs))
	for _, m := range msgs {
		m.Seq = int64(len(s.msgs) + 1)
		if m.ID == "" {
			m.ID = fmt.Sprintf("m%03d", m.Seq)
		}
		s.msgs = append(s.msgs, m)
		out = append(out, m)
	}
	return out, nil
}

func (s *memSource) Count(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.msgs), nil
}

func testListOptions() virtual.Options {
	return virtual.Options{
		PrefetchThreshold: 1,
		MaxRowsLength:     80,
		RowsPerPage:       10,
		RowPadding:        2,
	}
}

func newTestModel(t *testing.T, src Source) *Model {
	t.Helper()
	m, err := New(Options{
		Source: src,
		List:   testListOptions(),
		Width:  40,
		Height: 13,
	})
	require.NoError(t, err)
	return m
}

// drive 同步执行命令并把结果送回模型，直到没有后续命令。
// 会阻塞或定时的命令（光标闪烁、spinner）在超时后丢弃。
func drive(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.LessOrEqual(t, steps, 10000, "command loop did not settle")
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := runCmd(c).(type) {
		case nil, spinner.TickMsg, tea.QuitMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			_, next := m.Update(msg)
			queue = append(queue, next)
		}
	}
}

func runCmd(c tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- c() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

func press(t *testing.T, m *Model, msg tea.KeyMsg) {
	t.Helper()
	_, cmd := m.Update(msg)
	drive(t, m, cmd)
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func requireContiguous(t *testing.T, m *Model) {
	t.Helper()
	for i := 1; i < m.list.Len(); i++ {
		prev, _ := m.list.GetRow(i - 1)
		cur, _ := m.list.GetRow(i)
		require.Equal(t, prev.Seq+1, cur.Seq, "row %d", i)
	}
}

func edgeRows(m *Model) (store.Message, store.Message) {
	first, _ := m.list.GetRow(0)
	last, _ := m.list.GetRow(m.list.Len() - 1)
	return first, last
}
