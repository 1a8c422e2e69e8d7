package tui

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"chatwin/internal/state"
)

// statusDebounce 合并滚动过程中的状态栏刷新。
const statusDebounce = 30 * time.Millisecond

// Run 封装 Bubble Tea 入口。状态栏经 state.Store 防抖后由 program.Send 送回模型。
func Run(opts Options) error {
	if opts.Status == nil {
		opts.Status = state.NewStore(Status{})
	}
	m, err := New(opts)
	if err != nil {
		return err
	}
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	listener, stop := state.Debounce(statusDebounce, func(s Status) {
		program.Send(statusMsg(s))
	})
	defer stop()
	unsubscribe := opts.Status.Subscribe(listener)
	defer unsubscribe()
	m.statusSubscribed = true

	final, err := program.Run()
	if err != nil {
		return err
	}
	if _, ok := final.(*Model); !ok {
		return errors.New("unexpected tui model")
	}
	return nil
}
