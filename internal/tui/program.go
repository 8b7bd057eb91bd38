package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"StopWatch/internal/config"
	"StopWatch/internal/timer"
)

type RunOptions struct {
	Player   timer.Player
	Recorder timer.Recorder
	// Silence 关闭终端日志输出并返回恢复函数，避免日志打乱界面
	Silence func() func()
}

// Run 启动终端界面，阻塞到用户退出或 ctx 结束
func Run(ctx context.Context, cfg *config.Config, opts RunOptions) error {
	var p *tea.Program
	// 计时器回调通过 Send 回到 Update 所在的 goroutine
	scheduler := timer.NewLoopScheduler(func(fn func()) {
		p.Send(runMsg(fn))
	})

	model := NewModel(cfg, Options{
		Scheduler: scheduler,
		Player:    opts.Player,
		Recorder:  opts.Recorder,
	})
	p = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if opts.Silence != nil {
		restore := opts.Silence()
		defer restore()
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
