// Package app 驱动 wait → read → dispatch 主循环.
//
// 状态只有 Initializing 和 Running 两个: Run 只会因为致命错误返回,
// 没有优雅退出的路径, 进程靠外部信号结束.
package app

import (
	"fmt"

	"github.com/Hara602/inowatch/internal/analysis"
	"github.com/Hara602/inowatch/internal/dispatch"
	"github.com/Hara602/inowatch/internal/monitor"
	"github.com/Hara602/inowatch/internal/poller"
	"github.com/Hara602/inowatch/internal/watcher"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const defaultWaitCapacity = 64

// Deps 主循环依赖; Poller 和 Notifier 归 Loop 独占
type Deps struct {
	Poller    poller.Poller
	Notifier  monitor.Notifier
	Inspector dispatch.Inspector
	Log       *zap.Logger

	WaitCapacity  int
	ReadBuffer    int
	MaxReadBuffer int
}

type Loop struct {
	poller     poller.Poller
	notifier   monitor.Notifier
	registry   *watcher.Registry
	reader     *monitor.Reader
	dispatcher *dispatch.Dispatcher
	log        *zap.Logger
	capacity   int
}

// New 使用内核实现 (epoll + inotify)
func New(paths []string, log *zap.Logger) (*Loop, error) {
	p, err := poller.New()
	if err != nil {
		return nil, err
	}
	n, err := monitor.New()
	if err != nil {
		p.Close()
		return nil, err
	}
	l, err := NewWithDeps(paths, Deps{
		Poller:    p,
		Notifier:  n,
		Inspector: analysis.NewInspector(),
		Log:       log,
	})
	if err != nil {
		return nil, multierr.Append(err, multierr.Combine(p.Close(), n.Close()))
	}
	return l, nil
}

// NewWithDeps 注册所有路径 (单个失败只记录) 并把通知通道交给 Poller
func NewWithDeps(paths []string, deps Deps) (*Loop, error) {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	capacity := deps.WaitCapacity
	if capacity <= 0 {
		capacity = defaultWaitCapacity
	}

	registry := watcher.NewRegistry(deps.Notifier)
	l := &Loop{
		poller:     deps.Poller,
		notifier:   deps.Notifier,
		registry:   registry,
		reader:     monitor.NewReader(deps.Notifier, deps.ReadBuffer, deps.MaxReadBuffer),
		dispatcher: dispatch.New(registry, deps.Inspector, log),
		log:        log,
		capacity:   capacity,
	}

	log.Info("🛡️ inotify ready", zap.Int("fd", deps.Notifier.Fd()))
	for _, path := range paths {
		handle, err := registry.Register(path)
		if err != nil {
			log.Warn("Failed to watch path", zap.String("path", path), zap.Error(err))
			continue
		}
		log.Info("👀 Monitoring started", zap.Int("watchfd", handle), zap.String("path", path))
	}

	if err := l.poller.Register(deps.Notifier.Fd()); err != nil {
		return nil, fmt.Errorf("register inotify fd: %w", err)
	}
	return l, nil
}

// Registry 只在主循环所在的执行路径上使用
func (l *Loop) Registry() *watcher.Registry { return l.registry }

// Step 一次 wait → 排空 → 分发
func (l *Loop) Step() error {
	ready, err := l.poller.Wait(l.capacity)
	if err != nil {
		return err
	}
	for _, ev := range ready {
		if ev.Fd != l.notifier.Fd() {
			continue
		}
		if err := l.reader.Drain(l.dispatcher.Dispatch); err != nil {
			return err
		}
	}
	return nil
}

// Run 永不正常返回
func (l *Loop) Run() error {
	for {
		if err := l.Step(); err != nil {
			return err
		}
	}
}

// Close 释放 Poller 和通知通道; 正常运行路径不会调用
func (l *Loop) Close() error {
	return multierr.Combine(l.poller.Close(), l.notifier.Close())
}
