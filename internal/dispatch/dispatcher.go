// Package dispatch 把解码后的事件写成日志, 并在 CREATE 时为新项追加 watch.
package dispatch

import (
	"github.com/Hara602/inowatch/internal/analysis"
	"github.com/Hara602/inowatch/internal/model"
	"github.com/Hara602/inowatch/internal/watcher"
	"go.uber.org/zap"
)

// Inspector 内容识别 (analysis.Inspector 满足)
type Inspector interface {
	Inspect(path string) (analysis.Result, error)
}

type Dispatcher struct {
	registry  *watcher.Registry
	inspector Inspector
	log       *zap.Logger
}

// New inspector 为 nil 时不做内容识别
func New(registry *watcher.Registry, inspector Inspector, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{registry: registry, inspector: inspector, log: log}
}

// Dispatch 处理一条事件; 未知或已失效的 handle 静默忽略
func (d *Dispatcher) Dispatch(ev model.RawEvent) {
	if ev.Mask.Has(model.InQOverflow) {
		d.log.Warn("⚠️ inotify queue overflowed, events were dropped")
		return
	}

	watched, ok := d.registry.Lookup(ev.Handle)
	if !ok {
		return
	}
	fullPath := watcher.ResolveFullPath(watched, ev.Name)

	fields := []zap.Field{
		zap.String("path", fullPath),
		zap.String("event", Describe(ev)),
		zap.String("name", ev.Name),
	}
	fields = append(fields, d.inspect(ev, fullPath)...)
	d.log.Info("📂 File Activity", fields...)

	if ev.Mask.Has(model.InCreate) {
		if handle, err := d.registry.Extend(fullPath); err != nil {
			d.log.Warn("Failed to watch new entry", zap.String("path", fullPath), zap.Error(err))
		} else {
			d.log.Info("👀 Monitoring started", zap.Int("watchfd", handle), zap.String("path", fullPath))
		}
	}

	// 内核已经移除了这个 watch
	if ev.Mask.Has(model.InIgnored) {
		d.registry.Forget(ev.Handle)
	}
}

// inspect 移入的文件做一次文件头识别
// CREATE 时文件几乎总是空的, 而掩码里没有 CLOSE_WRITE, 只有 MOVED_TO 时内容是完整的
func (d *Dispatcher) inspect(ev model.RawEvent, fullPath string) []zap.Field {
	if d.inspector == nil || ev.Name == "" || ev.Mask.Has(model.InIsDir) {
		return nil
	}
	if !ev.Mask.Has(model.InMovedTo) {
		return nil
	}
	res, err := d.inspector.Inspect(fullPath)
	if err != nil || res.Kind == "" {
		// 文件可能已经被删除
		return nil
	}
	if res.Mismatch {
		d.log.Warn("🚨 Extension does not match content",
			zap.String("path", fullPath),
			zap.String("declared", res.DeclaredExt),
			zap.String("type", res.Kind))
	}
	return []zap.Field{zap.String("type", res.Kind)}
}
