// Package watcher 维护被监控路径与 inotify watch 描述符之间的映射.
//
// 启动时传入的每个路径占一个固定槽位 (注册失败留下空位),
// 运行中因为 CREATE 事件新增的 watch 记在扩展列表里,
// 所以 Len 始终等于输入路径个数.
package watcher

import (
	"errors"
	"fmt"

	"github.com/Hara602/inowatch/internal/model"
)

var (
	ErrPathTooLong  = errors.New("path too long")
	ErrHandleReused = errors.New("watch handle already assigned to another path")
)

// RegistrationError 某个路径无法被监控; 可恢复, 由调用方记录并跳过
type RegistrationError struct {
	Path string
	Err  error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("watch %q: %v", e.Path, e.Err)
}

func (e *RegistrationError) Unwrap() error { return e.Err }

// Kernel 内核侧的 watch 注册能力 (monitor.Notifier 满足)
type Kernel interface {
	AddWatch(path string, mask model.Mask) (int, error)
}

type entry struct {
	model.WatchedPath
	stale bool
}

type Registry struct {
	kernel     Kernel
	mask       model.Mask
	roots      []entry
	extensions []entry
}

func NewRegistry(kernel Kernel) *Registry {
	return &Registry{kernel: kernel, mask: model.DefaultWatchMask}
}

// Register 为启动参数中的路径注册 watch, 无论成功与否都占一个槽位
func (r *Registry) Register(path string) (int, error) {
	handle, err := r.add(path)
	if err != nil {
		r.roots = append(r.roots, entry{WatchedPath: model.WatchedPath{Handle: model.NoHandle, Path: path}})
		return model.NoHandle, err
	}
	r.roots = append(r.roots, entry{WatchedPath: model.WatchedPath{Handle: handle, Path: path}})
	return handle, nil
}

// Extend 为新出现的文件系统项追加 watch
// 内核对同一 inode 返回已有的 wd, 路径相同时视为无操作
func (r *Registry) Extend(path string) (int, error) {
	handle, err := r.add(path)
	if err != nil {
		return model.NoHandle, err
	}
	if e := r.find(handle); e != nil {
		// add 已经排除了不同路径的情况
		e.stale = false
		return handle, nil
	}
	r.extensions = append(r.extensions, entry{WatchedPath: model.WatchedPath{Handle: handle, Path: path}})
	return handle, nil
}

func (r *Registry) add(path string) (int, error) {
	if len(path) >= model.PathMax {
		return model.NoHandle, &RegistrationError{Path: path, Err: ErrPathTooLong}
	}
	handle, err := r.kernel.AddWatch(path, r.mask)
	if err != nil {
		return model.NoHandle, &RegistrationError{Path: path, Err: err}
	}
	if e := r.find(handle); e != nil && e.Path != path {
		return model.NoHandle, &RegistrationError{
			Path: path,
			Err:  fmt.Errorf("%w: handle %d belongs to %q", ErrHandleReused, handle, e.Path),
		}
	}
	return handle, nil
}

// find 线性扫描, 包括失效的项
func (r *Registry) find(handle int) *entry {
	if handle == model.NoHandle {
		return nil
	}
	for i := range r.roots {
		if r.roots[i].Handle == handle {
			return &r.roots[i]
		}
	}
	for i := range r.extensions {
		if r.extensions[i].Handle == handle {
			return &r.extensions[i]
		}
	}
	return nil
}

// Lookup 未知或已失效的 handle 返回 false, 调用方应静默忽略
func (r *Registry) Lookup(handle int) (model.WatchedPath, bool) {
	e := r.find(handle)
	if e == nil || e.stale {
		return model.WatchedPath{}, false
	}
	return e.WatchedPath, true
}

// Forget 内核已经移除该 watch (IN_IGNORED); 保留槽位和 handle
func (r *Registry) Forget(handle int) {
	if e := r.find(handle); e != nil {
		e.stale = true
	}
}

// Len 输入路径个数
func (r *Registry) Len() int { return len(r.roots) }

// Entries 固定槽位的拷贝, 空位的 Handle 为 model.NoHandle
func (r *Registry) Entries() []model.WatchedPath {
	out := make([]model.WatchedPath, len(r.roots))
	for i, e := range r.roots {
		out[i] = e.WatchedPath
	}
	return out
}

// Extensions 运行中追加的 watch
func (r *Registry) Extensions() []model.WatchedPath {
	out := make([]model.WatchedPath, len(r.extensions))
	for i, e := range r.extensions {
		out[i] = e.WatchedPath
	}
	return out
}
