// Package monitortest 提供可编排的 Notifier 和记录编码工具.
package monitortest

import (
	"encoding/binary"
	"fmt"
	"io/fs"
	"syscall"

	"github.com/Hara602/inowatch/internal/model"
	"github.com/Hara602/inowatch/internal/monitor"
)

// Encode 按内核布局编码一条记录, name 用 \0 填充到 4 字节对齐
func Encode(ev model.RawEvent) []byte {
	nameLen := 0
	if ev.Name != "" {
		nameLen = (len(ev.Name) + 1 + 3) &^ 3
	}
	buf := make([]byte, model.InotifyEventHeaderSize+nameLen)
	binary.NativeEndian.PutUint32(buf[0:4], uint32(int32(ev.Handle)))
	binary.NativeEndian.PutUint32(buf[4:8], uint32(ev.Mask))
	binary.NativeEndian.PutUint32(buf[8:12], ev.Cookie)
	binary.NativeEndian.PutUint32(buf[12:16], uint32(nameLen))
	copy(buf[model.InotifyEventHeaderSize:], ev.Name)
	return buf
}

// EncodeAll 把多条记录拼成一次 read 的内容
func EncodeAll(events ...model.RawEvent) []byte {
	var out []byte
	for _, ev := range events {
		out = append(out, Encode(ev)...)
	}
	return out
}

// Watch 一次 AddWatch 调用的记录
type Watch struct {
	Handle int
	Path   string
	Mask   model.Mask
}

// Notifier 内存实现: 路径在 Missing 中时 AddWatch 返回 ENOENT,
// 同一路径重复添加返回同一个 handle (和内核一样)
type Notifier struct {
	FD      int
	Missing map[string]bool
	Watches []Watch
	Removed []int

	next   int
	chunks [][]byte
	errs   []error
}

var _ monitor.Notifier = (*Notifier)(nil)

func New(fd int) *Notifier {
	return &Notifier{FD: fd, Missing: make(map[string]bool), next: 1}
}

// Queue 排入一次 read 将返回的数据
func (n *Notifier) Queue(events ...model.RawEvent) {
	n.chunks = append(n.chunks, EncodeAll(events...))
}

// QueueError 下一次 read 返回 err (在数据之前)
func (n *Notifier) QueueError(err error) {
	n.errs = append(n.errs, err)
}

// HandleFor 返回路径当前的 handle
func (n *Notifier) HandleFor(path string) (int, bool) {
	for _, w := range n.Watches {
		if w.Path == path {
			return w.Handle, true
		}
	}
	return model.NoHandle, false
}

func (n *Notifier) Fd() int { return n.FD }

func (n *Notifier) AddWatch(path string, mask model.Mask) (int, error) {
	if n.Missing[path] {
		return model.NoHandle, &fs.PathError{Op: "inotify_add_watch", Path: path, Err: syscall.ENOENT}
	}
	if h, ok := n.HandleFor(path); ok {
		return h, nil
	}
	h := n.next
	n.next++
	n.Watches = append(n.Watches, Watch{Handle: h, Path: path, Mask: mask})
	return h, nil
}

func (n *Notifier) RemoveWatch(handle int) error {
	for i, w := range n.Watches {
		if w.Handle == handle {
			n.Watches = append(n.Watches[:i], n.Watches[i+1:]...)
			n.Removed = append(n.Removed, handle)
			return nil
		}
	}
	return fmt.Errorf("remove watch %d: %w", handle, syscall.EINVAL)
}

func (n *Notifier) Read(p []byte) (int, error) {
	if len(n.errs) > 0 {
		err := n.errs[0]
		n.errs = n.errs[1:]
		return 0, err
	}
	if len(n.chunks) == 0 {
		return 0, syscall.EAGAIN
	}
	chunk := n.chunks[0]
	if len(chunk) > len(p) {
		return 0, syscall.EINVAL
	}
	n.chunks = n.chunks[1:]
	return copy(p, chunk), nil
}

func (n *Notifier) Close() error { return nil }
