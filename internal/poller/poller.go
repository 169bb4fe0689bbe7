// Package poller 把一个内核就绪多路复用实例隐藏在 Poller 接口之后.
//
// linux 上的实现是边沿触发的 epoll: Wait 报告某个 fd 就绪之后,
// 调用方必须一直读到 EAGAIN 才能再次 Wait, 否则后续事件可能丢失.
package poller

import (
	"errors"
	"sync/atomic"
)

var (
	ErrInvalidCapacity = errors.New("poller: wait capacity must be positive")
	ErrPollerExists    = errors.New("poller: another poller is already open")
	ErrClosed          = errors.New("poller: closed")
	ErrUnsupported     = errors.New("poller: unsupported platform")
)

// ReadyEvent Wait 返回的就绪 fd
type ReadyEvent struct {
	Fd int
}

// Poller 定义接口
type Poller interface {
	Register(fd int) error
	Unregister(fd int) error
	// Wait 无限期阻塞直到至少一个已注册的 fd 就绪, 不会返回空结果
	Wait(capacity int) ([]ReadyEvent, error)
	Close() error
}

// 每个进程最多一个 Poller
var active atomic.Bool

func New() (Poller, error) {
	if !active.CompareAndSwap(false, true) {
		return nil, ErrPollerExists
	}
	p, err := newPoller(func() { active.Store(false) })
	if err != nil {
		active.Store(false)
		return nil, err
	}
	return p, nil
}
