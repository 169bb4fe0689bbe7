// Package pollertest 提供一个确定性的内存 Poller, 用于在没有 epoll 的情况下驱动主循环.
package pollertest

import (
	"errors"
	"fmt"

	"github.com/Hara602/inowatch/internal/poller"
)

// ErrIdle 没有排队的就绪事件; 真实实现会在这里阻塞
var ErrIdle = errors.New("pollertest: no ready fds queued")

type Poller struct {
	registered map[int]struct{}
	queue      []int
	closed     bool
}

var _ poller.Poller = (*Poller)(nil)

func New() *Poller {
	return &Poller{registered: make(map[int]struct{})}
}

// Signal 把 fd 标记为就绪, 下一次 Wait 返回
func (p *Poller) Signal(fds ...int) {
	p.queue = append(p.queue, fds...)
}

func (p *Poller) Registered(fd int) bool {
	_, ok := p.registered[fd]
	return ok
}

func (p *Poller) Register(fd int) error {
	if p.closed {
		return poller.ErrClosed
	}
	if _, ok := p.registered[fd]; ok {
		return fmt.Errorf("register fd %d: already registered", fd)
	}
	p.registered[fd] = struct{}{}
	return nil
}

func (p *Poller) Unregister(fd int) error {
	if p.closed {
		return poller.ErrClosed
	}
	if _, ok := p.registered[fd]; !ok {
		return fmt.Errorf("unregister fd %d: not registered", fd)
	}
	delete(p.registered, fd)
	return nil
}

// Wait 返回最多 capacity 个已注册且排队的 fd, 未注册的被丢弃
func (p *Poller) Wait(capacity int) ([]poller.ReadyEvent, error) {
	if capacity <= 0 {
		return nil, poller.ErrInvalidCapacity
	}
	if p.closed {
		return nil, poller.ErrClosed
	}
	var ready []poller.ReadyEvent
	for len(p.queue) > 0 && len(ready) < capacity {
		fd := p.queue[0]
		p.queue = p.queue[1:]
		if _, ok := p.registered[fd]; ok {
			ready = append(ready, poller.ReadyEvent{Fd: fd})
		}
	}
	if len(ready) == 0 {
		return nil, ErrIdle
	}
	return ready, nil
}

func (p *Poller) Close() error {
	p.closed = true
	return nil
}
