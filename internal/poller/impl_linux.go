//go:build linux

package poller

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

const readyMask = unix.EPOLLIN | unix.EPOLLERR | unix.EPOLLHUP

type epollPoller struct {
	epfd       int
	registered map[int]struct{}
	release    func()
}

func newPoller(release func()) (Poller, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, os.NewSyscallError("epoll_create1", err)
	}
	return &epollPoller{
		epfd:       epfd,
		registered: make(map[int]struct{}),
		release:    release,
	}, nil
}

func (p *epollPoller) Register(fd int) error {
	if p.epfd < 0 {
		return ErrClosed
	}
	event := unix.EpollEvent{
		Events: unix.EPOLLIN | unix.EPOLLET,
		Fd:     int32(fd),
	}
	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, fd, &event); err != nil {
		return fmt.Errorf("register fd %d: %w", fd, os.NewSyscallError("epoll_ctl", err))
	}
	p.registered[fd] = struct{}{}
	return nil
}

func (p *epollPoller) Unregister(fd int) error {
	if p.epfd < 0 {
		return ErrClosed
	}
	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, nil); err != nil {
		return fmt.Errorf("unregister fd %d: %w", fd, os.NewSyscallError("epoll_ctl", err))
	}
	delete(p.registered, fd)
	return nil
}

func (p *epollPoller) Wait(capacity int) ([]ReadyEvent, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if p.epfd < 0 {
		return nil, ErrClosed
	}
	events := make([]unix.EpollEvent, capacity)
	for {
		n, err := unix.EpollWait(p.epfd, events, -1)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return nil, os.NewSyscallError("epoll_wait", err)
		}

		ready := make([]ReadyEvent, 0, n)
		for _, ev := range events[:n] {
			fd := int(ev.Fd)
			if ev.Events&readyMask == 0 {
				continue
			}
			if _, ok := p.registered[fd]; !ok {
				continue
			}
			ready = append(ready, ReadyEvent{Fd: fd})
		}
		if len(ready) > 0 {
			return ready, nil
		}
	}
}

func (p *epollPoller) Close() error {
	if p.epfd < 0 {
		return nil
	}
	err := unix.Close(p.epfd)
	p.epfd = -1
	p.registered = nil
	p.release()
	return err
}
