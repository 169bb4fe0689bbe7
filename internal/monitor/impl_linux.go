//go:build linux

package monitor

import (
	"fmt"
	"os"

	"github.com/Hara602/inowatch/internal/model"
	"golang.org/x/sys/unix"
)

type inotifyNotifier struct {
	fd int
}

func newNotifier() (Notifier, error) {
	fd, err := unix.InotifyInit1(unix.IN_NONBLOCK | unix.IN_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("inotify init failed: %w", os.NewSyscallError("inotify_init1", err))
	}
	return &inotifyNotifier{fd: fd}, nil
}

func (n *inotifyNotifier) Fd() int { return n.fd }

func (n *inotifyNotifier) AddWatch(path string, mask model.Mask) (int, error) {
	wd, err := unix.InotifyAddWatch(n.fd, path, uint32(mask))
	if err != nil {
		return model.NoHandle, os.NewSyscallError("inotify_add_watch", err)
	}
	return wd, nil
}

func (n *inotifyNotifier) RemoveWatch(handle int) error {
	if _, err := unix.InotifyRmWatch(n.fd, uint32(handle)); err != nil {
		return os.NewSyscallError("inotify_rm_watch", err)
	}
	return nil
}

func (n *inotifyNotifier) Read(p []byte) (int, error) {
	return unix.Read(n.fd, p)
}

func (n *inotifyNotifier) Close() error {
	return unix.Close(n.fd)
}
