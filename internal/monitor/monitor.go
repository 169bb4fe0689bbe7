// Package monitor 封装内核文件变更通知通道 (linux 上为 inotify),
// 并把通道里的原始字节解码成 model.RawEvent.
package monitor

import (
	"errors"

	"github.com/Hara602/inowatch/internal/model"
)

var ErrUnsupported = errors.New("monitor: unsupported platform")

// Notifier 内核通知通道
type Notifier interface {
	Fd() int
	AddWatch(path string, mask model.Mask) (int, error)
	RemoveWatch(handle int) error
	// Read 非阻塞读取, 没有数据时返回 EAGAIN
	Read(p []byte) (int, error)
	Close() error
}

func New() (Notifier, error) {
	return newNotifier()
}
