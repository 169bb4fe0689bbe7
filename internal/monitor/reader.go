package monitor

import (
	"errors"
	"fmt"
	"syscall"

	"github.com/Hara602/inowatch/internal/model"
)

const (
	DefaultBufferSize = 4096
	MaxBufferSize     = 1 << 20
)

// ErrNameTooLong 缓冲区增长到上限仍放不下下一条记录
var ErrNameTooLong = errors.New("monitor: inotify record exceeds maximum read buffer")

// Source Reader 需要的最小读取能力
type Source interface {
	Fd() int
	Read(p []byte) (int, error)
}

// Reader 排空通知通道 (边沿触发下必须一直读到 EAGAIN)
type Reader struct {
	src     Source
	size    int
	maxSize int
}

// NewReader size/maxSize <= 0 时使用默认值
func NewReader(src Source, size, maxSize int) *Reader {
	if size <= 0 {
		size = DefaultBufferSize
	}
	if maxSize <= 0 {
		maxSize = MaxBufferSize
	}
	if maxSize < size {
		maxSize = size
	}
	return &Reader{src: src, size: size, maxSize: maxSize}
}

// BufferSize 当前读取缓冲区大小
func (r *Reader) BufferSize() int { return r.size }

// Drain 读到 EAGAIN 为止, 每条解码出的事件交给 fn
// EINTR 重试; EAGAIN 正常结束; 其它错误都是致命的
func (r *Reader) Drain(fn func(model.RawEvent)) error {
	for {
		// 每次读取使用自己的缓冲区, 回调里不会和下一次读取共享内存
		buf := make([]byte, r.size)
		n, err := r.src.Read(buf)
		if err != nil {
			switch {
			case errors.Is(err, syscall.EINTR):
				continue
			case errors.Is(err, syscall.EAGAIN):
				return nil
			case errors.Is(err, syscall.EINVAL):
				// 缓冲区放不下下一条记录
				if r.size >= r.maxSize {
					return fmt.Errorf("read(%d): %w (buffer %d bytes)", r.src.Fd(), ErrNameTooLong, r.size)
				}
				r.size = min(r.size*2, r.maxSize)
				continue
			}
			return fmt.Errorf("read(%d): %w", r.src.Fd(), err)
		}
		if n == 0 {
			return nil
		}

		events, err := Decode(buf[:n])
		for _, ev := range events {
			fn(ev)
		}
		if err != nil {
			return fmt.Errorf("read(%d): %w", r.src.Fd(), err)
		}
	}
}
