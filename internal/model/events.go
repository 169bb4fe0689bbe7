package model

// NoHandle 注册失败留下的空位
const NoHandle = -1

// WatchedPath 一个被监控的路径及其 watch 描述符
type WatchedPath struct {
	Handle int
	Path   string
}

// Valid 是否为有效的注册项 (非空位)
func (w WatchedPath) Valid() bool {
	return w.Handle != NoHandle
}

// RawEvent 解码后的 inotify 记录
type RawEvent struct {
	Handle int    // wd, 队列溢出时为 -1
	Mask   Mask   // 事件类型
	Cookie uint32 // 重命名时用于配对 MOVED_FROM / MOVED_TO
	Name   string // 子项名称, 针对被监控路径自身的事件为空
}
