package model

// inotify 记录头: {wd int32, mask uint32, cookie uint32, len uint32}
// 后面紧跟 len 字节的文件名 (以 \0 结尾并填充对齐)
const (
	InotifyEventHeaderSize = 16

	// PathMax 对应 linux PATH_MAX
	PathMax = 4096
)

// Mask inotify 事件掩码
type Mask uint32

// 取值与 inotify(7) 一致，这样非 linux 平台也能编译解码逻辑
const (
	InAccess     Mask = 0x00000001
	InModify     Mask = 0x00000002
	InAttrib     Mask = 0x00000004
	InCloseWrite Mask = 0x00000008
	InMovedFrom  Mask = 0x00000040
	InMovedTo    Mask = 0x00000080
	InCreate     Mask = 0x00000100
	InDelete     Mask = 0x00000200
	InDeleteSelf Mask = 0x00000400
	InMoveSelf   Mask = 0x00000800
	InUnmount    Mask = 0x00002000
	InQOverflow  Mask = 0x00004000
	InIgnored    Mask = 0x00008000
	InIsDir      Mask = 0x40000000

	InMove = InMovedFrom | InMovedTo
)

// DefaultWatchMask 每个 watch 使用的固定掩码
const DefaultWatchMask = InCreate | InDelete | InModify | InMove | InMoveSelf | InDeleteSelf

// Has 判断是否包含任意一个给定的位
func (m Mask) Has(bits Mask) bool {
	return m&bits != 0
}
