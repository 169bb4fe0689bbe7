package monitor

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/Hara602/inowatch/internal/model"
)

var ErrShortRecord = errors.New("monitor: truncated inotify record")

// Decode 解码一次 read 得到的所有记录
// 每条记录: [header 16 字节] + [name: len 字节, \0 结尾并填充]
func Decode(buf []byte) ([]model.RawEvent, error) {
	var events []model.RawEvent
	offset := 0
	for offset < len(buf) {
		if len(buf)-offset < model.InotifyEventHeaderSize {
			return events, fmt.Errorf("%w: %d header bytes at offset %d", ErrShortRecord, len(buf)-offset, offset)
		}
		hdr := buf[offset : offset+model.InotifyEventHeaderSize]
		ev := model.RawEvent{
			Handle: int(int32(binary.NativeEndian.Uint32(hdr[0:4]))),
			Mask:   model.Mask(binary.NativeEndian.Uint32(hdr[4:8])),
			Cookie: binary.NativeEndian.Uint32(hdr[8:12]),
		}
		nameLen := int(binary.NativeEndian.Uint32(hdr[12:16]))

		start := offset + model.InotifyEventHeaderSize
		if nameLen < 0 || nameLen > len(buf)-start {
			return events, fmt.Errorf("%w: name length %d exceeds %d remaining bytes", ErrShortRecord, nameLen, len(buf)-start)
		}
		if nameLen > 0 {
			name := buf[start : start+nameLen]
			// 找第一个 \0, 后面是填充
			if idx := bytes.IndexByte(name, 0); idx != -1 {
				name = name[:idx]
			}
			ev.Name = string(name)
		}
		events = append(events, ev)
		offset = start + nameLen
	}
	return events, nil
}
