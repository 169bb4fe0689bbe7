package dispatch

import (
	"fmt"
	"strings"

	"github.com/Hara602/inowatch/internal/model"
)

var maskNames = []struct {
	bit  model.Mask
	name string
}{
	{model.InCreate, "CREATE"},
	{model.InDelete, "DELETE"},
	{model.InModify, "MODIFY"},
	{model.InIsDir, "ISDIR"},
	{model.InMoveSelf, "MOVE_SELF"},
	{model.InMovedTo, "MOVED_TO"},
	{model.InMovedFrom, "MOVED_FROM"},
	{model.InDeleteSelf, "DELETE_SELF"},
	{model.InIgnored, "IGNORED"},
	{model.InQOverflow, "Q_OVERFLOW"},
}

// Describe 把掩码转成符号描述, 例如 "CREATE,ISDIR" 或 "MOVED_FROM cookie=42"
func Describe(ev model.RawEvent) string {
	var names []string
	for _, m := range maskNames {
		if ev.Mask.Has(m.bit) {
			names = append(names, m.name)
		}
	}
	if len(names) == 0 {
		return fmt.Sprintf("OTHER(0x%x)", uint32(ev.Mask))
	}
	desc := strings.Join(names, ",")
	// 重命名的两半通过 cookie 配对
	if ev.Mask.Has(model.InMove) {
		desc += fmt.Sprintf(" cookie=%d", ev.Cookie)
	}
	return desc
}
