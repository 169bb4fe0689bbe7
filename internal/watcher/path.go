package watcher

import (
	"strings"

	"github.com/Hara602/inowatch/internal/model"
)

// ResolveFullPath 计算事件对应的完整路径.
// name 为空表示事件针对被监控路径自身; 否则拼接目录和子项名称.
//
// 不再按 "name 是否为路径子串" 判断自身事件: 那样在子项名称恰好出现在
// 父路径里时 (比如 /tmp/foo 下创建 foo) 会返回错误的路径.
func ResolveFullPath(w model.WatchedPath, name string) string {
	if name == "" {
		return w.Path
	}
	if strings.HasSuffix(w.Path, "/") {
		return w.Path + name
	}
	return w.Path + "/" + name
}
