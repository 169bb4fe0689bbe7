package analysis

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/h2non/filetype"
)

// filetype 建议读取的文件头长度
const headerSize = 262

// Result 检测结果
type Result struct {
	Kind        string // 根据文件头识别出的类型, 无法识别时为空
	DeclaredExt string // 文件名声明的后缀
	Mismatch    bool   // 后缀与内容不兼容
}

// Inspector 对比文件名后缀与文件头
type Inspector struct {
	aliases map[string]map[string]bool
}

func NewInspector() *Inspector {
	i := &Inspector{aliases: make(map[string]map[string]bool)}
	i.initRules()
	return i
}

// initRules 合法的 "表里不一"
func (i *Inspector) initRules() {
	allow := func(kind string, exts ...string) {
		if _, ok := i.aliases[kind]; !ok {
			i.aliases[kind] = map[string]bool{kind: true}
		}
		for _, ext := range exts {
			i.aliases[kind][ext] = true
		}
	}

	// docx/xlsx/jar 等本质都是 zip
	allow("zip", "docx", "xlsx", "pptx", "jar", "war", "apk", "odt", "ods", "odp", "whl", "nupkg")
	allow("xml", "svg", "html", "htm", "plist", "config")
	allow("mp4", "m4v", "mov")
	allow("mov", "qt", "mp4")
	allow("jpg", "jpeg")
	allow("tif", "tiff")
	allow("gz", "gzip", "tgz")
	allow("exe", "dll", "sys", "scr")
	allow("elf", "so", "o")
}

// Inspect 读取普通文件的文件头并识别类型; 空文件, 非普通文件和未知类型都不算不匹配
func (i *Inspector) Inspect(path string) (Result, error) {
	declared := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	res := Result{DeclaredExt: declared}

	// 只看普通文件: 打开 FIFO 或设备会阻塞整个主循环
	fi, err := os.Lstat(path)
	if err != nil {
		return res, fmt.Errorf("stat file failed: %w", err)
	}
	if !fi.Mode().IsRegular() {
		return res, nil
	}

	// lstat 之后路径可能被替换, 非阻塞打开后再确认一次类型
	f, err := os.OpenFile(path, os.O_RDONLY|syscall.O_NONBLOCK, 0)
	if err != nil {
		return res, fmt.Errorf("open file failed: %w", err)
	}
	defer f.Close()
	if fi, err = f.Stat(); err != nil || !fi.Mode().IsRegular() {
		return res, err
	}

	head := make([]byte, headerSize)
	n, _ := f.Read(head)
	if n == 0 {
		return res, nil
	}

	kind, _ := filetype.Match(head[:n])
	if kind == filetype.Unknown {
		return res, nil
	}
	res.Kind = kind.Extension

	if declared == "" || declared == res.Kind {
		return res, nil
	}
	if allowed, ok := i.aliases[res.Kind]; ok && allowed[declared] {
		return res, nil
	}
	res.Mismatch = true
	return res, nil
}
