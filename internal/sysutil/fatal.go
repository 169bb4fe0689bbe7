package sysutil

import (
	"fmt"
	"io"
)

// WriteFatal 致命错误的唯一输出格式: "fatal error: <message>"
func WriteFatal(w io.Writer, err error) {
	fmt.Fprintf(w, "fatal error: %v\n", err)
}
