package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Hara602/inowatch/internal/app"
	"github.com/Hara602/inowatch/internal/sysutil"
	"github.com/spf13/cobra"
)

var errUsage = errors.New("at least one path is required")

func main() {
	sysutil.InitLogger()

	cmd := newRootCmd(func(paths []string) error {
		l, err := app.New(paths, sysutil.Log)
		if err != nil {
			return err
		}
		// 只会因为致命错误返回
		return l.Run()
	})
	code := execute(cmd, os.Args[1:], os.Stderr)
	_ = sysutil.Log.Sync()
	os.Exit(code)
}

func newRootCmd(run func(paths []string) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:                   "inowatch file1 [file2 file3...]",
		Short:                 "Log filesystem changes reported by inotify",
		DisableFlagsInUseLine: true,
		SilenceErrors:         true,
		SilenceUsage:          true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errUsage
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args)
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	// 没有任何 flag, 解析失败按用法错误处理
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errUsage, err)
	})
	return cmd
}

// execute 返回进程退出码
func execute(cmd *cobra.Command, args []string, stderr io.Writer) int {
	// nil 会让 cobra 回退到 os.Args
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetOut(stderr)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprint(stderr, cmd.UsageString())
		return 1
	default:
		sysutil.WriteFatal(stderr, err)
		return 1
	}
}
