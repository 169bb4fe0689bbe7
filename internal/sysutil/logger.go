package sysutil

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Log *zap.Logger

func InitLogger() {
	Log = NewLogger(os.Stdout, os.Stderr)
}

// NewLogger WARN 以下写 out (启动清单和事件), WARN 及以上写 errOut
func NewLogger(out, errOut io.Writer) *zap.Logger {
	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder        // 格式化时间输出
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder // 彩色级别
	encoder := zapcore.NewConsoleEncoder(config.EncoderConfig)

	low := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= zap.InfoLevel && l < zap.WarnLevel
	})
	high := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= zap.WarnLevel
	})
	core := zapcore.NewTee(
		zapcore.NewCore(encoder, zapcore.AddSync(out), low),
		zapcore.NewCore(encoder, zapcore.AddSync(errOut), high),
	)
	return zap.New(core, zap.AddCaller())
}
