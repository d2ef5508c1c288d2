package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
	xlogrus "github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logFileMaxSizeMB  = 10
	logFileMaxBackups = 3
)

func main() {
	ctx := initLogger(context.Background(), logger.LevelInfo, "")
	err := newRootCommand().ExecuteContext(ctx)
	belt.Flush(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initLogger logs to stderr and, if logFile is set, to a rotated file.
func initLogger(
	ctx context.Context,
	level logger.Level,
	logFile string,
) context.Context {
	logrusLogger := xlogrus.DefaultLogrusLogger()
	if logFile != "" {
		logrusLogger.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    logFileMaxSizeMB,
			MaxBackups: logFileMaxBackups,
		}))
	}
	l := xlogrus.New(logrusLogger).WithLevel(level)
	ctx = logger.CtxWithLogger(ctx, l)
	logger.Default = func() logger.Logger {
		return l
	}
	return ctx
}
