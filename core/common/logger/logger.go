package logger

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/zbh255/bilog"
)

const (
	OpenLogger  int64 = 1 << 10
	CloseLogger int64 = 1 << 11
)

// LLogger 客户端内部使用的日志接口, 所有方法都接受printf风格的格式
type LLogger interface {
	Info(format string, v ...interface{})
	Debug(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
	Panic(format string, v ...interface{})
}

var (
	DefaultLogger LLogger
	// NilLogger 丢弃所有日志
	NilLogger LLogger = nilLogger{}
)

type LLoggerImpl struct {
	loggerOpen int64
	logging    bilog.Logger
}

func New(l bilog.Logger) *LLoggerImpl {
	return &LLoggerImpl{logging: l, loggerOpen: OpenLogger}
}

// NewWriter 创建一个写入到w的日志器, 带有时间和调用者信息
func NewWriter(w io.Writer) *LLoggerImpl {
	return New(bilog.NewLogger(
		w, bilog.PANIC,
		bilog.WithTimes(),
		bilog.WithCaller(1),
		bilog.WithLowBuffer(0),
		bilog.WithTopBuffer(0),
	))
}

func (c *LLoggerImpl) Debug(format string, v ...interface{}) {
	if !c.ReadLoggerStatus() {
		return
	}
	c.logging.Debug(fmt.Sprintf(format, v...))
}

func (c *LLoggerImpl) Info(format string, v ...interface{}) {
	if !c.ReadLoggerStatus() {
		return
	}
	c.logging.Info(fmt.Sprintf(format, v...))
}

func (c *LLoggerImpl) Warn(format string, v ...interface{}) {
	if !c.ReadLoggerStatus() {
		return
	}
	c.logging.Trace(fmt.Sprintf(format, v...))
}

func (c *LLoggerImpl) Error(format string, v ...interface{}) {
	if !c.ReadLoggerStatus() {
		return
	}
	c.logging.ErrorFromString(fmt.Sprintf(format, v...))
}

func (c *LLoggerImpl) Panic(format string, v ...interface{}) {
	if !c.ReadLoggerStatus() {
		return
	}
	c.logging.PanicFromString(fmt.Sprintf(format, v...))
}

func (c *LLoggerImpl) ReadLoggerStatus() bool {
	return atomic.LoadInt64(&c.loggerOpen) == OpenLogger
}

func (c *LLoggerImpl) SetOpen(ok bool) {
	if ok {
		atomic.StoreInt64(&c.loggerOpen, OpenLogger)
	} else {
		atomic.StoreInt64(&c.loggerOpen, CloseLogger)
	}
}

// SetOpenLogger 只对DefaultLogger生效, 被替换成其它实现时什么也不做
func SetOpenLogger(ok bool) {
	l, typeOk := DefaultLogger.(*LLoggerImpl)
	if !typeOk {
		return
	}
	l.SetOpen(ok)
}

type nilLogger struct{}

func (nilLogger) Info(string, ...interface{})  {}
func (nilLogger) Debug(string, ...interface{}) {}
func (nilLogger) Warn(string, ...interface{})  {}
func (nilLogger) Error(string, ...interface{}) {}
func (nilLogger) Panic(string, ...interface{}) {}

func init() {
	DefaultLogger = NewWriter(os.Stdout)
}
