package logger

import (
	"fmt"
	"io"
	"time"

	"github.com/nyan233/littlerpc-jsonrpc/core/middle/plugin"
	perror "github.com/nyan233/littlerpc-jsonrpc/core/protocol/error"
)

const (
	statusCode = "lp-status"
	rspSize    = "lp-rspSize"
)

// Logger 每一次调用结束时写入一行访问日志
//
//	[LRPC] | 2026/10/18 - 15:04:05 |     200 | ok       |   1.2ms |   32.000B | http://127.0.0.1:8080/rpc | Call   | "add"
type Logger struct {
	plugin.AbstractClient
	w   io.Writer
	now func() time.Time
}

func New(w io.Writer) *Logger {
	return &Logger{w: w, now: time.Now}
}

func (l *Logger) Receive4C(pub *plugin.Context, status int, msg *plugin.Message) {
	pub.SetValue(statusCode, status)
	if msg != nil {
		pub.SetValue(rspSize, len(msg.Body))
	}
}

func (l *Logger) AfterReceive4C(pub *plugin.Context, err error) {
	status, _ := pub.Value(statusCode).(int)
	size, _ := pub.Value(rspSize).(int)
	result := "ok"
	if err != nil {
		result = perror.KindOf(err).String()
	}
	msgType := "Call"
	if pub.IsNotification() {
		msgType = "Notify"
	}
	live := l.now()
	_, wErr := fmt.Fprintf(l.w, "[LRPC] | %s | %7d | %-8s | %10s | %10s | %s | %-6s | %q\n",
		live.Format("2006/01/02 - 15:04:05"),
		status,
		result,
		live.Sub(pub.Start()),
		formatSize(size),
		pub.Endpoint,
		msgType,
		pub.Method)
	if wErr != nil && pub.Logger != nil {
		pub.Logger.Warn("logger write data error : %v", wErr)
	}
}

func formatSize(n int) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)
	switch {
	case n < KB:
		return fmt.Sprintf("%.3fB", float64(n))
	case n < MB:
		return fmt.Sprintf("%.3fKB", float64(n)/KB)
	case n < GB:
		return fmt.Sprintf("%.3fMB", float64(n)/MB)
	default:
		return fmt.Sprintf("%.3fGB", float64(n)/GB)
	}
}
