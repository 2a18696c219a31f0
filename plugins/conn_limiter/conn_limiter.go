package conn_limiter

import (
	"errors"

	"github.com/nyan233/littlerpc-jsonrpc/core/middle/plugin"
)

var ErrTooManyCalls = errors.New("conn_limiter: too many concurrent calls")

// Limiter 限制同时进行的调用数量, 超过限制的调用直接被拒绝而不是等待
type Limiter struct {
	plugin.AbstractClient
	sem chan struct{}
}

func NewClient(concurrentSize int) *Limiter {
	return &Limiter{sem: make(chan struct{}, concurrentSize)}
}

func (l *Limiter) Request4C(pub *plugin.Context, msg *plugin.Message) error {
	select {
	case l.sem <- struct{}{}:
		pub.SetValue(l, true)
		return nil
	default:
		return ErrTooManyCalls
	}
}

func (l *Limiter) AfterReceive4C(pub *plugin.Context, err error) {
	if acquired, _ := pub.Value(l).(bool); acquired {
		<-l.sem
	}
}

// Running 正在进行的调用数量
func (l *Limiter) Running() int {
	return len(l.sem)
}
