package limiter

import (
	"context"

	"github.com/nyan233/littlerpc-jsonrpc/core/middle/plugin"
	"golang.org/x/time/rate"
)

// Limiter 客户端的令牌桶, 在发送之前等待令牌, 等待会被调用者的context打断
type Limiter struct {
	plugin.AbstractClient
	tb *rate.Limiter
}

// New limit为每秒允许发起的调用数量
func New(limit int) *Limiter {
	return NewWithBurst(rate.Limit(limit), limit)
}

func NewWithBurst(r rate.Limit, burst int) *Limiter {
	return &Limiter{tb: rate.NewLimiter(r, burst)}
}

func (l *Limiter) Request4C(pub *plugin.Context, msg *plugin.Message) error {
	ctx := pub.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	return l.tb.Wait(ctx)
}
