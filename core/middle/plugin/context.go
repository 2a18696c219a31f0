package plugin

import (
	"context"
	"time"

	"github.com/nyan233/littlerpc-jsonrpc/core/common/jsonrpc2"
	"github.com/nyan233/littlerpc-jsonrpc/core/common/logger"
)

// Context 一次调用内所有插件共享的上下文, 调用结束之后会被回收复用
type Context struct {
	// Ctx 调用者传入的context
	Ctx    context.Context
	Logger logger.LLogger
	Method string
	// ID 通知的id是absent
	ID       jsonrpc2.ID
	Endpoint string
	start    time.Time
	values   map[interface{}]interface{}
}

func (c *Context) Init(ctx context.Context, l logger.LLogger, method string, id jsonrpc2.ID, endpoint string) {
	c.Ctx = ctx
	c.Logger = l
	c.Method = method
	c.ID = id
	c.Endpoint = endpoint
	c.start = time.Now()
}

func (c *Context) Reset() {
	c.Ctx = nil
	c.Logger = nil
	c.Method = ""
	c.ID = jsonrpc2.ID{}
	c.Endpoint = ""
	c.start = time.Time{}
	for k := range c.values {
		delete(c.values, k)
	}
}

// Start 调用开始的时间
func (c *Context) Start() time.Time {
	return c.start
}

func (c *Context) IsNotification() bool {
	return c.ID.IsAbsent()
}

func (c *Context) SetValue(key, val interface{}) {
	if c.values == nil {
		c.values = make(map[interface{}]interface{}, 4)
	}
	c.values[key] = val
}

func (c *Context) Value(key interface{}) interface{} {
	return c.values[key]
}
