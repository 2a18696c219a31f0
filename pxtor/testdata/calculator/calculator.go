package calculator

import (
	"context"
	"time"
)

type Detail struct {
	Field string `json:"field"`
}

type Calculator interface {
	//jsonrpc: jsonrpc:"add" params:"position:1,0"
	Add(ctx context.Context, a, b int) (int, error)
	// Greet 返回问候语
	//jsonrpc: jsonrpc:"greet" params:"name:who" errdata:"Detail"
	Greet(name string) (string, error)
	//jsonrpc: jsonrpc:"ping"
	Ping(ctx context.Context) error
	//jsonrpc: jsonrpc:"clock.now" params:"none"
	Now(context.Context) (time.Time, error)
	//jsonrpc: jsonrpc:"reset" errdata:"Detail"
	Reset(ctx context.Context, client string) error
}
