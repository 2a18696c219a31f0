package client

import (
	"net/http"

	"github.com/nyan233/littlerpc-jsonrpc/core/common/jsonrpc2"
)

type callConfig struct {
	id      jsonrpc2.ID
	idSet   bool
	headers http.Header
}

type CallOption func(cc *callConfig)

// WithID 使用调用者提供的id, 不再自动生成
// 需要结果的调用不能使用absent id, 无结果的调用使用absent id时请求不携带id
func WithID(id jsonrpc2.ID) CallOption {
	return func(cc *callConfig) {
		cc.id = id
		cc.idSet = true
	}
}

func WithCallHeader(key, value string) CallOption {
	return func(cc *callConfig) {
		if cc.headers == nil {
			cc.headers = make(http.Header, 2)
		}
		cc.headers.Add(key, value)
	}
}

func newCallConfig(opts []CallOption) *callConfig {
	cc := new(callConfig)
	for _, opt := range opts {
		if opt != nil {
			opt(cc)
		}
	}
	return cc
}
