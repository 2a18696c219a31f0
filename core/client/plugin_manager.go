package client

import (
	"sync"

	"github.com/nyan233/littlerpc-jsonrpc/core/middle/plugin"
)

type pluginManager struct {
	ctxPool sync.Pool
	plugins []plugin.ClientPlugin
}

func newPluginManager(plugins []plugin.ClientPlugin) *pluginManager {
	return &pluginManager{
		ctxPool: sync.Pool{
			New: func() interface{} {
				return new(plugin.Context)
			},
		},
		plugins: plugins,
	}
}

func (p *pluginManager) Size() int {
	return len(p.plugins)
}

func (p *pluginManager) GetContext() *plugin.Context {
	return p.ctxPool.Get().(*plugin.Context)
}

func (p *pluginManager) FreeContext(ctx *plugin.Context) {
	ctx.Reset()
	p.ctxPool.Put(ctx)
}

func (p *pluginManager) Request4C(pub *plugin.Context, msg *plugin.Message) error {
	for _, p := range p.plugins {
		if err := p.Request4C(pub, msg); err != nil {
			return err
		}
	}
	return nil
}

func (p *pluginManager) Send4C(pub *plugin.Context, msg *plugin.Message, err error) {
	for _, p := range p.plugins {
		p.Send4C(pub, msg, err)
	}
}

func (p *pluginManager) Receive4C(pub *plugin.Context, status int, msg *plugin.Message) {
	for _, p := range p.plugins {
		p.Receive4C(pub, status, msg)
	}
}

func (p *pluginManager) AfterReceive4C(pub *plugin.Context, err error) {
	for _, p := range p.plugins {
		p.AfterReceive4C(pub, err)
	}
}
