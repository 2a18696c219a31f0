package client

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync/atomic"

	"github.com/nyan233/littlerpc-jsonrpc/core/common/errorhandler"
	"github.com/nyan233/littlerpc-jsonrpc/core/common/jsonrpc2"
	"github.com/nyan233/littlerpc-jsonrpc/core/common/logger"
	"github.com/nyan233/littlerpc-jsonrpc/core/middle/loadbalance/balancer"
	"github.com/nyan233/littlerpc-jsonrpc/core/middle/loadbalance/resolver"
)

// Call 一次调用的无类型描述, 所有的调用方式最终都会转换为Call
type Call struct {
	Method string
	Params jsonrpc2.Params
	// Result 不为nil时必须是一个非nil指针, 表示这次调用期望一个有类型的结果
	Result interface{}
	// ErrorData 不为nil时服务错误的data会被解码为该类型
	ErrorData reflect.Type
	// Notify 为true时请求不携带id, 也不会关联响应
	Notify  bool
	Options []CallOption
}

// clientSnapshot 在一次调用的整个过程中使用的都是同一个快照
type clientSnapshot struct {
	cfg           *Config
	pluginManager *pluginManager
}

// Client 可以被多个Goroutine同时使用, 调用之间互相独立
type Client struct {
	snapshot atomic.Pointer[clientSnapshot]
	// 配置了地址解析器时不为nil, 它们的生命周期与Client相同
	balancer balancer.Balancer
	resolver resolver.Resolver
}

func New(opts ...Option) (*Client, error) {
	config := &Config{}
	WithDefault()(config)
	for _, v := range opts {
		v(config)
	}
	if err := checkConfig(config); err != nil {
		return nil, err
	}
	client := new(Client)
	client.store(config)
	if config.ResolverScheme == "" {
		return client, nil
	}
	// 初始化负载均衡功能
	bf := balancer.Get(config.BalancerScheme)
	if bf == nil {
		return nil, fmt.Errorf("client: balancer %q not found", config.BalancerScheme)
	}
	client.balancer = bf()
	rf := resolver.Get(config.ResolverScheme)
	if rf == nil {
		return nil, fmt.Errorf("client: resolver %q not found", config.ResolverScheme)
	}
	r, err := rf(config.ResolverParseUrl, client.balancer, config.ResolverUpdateInterval)
	if err != nil {
		return nil, err
	}
	client.resolver = r
	return client, nil
}

func checkConfig(config *Config) error {
	if config.Codec == nil {
		return errors.New("client: codec not found")
	}
	if config.Transport == nil {
		return errors.New("client: transport is nil")
	}
	if config.IDGenerator == nil {
		return errors.New("client: id generator is nil")
	}
	if config.Logger == nil {
		config.Logger = logger.NilLogger
	}
	return nil
}

func (c *Client) store(config *Config) {
	c.snapshot.Store(&clientSnapshot{
		cfg:           config,
		pluginManager: newPluginManager(config.Plugins),
	})
}

// Update 在当前配置的拷贝上应用opts并原子的替换配置, 已经开始的调用不受影响
// 负载均衡与地址解析相关的配置只在New时生效
func (c *Client) Update(opts ...Option) error {
	config := c.snapshot.Load().cfg.clone()
	for _, v := range opts {
		v(config)
	}
	if err := checkConfig(config); err != nil {
		return err
	}
	c.store(config)
	return nil
}

// Config 返回当前配置的拷贝
func (c *Client) Config() Config {
	return *c.snapshot.Load().cfg.clone()
}

func (c *Client) Close() error {
	if c.resolver == nil {
		return nil
	}
	return c.resolver.Close()
}

// Notify 发送一个通知, 服务端返回2xx即视为完成, 响应体会被忽略
func (c *Client) Notify(ctx context.Context, method string, params jsonrpc2.Params, opts ...CallOption) error {
	return c.Do(ctx, &Call{Method: method, Params: params, Notify: true, Options: opts})
}

// Call 没有结果的调用, 期望服务端返回没有内容的2xx响应
func (c *Client) Call(ctx context.Context, method string, params jsonrpc2.Params, opts ...CallOption) error {
	return c.Do(ctx, &Call{Method: method, Params: params, Options: opts})
}

func (c *Client) endpoint(cfg *Config, method string) (string, func(), error) {
	if c.balancer == nil {
		if cfg.ServerAddr == "" {
			return "", nopDone, errorhandler.ErrNoEndpoint
		}
		return cfg.ServerAddr, nopDone, nil
	}
	node, err := c.balancer.Target(method)
	if err != nil {
		return "", nopDone, fmt.Errorf("%w: %w", errorhandler.ErrNoEndpoint, err)
	}
	// 有界负载的一致性哈希需要在调用结束后归还负载
	if d, ok := c.balancer.(interface{ Done(addr string) }); ok {
		return node.Address, func() { d.Done(node.Address) }, nil
	}
	return node.Address, nopDone, nil
}

func nopDone() {}
