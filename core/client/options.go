package client

import (
	"net/http"
	"strings"
	"time"

	"github.com/nyan233/littlerpc-jsonrpc/core/common/logger"
	"github.com/nyan233/littlerpc-jsonrpc/core/middle/codec"
	"github.com/nyan233/littlerpc-jsonrpc/core/middle/plugin"
)

type Option func(config *Config)

// DirectConfig 这个接口不保证兼容性, 应该谨慎使用
// Config中的内容可能会变动, 或者被修改了语义
func DirectConfig(uCfg Config) Option {
	return func(config *Config) {
		*config = *uCfg.clone()
	}
}

func WithDefault() Option {
	return func(config *Config) {
		WithCustomLogger(logger.DefaultLogger)(config)
		WithCodec("json")(config)
		WithTransport(http.DefaultClient)(config)
		WithIDGenerator(NewCounterGenerator())(config)
		WithCompatibility(CompatibilityStrict)(config)
		WithUserAgent(DefaultUserAgent)(config)
		WithBalancer("roundRobin")(config)
		WithResolverUpdateInterval(time.Second * 120)(config)
	}
}

func WithAddress(addr string) Option {
	return func(config *Config) {
		config.ServerAddr = addr
	}
}

// WithEndpoints 在多个固定的地址之间负载均衡
func WithEndpoints(addrs ...string) Option {
	return WithResolver("live", strings.Join(addrs, ";"))
}

func WithCustomLogger(logger logger.LLogger) Option {
	return func(config *Config) {
		config.Logger = logger
	}
}

// WithCodec scheme不存在时Codec为nil, New/Update会返回错误
func WithCodec(scheme string) Option {
	return func(config *Config) {
		config.Codec = codec.GetCodecFromScheme(scheme)
	}
}

func WithCustomCodec(c codec.Codec) Option {
	return func(config *Config) {
		config.Codec = c
	}
}

func WithTransport(d Doer) Option {
	return func(config *Config) {
		config.Transport = d
	}
}

func WithIDGenerator(g IDGenerator) Option {
	return func(config *Config) {
		config.IDGenerator = g
	}
}

// WithUUIDv7 使用UUIDv7作为字符串id
func WithUUIDv7() Option {
	return WithIDGenerator(NewUUIDGenerator())
}

func WithCompatibility(level Compatibility) Option {
	return func(config *Config) {
		config.Compatibility = level
	}
}

func WithHeader(key, value string) Option {
	return func(config *Config) {
		if config.Headers == nil {
			config.Headers = make(http.Header, 4)
		}
		config.Headers.Add(key, value)
	}
}

func WithAcceptEncoding(encodings ...string) Option {
	return func(config *Config) {
		config.AcceptEncodings = encodings
	}
}

func WithUserAgent(ua string) Option {
	return func(config *Config) {
		config.UserAgent = true
		config.UserAgentValue = ua
	}
}

func WithNoUserAgent() Option {
	return func(config *Config) {
		config.UserAgent = false
	}
}

func WithContentDigest(ok bool) Option {
	return func(config *Config) {
		config.ContentDigest = ok
	}
}

func WithPlugin(plugin plugin.ClientPlugin) Option {
	return func(config *Config) {
		config.Plugins = append(config.Plugins, plugin)
	}
}

// WithRequestHook 安装一个只在请求发送之前调用的插件
func WithRequestHook(fn plugin.RequestHook) Option {
	return WithPlugin(plugin.Hook(fn))
}

func WithBalancer(scheme string) Option {
	return func(config *Config) {
		config.BalancerScheme = scheme
	}
}

func WithResolver(scheme, parseUrl string) Option {
	return func(config *Config) {
		config.ResolverScheme = scheme
		config.ResolverParseUrl = parseUrl
	}
}

func WithResolverUpdateInterval(interval time.Duration) Option {
	return func(config *Config) {
		config.ResolverUpdateInterval = interval
	}
}
