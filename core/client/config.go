package client

import (
	"net/http"
	"time"

	"github.com/nyan233/littlerpc-jsonrpc/core/common/logger"
	"github.com/nyan233/littlerpc-jsonrpc/core/middle/codec"
	"github.com/nyan233/littlerpc-jsonrpc/core/middle/plugin"
)

// Compatibility 决定了对服务端响应的宽容程度
type Compatibility uint8

const (
	// CompatibilityStrict 严格按照JSON-RPC 2.0校验响应
	CompatibilityStrict Compatibility = iota
	// CompatibilityLenient 兼容一些常见的不规范实现:
	//	1. 接受application/json-rpc & application/jsonrequest作为json的媒体类型
	//	2. 接受缺少jsonrpc成员的响应
	//	3. 接受error成员旁边的"result":null
	CompatibilityLenient
)

func (c Compatibility) String() string {
	switch c {
	case CompatibilityStrict:
		return "strict"
	case CompatibilityLenient:
		return "lenient"
	default:
		return "unknown"
	}
}

const DefaultUserAgent = "littlerpc-jsonrpc/1.0"

// Config 被Client持有时不可变, 变更通过Client.Update生成新的快照
type Config struct {
	// 服务器的地址, 例如: http://127.0.0.1:8080/rpc
	// 当配置了地址解析器的时候，此项将被忽略
	ServerAddr    string
	Compatibility Compatibility
	// 每个请求都会携带的header, 引擎自己设置的header优先
	Headers http.Header
	// 不为空时发送Accept-Encoding, 响应由客户端自己解压, 支持gzip/deflate/br
	// 为空时发送identity, 服务端不应压缩响应
	AcceptEncodings []string
	// 是否发送User-Agent
	UserAgent      bool
	UserAgentValue string
	// 是否计算sha-256的Content-Digest
	ContentDigest bool
	// 安装的插件, 按照顺序调用
	Plugins []plugin.ClientPlugin
	// 结构化数据编码器
	Codec       codec.Codec
	Logger      logger.LLogger
	Transport   Doer
	IDGenerator IDGenerator
	// 负载均衡规则, 默认可选hash/roundRobin/random/consistentHash
	BalancerScheme string
	// 地址解析器, 默认提供live/file/http/etcd, 为空时使用ServerAddr
	ResolverScheme   string
	ResolverParseUrl string
	// 地址列表的更新间隔
	ResolverUpdateInterval time.Duration
}

// clone 深拷贝会被调用者修改的字段
func (c *Config) clone() *Config {
	tmp := *c
	tmp.Headers = c.Headers.Clone()
	if c.AcceptEncodings != nil {
		tmp.AcceptEncodings = append([]string(nil), c.AcceptEncodings...)
	}
	if c.Plugins != nil {
		tmp.Plugins = append([]plugin.ClientPlugin(nil), c.Plugins...)
	}
	return &tmp
}
