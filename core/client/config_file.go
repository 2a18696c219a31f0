package client

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "LRPC_"

// FileConfig 配置文件/环境变量中可以出现的配置项, 转换为Option之后使用
//
//	address: http://127.0.0.1:8080/rpc
//	codec: json
//	compatibility: lenient
//	headers:
//	  X-Tenant: littlerpc
//	accept_encodings: [gzip, br]
//	user_agent: my-agent/1.0
//	content_digest: true
//	id_scheme: uuid
//	balancer: consistentHash
//	resolver: live
//	resolver_url: http://127.0.0.1:8080/rpc;http://127.0.0.1:8081/rpc
//	resolver_interval: 30s
type FileConfig struct {
	Address          string            `yaml:"address"`
	Codec            string            `yaml:"codec"`
	Compatibility    string            `yaml:"compatibility"`
	Headers          map[string]string `yaml:"headers"`
	AcceptEncodings  []string          `yaml:"accept_encodings"`
	UserAgent        *string           `yaml:"user_agent"`
	ContentDigest    bool              `yaml:"content_digest"`
	IDScheme         string            `yaml:"id_scheme"`
	Balancer         string            `yaml:"balancer"`
	Resolver         string            `yaml:"resolver"`
	ResolverUrl      string            `yaml:"resolver_url"`
	ResolverInterval time.Duration     `yaml:"resolver_interval"`
}

// LoadConfigFile 从yaml文件中读取配置
func LoadConfigFile(path string) ([]Option, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fc := new(FileConfig)
	if err := yaml.Unmarshal(data, fc); err != nil {
		return nil, fmt.Errorf("client: parse config file %s: %w", path, err)
	}
	return fc.Options()
}

// LoadEnvConfig 从dotenv文件中读取LRPC_开头的配置, 没有指定文件时读取.env
// 进程的环境变量优先于文件中的值
//
//	LRPC_ADDRESS=http://127.0.0.1:8080/rpc
//	LRPC_HEADERS=X-Tenant=littlerpc,X-Zone=cn
//	LRPC_ACCEPT_ENCODINGS=gzip,br
func LoadEnvConfig(files ...string) ([]Option, error) {
	env, err := godotenv.Read(files...)
	if err != nil {
		return nil, err
	}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok && strings.HasPrefix(k, EnvPrefix) {
			env[k] = v
		}
	}
	fc, err := envToFileConfig(env)
	if err != nil {
		return nil, err
	}
	return fc.Options()
}

func envToFileConfig(env map[string]string) (*FileConfig, error) {
	fc := new(FileConfig)
	var err error
	for k, v := range env {
		if !strings.HasPrefix(k, EnvPrefix) {
			continue
		}
		switch strings.TrimPrefix(k, EnvPrefix) {
		case "ADDRESS":
			fc.Address = v
		case "CODEC":
			fc.Codec = v
		case "COMPATIBILITY":
			fc.Compatibility = v
		case "HEADERS":
			fc.Headers = make(map[string]string, 4)
			for _, pair := range splitList(v) {
				hk, hv, ok := strings.Cut(pair, "=")
				if !ok {
					return nil, fmt.Errorf("client: %s: header %q is not key=value", k, pair)
				}
				fc.Headers[strings.TrimSpace(hk)] = strings.TrimSpace(hv)
			}
		case "ACCEPT_ENCODINGS":
			fc.AcceptEncodings = splitList(v)
		case "USER_AGENT":
			ua := v
			fc.UserAgent = &ua
		case "CONTENT_DIGEST":
			fc.ContentDigest, err = strconv.ParseBool(v)
		case "ID_SCHEME":
			fc.IDScheme = v
		case "BALANCER":
			fc.Balancer = v
		case "RESOLVER":
			fc.Resolver = v
		case "RESOLVER_URL":
			fc.ResolverUrl = v
		case "RESOLVER_INTERVAL":
			fc.ResolverInterval, err = time.ParseDuration(v)
		}
		if err != nil {
			return nil, fmt.Errorf("client: %s: %w", k, err)
		}
	}
	return fc, nil
}

func splitList(s string) []string {
	var list []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			list = append(list, v)
		}
	}
	return list
}

// Options 未出现的配置项不会生成Option, 保持WithDefault的值
func (fc *FileConfig) Options() ([]Option, error) {
	opts := make([]Option, 0, 8)
	if fc.Address != "" {
		opts = append(opts, WithAddress(fc.Address))
	}
	if fc.Codec != "" {
		opts = append(opts, WithCodec(fc.Codec))
	}
	switch strings.ToLower(fc.Compatibility) {
	case "":
	case "strict":
		opts = append(opts, WithCompatibility(CompatibilityStrict))
	case "lenient":
		opts = append(opts, WithCompatibility(CompatibilityLenient))
	default:
		return nil, fmt.Errorf("client: unknown compatibility %q", fc.Compatibility)
	}
	for k, v := range fc.Headers {
		opts = append(opts, WithHeader(k, v))
	}
	if len(fc.AcceptEncodings) > 0 {
		opts = append(opts, WithAcceptEncoding(fc.AcceptEncodings...))
	}
	if fc.UserAgent != nil {
		if *fc.UserAgent == "" {
			opts = append(opts, WithNoUserAgent())
		} else {
			opts = append(opts, WithUserAgent(*fc.UserAgent))
		}
	}
	if fc.ContentDigest {
		opts = append(opts, WithContentDigest(true))
	}
	switch strings.ToLower(fc.IDScheme) {
	case "", "counter":
	case "uuid":
		opts = append(opts, WithUUIDv7())
	default:
		return nil, fmt.Errorf("client: unknown id scheme %q", fc.IDScheme)
	}
	if fc.Balancer != "" {
		opts = append(opts, WithBalancer(fc.Balancer))
	}
	if fc.Resolver != "" {
		opts = append(opts, WithResolver(fc.Resolver, fc.ResolverUrl))
	}
	if fc.ResolverInterval > 0 {
		opts = append(opts, WithResolverUpdateInterval(fc.ResolverInterval))
	}
	return opts, nil
}
