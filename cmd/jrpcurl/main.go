package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nyan233/littlerpc-jsonrpc/core/client"
	"github.com/nyan233/littlerpc-jsonrpc/core/common/jsonrpc2"
	"github.com/nyan233/littlerpc-jsonrpc/core/common/logger"
	"github.com/nyan233/littlerpc-jsonrpc/core/middle/codec"
	perror "github.com/nyan233/littlerpc-jsonrpc/core/protocol/error"
	"github.com/spf13/cobra"
)

type OutType string

const (
	FormatJson OutType = "format_json"
	Json       OutType = "json"
	Text       OutType = "text"
)

type options struct {
	Address  string
	Config   string
	EnvFiles []string
	Codec    string
	Headers  []string
	Named    bool
	Raw      string
	Notify   bool
	Lenient  bool
	OutType  string
	Verbose  bool
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "jrpcurl <method> [params...]",
		Short: "在命令行中发起一次JSON-RPC调用",
		Long: `在命令行中发起一次JSON-RPC调用, 参数可以是JSON值, 不能解析为JSON的参数被视为字符串

Example:
  jrpcurl -a http://127.0.0.1:8080/rpc add 1 2
  jrpcurl -a http://127.0.0.1:8080/rpc --named greet who=bob
  jrpcurl --config client.yaml --params '{"who":"bob"}' greet`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args[0], args[1:])
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.Address, "address", "a", "", "服务器地址, Example: http://127.0.0.1:8080/rpc")
	flags.StringVar(&opts.Config, "config", "", "yaml配置文件")
	flags.StringSliceVar(&opts.EnvFiles, "env", nil, "dotenv文件, 读取LRPC_开头的配置")
	flags.StringVar(&opts.Codec, "codec", "", "编解码器(json|cbor)")
	flags.StringArrayVarP(&opts.Headers, "header", "H", nil, "附加的请求头: Key: Value")
	flags.BoolVarP(&opts.Named, "named", "N", false, "参数的格式为key=value, 以对象的形式传递")
	flags.StringVarP(&opts.Raw, "params", "p", "", "以JSON形式给出完整的params: [1,2] 或者 {\"a\":1}")
	flags.BoolVarP(&opts.Notify, "notify", "n", false, "发送通知, 不等待结果")
	flags.BoolVar(&opts.Lenient, "lenient", false, "使用宽松的兼容模式")
	flags.StringVarP(&opts.OutType, "out_type", "t", string(FormatJson), "输出的格式(format_json/json/text)")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "输出调试日志")
	return cmd
}

func run(cmd *cobra.Command, opts *options, method string, args []string) error {
	logger.SetOpenLogger(opts.Verbose)
	clientOpts, err := loadOptions(opts)
	if err != nil {
		return err
	}
	c, err := client.New(clientOpts...)
	if err != nil {
		return err
	}
	defer c.Close()
	params, err := parseParams(opts, args)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if opts.Notify {
		return c.Notify(ctx, method, params)
	}
	var result jsonrpc2.RawValue
	err = c.Do(ctx, &client.Call{Method: method, Params: params, Result: &result})
	if err != nil {
		return describe(err)
	}
	return output(cmd.OutOrStdout(), c.Config().Codec, result, OutType(opts.OutType))
}

// loadOptions 配置文件 -> dotenv -> 命令行参数, 后者覆盖前者
func loadOptions(opts *options) ([]client.Option, error) {
	var clientOpts []client.Option
	if opts.Config != "" {
		fileOpts, err := client.LoadConfigFile(opts.Config)
		if err != nil {
			return nil, err
		}
		clientOpts = append(clientOpts, fileOpts...)
	}
	if len(opts.EnvFiles) > 0 {
		envOpts, err := client.LoadEnvConfig(opts.EnvFiles...)
		if err != nil {
			return nil, err
		}
		clientOpts = append(clientOpts, envOpts...)
	}
	if !opts.Verbose {
		clientOpts = append(clientOpts, client.WithCustomLogger(logger.NilLogger))
	}
	if opts.Address != "" {
		clientOpts = append(clientOpts, client.WithAddress(opts.Address))
	}
	if opts.Codec != "" {
		clientOpts = append(clientOpts, client.WithCodec(opts.Codec))
	}
	if opts.Lenient {
		clientOpts = append(clientOpts, client.WithCompatibility(client.CompatibilityLenient))
	}
	for _, header := range opts.Headers {
		k, v, ok := strings.Cut(header, ":")
		if !ok {
			return nil, fmt.Errorf("invalid header %q", header)
		}
		clientOpts = append(clientOpts, client.WithHeader(strings.TrimSpace(k), strings.TrimSpace(v)))
	}
	return clientOpts, nil
}

func parseParams(opts *options, args []string) (jsonrpc2.Params, error) {
	if opts.Raw != "" {
		if len(args) > 0 {
			return jsonrpc2.Params{}, errors.New("--params cannot be used with positional params")
		}
		var v interface{}
		if err := json.Unmarshal([]byte(strings.TrimPrefix(opts.Raw, "\xef\xbb\xbf")), &v); err != nil {
			return jsonrpc2.Params{}, fmt.Errorf("invalid --params: %w", err)
		}
		switch val := v.(type) {
		case []interface{}:
			return jsonrpc2.Positional(val...), nil
		case map[string]interface{}:
			return jsonrpc2.Named(val), nil
		default:
			return jsonrpc2.Params{}, errors.New("--params must be an array or an object")
		}
	}
	if opts.Named {
		named := make(map[string]interface{}, len(args))
		for _, arg := range args {
			k, v, ok := strings.Cut(arg, "=")
			if !ok || k == "" {
				return jsonrpc2.Params{}, fmt.Errorf("named param %q is not key=value", arg)
			}
			named[k] = parseValue(v)
		}
		return jsonrpc2.Named(named), nil
	}
	if len(args) == 0 {
		return jsonrpc2.NoParams(), nil
	}
	list := make([]interface{}, 0, len(args))
	for _, arg := range args {
		list = append(list, parseValue(arg))
	}
	return jsonrpc2.Positional(list...), nil
}

// parseValue 不能解析为JSON的值被视为字符串
func parseValue(s string) interface{} {
	var v interface{}
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	return v
}

func describe(err error) error {
	var se *perror.ServiceError
	if errors.As(err, &se) {
		if len(se.RawData) > 0 {
			return fmt.Errorf("service error %d: %s (data: %s)", se.Code(), se.Message(), se.RawData)
		}
		return fmt.Errorf("service error %d: %s", se.Code(), se.Message())
	}
	return fmt.Errorf("%s: %w", perror.KindOf(err), err)
}

func output(w io.Writer, c codec.Codec, result jsonrpc2.RawValue, ot OutType) error {
	if len(result) == 0 {
		return nil
	}
	var v interface{}
	if err := c.Unmarshal(result, &v); err != nil {
		return err
	}
	switch ot {
	case Text:
		if s, ok := v.(string); ok {
			_, err := fmt.Fprintln(w, s)
			return err
		}
		_, err := fmt.Fprintf(w, "%v\n", v)
		return err
	case Json, FormatJson:
		data, err := json.Marshal(v)
		if err != nil {
			// cbor的map的key不一定是字符串
			_, err = fmt.Fprintf(w, "%v\n", v)
			return err
		}
		if ot == FormatJson {
			var buf bytes.Buffer
			if err := json.Indent(&buf, data, "", "\t"); err != nil {
				return err
			}
			data = buf.Bytes()
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	default:
		return fmt.Errorf("invalid output format %q", ot)
	}
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
