package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nyan233/littlerpc-jsonrpc/pxtor"
	"github.com/spf13/cobra"
)

type options struct {
	Dir    string
	Out    string
	DryRun bool
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "pxtor <Interface>",
		Short: "生成JSON-RPC接口的代理对象",
		Long: `解析目录中带有//jsonrpc:指令的接口, 生成转发到client.Client的代理对象

Example:
  pxtor -d ./api Calculator`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return generate(cmd, opts, args[0])
		},
	}
	cmd.Flags().StringVarP(&opts.Dir, "dir", "d", "./", "解析接口的路径")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "输出的文件名, 默认的格式: interface_proxy.go")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "输出到stdout而不是文件")
	return cmd
}

func generate(cmd *cobra.Command, opts *options, iface string) error {
	src, err := pxtor.Generate(opts.Dir, iface)
	if err != nil {
		return err
	}
	if opts.DryRun {
		_, err = cmd.OutOrStdout().Write(src)
		return err
	}
	out := opts.Out
	if out == "" {
		out = strings.ToLower(iface) + "_proxy.go"
	}
	if !filepath.IsAbs(out) {
		out = filepath.Join(opts.Dir, out)
	}
	if err := os.WriteFile(out, src, 0644); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "generate %s\n", out)
	return nil
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
