package client

import (
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
)

// Doer 客户端使用的HTTP传输, *http.Client实现了该接口
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type DoerFunc func(req *http.Request) (*http.Response, error)

func (f DoerFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

// decompressReader 只有当Content-Encoding是客户端自己请求过的编码时才解压
// 否则原样返回, 交给之后的校验处理
func decompressReader(contentEncoding string, accepted []string, r io.Reader) (io.Reader, func() error, error) {
	encoding := strings.ToLower(strings.TrimSpace(contentEncoding))
	if encoding == "" || encoding == "identity" || !containsFold(accepted, encoding) {
		return r, nopClose, nil
	}
	switch encoding {
	case "gzip", "x-gzip":
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return gr, gr.Close, nil
	case "deflate":
		zr, err := zlib.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return zr, zr.Close, nil
	case "br":
		return brotli.NewReader(r), nopClose, nil
	default:
		return nil, nil, fmt.Errorf("unsupported content encoding %q", encoding)
	}
}

func nopClose() error {
	return nil
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(strings.TrimSpace(v), s) {
			return true
		}
	}
	return false
}

// readBody 读取完整的响应体, 返回的body是已经解压的
func readBody(resp *http.Response, accepted []string) ([]byte, error) {
	if resp.Body == nil {
		return nil, nil
	}
	r, closer, err := decompressReader(resp.Header.Get("Content-Encoding"), accepted, resp.Body)
	if err != nil {
		return nil, err
	}
	defer closer()
	return io.ReadAll(r)
}
