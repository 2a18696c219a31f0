package resolver

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nyan233/littlerpc-jsonrpc/core/middle/loadbalance"
)

// 从Http Url中解析地址列表,url格式要求为:
//
//	http://addr/source,比如: http://127.0.0.1/addrs.txt
//
// Http报文Body中要求传回的数据格式要求为一行一个地址
type httpResolver struct {
	resolverBase
	client *http.Client
}

func NewHttp(initUrl string, u Update, scanInterval time.Duration) (Resolver, error) {
	hr := &httpResolver{client: &http.Client{Timeout: time.Second * 5}}
	hr.init(initUrl, u, scanInterval)
	nodes, err := hr.Parse()
	if err != nil {
		return nil, err
	}
	hr.updateInter.FullNotify(nodes)
	hr.scan(hr.Parse)
	return hr, nil
}

func (h *httpResolver) Parse() ([]*loadbalance.RpcNode, error) {
	response, err := h.client.Get(h.parseUrl)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, fmt.Errorf("resolver: %s returned status %d", h.parseUrl, response.StatusCode)
	}
	bytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}
	return splitNodes(string(bytes), "\n"), nil
}

func (h *httpResolver) Scheme() string {
	return "http"
}
