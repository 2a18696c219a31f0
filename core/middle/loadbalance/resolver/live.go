package resolver

import (
	"time"

	"github.com/nyan233/littlerpc-jsonrpc/core/middle/loadbalance"
)

// 从url信息中原地解析
// 格式: http://127.0.0.1:8080/rpc;http://192.168.1.1:8080/rpc
type liveResolver struct {
	resolverBase
}

func NewLive(initUrl string, u Update, scanInterval time.Duration) (Resolver, error) {
	lr := new(liveResolver)
	lr.init(initUrl, u, scanInterval)
	nodes, err := lr.Parse()
	if err != nil {
		return nil, err
	}
	lr.updateInter.FullNotify(nodes)
	return lr, nil
}

func (l *liveResolver) Parse() ([]*loadbalance.RpcNode, error) {
	return splitNodes(l.parseUrl, ";"), nil
}

func (l *liveResolver) Scheme() string {
	return "live"
}
