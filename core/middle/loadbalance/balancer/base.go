package balancer

import (
	"sync"

	"github.com/nyan233/littlerpc-jsonrpc/core/middle/loadbalance"
)

type absBalance struct {
	mu    sync.RWMutex
	nodes []*loadbalance.RpcNode
}

func (b *absBalance) IncNotify(keys []int, nodes []*loadbalance.RpcNode) {
	if len(keys) == 0 || len(keys) != len(nodes) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for k, v := range keys {
		if v < 0 || v >= len(b.nodes) {
			continue
		}
		b.nodes[v] = nodes[k]
	}
}

func (b *absBalance) FullNotify(nodes []*loadbalance.RpcNode) {
	tmp := make([]*loadbalance.RpcNode, len(nodes))
	copy(tmp, nodes)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nodes = tmp
}

// pick 在读锁内使用index从地址列表中选出一个节点, index的范围是[0, length)
func (b *absBalance) pick(index func(length int) int) (loadbalance.RpcNode, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(b.nodes) == 0 {
		return loadbalance.RpcNode{}, ErrAbleUsageRpcNodes
	}
	node := b.nodes[index(len(b.nodes))]
	if node == nil {
		return loadbalance.RpcNode{}, ErrAbleUsageRpcNodes
	}
	return *node, nil
}
