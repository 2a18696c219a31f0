package balancer

import (
	"github.com/lafikl/consistent"
	"github.com/nyan233/littlerpc-jsonrpc/core/middle/loadbalance"
)

// 有界负载的一致性哈希, 同一个key会尽量落在同一个节点上
type consistentHash struct {
	absBalance
	chNodes *consistent.Consistent
}

func NewConsistentHash() Balancer {
	return &consistentHash{chNodes: consistent.New()}
}

func (c *consistentHash) Scheme() string {
	return "consistentHash"
}

func (c *consistentHash) IncNotify(keys []int, nodes []*loadbalance.RpcNode) {
	if len(keys) == 0 || len(keys) != len(nodes) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range keys {
		if v < 0 || v >= len(c.nodes) || nodes[k] == nil {
			continue
		}
		if old := c.nodes[v]; old != nil {
			c.chNodes.Remove(old.Address)
		}
		c.nodes[v] = nodes[k]
		c.chNodes.Add(nodes[k].Address)
	}
}

func (c *consistentHash) FullNotify(nodes []*loadbalance.RpcNode) {
	ch := consistent.New()
	tmp := make([]*loadbalance.RpcNode, 0, len(nodes))
	for _, node := range nodes {
		if node == nil {
			continue
		}
		tmp = append(tmp, node)
		ch.Add(node.Address)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nodes = tmp
	c.chNodes = ch
}

func (c *consistentHash) Target(key string) (loadbalance.RpcNode, error) {
	// Inc会修改负载计数, 所以需要写锁
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.nodes) == 0 {
		return loadbalance.RpcNode{}, ErrAbleUsageRpcNodes
	}
	addr, err := c.chNodes.GetLeast(key)
	if err != nil {
		return loadbalance.RpcNode{}, err
	}
	c.chNodes.Inc(addr)
	for _, node := range c.nodes {
		if node.Address == addr {
			return *node, nil
		}
	}
	return loadbalance.RpcNode{Address: addr}, nil
}

// Done 调用结束之后归还负载计数
// FullNotify/IncNotify之后节点的负载从0重新开始, 之前开始的调用不能把它减为负数
func (c *consistentHash) Done(addr string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.chNodes.GetLoads()[addr] <= 0 {
		return
	}
	c.chNodes.Done(addr)
}
