package balancer

import (
	"hash/fnv"

	"github.com/nyan233/littlerpc-jsonrpc/core/middle/loadbalance"
)

// 相同的key在地址列表不变时总是选中同一个节点
type hashBalance struct {
	absBalance
}

func NewHash() Balancer {
	return new(hashBalance)
}

func (h *hashBalance) Scheme() string {
	return "hash"
}

func (h *hashBalance) Target(key string) (loadbalance.RpcNode, error) {
	hasher := fnv.New32a()
	_, _ = hasher.Write([]byte(key))
	sum := hasher.Sum32()
	return h.pick(func(length int) int {
		return int(sum % uint32(length))
	})
}
