package balancer

import (
	"sync/atomic"

	"github.com/nyan233/littlerpc-jsonrpc/core/middle/loadbalance"
)

type roundRobbin struct {
	absBalance
	count atomic.Uint64
}

func NewRoundRobin() Balancer {
	return new(roundRobbin)
}

func (r *roundRobbin) Scheme() string {
	return "roundRobin"
}

func (r *roundRobbin) Target(key string) (loadbalance.RpcNode, error) {
	return r.pick(func(length int) int {
		return int((r.count.Add(1) - 1) % uint64(length))
	})
}
