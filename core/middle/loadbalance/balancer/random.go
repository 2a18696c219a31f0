package balancer

import (
	"math/rand"

	"github.com/nyan233/littlerpc-jsonrpc/core/middle/loadbalance"
)

type randomBalance struct {
	absBalance
}

func NewRandom() Balancer {
	return new(randomBalance)
}

func (r *randomBalance) Scheme() string {
	return "random"
}

func (r *randomBalance) Target(key string) (loadbalance.RpcNode, error) {
	return r.pick(rand.Intn)
}
