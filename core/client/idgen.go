package client

import (
	"math/rand"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/nyan233/littlerpc-jsonrpc/core/common/jsonrpc2"
)

// IDGenerator 为需要关联响应的调用生成id, 实现必须是线程安全的
type IDGenerator interface {
	NextID() jsonrpc2.ID
}

type counterGenerator struct {
	// 起始值随机分配, 避免多个客户端实例的id总是从同一个值开始
	count atomic.Int64
}

func NewCounterGenerator() IDGenerator {
	g := new(counterGenerator)
	g.count.Store(int64(rand.Uint32()))
	return g
}

func (g *counterGenerator) NextID() jsonrpc2.ID {
	return jsonrpc2.NumberID(g.count.Add(1))
}

type uuidGenerator struct{}

// NewUUIDGenerator 生成UUIDv7字符串id, 按时间有序
func NewUUIDGenerator() IDGenerator {
	return uuidGenerator{}
}

func (uuidGenerator) NextID() jsonrpc2.ID {
	id, err := uuid.NewV7()
	if err != nil {
		return jsonrpc2.StringID(uuid.NewString())
	}
	return jsonrpc2.StringID(id.String())
}
