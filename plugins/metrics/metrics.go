package metrics

import (
	"sync/atomic"

	perror "github.com/nyan233/littlerpc-jsonrpc/core/protocol/error"
)

type CallMetrics struct {
	// 用于即未成功也未失败的计数, 可能由阻塞等原因引起
	Count    atomic.Int64
	Complete atomic.Int64
	Failed   atomic.Int64
	// 按照错误的种类统计失败
	kinds [perror.KindConfig + 1]atomic.Int64
}

func (m *CallMetrics) IncComplete() {
	m.Complete.Add(1)
}

func (m *CallMetrics) IncFailed(kind perror.Kind) {
	m.Failed.Add(1)
	if int(kind) < len(m.kinds) {
		m.kinds[kind].Add(1)
	}
}

func (m *CallMetrics) IncCount() {
	m.Count.Add(1)
}

func (m *CallMetrics) LoadComplete() int64 {
	return m.Complete.Load()
}

func (m *CallMetrics) LoadFailed() int64 {
	return m.Failed.Load()
}

func (m *CallMetrics) LoadFailedKind(kind perror.Kind) int64 {
	if int(kind) >= len(m.kinds) {
		return 0
	}
	return m.kinds[kind].Load()
}

func (m *CallMetrics) LoadCount() int64 {
	return m.Count.Load()
}

// LoadAll 已经结束的调用
func (m *CallMetrics) LoadAll() int64 {
	return m.LoadComplete() + m.LoadFailed()
}
