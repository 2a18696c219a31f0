package metrics

import (
	"sync/atomic"
)

type Gauge struct {
	count atomic.Int64
	_     [128 - 8]byte
}

func (g *Gauge) Inc() {
	g.count.Add(1)
}

func (g *Gauge) Add(v int64) {
	g.count.Add(v)
}

func (g *Gauge) Set(v int64) {
	g.count.Store(v)
}

func (g *Gauge) Dec() {
	g.count.Add(-1)
}

func (g *Gauge) Load() int64 {
	return g.count.Load()
}

// TrafficMetrics 用于统计消息体的字节数, 不包括HTTP头
type TrafficMetrics struct {
	Gauge
}
