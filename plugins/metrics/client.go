package metrics

import (
	"github.com/nyan233/littlerpc-jsonrpc/core/middle/plugin"
	perror "github.com/nyan233/littlerpc-jsonrpc/core/protocol/error"
)

type ClientMetricsPlugin struct {
	plugin.AbstractClient
	Call            *CallMetrics
	UploadTraffic   *TrafficMetrics
	DownloadTraffic *TrafficMetrics
	// InFlight 已经开始但还没有结束的调用
	InFlight *Gauge
}

func NewClient() *ClientMetricsPlugin {
	return &ClientMetricsPlugin{
		Call:            new(CallMetrics),
		UploadTraffic:   new(TrafficMetrics),
		DownloadTraffic: new(TrafficMetrics),
		InFlight:        new(Gauge),
	}
}

func (c *ClientMetricsPlugin) Request4C(pub *plugin.Context, msg *plugin.Message) error {
	c.Call.IncCount()
	c.InFlight.Inc()
	pub.SetValue(c, true)
	return nil
}

func (c *ClientMetricsPlugin) Send4C(pub *plugin.Context, msg *plugin.Message, err error) {
	if err != nil || msg == nil {
		return
	}
	c.UploadTraffic.Add(int64(len(msg.Body)))
}

func (c *ClientMetricsPlugin) Receive4C(pub *plugin.Context, status int, msg *plugin.Message) {
	if msg == nil {
		return
	}
	c.DownloadTraffic.Add(int64(len(msg.Body)))
}

func (c *ClientMetricsPlugin) AfterReceive4C(pub *plugin.Context, err error) {
	// 在Request4C之前失败的调用没有被计数
	if started, _ := pub.Value(c).(bool); !started {
		return
	}
	c.InFlight.Dec()
	if err != nil {
		c.Call.IncFailed(perror.KindOf(err))
		return
	}
	c.Call.IncComplete()
}
