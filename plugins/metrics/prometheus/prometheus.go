package prometheus

import (
	"net/http"
	"time"

	"github.com/nyan233/littlerpc-jsonrpc/core/middle/plugin"
	perror "github.com/nyan233/littlerpc-jsonrpc/core/protocol/error"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Exporter struct {
	plugin.AbstractClient
	registry     *prometheus.Registry
	traffic      *prometheus.CounterVec
	counter      *prometheus.CounterVec
	intervalTime *prometheus.HistogramVec
}

// NewClient 指标注册到独立的Registry中, 通过Handler暴露
func NewClient(namespace string) *Exporter {
	exp := &Exporter{registry: prometheus.NewRegistry()}
	exp.traffic = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "traffic_bytes_total",
		Help:      "调用的出入口流量统计",
	}, []string{"endpoint", "method", "type"})
	exp.counter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "calls_total",
		Help:      "调用次数统计, result为ok或者错误的种类",
	}, []string{"endpoint", "method", "result"})
	exp.intervalTime = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "call_duration_seconds",
		Help:      "调用的耗时",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint", "method"})
	exp.registry.MustRegister(exp.traffic, exp.counter, exp.intervalTime)
	return exp
}

func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

func (e *Exporter) Send4C(pub *plugin.Context, msg *plugin.Message, err error) {
	if err != nil || msg == nil {
		return
	}
	e.traffic.WithLabelValues(pub.Endpoint, pub.Method, "send").Add(float64(len(msg.Body)))
}

func (e *Exporter) Receive4C(pub *plugin.Context, status int, msg *plugin.Message) {
	if msg == nil {
		return
	}
	e.traffic.WithLabelValues(pub.Endpoint, pub.Method, "recv").Add(float64(len(msg.Body)))
}

func (e *Exporter) AfterReceive4C(pub *plugin.Context, err error) {
	result := "ok"
	if err != nil {
		result = perror.KindOf(err).String()
	}
	e.counter.WithLabelValues(pub.Endpoint, pub.Method, result).Inc()
	if !pub.Start().IsZero() {
		e.intervalTime.WithLabelValues(pub.Endpoint, pub.Method).Observe(time.Since(pub.Start()).Seconds())
	}
}
