package prometheus

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nyan233/littlerpc-jsonrpc/core/common/jsonrpc2"
	"github.com/nyan233/littlerpc-jsonrpc/core/common/logger"
	"github.com/nyan233/littlerpc-jsonrpc/core/middle/plugin"
	perror "github.com/nyan233/littlerpc-jsonrpc/core/protocol/error"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExporter(t *testing.T) {
	exp := NewClient("jsonrpc")
	pub := new(plugin.Context)
	pub.Init(context.Background(), logger.NilLogger, "add", jsonrpc2.NumberID(1), "http://a/rpc")
	exp.Send4C(pub, &plugin.Message{Body: make([]byte, 10)}, nil)
	exp.Receive4C(pub, 200, &plugin.Message{Body: make([]byte, 4)})
	exp.AfterReceive4C(pub, nil)
	exp.AfterReceive4C(pub, &perror.ServiceError{RpcCode: 1})

	assert.Equal(t, float64(10), testutil.ToFloat64(exp.traffic.WithLabelValues("http://a/rpc", "add", "send")))
	assert.Equal(t, float64(4), testutil.ToFloat64(exp.traffic.WithLabelValues("http://a/rpc", "add", "recv")))
	assert.Equal(t, float64(1), testutil.ToFloat64(exp.counter.WithLabelValues("http://a/rpc", "add", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(exp.counter.WithLabelValues("http://a/rpc", "add", "Service")))

	server := httptest.NewServer(exp.Handler())
	defer server.Close()
	rsp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer rsp.Body.Close()
	body, err := io.ReadAll(rsp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "jsonrpc_calls_total")
	assert.Contains(t, string(body), "jsonrpc_call_duration_seconds")
}
