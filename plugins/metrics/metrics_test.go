package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nyan233/littlerpc-jsonrpc/core/client"
	"github.com/nyan233/littlerpc-jsonrpc/core/common/jsonrpc2"
	"github.com/nyan233/littlerpc-jsonrpc/core/common/logger"
	"github.com/nyan233/littlerpc-jsonrpc/core/middle/plugin"
	perror "github.com/nyan233/littlerpc-jsonrpc/core/protocol/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reply = `{"jsonrpc":"2.0","id":1,"result":3}`

func TestClientMetrics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("X-Fail") != "" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = io.WriteString(w, reply)
	}))
	defer server.Close()
	m := NewClient()
	c, err := client.New(
		client.WithAddress(server.URL),
		client.WithCustomLogger(logger.NilLogger),
		client.WithIDGenerator(fixedID{}),
		client.WithPlugin(m),
	)
	require.NoError(t, err)

	sum, err := client.Invoke[int](context.Background(), c, "add", jsonrpc2.Positional(1, 2))
	require.NoError(t, err)
	assert.Equal(t, 3, sum)
	_, err = client.Invoke[int](context.Background(), c, "add", jsonrpc2.Positional(1, 2),
		client.WithCallHeader("X-Fail", "1"))
	require.Error(t, err)

	assert.Equal(t, int64(2), m.Call.LoadCount())
	assert.Equal(t, int64(1), m.Call.LoadComplete())
	assert.Equal(t, int64(1), m.Call.LoadFailed())
	assert.Equal(t, int64(1), m.Call.LoadFailedKind(perror.KindProtocol))
	assert.Equal(t, int64(2), m.Call.LoadAll())
	assert.Equal(t, int64(0), m.InFlight.Load())
	assert.Equal(t, int64(len(reply)), m.DownloadTraffic.Load())
	assert.Greater(t, m.UploadTraffic.Load(), int64(0))
}

func TestRejectedBeforeRequest(t *testing.T) {
	m := NewClient()
	pub := new(plugin.Context)
	// 前面的插件拒绝了请求, Request4C没有被调用
	m.AfterReceive4C(pub, errors.New("rejected"))
	assert.Equal(t, int64(0), m.Call.LoadFailed())
	assert.Equal(t, int64(0), m.InFlight.Load())
}

type fixedID struct{}

func (fixedID) NextID() jsonrpc2.ID {
	return jsonrpc2.NumberID(1)
}
