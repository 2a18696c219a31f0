package oauth2

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/nyan233/littlerpc-jsonrpc/core/client"
	"github.com/nyan233/littlerpc-jsonrpc/core/common/errorhandler"
	"github.com/nyan233/littlerpc-jsonrpc/core/common/jsonrpc2"
	"github.com/nyan233/littlerpc-jsonrpc/core/common/logger"
	"github.com/nyan233/littlerpc-jsonrpc/core/middle/plugin"
	perror "github.com/nyan233/littlerpc-jsonrpc/core/protocol/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

func newRpcServer(t *testing.T) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer abc" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(server.Close)
	return server
}

func newClient(t *testing.T, addr string, p plugin.ClientPlugin) *client.Client {
	c, err := client.New(
		client.WithAddress(addr),
		client.WithCustomLogger(logger.NilLogger),
		client.WithPlugin(p),
	)
	require.NoError(t, err)
	return c
}

func TestStaticToken(t *testing.T) {
	server := newRpcServer(t)
	c := newClient(t, server.URL, New(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "abc"})))
	assert.NoError(t, c.Call(context.Background(), "ping", jsonrpc2.NoParams()))
}

func TestClientCredentials(t *testing.T) {
	var issued atomic.Int64
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		issued.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"access_token":"abc","token_type":"bearer","expires_in":3600}`)
	}))
	defer tokenServer.Close()
	server := newRpcServer(t)
	c := newClient(t, server.URL, NewClientCredentials(context.Background(), &clientcredentials.Config{
		ClientID:     "littlerpc",
		ClientSecret: "secret",
		TokenURL:     tokenServer.URL,
	}))
	for i := 0; i < 3; i++ {
		assert.NoError(t, c.Call(context.Background(), "ping", jsonrpc2.NoParams()))
	}
	assert.Equal(t, int64(1), issued.Load())
}

type failSource struct{}

func (failSource) Token() (*oauth2.Token, error) {
	return nil, errors.New("no token")
}

func TestTokenError(t *testing.T) {
	server := newRpcServer(t)
	c := newClient(t, server.URL, New(failSource{}))
	err := c.Call(context.Background(), "ping", jsonrpc2.NoParams())
	assert.Equal(t, perror.KindUsage, perror.KindOf(err))
	assert.ErrorIs(t, err, errorhandler.ErrPlugin)
}
