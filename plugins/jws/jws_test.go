package jws

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-jose/go-jose/v4"
	"github.com/nyan233/littlerpc-jsonrpc/core/client"
	"github.com/nyan233/littlerpc-jsonrpc/core/common/jsonrpc2"
	"github.com/nyan233/littlerpc-jsonrpc/core/common/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigner(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := Verify(r.Header.Get(HeaderName), body, jose.ES256, &key.PublicKey); err != nil {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()
	signer, err := New(jose.ES256, key)
	require.NoError(t, err)
	c, err := client.New(
		client.WithAddress(server.URL),
		client.WithCustomLogger(logger.NilLogger),
		client.WithPlugin(signer),
	)
	require.NoError(t, err)
	assert.NoError(t, c.Call(context.Background(), "transfer", jsonrpc2.Named(map[string]int{"amount": 100})))
}

func TestVerify(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")
	signer, err := New(jose.HS256, key)
	require.NoError(t, err)
	body := []byte(`{"jsonrpc":"2.0","method":"m","id":1}`)
	obj, err := signer.signer.Sign(body)
	require.NoError(t, err)
	compact, err := obj.DetachedCompactSerialize()
	require.NoError(t, err)
	assert.NoError(t, Verify(compact, body, jose.HS256, key))
	assert.Error(t, Verify(compact, []byte(`{}`), jose.HS256, key))
	assert.Error(t, Verify(compact, body, jose.HS256, []byte("another key another key another!")))
}
