package resolver

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/nyan233/littlerpc-jsonrpc/core/middle/loadbalance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver(t *testing.T) {
	t.Run("TestFileResolver", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "address.txt")
		testResolver(t, func(nodes []*loadbalance.RpcNode) {
			addresses := node2Address(nodes)
			require.NoError(t, os.WriteFile(path, []byte(strings.Join(addresses, "\n")+"\n"), 0644))
		}, func(u Update) (Resolver, error) {
			return NewFile(path, u, DefaultScanInterval)
		})
	})
	t.Run("TestLiveResolver", func(t *testing.T) {
		var parseUrl string
		testResolver(t, func(nodes []*loadbalance.RpcNode) {
			parseUrl = strings.Join(node2Address(nodes), ";")
		}, func(u Update) (Resolver, error) {
			return NewLive(parseUrl, u, DefaultScanInterval)
		})
	})
	t.Run("TestHttpResolver", func(t *testing.T) {
		var addressData string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(addressData))
		}))
		defer server.Close()
		testResolver(t, func(nodes []*loadbalance.RpcNode) {
			addressData = strings.Join(node2Address(nodes), "\n")
		}, func(u Update) (Resolver, error) {
			return NewHttp(server.URL+"/address", u, DefaultScanInterval)
		})
	})
}

func TestResolverFactory(t *testing.T) {
	for _, scheme := range []string{"live", "file", "http", "etcd"} {
		assert.NotNil(t, Get(scheme), scheme)
	}
	assert.Nil(t, Get("dns"))

	_, err := NewFile(filepath.Join(t.TempDir(), "not_found.txt"), new(mockUpdateImpl), 0)
	assert.Error(t, err)

	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()
	_, err = NewHttp(server.URL, new(mockUpdateImpl), 0)
	assert.Error(t, err)
}

func TestEtcdUrl(t *testing.T) {
	endpoints, prefix, err := parseEtcdUrl("etcd://127.0.0.1:2379,127.0.0.2:2379/littlerpc/calc/")
	require.NoError(t, err)
	assert.Equal(t, []string{"127.0.0.1:2379", "127.0.0.2:2379"}, endpoints)
	assert.Equal(t, "/littlerpc/calc/", prefix)

	_, _, err = parseEtcdUrl("127.0.0.1:2379")
	assert.Error(t, err)
	_, _, err = parseEtcdUrl("127.0.0.1:2379/")
	assert.Error(t, err)
}

func TestDecodeNode(t *testing.T) {
	node, ok := decodeNode([]byte(`{"address":"http://127.0.0.1:8080/rpc","weight":10}`))
	require.True(t, ok)
	assert.Equal(t, loadbalance.RpcNode{Address: "http://127.0.0.1:8080/rpc", Weight: 10}, *node)

	node, ok = decodeNode([]byte(" http://127.0.0.1:8081/rpc\n"))
	require.True(t, ok)
	assert.Equal(t, "http://127.0.0.1:8081/rpc", node.Address)

	_, ok = decodeNode([]byte(`{"weight":1}`))
	assert.False(t, ok)
	_, ok = decodeNode(nil)
	assert.False(t, ok)
}

type mockFactory func(u Update) (Resolver, error)

type mockUpdateImpl struct {
	mu    sync.Mutex
	nodes []*loadbalance.RpcNode
}

func (m *mockUpdateImpl) IncNotify(keys []int, nodes []*loadbalance.RpcNode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range keys {
		m.nodes[v] = nodes[k]
	}
}

func (m *mockUpdateImpl) FullNotify(nodes []*loadbalance.RpcNode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nodes = nodes
}

func testResolver(t *testing.T, save func(nodes []*loadbalance.RpcNode), factory mockFactory) {
	const (
		NNodes = 32
	)
	mockUpdate := new(mockUpdateImpl)
	genNodes := make([]*loadbalance.RpcNode, 0, NNodes)
	for i := 0; i < NNodes; i++ {
		genNodes = append(genNodes, &loadbalance.RpcNode{
			Address: fmt.Sprintf("http://127.0.0.1:%d/rpc", 8000+i),
		})
	}
	save(genNodes)
	r, err := factory(mockUpdate)
	require.NoError(t, err)
	defer r.Close()
	mockUpdate.mu.Lock()
	defer mockUpdate.mu.Unlock()
	assert.Equal(t, genNodes, mockUpdate.nodes)
}

func node2Address(nodes []*loadbalance.RpcNode) []string {
	addresses := make([]string, 0, len(nodes))
	for _, node := range nodes {
		addresses = append(addresses, node.Address)
	}
	return addresses
}
