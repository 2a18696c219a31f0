package balancer

import (
	"fmt"
	"math"
	"testing"

	"github.com/nyan233/littlerpc-jsonrpc/core/middle/loadbalance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalancer(t *testing.T) {
	nodes := genNodes(16)
	t.Run("TestHashBalancer", func(t *testing.T) {
		testBalancer(t, NewHash(), nodes)
	})
	t.Run("TestRoundRobinBalancer", func(t *testing.T) {
		counts := testBalancer(t, NewRoundRobin(), nodes)
		for _, node := range nodes {
			assert.Equal(t, counts[nodes[0].Address], counts[node.Address])
		}
	})
	t.Run("TestConsistentHashBalancer", func(t *testing.T) {
		testBalancer(t, NewConsistentHash(), nodes)
	})
	t.Run("TestRandomBalancer", func(t *testing.T) {
		testBalancer(t, NewRandom(), nodes)
	})
}

func TestConsistentHashDone(t *testing.T) {
	nodes := genNodes(4)
	b := NewConsistentHash().(*consistentHash)
	b.FullNotify(nodes)
	node, err := b.Target("service.method")
	require.NoError(t, err)
	assert.Equal(t, int64(1), b.chNodes.GetLoads()[node.Address])
	// 调用进行中节点列表被替换, 新的环上负载为0
	b.FullNotify(nodes)
	b.Done(node.Address)
	assert.Equal(t, int64(0), b.chNodes.GetLoads()[node.Address])
	b.Done(node.Address)
	for addr, load := range b.chNodes.GetLoads() {
		assert.GreaterOrEqual(t, load, int64(0), addr)
	}
}

func TestBalancerEmpty(t *testing.T) {
	for _, scheme := range []string{"random", "hash", "roundRobin", "consistentHash"} {
		factory := Get(scheme)
		require.NotNil(t, factory, scheme)
		b := factory()
		assert.Equal(t, scheme, b.Scheme())
		_, err := b.Target("add")
		assert.ErrorIs(t, err, ErrAbleUsageRpcNodes, scheme)
	}
	assert.Nil(t, Get("weight"))
}

func TestHashStable(t *testing.T) {
	b := NewHash()
	b.FullNotify(genNodes(8))
	first, err := b.Target("calc.add")
	require.NoError(t, err)
	for i := 0; i < 16; i++ {
		node, err := b.Target("calc.add")
		require.NoError(t, err)
		assert.Equal(t, first, node)
	}
}

func TestIncNotify(t *testing.T) {
	for _, b := range []Balancer{NewRoundRobin(), NewConsistentHash()} {
		b.FullNotify([]*loadbalance.RpcNode{{Address: "http://a"}})
		b.IncNotify([]int{0}, []*loadbalance.RpcNode{{Address: "http://b"}})
		node, err := b.Target("m")
		require.NoError(t, err)
		assert.Equal(t, "http://b", node.Address, b.Scheme())
	}
}

func testBalancer(t *testing.T, b Balancer, nodes []*loadbalance.RpcNode) map[string]int {
	const TestN = 64
	b.FullNotify(nodes)
	targets := genTarget(32)
	countMap := make(map[string]int, len(nodes))
	for i := 0; i < TestN*len(nodes); i++ {
		node, err := b.Target(targets[i%len(targets)])
		require.NoError(t, err)
		countMap[node.Address]++
	}
	for addr := range countMap {
		assert.Contains(t, node2Address(nodes), addr)
	}
	stdDevCount := make([]int, 0, len(countMap))
	for _, v := range countMap {
		stdDevCount = append(stdDevCount, v)
	}
	avg, stddev := stdDev(stdDevCount)
	t.Logf("%s: Avg(%d) || Stddev(%.3f)", b.Scheme(), avg, stddev)
	return countMap
}

func stdDev(array []int) (int64, float64) {
	var avg, sum int
	for _, v := range array {
		sum += v
	}
	avg = sum / len(array)
	var stdDevSum float64
	for _, v := range array {
		stdDevSum += math.Pow(float64(v-avg), 2)
	}
	return int64(avg), math.Sqrt(stdDevSum / float64(len(array)))
}

func genNodes(size int) []*loadbalance.RpcNode {
	nodes := make([]*loadbalance.RpcNode, 0, size)
	for i := 0; i < size; i++ {
		nodes = append(nodes, &loadbalance.RpcNode{
			Address: fmt.Sprintf("http://127.0.0.1:%d/rpc", 1030+i),
			Weight:  10,
		})
	}
	return nodes
}

func genTarget(size int) []string {
	targets := make([]string, 0, size)
	for i := 0; i < size; i++ {
		targets = append(targets, fmt.Sprintf("service.method%d", i))
	}
	return targets
}

func node2Address(nodes []*loadbalance.RpcNode) []string {
	addresses := make([]string, 0, len(nodes))
	for _, node := range nodes {
		addresses = append(addresses, node.Address)
	}
	return addresses
}
