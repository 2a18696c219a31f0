package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/nyan233/littlerpc-jsonrpc/core/middle/loadbalance"
	clientv3 "go.etcd.io/etcd/client/v3"
)

// 从etcd的一个前缀下解析地址列表,url格式要求为:
//
//	endpoint1,endpoint2/prefix,比如: 127.0.0.1:2379/littlerpc/calc/
//
// 每个key的值可以是地址本身, 也可以是json编码的RpcNode:
//
//	{"address":"http://127.0.0.1:8080/rpc","weight":10}
//
// 地址列表的变化通过Watch推送, 不需要周期性扫描
type etcdResolver struct {
	resolverBase
	client *clientv3.Client
	prefix string
	cancel context.CancelFunc
}

func NewEtcd(initUrl string, u Update, scanInterval time.Duration) (Resolver, error) {
	endpoints, prefix, err := parseEtcdUrl(initUrl)
	if err != nil {
		return nil, err
	}
	client, err := clientv3.New(clientv3.Config{
		Endpoints:   endpoints,
		DialTimeout: time.Second * 5,
	})
	if err != nil {
		return nil, err
	}
	return newEtcdFromClient(client, prefix, u, scanInterval)
}

func newEtcdFromClient(client *clientv3.Client, prefix string, u Update, scanInterval time.Duration) (Resolver, error) {
	er := &etcdResolver{client: client, prefix: prefix}
	er.init(prefix, u, scanInterval)
	nodes, err := er.Parse()
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	er.updateInter.FullNotify(nodes)
	ctx, cancel := context.WithCancel(context.Background())
	er.cancel = cancel
	go er.watch(ctx)
	return er, nil
}

func (e *etcdResolver) watch(ctx context.Context) {
	for range e.client.Watch(ctx, e.prefix, clientv3.WithPrefix()) {
		// 任何变化都重新拉取完整的列表
		nodes, err := e.Parse()
		if err != nil {
			continue
		}
		e.updateInter.FullNotify(nodes)
	}
}

func (e *etcdResolver) Parse() ([]*loadbalance.RpcNode, error) {
	ctx, cancel := context.WithTimeout(context.Background(), e.scanInterval)
	defer cancel()
	resp, err := e.client.Get(ctx, e.prefix, clientv3.WithPrefix())
	if err != nil {
		return nil, err
	}
	nodes := make([]*loadbalance.RpcNode, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		if node, ok := decodeNode(kv.Value); ok {
			nodes = append(nodes, node)
		}
	}
	return nodes, nil
}

func (e *etcdResolver) Scheme() string {
	return "etcd"
}

func (e *etcdResolver) Close() error {
	_ = e.resolverBase.Close()
	if e.cancel != nil {
		e.cancel()
	}
	return e.client.Close()
}

func decodeNode(value []byte) (*loadbalance.RpcNode, bool) {
	data := strings.TrimSpace(string(value))
	if data == "" {
		return nil, false
	}
	if data[0] == '{' {
		node := new(loadbalance.RpcNode)
		if err := json.Unmarshal([]byte(data), node); err != nil || node.Address == "" {
			return nil, false
		}
		return node, true
	}
	return &loadbalance.RpcNode{Address: data}, true
}

func parseEtcdUrl(initUrl string) ([]string, string, error) {
	initUrl = strings.TrimPrefix(initUrl, "etcd://")
	index := strings.IndexByte(initUrl, '/')
	if index <= 0 || index == len(initUrl)-1 {
		return nil, "", errors.New("resolver: etcd url must be endpoints/prefix")
	}
	endpoints := strings.Split(initUrl[:index], ",")
	return endpoints, initUrl[index:], nil
}
