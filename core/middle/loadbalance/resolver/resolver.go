package resolver

import (
	"strings"
	"sync"
	"time"

	"github.com/nyan233/littlerpc-jsonrpc/core/middle/loadbalance"
)

const (
	DefaultScanInterval = time.Second * 10
)

var (
	factoryMu          sync.RWMutex
	resolverCollection = make(map[string]Factory, 16)
)

type Factory func(initUrl string, u Update, scanInterval time.Duration) (Resolver, error)

// Resolver 解析器，负责从一个url中解析出需要负载均衡的地址
type Resolver interface {
	InjectUpdate(u Update)
	Parse() (nodes []*loadbalance.RpcNode, err error)
	Scheme() string
	Close() error
}

type Update interface {
	// IncNotify 用于增量通知, 适合地址列表少量变化的时候
	IncNotify(keys []int, nodes []*loadbalance.RpcNode)
	// FullNotify 全量更新
	FullNotify(nodes []*loadbalance.RpcNode)
}

// Register 根据规则注册解析器，调用是线程安全的
func Register(scheme string, rf Factory) {
	if rf == nil {
		panic("resolver factory is empty")
	}
	if scheme == "" {
		panic("factory scheme is empty")
	}
	factoryMu.Lock()
	defer factoryMu.Unlock()
	resolverCollection[scheme] = rf
}

func Get(scheme string) Factory {
	factoryMu.RLock()
	defer factoryMu.RUnlock()
	return resolverCollection[scheme]
}

type resolverBase struct {
	parseUrl     string
	scanInterval time.Duration
	updateInter  Update
	closeOnce    sync.Once
	done         chan struct{}
}

func (r *resolverBase) init(initUrl string, u Update, scanInterval time.Duration) {
	if scanInterval <= 0 {
		scanInterval = DefaultScanInterval
	}
	r.parseUrl = initUrl
	r.scanInterval = scanInterval
	r.updateInter = u
	r.done = make(chan struct{})
}

func (r *resolverBase) InjectUpdate(u Update) {
	r.updateInter = u
}

func (r *resolverBase) Close() error {
	r.closeOnce.Do(func() {
		close(r.done)
	})
	return nil
}

// scan 周期性的重新解析地址列表并全量通知, 直到Close被调用
func (r *resolverBase) scan(parse func() ([]*loadbalance.RpcNode, error)) {
	ticker := time.NewTicker(r.scanInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-r.done:
				return
			case <-ticker.C:
				nodes, err := parse()
				if err != nil {
					continue
				}
				r.updateInter.FullNotify(nodes)
			}
		}
	}()
}

// splitNodes 解析由sep分隔的地址列表, 忽略空行
func splitNodes(data, sep string) []*loadbalance.RpcNode {
	nodeAddrs := strings.Split(data, sep)
	nodes := make([]*loadbalance.RpcNode, 0, len(nodeAddrs))
	for _, nodeAddr := range nodeAddrs {
		nodeAddr = strings.TrimSpace(nodeAddr)
		if nodeAddr == "" {
			continue
		}
		nodes = append(nodes, &loadbalance.RpcNode{Address: nodeAddr})
	}
	return nodes
}

func init() {
	Register("live", NewLive)
	Register("file", NewFile)
	Register("http", NewHttp)
	Register("etcd", NewEtcd)
}
