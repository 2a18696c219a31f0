package resolver

import (
	"os"
	"time"

	"github.com/nyan233/littlerpc-jsonrpc/core/middle/loadbalance"
)

// 从文件中解析地址列表,url格式要求为:
//
//	file_addresses,比如: ./addrs.txt
//
// 文件存储的数据的格式要求为:
//
//	http://127.0.0.1:8080/rpc
//	http://192.168.1.1:8080/rpc
//	http://192.168.1.2:8080/rpc
type fileResolver struct {
	resolverBase
}

func NewFile(initUrl string, u Update, scanInterval time.Duration) (Resolver, error) {
	fr := new(fileResolver)
	fr.init(initUrl, u, scanInterval)
	nodes, err := fr.Parse()
	if err != nil {
		return nil, err
	}
	fr.updateInter.FullNotify(nodes)
	fr.scan(fr.Parse)
	return fr, nil
}

func (f *fileResolver) Parse() ([]*loadbalance.RpcNode, error) {
	fileData, err := os.ReadFile(f.parseUrl)
	if err != nil {
		return nil, err
	}
	return splitNodes(string(fileData), "\n"), nil
}

func (f *fileResolver) Scheme() string {
	return "file"
}
