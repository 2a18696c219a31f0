package loadbalance

// RpcNode 一个可用的JSON-RPC HTTP端点
// Address是完整的URL, 例如: http://127.0.0.1:8080/rpc
type RpcNode struct {
	Address string `json:"address"`
	Weight  int    `json:"weight,omitempty"`
}
