package jsonrpc2

const (
	Version = "2.0"
	// ReservedPrefix rpc.开头的方法名由协议保留
	ReservedPrefix = "rpc."
)

const (
	ErrorParser    = -32700 // jsonrpc2 解析消息失败
	InvalidRequest = -32600 // 无效的请求
	MethodNotFound = -32601 // 找不到方法
	InvalidParams  = -32602 // 无效的参数
	ErrorInternal  = -32603 // 内部错误
)

// Error is the error member of a response.
type Error struct {
	Code    int      `json:"code" cbor:"code"`
	Message string   `json:"message" cbor:"message"`
	Data    RawValue `json:"data,omitempty" cbor:"data,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

type Request struct {
	Version string   `json:"jsonrpc" cbor:"jsonrpc"`
	Method  string   `json:"method" cbor:"method"`
	Params  RawValue `json:"params,omitempty" cbor:"params,omitempty"`
	// nil表示该请求是一个通知
	ID *ID `json:"id,omitempty" cbor:"id,omitempty"`
}

// NewRequest 构造请求, id为absent时生成的是通知
func NewRequest(method string, id ID, params RawValue) *Request {
	req := &Request{
		Version: Version,
		Method:  method,
		Params:  params,
	}
	if !id.IsAbsent() {
		req.ID = &id
	}
	return req
}

func (r *Request) IsNotification() bool {
	return r.ID == nil
}

type Response struct {
	Version string   `json:"jsonrpc" cbor:"jsonrpc"`
	Result  RawValue `json:"result,omitempty" cbor:"result,omitempty"`
	Error   *Error   `json:"error,omitempty" cbor:"error,omitempty"`
	ID      ID       `json:"id" cbor:"id"`
}

// HasResult 为true时result成员存在, 即使它的值是null
func (r *Response) HasResult() bool {
	return len(r.Result) > 0
}

func (r *Response) HasError() bool {
	return r.Error != nil
}
