package error

import "errors"

// Kind 客户端错误的分类, 不同的分类之间不会互相转换
type Kind int

const (
	KindUnknown Kind = iota
	// KindUsage 调用者或者契约的误用, 在任何I/O之前同步返回
	KindUsage
	// KindProtocol HTTP/JSON-RPC信封不符合协议
	KindProtocol
	// KindContract 信封格式正确, 但是违反了客户端的预期, 比如id不匹配或结果无法解码
	KindContract
	// KindService 远端返回的错误对象
	KindService
	// KindCanceled 调用者取消了调用
	KindCanceled
	// KindConfig 契约在解析时就是无效的
	KindConfig
)

var mappingStr = map[Kind]string{
	KindUnknown:  "Unknown",
	KindUsage:    "Usage",
	KindProtocol: "Protocol",
	KindContract: "Contract",
	KindService:  "Service",
	KindCanceled: "Canceled",
	KindConfig:   "Config",
}

func (k Kind) String() string {
	if s, ok := mappingStr[k]; ok {
		return s
	}
	return mappingStr[KindUnknown]
}

type LErrorDesc interface {
	Kind() Kind
	Message() string
	error
}

// KindOf 返回错误链中第一个LErrorDesc的分类, 不是由客户端产生的错误返回KindUnknown
func KindOf(err error) Kind {
	var desc LErrorDesc
	if errors.As(err, &desc) {
		return desc.Kind()
	}
	return KindUnknown
}
