package plugin

import "net/http"

// Message 请求或者响应在HTTP层面的表示, Body是完整的(已解压的)消息体
type Message struct {
	Header http.Header
	Body   []byte
}

// ClientPlugin 插件按照注册的顺序被调用, 指针类型的数据均不能被多个Goroutine安全的使用
// 如果你要跨Goroutine使用, 那么请将其拷贝一份
type ClientPlugin interface {
	// Request4C 请求体编码完成并且引擎的header设置完成之后, 发送之前调用
	// 可以修改header, 也可以替换或者清空body. 返回的错误会中止这次调用
	Request4C(pub *Context, msg *Message) error
	// Send4C transport调用返回之后调用, msg是实际发送的消息, err是transport返回的错误
	Send4C(pub *Context, msg *Message, err error)
	// Receive4C 读取完响应体之后, 在校验之前调用
	Receive4C(pub *Context, status int, msg *Message)
	// AfterReceive4C 调用返回给调用者之前调用, err是这次调用最终的结果
	AfterReceive4C(pub *Context, err error)
}
