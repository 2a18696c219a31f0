package plugin

// AbstractClient 嵌入到插件中, 只需要实现关心的阶段
type AbstractClient struct{}

func (a AbstractClient) Request4C(pub *Context, msg *Message) error {
	return nil
}

func (a AbstractClient) Send4C(pub *Context, msg *Message, err error) {}

func (a AbstractClient) Receive4C(pub *Context, status int, msg *Message) {}

func (a AbstractClient) AfterReceive4C(pub *Context, err error) {}

// RequestHook 只关心Request4C阶段的插件
type RequestHook func(pub *Context, msg *Message) error

type hookPlugin struct {
	AbstractClient
	fn RequestHook
}

func (h *hookPlugin) Request4C(pub *Context, msg *Message) error {
	return h.fn(pub, msg)
}

// Hook 将一个函数包装成插件
func Hook(fn RequestHook) ClientPlugin {
	return &hookPlugin{fn: fn}
}
