package client

import (
	"context"
	"reflect"

	"github.com/nyan233/littlerpc-jsonrpc/core/common/jsonrpc2"
)

// Invoke 期望一个有类型的结果, 发生错误时总是返回R的零值
func Invoke[R any](ctx context.Context, c *Client, method string, params jsonrpc2.Params, opts ...CallOption) (R, error) {
	var result R
	err := c.Do(ctx, &Call{Method: method, Params: params, Result: &result, Options: opts})
	if err != nil {
		return *new(R), err
	}
	return result, nil
}

// InvokeWithErrorData 同Invoke, 服务错误的data会被解码为E, 使用perror.ErrorData[E]取出
func InvokeWithErrorData[R, E any](ctx context.Context, c *Client, method string, params jsonrpc2.Params, opts ...CallOption) (R, error) {
	var result R
	err := c.Do(ctx, &Call{
		Method:    method,
		Params:    params,
		Result:    &result,
		ErrorData: typeOf[E](),
		Options:   opts,
	})
	if err != nil {
		return *new(R), err
	}
	return result, nil
}

// CallWithErrorData 没有结果的调用, 服务错误的data会被解码为E
func CallWithErrorData[E any](ctx context.Context, c *Client, method string, params jsonrpc2.Params, opts ...CallOption) error {
	return c.Do(ctx, &Call{
		Method:    method,
		Params:    params,
		ErrorData: typeOf[E](),
		Options:   opts,
	})
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
