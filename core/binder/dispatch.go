package binder

import (
	"context"
	"reflect"

	"github.com/nyan233/littlerpc-jsonrpc/core/client"
)

func (b *Binder) dispatch(desc *CallDescriptor) func(args []reflect.Value) []reflect.Value {
	return func(args []reflect.Value) []reflect.Value {
		ctx := context.Background()
		if desc.HasContext {
			if c, ok := args[0].Interface().(context.Context); ok && c != nil {
				ctx = c
			}
			args = args[1:]
		}
		call := &client.Call{
			Method:    desc.Method,
			Params:    desc.params(args),
			ErrorData: desc.ErrorData,
		}
		var result reflect.Value
		if desc.Result != nil {
			result = reflect.New(desc.Result)
			call.Result = result.Interface()
		}
		err := b.invoker.Do(ctx, call)
		errVal := reflect.Zero(errorType)
		if err != nil {
			errVal = reflect.ValueOf(&err).Elem()
		}
		if desc.Result == nil {
			return []reflect.Value{errVal}
		}
		if err != nil {
			return []reflect.Value{reflect.Zero(desc.Result), errVal}
		}
		return []reflect.Value{result.Elem(), errVal}
	}
}
