package binder

import (
	"context"
	"fmt"
	"reflect"
	"unsafe"

	"github.com/nyan233/littlerpc-jsonrpc/core/common/jsonrpc2"
)

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
	unsafeType  = reflect.TypeOf(unsafe.Pointer(nil))
)

// CallDescriptor 一个契约方法的调用描述, 构造之后不可变, 不要修改其中的字段
type CallDescriptor struct {
	// Field 契约中的字段名
	Field string
	// Index 用于reflect.Value.FieldByIndex, 嵌入的契约有多级索引
	Index  []int
	Method string
	Style  jsonrpc2.ParamStyle
	// Positions[i]是第i个参数(不包括context)在数组中的位置
	Positions []int
	// Names[i]是第i个参数(不包括context)的名字
	Names      []string
	HasContext bool
	Params     []reflect.Type
	// Result 为nil时方法只返回error
	Result    reflect.Type
	ErrorData reflect.Type
	FuncType  reflect.Type
}

// Contract 一个契约类型解析之后的结果, 被Binder按类型缓存
type Contract struct {
	Type    reflect.Type
	Methods []*CallDescriptor
	byField map[string]*CallDescriptor
}

func (c *Contract) Method(field string) (*CallDescriptor, bool) {
	desc, ok := c.byField[field]
	return desc, ok
}

// params 按照风格和映射构造参数容器
func (d *CallDescriptor) params(args []reflect.Value) jsonrpc2.Params {
	switch d.Style {
	case jsonrpc2.PositionalStyle:
		list := make([]interface{}, len(args))
		for i, arg := range args {
			list[d.Positions[i]] = arg.Interface()
		}
		return jsonrpc2.Positional(list...)
	case jsonrpc2.NamedStyle:
		named := make(map[string]interface{}, len(args))
		for i, arg := range args {
			named[d.Names[i]] = arg.Interface()
		}
		return jsonrpc2.Named(named)
	default:
		return jsonrpc2.NoParams()
	}
}

// checkSignature 检查函数签名, 返回不包括context的参数类型
func checkSignature(ft reflect.Type) (hasContext bool, params []reflect.Type, result reflect.Type, err error) {
	if ft.IsVariadic() {
		return false, nil, nil, fmt.Errorf("variadic methods are not supported")
	}
	params = make([]reflect.Type, 0, ft.NumIn())
	for i := 0; i < ft.NumIn(); i++ {
		in := ft.In(i)
		if in == contextType {
			if i != 0 {
				return false, nil, nil, fmt.Errorf("context.Context must be the first parameter")
			}
			hasContext = true
			continue
		}
		switch {
		case in.Kind() == reflect.Chan, in.Kind() == reflect.Func, in == unsafeType:
			return false, nil, nil, fmt.Errorf("parameter %d of type %s is passed by reference", i, in)
		}
		params = append(params, in)
	}
	switch ft.NumOut() {
	case 1:
		if ft.Out(0) != errorType {
			return false, nil, nil, fmt.Errorf("the only result must be error")
		}
	case 2:
		if ft.Out(1) != errorType {
			return false, nil, nil, fmt.Errorf("the last result must be error")
		}
		result = ft.Out(0)
	default:
		return false, nil, nil, fmt.Errorf("methods must return error or (R, error)")
	}
	return hasContext, params, result, nil
}
