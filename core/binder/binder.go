package binder

import (
	"context"
	"fmt"
	"reflect"

	"github.com/nyan233/littlerpc-jsonrpc/core/client"
	"github.com/nyan233/littlerpc-jsonrpc/core/container"
	perror "github.com/nyan233/littlerpc-jsonrpc/core/protocol/error"
)

// Invoker *client.Client实现了该接口
type Invoker interface {
	Do(ctx context.Context, call *client.Call) error
}

type Option func(b *Binder)

// WithErrorData 注册一个错误数据类型, 契约通过errdata:"name"引用它
func WithErrorData(name string, prototype interface{}) Option {
	return func(b *Binder) {
		b.errData[name] = reflect.TypeOf(prototype)
	}
}

// Binder 把声明式的契约结构体绑定到调用引擎上
// 契约解析的结果按照类型缓存, 首次并发解析同一个类型最终得到的是同一个*Contract
type Binder struct {
	invoker Invoker
	errData map[string]reflect.Type
	cache   *container.RCUMap[reflect.Type, *Contract]
}

func New(invoker Invoker, opts ...Option) *Binder {
	b := &Binder{
		invoker: invoker,
		errData: make(map[string]reflect.Type),
		cache:   container.NewRCUMap[reflect.Type, *Contract](),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Resolve 解析一个契约类型, typ可以是结构体或者指向结构体的指针
func (b *Binder) Resolve(typ reflect.Type) (*Contract, error) {
	if typ == nil {
		return nil, &perror.ConfigError{Contract: "<nil>", Reason: "contract type is nil"}
	}
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if contract, ok := b.cache.LoadOk(typ); ok {
		return contract, nil
	}
	if typ.Kind() != reflect.Struct {
		return nil, &perror.ConfigError{Contract: typ.String(), Reason: "contract must be a struct"}
	}
	contract, err := b.resolve(typ)
	if err != nil {
		return nil, err
	}
	contract, _ = b.cache.LoadOrStore(typ, contract)
	return contract, nil
}

type pending struct {
	typ   reflect.Type
	index []int
}

// resolve 按照层级遍历契约和嵌入的契约, 浅层的同名方法覆盖深层的
func (b *Binder) resolve(typ reflect.Type) (*Contract, error) {
	contract := &Contract{
		Type:    typ,
		byField: make(map[string]*CallDescriptor),
	}
	wireNames := make(map[string]string)
	level := []pending{{typ: typ}}
	for len(level) > 0 {
		var next []pending
		// 同一层级出现的同名方法是有歧义的, 除非它们来自同一个被多次嵌入的契约
		current := make(map[string]reflect.Type)
		for _, p := range level {
			for i := 0; i < p.typ.NumField(); i++ {
				field := p.typ.Field(i)
				index := append(append(make([]int, 0, len(p.index)+1), p.index...), i)
				if field.Anonymous {
					if field.Type.Kind() != reflect.Struct {
						return nil, b.configError(typ, field.Name, "embedded contract must be a struct value")
					}
					next = append(next, pending{typ: field.Type, index: index})
					continue
				}
				if _, ok := contract.byField[field.Name]; ok {
					continue
				}
				if owner, ok := current[field.Name]; ok {
					if owner == p.typ {
						continue
					}
					return nil, b.configError(typ, field.Name, "ambiguous method declared by two embedded contracts")
				}
				current[field.Name] = p.typ
				desc, err := b.describe(typ, field, index)
				if err != nil {
					return nil, err
				}
				if other, ok := wireNames[desc.Method]; ok {
					return nil, b.configError(typ, field.Name,
						fmt.Sprintf("wire method %q is already bound to %s", desc.Method, other))
				}
				wireNames[desc.Method] = field.Name
				contract.Methods = append(contract.Methods, desc)
			}
		}
		for _, desc := range contract.Methods {
			contract.byField[desc.Field] = desc
		}
		level = next
	}
	return contract, nil
}

func (b *Binder) describe(contract reflect.Type, field reflect.StructField, index []int) (*CallDescriptor, error) {
	if !field.IsExported() {
		return nil, b.configError(contract, field.Name, "unexported fields are not allowed")
	}
	if field.Type.Kind() != reflect.Func {
		return nil, b.configError(contract, field.Name, "only methods are allowed, properties and events are not supported")
	}
	annotation, err := ParseAnnotation(field.Tag)
	if err != nil {
		return nil, b.configError(contract, field.Name, err.Error())
	}
	hasContext, params, result, err := checkSignature(field.Type)
	if err != nil {
		return nil, b.configError(contract, field.Name, err.Error())
	}
	if err := annotation.Validate(len(params)); err != nil {
		return nil, b.configError(contract, field.Name, err.Error())
	}
	desc := &CallDescriptor{
		Field:      field.Name,
		Index:      index,
		Method:     annotation.Method,
		Style:      annotation.Style,
		Positions:  annotation.Positions,
		Names:      annotation.Names,
		HasContext: hasContext,
		Params:     params,
		Result:     result,
		FuncType:   field.Type,
	}
	if annotation.ErrorData != "" {
		errData, ok := b.errData[annotation.ErrorData]
		if !ok || errData == nil {
			return nil, b.configError(contract, field.Name,
				fmt.Sprintf("error data type %q is not registered", annotation.ErrorData))
		}
		desc.ErrorData = errData
	}
	return desc, nil
}

func (b *Binder) configError(contract reflect.Type, method, reason string) error {
	return &perror.ConfigError{Contract: contract.String(), Method: method, Reason: reason}
}

// Bind 使用调用引擎填充ptr指向的契约中的每一个方法
func (b *Binder) Bind(ptr interface{}) error {
	val := reflect.ValueOf(ptr)
	if val.Kind() != reflect.Pointer || val.IsNil() {
		return &perror.ConfigError{Contract: fmt.Sprintf("%T", ptr), Reason: "Bind requires a non-nil pointer to a contract"}
	}
	contract, err := b.Resolve(val.Type())
	if err != nil {
		return err
	}
	elem := val.Elem()
	for _, desc := range contract.Methods {
		elem.FieldByIndex(desc.Index).Set(reflect.MakeFunc(desc.FuncType, b.dispatch(desc)))
	}
	return nil
}

// Bind 创建一个新的T并绑定它
func Bind[T any](b *Binder) (*T, error) {
	contract := new(T)
	if err := b.Bind(contract); err != nil {
		return nil, err
	}
	return contract, nil
}
