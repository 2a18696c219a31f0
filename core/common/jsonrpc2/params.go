package jsonrpc2

import (
	"reflect"

	"github.com/nyan233/littlerpc-jsonrpc/core/common/errorhandler"
)

type ParamStyle uint8

const (
	NoneStyle ParamStyle = iota
	PositionalStyle
	NamedStyle
)

func (s ParamStyle) String() string {
	switch s {
	case NoneStyle:
		return "none"
	case PositionalStyle:
		return "position"
	case NamedStyle:
		return "name"
	default:
		return "unknown"
	}
}

// Params 请求参数, 三种风格互斥. 零值表示没有参数, 此时请求中不包含params成员
type Params struct {
	style ParamStyle
	list  []interface{}
	named interface{}
	null  bool
}

func NoParams() Params {
	return Params{}
}

// Positional 以数组的形式传递参数, 没有参数时发送的是空数组
func Positional(args ...interface{}) Params {
	if args == nil {
		args = []interface{}{}
	}
	return Params{style: PositionalStyle, list: args}
}

// PositionalList 和Positional相同, 但是nil切片被视为显式的null参数
func PositionalList(list []interface{}) Params {
	return Params{style: PositionalStyle, list: list, null: list == nil}
}

// Named 以对象的形式传递参数, v必须是struct或者key为string的map
func Named(v interface{}) Params {
	return Params{style: NamedStyle, named: v, null: isNil(v)}
}

func (p Params) Style() ParamStyle {
	return p.style
}

func (p Params) IsNull() bool {
	return p.null
}

// Value 返回需要交给Codec编码的值, NoneStyle时返回nil
func (p Params) Value() interface{} {
	switch p.style {
	case PositionalStyle:
		return p.list
	case NamedStyle:
		return p.named
	default:
		return nil
	}
}

func (p Params) Validate() error {
	if p.null {
		return errorhandler.ErrNullParams
	}
	if p.style == NamedStyle && !isObjectShaped(reflect.TypeOf(p.named)) {
		return errorhandler.ErrParamsNotObject
	}
	return nil
}

func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	val := reflect.ValueOf(v)
	switch val.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return val.IsNil()
	default:
		return false
	}
}

func isObjectShaped(typ reflect.Type) bool {
	for typ != nil && typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ == nil {
		return false
	}
	switch typ.Kind() {
	case reflect.Struct:
		return true
	case reflect.Map:
		return typ.Key().Kind() == reflect.String
	default:
		return false
	}
}
