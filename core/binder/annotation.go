package binder

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/nyan233/littlerpc-jsonrpc/core/common/jsonrpc2"
)

const (
	TagMethod    = "jsonrpc"
	TagParams    = "params"
	TagErrorData = "errdata"
)

// Annotation 一个方法上的声明, 来自struct tag或者pxtor的//jsonrpc:指令
//
//	jsonrpc:"add"                   远端的方法名
//	params:"none"                   不发送params
//	params:"position:1,0"           第i个参数放在数组的Positions[i]位置
//	params:"name:a,b"               第i个参数的名字是Names[i]
//	errdata:"detail"                服务错误的data的类型
//
// 没有params标签时, 有参数的方法按照声明顺序使用数组传递
type Annotation struct {
	Method    string
	Style     jsonrpc2.ParamStyle
	Positions []int
	Names     []string
	ErrorData string
	implicit  bool
}

func ParseAnnotation(tag reflect.StructTag) (*Annotation, error) {
	a := new(Annotation)
	method, ok := tag.Lookup(TagMethod)
	if !ok {
		return nil, fmt.Errorf("missing %s tag", TagMethod)
	}
	if err := jsonrpc2.ValidateMethod(method); err != nil {
		return nil, fmt.Errorf("method %q: %w", method, err)
	}
	a.Method = method
	a.ErrorData = strings.TrimSpace(tag.Get(TagErrorData))
	params, ok := tag.Lookup(TagParams)
	if !ok {
		a.implicit = true
		return a, nil
	}
	params = strings.TrimSpace(params)
	if params == "none" {
		a.Style = jsonrpc2.NoneStyle
		return a, nil
	}
	kind, list, ok := strings.Cut(params, ":")
	if !ok {
		return nil, fmt.Errorf("params %q is not none, position:... or name:...", params)
	}
	items := splitItems(list)
	switch kind {
	case "position":
		a.Style = jsonrpc2.PositionalStyle
		a.Positions = make([]int, 0, len(items))
		for _, item := range items {
			pos, err := strconv.Atoi(item)
			if err != nil {
				return nil, fmt.Errorf("position %q is not an integer", item)
			}
			a.Positions = append(a.Positions, pos)
		}
	case "name":
		a.Style = jsonrpc2.NamedStyle
		a.Names = items
	default:
		return nil, fmt.Errorf("unknown params style %q", kind)
	}
	return a, nil
}

func splitItems(list string) []string {
	items := make([]string, 0, 4)
	for _, item := range strings.Split(list, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Validate 检查声明与参数的数量n是否一致, 没有params标签时补全默认的映射
func (a *Annotation) Validate(n int) error {
	if a.implicit {
		a.implicit = false
		if n == 0 {
			a.Style = jsonrpc2.NoneStyle
			return nil
		}
		a.Style = jsonrpc2.PositionalStyle
		a.Positions = make([]int, n)
		for i := range a.Positions {
			a.Positions[i] = i
		}
		return nil
	}
	switch a.Style {
	case jsonrpc2.NoneStyle:
		if n != 0 {
			return fmt.Errorf("params:none but the method declares %d parameters", n)
		}
	case jsonrpc2.PositionalStyle:
		if len(a.Positions) != n {
			return fmt.Errorf("%d positions for %d parameters", len(a.Positions), n)
		}
		seen := make([]bool, n)
		for _, pos := range a.Positions {
			if pos < 0 || pos >= n || seen[pos] {
				return fmt.Errorf("positions %v are not a permutation of 0..%d", a.Positions, n-1)
			}
			seen[pos] = true
		}
	case jsonrpc2.NamedStyle:
		if len(a.Names) != n {
			return fmt.Errorf("%d names for %d parameters", len(a.Names), n)
		}
		seen := make(map[string]struct{}, n)
		for _, name := range a.Names {
			if _, ok := seen[name]; ok {
				return fmt.Errorf("duplicate parameter name %q", name)
			}
			seen[name] = struct{}{}
		}
	}
	return nil
}
