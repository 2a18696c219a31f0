package pxtor

import (
	"fmt"
	"strings"

	"github.com/nyan233/littlerpc-jsonrpc/core/common/jsonrpc2"
)

type Argument struct {
	Name string
	Type string
}

// Method 生成一个代理方法需要的全部信息
type Method struct {
	Name      string
	// Wire 远端的方法名
	Wire      string
	Context   string
	InputList []Argument
	Result    string
	ErrorData string
	Style     jsonrpc2.ParamStyle
	Positions []int
	Names     []string
}

// Signature 例如: (ctx context.Context, a int, b int) (int, error)
func (m *Method) Signature() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, arg := range m.InputList {
		if i > 0 {
			sb.WriteString(", ")
		}
		_, _ = fmt.Fprintf(&sb, "%s %s", arg.Name, arg.Type)
	}
	sb.WriteByte(')')
	if m.Result == "" {
		sb.WriteString(" error")
	} else {
		_, _ = fmt.Fprintf(&sb, " (%s, error)", m.Result)
	}
	return sb.String()
}

// Ctx 没有声明context参数的方法使用context.Background()
func (m *Method) Ctx() string {
	if m.Context == "" {
		return "context.Background()"
	}
	return m.Context
}

// Params 生成构造参数容器的表达式
func (m *Method) Params() string {
	args := m.args()
	switch m.Style {
	case jsonrpc2.PositionalStyle:
		list := make([]string, len(args))
		for i, arg := range args {
			list[m.Positions[i]] = arg.Name
		}
		return fmt.Sprintf("jsonrpc2.Positional(%s)", strings.Join(list, ", "))
	case jsonrpc2.NamedStyle:
		var sb strings.Builder
		sb.WriteString("jsonrpc2.Named(map[string]interface{}{")
		for i, arg := range args {
			if i > 0 {
				sb.WriteString(", ")
			}
			_, _ = fmt.Fprintf(&sb, "%q: %s", m.Names[i], arg.Name)
		}
		sb.WriteString("})")
		return sb.String()
	default:
		return "jsonrpc2.NoParams()"
	}
}

// args 不包括context参数
func (m *Method) args() []Argument {
	if m.Context == "" {
		return m.InputList
	}
	return m.InputList[1:]
}
