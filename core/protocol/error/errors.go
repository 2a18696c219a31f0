package error

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nyan233/littlerpc-jsonrpc/core/common/jsonrpc2"
)

type UsageError struct {
	Method string
	Err    error
}

func (e *UsageError) Kind() Kind { return KindUsage }

func (e *UsageError) Message() string {
	if e.Err == nil {
		return "usage error"
	}
	return e.Err.Error()
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("jsonrpc2: usage error calling %q: %s", e.Method, e.Message())
}

func (e *UsageError) Unwrap() error { return e.Err }

// ProtocolError ID只会是从响应体中解析出的id, 无法解析时为absent
type ProtocolError struct {
	StatusCode int
	ID         jsonrpc2.ID
	Reason     string
	Err        error
}

func (e *ProtocolError) Kind() Kind { return KindProtocol }

func (e *ProtocolError) Message() string { return e.Reason }

func (e *ProtocolError) Error() string {
	var sb strings.Builder
	_, _ = fmt.Fprintf(&sb, "jsonrpc2: protocol error (status %d, id %s): %s", e.StatusCode, e.ID, e.Reason)
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// ContractError ID是响应自身携带的id
type ContractError struct {
	ID     jsonrpc2.ID
	Reason string
	Err    error
}

func (e *ContractError) Kind() Kind { return KindContract }

func (e *ContractError) Message() string { return e.Reason }

func (e *ContractError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("jsonrpc2: client contract error (id %s): %s", e.ID, e.Reason)
	}
	return fmt.Sprintf("jsonrpc2: client contract error (id %s): %s: %v", e.ID, e.Reason, e.Err)
}

func (e *ContractError) Unwrap() error { return e.Err }

// ServiceError 远端返回的error对象, Data是按照声明的类型解码后的值,
// 没有声明类型时Data为nil, 原始数据保存在RawData中
type ServiceError struct {
	ID         jsonrpc2.ID
	RpcCode    int
	RpcMessage string
	Data       interface{}
	RawData    jsonrpc2.RawValue
}

func (e *ServiceError) Kind() Kind { return KindService }

func (e *ServiceError) Code() int { return e.RpcCode }

func (e *ServiceError) Message() string { return e.RpcMessage }

func (e *ServiceError) Error() string {
	return fmt.Sprintf("jsonrpc2: service error %d (id %s): %s", e.RpcCode, e.ID, e.RpcMessage)
}

// ErrorData 取出ServiceError中已经解码的错误数据
func ErrorData[E any](err error) (E, bool) {
	var se *ServiceError
	if !errors.As(err, &se) {
		return *new(E), false
	}
	data, ok := se.Data.(E)
	return data, ok
}

// CanceledError Unwrap之后是context.Canceled或者context.DeadlineExceeded
type CanceledError struct {
	Method string
	Err    error
}

func (e *CanceledError) Kind() Kind { return KindCanceled }

func (e *CanceledError) Message() string { return e.Err.Error() }

func (e *CanceledError) Error() string {
	return fmt.Sprintf("jsonrpc2: call %q canceled: %v", e.Method, e.Err)
}

func (e *CanceledError) Unwrap() error { return e.Err }

// ConfigError 契约在解析阶段发现的错误, 不会延迟到调用时
type ConfigError struct {
	Contract string
	Method   string
	Reason   string
}

func (e *ConfigError) Kind() Kind { return KindConfig }

func (e *ConfigError) Message() string { return e.Reason }

func (e *ConfigError) Error() string {
	if e.Method == "" {
		return fmt.Sprintf("jsonrpc2: invalid contract %s: %s", e.Contract, e.Reason)
	}
	return fmt.Sprintf("jsonrpc2: invalid contract %s.%s: %s", e.Contract, e.Method, e.Reason)
}
