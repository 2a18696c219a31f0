package errorhandler

import "errors"

// 调用前检查失败的原因, 由perror.UsageError包装, 使用errors.Is判断
var (
	ErrEmptyMethod       = errors.New("method name is empty")
	ErrReservedMethod    = errors.New("method name uses the reserved rpc. prefix")
	ErrNullParams        = errors.New("params supplied as null")
	ErrParamsNotObject   = errors.New("named params must be a struct or a map with string keys")
	ErrAbsentID          = errors.New("call that awaits a response requires a non-absent id")
	ErrDigestWithoutBody = errors.New("content digest computed but the request body was cleared")
	ErrResultNotPointer  = errors.New("result target must be a non-nil pointer")
	ErrNoEndpoint        = errors.New("no endpoint configured")
	ErrPlugin            = errors.New("plugin rejected the request")
)
