package jsonrpc2

import (
	"strings"

	"github.com/nyan233/littlerpc-jsonrpc/core/common/errorhandler"
)

// ValidateMethod 检查方法名是否可以被发送
func ValidateMethod(method string) error {
	if method == "" {
		return errorhandler.ErrEmptyMethod
	}
	if strings.HasPrefix(method, ReservedPrefix) {
		return errorhandler.ErrReservedMethod
	}
	return nil
}
