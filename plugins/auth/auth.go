package auth

import (
	"encoding/base64"

	"github.com/nyan233/littlerpc-jsonrpc/core/middle/plugin"
)

const AuthorizationKey = "Authorization"

// BasicAuthorization 使用HTTP Basic认证, 用户名和密码为空时不设置header
type BasicAuthorization struct {
	plugin.AbstractClient
	UserName, Password string
}

func NewBasicAuth(userName, password string) *BasicAuthorization {
	return &BasicAuthorization{
		UserName: userName,
		Password: password,
	}
}

func (a *BasicAuthorization) Request4C(pub *plugin.Context, msg *plugin.Message) error {
	if a.UserName == "" && a.Password == "" {
		return nil
	}
	credential := base64.StdEncoding.EncodeToString([]byte(a.UserName + ":" + a.Password))
	msg.Header.Set(AuthorizationKey, "Basic "+credential)
	return nil
}
