package oauth2

import (
	"context"
	"fmt"

	"github.com/nyan233/littlerpc-jsonrpc/core/middle/plugin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// TokenAuthorization 每次调用之前从TokenSource取得token并设置Authorization
type TokenAuthorization struct {
	plugin.AbstractClient
	src oauth2.TokenSource
}

// New token在过期之前会被复用
func New(src oauth2.TokenSource) *TokenAuthorization {
	return &TokenAuthorization{src: oauth2.ReuseTokenSource(nil, src)}
}

// NewClientCredentials 使用client credentials流程获取token, ctx用于获取token的HTTP请求
func NewClientCredentials(ctx context.Context, config *clientcredentials.Config) *TokenAuthorization {
	return &TokenAuthorization{src: config.TokenSource(ctx)}
}

func (a *TokenAuthorization) Request4C(pub *plugin.Context, msg *plugin.Message) error {
	token, err := a.src.Token()
	if err != nil {
		return fmt.Errorf("oauth2: fetch token: %w", err)
	}
	msg.Header.Set("Authorization", token.Type()+" "+token.AccessToken)
	return nil
}
