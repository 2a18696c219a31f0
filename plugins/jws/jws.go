package jws

import (
	"fmt"

	"github.com/go-jose/go-jose/v4"
	"github.com/nyan233/littlerpc-jsonrpc/core/middle/plugin"
)

// HeaderName 保存消息体的detached JWS, payload不包含在签名中
const HeaderName = "X-JWS-Signature"

// Signer 对最终发送的消息体签名, 应该被注册为最后一个修改消息体的插件
type Signer struct {
	plugin.AbstractClient
	signer jose.Signer
}

func New(alg jose.SignatureAlgorithm, key interface{}) (*Signer, error) {
	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: alg, Key: key}, (&jose.SignerOptions{}).WithType("JOSE"))
	if err != nil {
		return nil, err
	}
	return &Signer{signer: signer}, nil
}

func (s *Signer) Request4C(pub *plugin.Context, msg *plugin.Message) error {
	obj, err := s.signer.Sign(msg.Body)
	if err != nil {
		return fmt.Errorf("jws: sign body: %w", err)
	}
	compact, err := obj.DetachedCompactSerialize()
	if err != nil {
		return err
	}
	msg.Header.Set(HeaderName, compact)
	return nil
}

// Verify 服务端使用, 检查header中的签名与消息体是否匹配
func Verify(signature string, body []byte, alg jose.SignatureAlgorithm, key interface{}) error {
	obj, err := jose.ParseDetached(signature, body, []jose.SignatureAlgorithm{alg})
	if err != nil {
		return err
	}
	return obj.DetachedVerify(body, key)
}
