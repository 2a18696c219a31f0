package client

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"reflect"
	"strings"

	"github.com/nyan233/littlerpc-jsonrpc/core/common/errorhandler"
	"github.com/nyan233/littlerpc-jsonrpc/core/common/jsonrpc2"
	"github.com/nyan233/littlerpc-jsonrpc/core/middle/codec"
	"github.com/nyan233/littlerpc-jsonrpc/core/middle/plugin"
	perror "github.com/nyan233/littlerpc-jsonrpc/core/protocol/error"
)

const (
	headerContentType   = "Content-Type"
	headerAccept        = "Accept"
	headerEncoding      = "Accept-Encoding"
	encodingIdentity    = "identity"
	headerUserAgent     = "User-Agent"
	headerContentDigest = "Content-Digest"
)

// Do 执行一次调用, 返回的错误总是perror中定义的类型之一
//
//	使用错误: 在任何I/O之前返回, transport不会被调用
//	取消: ctx在调用之前或者等待响应时被取消
//	协议/契约/服务错误: 按照响应的校验顺序, 第一个失败的检查决定结果
func (c *Client) Do(ctx context.Context, call *Call) (completeErr error) {
	snap := c.snapshot.Load()
	cfg := snap.cfg
	cc := newCallConfig(call.Options)
	if err := checkCall(call, cc); err != nil {
		return &perror.UsageError{Method: call.Method, Err: err}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return &perror.CanceledError{Method: call.Method, Err: err}
	}
	id := callID(cfg, call, cc)
	body, err := encodeRequest(cfg.Codec, call, id)
	if err != nil {
		return &perror.UsageError{Method: call.Method, Err: err}
	}
	endpoint, done, err := c.endpoint(cfg, call.Method)
	if err != nil {
		return &perror.UsageError{Method: call.Method, Err: err}
	}
	defer done()
	pm := snap.pluginManager
	pub := pm.GetContext()
	pub.Init(ctx, cfg.Logger, call.Method, id, endpoint)
	defer func() {
		pm.AfterReceive4C(pub, completeErr)
		pm.FreeContext(pub)
	}()
	msg := &plugin.Message{Header: buildHeader(cfg, cc, body), Body: body}
	if err := pm.Request4C(pub, msg); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return &perror.CanceledError{Method: call.Method, Err: ctxErr}
		}
		return &perror.UsageError{Method: call.Method, Err: fmt.Errorf("%w: %w", errorhandler.ErrPlugin, err)}
	}
	if cfg.ContentDigest {
		// 插件可能替换了body, 摘要必须覆盖实际发送的数据
		if len(msg.Body) == 0 {
			return &perror.UsageError{Method: call.Method, Err: errorhandler.ErrDigestWithoutBody}
		}
		msg.Header.Set(headerContentDigest, contentDigest(msg.Body))
	}
	cfg.Logger.Debug("LRPC: call method=%s id=%s endpoint=%s", call.Method, id, endpoint)
	rsp, err := c.roundTrip(ctx, cfg, call.Method, endpoint, msg, pm, pub)
	if err != nil {
		cfg.Logger.Warn("LRPC: call method=%s id=%s failed: %v", call.Method, id, err)
		return err
	}
	pm.Receive4C(pub, rsp.status, &plugin.Message{Header: rsp.header, Body: rsp.body})
	if call.Notify {
		err = validateNotify(cfg, rsp)
	} else {
		err = validateResponse(cfg, call, id, rsp)
	}
	if perror.KindOf(err) == perror.KindProtocol {
		cfg.Logger.Warn("LRPC: call method=%s id=%s failed: %v", call.Method, id, err)
	}
	return err
}

func checkCall(call *Call, cc *callConfig) error {
	if err := jsonrpc2.ValidateMethod(call.Method); err != nil {
		return err
	}
	if err := call.Params.Validate(); err != nil {
		return err
	}
	if call.Notify {
		return nil
	}
	// 没有id的请求就是通知, 需要等待响应的调用不能使用它
	if cc.idSet && cc.id.IsAbsent() {
		return errorhandler.ErrAbsentID
	}
	if call.Result == nil {
		return nil
	}
	val := reflect.ValueOf(call.Result)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return errorhandler.ErrResultNotPointer
	}
	return nil
}

func callID(cfg *Config, call *Call, cc *callConfig) jsonrpc2.ID {
	if call.Notify {
		return jsonrpc2.ID{}
	}
	if cc.idSet {
		return cc.id
	}
	return cfg.IDGenerator.NextID()
}

// encodeRequest params按照风格原样编码, 没有参数时请求不包含params成员
func encodeRequest(c codec.Codec, call *Call, id jsonrpc2.ID) ([]byte, error) {
	var params jsonrpc2.RawValue
	if call.Params.Style() != jsonrpc2.NoneStyle {
		data, err := c.Marshal(call.Params.Value())
		if err != nil {
			return nil, fmt.Errorf("encode params: %w", err)
		}
		params = data
	}
	data, err := c.Marshal(jsonrpc2.NewRequest(call.Method, id, params))
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return data, nil
}

func buildHeader(cfg *Config, cc *callConfig, body []byte) http.Header {
	header := make(http.Header, 8)
	for k, v := range cfg.Headers {
		header[k] = append([]string(nil), v...)
	}
	for k, v := range cc.headers {
		header[k] = append([]string(nil), v...)
	}
	mediaType := cfg.Codec.MediaType()
	header.Set(headerContentType, mediaType)
	header.Set(headerAccept, mediaType)
	if len(cfg.AcceptEncodings) > 0 {
		header.Set(headerEncoding, strings.Join(cfg.AcceptEncodings, ", "))
	} else {
		// 没有配置时net/http会自己添加gzip, identity阻止这一行为
		header.Set(headerEncoding, encodingIdentity)
	}
	if cfg.UserAgent {
		header.Set(headerUserAgent, cfg.UserAgentValue)
	} else if header.Get(headerUserAgent) == "" {
		// 空值会阻止net/http添加默认的User-Agent
		header.Set(headerUserAgent, "")
	}
	if cfg.ContentDigest && len(body) > 0 {
		header.Set(headerContentDigest, contentDigest(body))
	}
	return header
}

// contentDigest RFC 9530格式: sha-256=:base64:
func contentDigest(body []byte) string {
	sum := sha256.Sum256(body)
	return "sha-256=:" + base64.StdEncoding.EncodeToString(sum[:]) + ":"
}

type response struct {
	status int
	header http.Header
	body   []byte
}

func (c *Client) roundTrip(ctx context.Context, cfg *Config, method, endpoint string,
	msg *plugin.Message, pm *pluginManager, pub *plugin.Context) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(msg.Body))
	if err != nil {
		return nil, &perror.UsageError{Method: method, Err: err}
	}
	if len(msg.Body) == 0 {
		req.Body = http.NoBody
		req.GetBody = nil
		req.ContentLength = 0
	}
	req.Header = msg.Header
	resp, err := cfg.Transport.Do(req)
	pm.Send4C(pub, msg, err)
	if err != nil {
		return nil, transportError(ctx, method, err)
	}
	if resp == nil {
		return nil, &perror.ProtocolError{Reason: "transport returned no response"}
	}
	if resp.Body != nil {
		defer resp.Body.Close()
	}
	body, err := readBody(resp, cfg.AcceptEncodings)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &perror.CanceledError{Method: method, Err: ctxErr}
		}
		return nil, &perror.ProtocolError{StatusCode: resp.StatusCode, Reason: "failed to read response body", Err: err}
	}
	return &response{status: resp.StatusCode, header: resp.Header, body: body}, nil
}

// transportError 等待响应时观察到的取消不会被归类为协议错误
func transportError(ctx context.Context, method string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return &perror.CanceledError{Method: method, Err: ctxErr}
	}
	if errors.Is(err, context.Canceled) {
		return &perror.CanceledError{Method: method, Err: context.Canceled}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &perror.CanceledError{Method: method, Err: context.DeadlineExceeded}
	}
	return &perror.ProtocolError{Reason: "transport failure", Err: err}
}

func isSuccess(status int) bool {
	return status >= 200 && status <= 299
}

// peekID 只会返回从响应体中解析出的id, 解析失败时为absent
func peekID(c codec.Codec, body []byte) jsonrpc2.ID {
	if len(body) == 0 {
		return jsonrpc2.ID{}
	}
	id, _, ok := codec.PeekID(c, body)
	if !ok {
		return jsonrpc2.ID{}
	}
	return id
}

func validateNotify(cfg *Config, rsp *response) error {
	if !isSuccess(rsp.status) {
		return &perror.ProtocolError{
			StatusCode: rsp.status,
			ID:         peekID(cfg.Codec, rsp.body),
			Reason:     fmt.Sprintf("unexpected HTTP status %d", rsp.status),
		}
	}
	return nil
}

func validateResponse(cfg *Config, call *Call, id jsonrpc2.ID, rsp *response) error {
	expectResult := call.Result != nil
	// 1. HTTP状态
	if !isSuccess(rsp.status) {
		return &perror.ProtocolError{
			StatusCode: rsp.status,
			ID:         peekID(cfg.Codec, rsp.body),
			Reason:     fmt.Sprintf("unexpected HTTP status %d", rsp.status),
		}
	}
	if len(rsp.body) == 0 {
		if !expectResult {
			return nil
		}
		// 4. 期望结果但是没有内容
		return &perror.ProtocolError{StatusCode: rsp.status, Reason: "response has no content but a result is expected"}
	}
	// 2. 媒体类型
	if err := checkContentType(cfg, rsp.header.Get(headerContentType)); err != nil {
		return &perror.ProtocolError{StatusCode: rsp.status, Reason: err.Error()}
	}
	// 3. 必须是单个响应对象
	peeked, batch, peekOk := codec.PeekID(cfg.Codec, rsp.body)
	if batch {
		return &perror.ProtocolError{StatusCode: rsp.status, ID: peeked, Reason: "batch response where a single response was expected"}
	}
	envelope := new(jsonrpc2.Response)
	if err := cfg.Codec.Unmarshal(rsp.body, envelope); err != nil {
		pe := &perror.ProtocolError{StatusCode: rsp.status, Reason: "undecodable response", Err: err}
		if peekOk {
			pe.ID = peeked
		}
		return pe
	}
	if envelope.Version != jsonrpc2.Version && !(cfg.Compatibility == CompatibilityLenient && envelope.Version == "") {
		return &perror.ProtocolError{
			StatusCode: rsp.status,
			ID:         envelope.ID,
			Reason:     fmt.Sprintf("invalid jsonrpc version %q", envelope.Version),
		}
	}
	hasResult := envelope.HasResult()
	if hasResult && envelope.HasError() && cfg.Compatibility == CompatibilityLenient && envelope.Result.IsNull() {
		hasResult = false
	}
	// 4. 不期望结果却有结果
	if !expectResult && hasResult {
		return &perror.ProtocolError{StatusCode: rsp.status, ID: envelope.ID, Reason: "response carries a result but none is expected"}
	}
	// 5. id关联
	if envelope.ID != id {
		return &perror.ContractError{
			ID:     envelope.ID,
			Reason: fmt.Sprintf("response id %s does not match request id %s", envelope.ID, id),
		}
	}
	// 6. result & error 有且只有一个
	if hasResult == envelope.HasError() {
		return &perror.ProtocolError{StatusCode: rsp.status, ID: envelope.ID, Reason: "response must carry exactly one of result and error"}
	}
	// 7. 服务错误
	if envelope.HasError() {
		return serviceError(cfg.Codec, call.ErrorData, envelope)
	}
	// 8. 结果
	if err := cfg.Codec.Unmarshal(envelope.Result, call.Result); err != nil {
		return &perror.ContractError{ID: envelope.ID, Reason: "result cannot be decoded into the declared shape", Err: err}
	}
	return nil
}

func checkContentType(cfg *Config, contentType string) error {
	if contentType == "" {
		return errors.New("response has no content type")
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return fmt.Errorf("malformed content type %q", contentType)
	}
	expect := cfg.Codec.MediaType()
	if strings.EqualFold(mediaType, expect) {
		return nil
	}
	if cfg.Compatibility == CompatibilityLenient && expect == codec.JsonMediaType {
		switch mediaType {
		case "application/json-rpc", "application/jsonrequest":
			return nil
		}
	}
	return fmt.Errorf("content type %q does not match %q", mediaType, expect)
}

func serviceError(c codec.Codec, errData reflect.Type, envelope *jsonrpc2.Response) error {
	se := &perror.ServiceError{
		ID:         envelope.ID,
		RpcCode:    envelope.Error.Code,
		RpcMessage: envelope.Error.Message,
		RawData:    envelope.Error.Data,
	}
	if errData == nil || len(envelope.Error.Data) == 0 {
		return se
	}
	val := reflect.New(errData)
	if err := c.Unmarshal(envelope.Error.Data, val.Interface()); err != nil {
		return &perror.ContractError{ID: envelope.ID, Reason: "error data cannot be decoded into the declared shape", Err: err}
	}
	se.Data = val.Elem().Interface()
	return se
}
