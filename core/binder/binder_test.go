package binder

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"
	"unsafe"

	"github.com/nyan233/littlerpc-jsonrpc/core/client"
	"github.com/nyan233/littlerpc-jsonrpc/core/common/jsonrpc2"
	perror "github.com/nyan233/littlerpc-jsonrpc/core/protocol/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Detail struct {
	Field string `json:"field"`
}

type Arith struct {
	Sub func(ctx context.Context, a, b int) (int, error) `jsonrpc:"sub"`
	Mul func(a, b int) (int, error)                      `jsonrpc:"arith.mul"`
}

type Calculator struct {
	Arith
	Add   func(ctx context.Context, a, b int) (int, error) `jsonrpc:"add" params:"position:1,0"`
	Greet func(name string) (string, error)                 `jsonrpc:"greet" params:"name:who" errdata:"detail"`
	Ping  func(ctx context.Context) error                   `jsonrpc:"ping"`
	// 覆盖Arith.Mul
	Mul func(a, b int) (int, error) `jsonrpc:"mul"`
}

type Base struct {
	Ping func(ctx context.Context) error `jsonrpc:"base.ping"`
}

type Left struct {
	Base
	Left func() (string, error) `jsonrpc:"left"`
}

type Right struct {
	Base
	Right func() (string, error) `jsonrpc:"right"`
}

type Diamond struct {
	Left
	Right
}

// fakeInvoker 记录调用并返回预设的结果
type fakeInvoker struct {
	mu     sync.Mutex
	calls  []*client.Call
	ctx    []context.Context
	result interface{}
	err    error
}

func (f *fakeInvoker) Do(ctx context.Context, call *client.Call) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	f.ctx = append(f.ctx, ctx)
	if f.err != nil {
		return f.err
	}
	if call.Result != nil && f.result != nil {
		reflect.ValueOf(call.Result).Elem().Set(reflect.ValueOf(f.result))
	}
	return nil
}

func newBinder(inv Invoker) *Binder {
	return New(inv, WithErrorData("detail", Detail{}))
}

func TestResolve(t *testing.T) {
	b := newBinder(&fakeInvoker{})
	contract, err := b.Resolve(reflect.TypeOf(Calculator{}))
	require.NoError(t, err)
	assert.Len(t, contract.Methods, 5)

	add, ok := contract.Method("Add")
	require.True(t, ok)
	assert.Equal(t, "add", add.Method)
	assert.True(t, add.HasContext)
	assert.Equal(t, []int{1, 0}, add.Positions)
	assert.Equal(t, reflect.TypeOf(0), add.Result)
	assert.Len(t, add.Params, 2)

	greet, ok := contract.Method("Greet")
	require.True(t, ok)
	assert.Equal(t, jsonrpc2.NamedStyle, greet.Style)
	assert.Equal(t, reflect.TypeOf(Detail{}), greet.ErrorData)

	ping, ok := contract.Method("Ping")
	require.True(t, ok)
	assert.Nil(t, ping.Result)
	assert.Equal(t, jsonrpc2.NoneStyle, ping.Style)

	mul, ok := contract.Method("Mul")
	require.True(t, ok)
	assert.Equal(t, "mul", mul.Method)
	assert.Equal(t, []int{4}, mul.Index)

	sub, ok := contract.Method("Sub")
	require.True(t, ok)
	assert.Equal(t, []int{0, 0}, sub.Index)

	// 菱形嵌入: Base通过两条路径被嵌入, 只保留第一条路径
	diamond, err := b.Resolve(reflect.TypeOf(Diamond{}))
	require.NoError(t, err)
	assert.Len(t, diamond.Methods, 3)
	ping, ok = diamond.Method("Ping")
	require.True(t, ok)
	assert.Equal(t, "base.ping", ping.Method)
	assert.Equal(t, []int{0, 0, 0}, ping.Index)

	// 指针和缓存
	again, err := b.Resolve(reflect.TypeOf(&Calculator{}))
	require.NoError(t, err)
	assert.Same(t, contract, again)
}

func TestResolveConcurrent(t *testing.T) {
	b := newBinder(&fakeInvoker{})
	const n = 32
	results := make([]*Contract, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			contract, err := b.Resolve(reflect.TypeOf(Calculator{}))
			assert.NoError(t, err)
			results[i] = contract
		}(i)
	}
	wg.Wait()
	for _, contract := range results {
		assert.Same(t, results[0], contract)
	}
}

func TestResolveConfigError(t *testing.T) {
	type property struct {
		Name string
	}
	type missingTag struct {
		Add func(a int) (int, error)
	}
	type badCount struct {
		Add func(a, b int) (int, error) `jsonrpc:"add" params:"position:0"`
	}
	type byRef struct {
		Watch func(ch chan int) error `jsonrpc:"watch"`
	}
	type byPointer struct {
		Raw func(p unsafe.Pointer) error `jsonrpc:"raw"`
	}
	type callback struct {
		Each func(fn func()) error `jsonrpc:"each"`
	}
	type badReturn struct {
		Add func(a int) int `jsonrpc:"add"`
	}
	type tooMany struct {
		Add func(a int) (int, int, error) `jsonrpc:"add"`
	}
	type lateContext struct {
		Add func(a int, ctx context.Context) error `jsonrpc:"add"`
	}
	type variadic struct {
		Sum func(a ...int) (int, error) `jsonrpc:"sum"`
	}
	type unknownErrData struct {
		Add func(a int) error `jsonrpc:"add" errdata:"missing"`
	}
	type duplicateWire struct {
		A func() error `jsonrpc:"same"`
		B func() error `jsonrpc:"same"`
	}
	type reserved struct {
		A func() error `jsonrpc:"rpc.ping"`
	}
	type unexported struct {
		a func() error `jsonrpc:"a"`
	}
	type left struct {
		A func() error `jsonrpc:"left"`
	}
	type right struct {
		A func() error `jsonrpc:"right"`
	}
	type ambiguous struct {
		left
		right
	}
	type embeddedPointer struct {
		*Arith
	}
	b := newBinder(&fakeInvoker{})
	for _, typ := range []reflect.Type{
		reflect.TypeOf(0),
		reflect.TypeOf(property{}),
		reflect.TypeOf(missingTag{}),
		reflect.TypeOf(badCount{}),
		reflect.TypeOf(byRef{}),
		reflect.TypeOf(byPointer{}),
		reflect.TypeOf(callback{}),
		reflect.TypeOf(badReturn{}),
		reflect.TypeOf(tooMany{}),
		reflect.TypeOf(lateContext{}),
		reflect.TypeOf(variadic{}),
		reflect.TypeOf(unknownErrData{}),
		reflect.TypeOf(duplicateWire{}),
		reflect.TypeOf(reserved{}),
		reflect.TypeOf(unexported{}),
		reflect.TypeOf(ambiguous{}),
		reflect.TypeOf(embeddedPointer{}),
	} {
		_, err := b.Resolve(typ)
		var ce *perror.ConfigError
		if assert.ErrorAs(t, err, &ce, typ.String()) {
			assert.Equal(t, perror.KindConfig, perror.KindOf(err))
			assert.Equal(t, typ.String(), ce.Contract)
		}
	}
	_, err := b.Resolve(nil)
	assert.Equal(t, perror.KindConfig, perror.KindOf(err))
}

func TestBindDispatch(t *testing.T) {
	inv := &fakeInvoker{result: 42}
	b := newBinder(inv)
	calc, err := Bind[Calculator](b)
	require.NoError(t, err)

	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "v")
	sum, err := calc.Add(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 42, sum)
	require.Len(t, inv.calls, 1)
	assert.Equal(t, "add", inv.calls[0].Method)
	assert.Equal(t, []interface{}{2, 1}, inv.calls[0].Params.Value())
	assert.Equal(t, "v", inv.ctx[0].Value(ctxKey{}))

	// context为nil时使用Background
	_, err = calc.Sub(nil, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, "sub", inv.calls[1].Method)
	assert.NotNil(t, inv.ctx[1])

	inv.result = "hi"
	greeting, err := calc.Greet("bob")
	require.NoError(t, err)
	assert.Equal(t, "hi", greeting)
	assert.Equal(t, jsonrpc2.NamedStyle, inv.calls[2].Params.Style())
	assert.Equal(t, map[string]interface{}{"who": "bob"}, inv.calls[2].Params.Value())
	assert.Equal(t, reflect.TypeOf(Detail{}), inv.calls[2].ErrorData)

	require.NoError(t, calc.Ping(context.Background()))
	assert.Nil(t, inv.calls[3].Result)
	assert.Equal(t, jsonrpc2.NoneStyle, inv.calls[3].Params.Style())

	inv.result = 6
	product, err := calc.Mul(2, 3)
	require.NoError(t, err)
	assert.Equal(t, 6, product)
	assert.Equal(t, "mul", inv.calls[4].Method)
	// 被覆盖的方法不会被绑定
	assert.Nil(t, calc.Arith.Mul)
}

func TestBindError(t *testing.T) {
	cause := &perror.ServiceError{RpcCode: -32000, RpcMessage: "boom"}
	b := newBinder(&fakeInvoker{err: cause, result: 1})
	calc, err := Bind[Calculator](b)
	require.NoError(t, err)
	sum, err := calc.Add(context.Background(), 1, 2)
	assert.Zero(t, sum)
	assert.Same(t, cause, err)
	assert.Same(t, cause, calc.Ping(context.Background()))

	assert.Error(t, b.Bind(nil))
	assert.Error(t, b.Bind(Calculator{}))
	var nilCalc *Calculator
	assert.Error(t, b.Bind(nilCalc))
}

func TestBindWithClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
			Params json.RawMessage `json:"params"`
		}
		if !assert.NoError(t, json.Unmarshal(body, &req)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch req.Method {
		case "add":
			var args []int
			_ = json.Unmarshal(req.Params, &args)
			rsp, _ := json.Marshal(map[string]interface{}{"jsonrpc": "2.0", "id": req.ID, "result": args[0] - args[1]})
			_, _ = w.Write(rsp)
		case "greet":
			_, _ = io.WriteString(w, `{"jsonrpc":"2.0","id":`+string(req.ID)+
				`,"error":{"code":-32602,"message":"bad name","data":{"field":"who"}}}`)
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer server.Close()
	c, err := client.New(client.WithAddress(server.URL))
	require.NoError(t, err)
	defer c.Close()
	calc, err := Bind[Calculator](newBinder(c))
	require.NoError(t, err)

	// position:1,0 交换了参数的顺序
	diff, err := calc.Add(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.Equal(t, 4, diff)

	_, err = calc.Greet("")
	require.Error(t, err)
	assert.Equal(t, perror.KindService, perror.KindOf(err))
	detail, ok := perror.ErrorData[Detail](err)
	require.True(t, ok)
	assert.Equal(t, "who", detail.Field)

	assert.NoError(t, calc.Ping(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = calc.Ping(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}
