package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"

	"github.com/nyan233/littlerpc-jsonrpc/core/binder"
	"github.com/nyan233/littlerpc-jsonrpc/core/client"
	"github.com/nyan233/littlerpc-jsonrpc/core/common/jsonrpc2"
)

type Hello struct {
	Hello func(ctx context.Context, s string) (int, error) `jsonrpc:"hello"`
}

// 一个只实现了hello方法的JSON-RPC服务
func serve(l net.Listener) {
	_ = http.Serve(l, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage `json:"id"`
			Params []string        `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Params) != 1 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		fmt.Println(req.Params[0])
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"jsonrpc": "2.0", "id": req.ID, "result": 1 << 20})
	}))
}

func main() {
	l, err := net.Listen("tcp", "127.0.0.1:1234")
	if err != nil {
		panic(err)
	}
	go serve(l)
	c, err := client.New(client.WithAddress("http://127.0.0.1:1234/rpc"))
	if err != nil {
		panic(err)
	}
	defer c.Close()
	hello, err := binder.Bind[Hello](binder.New(c))
	if err != nil {
		panic(err)
	}
	rep, err := hello.Hello(context.Background(), "hello")
	if err != nil {
		panic(err)
	}
	fmt.Println(rep)
	// 不使用契约时直接调用
	rep, err = client.Invoke[int](context.Background(), c, "hello", jsonrpc2.Positional("world"))
	if err != nil {
		panic(err)
	}
	fmt.Println(rep)
}
