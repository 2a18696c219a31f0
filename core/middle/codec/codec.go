package codec

import (
	"sync"

	"github.com/nyan233/littlerpc-jsonrpc/core/common/jsonrpc2"
)

// Codec 负责信封以及params/result/error.data的编解码
// 实现必须可以被多个goroutine同时使用
type Codec interface {
	// Scheme 注册时使用的名字, 例如json
	Scheme() string
	// MediaType HTTP Content-Type & Accept使用的媒体类型, 不包含参数
	MediaType() string
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

// Peeker 可选接口, 在完整解码失败时依然尽力从数据中找出id
// batch为true表示数据是一个数组, 此时id为第一个可以解析的元素的id
// ok为false表示数据无法被解析
type Peeker interface {
	PeekID(data []byte) (id jsonrpc2.ID, batch bool, ok bool)
}

var (
	manager = &codecManager{
		codecCollection: map[string]Codec{},
	}
)

type codecManager struct {
	mu              sync.RWMutex
	codecCollection map[string]Codec
}

func (m *codecManager) registerCodec(c Codec) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codecCollection[c.Scheme()] = c
}

func (m *codecManager) getCodecFromScheme(scheme string) Codec {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.codecCollection[scheme]
}

// RegisterCodec 该调用是线程安全的, 同名的Codec会被覆盖
func RegisterCodec(c Codec) {
	manager.registerCodec(c)
}

// GetCodecFromScheme 该调用是线程安全的, 不存在时返回nil
func GetCodecFromScheme(scheme string) Codec {
	return manager.getCodecFromScheme(scheme)
}

// PeekID 优先使用Codec自己的Peeker, 否则按照通用的方式尝试解码
func PeekID(c Codec, data []byte) (jsonrpc2.ID, bool, bool) {
	if p, ok := c.(Peeker); ok {
		return p.PeekID(data)
	}
	var batch []struct {
		ID jsonrpc2.ID `json:"id" cbor:"id"`
	}
	if err := c.Unmarshal(data, &batch); err == nil {
		for _, elem := range batch {
			if !elem.ID.IsAbsent() {
				return elem.ID, true, true
			}
		}
		return jsonrpc2.ID{}, true, true
	}
	var single struct {
		ID jsonrpc2.ID `json:"id" cbor:"id"`
	}
	if err := c.Unmarshal(data, &single); err != nil {
		return jsonrpc2.ID{}, false, false
	}
	return single.ID, false, true
}

func init() {
	RegisterCodec(new(JsonCodec))
	RegisterCodec(new(CborCodec))
}
