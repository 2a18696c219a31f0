package codec

import (
	"bytes"
	"encoding/json"

	"github.com/buger/jsonparser"
	"github.com/nyan233/littlerpc-jsonrpc/core/common/jsonrpc2"
)

const JsonMediaType = "application/json"

type JsonCodec struct{}

func (j JsonCodec) Scheme() string {
	return "json"
}

func (j JsonCodec) MediaType() string {
	return JsonMediaType
}

func (j JsonCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (j JsonCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// PeekID 不需要解码整个文档, 文档的其它部分有语法错误时也能找到id
func (j JsonCodec) PeekID(data []byte) (jsonrpc2.ID, bool, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return jsonrpc2.ID{}, false, false
	}
	switch data[0] {
	case '{':
		id, ok := peekObjectID(data)
		return id, false, ok
	case '[':
		var (
			found bool
			first jsonrpc2.ID
		)
		_, err := jsonparser.ArrayEach(data, func(value []byte, dataType jsonparser.ValueType, _ int, _ error) {
			if found || dataType != jsonparser.Object {
				return
			}
			if id, ok := peekObjectID(value); ok && !id.IsAbsent() {
				first, found = id, true
			}
		})
		if err != nil && !found {
			return jsonrpc2.ID{}, true, false
		}
		return first, true, true
	default:
		return jsonrpc2.ID{}, false, false
	}
}

func peekObjectID(obj []byte) (jsonrpc2.ID, bool) {
	value, dataType, _, err := jsonparser.Get(obj, "id")
	if err == jsonparser.KeyPathNotFoundError {
		return jsonrpc2.ID{}, true
	}
	if err != nil {
		return jsonrpc2.ID{}, false
	}
	switch dataType {
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return jsonrpc2.ID{}, false
		}
		return jsonrpc2.StringID(s), true
	case jsonparser.Number:
		n, err := jsonparser.ParseInt(value)
		if err != nil {
			return jsonrpc2.ID{}, false
		}
		return jsonrpc2.NumberID(n), true
	case jsonparser.Null:
		return jsonrpc2.ID{}, true
	default:
		return jsonrpc2.ID{}, false
	}
}
