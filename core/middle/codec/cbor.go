package codec

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/nyan233/littlerpc-jsonrpc/core/common/jsonrpc2"
)

const CborMediaType = "application/cbor"

// cbor major type 4 (array)
const cborArrayMajor = 0x80

type CborCodec struct{}

func (c CborCodec) Scheme() string {
	return "cbor"
}

func (c CborCodec) MediaType() string {
	return CborMediaType
}

func (c CborCodec) Marshal(v interface{}) ([]byte, error) {
	return cbor.Marshal(v)
}

func (c CborCodec) Unmarshal(data []byte, v interface{}) error {
	return cbor.Unmarshal(data, v)
}

func (c CborCodec) PeekID(data []byte) (jsonrpc2.ID, bool, bool) {
	if len(data) == 0 {
		return jsonrpc2.ID{}, false, false
	}
	if data[0]&0xe0 == cborArrayMajor {
		var batch []cbor.RawMessage
		if err := cbor.Unmarshal(data, &batch); err != nil {
			return jsonrpc2.ID{}, true, false
		}
		for _, elem := range batch {
			if id, ok := c.peekObjectID(elem); ok && !id.IsAbsent() {
				return id, true, true
			}
		}
		return jsonrpc2.ID{}, true, true
	}
	id, ok := c.peekObjectID(data)
	return id, false, ok
}

func (c CborCodec) peekObjectID(data []byte) (jsonrpc2.ID, bool) {
	var obj map[string]cbor.RawMessage
	if err := cbor.Unmarshal(data, &obj); err != nil {
		return jsonrpc2.ID{}, false
	}
	raw, ok := obj["id"]
	if !ok {
		return jsonrpc2.ID{}, true
	}
	var id jsonrpc2.ID
	if err := id.UnmarshalCBOR(raw); err != nil {
		return jsonrpc2.ID{}, false
	}
	return id, true
}
