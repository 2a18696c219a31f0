package jsonrpc2

import "bytes"

// cbor中null的编码
const cborNull = 0xf6

// RawValue 保存由Codec编码后的原始数据, 结果和错误数据在确定目标类型之后才解码.
// 同时实现了json与cbor的Marshaler/Unmarshaler, 所以数据会被原样嵌入到信封中
type RawValue []byte

func (r RawValue) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return nullBytes, nil
	}
	return r, nil
}

func (r *RawValue) UnmarshalJSON(data []byte) error {
	*r = append((*r)[0:0], data...)
	return nil
}

func (r RawValue) MarshalCBOR() ([]byte, error) {
	if len(r) == 0 {
		return []byte{cborNull}, nil
	}
	return r, nil
}

func (r *RawValue) UnmarshalCBOR(data []byte) error {
	*r = append((*r)[0:0], data...)
	return nil
}

// IsNull 数据存在但值为null
func (r RawValue) IsNull() bool {
	if len(r) == 1 && r[0] == cborNull {
		return true
	}
	return bytes.Equal(bytes.TrimSpace(r), nullBytes)
}
