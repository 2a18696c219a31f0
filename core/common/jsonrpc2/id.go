package jsonrpc2

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/fxamacker/cbor/v2"
)

type idKind uint8

const (
	absentID idKind = iota
	numberID
	stringID
)

// ID is the request identifier. It is a closed variant: absent, number or string.
// The zero value is the absent id, two ids are equal (==) only when both the variant
// and the value match, so NumberID(1) != StringID("1").
type ID struct {
	kind idKind
	num  int64
	str  string
}

func NumberID(n int64) ID {
	return ID{kind: numberID, num: n}
}

func StringID(s string) ID {
	return ID{kind: stringID, str: s}
}

func (id ID) IsAbsent() bool {
	return id.kind == absentID
}

func (id ID) IsNumber() bool {
	return id.kind == numberID
}

func (id ID) IsString() bool {
	return id.kind == stringID
}

func (id ID) Number() (int64, bool) {
	return id.num, id.kind == numberID
}

func (id ID) Str() (string, bool) {
	return id.str, id.kind == stringID
}

func (id ID) String() string {
	switch id.kind {
	case numberID:
		return strconv.FormatInt(id.num, 10)
	case stringID:
		return strconv.Quote(id.str)
	default:
		return "<absent>"
	}
}

var nullBytes = []byte("null")

func (id ID) MarshalJSON() ([]byte, error) {
	switch id.kind {
	case numberID:
		return strconv.AppendInt(nil, id.num, 10), nil
	case stringID:
		return json.Marshal(id.str)
	default:
		return nullBytes, nil
	}
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, nullBytes) {
		*id = ID{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = StringID(s)
		return nil
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("jsonrpc2: id %s is not a string or an integer", data)
	}
	*id = NumberID(n)
	return nil
}

func (id ID) MarshalCBOR() ([]byte, error) {
	switch id.kind {
	case numberID:
		return cbor.Marshal(id.num)
	case stringID:
		return cbor.Marshal(id.str)
	default:
		return cbor.Marshal(nil)
	}
}

func (id *ID) UnmarshalCBOR(data []byte) error {
	var v interface{}
	if err := cbor.Unmarshal(data, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case nil:
		*id = ID{}
	case string:
		*id = StringID(val)
	case int64:
		*id = NumberID(val)
	case uint64:
		if val > 1<<63-1 {
			return errors.New("jsonrpc2: id overflows int64")
		}
		*id = NumberID(int64(val))
	default:
		return fmt.Errorf("jsonrpc2: id of type %T is not a string or an integer", v)
	}
	return nil
}
