package redis

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack"
	"google.golang.org/protobuf/proto"
)

// Codec converts values to and from the bytes stored by SetObject and GetObject.
type Codec interface {
	Name() string
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

// JSONCodec stores values as JSON. It is the default codec.
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(v interface{}) ([]byte, error) { return json.Marshal(v) }

func (JSONCodec) Unmarshal(data []byte, v interface{}) error { return json.Unmarshal(data, v) }

// MsgPackCodec stores values as MessagePack, which is smaller than JSON for most payloads.
type MsgPackCodec struct{}

func (MsgPackCodec) Name() string { return "msgpack" }

func (MsgPackCodec) Marshal(v interface{}) ([]byte, error) { return msgpack.Marshal(v) }

func (MsgPackCodec) Unmarshal(data []byte, v interface{}) error { return msgpack.Unmarshal(data, v) }

// ProtoCodec stores protobuf messages in their binary wire format.
// Both the stored value and the decode target must implement proto.Message.
type ProtoCodec struct{}

func (ProtoCodec) Name() string { return "proto" }

func (ProtoCodec) Marshal(v interface{}) ([]byte, error) {
	m, ok := v.(proto.Message)
	if !ok {
		return nil, ErrNotProtoMessage
	}
	return proto.Marshal(m)
}

func (ProtoCodec) Unmarshal(data []byte, v interface{}) error {
	m, ok := v.(proto.Message)
	if !ok {
		return ErrNotProtoMessage
	}
	return proto.Unmarshal(data, m)
}

// CodecByName returns the codec registered under name ("json", "msgpack" or "proto").
// The second result is false for unknown names.
func CodecByName(name string) (Codec, bool) {
	switch name {
	case "", "json":
		return JSONCodec{}, true
	case "msgpack":
		return MsgPackCodec{}, true
	case "proto":
		return ProtoCodec{}, true
	}
	return nil, false
}
