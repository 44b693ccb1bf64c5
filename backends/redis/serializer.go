package redis

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"
)

// Serializer type names accepted in Config.
const (
	SerializerString = "string"
	SerializerJSON   = "json"
	SerializerGob    = "gob"
	SerializerBytes  = "bytes"
)

// Serializer converts values to and from the byte form stored in Redis.
// The template holds four independent serializers: key, value, hash key and
// hash value.
type Serializer interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, dest any) error
}

// ParseSerializer resolves a serializer type name from Config.
func ParseSerializer(name string) (Serializer, error) {
	switch name {
	case SerializerString, "":
		return stringSerializer{}, nil
	case SerializerJSON:
		return jsonSerializer{}, nil
	case SerializerGob:
		return gobSerializer{}, nil
	case SerializerBytes:
		return bytesSerializer{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSerializer, name)
	}
}

type stringSerializer struct{}

func (stringSerializer) Encode(v any) ([]byte, error) {
	switch s := v.(type) {
	case string:
		return []byte(s), nil
	case []byte:
		return s, nil
	case fmt.Stringer:
		return []byte(s.String()), nil
	default:
		return nil, fmt.Errorf("%w: string serializer cannot encode %T", ErrUnsupportedValue, v)
	}
}

func (stringSerializer) Decode(data []byte, dest any) error {
	switch d := dest.(type) {
	case *string:
		*d = string(data)
		return nil
	case *[]byte:
		*d = append((*d)[:0], data...)
		return nil
	default:
		return fmt.Errorf("%w: string serializer cannot decode into %T", ErrUnsupportedDest, dest)
	}
}

type jsonSerializer struct{}

func (jsonSerializer) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonSerializer) Decode(data []byte, dest any) error {
	return json.Unmarshal(data, dest)
}

type gobSerializer struct{}

func (gobSerializer) Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (gobSerializer) Decode(data []byte, dest any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(dest)
}

type bytesSerializer struct{}

func (bytesSerializer) Encode(v any) ([]byte, error) {
	switch b := v.(type) {
	case []byte:
		return b, nil
	case string:
		return []byte(b), nil
	default:
		return nil, fmt.Errorf("%w: bytes serializer cannot encode %T", ErrUnsupportedValue, v)
	}
}

func (bytesSerializer) Decode(data []byte, dest any) error {
	switch d := dest.(type) {
	case *[]byte:
		*d = append((*d)[:0], data...)
		return nil
	case *string:
		*d = string(data)
		return nil
	default:
		return fmt.Errorf("%w: bytes serializer cannot decode into %T", ErrUnsupportedDest, dest)
	}
}
