package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSerializer(t *testing.T) {
	for _, name := range []string{SerializerString, SerializerJSON, SerializerGob, SerializerBytes, ""} {
		s, err := ParseSerializer(name)
		require.NoError(t, err, "serializer %q", name)
		assert.NotNil(t, s)
	}

	_, err := ParseSerializer("protobuf")
	assert.ErrorIs(t, err, ErrUnknownSerializer)
}

func TestStringSerializer(t *testing.T) {
	s, err := ParseSerializer(SerializerString)
	require.NoError(t, err)

	data, err := s.Encode("hello")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	var out string
	require.NoError(t, s.Decode(data, &out))
	assert.Equal(t, "hello", out)

	// Unsupported value and destination types
	_, err = s.Encode(struct{}{})
	assert.ErrorIs(t, err, ErrUnsupportedValue)
	var n int
	assert.ErrorIs(t, s.Decode(data, &n), ErrUnsupportedDest)
}

func TestJSONSerializer(t *testing.T) {
	s, err := ParseSerializer(SerializerJSON)
	require.NoError(t, err)

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	in := payload{Name: "orders", Count: 3}
	data, err := s.Encode(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"orders","count":3}`, string(data))

	var out payload
	require.NoError(t, s.Decode(data, &out))
	assert.Equal(t, in, out)
}

func TestGobSerializer(t *testing.T) {
	s, err := ParseSerializer(SerializerGob)
	require.NoError(t, err)

	type payload struct {
		Name  string
		Count int
	}

	in := payload{Name: "orders", Count: 3}
	data, err := s.Encode(in)
	require.NoError(t, err)

	var out payload
	require.NoError(t, s.Decode(data, &out))
	assert.Equal(t, in, out)
}

func TestBytesSerializer(t *testing.T) {
	s, err := ParseSerializer(SerializerBytes)
	require.NoError(t, err)

	data, err := s.Encode([]byte{0x01, 0x02})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02}, data)

	var out []byte
	require.NoError(t, s.Decode(data, &out))
	assert.Equal(t, []byte{0x01, 0x02}, out)

	_, err = s.Encode(42)
	assert.ErrorIs(t, err, ErrUnsupportedValue)
}
