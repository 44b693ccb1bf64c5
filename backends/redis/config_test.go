package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_WithDefaults(t *testing.T) {
	c := Config{}.withDefaults()

	assert.Equal(t, ClientSingle, c.Client)
	assert.Equal(t, "localhost:6379", c.Addr)
	assert.Equal(t, 10, c.PoolSize)
	assert.Equal(t, SerializerString, c.KeySerializer)
	assert.Equal(t, SerializerString, c.ValueSerializer)
	assert.Equal(t, SerializerString, c.HashKeySerializer)
	assert.Equal(t, SerializerString, c.HashValueSerializer)

	// Explicit values are kept
	c = Config{Client: ClientCluster, PoolSize: 50, ValueSerializer: SerializerJSON}.withDefaults()
	assert.Equal(t, ClientCluster, c.Client)
	assert.Equal(t, 50, c.PoolSize)
	assert.Equal(t, SerializerJSON, c.ValueSerializer)
	// Cluster mode gets no default addr
	assert.Empty(t, c.Addr)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
	}{
		{
			name:   "single with addr",
			config: Config{Client: ClientSingle, Addr: "localhost:6379"},
		},
		{
			name:        "single without addr",
			config:      Config{Client: ClientSingle},
			expectError: true,
		},
		{
			name:   "cluster with addrs",
			config: Config{Client: ClientCluster, Addrs: []string{"a:6379", "b:6379"}},
		},
		{
			name:        "cluster without addrs",
			config:      Config{Client: ClientCluster},
			expectError: true,
		},
		{
			name:   "sentinel with master and addrs",
			config: Config{Client: ClientSentinel, MasterName: "main", Addrs: []string{"s:26379"}},
		},
		{
			name:        "sentinel without master",
			config:      Config{Client: ClientSentinel, Addrs: []string{"s:26379"}},
			expectError: true,
		},
		{
			name:        "sentinel without addrs",
			config:      Config{Client: ClientSentinel, MasterName: "main"},
			expectError: true,
		},
		{
			name:        "unknown client",
			config:      Config{Client: "pipelined", Addr: "localhost:6379"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.validate()
			if tt.expectError {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
