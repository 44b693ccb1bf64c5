package redis

import (
	"github.com/dynsource/dynsource"
)

// Client strategy names. Single is a pooled standalone client, cluster an
// OSS-cluster client, sentinel a failover client driven by sentinel nodes.
const (
	ClientSingle   = "single"
	ClientCluster  = "cluster"
	ClientSentinel = "sentinel"
)

// Config describes one named Redis database.
type Config struct {
	Client     string   `yaml:"client" validate:"omitempty,oneof=single cluster sentinel"`
	Addr       string   `yaml:"addr"`
	Addrs      []string `yaml:"addrs"`
	MasterName string   `yaml:"master_name"`
	Username   string   `yaml:"username"`
	Password   string   `yaml:"password"`
	DB         int      `yaml:"db" validate:"gte=0"`
	PoolSize   int      `yaml:"pool_size" validate:"gte=0"`
	TLS        bool     `yaml:"tls"`

	// Serializer choices for the template, each one of
	// string, json, gob or bytes. Empty means string.
	KeySerializer       string `yaml:"key_serializer" validate:"omitempty,oneof=string json gob bytes"`
	ValueSerializer     string `yaml:"value_serializer" validate:"omitempty,oneof=string json gob bytes"`
	HashKeySerializer   string `yaml:"hash_key_serializer" validate:"omitempty,oneof=string json gob bytes"`
	HashValueSerializer string `yaml:"hash_value_serializer" validate:"omitempty,oneof=string json gob bytes"`
}

// Set binds a named map of Redis configs plus the primary name.
type Set = dynsource.Set[Config]

func (c Config) withDefaults() Config {
	if c.Client == "" {
		c.Client = ClientSingle
	}
	if c.Client == ClientSingle && c.Addr == "" {
		c.Addr = "localhost:6379"
	}
	if c.PoolSize == 0 {
		c.PoolSize = 10
	}
	if c.KeySerializer == "" {
		c.KeySerializer = SerializerString
	}
	if c.ValueSerializer == "" {
		c.ValueSerializer = SerializerString
	}
	if c.HashKeySerializer == "" {
		c.HashKeySerializer = SerializerString
	}
	if c.HashValueSerializer == "" {
		c.HashValueSerializer = SerializerString
	}
	return c
}

func (c Config) validate() error {
	switch c.Client {
	case ClientSingle:
		if c.Addr == "" {
			return NewInvalidConfigError("addr")
		}
	case ClientCluster:
		if len(c.Addrs) == 0 {
			return NewInvalidConfigError("addrs")
		}
	case ClientSentinel:
		if c.MasterName == "" {
			return NewInvalidConfigError("master_name")
		}
		if len(c.Addrs) == 0 {
			return NewInvalidConfigError("addrs")
		}
	default:
		return NewInvalidConfigError("client")
	}
	return nil
}
