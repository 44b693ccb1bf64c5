package redis

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConnectionDetails holds the fully resolved connection parameters for one
// named Redis database, including the TLS config when enabled.
type ConnectionDetails struct {
	Client     string
	Addr       string
	Addrs      []string
	MasterName string
	Username   string
	Password   string
	DB         int
	PoolSize   int
	TLSConfig  *tls.Config
}

// target returns the address(es) used in connection error messages.
func (d ConnectionDetails) target() string {
	if d.Client == ClientSingle {
		return d.Addr
	}
	if len(d.Addrs) > 0 {
		return d.Addrs[0]
	}
	return d.Addr
}

// newClient builds the go-redis client matching the selected strategy.
func newClient(details ConnectionDetails) redis.UniversalClient {
	switch details.Client {
	case ClientCluster:
		return redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:     details.Addrs,
			Username:  details.Username,
			Password:  details.Password,
			PoolSize:  details.PoolSize,
			TLSConfig: details.TLSConfig,
		})
	case ClientSentinel:
		return redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:    details.MasterName,
			SentinelAddrs: details.Addrs,
			Username:      details.Username,
			Password:      details.Password,
			DB:            details.DB,
			PoolSize:      details.PoolSize,
			TLSConfig:     details.TLSConfig,
		})
	default:
		return redis.NewClient(&redis.Options{
			Addr:      details.Addr,
			Username:  details.Username,
			Password:  details.Password,
			DB:        details.DB,
			PoolSize:  details.PoolSize,
			TLSConfig: details.TLSConfig,
		})
	}
}

// Serializers bundles the four independent serializer slots of a template.
type Serializers struct {
	Key       Serializer
	Value     Serializer
	HashKey   Serializer
	HashValue Serializer
}

// Template is a scan-capable key-value facade over a Redis client with
// configurable serialization per slot. It does not own the client; closing
// the connection factory closes the underlying pool.
type Template struct {
	client redis.UniversalClient
	ser    Serializers
}

// NewTemplate wraps client with the given serializers.
func NewTemplate(client redis.UniversalClient, ser Serializers) *Template {
	return &Template{client: client, ser: ser}
}

// Client exposes the underlying go-redis client for operations the template
// does not cover.
func (t *Template) Client() redis.UniversalClient {
	return t.client
}

func (t *Template) encodeKey(key string) (string, error) {
	b, err := t.ser.Key.Encode(key)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Set stores value under key with the given expiration. Zero expiration
// means no expiry.
func (t *Template) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	k, err := t.encodeKey(key)
	if err != nil {
		return err
	}
	v, err := t.ser.Value.Encode(value)
	if err != nil {
		return err
	}
	if err := t.client.Set(ctx, k, v, expiration).Err(); err != nil {
		return NewSetFailedError(key, err)
	}
	return nil
}

// Get loads the value stored under key into dest. It returns false with no
// error when the key does not exist.
func (t *Template) Get(ctx context.Context, key string, dest any) (bool, error) {
	k, err := t.encodeKey(key)
	if err != nil {
		return false, err
	}
	data, err := t.client.Get(ctx, k).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, NewGetFailedError(key, err)
	}
	if err := t.ser.Value.Decode(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes the given keys.
func (t *Template) Delete(ctx context.Context, keys ...string) error {
	encoded := make([]string, len(keys))
	for i, key := range keys {
		k, err := t.encodeKey(key)
		if err != nil {
			return err
		}
		encoded[i] = k
	}
	if err := t.client.Del(ctx, encoded...).Err(); err != nil {
		return NewDeleteFailedError(keys[0], err)
	}
	return nil
}

// Exists reports whether key exists.
func (t *Template) Exists(ctx context.Context, key string) (bool, error) {
	k, err := t.encodeKey(key)
	if err != nil {
		return false, err
	}
	n, err := t.client.Exists(ctx, k).Result()
	if err != nil {
		return false, NewGetFailedError(key, err)
	}
	return n > 0, nil
}

// Expire sets a new expiration on key. It returns false when the key does
// not exist.
func (t *Template) Expire(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	k, err := t.encodeKey(key)
	if err != nil {
		return false, err
	}
	ok, err := t.client.Expire(ctx, k, expiration).Result()
	if err != nil {
		return false, NewSetFailedError(key, err)
	}
	return ok, nil
}

// HSet stores value under field of the hash at key.
func (t *Template) HSet(ctx context.Context, key, field string, value any) error {
	k, err := t.encodeKey(key)
	if err != nil {
		return err
	}
	f, err := t.ser.HashKey.Encode(field)
	if err != nil {
		return err
	}
	v, err := t.ser.HashValue.Encode(value)
	if err != nil {
		return err
	}
	if err := t.client.HSet(ctx, k, string(f), v).Err(); err != nil {
		return NewSetFailedError(key, err)
	}
	return nil
}

// HGet loads the value under field of the hash at key into dest. It returns
// false with no error when the field does not exist.
func (t *Template) HGet(ctx context.Context, key, field string, dest any) (bool, error) {
	k, err := t.encodeKey(key)
	if err != nil {
		return false, err
	}
	f, err := t.ser.HashKey.Encode(field)
	if err != nil {
		return false, err
	}
	data, err := t.client.HGet(ctx, k, string(f)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, NewGetFailedError(key, err)
	}
	if err := t.ser.HashValue.Decode(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

// HGetAll returns the raw field-to-value map of the hash at key. Values are
// left encoded; use HGet for per-field decoding.
func (t *Template) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	k, err := t.encodeKey(key)
	if err != nil {
		return nil, err
	}
	m, err := t.client.HGetAll(ctx, k).Result()
	if err != nil {
		return nil, NewGetFailedError(key, err)
	}
	return m, nil
}

// Scan iterates the keyspace with the SCAN command and returns all keys
// matching pattern. count hints the per-iteration batch size.
func (t *Template) Scan(ctx context.Context, pattern string, count int64) ([]string, error) {
	var (
		keys   []string
		cursor uint64
	)
	for {
		batch, next, err := t.client.Scan(ctx, cursor, pattern, count).Result()
		if err != nil {
			return nil, NewScanFailedError(pattern, err)
		}
		keys = append(keys, batch...)
		if next == 0 {
			return keys, nil
		}
		cursor = next
	}
}

// Ping verifies connectivity to the backing Redis deployment.
func (t *Template) Ping(ctx context.Context) error {
	return t.client.Ping(ctx).Err()
}
