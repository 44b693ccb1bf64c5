package redis

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/dynsource/dynsource"
	"github.com/redis/go-redis/v9"
)

// Registry key suffixes for the Redis resource chain.
const (
	SuffixConnectionDetails = "RedisConnectionDetails"
	SuffixConnectionFactory = "RedisConnectionFactory"
	SuffixTemplate          = "RedisTemplate"

	// CanonicalTemplate is the bare key the primary database's template is
	// duplicated under.
	CanonicalTemplate = "redisTemplate"
)

// Chain returns the three-stage Redis resource chain:
// connection details -> connection factory -> template.
func Chain() dynsource.Chain[Config] {
	return dynsource.Chain[Config]{
		{
			Suffix: SuffixConnectionDetails,
			Build:  buildConnectionDetails,
		},
		{
			Suffix:    SuffixConnectionFactory,
			DependsOn: []string{SuffixConnectionDetails},
			Build:     buildConnectionFactory,
		},
		{
			Suffix:    SuffixTemplate,
			Canonical: CanonicalTemplate,
			DependsOn: []string{SuffixConnectionFactory},
			Build:     buildTemplate,
		},
	}
}

func buildConnectionDetails(_ context.Context, bc *dynsource.BuildContext[Config]) (any, error) {
	config := bc.Config().withDefaults()
	if err := config.validate(); err != nil {
		return nil, err
	}

	details := ConnectionDetails{
		Client:     config.Client,
		Addr:       config.Addr,
		Addrs:      config.Addrs,
		MasterName: config.MasterName,
		Username:   config.Username,
		Password:   config.Password,
		DB:         config.DB,
		PoolSize:   config.PoolSize,
	}

	// The TLS singleton is resolved here, at build time, so enabling TLS on
	// one database never forces the provider to initialize during
	// registration.
	if config.TLS {
		v, err := bc.Singleton(dynsource.SingletonTLS)
		if err != nil {
			return nil, fmt.Errorf("resolving TLS config for database [%s]: %w", bc.Name(), err)
		}
		tlsConfig, ok := v.(*tls.Config)
		if !ok {
			return nil, fmt.Errorf("singleton %q holds %T, want *tls.Config", dynsource.SingletonTLS, v)
		}
		details.TLSConfig = tlsConfig
	}

	return details, nil
}

func buildConnectionFactory(ctx context.Context, bc *dynsource.BuildContext[Config]) (any, error) {
	v, err := bc.Resource(ctx, SuffixConnectionDetails)
	if err != nil {
		return nil, err
	}
	details := v.(ConnectionDetails)

	client := newClient(details)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, NewConnectionFailedError(details.target(), err)
	}
	return client, nil
}

func buildTemplate(ctx context.Context, bc *dynsource.BuildContext[Config]) (any, error) {
	v, err := bc.Resource(ctx, SuffixConnectionFactory)
	if err != nil {
		return nil, err
	}
	client := v.(redis.UniversalClient)

	config := bc.Config().withDefaults()
	var ser Serializers
	if ser.Key, err = ParseSerializer(config.KeySerializer); err != nil {
		return nil, err
	}
	if ser.Value, err = ParseSerializer(config.ValueSerializer); err != nil {
		return nil, err
	}
	if ser.HashKey, err = ParseSerializer(config.HashKeySerializer); err != nil {
		return nil, err
	}
	if ser.HashValue, err = ParseSerializer(config.HashValueSerializer); err != nil {
		return nil, err
	}

	return NewTemplate(client, ser), nil
}
