package postgres

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/dynsource/dynsource"
)

// Registry key suffixes for the PostgreSQL resource chain.
const (
	SuffixConnectionDetails = "PostgresConnectionDetails"
	SuffixConnectionFactory = "PostgresConnectionFactory"
	SuffixTemplate          = "PostgresTemplate"

	// CanonicalTemplate is the bare key the primary database's template is
	// duplicated under.
	CanonicalTemplate = "postgresTemplate"
)

// Chain returns the three-stage PostgreSQL resource chain:
// connection details -> connection factory (pool) -> template.
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
	if config.ConnString == "" {
		return nil, NewInvalidConfigError("conn_string")
	}

	details := ConnectionDetails{
		ConnString: config.ConnString,
		MaxConns:   config.MaxConns,
		MinConns:   config.MinConns,
	}

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
	return NewFactory(ctx, v.(ConnectionDetails))
}

func buildTemplate(ctx context.Context, bc *dynsource.BuildContext[Config]) (any, error) {
	v, err := bc.Resource(ctx, SuffixConnectionFactory)
	if err != nil {
		return nil, err
	}
	return NewTemplate(v.(*Factory)), nil
}
