package mongo

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"

	"github.com/dynsource/dynsource"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Registry key suffixes for the MongoDB resource chain.
const (
	SuffixConnectionDetails = "MongoConnectionDetails"
	SuffixClientSettings    = "MongoClientSettings"
	SuffixClient            = "MongoClient"
	SuffixCustomConversions = "MongoCustomConversions"
	SuffixMappingContext    = "MongoMappingContext"
	SuffixDatabaseFactory   = "MongoDatabaseFactory"
	SuffixConverter         = "MongoConverter"
	SuffixTemplate          = "MongoTemplate"
	SuffixGridFSTemplate    = "MongoGridFSTemplate"

	// CanonicalTemplate is the bare key the primary database's template is
	// duplicated under.
	CanonicalTemplate = "mongoTemplate"

	// SingletonConversions names an optional process-wide CustomConversions
	// singleton picked up by every database's mapping context.
	SingletonConversions = "mongo.conversions"
)

// Chain returns the MongoDB resource chain. Stages are ordered so that every
// dependency precedes its dependents; in particular the database factory is
// built before the converter that references it.
func Chain() dynsource.Chain[Config] {
	return dynsource.Chain[Config]{
		{
			Suffix: SuffixConnectionDetails,
			Build:  buildConnectionDetails,
		},
		{
			Suffix:    SuffixClientSettings,
			DependsOn: []string{SuffixConnectionDetails},
			Build:     buildClientSettings,
		},
		{
			Suffix:    SuffixClient,
			DependsOn: []string{SuffixConnectionDetails, SuffixClientSettings},
			Build:     buildClient,
		},
		{
			Suffix: SuffixCustomConversions,
			Build:  buildCustomConversions,
		},
		{
			Suffix:    SuffixMappingContext,
			DependsOn: []string{SuffixCustomConversions},
			Build:     buildMappingContext,
		},
		{
			Suffix:    SuffixDatabaseFactory,
			DependsOn: []string{SuffixConnectionDetails, SuffixClient},
			Build:     buildDatabaseFactory,
		},
		{
			Suffix:    SuffixConverter,
			DependsOn: []string{SuffixMappingContext, SuffixCustomConversions, SuffixDatabaseFactory},
			Build:     buildConverter,
		},
		{
			Suffix:    SuffixTemplate,
			Canonical: CanonicalTemplate,
			DependsOn: []string{SuffixDatabaseFactory, SuffixConverter},
			Build:     buildTemplate,
		},
		{
			Suffix:    SuffixGridFSTemplate,
			DependsOn: []string{SuffixConnectionDetails, SuffixDatabaseFactory, SuffixTemplate},
			Build:     buildGridFSTemplate,
		},
	}
}

func buildConnectionDetails(_ context.Context, bc *dynsource.BuildContext[Config]) (any, error) {
	config := bc.Config().withDefaults()
	if err := config.validate(); err != nil {
		return nil, err
	}

	uri := config.URI
	if uri == "" {
		uri = buildURI(config)
	}

	details := ConnectionDetails{
		URI:      uri,
		Database: config.Database,
		Bucket:   config.GridFSBucket,
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

func buildClientSettings(ctx context.Context, bc *dynsource.BuildContext[Config]) (any, error) {
	v, err := bc.Resource(ctx, SuffixConnectionDetails)
	if err != nil {
		return nil, err
	}
	return newClientSettings(v.(ConnectionDetails), bc.Config().withDefaults()), nil
}

func buildClient(ctx context.Context, bc *dynsource.BuildContext[Config]) (any, error) {
	v, err := bc.Resource(ctx, SuffixClientSettings)
	if err != nil {
		return nil, err
	}
	return Connect(ctx, v.(*options.ClientOptions))
}

func buildCustomConversions(_ context.Context, bc *dynsource.BuildContext[Config]) (any, error) {
	v, err := bc.Singleton(SingletonConversions)
	if errors.Is(err, dynsource.ErrUnknownSingleton) {
		return CustomConversions{}, nil
	}
	if err != nil {
		return nil, err
	}
	conversions, ok := v.(CustomConversions)
	if !ok {
		return nil, fmt.Errorf("singleton %q holds %T, want CustomConversions", SingletonConversions, v)
	}
	return conversions, nil
}

func buildMappingContext(ctx context.Context, bc *dynsource.BuildContext[Config]) (any, error) {
	v, err := bc.Resource(ctx, SuffixCustomConversions)
	if err != nil {
		return nil, err
	}
	registry := bson.NewRegistry()
	v.(CustomConversions).applyTo(registry)
	return registry, nil
}

func buildDatabaseFactory(ctx context.Context, bc *dynsource.BuildContext[Config]) (any, error) {
	details, err := bc.Resource(ctx, SuffixConnectionDetails)
	if err != nil {
		return nil, err
	}
	client, err := bc.Resource(ctx, SuffixClient)
	if err != nil {
		return nil, err
	}
	return NewDatabaseFactory(client.(*Client), details.(ConnectionDetails)), nil
}

func buildConverter(ctx context.Context, bc *dynsource.BuildContext[Config]) (any, error) {
	registry, err := bc.Resource(ctx, SuffixMappingContext)
	if err != nil {
		return nil, err
	}
	factory, err := bc.Resource(ctx, SuffixDatabaseFactory)
	if err != nil {
		return nil, err
	}
	return NewConverter(registry.(*bsoncodec.Registry), factory.(*DatabaseFactory)), nil
}

func buildTemplate(ctx context.Context, bc *dynsource.BuildContext[Config]) (any, error) {
	factory, err := bc.Resource(ctx, SuffixDatabaseFactory)
	if err != nil {
		return nil, err
	}
	converter, err := bc.Resource(ctx, SuffixConverter)
	if err != nil {
		return nil, err
	}
	return NewTemplate(factory.(*DatabaseFactory), converter.(*Converter)), nil
}

func buildGridFSTemplate(ctx context.Context, bc *dynsource.BuildContext[Config]) (any, error) {
	details, err := bc.Resource(ctx, SuffixConnectionDetails)
	if err != nil {
		return nil, err
	}
	factory, err := bc.Resource(ctx, SuffixDatabaseFactory)
	if err != nil {
		return nil, err
	}
	template, err := bc.Resource(ctx, SuffixTemplate)
	if err != nil {
		return nil, err
	}
	return NewGridFSTemplate(factory.(*DatabaseFactory), details.(ConnectionDetails), template.(*Template))
}
