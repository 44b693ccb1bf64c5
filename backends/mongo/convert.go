package mongo

import (
	"context"
	"reflect"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
)

// Conversion registers a custom codec for one Go type.
type Conversion struct {
	Type    reflect.Type
	Encoder bsoncodec.ValueEncoder
	Decoder bsoncodec.ValueDecoder
}

// CustomConversions is the set of per-type codec overrides applied on top of
// the driver defaults when the mapping context is built.
type CustomConversions []Conversion

func (cc CustomConversions) applyTo(registry *bsoncodec.Registry) {
	for _, c := range cc {
		if c.Encoder != nil {
			registry.RegisterTypeEncoder(c.Type, c.Encoder)
		}
		if c.Decoder != nil {
			registry.RegisterTypeDecoder(c.Type, c.Decoder)
		}
	}
}

// DBRef is the conventional cross-collection reference document.
type DBRef struct {
	Collection string `bson:"$ref"`
	ID         any    `bson:"$id"`
}

// Converter marshals documents through the chain's codec registry and
// resolves DBRef-style references through the database factory.
type Converter struct {
	registry *bsoncodec.Registry
	factory  *DatabaseFactory
}

// NewConverter wraps a built codec registry and the database factory.
func NewConverter(registry *bsoncodec.Registry, factory *DatabaseFactory) *Converter {
	return &Converter{registry: registry, factory: factory}
}

// Registry exposes the codec registry, for wiring into collection handles.
func (c *Converter) Registry() *bsoncodec.Registry {
	return c.registry
}

// Marshal encodes v to BSON using the registry's codecs.
func (c *Converter) Marshal(v any) ([]byte, error) {
	return bson.MarshalWithRegistry(c.registry, v)
}

// Unmarshal decodes BSON data into dest using the registry's codecs.
func (c *Converter) Unmarshal(data []byte, dest any) error {
	return bson.UnmarshalWithRegistry(c.registry, data, dest)
}

// Dereference loads the document a DBRef points at into dest. It returns
// false with no error when the referenced document does not exist.
func (c *Converter) Dereference(ctx context.Context, ref DBRef, dest any) (bool, error) {
	return c.factory.findOne(ctx, c, ref.Collection, bson.M{"_id": ref.ID}, dest)
}
