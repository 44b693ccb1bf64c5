package mongo

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// disconnectTimeout bounds teardown when the registry closes a client.
const disconnectTimeout = 10 * time.Second

// ConnectionDetails holds the resolved connection parameters for one named
// MongoDB database.
type ConnectionDetails struct {
	URI       string
	Database  string
	Bucket    string
	TLSConfig *tls.Config
}

// newClientSettings derives driver client options from details and config.
func newClientSettings(details ConnectionDetails, config Config) *options.ClientOptions {
	opts := options.Client().
		ApplyURI(details.URI).
		SetMaxPoolSize(config.MaxPoolSize).
		SetConnectTimeout(config.ConnectTimeout)
	if config.MinPoolSize > 0 {
		opts.SetMinPoolSize(config.MinPoolSize)
	}
	if details.TLSConfig != nil {
		opts.SetTLSConfig(details.TLSConfig)
	}
	return opts
}

// Client wraps the driver client so the registry can tear it down through
// io.Closer and the health checker can ping it.
type Client struct {
	client *mongo.Client
}

// Connect establishes and pings a client built from settings.
func Connect(ctx context.Context, settings *options.ClientOptions) (*Client, error) {
	client, err := mongo.Connect(ctx, settings)
	if err != nil {
		return nil, NewConnectionFailedError(err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, NewConnectionFailedError(err)
	}
	return &Client{client: client}, nil
}

// Driver exposes the underlying driver client.
func (c *Client) Driver() *mongo.Client {
	return c.client
}

// Ping verifies connectivity to the deployment's primary.
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client with a bounded timeout.
func (c *Client) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()
	return c.client.Disconnect(ctx)
}

// DatabaseFactory hands out handles to one named database.
type DatabaseFactory struct {
	client *Client
	name   string
}

// NewDatabaseFactory binds client to the database named in details.
func NewDatabaseFactory(client *Client, details ConnectionDetails) *DatabaseFactory {
	return &DatabaseFactory{client: client, name: details.Database}
}

// Database returns a handle to the factory's database.
func (f *DatabaseFactory) Database() *mongo.Database {
	return f.client.client.Database(f.name)
}

// Ping verifies connectivity through the owning client.
func (f *DatabaseFactory) Ping(ctx context.Context) error {
	return f.client.Ping(ctx)
}

// collection returns a handle wired to the converter's codec registry when
// one is supplied.
func (f *DatabaseFactory) collection(conv *Converter, name string) *mongo.Collection {
	opts := options.Collection()
	if conv != nil {
		opts.SetRegistry(conv.Registry())
	}
	return f.Database().Collection(name, opts)
}

func (f *DatabaseFactory) findOne(ctx context.Context, conv *Converter, collection string, filter any, dest any) (bool, error) {
	err := f.collection(conv, collection).FindOne(ctx, filter).Decode(dest)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, NewFindFailedError(collection, err)
	}
	return true, nil
}

// Template is a document CRUD facade over one database, with all collection
// handles wired to the chain's codec registry.
type Template struct {
	factory   *DatabaseFactory
	converter *Converter
}

// NewTemplate binds the factory and converter.
func NewTemplate(factory *DatabaseFactory, converter *Converter) *Template {
	return &Template{factory: factory, converter: converter}
}

// Converter exposes the template's document converter.
func (t *Template) Converter() *Converter {
	return t.converter
}

// Collection returns a codec-registry-wired handle to collection.
func (t *Template) Collection(name string) *mongo.Collection {
	return t.factory.collection(t.converter, name)
}

// Insert stores doc in collection and returns the inserted id.
func (t *Template) Insert(ctx context.Context, collection string, doc any) (any, error) {
	res, err := t.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		return nil, NewInsertFailedError(collection, err)
	}
	return res.InsertedID, nil
}

// InsertMany stores docs in collection and returns the inserted ids.
func (t *Template) InsertMany(ctx context.Context, collection string, docs []any) ([]any, error) {
	res, err := t.Collection(collection).InsertMany(ctx, docs)
	if err != nil {
		return nil, NewInsertFailedError(collection, err)
	}
	return res.InsertedIDs, nil
}

// FindOne loads the first document matching filter into dest. It returns
// false with no error when nothing matches.
func (t *Template) FindOne(ctx context.Context, collection string, filter any, dest any) (bool, error) {
	return t.factory.findOne(ctx, t.converter, collection, filter, dest)
}

// Find loads all documents matching filter into dest, which must be a
// pointer to a slice.
func (t *Template) Find(ctx context.Context, collection string, filter any, dest any) error {
	cursor, err := t.Collection(collection).Find(ctx, filter)
	if err != nil {
		return NewFindFailedError(collection, err)
	}
	if err := cursor.All(ctx, dest); err != nil {
		return NewFindFailedError(collection, err)
	}
	return nil
}

// Update applies update to all documents matching filter and returns the
// modified count.
func (t *Template) Update(ctx context.Context, collection string, filter, update any) (int64, error) {
	res, err := t.Collection(collection).UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, NewUpdateFailedError(collection, err)
	}
	return res.ModifiedCount, nil
}

// Delete removes all documents matching filter and returns the deleted count.
func (t *Template) Delete(ctx context.Context, collection string, filter any) (int64, error) {
	res, err := t.Collection(collection).DeleteMany(ctx, filter)
	if err != nil {
		return 0, NewDeleteFailedError(collection, err)
	}
	return res.DeletedCount, nil
}

// Count returns the number of documents matching filter.
func (t *Template) Count(ctx context.Context, collection string, filter any) (int64, error) {
	n, err := t.Collection(collection).CountDocuments(ctx, filter)
	if err != nil {
		return 0, NewFindFailedError(collection, err)
	}
	return n, nil
}

// Aggregate runs pipeline against collection and loads all results into
// dest, which must be a pointer to a slice.
func (t *Template) Aggregate(ctx context.Context, collection string, pipeline any, dest any) error {
	cursor, err := t.Collection(collection).Aggregate(ctx, pipeline)
	if err != nil {
		return NewFindFailedError(collection, err)
	}
	if err := cursor.All(ctx, dest); err != nil {
		return NewFindFailedError(collection, err)
	}
	return nil
}

// Ping verifies connectivity through the owning client.
func (t *Template) Ping(ctx context.Context) error {
	return t.factory.Ping(ctx)
}

// GridFSTemplate stores and retrieves files in one GridFS bucket. The driver
// bucket API is deadline-based; methods translate the context deadline, when
// present, onto the bucket.
type GridFSTemplate struct {
	bucket    *gridfs.Bucket
	converter *Converter
}

// NewGridFSTemplate opens the bucket named in details on the factory's
// database.
func NewGridFSTemplate(factory *DatabaseFactory, details ConnectionDetails, template *Template) (*GridFSTemplate, error) {
	bucket, err := gridfs.NewBucket(factory.Database(), options.GridFSBucket().SetName(details.Bucket))
	if err != nil {
		return nil, err
	}
	return &GridFSTemplate{bucket: bucket, converter: template.Converter()}, nil
}

// Bucket exposes the underlying GridFS bucket.
func (g *GridFSTemplate) Bucket() *gridfs.Bucket {
	return g.bucket
}

// Upload streams source into a new file named filename and returns its id.
func (g *GridFSTemplate) Upload(ctx context.Context, filename string, source io.Reader) (primitive.ObjectID, error) {
	if deadline, ok := ctx.Deadline(); ok {
		if err := g.bucket.SetWriteDeadline(deadline); err != nil {
			return primitive.NilObjectID, err
		}
	}
	return g.bucket.UploadFromStream(filename, source)
}

// Download streams the file with the given id into dest and returns the
// number of bytes written.
func (g *GridFSTemplate) Download(ctx context.Context, id primitive.ObjectID, dest io.Writer) (int64, error) {
	if deadline, ok := ctx.Deadline(); ok {
		if err := g.bucket.SetReadDeadline(deadline); err != nil {
			return 0, err
		}
	}
	return g.bucket.DownloadToStream(id, dest)
}

// Delete removes the file with the given id, including all its chunks.
func (g *GridFSTemplate) Delete(ctx context.Context, id primitive.ObjectID) error {
	if deadline, ok := ctx.Deadline(); ok {
		if err := g.bucket.SetWriteDeadline(deadline); err != nil {
			return err
		}
	}
	return g.bucket.Delete(id)
}

// Find returns a cursor over file metadata documents matching filter.
func (g *GridFSTemplate) Find(ctx context.Context, filter any) (*mongo.Cursor, error) {
	if deadline, ok := ctx.Deadline(); ok {
		if err := g.bucket.SetReadDeadline(deadline); err != nil {
			return nil, err
		}
	}
	return g.bucket.Find(filter)
}
