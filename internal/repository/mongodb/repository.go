package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/hannan/internal/domain/models"
	"github.com/mamadbah2/hannan/internal/repository"
)

// MongoDBRepository stores each module in its own collection.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
}

var _ repository.RecordStore = (*MongoDBRepository)(nil)

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client: client,
		dbName: dbName,
	}, nil
}

func (r *MongoDBRepository) collection(schema models.Schema) *mongo.Collection {
	return r.client.Database(r.dbName).Collection(schema.Collection)
}

// EnsureIndexes creates a unique index on every module's identifying field.
func (r *MongoDBRepository) EnsureIndexes(ctx context.Context, schemas []models.Schema) error {
	for _, schema := range schemas {
		model := mongo.IndexModel{
			Keys:    bson.D{{Key: schema.IDField, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
		if _, err := r.collection(schema).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create index on %s.%s: %w", schema.Collection, schema.IDField, err)
		}
	}
	return nil
}

// List returns every record of a module, newest first by the schema's date field.
func (r *MongoDBRepository) List(ctx context.Context, schema models.Schema) ([]models.Record, error) {
	return r.find(ctx, schema, bson.M{})
}

// Get returns one record by id.
func (r *MongoDBRepository) Get(ctx context.Context, schema models.Schema, id string) (models.Record, error) {
	var doc bson.M
	err := r.collection(schema).FindOne(ctx, bson.M{schema.IDField: id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find %s %s: %w", schema.Module, id, err)
	}
	return toRecord(doc), nil
}

// Insert stores a new record.
func (r *MongoDBRepository) Insert(ctx context.Context, schema models.Schema, rec models.Record) error {
	_, err := r.collection(schema).InsertOne(ctx, bson.M(rec.Clone()))
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to insert %s: %w", schema.Module, err)
	}
	return nil
}

// Replace overwrites a stored record.
func (r *MongoDBRepository) Replace(ctx context.Context, schema models.Schema, id string, rec models.Record) error {
	res, err := r.collection(schema).ReplaceOne(ctx, bson.M{schema.IDField: id}, bson.M(rec.Clone()))
	if err != nil {
		return fmt.Errorf("failed to replace %s %s: %w", schema.Module, id, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a record.
func (r *MongoDBRepository) Delete(ctx context.Context, schema models.Schema, id string) error {
	res, err := r.collection(schema).DeleteOne(ctx, bson.M{schema.IDField: id})
	if err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", schema.Module, id, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Search runs a case-insensitive regex over the schema's search fields.
func (r *MongoDBRepository) Search(ctx context.Context, schema models.Schema, term string) ([]models.Record, error) {
	if len(schema.SearchFields) == 0 || term == "" {
		return r.List(ctx, schema)
	}

	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
	or := make(bson.A, 0, len(schema.SearchFields))
	for _, field := range schema.SearchFields {
		or = append(or, bson.M{field: pattern})
	}
	return r.find(ctx, schema, bson.M{"$or": or})
}

func (r *MongoDBRepository) find(ctx context.Context, schema models.Schema, filter bson.M) ([]models.Record, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 0})
	if schema.DateField != "" {
		opts.SetSort(bson.D{{Key: schema.DateField, Value: -1}})
	}

	cursor, err := r.collection(schema).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", schema.Module, err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", schema.Module, err)
	}

	out := make([]models.Record, 0, len(docs))
	for _, doc := range docs {
		out = append(out, toRecord(doc))
	}
	return out, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// toRecord flattens BSON scalar types into the JSON-friendly set used by records.
func toRecord(doc bson.M) models.Record {
	rec := make(models.Record, len(doc))
	for k, v := range doc {
		if k == "_id" {
			continue
		}
		switch t := v.(type) {
		case int32:
			rec[k] = float64(t)
		case int64:
			rec[k] = float64(t)
		case primitive.DateTime:
			rec[k] = t.Time().UTC().Format(time.RFC3339)
		case primitive.Decimal128:
			rec[k] = t.String()
		default:
			rec[k] = v
		}
	}
	return rec
}
