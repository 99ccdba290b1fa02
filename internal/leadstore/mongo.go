package leadstore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AnshRaj112/multicrypto-funnel/internal/models"
)

const namespaceExistsCode = 48

// MongoRemote stores leads in a pre_order collection. Mongo creates
// collections implicitly on insert, so only Probe reports a missing table.
type MongoRemote struct {
	db  *mongo.Database
	now func() time.Time
}

func NewMongoRemote(db *mongo.Database) *MongoRemote {
	return &MongoRemote{db: db, now: time.Now}
}

func (m *MongoRemote) Name() string { return "mongo" }

func (m *MongoRemote) Probe(ctx context.Context) error {
	names, err := m.db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: TableName}})
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return ErrUndefinedTable
	}
	return nil
}

func (m *MongoRemote) EnsureSchema(ctx context.Context) error {
	if err := m.db.CreateCollection(ctx, TableName); err != nil && !isNamespaceExists(err) {
		return err
	}
	_, err := m.db.Collection(TableName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	return err
}

func (m *MongoRemote) Insert(ctx context.Context, name, phone string) (models.LeadRecord, error) {
	rec := models.LeadRecord{
		ID:             uuid.New().String(),
		DisplayName:    name,
		CanonicalPhone: phone,
		CreatedAt:      m.now().UTC(),
	}
	if _, err := m.db.Collection(TableName).InsertOne(ctx, rec); err != nil {
		return models.LeadRecord{}, err
	}
	return rec, nil
}

func isNamespaceExists(err error) bool {
	var se mongo.ServerError
	return errors.As(err, &se) && se.HasErrorCode(namespaceExistsCode)
}
