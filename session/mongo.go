package session

import (
	"context"
	"errors"
	"fmt"

	"roomrental/models"
	"roomrental/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoStore keeps the session as one document keyed by the namespace.
// Single-document writes are atomic in MongoDB.
type MongoStore struct {
	reader
	coll      *mongo.Collection
	namespace string
	logger    *zap.Logger
}

type mongoRecord struct {
	ID      string `bson:"_id"`
	Session record `bson:",inline"`
}

func NewMongoStore(coll *mongo.Collection, namespace string, logger *zap.Logger) *MongoStore {
	s := &MongoStore{coll: coll, namespace: namespace, logger: utils.OrNop(logger)}
	s.reader = reader{load: s.load}
	return s
}

func (s *MongoStore) load(ctx context.Context) *record {
	var doc mongoRecord
	err := s.coll.FindOne(ctx, bson.M{"_id": s.namespace}).Decode(&doc)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			s.logger.Warn("session read failed", zap.String("namespace", s.namespace), zap.Error(err))
		}
		return nil
	}
	return &doc.Session
}

func (s *MongoStore) SaveSession(ctx context.Context, token string, user models.UserProfile) error {
	doc := mongoRecord{
		ID:      s.namespace,
		Session: record{Token: token, User: &user, IsLoggedIn: true},
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": s.namespace}, doc, opts); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *MongoStore) Clear(ctx context.Context) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": s.namespace}); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
