package prompt

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const agentCollection = "agent"

// MongoStore reads agent documents from the "agent" collection. The template
// text lives in the "prompt" field with "content" as a legacy fallback.
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (s *MongoStore) Template(ctx context.Context, agentID int) (string, error) {
	var doc struct {
		Prompt  string `bson:"prompt"`
		Content string `bson:"content"`
	}

	err := s.db.Collection(agentCollection).
		FindOne(ctx, bson.M{"_id": agentID}).
		Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// A missing agent document resolves to the empty template.
		return "", nil
	}
	if err != nil {
		return "", err
	}

	if doc.Prompt != "" {
		return doc.Prompt, nil
	}
	return doc.Content, nil
}
