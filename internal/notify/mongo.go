package notify

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/aidar/member-service/internal/domain"
)

// MongoProcessStore реализует repository.ProcessStore поверх MongoDB.
// Запись best-effort: любая ошибка логируется и проглатывается,
// до вызывающего она никогда не доходит
type MongoProcessStore struct {
	collection *mongo.Collection
	logger     *slog.Logger
}

// NewMongoProcessStore создает новый MongoProcessStore
func NewMongoProcessStore(collection *mongo.Collection, logger *slog.Logger) *MongoProcessStore {
	return &MongoProcessStore{
		collection: collection,
		logger:     logger,
	}
}

// Record записывает документ о регистрации участника в коллекцию user_process
func (s *MongoProcessStore) Record(ctx context.Context, transactionID string, member *domain.Member) {
	record := domain.ProcessRecord{
		ID:        transactionID,
		User:      *member,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if _, err := s.collection.InsertOne(ctx, record); err != nil {
		s.logger.Error("Error publishing to MongoDB",
			"transactionId", transactionID,
			"error", err,
		)
		return
	}

	s.logger.Info("Published to MongoDB", "transactionId", transactionID)
}
