package repository

import (
	"context"
	"fmt"
	"time"

	"workoutshop/internal/app/shop/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type auditRepository struct {
	collection *mongo.Collection
}

// NewAuditRepository создает новый репозиторий аудита входов.
// Автоматически создает индекс по email для выборки истории
func NewAuditRepository(db *mongo.Database) AuditRepository {
	collection := db.Collection("login_attempts")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "email", Value: 1},
			{Key: "created_at", Value: -1},
		},
		Options: options.Index().SetName("email_created_at_idx"),
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	if err != nil {
		// Логируем ошибку, но не прерываем работу - индекс может уже существовать
		fmt.Printf("Warning: failed to create index on email: %v\n", err)
	}

	return &auditRepository{
		collection: collection,
	}
}

// RecordLoginAttempt сохраняет запись о попытке входа.
// Этап отказа хранится только здесь, наружу уходит единый ответ
func (r *auditRepository) RecordLoginAttempt(ctx context.Context, attempt *entity.LoginAttempt) error {
	attempt.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, attempt)
	if err != nil {
		return fmt.Errorf("failed to record login attempt: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		attempt.ID = oid
	}

	return nil
}

// ListByEmail возвращает последние попытки входа по email
func (r *auditRepository) ListByEmail(ctx context.Context, email string, limit int) ([]entity.LoginAttempt, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"email": email}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list login attempts: %w", err)
	}
	defer cursor.Close(ctx)

	var attempts []entity.LoginAttempt
	if err := cursor.All(ctx, &attempts); err != nil {
		return nil, fmt.Errorf("failed to decode login attempts: %w", err)
	}

	return attempts, nil
}
