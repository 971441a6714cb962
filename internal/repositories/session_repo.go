package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/openlearn/campus-api/internal/database"
	"github.com/openlearn/campus-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SessionRepository persists login sessions. Expired sessions are removed by
// the TTL index on expires_at.
type SessionRepository struct {
	c *mongo.Collection
}

func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{c: db.Database.Collection("sessions")}
}

func (r *SessionRepository) Create(ctx context.Context, session *models.Session) (*models.Session, error) {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}

	now := time.Now()
	session.CreatedAt = now
	session.LastUsedAt = now
	session.IsActive = true

	if _, err := r.c.InsertOne(ctx, session); err != nil {
		return nil, database.MapMongoError(err)
	}
	return session, nil
}

func (r *SessionRepository) DeleteByUserID(ctx context.Context, userID string) error {
	if _, err := r.c.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return database.MapMongoError(err)
	}
	return nil
}
