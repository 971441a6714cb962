package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/openlearn/campus-api/internal/database"
	"github.com/openlearn/campus-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepository is the document-store implementation of the user store.
type UserRepository struct {
	c *mongo.Collection
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{c: db.Database.Collection("users")}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, database.MapMongoError(err)
	}
	return &user, nil
}

// GetByEmail looks up a user by email. Callers normalize the email to
// lowercase before calling.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.c.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, database.MapMongoError(err)
	}
	return &user, nil
}

// Create inserts a new user. The unique index on email makes the store the
// final authority on email uniqueness; a duplicate insert surfaces as
// ErrConflict regardless of any earlier workflow pre-check.
func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	if user.Status == "" {
		user.Status = models.StatusPending
	}

	if _, err := r.c.InsertOne(ctx, user); err != nil {
		return nil, database.MapMongoError(err)
	}
	return user, nil
}

// Update applies the non-nil fields of upd and bumps updated_at, returning
// the updated record.
func (r *UserRepository) Update(ctx context.Context, id string, upd *models.UserUpdate) (*models.User, error) {
	set := bson.M{"updated_at": time.Now()}
	if upd.FirstName != nil {
		set["first_name"] = *upd.FirstName
	}
	if upd.LastName != nil {
		set["last_name"] = *upd.LastName
	}
	if upd.Role != nil {
		set["role"] = *upd.Role
	}
	if upd.Status != nil {
		set["status"] = *upd.Status
	}
	if upd.Phone != nil {
		set["phone"] = *upd.Phone
	}
	if upd.Bio != nil {
		set["bio"] = *upd.Bio
	}
	if upd.Avatar != nil {
		set["avatar"] = *upd.Avatar
	}
	if upd.DateOfBirth != nil {
		set["date_of_birth"] = *upd.DateOfBirth
	}
	if upd.Address != nil {
		set["address"] = *upd.Address
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.User
	err := r.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		return nil, database.MapMongoError(err)
	}
	return &updated, nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	result, err := r.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return database.MapMongoError(err)
	}
	if result.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, filter models.UserFilter) ([]*models.User, error) {
	query := bson.M{}
	if filter.Role != "" {
		query["role"] = filter.Role
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.c.Find(ctx, query, opts)
	if err != nil {
		return nil, database.MapMongoError(err)
	}
	defer cursor.Close(ctx)

	users := make([]*models.User, 0)
	if err := cursor.All(ctx, &users); err != nil {
		return nil, database.MapMongoError(err)
	}
	return users, nil
}

func (r *UserRepository) ListByRole(ctx context.Context, role string) ([]*models.User, error) {
	return r.List(ctx, models.UserFilter{Role: role})
}

func (r *UserRepository) GetByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	if err := r.c.FindOne(ctx, bson.M{"email_verification_token": token}).Decode(&user); err != nil {
		return nil, database.MapMongoError(err)
	}
	return &user, nil
}

func (r *UserRepository) GetByPasswordResetToken(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	if err := r.c.FindOne(ctx, bson.M{"password_reset_token": token}).Decode(&user); err != nil {
		return nil, database.MapMongoError(err)
	}
	return &user, nil
}

// UpdatePassword replaces the stored digest and clears any outstanding
// password reset token.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, hashedPassword string) error {
	result, err := r.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set":   bson.M{"hashed_password": hashedPassword, "updated_at": time.Now()},
		"$unset": bson.M{"password_reset_token": "", "password_reset_expires": ""},
	})
	if err != nil {
		return database.MapMongoError(err)
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// VerifyEmail flips the verified flag and activates pending accounts.
func (r *UserRepository) VerifyEmail(ctx context.Context, id string) error {
	now := time.Now()

	result, err := r.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"email_verified": true, "updated_at": now},
	})
	if err != nil {
		return database.MapMongoError(err)
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}

	// Pending accounts become active once the address is proven.
	_, err = r.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.StatusPending},
		bson.M{"$set": bson.M{"status": models.StatusActive, "updated_at": now}},
	)
	if err != nil {
		return database.MapMongoError(err)
	}
	return nil
}

// SetPasswordResetToken stores a reset token and its expiry.
func (r *UserRepository) SetPasswordResetToken(ctx context.Context, id, token string, expires time.Time) error {
	result, err := r.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"password_reset_token":   token,
			"password_reset_expires": expires,
			"updated_at":             time.Now(),
		},
	})
	if err != nil {
		return database.MapMongoError(err)
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// UpdateRefreshToken stores or clears the user's refresh token.
func (r *UserRepository) UpdateRefreshToken(ctx context.Context, id string, token *string) error {
	update := bson.M{"$set": bson.M{"updated_at": time.Now()}}
	if token != nil {
		update["$set"].(bson.M)["refresh_token"] = *token
	} else {
		update["$unset"] = bson.M{"refresh_token": ""}
	}

	result, err := r.c.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return database.MapMongoError(err)
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// UpdateLastLogin records a successful login.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string) error {
	now := time.Now()
	result, err := r.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"last_login_at": now, "updated_at": now},
	})
	if err != nil {
		return database.MapMongoError(err)
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}
