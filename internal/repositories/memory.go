package repositories

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/openlearn/campus-api/internal/models"
)

// MemoryUserRepository is the in-memory variant of the user store, selected
// at wiring time when no document store is configured and used by tests.
// Storage is a plain slice with linear scans.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users []*models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make([]*models.User, 0)}
}

func (r *MemoryUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.ID == id {
			return copyUser(u), nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email = strings.ToLower(email)
	for _, u := range r.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *MemoryUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Uniqueness is enforced here, same as the unique index in the
	// document store.
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, models.ErrConflict
		}
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	if user.Status == "" {
		user.Status = models.StatusPending
	}

	r.users = append(r.users, copyUser(user))
	return copyUser(user), nil
}

func (r *MemoryUserRepository) Update(ctx context.Context, id string, upd *models.UserUpdate) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.find(id)
	if u == nil {
		return nil, models.ErrNotFound
	}

	if upd.FirstName != nil {
		u.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		u.LastName = *upd.LastName
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	if upd.Status != nil {
		u.Status = *upd.Status
	}
	if upd.Phone != nil {
		u.Phone = upd.Phone
	}
	if upd.Bio != nil {
		u.Bio = upd.Bio
	}
	if upd.Avatar != nil {
		u.Avatar = upd.Avatar
	}
	if upd.DateOfBirth != nil {
		u.DateOfBirth = upd.DateOfBirth
	}
	if upd.Address != nil {
		u.Address = upd.Address
	}
	u.UpdatedAt = time.Now()

	return copyUser(u), nil
}

func (r *MemoryUserRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, u := range r.users {
		if u.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

func (r *MemoryUserRepository) List(ctx context.Context, filter models.UserFilter) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.User, 0)
	for _, u := range r.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.Status != "" && u.Status != filter.Status {
			continue
		}
		result = append(result, copyUser(u))
	}
	return result, nil
}

func (r *MemoryUserRepository) ListByRole(ctx context.Context, role string) ([]*models.User, error) {
	return r.List(ctx, models.UserFilter{Role: role})
}

func (r *MemoryUserRepository) GetByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.EmailVerificationToken != nil && *u.EmailVerificationToken == token {
			return copyUser(u), nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *MemoryUserRepository) GetByPasswordResetToken(ctx context.Context, token string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.PasswordResetToken != nil && *u.PasswordResetToken == token {
			return copyUser(u), nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *MemoryUserRepository) UpdatePassword(ctx context.Context, id, hashedPassword string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.find(id)
	if u == nil {
		return models.ErrNotFound
	}

	u.HashedPassword = hashedPassword
	u.PasswordResetToken = nil
	u.PasswordResetExpires = nil
	u.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryUserRepository) VerifyEmail(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.find(id)
	if u == nil {
		return models.ErrNotFound
	}

	u.EmailVerified = true
	if u.Status == models.StatusPending {
		u.Status = models.StatusActive
	}
	u.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryUserRepository) SetPasswordResetToken(ctx context.Context, id, token string, expires time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.find(id)
	if u == nil {
		return models.ErrNotFound
	}

	u.PasswordResetToken = &token
	u.PasswordResetExpires = &expires
	u.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryUserRepository) UpdateRefreshToken(ctx context.Context, id string, token *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.find(id)
	if u == nil {
		return models.ErrNotFound
	}

	u.RefreshToken = token
	u.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryUserRepository) UpdateLastLogin(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.find(id)
	if u == nil {
		return models.ErrNotFound
	}

	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
	return nil
}

// find returns the stored record itself. Callers must hold the lock.
func (r *MemoryUserRepository) find(id string) *models.User {
	for _, u := range r.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func copyUser(u *models.User) *models.User {
	c := *u
	return &c
}

// MemorySessionRepository is the in-memory variant of the session store.
type MemorySessionRepository struct {
	mu       sync.Mutex
	sessions []*models.Session
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: make([]*models.Session, 0)}
}

func (r *MemorySessionRepository) Create(ctx context.Context, session *models.Session) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if session.ID == "" {
		session.ID = uuid.New().String()
	}

	now := time.Now()
	session.CreatedAt = now
	session.LastUsedAt = now
	session.IsActive = true

	c := *session
	r.sessions = append(r.sessions, &c)
	return session, nil
}

func (r *MemorySessionRepository) DeleteByUserID(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.sessions[:0]
	for _, s := range r.sessions {
		if s.UserID != userID {
			kept = append(kept, s)
		}
	}
	r.sessions = kept
	return nil
}
