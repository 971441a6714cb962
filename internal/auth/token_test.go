package auth

import (
	"testing"
	"time"

	"github.com/openlearn/campus-api/internal/models"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret-key-with-enough-length"

func testUser() *models.User {
	return &models.User{
		ID:        "user123",
		Email:     "student@example.com",
		FirstName: "Student",
		LastName:  "One",
		Role:      models.RoleStudent,
	}
}

func TestTokenManager_GenerateAndValidate(t *testing.T) {
	tm := NewTokenManager(testSecret, 15*time.Minute)

	token, err := tm.GenerateAccessToken(testUser())
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := tm.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user123", claims.Subject)
	assert.Equal(t, "student@example.com", claims.Email)
	assert.Equal(t, models.RoleStudent, claims.Role)
	assert.Equal(t, "Student", claims.FirstName)
	assert.Equal(t, "One", claims.LastName)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenManager_ExpiryMatchesConfig(t *testing.T) {
	tm := NewTokenManager(testSecret, 15*time.Minute)

	token, err := tm.GenerateAccessToken(testUser())
	assert.NoError(t, err)

	claims, err := tm.ValidateToken(token)
	assert.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenManager_RejectsExpiredToken(t *testing.T) {
	tm := NewTokenManager(testSecret, -time.Minute)

	token, err := tm.GenerateAccessToken(testUser())
	assert.NoError(t, err)

	_, err = tm.ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager(testSecret, 15*time.Minute)
	other := NewTokenManager("a-completely-different-secret-key", 15*time.Minute)

	token, err := tm.GenerateAccessToken(testUser())
	assert.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	tm := NewTokenManager(testSecret, 15*time.Minute)

	_, err := tm.ValidateToken("not.a.jwt")
	assert.Error(t, err)

	_, err = tm.ValidateToken("")
	assert.Error(t, err)
}

func TestClaims_RoleHelpers(t *testing.T) {
	admin := &Claims{Role: models.RoleAdmin}
	teacher := &Claims{Role: models.RoleTeacher}
	student := &Claims{Role: models.RoleStudent}

	assert.True(t, admin.IsAdmin())
	assert.True(t, admin.IsStaff())
	assert.False(t, teacher.IsAdmin())
	assert.True(t, teacher.IsStaff())
	assert.False(t, student.IsAdmin())
	assert.False(t, student.IsStaff())
}
