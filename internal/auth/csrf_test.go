package auth_test

import (
	"testing"
	"time"

	"kanban-board/internal/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestGenerateAndValidateToken(t *testing.T) {
	m := auth.NewCSRFManager("test-secret-key", time.Hour)

	token, err := m.GenerateToken(auth.IntentDeleteCard)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	assert.NoError(t, m.ValidateToken(token, auth.IntentDeleteCard))
}

func TestGenerateToken_UnknownIntent(t *testing.T) {
	m := auth.NewCSRFManager("test-secret-key", time.Hour)

	_, err := m.GenerateToken("drop_database")
	assert.ErrorIs(t, err, auth.ErrUnknownIntent)
}

func TestValidateToken_WrongIntent(t *testing.T) {
	m := auth.NewCSRFManager("test-secret-key", time.Hour)
	token, _ := m.GenerateToken(auth.IntentUpdateCard)

	err := m.ValidateToken(token, auth.IntentDeleteCard)
	assert.Equal(t, "invalid claims", err.Error())
}

func TestValidateToken_InvalidToken(t *testing.T) {
	m := auth.NewCSRFManager("test-secret-key", time.Hour)

	err := m.ValidateToken("invalid-token", auth.IntentDeleteBoard)
	assert.Equal(t, "invalid token", err.Error())
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, _ := auth.NewCSRFManager("other-secret", time.Hour).GenerateToken(auth.IntentDeleteBoard)

	err := auth.NewCSRFManager("test-secret-key", time.Hour).ValidateToken(token, auth.IntentDeleteBoard)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestValidateToken_ExpiredToken(t *testing.T) {
	claims := jwt.MapClaims{
		"intent": auth.IntentDeleteBoard,
		"exp":    time.Now().Add(-1 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	expired, _ := token.SignedString([]byte("test-secret-key"))

	err := auth.NewCSRFManager("test-secret-key", time.Hour).ValidateToken(expired, auth.IntentDeleteBoard)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestValidateToken_MissingExpiry(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"intent": auth.IntentDeleteBoard})
	noExp, _ := token.SignedString([]byte("test-secret-key"))

	err := auth.NewCSRFManager("test-secret-key", time.Hour).ValidateToken(noExp, auth.IntentDeleteBoard)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
