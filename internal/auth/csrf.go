package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Intents a CSRF token can be issued for. A token only validates for the
// intent it was issued with.
const (
	IntentUpdateBoard  = "update_board"
	IntentDeleteBoard  = "delete_board"
	IntentUpdateColumn = "update_column"
	IntentDeleteColumn = "delete_column"
	IntentUpdateCard   = "update_card"
	IntentDeleteCard   = "delete_card"
)

var knownIntents = map[string]bool{
	IntentUpdateBoard:  true,
	IntentDeleteBoard:  true,
	IntentUpdateColumn: true,
	IntentDeleteColumn: true,
	IntentUpdateCard:   true,
	IntentDeleteCard:   true,
}

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrInvalidClaims = errors.New("invalid claims")
	ErrUnknownIntent = errors.New("unknown intent")
)

// CSRFManager issues and checks short-lived anti-forgery tokens, signed with
// HS256.
type CSRFManager struct {
	secret []byte
	ttl    time.Duration
}

func NewCSRFManager(secret string, ttl time.Duration) *CSRFManager {
	return &CSRFManager{secret: []byte(secret), ttl: ttl}
}

func IsKnownIntent(intent string) bool {
	return knownIntents[intent]
}

func (m *CSRFManager) GenerateToken(intent string) (string, error) {
	if !IsKnownIntent(intent) {
		return "", ErrUnknownIntent
	}
	claims := jwt.MapClaims{
		"intent": intent,
		"exp":    time.Now().Add(m.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *CSRFManager) ValidateToken(tokenStr, intent string) error {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ErrInvalidClaims
	}
	got, ok := claims["intent"].(string)
	if !ok || got != intent {
		return ErrInvalidClaims
	}
	return nil
}
