package model

import "github.com/google/uuid"

// TokenManager validates session tokens issued by the identity layer.
type TokenManager interface {
	GenerateAccessToken(userID uuid.UUID) (string, error)
	ParseAccessToken(token string) (uuid.UUID, error)
}
