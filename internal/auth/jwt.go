package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const RoleAdmin = "admin"

// Claims defines the claims this service reads from backend-issued tokens.
type Claims struct {
	UserID string `json:"sub"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// ClaimsReader extracts claims from backend-issued access tokens.
// Signatures are not checked here: the backend verifies every token it
// receives, so the claims only drive session keying and screen gating.
type ClaimsReader struct {
	parser *jwt.Parser
	now    func() time.Time
}

func NewClaimsReader() *ClaimsReader {
	return &ClaimsReader{
		parser: jwt.NewParser(),
		now:    time.Now,
	}
}

// Read parses the token and rejects expired or subject-less tokens.
func (r *ClaimsReader) Read(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := r.parser.ParseUnverified(tokenStr, claims); err != nil {
		return nil, fmt.Errorf("failed to parse jwt: %w", err)
	}

	if claims.UserID == "" {
		return nil, errors.New("jwt has no subject")
	}
	if claims.ExpiresAt != nil && !claims.ExpiresAt.After(r.now()) {
		return nil, errors.New("jwt is expired")
	}

	return claims, nil
}
