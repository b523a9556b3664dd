// Package auth is the boundary to the identity provider. The core only needs
// to know who the caller is; token issuance lives elsewhere.
package auth

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"academy/internal/domain"
	"academy/internal/errs"
)

// ErrUnauthenticated is returned when the caller cannot be identified. The
// payment flow must not start; the caller is expected to log in and restart.
var ErrUnauthenticated = errs.Tag(errs.KindAuthRequired, "authentication required")

const contextLearnerKey = "auth.learner"

// Verifier validates bearer tokens issued by the identity provider.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a Verifier for the given signing secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Learner extracts the caller's identity from a bearer token. Returns
// ErrUnauthenticated for any token that cannot be trusted.
func (v *Verifier) Learner(tokenString string) (*domain.Learner, error) {
	if tokenString == "" || len(v.secret) == 0 {
		return nil, ErrUnauthenticated
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrUnauthenticated
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrUnauthenticated
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrUnauthenticated
	}

	// Name and email claims are optional profile context, not identity.
	name, _ := claims["name"].(string)
	email, _ := claims["email"].(string)

	return &domain.Learner{ID: sub, Name: name, Email: email}, nil
}

// SetLearner stores the authenticated learner on the request context.
func SetLearner(c *gin.Context, learner *domain.Learner) {
	c.Set(contextLearnerKey, learner)
}

// LearnerFrom returns the authenticated learner id, if any.
func LearnerFrom(c *gin.Context) (string, bool) {
	learner, ok := ProfileFrom(c)
	if !ok {
		return "", false
	}
	return learner.ID, true
}

// ProfileFrom returns the full authenticated learner, if any.
func ProfileFrom(c *gin.Context) (*domain.Learner, bool) {
	value, exists := c.Get(contextLearnerKey)
	if !exists {
		return nil, false
	}
	learner, ok := value.(*domain.Learner)
	if !ok || learner == nil || learner.ID == "" {
		return nil, false
	}
	return learner, true
}
