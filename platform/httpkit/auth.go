package httpkit

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"serveon_backend/platform/config"
	"serveon_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// ContextUserIDKey is the gin key holding the caller's uuid.UUID.
	ContextUserIDKey = "userID"
	// ContextRolesKey is the gin key holding the caller's []string roles.
	ContextRolesKey = "roles"

	tokenTypeAccess = "access"
	bearerPrefix    = "Bearer "

	errMissingToken = "missing token"
	errInvalidToken = "invalid token"
)

var errWrongTokenType = errors.New("not an access token")

// accessClaims is the payload of the access tokens issued by the identity
// provider. Refresh tokens share the secret but carry another type.
type accessClaims struct {
	Type  string   `json:"type"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// AuthRequired accepts "Authorization: Bearer <jwt>" signed with the
// configured HMAC secret and answers 401 otherwise.
func AuthRequired(cfg config.JWTConfig) gin.HandlerFunc {
	secret := []byte(cfg.GetJWTAccessSecret())
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))

	return func(c *gin.Context) {
		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), bearerPrefix)
		raw = strings.TrimSpace(raw)
		if !ok || raw == "" {
			abortUnauthorized(c, errMissingToken)
			return
		}

		userID, roles, err := verifyAccessToken(parser, secret, raw)
		if err != nil {
			abortUnauthorized(c, errInvalidToken)
			return
		}

		setIdentity(c, userID, roles)
		c.Next()
	}
}

func verifyAccessToken(parser *jwt.Parser, secret []byte, raw string) (uuid.UUID, []string, error) {
	claims := &accessClaims{}
	if _, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	}); err != nil {
		return uuid.Nil, nil, err
	}
	if claims.Type != tokenTypeAccess {
		return uuid.Nil, nil, errWrongTokenType
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, nil, err
	}
	if claims.Roles == nil {
		claims.Roles = []string{}
	}
	return userID, claims.Roles, nil
}

// AnonymousIdentity replaces AuthRequired when no JWT secret is configured.
// Every request is the nil user with the admin role, so favorites and
// history are shared by everyone who can reach the server.
func AnonymousIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		setIdentity(c, uuid.Nil, []string{RoleAdmin})
		c.Next()
	}
}

func setIdentity(c *gin.Context, userID uuid.UUID, roles []string) {
	c.Set(ContextUserIDKey, userID)
	c.Set(ContextRolesKey, roles)
	ctx := context.WithValue(c.Request.Context(), logger.UserIDKey, userID.String())
	c.Request = c.Request.WithContext(ctx)
}

func abortUnauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message, nil)
}
