// Package middleware provides request identity, logging, rate limiting and tracing middleware.
package middleware

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token issuer and audience for API bearer tokens.
const (
	TokenIssuer   = "climateforum"
	TokenAudience = "climateforum-api"
	TokenTTL      = 7 * 24 * time.Hour
)

const identityLocal = "identity"

// Identity is the authenticated account acting on a request.
type Identity struct {
	UserID      uint
	Username    string
	IsModerator bool
}

// SetIdentity stores id on the request locals and context.
func SetIdentity(c *fiber.Ctx, id *Identity) {
	c.Locals(identityLocal, id)
	c.Locals("userID", id.UserID)
	c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, id.UserID))
}

// CurrentIdentity returns the identity set for this request, if any.
func CurrentIdentity(c *fiber.Ctx) (*Identity, bool) {
	id, ok := c.Locals(identityLocal).(*Identity)
	return id, ok && id != nil
}

// WantsJSON reports whether the caller expects a JSON body rather than a page or redirect.
func WantsJSON(c *fiber.Ctx) bool {
	if strings.HasPrefix(c.Path(), "/api/") {
		return true
	}
	if c.Get("X-Requested-With") == "XMLHttpRequest" {
		return true
	}
	return strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMEApplicationJSON)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(c *fiber.Ctx) string {
	parts := strings.Fields(c.Get(fiber.HeaderAuthorization))
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// GenerateToken signs an HS256 API token for id.
func GenerateToken(secret string, id Identity) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(id.UserID), 10),
		"username": id.Username,
		"mod":      id.IsModerator,
		"iss":      TokenIssuer,
		"aud":      TokenAudience,
		"exp":      now.Add(TokenTTL).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates tokenString and returns the identity it carries.
func ParseToken(secret, tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(secret), nil
	},
		jwt.WithIssuer(TokenIssuer),
		jwt.WithAudience(TokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, errors.New("invalid subject claim")
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return nil, errors.New("invalid user ID in token")
	}

	username, _ := claims["username"].(string)
	isModerator, _ := claims["mod"].(bool)

	return &Identity{
		UserID:      uint(userID),
		Username:    username,
		IsModerator: isModerator,
	}, nil
}
