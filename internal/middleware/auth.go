package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"movie-discovery-backend/internal/service"
)

// identityKey is the Locals slot the verified caller is stored under.
const identityKey = "identity"

// claimCacheTTL bounds how long a verified token skips signature checks.
// Kept short so revoked tokens stop working soon after expiry.
const claimCacheTTL = 5 * time.Minute

// Authenticator verifies identity-provider bearer tokens and attaches the
// caller to the request. A Redis client may be nil; verification then runs
// on every request instead of being memoized.
type Authenticator struct {
	secret []byte
	rdb    *redis.Client
}

// NewAuthenticator creates an Authenticator with the shared HMAC secret the
// identity provider signs tokens with.
func NewAuthenticator(secret string, rdb *redis.Client) *Authenticator {
	return &Authenticator{secret: []byte(secret), rdb: rdb}
}

// Handler returns the Fiber middleware enforcing a valid Bearer token.
func (a *Authenticator) Handler() fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing Authorization header",
			})
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid Authorization header format, expected 'Bearer <token>'",
			})
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "empty bearer token",
			})
		}

		who, err := a.verify(c.Context(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		}

		c.Locals(identityKey, who)
		return c.Next()
	}
}

// CallerIdentity returns the verified caller attached by the Handler.
func CallerIdentity(c fiber.Ctx) service.Identity {
	who, _ := c.Locals(identityKey).(service.Identity)
	return who
}

// verify checks the token signature and claims, consulting the Redis claim
// cache first so hot clients do not pay for HMAC on every call.
func (a *Authenticator) verify(ctx context.Context, token string) (service.Identity, error) {
	cacheKey := ""
	if a.rdb != nil {
		sum := sha256.Sum256([]byte(token))
		cacheKey = "authclaims:" + hex.EncodeToString(sum[:])
		if payload, err := a.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var who service.Identity
			if json.Unmarshal(payload, &who) == nil {
				return who, nil
			}
		}
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil {
		return service.Identity{}, err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return service.Identity{}, fmt.Errorf("unexpected claims type")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return service.Identity{}, fmt.Errorf("token missing sub claim")
	}

	who := service.Identity{
		SubjectID: sub,
		Email:     stringClaim(claims, "email"),
		Name:      stringClaim(claims, "name"),
		PhotoURL:  stringClaim(claims, "picture"),
	}

	if a.rdb != nil {
		if payload, err := json.Marshal(who); err == nil {
			a.rdb.Set(ctx, cacheKey, payload, claimCacheTTL)
		}
	}
	return who, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	v, _ := claims[key].(string)
	return v
}
