package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Mugen-bitt/ai-finance-miniapp/internal/errors"
	"github.com/Mugen-bitt/ai-finance-miniapp/internal/initdata"
	"github.com/Mugen-bitt/ai-finance-miniapp/internal/logger"
	"github.com/Mugen-bitt/ai-finance-miniapp/internal/models"
)

const (
	// InitDataHeader carries the raw signed launch payload.
	InitDataHeader = "X-Telegram-Init-Data"

	// UserIDKey is the gin context key holding the authenticated user's ID.
	UserIDKey = "userID"
)

// DevIdentity is resolved in development mode when a request carries no payload.
var DevIdentity = initdata.Identity{
	ID:        123456789,
	FirstName: "Test",
	LastName:  "User",
	Username:  "testuser",
}

// IdentityVerifier checks a signed payload and returns the identity it carries.
type IdentityVerifier interface {
	Verify(raw string) (*initdata.Identity, error)
}

// UserResolver maps a verified identity to a stored user.
type UserResolver interface {
	ResolveTelegramUser(ctx context.Context, identity initdata.Identity) (*models.User, error)
}

// TelegramAuth authenticates requests by their signed init payload and stores
// the resolved user's ID in the context under UserIDKey.
//
// verifier may be nil when no bot token is configured; signed requests then fail
// with a configuration error. When devMode is set, requests without the header
// are served as DevIdentity.
func TelegramAuth(verifier IdentityVerifier, users UserResolver, devMode bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(InitDataHeader)

		var identity *initdata.Identity
		switch {
		case raw == "" && devMode:
			identity = &DevIdentity
		case raw == "":
			abortWithError(c, apperrors.ErrMissingSignature)
			return
		case verifier == nil:
			abortWithError(c, apperrors.ErrConfiguration)
			return
		default:
			var err error
			identity, err = verifier.Verify(raw)
			if err != nil {
				logger.Get().Debugw("init data rejected", "error", err, "client_ip", c.ClientIP())
				abortWithError(c, err)
				return
			}
		}

		user, err := users.ResolveTelegramUser(c.Request.Context(), *identity)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(UserIDKey, user.ID)
		c.Next()
	}
}

func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
