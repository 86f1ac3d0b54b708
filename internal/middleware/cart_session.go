// internal/middleware/cart_session.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"

	"github.com/luxeshop/luxe-backend/internal/config"
)

const (
	cartSessionIDKey = "cart_session_id"
	sessionValueID   = "sid"
)

// NewCartCookieStore builds the signed cookie store holding cart session ids.
func NewCartCookieStore(cfg config.CartConfig) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.CookieMaxAge,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// CartSession makes sure the request carries a cart session id, issuing a
// new signed cookie when it is missing or cannot be verified.
func CartSession(store sessions.Store, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// A cookie that fails verification still yields a fresh session.
		session, err := store.Get(c.Request, cookieName)
		if err != nil {
			logrus.WithError(err).Debug("Discarding unreadable cart session cookie")
		}
		if session == nil {
			session = sessions.NewSession(store, cookieName)
		}

		id, _ := session.Values[sessionValueID].(string)
		if _, parseErr := uuid.Parse(id); parseErr != nil {
			id = uuid.NewString()
			session.Values[sessionValueID] = id
			if err := session.Save(c.Request, c.Writer); err != nil {
				logrus.WithError(err).Warn("Failed to save cart session cookie")
			}
		}

		c.Set(cartSessionIDKey, id)
		c.Next()
	}
}

// GetCartSessionID returns the id set by CartSession.
func GetCartSessionID(c *gin.Context) (string, bool) {
	id := c.GetString(cartSessionIDKey)
	return id, id != ""
}
