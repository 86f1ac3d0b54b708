package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/luxeshop/luxe-backend/internal/config"
	"github.com/luxeshop/luxe-backend/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestMatchLanguage(t *testing.T) {
	tests := map[string]string{
		"":                         "en",
		"en-US":                    "en",
		"zh-TW,zh;q=0.9,en;q=0.8":  "zh_TW",
		"zh-Hant":                  "zh_TW",
		"fr-FR":                    "en",
		"not a valid header;;;q=x": "en",
	}
	for header, want := range tests {
		assert.Equal(t, want, matchLanguage(header), header)
	}
}

func authRouter() *gin.Engine {
	r := gin.New()
	r.GET("/admin", AuthRequired(), AdminRequired("admin"), func(c *gin.Context) {
		id, _ := utils.GetUserIDFromContext(c)
		c.String(http.StatusOK, id)
	})
	r.GET("/optional", OptionalAuth(), func(c *gin.Context) {
		id, _ := utils.GetUserIDFromContext(c)
		c.String(http.StatusOK, id)
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	utils.SetJWTSecret("middleware-secret")
	utils.SetJWTIssuer("")
	r := authRouter()

	adminToken, err := utils.GenerateJWT("admin-1", "", "admin", time.Hour)
	require.NoError(t, err)
	shopperToken, err := utils.GenerateJWT("shopper-1", "", "customer", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"malformed", "Token abc", http.StatusUnauthorized},
		{"bad token", "Bearer abc", http.StatusUnauthorized},
		{"not admin", "Bearer " + shopperToken, http.StatusForbidden},
		{"admin", "Bearer " + adminToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/optional", nil)
	req.Header.Set("Authorization", "Bearer "+shopperToken)
	r.ServeHTTP(w, req)
	assert.Equal(t, "shopper-1", w.Body.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/optional", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(rate.Every(time.Hour), 2)
	defer rl.Stop()

	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 3)
	for i := range codes {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		codes[i] = w.Code
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCartSession(t *testing.T) {
	store := NewCartCookieStore(config.CartConfig{SessionSecret: "test-secret", CookieMaxAge: 3600})

	r := gin.New()
	r.Use(CartSession(store, "luxe_cart_session"))
	r.GET("/", func(c *gin.Context) {
		id, _ := GetCartSessionID(c)
		c.String(http.StatusOK, id)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	firstID := w.Body.String()
	require.NotEmpty(t, firstID)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)

	// Same cookie, same session, no new cookie issued.
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	r.ServeHTTP(w, req)
	assert.Equal(t, firstID, w.Body.String())
	assert.Empty(t, w.Result().Cookies())

	// Tampered cookie is replaced.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "luxe_cart_session", Value: "forged"})
	r.ServeHTTP(w, req)
	assert.NotEqual(t, firstID, w.Body.String())
	assert.Len(t, w.Result().Cookies(), 1)
}

func TestExtractResourceType(t *testing.T) {
	assert.Equal(t, "products", extractResourceType("/v1/admin/products"))
	assert.Equal(t, "cart", extractResourceType("/v1/cart/items"))
	assert.Equal(t, "health", extractResourceType("/health"))
	assert.Equal(t, "unknown", extractResourceType("/"))
}
