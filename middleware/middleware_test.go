package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kommunity/config"
	"kommunity/models"
	"kommunity/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func bearer(t *testing.T, user string, role models.Role) string {
	t.Helper()
	tok, err := utils.GenerateToken(user, role, time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok
}

func protectedRouter(roles ...models.Role) *gin.Engine {
	r := gin.New()
	r.GET("/x", JWTAuthMiddleware(), RequireRole(roles...), func(c *gin.Context) {
		actor, _ := ActorFrom(c)
		c.String(http.StatusOK, actor.Username)
	})
	return r
}

func TestJWTAuthAndRoleGuard(t *testing.T) {
	config.AppConfig.JWTSecret = "mw-secret"
	r := protectedRouter(models.RoleAdmin)

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
		{"wrong role", bearer(t, "ramu", models.RoleServiceman), http.StatusForbidden},
		{"admin", bearer(t, "dispatch", models.RoleAdmin), http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestRateLimiterStoreIsBounded(t *testing.T) {
	s := newRateLimiterStore(10, 3)
	first := s.getLimiter("a")
	for i := 0; i < 10; i++ {
		s.getLimiter(fmt.Sprintf("client-%d", i))
	}
	assert.Equal(t, 3, s.size())
	assert.NotSame(t, first, s.getLimiter("a"))
}

func TestRateLimiterStoreKeepsRecentClients(t *testing.T) {
	s := newRateLimiterStore(10, 2)
	a := s.getLimiter("a")
	s.getLimiter("b")
	s.getLimiter("a")
	s.getLimiter("c")

	assert.Same(t, a, s.getLimiter("a"))
}

func TestRateLimitMiddlewareRejectsBurst(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(2, 10))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
