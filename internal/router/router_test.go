package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 登出要清 redis 里的单点 token，必须先过鉴权拿到 user_id
func TestLogoutRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("UPLOAD_DIR", t.TempDir())
	r := InitRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/user/logout", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	// 被 AuthMiddleware 拦下，而不是进了 handler 之后才发现没有 user_id
	assert.Contains(t, w.Body.String(), "missing authorization header")
}
