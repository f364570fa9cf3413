package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/car-rental-bff/internal/backend"
)

func signToken(t *testing.T, sub, role string, exp time.Time) string {
	t.Helper()
	claims := &Claims{
		UserID: sub,
		Email:  sub + "@rent.test",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return token
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Session(NewClaimsReader()))

	echo := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"session": GetSessionID(c),
			"user":    GetUserID(c),
			"role":    GetUserRole(c),
			"token":   backend.TokenFrom(c.Request.Context()),
		})
	}
	r.GET("/open", echo)
	r.GET("/private", AuthRequired(), echo)
	r.GET("/admin", AuthRequired(), RequireAdmin(), echo)
	return r
}

func do(r *gin.Engine, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSessionMiddleware(t *testing.T) {
	r := newTestRouter()

	t.Run("Anonymous caller gets a minted session", func(t *testing.T) {
		w := do(r, "/open", nil)
		require.Equal(t, http.StatusOK, w.Code)

		sid := w.Header().Get(SessionHeader)
		_, err := uuid.Parse(sid)
		require.NoError(t, err)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "anon:"+sid, body["session"])
		assert.Empty(t, body["user"])
	})

	t.Run("Anonymous caller keeps a valid session header", func(t *testing.T) {
		sid := uuid.NewString()
		w := do(r, "/open", map[string]string{SessionHeader: sid})
		assert.Equal(t, sid, w.Header().Get(SessionHeader))
	})

	t.Run("Malformed session header is replaced", func(t *testing.T) {
		w := do(r, "/open", map[string]string{SessionHeader: "../../etc"})
		assert.NotEqual(t, "../../etc", w.Header().Get(SessionHeader))
	})

	t.Run("Bearer token keys the session by subject and is forwarded", func(t *testing.T) {
		token := signToken(t, "user-42", RoleAdmin, time.Now().Add(time.Hour))
		w := do(r, "/private", map[string]string{"Authorization": "Bearer " + token})
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "user:user-42", body["session"])
		assert.Equal(t, "user-42", body["user"])
		assert.Equal(t, RoleAdmin, body["role"])
		assert.Equal(t, token, body["token"])
	})

	t.Run("Expired token is rejected", func(t *testing.T) {
		token := signToken(t, "user-42", "", time.Now().Add(-time.Minute))
		w := do(r, "/open", map[string]string{"Authorization": "Bearer " + token})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Malformed header is rejected", func(t *testing.T) {
		w := do(r, "/open", map[string]string{"Authorization": "Token abc"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = do(r, "/open", map[string]string{"Authorization": "Bearer not-a-jwt"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Private route needs a token", func(t *testing.T) {
		w := do(r, "/private", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		name   string
		role   string
		token  bool
		status int
	}{
		{"Admin passes", RoleAdmin, true, http.StatusOK},
		{"Customer is forbidden", "customer", true, http.StatusForbidden},
		{"Anonymous is unauthorized", "", false, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.token {
				headers["Authorization"] = "Bearer " + signToken(t, "user-1", tt.role, time.Now().Add(time.Hour))
			}
			w := do(r, "/admin", headers)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
