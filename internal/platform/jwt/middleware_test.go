package jwtmw

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSessionGone = errors.New("session revoked")

// mockSessionValidator is a mock implementation of the SessionValidator interface.
type mockSessionValidator struct {
	err error
	got string
}

func (m *mockSessionValidator) ValidateSession(ctx context.Context, sessionID string) error {
	m.got = sessionID
	return m.err
}

// setupProtectedRouter はAuthRequiredで保護されたルーターを返します。
// ハンドラーに渡ったコンテキスト値を検証用に取り出せるようにします。
func setupProtectedRouter(captured *gin.H, sessions SessionValidator) *gin.Engine {
	router := gin.New()
	router.GET("/protected", AuthRequired(sessions), func(c *gin.Context) {
		if captured != nil {
			(*captured)["userID"] = c.GetString(ContextUserID)
			(*captured)["sessionID"] = c.GetString(ContextSessionID)
		}
		c.Status(http.StatusOK)
	})
	return router
}

// signToken はテスト用のHS256トークンを署名します。
func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAuthRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)

	const secret = "test-secret"

	t.Run("success: valid token populates user and session IDs", func(t *testing.T) {
		t.Setenv(EnvKeyJWTSecret, secret)

		tokenStr, err := NewGenerator(secret, time.Hour).GenerateToken("user-1", "session-1")
		require.NoError(t, err)

		captured := gin.H{}
		router := setupProtectedRouter(&captured, nil)

		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tokenStr)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user-1", captured["userID"])
		assert.Equal(t, "session-1", captured["sessionID"])
	})

	t.Run("success: active session passes the validator", func(t *testing.T) {
		t.Setenv(EnvKeyJWTSecret, secret)

		tokenStr, err := NewGenerator(secret, time.Hour).GenerateToken("user-1", "session-1")
		require.NoError(t, err)

		validator := &mockSessionValidator{}
		router := setupProtectedRouter(nil, validator)

		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tokenStr)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "session-1", validator.got, "validator must receive the sid claim")
	})

	t.Run("failure: revoked session rejects a still-unexpired token", func(t *testing.T) {
		t.Setenv(EnvKeyJWTSecret, secret)

		// トークン自体のexpは先だが、サーバ側セッションは失効済み
		tokenStr, err := NewGenerator(secret, time.Hour).GenerateToken("user-1", "session-1")
		require.NoError(t, err)

		validator := &mockSessionValidator{err: errSessionGone}
		router := setupProtectedRouter(nil, validator)

		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tokenStr)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "session-1", validator.got)
	})

	t.Run("failure: missing Authorization header", func(t *testing.T) {
		t.Setenv(EnvKeyJWTSecret, secret)
		router := setupProtectedRouter(nil, nil)

		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("failure: malformed bearer prefix", func(t *testing.T) {
		t.Setenv(EnvKeyJWTSecret, secret)
		router := setupProtectedRouter(nil, nil)

		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Token abcdef")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("failure: token signed with a different secret", func(t *testing.T) {
		t.Setenv(EnvKeyJWTSecret, secret)

		tokenStr := signToken(t, "another-secret", jwt.MapClaims{
			"sub": "user-1",
			"sid": "session-1",
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		router := setupProtectedRouter(nil, nil)
		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tokenStr)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("failure: expired token", func(t *testing.T) {
		t.Setenv(EnvKeyJWTSecret, secret)

		tokenStr := signToken(t, secret, jwt.MapClaims{
			"sub": "user-1",
			"sid": "session-1",
			"exp": time.Now().Add(-time.Minute).Unix(),
		})

		router := setupProtectedRouter(nil, nil)
		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tokenStr)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("failure: token without a sub claim", func(t *testing.T) {
		t.Setenv(EnvKeyJWTSecret, secret)

		tokenStr := signToken(t, secret, jwt.MapClaims{
			"sid": "session-1",
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		router := setupProtectedRouter(nil, nil)
		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tokenStr)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("failure: token without a sid claim", func(t *testing.T) {
		t.Setenv(EnvKeyJWTSecret, secret)

		tokenStr := signToken(t, secret, jwt.MapClaims{
			"sub": "user-1",
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		router := setupProtectedRouter(nil, nil)
		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tokenStr)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("failure: unsigned token is rejected", func(t *testing.T) {
		t.Setenv(EnvKeyJWTSecret, secret)

		// alg=noneのトークンは署名検証で拒否される
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"sub": "user-1",
			"sid": "session-1",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		tokenStr, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		router := setupProtectedRouter(nil, nil)
		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tokenStr)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("failure: missing server secret yields 500", func(t *testing.T) {
		t.Setenv(EnvKeyJWTSecret, "")

		tokenStr := signToken(t, secret, jwt.MapClaims{
			"sub": "user-1",
			"sid": "session-1",
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		router := setupProtectedRouter(nil, nil)
		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tokenStr)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
