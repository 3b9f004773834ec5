package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"expense_backend/internal/feature/auth/domain/entity"
	"expense_backend/internal/feature/auth/usecase"
	jwtmw "expense_backend/internal/platform/jwt"
)

// mockAuthUsecase is a mock implementation of the AuthUsecase interface.
type mockAuthUsecase struct {
	SignupFunc      func(ctx context.Context, email, name, password string) (*entity.User, string, error)
	LoginFunc       func(ctx context.Context, email, password string) (*entity.User, string, error)
	LogoutFunc      func(ctx context.Context, sessionID string) error
	CurrentUserFunc func(ctx context.Context, userID string) (*entity.User, error)
}

func (m *mockAuthUsecase) Signup(ctx context.Context, email, name, password string) (*entity.User, string, error) {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, email, name, password)
	}
	return nil, "", errors.New("signup failed")
}

func (m *mockAuthUsecase) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return nil, "", errors.New("login failed")
}

func (m *mockAuthUsecase) Logout(ctx context.Context, sessionID string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, sessionID)
	}
	return nil
}

func (m *mockAuthUsecase) CurrentUser(ctx context.Context, userID string) (*entity.User, error) {
	if m.CurrentUserFunc != nil {
		return m.CurrentUserFunc(ctx, userID)
	}
	return nil, usecase.ErrUserNotFound
}

var testUser = &entity.User{ID: "user-1", Email: "test@example.com", Name: "Test"}

func TestAuthHandler_Signup(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		requestBody    gin.H
		mockSignupFunc func(ctx context.Context, email, name, password string) (*entity.User, string, error)
		expectedStatus int
		expectedToken  string
		expectedError  string
	}{
		{
			name:        "success: user registration",
			requestBody: gin.H{"email": "test@example.com", "name": "Test", "password": "password123"},
			mockSignupFunc: func(ctx context.Context, email, name, password string) (*entity.User, string, error) {
				return testUser, "new-token", nil
			},
			expectedStatus: http.StatusCreated,
			expectedToken:  "new-token",
		},
		{
			name:           "failure: invalid email address",
			requestBody:    gin.H{"email": "invalid-email", "name": "Test", "password": "password123"},
			mockSignupFunc: nil, // Usecase is not called
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Email",
		},
		{
			name:           "failure: missing name",
			requestBody:    gin.H{"email": "test@example.com", "password": "password123"},
			mockSignupFunc: nil, // Usecase is not called
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Name",
		},
		{
			name:           "failure: short password",
			requestBody:    gin.H{"email": "test@example.com", "name": "Test", "password": "short"},
			mockSignupFunc: nil, // Usecase is not called
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Password",
		},
		{
			name:        "failure: duplicate email",
			requestBody: gin.H{"email": "existing@example.com", "name": "Test", "password": "password123"},
			mockSignupFunc: func(ctx context.Context, email, name, password string) (*entity.User, string, error) {
				return nil, "", usecase.ErrEmailAlreadyExists
			},
			expectedStatus: http.StatusConflict,
			expectedError:  "email already registered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUC := &mockAuthUsecase{SignupFunc: tt.mockSignupFunc}
			h := NewAuthHandler(mockUC)

			router := gin.New()
			router.POST("/signup", h.Signup)

			body, _ := json.Marshal(tt.requestBody)
			req, _ := http.NewRequest(http.MethodPost, "/signup", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var responseBody gin.H
			err := json.Unmarshal(w.Body.Bytes(), &responseBody)
			assert.NoError(t, err)

			if tt.expectedToken != "" {
				assert.Equal(t, tt.expectedToken, responseBody["token"])
			}
			if tt.expectedError != "" {
				// Error messages include Gin validation error details, so check partial match
				assert.Contains(t, responseBody["error"], tt.expectedError)
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		requestBody    gin.H
		mockLoginFunc  func(ctx context.Context, email, password string) (*entity.User, string, error)
		expectedStatus int
		expectedToken  string
		expectedError  string
	}{
		{
			name:        "success: user login",
			requestBody: gin.H{"email": "test@example.com", "password": "password123"},
			mockLoginFunc: func(ctx context.Context, email, password string) (*entity.User, string, error) {
				return testUser, "dummy-jwt-token", nil
			},
			expectedStatus: http.StatusOK,
			expectedToken:  "dummy-jwt-token",
		},
		{
			name:           "failure: invalid email address",
			requestBody:    gin.H{"email": "invalid-email", "password": "password123"},
			mockLoginFunc:  nil, // Usecase is not called
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Email",
		},
		{
			name:           "failure: missing password",
			requestBody:    gin.H{"email": "test@example.com"},
			mockLoginFunc:  nil, // Usecase is not called
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Password",
		},
		{
			name:        "failure: unknown user is reported distinctly",
			requestBody: gin.H{"email": "nobody@example.com", "password": "password123"},
			mockLoginFunc: func(ctx context.Context, email, password string) (*entity.User, string, error) {
				return nil, "", usecase.ErrUserNotFound
			},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "user not found",
		},
		{
			name:        "failure: wrong password is reported distinctly",
			requestBody: gin.H{"email": "test@example.com", "password": "wrong-password"},
			mockLoginFunc: func(ctx context.Context, email, password string) (*entity.User, string, error) {
				return nil, "", usecase.ErrInvalidCredentials
			},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "invalid password",
		},
		{
			name:        "failure: internal error",
			requestBody: gin.H{"email": "test@example.com", "password": "password123"},
			mockLoginFunc: func(ctx context.Context, email, password string) (*entity.User, string, error) {
				return nil, "", errors.New("db down")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "login failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUC := &mockAuthUsecase{LoginFunc: tt.mockLoginFunc}
			h := NewAuthHandler(mockUC)

			router := gin.New()
			router.POST("/login", h.Login)

			body, _ := json.Marshal(tt.requestBody)
			req, _ := http.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var responseBody gin.H
			err := json.Unmarshal(w.Body.Bytes(), &responseBody)
			assert.NoError(t, err)

			if tt.expectedToken != "" {
				assert.Equal(t, tt.expectedToken, responseBody["token"])
			}
			if tt.expectedError != "" {
				assert.Contains(t, responseBody["error"], tt.expectedError)
			}
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success: revokes the session from the sid claim", func(t *testing.T) {
		revoked := ""
		mockUC := &mockAuthUsecase{
			LogoutFunc: func(ctx context.Context, sessionID string) error {
				revoked = sessionID
				return nil
			},
		}
		h := NewAuthHandler(mockUC)

		router := gin.New()
		router.POST("/logout", func(c *gin.Context) {
			// ミドルウェアが設定するコンテキスト値を再現
			c.Set(jwtmw.ContextSessionID, "session-1")
		}, h.Logout)

		req, _ := http.NewRequest(http.MethodPost, "/logout", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "session-1", revoked)
	})

	t.Run("failure: missing session ID", func(t *testing.T) {
		h := NewAuthHandler(&mockAuthUsecase{})

		router := gin.New()
		router.POST("/logout", h.Logout)

		req, _ := http.NewRequest(http.MethodPost, "/logout", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("failure: unknown session", func(t *testing.T) {
		mockUC := &mockAuthUsecase{
			LogoutFunc: func(ctx context.Context, sessionID string) error {
				return usecase.ErrSessionNotFound
			},
		}
		h := NewAuthHandler(mockUC)

		router := gin.New()
		router.POST("/logout", func(c *gin.Context) {
			c.Set(jwtmw.ContextSessionID, "ghost")
		}, h.Logout)

		req, _ := http.NewRequest(http.MethodPost, "/logout", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandler_Me(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success: returns the current user without the password", func(t *testing.T) {
		mockUC := &mockAuthUsecase{
			CurrentUserFunc: func(ctx context.Context, userID string) (*entity.User, error) {
				assert.Equal(t, "user-1", userID)
				return &entity.User{ID: "user-1", Email: "test@example.com", Name: "Test", Password: "hash"}, nil
			},
		}
		h := NewAuthHandler(mockUC)

		router := gin.New()
		router.GET("/me", func(c *gin.Context) {
			c.Set(jwtmw.ContextUserID, "user-1")
		}, h.Me)

		req, _ := http.NewRequest(http.MethodGet, "/me", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var responseBody gin.H
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &responseBody))
		assert.Equal(t, "user-1", responseBody["id"])
		assert.Equal(t, "test@example.com", responseBody["email"])
		assert.NotContains(t, w.Body.String(), "hash", "password hash must not leak")
	})

	t.Run("failure: user no longer exists", func(t *testing.T) {
		h := NewAuthHandler(&mockAuthUsecase{})

		router := gin.New()
		router.GET("/me", func(c *gin.Context) {
			c.Set(jwtmw.ContextUserID, "ghost")
		}, h.Me)

		req, _ := http.NewRequest(http.MethodGet, "/me", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
