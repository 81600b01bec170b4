package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shopstack/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LoginResponse), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LoginResponse), args.Error(1)
}

func (m *MockAuthService) RequestPasswordReset(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	args := m.Called(ctx, token, newPassword)
	return args.Error(0)
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockService := new(MockAuthService)
		h := NewAuthHandler(mockService, zerolog.Nop())

		mockService.On("Register", mock.Anything, mock.MatchedBy(func(req *model.RegisterRequest) bool {
			return req.Email == "new@example.com" && req.Name == "New User"
		})).Return(&model.LoginResponse{
			Token: "signed-token",
			User:  model.User{ID: uuid.New(), Email: "new@example.com", Role: model.RoleCustomer},
		}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
			strings.NewReader(`{"name": "New User", "email": "new@example.com", "password": "s3cret"}`))
		rec := httptest.NewRecorder()
		h.Register(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		resp := decodeResponse(t, rec)
		assert.True(t, resp.Success)
		mockService.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		mockService := new(MockAuthService)
		h := NewAuthHandler(mockService, zerolog.Nop())

		mockService.On("Register", mock.Anything, mock.Anything).
			Return(nil, model.NewConflictError("email is already registered"))

		req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
			strings.NewReader(`{"name": "New User", "email": "taken@example.com", "password": "s3cret"}`))
		rec := httptest.NewRecorder()
		h.Register(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeResponse(t, rec)
		assert.False(t, resp.Success)
		assert.Equal(t, "email is already registered", resp.Message)
	})

	t.Run("invalid body", func(t *testing.T) {
		mockService := new(MockAuthService)
		h := NewAuthHandler(mockService, zerolog.Nop())

		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(`{`))
		rec := httptest.NewRecorder()
		h.Register(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "Register")
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockService := new(MockAuthService)
		h := NewAuthHandler(mockService, zerolog.Nop())

		mockService.On("Login", mock.Anything, mock.Anything).Return(&model.LoginResponse{
			Token: "signed-token",
			User:  model.User{ID: uuid.New(), Role: model.RoleCustomer},
		}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"email": "jane@example.com", "password": "s3cret"}`))
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("bad credentials", func(t *testing.T) {
		mockService := new(MockAuthService)
		h := NewAuthHandler(mockService, zerolog.Nop())

		mockService.On("Login", mock.Anything, mock.Anything).
			Return(nil, model.NewDomainError(model.ErrCodeAuthorization, "invalid credentials", http.StatusUnauthorized))

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"email": "jane@example.com", "password": "wrong"}`))
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		resp := decodeResponse(t, rec)
		assert.Equal(t, "invalid credentials", resp.Message)
	})
}

func TestAuthHandler_ForgotPassword_NeverLeaks(t *testing.T) {
	mockService := new(MockAuthService)
	h := NewAuthHandler(mockService, zerolog.Nop())

	mockService.On("RequestPasswordReset", mock.Anything, "ghost@example.com").Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/forgot-password",
		strings.NewReader(`{"email": "ghost@example.com"}`))
	rec := httptest.NewRecorder()
	h.ForgotPassword(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "if the email exists, a reset link has been sent", resp.Message)
}

func TestAuthHandler_ResetPassword(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockService := new(MockAuthService)
		h := NewAuthHandler(mockService, zerolog.Nop())

		mockService.On("ResetPassword", mock.Anything, "reset-token", "new-password").Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/reset-password",
			strings.NewReader(`{"token": "reset-token", "password": "new-password"}`))
		rec := httptest.NewRecorder()
		h.ResetPassword(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		resp := decodeResponse(t, rec)
		assert.Equal(t, "password updated", resp.Message)
	})

	t.Run("invalid token", func(t *testing.T) {
		mockService := new(MockAuthService)
		h := NewAuthHandler(mockService, zerolog.Nop())

		mockService.On("ResetPassword", mock.Anything, "expired", "new-password").
			Return(model.NewValidationError("invalid or expired reset token"))

		req := httptest.NewRequest(http.MethodPost, "/api/auth/reset-password",
			strings.NewReader(`{"token": "expired", "password": "new-password"}`))
		rec := httptest.NewRecorder()
		h.ResetPassword(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
