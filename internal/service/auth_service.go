package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shopstack/internal/config"
	"shopstack/internal/mailer"
	"shopstack/internal/model"
	"shopstack/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// resetTokenExpiry bounds how long a password reset link stays usable.
const resetTokenExpiry = 1 * time.Hour

// authService implements AuthService.
type authService struct {
	customerRepo repository.CustomerRepository
	mailer       mailer.Mailer
	jwtConfig    config.JWTConfig
	logger       zerolog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(
	customerRepo repository.CustomerRepository,
	m mailer.Mailer,
	jwtConfig config.JWTConfig,
	logger zerolog.Logger,
) AuthService {
	return &authService{
		customerRepo: customerRepo,
		mailer:       m,
		jwtConfig:    jwtConfig,
		logger:       logger.With().Str("service", "auth").Logger(),
	}
}

// Register creates a customer account and returns a signed token.
func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	name := strings.TrimSpace(req.Name)

	if email == "" {
		return nil, model.NewValidationError("email is required")
	}
	if name == "" {
		return nil, model.NewValidationError("name is required")
	}
	if len(req.Password) < 6 {
		return nil, model.NewValidationError("password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         model.RoleCustomer,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.customerRepo.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, model.NewConflictError("email is already registered")
		}
		return nil, fmt.Errorf("failed to register: %w", err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("customer registered")

	return &model.LoginResponse{Token: token, User: *user}, nil
}

// Login authenticates by email and password and returns a signed token.
func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, model.NewValidationError("email and password are required")
	}

	user, err := s.customerRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to login: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil, model.NewDomainError(model.ErrCodeAuthorization, "invalid credentials", 401)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		s.logger.Warn().Str("user_id", user.ID.String()).Msg("failed login attempt")
		return nil, model.NewDomainError(model.ErrCodeAuthorization, "invalid credentials", 401)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{Token: token, User: *user}, nil
}

// RequestPasswordReset emails a short-lived reset token. The response is
// identical whether or not the email exists, and the send itself is
// best-effort in the background.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return model.NewValidationError("email is required")
	}

	user, err := s.customerRepo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to request password reset: %w", err)
	}
	if user == nil {
		s.logger.Debug().Msg("password reset requested for unknown email")
		return nil
	}

	token, err := s.issueResetToken(user)
	if err != nil {
		return err
	}

	logger := s.logger.With().Str("user_id", user.ID.String()).Logger()
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), emailTimeout)
		defer cancel()

		if err := s.mailer.SendPasswordReset(sendCtx, user.Email, user.Name, token); err != nil {
			logger.Warn().Err(err).Msg("failed to send password reset email")
		}
	}()

	return nil
}

// ResetPassword verifies the reset token and replaces the password.
func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 6 {
		return model.NewValidationError("password must be at least 6 characters")
	}

	userID, err := s.parseResetToken(token)
	if err != nil {
		return model.NewValidationError("invalid or expired reset token")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.customerRepo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	s.logger.Info().Str("user_id", userID.String()).Msg("password reset completed")

	return nil
}

// issueToken signs an HS256 access token carrying the user id and role.
func (s *authService) issueToken(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"role":  string(user.Role),
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Duration(s.jwtConfig.ExpiryHours) * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// issueResetToken signs a single-purpose short-lived token for the password
// reset flow.
func (s *authService) issueResetToken(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":     user.ID.String(),
		"purpose": "password_reset",
		"iat":     now.Unix(),
		"exp":     now.Add(resetTokenExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign reset token: %w", err)
	}

	return signed, nil
}

// parseResetToken validates a reset token and extracts the user id.
func (s *authService) parseResetToken(tokenStr string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.jwtConfig.Secret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, fmt.Errorf("invalid reset token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, fmt.Errorf("invalid reset token claims")
	}
	if purpose, _ := claims["purpose"].(string); purpose != "password_reset" {
		return uuid.Nil, fmt.Errorf("token is not a reset token")
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid subject in reset token: %w", err)
	}

	return userID, nil
}
