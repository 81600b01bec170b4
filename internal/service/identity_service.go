package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"shopstack/internal/model"
	"shopstack/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// identityService implements IdentityService.
type identityService struct {
	customerRepo repository.CustomerRepository
	logger       zerolog.Logger
}

// NewIdentityService creates a new identity service.
func NewIdentityService(customerRepo repository.CustomerRepository, logger zerolog.Logger) IdentityService {
	return &identityService{
		customerRepo: customerRepo,
		logger:       logger.With().Str("service", "identity").Logger(),
	}
}

// ResolveCustomer resolves checkout customer input to a persisted customer id.
// An explicit id is returned unchanged; guest info is matched by normalized
// email, creating a customer with a random hashed password when absent.
func (s *identityService) ResolveCustomer(ctx context.Context, input *model.CustomerInput) (uuid.UUID, error) {
	if input.Empty() {
		return uuid.Nil, model.NewValidationError("customer information is required")
	}

	if input.ID != nil {
		return *input.ID, nil
	}

	guest := input.Guest
	email := strings.ToLower(strings.TrimSpace(guest.Email))
	name := guestName(guest)

	if email == "" {
		return uuid.Nil, model.NewValidationError("customer email is required")
	}
	if name == "" {
		return uuid.Nil, model.NewValidationError("customer name is required")
	}

	existing, err := s.customerRepo.GetByEmail(ctx, email)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to resolve customer: %w", err)
	}
	if existing != nil {
		s.logger.Debug().Str("customer_id", existing.ID.String()).Msg("resolved existing customer")
		return existing.ID, nil
	}

	// The account is recoverable only through the password reset flow; the
	// plaintext is discarded immediately and never logged.
	passwordHash, err := randomPasswordHash()
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to resolve customer: %w", err)
	}

	now := time.Now()
	customer := &model.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Phone:        strings.TrimSpace(guest.Phone),
		Role:         model.RoleCustomer,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		// Two concurrent checkouts for the same guest email race on
		// find-or-create; the unique index on email is the backstop. The
		// loser retries as a lookup.
		if repository.IsUniqueViolation(err) {
			winner, lookupErr := s.customerRepo.GetByEmail(ctx, email)
			if lookupErr != nil {
				return uuid.Nil, fmt.Errorf("failed to resolve customer: %w", lookupErr)
			}
			if winner != nil {
				s.logger.Debug().
					Str("customer_id", winner.ID.String()).
					Msg("lost find-or-create race, resolved to existing customer")
				return winner.ID, nil
			}
		}
		return uuid.Nil, fmt.Errorf("failed to create customer: %w", err)
	}

	s.logger.Info().
		Str("customer_id", customer.ID.String()).
		Msg("created customer from guest checkout")

	return customer.ID, nil
}

// guestName derives a display name from either the single name field or the
// first/last pair.
func guestName(guest *model.GuestInfo) string {
	if name := strings.TrimSpace(guest.Name); name != "" {
		return name
	}
	return strings.TrimSpace(strings.TrimSpace(guest.FirstName) + " " + strings.TrimSpace(guest.LastName))
}

// randomPasswordHash generates a cryptographically random password and
// returns its bcrypt hash.
func randomPasswordHash() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate password: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(buf)), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}
