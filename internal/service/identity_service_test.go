package service

import (
	"context"
	"errors"
	"testing"

	"shopstack/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestIdentityService_ResolveCustomer_ExplicitID(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	id := uuid.New()
	mockRepo := new(MockCustomerRepository)
	svc := NewIdentityService(mockRepo, logger)

	resolved, err := svc.ResolveCustomer(ctx, &model.CustomerInput{ID: &id})

	require.NoError(t, err)
	assert.Equal(t, id, resolved)
	mockRepo.AssertNotCalled(t, "GetByEmail")
	mockRepo.AssertNotCalled(t, "Create")
}

func TestIdentityService_ResolveCustomer_EmptyInput(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	svc := NewIdentityService(new(MockCustomerRepository), logger)

	_, err := svc.ResolveCustomer(ctx, &model.CustomerInput{})

	require.Error(t, err)
	de, ok := model.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, model.ErrCodeValidation, de.Code)
}

func TestIdentityService_ResolveCustomer_ExistingGuestEmail(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	existing := &model.User{ID: uuid.New(), Name: "Jane Doe", Email: "jane@example.com"}

	mockRepo := new(MockCustomerRepository)
	svc := NewIdentityService(mockRepo, logger)

	// Email matching is case-insensitive via normalization.
	mockRepo.On("GetByEmail", ctx, "jane@example.com").Return(existing, nil)

	resolved, err := svc.ResolveCustomer(ctx, &model.CustomerInput{
		Guest: &model.GuestInfo{Name: "Jane Doe", Email: "  Jane@Example.COM "},
	})

	require.NoError(t, err)
	assert.Equal(t, existing.ID, resolved)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestIdentityService_ResolveCustomer_CreatesGuest(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	mockRepo := new(MockCustomerRepository)
	svc := NewIdentityService(mockRepo, logger)

	mockRepo.On("GetByEmail", ctx, "jane@example.com").Return(nil, nil)

	var created *model.User
	mockRepo.On("Create", ctx, mock.AnythingOfType("*model.User")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*model.User) }).
		Return(nil)

	resolved, err := svc.ResolveCustomer(ctx, &model.CustomerInput{
		Guest: &model.GuestInfo{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Phone: "555-0100"},
	})

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, created.ID, resolved)
	assert.Equal(t, "Jane Doe", created.Name, "first/last pair should join into a display name")
	assert.Equal(t, "jane@example.com", created.Email)
	assert.Equal(t, model.RoleCustomer, created.Role)
	assert.True(t, created.IsActive)
	assert.NotEmpty(t, created.PasswordHash, "guest accounts carry an unguessable password hash")

	mockRepo.AssertExpectations(t)
}

func TestIdentityService_ResolveCustomer_MissingGuestFields(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	tests := []struct {
		name  string
		guest *model.GuestInfo
	}{
		{"missing email", &model.GuestInfo{Name: "Jane Doe"}},
		{"missing name", &model.GuestInfo{Email: "jane@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockCustomerRepository)
			svc := NewIdentityService(mockRepo, logger)

			_, err := svc.ResolveCustomer(ctx, &model.CustomerInput{Guest: tt.guest})

			require.Error(t, err)
			de, ok := model.AsDomainError(err)
			require.True(t, ok)
			assert.Equal(t, model.ErrCodeValidation, de.Code)
			mockRepo.AssertNotCalled(t, "Create")
		})
	}
}

func TestIdentityService_ResolveCustomer_DuplicateRaceRetries(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	winner := &model.User{ID: uuid.New(), Name: "Jane Doe", Email: "jane@example.com"}
	uniqueErr := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}

	mockRepo := new(MockCustomerRepository)
	svc := NewIdentityService(mockRepo, logger)

	// First lookup misses, the insert loses the race, the retry lookup wins.
	mockRepo.On("GetByEmail", ctx, "jane@example.com").Return(nil, nil).Once()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*model.User")).Return(uniqueErr)
	mockRepo.On("GetByEmail", ctx, "jane@example.com").Return(winner, nil).Once()

	resolved, err := svc.ResolveCustomer(ctx, &model.CustomerInput{
		Guest: &model.GuestInfo{Name: "Jane Doe", Email: "jane@example.com"},
	})

	require.NoError(t, err)
	assert.Equal(t, winner.ID, resolved)
	mockRepo.AssertExpectations(t)
}

func TestIdentityService_ResolveCustomer_CreateError(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	mockRepo := new(MockCustomerRepository)
	svc := NewIdentityService(mockRepo, logger)

	mockRepo.On("GetByEmail", ctx, "jane@example.com").Return(nil, nil)
	mockRepo.On("Create", ctx, mock.AnythingOfType("*model.User")).Return(errors.New("database error"))

	_, err := svc.ResolveCustomer(ctx, &model.CustomerInput{
		Guest: &model.GuestInfo{Name: "Jane Doe", Email: "jane@example.com"},
	})

	require.Error(t, err)
	assert.NotContains(t, err.Error(), "23505")
}
