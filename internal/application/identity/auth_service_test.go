package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kartikpareekak-cloud/shopbackend/internal/domain/identity"
	"github.com/kartikpareekak-cloud/shopbackend/internal/domain/shared"
	"github.com/kartikpareekak-cloud/shopbackend/internal/infrastructure/auth"
	"github.com/kartikpareekak-cloud/shopbackend/internal/infrastructure/config"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func newAuthFixture() (*AuthService, *MockUserRepository, *auth.JWTService) {
	users := new(MockUserRepository)
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:          "test-secret-at-least-32-characters!!",
		TokenExpiration: time.Hour,
		Issuer:          "shop-backend-test",
	})
	service := NewAuthService(users, jwtService, auth.NewInMemoryTokenBlacklist(), nil)
	return service, users, jwtService
}

func TestRegister(t *testing.T) {
	service, users, jwtService := newAuthFixture()

	users.On("FindByEmail", mock.Anything, "asha@example.com").Return(nil, shared.ErrNotFound)
	users.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

	response, err := service.Register(context.Background(), RegisterRequest{
		Name:     "Asha Verma",
		Email:    "Asha@Example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", response.User.Email)
	assert.Equal(t, "customer", response.User.Role)
	require.NotEmpty(t, response.Token)

	claims, err := jwtService.Validate(response.Token)
	require.NoError(t, err)
	assert.Equal(t, "customer", claims.Role)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	service, users, _ := newAuthFixture()

	existing, err := identity.NewUser("Asha Verma", "asha@example.com", "hunter22")
	require.NoError(t, err)
	users.On("FindByEmail", mock.Anything, "asha@example.com").Return(existing, nil)

	_, err = service.Register(context.Background(), RegisterRequest{
		Name:     "Imposter",
		Email:    "asha@example.com",
		Password: "password",
	})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "EMAIL_TAKEN", domainErr.Code)
	users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestLogin(t *testing.T) {
	service, users, _ := newAuthFixture()

	user, err := identity.NewUser("Asha Verma", "asha@example.com", "hunter22")
	require.NoError(t, err)
	users.On("FindByEmail", mock.Anything, "asha@example.com").Return(user, nil)

	response, err := service.Login(context.Background(), LoginRequest{
		Email:    "asha@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, response.User.ID)
	assert.NotEmpty(t, response.Token)
}

func TestLogin_BadCredentialsAreIndistinguishable(t *testing.T) {
	service, users, _ := newAuthFixture()

	user, err := identity.NewUser("Asha Verma", "asha@example.com", "hunter22")
	require.NoError(t, err)
	users.On("FindByEmail", mock.Anything, "asha@example.com").Return(user, nil)
	users.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, shared.ErrNotFound)

	_, wrongPassword := service.Login(context.Background(), LoginRequest{
		Email:    "asha@example.com",
		Password: "wrong",
	})
	_, unknownEmail := service.Login(context.Background(), LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
	})

	var first, second *shared.DomainError
	require.ErrorAs(t, wrongPassword, &first)
	require.ErrorAs(t, unknownEmail, &second)
	assert.Equal(t, first.Code, second.Code)
	assert.Equal(t, first.Message, second.Message)
}

func TestLogout_RevokesToken(t *testing.T) {
	users := new(MockUserRepository)
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:          "test-secret-at-least-32-characters!!",
		TokenExpiration: time.Hour,
		Issuer:          "shop-backend-test",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	service := NewAuthService(users, jwtService, blacklist, nil)

	token, err := jwtService.Generate(uuid.New(), "asha@example.com", "customer")
	require.NoError(t, err)
	claims, err := jwtService.Validate(token.Value)
	require.NoError(t, err)

	require.NoError(t, service.Logout(context.Background(), claims))

	revoked, err := blacklist.IsRevoked(context.Background(), claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestSeedAdmin(t *testing.T) {
	service, users, _ := newAuthFixture()

	users.On("FindByEmail", mock.Anything, "admin@example.com").Return(nil, shared.ErrNotFound)
	users.On("Save", mock.Anything, mock.MatchedBy(func(u *identity.User) bool {
		return u.IsAdmin() && u.Email == "admin@example.com"
	})).Return(nil)

	err := service.SeedAdmin(context.Background(), "Admin", "admin@example.com", "changeme1")
	require.NoError(t, err)
	users.AssertExpectations(t)
}

func TestSeedAdmin_SkipsWhenExists(t *testing.T) {
	service, users, _ := newAuthFixture()

	existing, err := identity.NewAdmin("Admin", "admin@example.com", "changeme1")
	require.NoError(t, err)
	users.On("FindByEmail", mock.Anything, "admin@example.com").Return(existing, nil)

	require.NoError(t, service.SeedAdmin(context.Background(), "Admin", "admin@example.com", "changeme1"))
	users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSeedAdmin_DisabledWithoutConfig(t *testing.T) {
	service, users, _ := newAuthFixture()

	require.NoError(t, service.SeedAdmin(context.Background(), "Admin", "", ""))
	users.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}
