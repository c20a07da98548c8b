package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/config"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/dto"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/model"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildAuthSvc() (service.AuthService, *stubUserRepo) {
	users := &stubUserRepo{users: map[uuid.UUID]*model.User{}}
	cfg := &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 1,
		JWTRefreshHours:    24,
	}
	return service.NewAuthService(users, cfg), users
}

func TestLogin_Success(t *testing.T) {
	svc, _ := buildAuthSvc()
	_, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "operator1",
		Name:     "Operator One",
		Password: "supersecret",
		Role:     "operator",
	})
	require.NoError(t, err)

	tokens, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "operator1",
		Password: "supersecret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, 3600, tokens.ExpiresIn)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := buildAuthSvc()
	_, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "operator1",
		Name:     "Operator One",
		Password: "supersecret",
		Role:     "operator",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{
		Username: "operator1",
		Password: "wrong",
	})
	assert.True(t, errors.Is(err, service.ErrInvalidCredentials))

	_, err = svc.Login(context.Background(), dto.LoginRequest{
		Username: "nobody",
		Password: "supersecret",
	})
	assert.True(t, errors.Is(err, service.ErrInvalidCredentials))
}

func TestLogin_DeactivatedUser(t *testing.T) {
	svc, _ := buildAuthSvc()
	created, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "operator1",
		Name:     "Operator One",
		Password: "supersecret",
		Role:     "operator",
	})
	require.NoError(t, err)

	id, _ := uuid.Parse(created.ID)
	require.NoError(t, svc.DeactivateUser(context.Background(), id))

	_, err = svc.Login(context.Background(), dto.LoginRequest{
		Username: "operator1",
		Password: "supersecret",
	})
	assert.True(t, errors.Is(err, service.ErrInvalidCredentials))
}

func TestRefresh_RoundTrip(t *testing.T) {
	svc, _ := buildAuthSvc()
	_, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "supervisor1",
		Name:     "Supervisor",
		Password: "supersecret",
		Role:     "supervisor",
	})
	require.NoError(t, err)

	tokens, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "supervisor1",
		Password: "supersecret",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.Refresh(context.Background(), "not-a-token")
	assert.True(t, errors.Is(err, service.ErrInvalidCredentials))
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	svc, _ := buildAuthSvc()
	req := dto.CreateUserRequest{
		Username: "admin1",
		Name:     "Admin",
		Password: "supersecret",
		Role:     "admin",
	}
	_, err := svc.CreateUser(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.CreateUser(context.Background(), req)
	var cErr *service.ConflictError
	require.True(t, errors.As(err, &cErr))
}
