package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tilworks/glossary/internal/data"
	"github.com/tilworks/glossary/internal/domain/model"
	apperrors "github.com/tilworks/glossary/internal/errors"
	"github.com/tilworks/glossary/internal/mocks"
	"github.com/tilworks/glossary/internal/ports"
)

func newUserService(t *testing.T) (*mocks.MockUserRepository, *mocks.MockCredentialVerifier, *UserService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	users := mocks.NewMockUserRepository(ctrl)
	verifier := mocks.NewMockCredentialVerifier(ctrl)
	return users, verifier, NewUserService(users, verifier)
}

func TestUserService_Register_HashesPassword(t *testing.T) {
	t.Parallel()
	users, verifier, svc := newUserService(t)
	ctx := context.Background()

	verifier.EXPECT().Hash("longenough").Return("$2a$10$hashed", nil)
	users.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, params ports.CreateUserParams) (*model.User, error) {
			assert.Equal(t, "$2a$10$hashed", params.PasswordHash)
			return &model.User{ID: "user-1", Name: params.Name, Username: params.Username}, nil
		})

	user, err := svc.Register(ctx, model.CreateUserRequest{
		Name:     "Tim",
		Username: "tim",
		Password: "longenough",
	})
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
}

func TestUserService_Register_ValidationRejectsBeforeHashing(t *testing.T) {
	t.Parallel()
	_, _, svc := newUserService(t)

	_, err := svc.Register(context.Background(), model.CreateUserRequest{
		Name:     "Tim",
		Username: "tim",
		Password: "short",
	})
	assert.True(t, apperrors.IsValidation(err))
}

func TestUserService_Register_TakenUsernameConflicts(t *testing.T) {
	t.Parallel()
	users, verifier, svc := newUserService(t)
	ctx := context.Background()

	verifier.EXPECT().Hash(gomock.Any()).Return("$2a$10$hashed", nil)
	users.EXPECT().Create(ctx, gomock.Any()).Return(nil, data.ErrUsernameExists)

	_, err := svc.Register(ctx, model.CreateUserRequest{
		Name:     "Tim",
		Username: "tim",
		Password: "longenough",
	})
	assert.True(t, apperrors.IsConflict(err))
}

func TestUserService_Get_NotFound(t *testing.T) {
	t.Parallel()
	users, _, svc := newUserService(t)
	ctx := context.Background()

	users.EXPECT().GetByID(ctx, "missing").Return(nil, data.ErrUserNotFound)

	_, err := svc.Get(ctx, "missing")
	assert.True(t, apperrors.IsNotFound(err))
}
