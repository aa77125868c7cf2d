package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "user-directory-api/internal/domain/user"
	pkgerrors "user-directory-api/pkg/errors"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func setupTestUsecase(t *testing.T) (*Usecase, *MockRepository) {
	mockRepo := new(MockRepository)
	uc := New(mockRepo, zaptest.NewLogger(t))
	return uc, mockRepo
}

// ==================== GET USER TESTS ====================

func TestGetUser_Success(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, int64(1)).
		Return(&domain.User{ID: 1, Name: "Alice", Email: "a@x.io"}, nil)

	resp, err := uc.GetUser(ctx, GetUserRequest{ID: 1})

	require.NoError(t, err)
	assert.Equal(t, User{ID: 1, Name: "Alice", Email: "a@x.io"}, resp.User)
	mockRepo.AssertExpectations(t)
}

func TestGetUser_NotFound(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, int64(99)).Return(nil, domain.ErrUserNotFound)

	resp, err := uc.GetUser(ctx, GetUserRequest{ID: 99})

	assert.Nil(t, resp)
	assert.Equal(t, pkgerrors.KindNotFound, pkgerrors.KindOf(err))
	assert.Equal(t, "User not found", err.Error())
	mockRepo.AssertExpectations(t)
}

func TestGetUser_NilWithoutError(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, int64(5)).Return(nil, nil)

	resp, err := uc.GetUser(ctx, GetUserRequest{ID: 5})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestGetUser_NonPositiveIDStillQueried(t *testing.T) {
	for _, id := range []int64{0, -1} {
		uc, mockRepo := setupTestUsecase(t)
		ctx := context.Background()

		mockRepo.On("GetByID", ctx, id).Return(nil, domain.ErrUserNotFound)

		_, err := uc.GetUser(ctx, GetUserRequest{ID: id})

		assert.Equal(t, pkgerrors.KindNotFound, pkgerrors.KindOf(err))
		mockRepo.AssertCalled(t, "GetByID", ctx, id)
	}
}

func TestGetUser_InternalErrorPassesThrough(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	dbErr := pkgerrors.NewInternalError("Database connection error", errors.New("dial tcp: connection refused"))
	mockRepo.On("GetByID", ctx, int64(1)).Return(nil, dbErr)

	_, err := uc.GetUser(ctx, GetUserRequest{ID: 1})

	assert.Same(t, dbErr, err)
}

func TestGetUser_UnclassifiedErrorIsWrapped(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	raw := errors.New("boom")
	mockRepo.On("GetByID", ctx, int64(1)).Return(nil, raw)

	_, err := uc.GetUser(ctx, GetUserRequest{ID: 1})

	var internal *pkgerrors.InternalError
	require.ErrorAs(t, err, &internal)
	assert.ErrorIs(t, err, raw)
	assert.Equal(t, "failed to get user: boom", err.Error())
}

// ==================== LIST USERS TESTS ====================

func TestListUsers_Success(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("List", ctx).Return([]domain.User{
		{ID: 2, Name: "Bob", Email: "b@x.io"},
		{ID: 1, Name: "Alice", Email: "a@x.io"},
	}, nil)

	resp, err := uc.ListUsers(ctx)

	require.NoError(t, err)
	assert.Equal(t, []User{
		{ID: 2, Name: "Bob", Email: "b@x.io"},
		{ID: 1, Name: "Alice", Email: "a@x.io"},
	}, resp.Users)
	mockRepo.AssertExpectations(t)
}

func TestListUsers_EmptyIsNonNil(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("List", ctx).Return(nil, nil)

	resp, err := uc.ListUsers(ctx)

	require.NoError(t, err)
	assert.NotNil(t, resp.Users)
	assert.Empty(t, resp.Users)
}

func TestListUsers_RepositoryError(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("List", ctx).Return(nil, pkgerrors.NewInternalError("Database query error", errors.New("relation \"users\" does not exist")))

	resp, err := uc.ListUsers(ctx)

	assert.Nil(t, resp)
	assert.Equal(t, pkgerrors.KindInternal, pkgerrors.KindOf(err))
	assert.Contains(t, err.Error(), "Database query error")
}

func TestUsecase_EachCallReadsStorage(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("List", ctx).Return([]domain.User{}, nil).Once()
	mockRepo.On("List", ctx).Return([]domain.User{{ID: 1, Name: "Alice", Email: "a@x.io"}}, nil).Once()

	first, err := uc.ListUsers(ctx)
	require.NoError(t, err)
	second, err := uc.ListUsers(ctx)
	require.NoError(t, err)

	assert.Empty(t, first.Users)
	assert.Len(t, second.Users, 1)
	mockRepo.AssertNumberOfCalls(t, "List", 2)
}
