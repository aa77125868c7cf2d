package user

import (
	"context"
	"errors"

	"go.uber.org/zap"

	domain "user-directory-api/internal/domain/user"
	pkgerrors "user-directory-api/pkg/errors"
	"user-directory-api/pkg/logger"
)

// Repository defines the read access the usecase needs from storage.
// Implementations acquire and release their own connection per call.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error) // Retrieve user by ID
	List(ctx context.Context) ([]domain.User, error)             // List every user
}

var _ UserUsecase = (*Usecase)(nil)

// Usecase implements the read operations on users.
// It holds no state between calls; every call reads storage.
type Usecase struct {
	repo Repository  // Repository for data access
	log  *zap.Logger // Logger for structured logging
}

// New creates a new instance of Usecase with the provided repository and logger.
func New(r Repository, log *zap.Logger) *Usecase {
	return &Usecase{repo: r, log: log}
}

// GetUser retrieves a single user by ID.
func (uc *Usecase) GetUser(ctx context.Context, in GetUserRequest) (*GetUserResponse, error) {
	log := logger.WithContext(ctx, uc.log)

	u, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		if pkgerrors.KindOf(err) == pkgerrors.KindNotFound {
			log.Info("user not found", zap.Int64("id", in.ID))
			return nil, err
		}
		log.Error("failed to get user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, asInternal("failed to get user", err)
	}
	if u == nil {
		log.Info("user not found", zap.Int64("id", in.ID))
		return nil, domain.ErrUserNotFound
	}

	return &GetUserResponse{User: toDTO(*u)}, nil
}

// ListUsers retrieves every user in the order storage returns them.
func (uc *Usecase) ListUsers(ctx context.Context) (*ListUsersResponse, error) {
	log := logger.WithContext(ctx, uc.log)

	domainUsers, err := uc.repo.List(ctx)
	if err != nil {
		log.Error("failed to list users", zap.Error(err))
		return nil, asInternal("failed to list users", err)
	}

	users := make([]User, len(domainUsers))
	for i, du := range domainUsers {
		users[i] = toDTO(du)
	}

	log.Debug("listed users", zap.Int("count", len(users)))
	return &ListUsersResponse{Users: users}, nil
}

func toDTO(u domain.User) User {
	return User{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}

// asInternal keeps taxonomy errors intact and wraps anything else as internal.
func asInternal(message string, err error) error {
	var internal *pkgerrors.InternalError
	if errors.As(err, &internal) {
		return err
	}
	return pkgerrors.NewInternalError(message, err)
}
