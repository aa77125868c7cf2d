package user

import "context"

// UserUsecase defines the read operations exposed to transports.
type UserUsecase interface {
	GetUser(ctx context.Context, in GetUserRequest) (*GetUserResponse, error)
	ListUsers(ctx context.Context) (*ListUsersResponse, error)
}
