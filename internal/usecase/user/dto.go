package user

// GetUserRequest represents the request payload for retrieving a user.
type GetUserRequest struct {
	ID int64
}

// GetUserResponse represents the response payload for user details.
type GetUserResponse struct {
	User
}

// ListUsersResponse holds every user currently stored, in storage order.
type ListUsersResponse struct {
	Users []User
}

// User represents a user DTO (Data Transfer Object) for API responses.
type User struct {
	ID    int64
	Name  string
	Email string
}
