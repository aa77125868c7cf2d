package user

import pkgerrors "user-directory-api/pkg/errors"

// ErrUserNotFound is returned when no row matches the requested id.
var ErrUserNotFound = pkgerrors.NewNotFoundError("user", "User not found")
