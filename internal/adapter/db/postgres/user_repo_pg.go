package postgres

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-directory-api/internal/domain/user"
	pkgerrors "user-directory-api/pkg/errors"
)

const (
	msgConnectionError = "Database connection error"
	msgQueryError      = "Database query error"
)

// UserRepoPG implements the Repository interface using PostgreSQL and GORM.
// Every call checks out its own connection and returns it before the call
// completes, so no session is shared across requests.
type UserRepoPG struct {
	db  *gorm.DB    // GORM database handle
	log *zap.Logger // Structured logger for database operations
}

// NewUserRepoPG creates a new instance of UserRepoPG.
func NewUserRepoPG(db *gorm.DB, log *zap.Logger) *UserRepoPG {
	return &UserRepoPG{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID    int64  `gorm:"primaryKey;autoIncrement"`
	Name  string `gorm:"not null"`
	Email string `gorm:"not null;unique"`
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

// List returns every row of the users table in storage order.
func (r *UserRepoPG) List(ctx context.Context) ([]user.User, error) {
	var models []UserSchema

	err := r.withConn(ctx, func(tx *gorm.DB) error {
		return tx.Select("id", "name", "email").Find(&models).Error
	})
	if err != nil {
		r.log.Error("failed to list users from db", zap.Error(err))
		return nil, err
	}

	users := make([]user.User, len(models))
	for i, model := range models {
		users[i] = toDomain(model)
	}

	return users, nil
}

// GetByID returns the user whose id matches exactly.
func (r *UserRepoPG) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var model UserSchema

	err := r.withConn(ctx, func(tx *gorm.DB) error {
		return tx.Select("id", "name", "email").Where("id = ?", id).Take(&model).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found", zap.Int64("id", id))
			return nil, user.ErrUserNotFound
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.Int64("id", id))
		return nil, err
	}

	u := toDomain(model)
	return &u, nil
}

// withConn runs fn on a dedicated connection that is released on every path.
// A failure to obtain the connection and a failure of fn are reported as
// distinct internal errors; gorm.ErrRecordNotFound is returned unchanged.
func (r *UserRepoPG) withConn(ctx context.Context, fn func(tx *gorm.DB) error) error {
	var queryErr error
	ran := false

	err := r.db.WithContext(ctx).Connection(func(tx *gorm.DB) error {
		ran = true
		queryErr = fn(tx)
		return queryErr
	})
	if err == nil {
		return nil
	}
	if !ran {
		return pkgerrors.NewInternalError(msgConnectionError, err)
	}
	if errors.Is(queryErr, gorm.ErrRecordNotFound) {
		return queryErr
	}
	return pkgerrors.NewInternalError(msgQueryError, queryErr)
}

func toDomain(m UserSchema) user.User {
	return user.User{
		ID:    m.ID,
		Name:  m.Name,
		Email: m.Email,
	}
}
