package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-directory-api/internal/usecase/user"
	pkgerrors "user-directory-api/pkg/errors"
	"user-directory-api/pkg/logger"
	"user-directory-api/pkg/security"
)

const invalidUserIDDetail = "user_id must be a valid integer"

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	uc       user.UserUsecase
	log      *zap.Logger
	redactor *security.Redactor
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.UserUsecase, log *zap.Logger, redactor *security.Redactor) *UserHandler {
	return &UserHandler{
		uc:       uc,
		log:      log,
		redactor: redactor,
	}
}

// UserResponse represents the HTTP response for user data
type UserResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// GetUser handles GET /api/users/:user_id
func (h *UserHandler) GetUser(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.log)

	idStr := c.Param("user_id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		log.Warn("invalid user id", zap.String("user_id", idStr), zap.Error(err))
		h.handleError(c, pkgerrors.NewValidationError("", invalidUserIDDetail))
		return
	}

	resp, err := h.uc.GetUser(c.Request.Context(), user.GetUserRequest{ID: id})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(resp.User))
}

// ListUsers handles GET /api/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	resp, err := h.uc.ListUsers(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	users := make([]UserResponse, len(resp.Users))
	for i, u := range resp.Users {
		users[i] = toResponse(u)
	}

	c.JSON(http.StatusOK, users)
}

func toResponse(u user.User) UserResponse {
	return UserResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}

// handleError maps an error kind to its status code and writes the detail body.
func (h *UserHandler) handleError(c *gin.Context, err error) {
	status := pkgerrors.HTTPStatus(err)

	detail := err.Error()
	if pkgerrors.KindOf(err) == pkgerrors.KindInternal {
		logger.WithContext(c.Request.Context(), h.log).Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("error", h.redactor.Redact(err.Error())),
		)
		detail = h.redactor.Detail(err)
	}

	c.JSON(status, ErrorResponse{Detail: detail})
}
