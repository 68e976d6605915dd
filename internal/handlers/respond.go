package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshua-takyi/tripdesk/internal/helpers"
	"github.com/joshua-takyi/tripdesk/internal/middleware"
	"github.com/joshua-takyi/tripdesk/internal/models"
)

// statusFor maps service errors to HTTP statuses. Anything unrecognised is a
// store failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrMissingField), errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrStoreNotConfigured):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// respondError relays err's text; server errors are also attached to the
// context so ErrorHandler logs them.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, models.NewErrorResponse(err))
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := helpers.ParseID(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid id"})
		return 0, false
	}
	return id, true
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return uuid.Nil, false
	}
	id, err := uuid.Parse(user.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid user id in token"})
		return uuid.Nil, false
	}
	return id, true
}
