package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/tripdesk/internal/models"
	"github.com/joshua-takyi/tripdesk/internal/services"
)

// SaveUserTrip registers someone for a trip. A repeat registration for the
// same trip and email is reported with 200 and leaves the first row alone.
func SaveUserTrip(e *services.EnrollmentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.Enrollment
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		_, err := e.SaveUserTrip(c.Request.Context(), req)
		switch {
		case errors.Is(err, models.ErrAlreadyRegistered):
			c.JSON(http.StatusOK, models.MessageResponse{Message: "User already registered for this trip"})
		case err != nil:
			respondError(c, err)
		default:
			c.JSON(http.StatusOK, models.MessageResponse{Message: "Trip saved successfully"})
		}
	}
}

func GetUserTrips(e *services.EnrollmentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		trips, err := e.TripsWithUsers(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"trips": trips})
	}
}

func UpdateUser(e *services.EnrollmentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.Enrollment
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if _, err := e.UpdateUser(c.Request.Context(), req); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.MessageResponse{Message: "User updated successfully"})
	}
}

func DeleteUser(e *services.EnrollmentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ID int64 `json:"id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := e.DeleteUser(c.Request.Context(), req.ID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.MessageResponse{Message: "User deleted successfully"})
	}
}
