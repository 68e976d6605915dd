package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/tripdesk/internal/middleware"
	"github.com/joshua-takyi/tripdesk/internal/models"
	"github.com/joshua-takyi/tripdesk/internal/services"
)

func ListReviews(r *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviews, err := r.ListReviews(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, reviews)
	}
}

// SaveReview stores the caller's review, replacing any earlier one. The
// author fields come from the session, not the body.
func SaveReview(r *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		user, _ := middleware.CurrentUser(c)

		var req struct {
			Rating int    `json:"rating" binding:"required"`
			Review string `json:"review"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		review := models.Review{
			UserID:  userID,
			Rating:  req.Rating,
			Review:  req.Review,
			Name:    user.Fullname,
			Email:   user.Email,
			Picture: user.AvatarURL,
		}
		saved, created, err := r.SaveReview(c.Request.Context(), review)
		if err != nil {
			respondError(c, err)
			return
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		c.JSON(status, saved)
	}
}
