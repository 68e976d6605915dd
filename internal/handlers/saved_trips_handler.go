package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/tripdesk/internal/models"
	"github.com/joshua-takyi/tripdesk/internal/services"
)

func SaveTripForUser(s *services.SavedTripsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		tripID, ok := pathID(c)
		if !ok {
			return
		}

		res, err := s.SaveTrip(c.Request.Context(), userID, tripID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

func UnsaveTripForUser(s *services.SavedTripsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		tripID, ok := pathID(c)
		if !ok {
			return
		}

		if err := s.UnsaveTrip(c.Request.Context(), userID, tripID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.MessageResponse{Message: "Trip removed from saved trips"})
	}
}

func ListSavedTrips(s *services.SavedTripsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		res, err := s.GetSavedTrips(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}
