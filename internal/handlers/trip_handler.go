package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshua-takyi/tripdesk/internal/helpers"
	"github.com/joshua-takyi/tripdesk/internal/middleware"
	"github.com/joshua-takyi/tripdesk/internal/models"
	"github.com/joshua-takyi/tripdesk/internal/services"
)

const maxImageSize = 10 << 20

func ListTrips(t *services.TripService) gin.HandlerFunc {
	return func(c *gin.Context) {
		trips, err := t.ListTrips(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, trips)
	}
}

// GetTrip answers 500 for an unknown id: the store reports the missing row
// as a query error.
func GetTrip(t *services.TripService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		trip, err := t.GetTrip(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, trip)
	}
}

func CreateTrip(t *services.TripService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in models.TripInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		rows, err := t.InsertTrip(c.Request.Context(), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, rows)
	}
}

func UpdateTrip(t *services.TripService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		var patch models.TripPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		rows, err := t.PatchTrip(c.Request.Context(), id, patch)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func DeleteTrip(t *services.TripService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		if err := t.DeleteTrip(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.MessageResponse{Message: "Trip deleted successfully"})
	}
}

func UploadTripImage(t *services.TripService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		fh, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
			return
		}
		if fh.Size > maxImageSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image exceeds 10MB"})
			return
		}

		f, err := fh.Open()
		if err != nil {
			respondError(c, err)
			return
		}
		defer f.Close()

		url, err := t.UploadTripImage(c.Request.Context(), id, fh.Filename, fh.Header.Get("Content-Type"), f)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"url": url})
	}
}

func ListTripImages(t *services.TripService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		urls, err := t.ListTripImages(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"images": urls})
	}
}

func DeleteTripImages(t *services.TripService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		if err := t.DeleteTripImages(c.Request.Context(), models.Trip{ID: id}.Key()); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.MessageResponse{Message: "Trip images deleted successfully"})
	}
}

// RecordTripView counts a page view once per session per hour. Anonymous
// visitors get a session cookie.
func RecordTripView(t *services.TripService, secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}

		sessionID, err := c.Cookie(helpers.SessionIDCookie)
		if err != nil || sessionID == "" {
			sessionID = uuid.NewString()
			c.SetCookie(helpers.SessionIDCookie, sessionID, 3600*24*30, "/", "", secureCookies, true)
		}

		view := &models.TripView{
			TripID:    id,
			SessionID: sessionID,
			IPAddress: c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}
		if user, ok := middleware.CurrentUser(c); ok && user.UserID != "" {
			userID := user.UserID
			view.UserID = &userID
		}

		if err := t.RecordView(c.Request.Context(), view); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func TripViewStats(t *services.TripService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		stats, err := t.ViewStats(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}
