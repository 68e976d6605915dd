package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/tripdesk/internal/services"
)

func DashboardStats(s *services.StatsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := s.Overview(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

func Health(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "OK",
			"service": service,
		})
	}
}
