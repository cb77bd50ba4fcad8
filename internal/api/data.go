package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) getProcessedData(c *gin.Context) {
	snapshot := s.risk.Snapshot(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"message": "Successfully fetched hardcoded data",
		"data":    snapshot,
	})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
