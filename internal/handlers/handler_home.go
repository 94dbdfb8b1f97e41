package handlers

import (
	"github.com/SscSPs/pettycash_backend/pkg/response"
	"github.com/gin-gonic/gin"
)

// getHealth godoc
// @Summary Show the status of server.
// @Tags root
// @Produce json
// @Success 200 {object} response.Body
// @Router /health [get]
func getHealth(c *gin.Context) {
	response.OK(c, gin.H{"status": "ok"})
}
