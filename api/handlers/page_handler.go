package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PageHandler renders the submission page
type PageHandler struct{}

// NewPageHandler creates a new page handler
func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// Index handles GET /
func (h *PageHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Notifications": takeNotifications(c),
	})
}
