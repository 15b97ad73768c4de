package handlers

import (
	"net/http"

	"kommunity/middleware"
	"kommunity/models"

	"github.com/gin-gonic/gin"
)

// mustActor returns the authenticated caller or aborts with 401.
func mustActor(c *gin.Context) (models.Actor, bool) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
	}
	return actor, ok
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
}
