package handlers

import (
	"net/http"

	"kommunity/services/request"
	"kommunity/services/user"
	"kommunity/utils"

	"github.com/gin-gonic/gin"
)

// ServicemanHandler serves the roster and per-serviceman job lists.
type ServicemanHandler struct {
	Users    user.UserService
	Requests request.RequestService
}

func (h *ServicemanHandler) ListHandler(c *gin.Context) {
	list, err := h.Users.ListServicemen(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"servicemen": list})
}

func (h *ServicemanHandler) JobsHandler(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	jobs, err := h.Requests.ServicemanJobs(c.Request.Context(), actor, c.Param("serviceman"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}
