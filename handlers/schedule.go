package handlers

import (
	"net/http"

	"kommunity/models"
	"kommunity/services/availability"
	"kommunity/utils"

	"github.com/gin-gonic/gin"
)

// ScheduleHandler serves serviceman day schedules.
type ScheduleHandler struct {
	Service availability.AvailabilityService
}

// canEditSchedule allows admins and the serviceman who owns the schedule.
func canEditSchedule(c *gin.Context) bool {
	actor, ok := mustActor(c)
	if !ok {
		return false
	}
	if actor.IsAdmin() || (actor.Role == models.RoleServiceman && actor.Username == c.Param("serviceman")) {
		return true
	}
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Only an admin or the serviceman can change this schedule"})
	return false
}

func (h *ScheduleHandler) EnsureDayHandler(c *gin.Context) {
	if !canEditSchedule(c) {
		return
	}
	ctx := c.Request.Context()
	if err := h.Service.EnsureDay(ctx, c.Param("serviceman"), c.Param("date")); err != nil {
		utils.RespondError(c, err)
		return
	}
	day, err := h.Service.Day(ctx, c.Param("serviceman"), c.Param("date"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedule": day})
}

func (h *ScheduleHandler) AddTimeSlotHandler(c *gin.Context) {
	if !canEditSchedule(c) {
		return
	}
	var slot models.SlotDescriptor
	if err := c.ShouldBindJSON(&slot); err != nil {
		badRequest(c, err)
		return
	}
	day, err := h.Service.AddTimeSlot(c.Request.Context(), c.Param("serviceman"), c.Param("date"), slot.Start, slot.End)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"schedule": day})
}

func (h *ScheduleHandler) GetDayHandler(c *gin.Context) {
	if _, ok := mustActor(c); !ok {
		return
	}
	day, err := h.Service.Day(c.Request.Context(), c.Param("serviceman"), c.Param("date"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedule": day})
}

func (h *ScheduleHandler) AvailableSlotsHandler(c *gin.Context) {
	if _, ok := mustActor(c); !ok {
		return
	}
	slots, err := h.Service.AvailableSlots(c.Request.Context(), c.Param("serviceman"), c.Param("date"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}
