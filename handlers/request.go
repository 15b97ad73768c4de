package handlers

import (
	"context"
	"errors"
	"net/http"

	"kommunity/models"
	"kommunity/services/request"
	"kommunity/utils"

	"github.com/gin-gonic/gin"
)

// RequestHandler serves the repair request lifecycle.
type RequestHandler struct {
	Service request.RequestService
}

type assignBody struct {
	Serviceman string          `json:"serviceman" binding:"required"`
	Slot       *models.SlotRef `json:"slot"`
}

type noteBody struct {
	Note string `json:"note"`
}

type reasonBody struct {
	Reason string `json:"reason"`
}

func (h *RequestHandler) SubmitHandler(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var in models.NewRepairRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	req, err := h.Service.Submit(c.Request.Context(), actor, in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"request": req})
}

func (h *RequestHandler) ListHandler(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var filter models.RequestFilter
	if raw := c.Query("status"); raw != "" {
		s, ok := models.ParseStatus(raw)
		if !ok {
			badRequest(c, errors.New("unknown status "+raw))
			return
		}
		filter.Status = s
	}
	if raw := c.Query("urgency"); raw != "" {
		u, ok := models.ParseUrgency(raw)
		if !ok {
			badRequest(c, errors.New("unknown urgency "+raw))
			return
		}
		filter.Urgency = u
	}
	filter.AssignedTo = c.Query("assignedTo")

	list, err := h.Service.List(c.Request.Context(), actor, filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": list, "count": len(list)})
}

func (h *RequestHandler) GetHandler(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	req, err := h.Service.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": req})
}

func (h *RequestHandler) AssignHandler(c *gin.Context) {
	var body assignBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	h.transition(c, func(ctx context.Context, actor models.Actor, id string) (*models.RepairRequest, error) {
		return h.Service.Assign(ctx, actor, id, body.Serviceman, body.Slot)
	})
}

func (h *RequestHandler) ScheduleHandler(c *gin.Context) {
	var slot models.SlotRef
	if err := c.ShouldBindJSON(&slot); err != nil {
		badRequest(c, err)
		return
	}
	h.transition(c, func(ctx context.Context, actor models.Actor, id string) (*models.RepairRequest, error) {
		return h.Service.Schedule(ctx, actor, id, slot)
	})
}

func (h *RequestHandler) StartHandler(c *gin.Context) {
	h.transition(c, h.Service.Start)
}

func (h *RequestHandler) CompleteHandler(c *gin.Context) {
	var body noteBody
	if !bindOptional(c, &body) {
		return
	}
	h.transition(c, func(ctx context.Context, actor models.Actor, id string) (*models.RepairRequest, error) {
		return h.Service.Complete(ctx, actor, id, body.Note)
	})
}

func (h *RequestHandler) ForceCompleteHandler(c *gin.Context) {
	var body reasonBody
	if !bindOptional(c, &body) {
		return
	}
	h.transition(c, func(ctx context.Context, actor models.Actor, id string) (*models.RepairRequest, error) {
		return h.Service.ForceComplete(ctx, actor, id, body.Reason)
	})
}

func (h *RequestHandler) CancelHandler(c *gin.Context) {
	var body reasonBody
	if !bindOptional(c, &body) {
		return
	}
	h.transition(c, func(ctx context.Context, actor models.Actor, id string) (*models.RepairRequest, error) {
		return h.Service.Cancel(ctx, actor, id, body.Reason)
	})
}

func (h *RequestHandler) ReassignHandler(c *gin.Context) {
	var body noteBody
	if !bindOptional(c, &body) {
		return
	}
	h.transition(c, func(ctx context.Context, actor models.Actor, id string) (*models.RepairRequest, error) {
		return h.Service.Reassign(ctx, actor, id, body.Note)
	})
}

func (h *RequestHandler) AddNoteHandler(c *gin.Context) {
	var body noteBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	h.transition(c, func(ctx context.Context, actor models.Actor, id string) (*models.RepairRequest, error) {
		return h.Service.AddNote(ctx, actor, id, body.Note)
	})
}

type transitionFunc func(ctx context.Context, actor models.Actor, id string) (*models.RepairRequest, error)

func (h *RequestHandler) transition(c *gin.Context, fn transitionFunc) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	req, err := fn(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": req})
}

// bindOptional accepts an empty body.
func bindOptional(c *gin.Context, dst any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		badRequest(c, err)
		return false
	}
	return true
}
