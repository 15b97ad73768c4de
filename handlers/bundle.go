// File: handlers/bundle.go
package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Repair request endpoints
	SubmitRequestHandler        gin.HandlerFunc
	ListRequestsHandler         gin.HandlerFunc
	GetRequestHandler           gin.HandlerFunc
	AssignRequestHandler        gin.HandlerFunc
	ScheduleRequestHandler      gin.HandlerFunc
	StartRequestHandler         gin.HandlerFunc
	CompleteRequestHandler      gin.HandlerFunc
	ForceCompleteRequestHandler gin.HandlerFunc
	CancelRequestHandler        gin.HandlerFunc
	ReassignRequestHandler      gin.HandlerFunc
	AddNoteHandler              gin.HandlerFunc

	// Serviceman endpoints
	ListServicemenHandler gin.HandlerFunc
	ServicemanJobsHandler gin.HandlerFunc

	// Schedule endpoints
	EnsureDayHandler      gin.HandlerFunc
	GetDayHandler         gin.HandlerFunc
	AvailableSlotsHandler gin.HandlerFunc
	AddTimeSlotHandler    gin.HandlerFunc

	HealthHandler gin.HandlerFunc
}

// NewHandlerBundle wires handler structs into the bundle.
func NewHandlerBundle(req *RequestHandler, sched *ScheduleHandler, staff *ServicemanHandler, health *HealthHandler) *HandlerBundle {
	return &HandlerBundle{
		SubmitRequestHandler:        req.SubmitHandler,
		ListRequestsHandler:         req.ListHandler,
		GetRequestHandler:           req.GetHandler,
		AssignRequestHandler:        req.AssignHandler,
		ScheduleRequestHandler:      req.ScheduleHandler,
		StartRequestHandler:         req.StartHandler,
		CompleteRequestHandler:      req.CompleteHandler,
		ForceCompleteRequestHandler: req.ForceCompleteHandler,
		CancelRequestHandler:        req.CancelHandler,
		ReassignRequestHandler:      req.ReassignHandler,
		AddNoteHandler:              req.AddNoteHandler,

		ListServicemenHandler: staff.ListHandler,
		ServicemanJobsHandler: staff.JobsHandler,

		EnsureDayHandler:      sched.EnsureDayHandler,
		GetDayHandler:         sched.GetDayHandler,
		AvailableSlotsHandler: sched.AvailableSlotsHandler,
		AddTimeSlotHandler:    sched.AddTimeSlotHandler,

		HealthHandler: health.Handler,
	}
}
