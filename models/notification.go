package models

import "time"

// Lifecycle event kinds.
const (
	EventAssigned   = "assigned"
	EventScheduled  = "scheduled"
	EventCompleted  = "completed"
	EventCancelled  = "cancelled"
	EventReassigned = "reassigned"
)

// LifecycleEvent is handed to the notification collaborator after a transition commits.
type LifecycleEvent struct {
	Kind               string    `json:"kind"`
	RequestID          string    `json:"requestId"`
	Status             Status    `json:"status"`
	AssignedServiceman string    `json:"assignedServiceman,omitempty"`
	PreviousServiceman string    `json:"previousServiceman,omitempty"`
	RequesterID        string    `json:"requesterId"`
	Category           string    `json:"category,omitempty"`
	Location           string    `json:"location,omitempty"`
	Slot               *SlotRef  `json:"slot,omitempty"`
	Note               string    `json:"note,omitempty"`
	Timestamp          time.Time `json:"timestamp"`
}
