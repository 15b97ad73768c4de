package models

import (
	"strings"
	"time"
)

// Status is the closed set of repair request states.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusAssigned   Status = "Assigned"
	StatusInProgress Status = "InProgress"
	StatusCompleted  Status = "Completed"
	StatusCancelled  Status = "Cancelled"
)

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ParseStatus accepts the historical spellings ("In Progress", "pending", ...).
func ParseStatus(raw string) (Status, bool) {
	key := strings.ToLower(strings.ReplaceAll(strings.ReplaceAll(strings.TrimSpace(raw), " ", ""), "_", ""))
	switch key {
	case "pending":
		return StatusPending, true
	case "assigned":
		return StatusAssigned, true
	case "inprogress":
		return StatusInProgress, true
	case "completed":
		return StatusCompleted, true
	case "cancelled", "canceled":
		return StatusCancelled, true
	}
	return "", false
}

// Urgency ranks how soon a request should be handled.
type Urgency string

const (
	UrgencyLow    Urgency = "Low"
	UrgencyMedium Urgency = "Medium"
	UrgencyHigh   Urgency = "High"
)

// Rank orders urgencies, higher is more urgent.
func (u Urgency) Rank() int {
	switch u {
	case UrgencyHigh:
		return 3
	case UrgencyMedium:
		return 2
	case UrgencyLow:
		return 1
	}
	return 0
}

func ParseUrgency(raw string) (Urgency, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "low":
		return UrgencyLow, true
	case "medium":
		return UrgencyMedium, true
	case "high":
		return UrgencyHigh, true
	}
	return "", false
}

// StatusChange is one entry of a request's audit trail.
type StatusChange struct {
	From Status    `bson:"from,omitempty" json:"from,omitempty"`
	To   Status    `bson:"to" json:"to"`
	By   string    `bson:"by" json:"by"`
	Note string    `bson:"note,omitempty" json:"note,omitempty"`
	At   time.Time `bson:"at" json:"at"`
}

// RepairRequest is a household repair job moving through dispatch.
type RepairRequest struct {
	ID              string         `bson:"id" json:"id"`
	RequesterID     string         `bson:"requesterId" json:"requesterId"`
	Name            string         `bson:"name" json:"name"`
	Category        string         `bson:"category" json:"category"`
	Description     string         `bson:"description" json:"description"`
	Urgency         Urgency        `bson:"urgency" json:"urgency"`
	Location        string         `bson:"location" json:"location"`
	Status          Status         `bson:"status" json:"status"`
	AssignedTo      string         `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	ScheduledSlot   *SlotRef       `bson:"scheduledSlot,omitempty" json:"scheduledSlot,omitempty"`
	AdminNotes      string         `bson:"adminNotes,omitempty" json:"adminNotes,omitempty"`
	ServicemanNotes string         `bson:"servicemanNotes,omitempty" json:"servicemanNotes,omitempty"`
	CompletedBy     string         `bson:"completedBy,omitempty" json:"completedBy,omitempty"`
	History         []StatusChange `bson:"history" json:"history"`
	CreatedAt       time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time      `bson:"updatedAt" json:"updatedAt"`
	Version         int            `bson:"version" json:"version"`
}

// NewRepairRequest is the intake payload.
type NewRepairRequest struct {
	Name        string `json:"name" binding:"required"`
	Category    string `json:"category" binding:"required"`
	Description string `json:"description" binding:"required"`
	Urgency     string `json:"urgency" binding:"required"`
	Location    string `json:"location" binding:"required"`
}

// RequestFilter narrows request listings; zero values match everything.
type RequestFilter struct {
	Status      Status
	Urgency     Urgency
	AssignedTo  string
	RequesterID string
}
