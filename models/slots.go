package models

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// TimeSlot is one bookable window on a serviceman's day.
type TimeSlot struct {
	Start    string     `bson:"start" json:"start"`                           // "HH:MM", zero padded
	End      string     `bson:"end" json:"end"`                               // "HH:MM", exclusive
	BookedBy string     `bson:"bookedBy,omitempty" json:"bookedBy,omitempty"` // repair request id; empty means available
	BookedAt *time.Time `bson:"bookedAt,omitempty" json:"bookedAt,omitempty"`
	Stale    bool       `bson:"-" json:"stale,omitempty"` // computed on read, never stored
}

// Available reports whether nobody holds the slot.
func (s TimeSlot) Available() bool {
	return s.BookedBy == ""
}

// Descriptor returns the exact (start, end) pair identifying the slot.
func (s TimeSlot) Descriptor() SlotDescriptor {
	return SlotDescriptor{Start: s.Start, End: s.End}
}

// Overlaps compares half-open intervals [start, end). Clock strings are
// normalized so lexical order equals time order.
func (s TimeSlot) Overlaps(d SlotDescriptor) bool {
	return s.Start < d.End && d.Start < s.End
}

// ServicemanDaySchedule is the per-(serviceman, date) availability record.
type ServicemanDaySchedule struct {
	Serviceman string     `bson:"serviceman" json:"serviceman"`
	Date       string     `bson:"date" json:"date"` // "YYYY-MM-DD"
	TimeSlots  []TimeSlot `bson:"timeSlots" json:"timeSlots"`
	CreatedAt  time.Time  `bson:"createdAt" json:"createdAt"`
}

// Find returns the slot with exactly the given bounds.
func (d *ServicemanDaySchedule) Find(desc SlotDescriptor) (*TimeSlot, bool) {
	for i := range d.TimeSlots {
		if d.TimeSlots[i].Start == desc.Start && d.TimeSlots[i].End == desc.End {
			return &d.TimeSlots[i], true
		}
	}
	return nil, false
}

// MarkStale flags every slot when the schedule's day is before today.
func (d *ServicemanDaySchedule) MarkStale(today string) {
	if d.Date >= today {
		return
	}
	for i := range d.TimeSlots {
		d.TimeSlots[i].Stale = true
	}
}

// SlotDescriptor identifies a slot within a day by exact bounds.
type SlotDescriptor struct {
	Start string `bson:"start" json:"start" binding:"required"`
	End   string `bson:"end" json:"end" binding:"required"`
}

func (d SlotDescriptor) String() string {
	return d.Start + "-" + d.End
}

// SlotRef points a repair request at a booked slot.
type SlotRef struct {
	Date  string `bson:"date" json:"date" binding:"required"`
	Start string `bson:"start" json:"start" binding:"required"`
	End   string `bson:"end" json:"end" binding:"required"`
}

func (r SlotRef) Descriptor() SlotDescriptor {
	return SlotDescriptor{Start: r.Start, End: r.End}
}

func (r SlotRef) String() string {
	return fmt.Sprintf("%s %s-%s", r.Date, r.Start, r.End)
}

// NormalizeDate parses and re-formats a calendar date.
func NormalizeDate(date string) (string, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(date))
	if err != nil {
		return "", NewError(ErrInvalidInput, fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", date))
	}
	return t.Format(DateLayout), nil
}

// NormalizeClock accepts "9:00" or "09:00" and returns "09:00".
func NormalizeClock(clock string) (string, error) {
	t, err := time.Parse(ClockLayout, strings.TrimSpace(clock))
	if err != nil {
		return "", NewError(ErrInvalidRange, fmt.Sprintf("invalid time %q, expected HH:MM", clock))
	}
	return t.Format(ClockLayout), nil
}

// NormalizeDescriptor validates bounds and enforces start < end.
func NormalizeDescriptor(start, end string) (SlotDescriptor, error) {
	s, err := NormalizeClock(start)
	if err != nil {
		return SlotDescriptor{}, err
	}
	e, err := NormalizeClock(end)
	if err != nil {
		return SlotDescriptor{}, err
	}
	if s >= e {
		return SlotDescriptor{}, NewError(ErrInvalidRange, fmt.Sprintf("slot start %s must be before end %s", s, e))
	}
	return SlotDescriptor{Start: s, End: e}, nil
}

// NormalizeSlotRef validates and canonicalizes a slot reference.
func NormalizeSlotRef(ref SlotRef) (SlotRef, error) {
	date, err := NormalizeDate(ref.Date)
	if err != nil {
		return SlotRef{}, err
	}
	desc, err := NormalizeDescriptor(ref.Start, ref.End)
	if err != nil {
		return SlotRef{}, err
	}
	return SlotRef{Date: date, Start: desc.Start, End: desc.End}, nil
}

// SlotEvent is emitted by the booking coordinator after a slot changes hands.
type SlotEvent struct {
	Type       string    `json:"type"` // SlotBookedEvent or SlotReleasedEvent
	RequestID  string    `json:"requestId"`
	Serviceman string    `json:"serviceman"`
	Slot       SlotRef   `json:"slot"`
	Timestamp  time.Time `json:"timestamp"`
}

const (
	SlotBookedEvent   = "slot-booked"
	SlotReleasedEvent = "slot-released"
)
