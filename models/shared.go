package models

// NotificationPayload is the queued form of a lifecycle event.
type NotificationPayload struct {
	Event LifecycleEvent `json:"event"`
}
