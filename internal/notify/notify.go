// Package notify shows desktop notifications for playback events.
package notify

// Urgency is the freedesktop notification priority.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// Notification is one desktop notification.
type Notification struct {
	Title      string
	Body       string
	Icon       string // image path or icon name
	Timeout    int32  // ms, -1 = server default, 0 = never expire
	ReplacesID uint32 // 0 = new notification
	Urgency    Urgency
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify shows n and returns its ID. It returns 0 and no error when
	// notifications are unavailable.
	Notify(n Notification) (uint32, error)
	Close(id uint32) error
}
