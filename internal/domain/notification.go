package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind classifies a status message.
type NotificationKind string

const (
	NotificationSuccess    NotificationKind = "success"
	NotificationWarning    NotificationKind = "warning"
	NotificationError      NotificationKind = "error"
	NotificationInfo       NotificationKind = "info"
	NotificationLevelUp    NotificationKind = "level_up"
	NotificationBonus      NotificationKind = "bonus"
	NotificationMonthReset NotificationKind = "month_reset"
)

// LevelBonusDelay is how long the bonus message trails the level-up message.
const LevelBonusDelay = 1500 * time.Millisecond

// Notification is a short-lived message for the presentation layer. Delay
// asks the observer to hold the message back; it never gates state changes.
type Notification struct {
	ID        string
	Kind      NotificationKind
	Message   string
	Delay     time.Duration
	CreatedAt time.Time
}

// NewNotification creates a notification with a fresh ID.
func NewNotification(kind NotificationKind, message string) Notification {
	return Notification{
		ID:        uuid.New().String(),
		Kind:      kind,
		Message:   message,
		CreatedAt: time.Now(),
	}
}

// IsCelebration reports whether the message marks a milestone worth a
// desktop notification.
func (n Notification) IsCelebration() bool {
	switch n.Kind {
	case NotificationLevelUp, NotificationBonus, NotificationMonthReset:
		return true
	default:
		return false
	}
}

// Title returns a short heading for the kind.
func (n Notification) Title() string {
	switch n.Kind {
	case NotificationLevelUp:
		return "🎉 Level up!"
	case NotificationBonus:
		return "💰 Level bonus"
	case NotificationMonthReset:
		return "🔁 New month"
	case NotificationWarning:
		return "⚠️ Heads up"
	case NotificationError:
		return "❌ Error"
	default:
		return "lifegame"
	}
}
