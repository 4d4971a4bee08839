package tui

import (
	"github.com/xvierd/lifegame-cli/internal/domain"
	"github.com/xvierd/lifegame-cli/internal/ports"
)

// ChannelNotifier hands notifications to the board through a buffered
// channel. When the buffer is full new notifications are dropped so the
// service never blocks on the UI.
type ChannelNotifier struct {
	ch chan domain.Notification
}

// NewChannelNotifier creates a sink holding up to size pending notifications.
func NewChannelNotifier(size int) *ChannelNotifier {
	if size < 1 {
		size = 1
	}
	return &ChannelNotifier{ch: make(chan domain.Notification, size)}
}

// Ensure ChannelNotifier implements ports.Notifier.
var _ ports.Notifier = (*ChannelNotifier)(nil)

// Notify implements ports.Notifier.
func (c *ChannelNotifier) Notify(n domain.Notification) {
	select {
	case c.ch <- n:
	default:
	}
}

// C returns the receive side of the channel.
func (c *ChannelNotifier) C() <-chan domain.Notification {
	return c.ch
}
