// Package notification provides desktop and console notification utilities.
package notification

import (
	"log/slog"

	"github.com/gen2brain/beeep"
	"github.com/xvierd/lifegame-cli/internal/config"
	"github.com/xvierd/lifegame-cli/internal/domain"
	"github.com/xvierd/lifegame-cli/internal/ports"
)

// Notifier handles desktop notifications. Only milestones (level-ups,
// bonuses, month resets) reach the desktop; everything else is left to
// the terminal.
type Notifier struct {
	cfg    *config.NotificationConfig
	logger *slog.Logger
	notify func(title, message string) error
	alert  func(title, message string) error
}

// New creates a new notifier with the given configuration.
func New(cfg *config.NotificationConfig) *Notifier {
	return &Notifier{
		cfg:    cfg,
		logger: slog.Default(),
		notify: func(title, message string) error { return beeep.Notify(title, message, "") },
		alert:  func(title, message string) error { return beeep.Alert(title, message, "") },
	}
}

// SetLogger sets the logger used to report delivery failures.
func (n *Notifier) SetLogger(l *slog.Logger) {
	if l != nil {
		n.logger = l
	}
}

// Ensure Notifier implements ports.Notifier.
var _ ports.Notifier = (*Notifier)(nil)

// Notify implements ports.Notifier.
func (n *Notifier) Notify(msg domain.Notification) {
	if !n.IsEnabled() || !msg.IsCelebration() {
		return
	}

	send := n.notify
	if n.cfg.Sound {
		send = n.alert
	}
	if err := send(msg.Title(), msg.Message); err != nil {
		n.logger.Debug("desktop notification failed", "kind", msg.Kind, "error", err)
	}
}

// IsEnabled returns true if notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	return n.cfg != nil && n.cfg.Enabled
}

// Fanout delivers every notification to each of its notifiers in order.
type Fanout []ports.Notifier

// Notify implements ports.Notifier.
func (f Fanout) Notify(msg domain.Notification) {
	for _, n := range f {
		if n != nil {
			n.Notify(msg)
		}
	}
}
