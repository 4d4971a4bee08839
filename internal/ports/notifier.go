package ports

import (
	"time"

	"github.com/xvierd/lifegame-cli/internal/domain"
)

// Notifier receives status messages emitted by the services layer.
// Implementations only present them; they never feed back into state.
// This is a driven port (implemented by adapters).
type Notifier interface {
	Notify(n domain.Notification)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(n domain.Notification)

// Notify calls f(n).
func (f NotifierFunc) Notify(n domain.Notification) {
	f(n)
}

// NopNotifier discards every notification.
var NopNotifier Notifier = NotifierFunc(func(domain.Notification) {})

// Clock supplies the current time used for "today" and "this month".
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now calls f().
func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)
