// Package notify sends desktop notifications through the platform's
// native tool: osascript on macOS and notify-send on Linux.
package notify

// AppName is reported to the notification daemon where supported.
const AppName = "dailyflow"

// Notifier sends desktop notifications.
type Notifier interface {
	// Send shows a notification with the given title and message.
	Send(title, message string) error

	// SendWithSound shows a notification and asks for an alert sound.
	SendWithSound(title, message string) error

	// IsSupported reports whether the platform tool is available.
	IsSupported() bool
}

// Noop discards every notification.
type Noop struct{}

func (Noop) Send(title, message string) error          { return nil }
func (Noop) SendWithSound(title, message string) error { return nil }
func (Noop) IsSupported() bool                         { return false }

// New returns the platform notifier, or Noop when the platform tool is
// missing.
func New() Notifier {
	n := newPlatformNotifier()
	if n == nil || !n.IsSupported() {
		return Noop{}
	}
	return n
}

// Deliver sends through n, with sound when requested.
func Deliver(n Notifier, sound bool, title, message string) error {
	if sound {
		return n.SendWithSound(title, message)
	}
	return n.Send(title, message)
}
