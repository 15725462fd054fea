//go:build linux

package notify

import (
	"fmt"
	"os/exec"
)

type linuxNotifier struct{}

func newPlatformNotifier() Notifier {
	return linuxNotifier{}
}

func (n linuxNotifier) Send(title, message string) error {
	return n.run(title, message, false)
}

// SendWithSound raises urgency; whether that plays a sound is up to the
// notification daemon.
func (n linuxNotifier) SendWithSound(title, message string) error {
	return n.run(title, message, true)
}

func (linuxNotifier) IsSupported() bool {
	_, err := exec.LookPath("notify-send")
	return err == nil
}

func (linuxNotifier) run(title, message string, sound bool) error {
	args := notifySendArgs(title, message, sound)
	if err := exec.Command("notify-send", args...).Run(); err != nil {
		return fmt.Errorf("notify-send failed: %w", err)
	}
	return nil
}

func notifySendArgs(title, message string, sound bool) []string {
	args := []string{"--app-name=" + AppName}
	if sound {
		args = append(args, "--urgency=critical")
	}
	return append(args, title, message)
}
