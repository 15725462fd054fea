//go:build darwin

package notify

import (
	"fmt"
	"os/exec"
	"strings"
)

type darwinNotifier struct{}

func newPlatformNotifier() Notifier {
	return darwinNotifier{}
}

func (n darwinNotifier) Send(title, message string) error {
	return n.run(title, message, false)
}

func (n darwinNotifier) SendWithSound(title, message string) error {
	return n.run(title, message, true)
}

func (darwinNotifier) IsSupported() bool {
	_, err := exec.LookPath("osascript")
	return err == nil
}

func (darwinNotifier) run(title, message string, sound bool) error {
	if err := exec.Command("osascript", "-e", appleScript(title, message, sound)).Run(); err != nil {
		return fmt.Errorf("osascript failed: %w", err)
	}
	return nil
}

func appleScript(title, message string, sound bool) string {
	script := `display notification "` + escapeAppleScript(message) + `" with title "` + escapeAppleScript(title) + `"`
	if sound {
		script += ` sound name "default"`
	}
	return script
}

func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
