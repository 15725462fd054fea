//go:build linux

package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotifySendArgs(t *testing.T) {
	assert.Equal(t,
		[]string{"--app-name=dailyflow", "Title", "Body"},
		notifySendArgs("Title", "Body", false))
	assert.Equal(t,
		[]string{"--app-name=dailyflow", "--urgency=critical", "Title", "Body"},
		notifySendArgs("Title", "Body", true))
}
