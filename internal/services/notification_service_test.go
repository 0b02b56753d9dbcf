package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotificationDisabledWithoutURLs(t *testing.T) {
	svc := NewNotificationService(nil)
	assert.False(t, svc.Enabled())

	// no URLs means no sends; must not panic either
	svc.MachineEvent("start", 1)
}

func TestNotifyFansOutToEveryURL(t *testing.T) {
	svc := NewNotificationService([]string{"discord://a", "slack://b"})
	assert.True(t, svc.Enabled())

	var sent []string
	svc.send = func(url, message string) error {
		sent = append(sent, url+"|"+message)
		return nil
	}

	svc.MachineEvent("stop", 42)
	assert.Equal(t, []string{
		"discord://a|machine 42: stop requested",
		"slack://b|machine 42: stop requested",
	}, sent)
}

func TestNotifySwallowsSendFailures(t *testing.T) {
	svc := NewNotificationService([]string{"discord://a", "slack://b"})

	var calls int
	svc.send = func(url, message string) error {
		calls++
		return errors.New("webhook down")
	}

	// failures are logged, never surfaced, and do not stop the fan-out
	svc.ImageEvent("assign", 7)
	assert.Equal(t, 2, calls)
}
