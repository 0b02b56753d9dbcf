package services

import (
	"fmt"

	"github.com/containrrr/shoutrrr"

	"vagondeck/internal/logger"
)

// NotificationService pushes best-effort notifications about machine lifecycle
// actions to the configured shoutrrr URLs. Sends happen in-request and
// failures are logged, never surfaced to the caller. With no URLs configured
// every call is a no-op.
type NotificationService struct {
	urls []string
	send func(url, message string) error
}

func NewNotificationService(urls []string) *NotificationService {
	return &NotificationService{
		urls: urls,
		send: shoutrrr.Send,
	}
}

// Enabled reports whether any notification URL is configured.
func (s *NotificationService) Enabled() bool {
	return len(s.urls) > 0
}

// MachineEvent announces a lifecycle action on a machine.
func (s *NotificationService) MachineEvent(action string, machineID int) {
	s.Notify(fmt.Sprintf("machine %d: %s requested", machineID, action))
}

// ImageEvent announces an image action.
func (s *NotificationService) ImageEvent(action string, imageID int) {
	s.Notify(fmt.Sprintf("image %d: %s requested", imageID, action))
}

// Notify sends a raw message to every configured URL.
func (s *NotificationService) Notify(message string) {
	for _, url := range s.urls {
		if err := s.send(url, message); err != nil {
			logger.WithFields(map[string]interface{}{
				"error": err.Error(),
			}).Warn("failed to send notification")
		}
	}
}
