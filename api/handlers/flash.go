package handlers

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Notification severities
const (
	SeveritySuccess = "success"
	SeverityError   = "error"
)

// Notification is a short-lived, severity-tagged message surfaced to the
// user on the next page render
type Notification struct {
	Message  string
	Severity string
}

// flash queues a notification for the next page render
func flash(c *gin.Context, severity, message string) error {
	session := sessions.Default(c)
	session.AddFlash(message, severity)
	return session.Save()
}

// takeNotifications consumes all queued notifications; each is returned
// exactly once
func takeNotifications(c *gin.Context) []Notification {
	session := sessions.Default(c)

	var notifications []Notification
	for _, severity := range []string{SeverityError, SeveritySuccess} {
		for _, f := range session.Flashes(severity) {
			if message, ok := f.(string); ok {
				notifications = append(notifications, Notification{
					Message:  message,
					Severity: severity,
				})
			}
		}
	}
	session.Save()

	return notifications
}
