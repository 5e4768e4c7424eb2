package services

import (
	"errors"

	"github.com/dmitrijs2005/arch1v/internal/client/client"
	"github.com/dmitrijs2005/arch1v/internal/client/models"
)

// Notifier shows transient messages to the user.
type Notifier interface {
	Success(msg string) models.Notice
	Error(msg string) models.Notice
}

// reportFailure shows err as an error notice. Authorization failures are
// skipped: the gateway has already reset the session and left the view.
func reportFailure(n Notifier, err error, fallback string) {
	if errors.Is(err, client.ErrUnauthorized) {
		return
	}
	msg := client.Message(err)
	if msg == "" {
		msg = fallback
	}
	n.Error(msg)
}
