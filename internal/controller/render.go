package controller

import (
	"errors"

	"github.com/harborgroup/harbor-app/pkg/apperr"
)

// displayMessage renders a failure as the user-facing string controllers
// expose through ErrorMessage. Presentation never sees the structured kind.
func displayMessage(err error) string {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		return err.Error()
	}
	switch appErr.Kind {
	case apperr.KindNetwork:
		return "Could not reach the server. Check your connection and try again."
	case apperr.KindProfileNotFound:
		return "Your account has no profile yet. Contact an administrator."
	case apperr.KindDecode:
		return "The server returned data this app could not read."
	case apperr.KindInsert:
		return "The server rejected the change: " + appErr.Message
	case apperr.KindDelivery:
		return "The notification could not be delivered."
	}
	return appErr.Message
}
