package errors

import (
	"VoiceCart/entity"
	"net/http"
)

// Status maps a core error to the HTTP status returned to the client.
func Status(err error) int {
	switch entity.KindOf(err) {
	case entity.KindValidation:
		return http.StatusBadRequest
	case entity.KindNotFound:
		return http.StatusNotFound
	case entity.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message hides internal error details from the client.
func Message(err error) string {
	if entity.KindOf(err) == entity.KindInternal {
		return "Internal error"
	}
	return err.Error()
}
