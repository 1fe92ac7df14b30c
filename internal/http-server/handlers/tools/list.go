package tools

import (
	"VoiceCart/internal/lib/api/response"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

// List returns the function definitions to register with the voice assistant.
func List(_ *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if handler == nil {
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("Tools not available"))
			return
		}
		render.JSON(w, r, response.Ok(handler.Tools()))
	}
}
