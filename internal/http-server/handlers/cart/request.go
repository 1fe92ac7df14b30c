package cart

import (
	apierr "VoiceCart/internal/http-server/handlers/errors"
	"VoiceCart/internal/lib/api/response"
	"VoiceCart/internal/lib/api/validate"
	"VoiceCart/internal/lib/sl"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type SessionRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

func requestLogger(log *slog.Logger, r *http.Request) *slog.Logger {
	return log.With(
		sl.Module("http.handlers.cart"),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// decode reads and validates the request body; on failure the response is already written.
func decode(logger *slog.Logger, w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		logger.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("Invalid request body"))
		return false
	}
	if err := validate.Struct(v); err != nil {
		logger.Debug("invalid request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return false
	}
	return true
}

func failed(logger *slog.Logger, w http.ResponseWriter, r *http.Request, msg string, err error) {
	status := apierr.Status(err)
	if status == http.StatusInternalServerError {
		logger.Error(msg, sl.Err(err))
	} else {
		logger.Debug(msg, sl.Err(err))
	}
	render.Status(r, status)
	render.JSON(w, r, response.Error(apierr.Message(err)))
}

func unavailable(logger *slog.Logger, w http.ResponseWriter, r *http.Request) {
	logger.Error("cart core not available")
	render.Status(r, http.StatusServiceUnavailable)
	render.JSON(w, r, response.Error("Cart not available"))
}
