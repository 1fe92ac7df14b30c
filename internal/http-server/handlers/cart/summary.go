package cart

import (
	"VoiceCart/internal/lib/api/response"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

func Summary(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		if handler == nil {
			unavailable(logger, w, r)
			return
		}

		var req SessionRequest
		if !decode(logger, w, r, &req) {
			return
		}

		summary, err := handler.Summarize(r.Context(), req.SessionID)
		if err != nil {
			failed(logger.With(slog.String("session", req.SessionID)), w, r, "summarize cart", err)
			return
		}

		render.JSON(w, r, response.Ok(summary))
	}
}

func Upsell(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		if handler == nil {
			unavailable(logger, w, r)
			return
		}

		var req SessionRequest
		if !decode(logger, w, r, &req) {
			return
		}

		offer, err := handler.UpsellSuggestions(r.Context(), req.SessionID)
		if err != nil {
			failed(logger.With(slog.String("session", req.SessionID)), w, r, "upsell suggestions", err)
			return
		}

		render.JSON(w, r, response.Ok(map[string]string{"offer": offer}))
	}
}
