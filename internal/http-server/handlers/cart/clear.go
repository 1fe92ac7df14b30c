package cart

import (
	"VoiceCart/internal/lib/api/response"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

func Clear(log *slog.Logger, handler Core) http.HandlerFunc {
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
		logger = logger.With(slog.String("session", req.SessionID))

		if err := handler.ClearCart(r.Context(), req.SessionID); err != nil {
			failed(logger, w, r, "clear cart", err)
			return
		}
		logger.Info("cart cleared")

		render.JSON(w, r, response.Ok("Cart cleared"))
	}
}
