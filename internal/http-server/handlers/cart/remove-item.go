package cart

import (
	"VoiceCart/impl/cart"
	"VoiceCart/internal/lib/api/response"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

type RemoveItemRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	ItemName  string `json:"item_name" validate:"required"`
	Quantity  *int   `json:"quantity" validate:"omitnil,gt=0"`
}

func RemoveItem(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		if handler == nil {
			unavailable(logger, w, r)
			return
		}

		var req RemoveItemRequest
		if !decode(logger, w, r, &req) {
			return
		}
		logger = logger.With(
			slog.String("session", req.SessionID),
			slog.String("item", req.ItemName),
		)

		removed, err := handler.RemoveItem(r.Context(), cart.RemoveItemRequest{
			SessionID: req.SessionID,
			ItemName:  req.ItemName,
			Quantity:  req.Quantity,
		})
		if err != nil {
			failed(logger, w, r, "remove item", err)
			return
		}
		logger.Debug("item removed", slog.Int("quantity", removed.QuantityRemoved))

		render.JSON(w, r, response.Ok(removed))
	}
}
