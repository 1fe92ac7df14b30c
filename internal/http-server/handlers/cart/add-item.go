package cart

import (
	"VoiceCart/impl/cart"
	"VoiceCart/internal/lib/api/response"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

type AddItemRequest struct {
	SessionID           string `json:"session_id" validate:"required"`
	RestaurantKey       string `json:"restaurant_key" validate:"required"`
	ItemName            string `json:"item_name" validate:"required"`
	Quantity            int    `json:"quantity" validate:"gt=0,max=100"`
	SpecialInstructions string `json:"special_instructions"`
	FirstPieceSpice     string `json:"first_piece_spice"`
	SecondPieceSpice    string `json:"second_piece_spice"`
}

func AddItem(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		if handler == nil {
			unavailable(logger, w, r)
			return
		}

		var req AddItemRequest
		if !decode(logger, w, r, &req) {
			return
		}
		logger = logger.With(
			slog.String("session", req.SessionID),
			slog.String("item", req.ItemName),
		)

		result, err := handler.AddItem(r.Context(), cart.AddItemRequest{
			SessionID:           req.SessionID,
			RestaurantKey:       req.RestaurantKey,
			ItemName:            req.ItemName,
			Quantity:            req.Quantity,
			SpecialInstructions: req.SpecialInstructions,
			FirstPieceSpice:     req.FirstPieceSpice,
			SecondPieceSpice:    req.SecondPieceSpice,
		})
		if err != nil {
			failed(logger, w, r, "add item", err)
			return
		}
		logger.Debug("item added", slog.Bool("merged", result.Merged))

		render.JSON(w, r, response.Ok(result))
	}
}
