package cart

import (
	"VoiceCart/entity"
	"VoiceCart/impl/cart"
	"VoiceCart/internal/lib/api/response"
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

type AddModifiersRequest struct {
	SessionID            string   `json:"session_id" validate:"required"`
	RestaurantKey        string   `json:"restaurant_key" validate:"required"`
	ItemName             string   `json:"item_name" validate:"required"`
	FirstPieceModifiers  []string `json:"first_piece_modifiers"`
	SecondPieceModifiers []string `json:"second_piece_modifiers"`
}

func (req *AddModifiersRequest) modifiers() cart.ModifiersRequest {
	return cart.ModifiersRequest{
		SessionID:     req.SessionID,
		RestaurantKey: req.RestaurantKey,
		ItemName:      req.ItemName,
		FirstPiece:    req.FirstPieceModifiers,
		SecondPiece:   req.SecondPieceModifiers,
	}
}

// RemoveModifiersRequest works on the cart alone, so no restaurant key is needed.
type RemoveModifiersRequest struct {
	SessionID            string   `json:"session_id" validate:"required"`
	ItemName             string   `json:"item_name" validate:"required"`
	FirstPieceModifiers  []string `json:"first_piece_modifiers"`
	SecondPieceModifiers []string `json:"second_piece_modifiers"`
}

func (req *RemoveModifiersRequest) modifiers() cart.ModifiersRequest {
	return cart.ModifiersRequest{
		SessionID:   req.SessionID,
		ItemName:    req.ItemName,
		FirstPiece:  req.FirstPieceModifiers,
		SecondPiece: req.SecondPieceModifiers,
	}
}

type modifiersBody interface {
	modifiers() cart.ModifiersRequest
}

type modifiersFunc func(ctx context.Context, req cart.ModifiersRequest) (*entity.ModifierChangeResult, error)

func AddModifiers(log *slog.Logger, handler Core) http.HandlerFunc {
	body := func() modifiersBody { return &AddModifiersRequest{} }
	if handler == nil {
		return changeModifiers(log, nil, body, "add modifiers")
	}
	return changeModifiers(log, handler.AddModifiers, body, "add modifiers")
}

func RemoveModifiers(log *slog.Logger, handler Core) http.HandlerFunc {
	body := func() modifiersBody { return &RemoveModifiersRequest{} }
	if handler == nil {
		return changeModifiers(log, nil, body, "remove modifiers")
	}
	return changeModifiers(log, handler.RemoveModifiers, body, "remove modifiers")
}

func changeModifiers(log *slog.Logger, change modifiersFunc, body func() modifiersBody, action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		if change == nil {
			unavailable(logger, w, r)
			return
		}

		body := body()
		if !decode(logger, w, r, body) {
			return
		}
		req := body.modifiers()
		logger = logger.With(
			slog.String("session", req.SessionID),
			slog.String("item", req.ItemName),
		)

		result, err := change(r.Context(), req)
		if err != nil {
			failed(logger, w, r, action, err)
			return
		}
		logger.Debug(action, slog.Int("failed", len(result.Failed)))

		render.JSON(w, r, response.Ok(result))
	}
}
