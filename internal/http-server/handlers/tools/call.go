package tools

import (
	"VoiceCart/impl/core"
	"VoiceCart/internal/lib/api/response"
	"VoiceCart/internal/lib/api/validate"
	"VoiceCart/internal/lib/sl"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/sashabaranov/go-openai"
)

type CallRequest struct {
	SessionID     string            `json:"session_id" validate:"required"`
	RestaurantKey string            `json:"restaurant_key" validate:"required"`
	ToolCalls     []openai.ToolCall `json:"tool_calls" validate:"required,min=1"`
}

type CallResult struct {
	ToolCallID string      `json:"tool_call_id"`
	Name       string      `json:"name"`
	Result     interface{} `json:"result,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Call runs a batch of tool calls in order. A failing call is reported in its own
// result and does not stop the rest of the batch.
func Call(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.tools")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			logger.Error("tools not available")
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("Tools not available"))
			return
		}

		var req CallRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}
		if err := validate.Struct(&req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		logger = logger.With(slog.String("session", req.SessionID))

		session := core.ToolSession{SessionID: req.SessionID, RestaurantKey: req.RestaurantKey}
		results := make([]CallResult, 0, len(req.ToolCalls))
		for _, tc := range req.ToolCalls {
			res := CallResult{ToolCallID: tc.ID, Name: tc.Function.Name}
			out, err := handler.HandleToolCall(r.Context(), session, tc)
			if err != nil {
				logger.With(
					slog.String("tool", tc.Function.Name),
					sl.Err(err),
				).Warn("tool call failed")
				res.Error = err.Error()
			} else {
				res.Result = out
			}
			results = append(results, res)
		}

		render.JSON(w, r, response.Ok(results))
	}
}
