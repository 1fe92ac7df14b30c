package mcp

import (
	"VoiceCart/impl/core"
	"VoiceCart/internal/lib/sl"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/sashabaranov/go-openai"
)

const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeToolFailed     = -32000
)

// JSON-RPC request/response types
type RPCRequest struct {
	Jsonrpc string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type RPCResponse struct {
	Jsonrpc string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

type callParams struct {
	Name          string          `json:"name"`
	Arguments     json.RawMessage `json:"arguments"`
	SessionID     string          `json:"session_id"`
	RestaurantKey string          `json:"restaurant_key"`
}

// Handler serves the cart tools over JSON-RPC for agents that speak it instead of
// the batch endpoint.
func Handler(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.mcp"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req RPCRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Debug("invalid json", sl.Err(err))
			render.JSON(w, r, RPCResponse{Jsonrpc: "2.0", Error: &RPCError{Code: codeParseError, Message: "invalid json"}})
			return
		}
		logger = logger.With(slog.String("method", req.Method))

		res := RPCResponse{Jsonrpc: "2.0", ID: req.ID}

		switch req.Method {
		case "ping":
			res.Result = map[string]string{"msg": handler.Ping()}
		case "tools/list":
			res.Result = map[string]interface{}{"tools": handler.Tools()}
		case "tools/call":
			var params callParams
			if err := json.Unmarshal(req.Params, &params); err != nil {
				res.Error = &RPCError{Code: codeInvalidParams, Message: "invalid params: " + err.Error()}
				break
			}
			if params.SessionID == "" || params.Name == "" {
				res.Error = &RPCError{Code: codeInvalidParams, Message: "name and session_id are required"}
				break
			}

			arguments := ""
			if len(params.Arguments) > 0 && string(params.Arguments) != "null" {
				arguments = string(params.Arguments)
			}
			out, err := handler.HandleToolCall(r.Context(),
				core.ToolSession{SessionID: params.SessionID, RestaurantKey: params.RestaurantKey},
				openai.ToolCall{
					ID:       string(req.ID),
					Type:     openai.ToolTypeFunction,
					Function: openai.FunctionCall{Name: params.Name, Arguments: arguments},
				})
			if err != nil {
				logger.With(
					slog.String("tool", params.Name),
					sl.Err(err),
				).Warn("tool call failed")
				res.Error = &RPCError{Code: codeToolFailed, Message: err.Error()}
				break
			}
			res.Result = out
		default:
			res.Error = &RPCError{Code: codeMethodNotFound, Message: fmt.Sprintf("unknown method: %s", req.Method)}
		}

		render.JSON(w, r, res)
	}
}
