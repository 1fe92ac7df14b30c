package mcp

import (
	"VoiceCart/impl/core"
	"context"

	"github.com/sashabaranov/go-openai"
)

type Core interface {
	Ping() string
	Tools() []openai.Tool
	HandleToolCall(ctx context.Context, session core.ToolSession, call openai.ToolCall) (interface{}, error)
}
