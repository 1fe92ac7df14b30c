package tools

import (
	"VoiceCart/impl/core"
	"context"

	"github.com/sashabaranov/go-openai"
)

type Core interface {
	Tools() []openai.Tool
	HandleToolCall(ctx context.Context, session core.ToolSession, call openai.ToolCall) (interface{}, error)
}
