// internal/app/features/chat/handler.go
package chat

import (
	"github.com/dalemusser/compass/internal/app/system/llm"
	"github.com/dalemusser/compass/internal/app/system/ratelimit"
	"github.com/dalemusser/compass/internal/app/system/sitecontent"
	"go.uber.org/zap"
)

// Handler proxies the landing page chat widget to the completion API.
type Handler struct {
	LLM     *llm.Client
	Content *sitecontent.Content
	Limiter *ratelimit.Limiter
	Log     *zap.Logger
}

func NewHandler(client *llm.Client, content *sitecontent.Content, limiter *ratelimit.Limiter, logger *zap.Logger) *Handler {
	return &Handler{
		LLM:     client,
		Content: content,
		Limiter: limiter,
		Log:     logger,
	}
}
