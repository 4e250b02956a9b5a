// internal/app/features/chat/chat.go
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/compass/internal/app/system/limits"
	"github.com/dalemusser/compass/internal/app/system/llm"
	"github.com/dalemusser/compass/internal/app/system/ratelimit"
	"github.com/dalemusser/compass/internal/app/system/timeouts"
	"go.uber.org/zap"
)

const (
	msgInvalidBody = "Invalid request body."
	msgThrottled   = "Too many requests."
	msgMissingKey  = "OpenAI API key is missing."
	msgUpstream    = "OpenAI request failed."
	msgUnreachable = "Unable to reach OpenAI."
	msgNoReply     = "No response from assistant."
)

type chatRequest struct {
	Messages []llm.Message `json:"messages"`
}

type chatResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(chatResponse{Message: msg})
}

// HandleChat handles POST /api/chat. Upstream error detail stays in the log;
// the caller only sees the fixed messages above.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	if !h.LLM.Configured() {
		h.Log.Error("chat request with no API key configured")
		writeJSON(w, http.StatusInternalServerError, msgMissingKey)
		return
	}

	if h.Limiter != nil && !h.Limiter.Allow(ratelimit.ClientIP(r)) {
		writeJSON(w, http.StatusTooManyRequests, msgThrottled)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxChatBodySize)
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Upstream())
	defer cancel()

	reply, err := h.LLM.Complete(ctx, h.Content.SystemPrompt(), llm.PrepareHistory(req.Messages))
	if err != nil {
		var upErr *llm.UpstreamError
		switch {
		case errors.Is(err, llm.ErrMissingKey):
			writeJSON(w, http.StatusInternalServerError, msgMissingKey)
		case errors.As(err, &upErr):
			writeJSON(w, upErr.StatusCode, msgUpstream)
		default:
			h.Log.Warn("chat upstream unreachable", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, msgUnreachable)
		}
		return
	}

	if reply == "" {
		reply = msgNoReply
	}
	writeJSON(w, http.StatusOK, reply)
}
