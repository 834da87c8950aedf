package agent

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lexdraft-ai/lexdraft/internal/provider"
)

const (
	titleMaxLen  = 50
	titleTimeout = 10 * time.Second
)

// DeriveTitle produces a chat subject line from the first user message. It
// asks the model for a concise title and falls back to truncating the
// message when the model is unavailable or returns something unusable.
func DeriveTitle(ctx context.Context, p provider.Provider, log *zap.Logger, message string) string {
	message = strings.TrimSpace(message)
	if message == "" {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, titleTimeout)
	defer cancel()

	title, err := p.Complete(ctx, titleSystemPrompt, "Create a short title for this legal document request: "+message)
	if err != nil {
		log.Debug("title generation failed, using truncation", zap.Error(err))
		return truncateTitle(message)
	}
	title = strings.Trim(strings.TrimSpace(title), `"'`)
	if title == "" || len(title) > titleMaxLen {
		return truncateTitle(message)
	}
	return title
}

func truncateTitle(message string) string {
	if len(message) > 47 {
		return message[:47] + "..."
	}
	return message
}
