package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/lexdraft-ai/lexdraft/internal/provider"
	"github.com/lexdraft-ai/lexdraft/internal/store"
)

// maxToolRounds bounds the dispatch/follow-up loop so a model that keeps
// calling tools cannot stream forever.
const maxToolRounds = 8

// ValidationError rejects a malformed turn request before any streaming
// starts, so the server can answer with a plain HTTP error.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// TurnRequest describes one user turn.
type TurnRequest struct {
	SessionID  string
	ChatID     string
	Message    string
	Regenerate bool
}

// Agent runs conversation turns: it streams model output, dispatches tool
// calls as they complete, feeds results back for follow-up streaming, and
// persists the resulting history.
type Agent struct {
	provider provider.Provider
	store    store.Store
	tools    *Registry
	log      *zap.Logger
	model    string
}

func New(p provider.Provider, st store.Store, tools *Registry, log *zap.Logger, model string) *Agent {
	if model == "" {
		model = p.DefaultModel()
	}
	return &Agent{provider: p, store: st, tools: tools, log: log, model: model}
}

// RunTurn validates the request, persists the incoming user message, and
// starts the streaming turn. Validation failures are returned synchronously;
// everything after that is reported on the event channel, which is closed
// when the turn completes.
func (a *Agent) RunTurn(ctx context.Context, req TurnRequest) (string, <-chan StreamEvent, error) {
	chat, err := a.store.GetChat(req.SessionID, req.ChatID, true)
	if err != nil {
		return "", nil, err
	}
	history := chat.Messages

	if req.Regenerate {
		if len(history) == 0 || history[len(history)-1].Role != provider.RoleUser {
			return "", nil, &ValidationError{Reason: "nothing to regenerate"}
		}
	} else {
		message := strings.TrimSpace(req.Message)
		if message == "" {
			return "", nil, &ValidationError{Reason: "message is required"}
		}
		userMsg := provider.Message{Role: provider.RoleUser, Content: req.Message}
		if err := a.store.AppendMessage(req.SessionID, chat.ID, userMsg); err != nil {
			return "", nil, err
		}
		history = append(history, userMsg)

		if chat.Title == store.DefaultTitle {
			if title := DeriveTitle(ctx, a.provider, a.log, message); title != "" {
				if err := a.store.SetTitle(req.SessionID, chat.ID, title); err != nil {
					a.log.Warn("set chat title", zap.Error(err))
				}
			}
		}
	}

	events := make(chan StreamEvent, 16)
	go a.run(ctx, req.SessionID, chat.ID, history, events)
	return chat.ID, events, nil
}

// RetitleChat regenerates a chat's title after its first message changed.
func (a *Agent) RetitleChat(ctx context.Context, sessionID, chatID, message string) (string, error) {
	title := DeriveTitle(ctx, a.provider, a.log, message)
	if title == "" {
		return "", nil
	}
	if err := a.store.SetTitle(sessionID, chatID, title); err != nil {
		return "", err
	}
	return title, nil
}

func (a *Agent) run(ctx context.Context, sessionID, chatID string, history []provider.Message, events chan<- StreamEvent) {
	defer close(events)

	for round := 0; round < maxToolRounds; round++ {
		text, calls, fatal := a.streamOnce(ctx, history, events)
		if fatal {
			return
		}

		if len(calls) == 0 {
			if text != "" {
				a.appendMessage(sessionID, chatID, &history, provider.Message{
					Role:    provider.RoleAssistant,
					Content: text,
				})
			}
			return
		}

		a.appendMessage(sessionID, chatID, &history, provider.Message{
			Role:      provider.RoleAssistant,
			Content:   text,
			ToolCalls: calls,
		})

		for _, call := range calls {
			result := a.dispatch(ctx, sessionID, call, events)
			a.appendMessage(sessionID, chatID, &history, provider.Message{
				Role:       provider.RoleTool,
				Content:    result,
				ToolCallID: call.ID,
			})
		}
	}

	a.log.Warn("tool round limit reached",
		zap.String("session_id", sessionID),
		zap.String("chat_id", chatID))
	events <- errorEvent("tool call limit reached for this turn")
}

// streamOnce runs one model stream to completion, forwarding text deltas and
// tool-call announcements. It returns the assembled text, the completed tool
// calls in arrival order, and whether the turn must stop.
func (a *Agent) streamOnce(ctx context.Context, history []provider.Message, events chan<- StreamEvent) (string, []provider.ToolCall, bool) {
	stream, err := a.provider.Chat(ctx, &provider.ChatRequest{
		Model:        a.model,
		Messages:     history,
		Tools:        a.tools.Schemas(),
		SystemPrompt: systemPrompt,
	})
	if err != nil {
		events <- errorEvent(err.Error())
		return "", nil, true
	}

	var text strings.Builder
	var calls []provider.ToolCall

	for ev := range stream {
		switch ev.Type {
		case provider.EventTextDelta:
			text.WriteString(ev.TextDelta)
			events <- contentEvent(ev.TextDelta)

		case provider.EventToolCallStart:
			events <- functionCallEvent(ev.ToolName)

		case provider.EventToolCallDone:
			calls = append(calls, *ev.ToolCall)

		case provider.EventError:
			var argErr *provider.ToolArgumentError
			if errors.As(ev.Err, &argErr) {
				// The call is abandoned, the turn continues.
				events <- errorEvent(fmt.Sprintf("Error parsing function arguments: %v", argErr.Err))
				continue
			}
			events <- errorEvent(ev.Err.Error())
			return "", nil, true

		case provider.EventDone:
			if ev.Usage != nil {
				a.log.Debug("stream complete",
					zap.Int("input_tokens", ev.Usage.InputTokens),
					zap.Int("output_tokens", ev.Usage.OutputTokens))
			}
		}
	}

	return text.String(), calls, false
}

// dispatch executes one tool call and emits its events. It always returns
// tool-message content so the model sees an outcome for every call it made,
// including failures.
func (a *Agent) dispatch(ctx context.Context, sessionID string, call provider.ToolCall, events chan<- StreamEvent) string {
	tool, ok := a.tools.Get(call.Name)
	if !ok {
		events <- errorEvent(fmt.Sprintf("Error executing function: unknown function %q", call.Name))
		return marshalPayload(map[string]any{
			"status":  "error",
			"message": fmt.Sprintf("unknown function: %s", call.Name),
		})
	}

	result, err := tool.Execute(ctx, sessionID, call.Arguments)
	if err != nil {
		a.log.Warn("tool execution failed",
			zap.String("function", call.Name),
			zap.Error(err))
		events <- errorEvent(fmt.Sprintf("Error executing function: %v", err))
		return marshalPayload(map[string]any{
			"status":  "error",
			"message": err.Error(),
		})
	}

	events <- functionResultEvent(call.Name, result.Payload)
	if result.Document != "" {
		events <- documentEvent(result.Document)
	}
	return marshalPayload(result.Payload)
}

func (a *Agent) appendMessage(sessionID, chatID string, history *[]provider.Message, msg provider.Message) {
	*history = append(*history, msg)
	if err := a.store.AppendMessage(sessionID, chatID, msg); err != nil {
		a.log.Error("append message", zap.Error(err))
	}
}

func marshalPayload(payload map[string]any) string {
	b, err := json.Marshal(payload)
	if err != nil {
		return `{"status":"error","message":"unserializable tool result"}`
	}
	return string(b)
}
