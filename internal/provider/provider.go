// Package provider defines the unified interface and shared types for all LLM backends.
// Each adapter (openai.go, anthropic.go) implements the Provider interface,
// normalizing vendor-specific streaming responses into a unified Event sequence.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
)

// ── Message types ────────────────────────────────────────────────────────────

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is a model-issued request to invoke a named tool.
// Arguments is the fully assembled JSON produced by the stream accumulator.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// Message is a single message in the conversation history.
// Content may be empty when an assistant message solely carries tool calls.
// ToolCallID correlates a tool message with the call it answers.
type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ── Tool schema ──────────────────────────────────────────────────────────────

// ToolSchema describes a tool sent to the LLM (JSON Schema format).
type ToolSchema struct {
	Name        string
	Description string
	Parameters  map[string]any // JSON Schema properties
	Required    []string
}

// ── Request types ────────────────────────────────────────────────────────────

// ChatRequest is the unified request format sent to a provider.
type ChatRequest struct {
	Model        string
	Messages     []Message
	Tools        []ToolSchema
	SystemPrompt string
	MaxTokens    int
}

// ── Event types (streaming output) ───────────────────────────────────────────

type EventType int

const (
	// EventTextDelta: incremental text output from the LLM.
	EventTextDelta EventType = iota

	// EventToolCallStart: a tool call's name first became known mid-stream.
	EventToolCallStart

	// EventToolCallDone: a complete tool call (emitted after JSON reassembly).
	EventToolCallDone

	// EventDone: end of this message turn, includes token usage when reported.
	EventDone

	// EventError: an error occurred.
	EventError
)

// Event is the unified streaming event emitted by a provider.
type Event struct {
	Type EventType

	// EventTextDelta
	TextDelta string

	// EventToolCallStart
	ToolName string

	// EventToolCallDone
	ToolCall *ToolCall

	// EventDone
	Usage *Usage

	// EventError
	Err error
}

// Usage records token consumption for an API call.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// ToolArgumentError reports a tool call whose streamed argument buffer
// never assembled into valid JSON. The call is abandoned; the turn continues.
type ToolArgumentError struct {
	ToolName string
	Err      error
}

func (e *ToolArgumentError) Error() string {
	return fmt.Sprintf("parsing arguments for tool %q: %v", e.ToolName, e.Err)
}

func (e *ToolArgumentError) Unwrap() error { return e.Err }

// ── Provider interface ───────────────────────────────────────────────────────

// Provider is the unified interface for all LLM backends.
// Implementors are responsible for:
//  1. Converting the unified ChatRequest into the vendor's API request format
//  2. Normalizing the vendor's stream fragments into Chunks and feeding them
//     through an Accumulator to produce the unified Event sequence
//  3. Surfacing vendor errors as EventError (no retry policy at this layer)
type Provider interface {
	// Chat initiates a streaming conversation.
	// The returned channel emits Events until EventDone or EventError, then closes.
	// The caller must fully consume the channel to avoid goroutine leaks.
	Chat(ctx context.Context, req *ChatRequest) (<-chan Event, error)

	// Complete performs a small non-streaming completion (no tools).
	// Used for auxiliary calls like chat title generation.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// Name returns the provider identifier, e.g. "openai", "anthropic".
	Name() string

	// DefaultModel returns the default model.
	DefaultModel() string
}
