package provider

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Chunk is one normalized fragment of a model stream. Adapters convert
// vendor-specific deltas into Chunks so reassembly logic lives in one place
// and can be tested without a live stream.
type Chunk struct {
	// ContentDelta carries incremental assistant text, if any.
	ContentDelta string

	// ToolDelta carries a fragment of a tool invocation, if any.
	ToolDelta *ToolDelta

	// FinishReason is non-empty on the terminal fragment of a response
	// ("tool_calls" when the model stopped to invoke tools).
	FinishReason string
}

// ToolDelta is a fragment of a streamed tool call. The model delivers id and
// name once and the argument JSON as an incremental string that is not valid
// JSON until fully concatenated.
type ToolDelta struct {
	Index     int
	ID        string
	Name      string
	Arguments string
}

// FinishToolCalls is the terminal signal for a response that stopped to
// invoke tools.
const FinishToolCalls = "tool_calls"

type pendingCall struct {
	id      string
	name    string
	started bool // EventToolCallStart already emitted
	args    strings.Builder
}

// Accumulator reassembles fragmented tool-call payloads from a chunk
// sequence into complete, parseable calls. It is a pure state reducer:
// Feed returns the events produced by exactly one chunk, and the same
// chunk sequence always yields the same events regardless of how the
// underlying text was partitioned into fragments.
//
// At most one call is expected in flight at a time, but calls are keyed
// by stream index so an unexpected second call is still assembled correctly.
type Accumulator struct {
	pending map[int]*pendingCall
	order   []int
	text    strings.Builder
}

// NewAccumulator returns an empty accumulator for one streamed response.
func NewAccumulator() *Accumulator {
	return &Accumulator{pending: make(map[int]*pendingCall)}
}

// Feed consumes one chunk and returns the events it produced, in order.
func (a *Accumulator) Feed(c Chunk) []Event {
	var events []Event

	if c.ContentDelta != "" {
		a.text.WriteString(c.ContentDelta)
		events = append(events, Event{Type: EventTextDelta, TextDelta: c.ContentDelta})
	}

	if d := c.ToolDelta; d != nil {
		pc, ok := a.pending[d.Index]
		if !ok {
			pc = &pendingCall{}
			a.pending[d.Index] = pc
			a.order = append(a.order, d.Index)
		}
		if d.ID != "" {
			pc.id = d.ID
		}
		if d.Name != "" {
			pc.name = d.Name
			if !pc.started {
				pc.started = true
				events = append(events, Event{Type: EventToolCallStart, ToolName: pc.name})
			}
		}
		if d.Arguments != "" {
			pc.args.WriteString(d.Arguments)
		}
	}

	if c.FinishReason != "" {
		events = append(events, a.Flush()...)
	}

	return events
}

// Flush assembles all pending calls and returns their terminal events.
// A call whose argument buffer is not valid JSON yields an EventError
// carrying a *ToolArgumentError and is abandoned, not dispatched.
// Flush clears the pending state, so calling it again with no new
// fragments is a no-op; adapters call it on the terminal fragment and
// again as a fallback when a stream ends without one.
func (a *Accumulator) Flush() []Event {
	var events []Event
	for _, idx := range a.order {
		pc := a.pending[idx]
		raw := pc.args.String()
		if raw == "" {
			raw = "{}"
		}
		if !json.Valid([]byte(raw)) {
			events = append(events, Event{
				Type: EventError,
				Err:  &ToolArgumentError{ToolName: pc.name, Err: fmt.Errorf("invalid JSON: %q", truncateForError(raw))},
			})
			continue
		}
		events = append(events, Event{
			Type: EventToolCallDone,
			ToolCall: &ToolCall{
				ID:        pc.id,
				Name:      pc.name,
				Arguments: json.RawMessage(raw),
			},
		})
	}
	a.pending = make(map[int]*pendingCall)
	a.order = nil
	return events
}

// Pending reports whether a tool call is still being assembled.
// A stream abandoned mid-accumulation must not dispatch its partial call.
func (a *Accumulator) Pending() bool {
	return len(a.order) > 0
}

// Text returns the running assistant response text accumulated so far.
func (a *Accumulator) Text() string {
	return a.text.String()
}

func truncateForError(s string) string {
	const max = 120
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
