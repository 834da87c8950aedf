package agent

// StreamEvent is one frame of a turn's output stream. The server encodes
// each event as an SSE data line; the zero fields are omitted so every
// event type keeps the wire shape the frontend expects.
type StreamEvent struct {
	Type         string `json:"type"`
	Content      string `json:"content,omitempty"`
	FunctionName string `json:"function_name,omitempty"`
	Result       any    `json:"result,omitempty"`
	Message      string `json:"message,omitempty"`
}

const (
	// EventContent carries an assistant text delta.
	EventContent = "content"
	// EventFunctionCall announces a tool invocation as soon as its name is known.
	EventFunctionCall = "function_call"
	// EventFunctionResult carries a completed tool's structured result.
	EventFunctionResult = "function_result"
	// EventDocument carries full rendered document text.
	EventDocument = "document"
	// EventError carries a turn or tool failure message.
	EventError = "error"
)

func contentEvent(delta string) StreamEvent {
	return StreamEvent{Type: EventContent, Content: delta}
}

func functionCallEvent(name string) StreamEvent {
	return StreamEvent{Type: EventFunctionCall, FunctionName: name}
}

func functionResultEvent(name string, result any) StreamEvent {
	return StreamEvent{Type: EventFunctionResult, FunctionName: name, Result: result}
}

func documentEvent(text string) StreamEvent {
	return StreamEvent{Type: EventDocument, Content: text}
}

func errorEvent(message string) StreamEvent {
	return StreamEvent{Type: EventError, Message: message}
}
