package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/lexdraft-ai/lexdraft/internal/docgen"
	"github.com/lexdraft-ai/lexdraft/internal/provider"
	"github.com/lexdraft-ai/lexdraft/internal/store"
)

// ToolResult is what a tool hands back to the orchestrator. Payload becomes
// both the function_result event body and the tool message content appended
// to history; Document, when set, additionally produces a document event.
type ToolResult struct {
	Payload  map[string]any
	Document string
}

// Tool is one model-invocable function. Execute receives the raw argument
// JSON accumulated from the stream and decodes it into the tool's own
// argument type; anything undecodable is an error, never a guess.
type Tool interface {
	Schema() provider.ToolSchema
	Execute(ctx context.Context, sessionID string, args json.RawMessage) (*ToolResult, error)
}

// Registry holds the tools offered to the model, in registration order.
type Registry struct {
	tools map[string]Tool
	order []string
}

func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool)}
	for _, t := range tools {
		r.Register(t)
	}
	return r
}

func (r *Registry) Register(t Tool) {
	name := t.Schema().Name
	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = t
}

func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

func (r *Registry) Schemas() []provider.ToolSchema {
	schemas := make([]provider.ToolSchema, 0, len(r.order))
	for _, name := range r.order {
		schemas = append(schemas, r.tools[name].Schema())
	}
	return schemas
}

// DefaultRegistry wires the three document tools against a store.
func DefaultRegistry(st store.Store, log *zap.Logger) *Registry {
	return NewRegistry(
		&ExtractInfoTool{Store: st, Log: log},
		&GenerateDocumentTool{Store: st, Log: log},
		&ApplyEditsTool{Store: st, Log: log},
	)
}

// ExtractInfoArgs are the arguments of extract_information.
type ExtractInfoArgs struct {
	ExtractedData map[string]any `json:"extracted_data"`
	DocumentType  string         `json:"document_type"`
}

// ExtractInfoTool merges newly gathered fields into the session's
// extracted-data map for a document type.
type ExtractInfoTool struct {
	Store store.Store
	Log   *zap.Logger
}

func (t *ExtractInfoTool) Schema() provider.ToolSchema {
	return provider.ToolSchema{
		Name:        "extract_information",
		Description: "Extract and store structured information from the conversation for document generation. Use this whenever the user provides relevant details like names, dates, terms, conditions, or any data needed for the document.",
		Parameters: map[string]any{
			"extracted_data": map[string]any{
				"type":        "object",
				"description": "A structured object containing all relevant information extracted from the conversation. Include fields like names, dates, terms, conditions, parties involved, etc.",
			},
			"document_type": map[string]any{
				"type":        "string",
				"description": "The type of legal document being created (e.g., 'NDA', 'Employment Agreement', 'Director Appointment Resolution')",
			},
		},
		Required: []string{"extracted_data", "document_type"},
	}
}

func (t *ExtractInfoTool) Execute(ctx context.Context, sessionID string, raw json.RawMessage) (*ToolResult, error) {
	var args ExtractInfoArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("decode extract_information arguments: %w", err)
	}
	if args.DocumentType == "" {
		args.DocumentType = "Unknown"
	}

	merged := t.Store.MergeExtracted(sessionID, args.DocumentType, args.ExtractedData)
	t.Log.Info("extracted information",
		zap.String("session_id", sessionID),
		zap.String("document_type", args.DocumentType),
		zap.Int("fields", len(merged)))

	return &ToolResult{Payload: map[string]any{
		"status":         "success",
		"message":        fmt.Sprintf("Information extracted for %s", args.DocumentType),
		"extracted_data": merged,
	}}, nil
}

// GenerateDocumentArgs are the arguments of generate_document.
type GenerateDocumentArgs struct {
	DocumentType  string         `json:"document_type"`
	ExtractedData map[string]any `json:"extracted_data"`
}

// GenerateDocumentTool renders a complete document from the session's
// accumulated data merged with the call's own fields, saves it, and makes
// it the session's current document.
type GenerateDocumentTool struct {
	Store store.Store
	Log   *zap.Logger
}

func (t *GenerateDocumentTool) Schema() provider.ToolSchema {
	return provider.ToolSchema{
		Name:        "generate_document",
		Description: "Generate a complete legal document from the extracted information. Only call this when you have sufficient information to create a full document.",
		Parameters: map[string]any{
			"document_type": map[string]any{
				"type":        "string",
				"description": "The type of legal document to generate",
			},
			"extracted_data": map[string]any{
				"type":        "object",
				"description": "All the structured data needed to generate the document",
			},
		},
		Required: []string{"document_type", "extracted_data"},
	}
}

func (t *GenerateDocumentTool) Execute(ctx context.Context, sessionID string, raw json.RawMessage) (*ToolResult, error) {
	var args GenerateDocumentArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("decode generate_document arguments: %w", err)
	}
	if args.DocumentType == "" {
		args.DocumentType = "Unknown"
	}

	// Call arguments win over previously extracted values for the same key.
	merged := t.Store.MergeExtracted(sessionID, args.DocumentType, args.ExtractedData)

	text, err := docgen.Render(args.DocumentType, merged)
	if err != nil {
		var ve *docgen.ValidationError
		if errors.As(err, &ve) {
			t.Log.Warn("document generation rejected",
				zap.String("session_id", sessionID),
				zap.String("document_type", args.DocumentType),
				zap.Strings("missing_fields", ve.Missing))
			return &ToolResult{Payload: map[string]any{
				"status":         "error",
				"message":        err.Error(),
				"missing_fields": ve.Missing,
			}}, nil
		}
		return nil, err
	}

	id := t.Store.SaveDocument(sessionID, args.DocumentType, text)
	t.Log.Info("document generated",
		zap.String("session_id", sessionID),
		zap.String("document_id", id))

	return &ToolResult{
		Payload: map[string]any{
			"status":      "success",
			"document":    text,
			"document_id": id,
		},
		Document: text,
	}, nil
}

// ApplyEditsArgs are the arguments of apply_edits. The new_values object
// carries reserved keys insert_clause, find, and replace alongside plain
// field substitutions.
type ApplyEditsArgs struct {
	DocumentID      string         `json:"document_id"`
	EditDescription string         `json:"edit_description"`
	NewValues       map[string]any `json:"new_values"`
}

// ApplyEditsTool patches an existing document in place.
type ApplyEditsTool struct {
	Store store.Store
	Log   *zap.Logger
}

func (t *ApplyEditsTool) Schema() provider.ToolSchema {
	return provider.ToolSchema{
		Name:        "apply_edits",
		Description: "Apply edits or modifications to an existing document based on user requests. Use this when the user wants to change specific parts of a generated document.",
		Parameters: map[string]any{
			"document_id": map[string]any{
				"type":        "string",
				"description": "Identifier for the document to edit (use 'current' if only one document exists)",
			},
			"edit_description": map[string]any{
				"type":        "string",
				"description": "Description of what needs to be changed",
			},
			"new_values": map[string]any{
				"type":        "object",
				"description": "New values or changes to apply to the document",
			},
		},
		Required: []string{"edit_description", "new_values"},
	}
}

func (t *ApplyEditsTool) Execute(ctx context.Context, sessionID string, raw json.RawMessage) (*ToolResult, error) {
	var args ApplyEditsArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("decode apply_edits arguments: %w", err)
	}

	id, err := t.Store.ResolveDocumentID(sessionID, args.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("no document found to edit, generate a document first: %w", err)
	}
	before, err := t.Store.Document(sessionID, id)
	if err != nil {
		return nil, err
	}

	after := docgen.Patch(before, editOps(args.NewValues))
	if err := t.Store.UpdateDocument(sessionID, id, after); err != nil {
		return nil, err
	}

	t.Log.Info("document edited",
		zap.String("session_id", sessionID),
		zap.String("document_id", id),
		zap.String("summary", docgen.EditSummary(before, after)))

	return &ToolResult{
		Payload: map[string]any{
			"status":      "success",
			"document":    after,
			"document_id": id,
		},
		Document: after,
	}, nil
}

func editOps(newValues map[string]any) docgen.EditOps {
	ops := docgen.EditOps{Values: make(map[string]any, len(newValues))}
	for key, value := range newValues {
		switch key {
		case "insert_clause":
			ops.InsertClause, _ = value.(string)
		case "find":
			ops.Find, _ = value.(string)
		case "replace":
			ops.Replace, _ = value.(string)
		default:
			ops.Values[key] = value
		}
	}
	return ops
}
