package agent

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/lexdraft-ai/lexdraft/internal/docgen"
	"github.com/lexdraft-ai/lexdraft/internal/store"
)

func TestRegistry_SchemaOrder(t *testing.T) {
	r := DefaultRegistry(store.NewMemory(), zap.NewNop())

	var names []string
	for _, s := range r.Schemas() {
		names = append(names, s.Name)
	}
	want := []string{"extract_information", "generate_document", "apply_edits"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("schema order mismatch (-want +got):\n%s", diff)
	}

	if _, ok := r.Get("generate_document"); !ok {
		t.Error("Get failed for a registered tool")
	}
	if _, ok := r.Get("nope"); ok {
		t.Error("Get returned a tool for an unknown name")
	}
}

func TestExtractInfoTool_DefaultsDocumentType(t *testing.T) {
	st := store.NewMemory()
	tool := &ExtractInfoTool{Store: st, Log: zap.NewNop()}

	raw, _ := json.Marshal(map[string]any{"extracted_data": map[string]any{"note": "x"}})
	result, err := tool.Execute(context.Background(), "s1", raw)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Payload["message"] != "Information extracted for Unknown" {
		t.Errorf("message = %v", result.Payload["message"])
	}
	if got := st.Extracted("s1", "Unknown"); got["note"] != "x" {
		t.Errorf("stored data = %v", got)
	}
}

func TestGenerateDocumentTool_MergesSessionData(t *testing.T) {
	st := store.NewMemory()
	st.MergeExtracted("s1", "NDA", completeNDAFields())
	tool := &GenerateDocumentTool{Store: st, Log: zap.NewNop()}

	// Call args carry only an override; the rest comes from the session.
	raw, _ := json.Marshal(map[string]any{
		"document_type":  "NDA",
		"extracted_data": map[string]any{"term": "7"},
	})
	result, err := tool.Execute(context.Background(), "s1", raw)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Payload["status"] != "success" {
		t.Fatalf("payload = %+v", result.Payload)
	}
	doc := result.Document
	if doc == "" {
		t.Fatal("no document text")
	}
	if !strings.Contains(doc, "period of 7 years") {
		t.Errorf("override did not reach the document")
	}
	if !strings.Contains(doc, "Acme Corp") || !strings.Contains(doc, "Bob Smith") {
		t.Errorf("session data did not reach the document")
	}
}

func TestEditOps_ReservedKeys(t *testing.T) {
	ops := editOps(map[string]any{
		"insert_clause":  "The parties shall arbitrate disputes.",
		"find":           "two (2) years",
		"replace":        "five (5) years",
		"effective_date": "2025-06-01",
	})

	want := docgen.EditOps{
		InsertClause: "The parties shall arbitrate disputes.",
		Find:         "two (2) years",
		Replace:      "five (5) years",
		Values:       map[string]any{"effective_date": "2025-06-01"},
	}
	if diff := cmp.Diff(want, ops); diff != "" {
		t.Errorf("editOps mismatch (-want +got):\n%s", diff)
	}
}
