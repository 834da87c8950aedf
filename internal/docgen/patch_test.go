package docgen

import (
	"strings"
	"testing"
)

func renderedNDA(t *testing.T) string {
	t.Helper()
	doc, err := Render("NDA", completeNDAData())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	return doc
}

func TestPatch_UnmatchedKeyIsNoOp(t *testing.T) {
	doc := renderedNDA(t)
	edited := Patch(doc, EditOps{Values: map[string]any{"unknown_field": "x"}})
	if edited != doc {
		t.Error("unmatched key changed the document")
	}
}

func TestPatch_DurationRewritesAllOccurrences(t *testing.T) {
	doc := renderedNDA(t)
	if got := strings.Count(doc, "period of 3 years"); got != 2 {
		t.Fatalf("fixture expectation: %d duration phrases, want 2", got)
	}

	edited := Patch(doc, EditOps{Values: map[string]any{"term_years": "5"}})

	if got := strings.Count(edited, "period of 5 years"); got != 2 {
		t.Errorf("edited document has %d rewritten duration phrases, want 2", got)
	}
	if strings.Contains(edited, "period of 3 years") {
		t.Error("old duration phrase survived the edit")
	}

	// Everything outside the duration phrases is untouched.
	want := strings.ReplaceAll(doc, "period of 3 years", "period of 5 years")
	if edited != want {
		t.Error("edit modified text outside the duration phrases")
	}
}

func TestPatch_DateReplacesFirstOccurrence(t *testing.T) {
	doc := renderedNDA(t)
	edited := Patch(doc, EditOps{Values: map[string]any{"effective_date": "2026-06-30"}})
	if !strings.Contains(edited, "entered into on 2026-06-30") {
		t.Error("first ISO date not rewritten")
	}
}

func TestPatch_DatePlaceholderTargets(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"effective [DATE] here", "effective 2025-12-01 here"},
		{"starts [START DATE] now", "starts 2025-12-01 now"},
		{"as of [EFFECTIVE DATE].", "as of 2025-12-01."},
		{"on 2024-01-01 and 2024-02-02", "on 2025-12-01 and 2024-02-02"},
	}
	for _, tt := range tests {
		if got := Patch(tt.text, EditOps{Values: map[string]any{"date": "2025-12-01"}}); got != tt.want {
			t.Errorf("Patch(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestPatch_NameReplacesEveryPlaceholder(t *testing.T) {
	text := "between [PARTY NAME] and later [PARTY NAME], witnessed by [NAME]"
	got := Patch(text, EditOps{Values: map[string]any{"party_name": "Acme Corp"}})
	want := "between Acme Corp and later Acme Corp, witnessed by Acme Corp"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPatch_DefaultKeyPlaceholder(t *testing.T) {
	text := "governed by the laws of [JURISDICTION]"
	got := Patch(text, EditOps{Values: map[string]any{"jurisdiction": "Delaware"}})
	if got != "governed by the laws of Delaware" {
		t.Errorf("got %q", got)
	}
}

func TestPatch_DefaultKeyFallsBackToSentinel(t *testing.T) {
	text := "for the purpose of " + FieldMissing + "; and"
	got := Patch(text, EditOps{Values: map[string]any{"purpose": "joint research"}})
	if got != "for the purpose of joint research; and" {
		t.Errorf("got %q", got)
	}
}

func TestPatch_LiteralSubstitution(t *testing.T) {
	doc := renderedNDA(t)
	edited := Patch(doc, EditOps{Find: "acme corp", Replace: "Acme Holdings LLC"})

	// Case-insensitive, first occurrence only.
	if !strings.Contains(edited, "Acme Holdings LLC") {
		t.Error("literal substitution did not apply")
	}
	if strings.Count(edited, "Acme Holdings LLC") != 1 {
		t.Error("literal substitution applied more than once")
	}
	if strings.Count(edited, "Acme Corp") != strings.Count(doc, "Acme Corp")-1 {
		t.Error("unexpected number of original occurrences remain")
	}
}

func TestPatch_LiteralSubstitutionEscapesPattern(t *testing.T) {
	text := "fee is $1,000 (USD)"
	got := Patch(text, EditOps{Find: "$1,000 (USD)", Replace: "$2,500 (USD)"})
	if got != "fee is $2,500 (USD)" {
		t.Errorf("got %q", got)
	}
}

func TestInsertClause_RenumbersGeneralProvisions(t *testing.T) {
	doc := renderedNDA(t)
	clause := "The parties shall meet quarterly to review the handling of Confidential Information."
	edited := Patch(doc, EditOps{InsertClause: clause})

	if !strings.Contains(edited, "9. ADDITIONAL COVENANT") {
		t.Error("covenant clause not numbered with the old section number")
	}
	if !strings.Contains(edited, "10. GENERAL PROVISIONS") {
		t.Error("General Provisions not renumbered by exactly 1")
	}
	if strings.Contains(edited, "9. GENERAL PROVISIONS") {
		t.Error("old General Provisions heading survived")
	}
	if !strings.Contains(edited, clause) {
		t.Error("clause text missing")
	}

	// All text outside the insertion point is preserved byte-for-byte.
	idx := strings.Index(doc, "9. GENERAL PROVISIONS")
	if !strings.HasPrefix(edited, doc[:idx]) {
		t.Error("text before the insertion point changed")
	}
	tail := doc[idx+len("9. GENERAL PROVISIONS"):]
	if !strings.HasSuffix(edited, tail) {
		t.Error("text after the insertion point changed")
	}
}

func TestInsertClause_FallbackAnchor(t *testing.T) {
	text := "SHORT AGREEMENT\n\nSome terms.\n\nIN WITNESS WHEREOF, the parties sign below.\n"
	edited := Patch(text, EditOps{InsertClause: "An extra covenant."})

	covIdx := strings.Index(edited, "ADDITIONAL COVENANT")
	witIdx := strings.Index(edited, "IN WITNESS WHEREOF")
	if covIdx < 0 || witIdx < 0 || covIdx > witIdx {
		t.Errorf("clause not inserted before the witness marker:\n%s", edited)
	}
}

func TestInsertClause_NoAnchorAppends(t *testing.T) {
	text := "RESOLUTION\n\nSomething resolved.\n"
	edited := Patch(text, EditOps{InsertClause: "An extra covenant."})
	if !strings.HasPrefix(edited, text) {
		t.Error("original text changed")
	}
	if !strings.HasSuffix(strings.TrimRight(edited, "\n"), "An extra covenant.") {
		t.Errorf("clause not appended:\n%s", edited)
	}
}

func TestPatch_OpsApplyInFixedOrder(t *testing.T) {
	doc := renderedNDA(t)
	edited := Patch(doc, EditOps{
		InsertClause: "A new quarterly review obligation.",
		Find:         "bob smith",
		Replace:      "Robert Smith",
		Values:       map[string]any{"term": "7"},
	})
	if !strings.Contains(edited, "10. GENERAL PROVISIONS") {
		t.Error("clause insertion skipped")
	}
	if !strings.Contains(edited, "Robert Smith") {
		t.Error("literal substitution skipped")
	}
	if strings.Count(edited, "period of 7 years") != 2 {
		t.Error("keyed substitution skipped")
	}
}

func TestEditSummary(t *testing.T) {
	if got := EditSummary("same", "same"); got != "no changes" {
		t.Errorf("EditSummary on identical text = %q", got)
	}
	got := EditSummary("period of 3 years", "period of 5 years")
	if !strings.Contains(got, "added") || !strings.Contains(got, "removed") {
		t.Errorf("EditSummary = %q", got)
	}
}
