package docgen

import (
	"errors"
	"regexp"
	"strings"
	"testing"
)

var placeholderRe = regexp.MustCompile(`\[[A-Z][A-Z /_]*\]`)

func completeNDAData() map[string]any {
	return map[string]any{
		"disclosing_party": "Acme Corp",
		"receiving_party":  "Bob Smith",
		"effective_date":   "2025-01-01",
		"purpose":          "evaluating a potential business partnership",
		"term":             "3",
		"jurisdiction":     "New York",
	}
}

func TestRender_NDAComplete(t *testing.T) {
	doc, err := Render("NDA", completeNDAData())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	for _, want := range []string{"Acme Corp", "Bob Smith", "2025-01-01", "New York", "period of 3 years"} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
	if m := placeholderRe.FindString(doc); m != "" {
		t.Errorf("document contains unresolved placeholder %q", m)
	}
	if strings.Contains(doc, FieldMissing) {
		t.Error("document contains the Field Missing sentinel")
	}
	if !strings.Contains(doc, "9. GENERAL PROVISIONS") {
		t.Error("NDA skeleton missing General Provisions section")
	}
	if !strings.Contains(doc, "IN WITNESS WHEREOF") {
		t.Error("NDA skeleton missing witness clause")
	}
}

func TestRender_MissingFieldsIsStructuredError(t *testing.T) {
	_, err := Render("NDA", map[string]any{})
	if err == nil {
		t.Fatal("expected validation error for empty data")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %T, want *ValidationError", err)
	}
	if len(verr.Missing) != 6 {
		t.Errorf("missing = %v, want all 6 NDA fields", verr.Missing)
	}
	if !strings.Contains(verr.Error(), "missing fields:") {
		t.Errorf("error text = %q", verr.Error())
	}
}

func TestRender_AliasesFeedTemplate(t *testing.T) {
	doc, err := Render("Non-Disclosure Agreement", map[string]any{
		"party1":       "Acme Corp",
		"party2":       "Bob Smith",
		"date":         "2025-01-01",
		"purpose":      "due diligence",
		"term_years":   "5",
		"state":        "Delaware",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(doc, "period of 5 years") {
		t.Error("term alias did not reach the term clause")
	}
	if !strings.Contains(doc, "laws of Delaware") {
		t.Error("state alias did not reach the governing law clause")
	}
}

func TestRender_Employment(t *testing.T) {
	doc, err := Render("Employment Agreement", map[string]any{
		"employee_name": "Bob Smith",
		"employer":      "Acme Corp",
		"position":      "Chief Engineer",
		"start_date":    "2025-02-01",
		"salary":        "$180,000",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, want := range []string{"Bob Smith", "Acme Corp", "Chief Engineer", "2025-02-01", "$180,000"} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

func TestRender_DirectorWithCommittees(t *testing.T) {
	doc, err := Render("Director Appointment Resolution", map[string]any{
		"director_name":  "Jane Roe",
		"company_name":   "Acme Corp",
		"effective_date": "2025-03-01",
		"committees":     []any{"Audit", "Compensation"},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(doc, "- Audit\n") || !strings.Contains(doc, "- Compensation\n") {
		t.Errorf("committee lines missing:\n%s", doc)
	}
}

func TestRender_DirectorWithoutCommittees(t *testing.T) {
	doc, err := Render("Director Appointment", map[string]any{
		"director_name":  "Jane Roe",
		"company_name":   "Acme Corp",
		"effective_date": "2025-03-01",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(doc, "FURTHER RESOLVED") {
		t.Error("committee block rendered with no committees")
	}
}

func TestRender_GenericFallback(t *testing.T) {
	doc, err := Render("Partnership Charter", map[string]any{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(doc, "TERMS AND CONDITIONS") {
		t.Error("generic skeleton not used for unmatched type")
	}
	if !strings.Contains(doc, "1. GENERAL PROVISIONS") {
		t.Error("generic skeleton missing General Provisions section")
	}
}

func TestRender_Deterministic(t *testing.T) {
	a, err1 := Render("NDA", completeNDAData())
	b, err2 := Render("NDA", completeNDAData())
	if err1 != nil || err2 != nil {
		t.Fatalf("Render: %v / %v", err1, err2)
	}
	if a != b {
		t.Error("rendering is not deterministic")
	}
}
