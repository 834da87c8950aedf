package docgen

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		docType  string
		expected Category
	}{
		{"NDA", CategoryNDA},
		{"nda", CategoryNDA},
		{"Non-Disclosure Agreement", CategoryNDA},
		{"Mutual NDA", CategoryNDA},
		{"Employment Agreement", CategoryEmployment},
		{"employment contract", CategoryEmployment},
		{"Director Appointment Resolution", CategoryDirector},
		{"Board Appointment", CategoryDirector},
		{"Lease Agreement", CategoryGeneric},
		{"", CategoryGeneric},
	}
	for _, tt := range tests {
		if got := Categorize(tt.docType); got != tt.expected {
			t.Errorf("Categorize(%q) = %v, want %v", tt.docType, got, tt.expected)
		}
	}
}

// Resolving a field through a non-canonical alias must yield the same result
// as providing the canonical key, first-match-wins in declared order.
func TestResolve_AliasSymmetry(t *testing.T) {
	tests := []struct {
		name      string
		raw       map[string]any
		canonical string
		expected  string
	}{
		{"canonical key", map[string]any{"disclosing_party": "Acme"}, "disclosing_party", "Acme"},
		{"alias disclosing_party_name", map[string]any{"disclosing_party_name": "Acme"}, "disclosing_party", "Acme"},
		{"alias party1", map[string]any{"party1": "Acme"}, "disclosing_party", "Acme"},
		{"alias company_name", map[string]any{"company_name": "Acme"}, "disclosing_party", "Acme"},
		{"canonical wins over alias", map[string]any{"disclosing_party": "Acme", "party1": "Other"}, "disclosing_party", "Acme"},
		{"earlier alias wins", map[string]any{"party1": "First", "company_name": "Second"}, "disclosing_party", "First"},
		{"term via term_years", map[string]any{"term_years": "3"}, "term", "3"},
		{"term via numeric term_years", map[string]any{"term_years": float64(3)}, "term", "3"},
		{"jurisdiction via state", map[string]any{"state": "New York"}, "jurisdiction", "New York"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve("NDA", tt.raw)
			if got := res.Fields[tt.canonical]; got != tt.expected {
				t.Errorf("resolved %s = %q, want %q", tt.canonical, got, tt.expected)
			}
			for _, missing := range res.Missing {
				if missing == tt.canonical {
					t.Errorf("%s reported missing despite alias value", tt.canonical)
				}
			}
		})
	}
}

func TestResolve_EmptyValuesNotTruthy(t *testing.T) {
	res := Resolve("NDA", map[string]any{
		"disclosing_party": "",
		"receiving_party":  "   ",
		"effective_date":   nil,
	})
	for _, f := range []string{"disclosing_party", "receiving_party", "effective_date"} {
		if _, ok := res.Fields[f]; ok {
			t.Errorf("%s resolved from an empty value", f)
		}
	}
}

func TestValidateRequired_Idempotent(t *testing.T) {
	complete := map[string]any{
		"disclosing_party": "Acme Corp",
		"receiving_party":  "Bob Smith",
		"effective_date":   "2025-01-01",
		"purpose":          "evaluating a partnership",
		"term":             "3",
		"jurisdiction":     "New York",
	}
	if missing := ValidateRequired("NDA", complete); len(missing) != 0 {
		t.Errorf("valid data reported missing fields: %v", missing)
	}

	// Empty data returns all N required fields.
	missing := ValidateRequired("NDA", map[string]any{})
	want := []string{"disclosing_party", "receiving_party", "effective_date", "purpose", "term", "jurisdiction"}
	if diff := cmp.Diff(want, missing); diff != "" {
		t.Errorf("missing fields mismatch (-want +got):\n%s", diff)
	}

	// Validating twice gives the same answer.
	if diff := cmp.Diff(missing, ValidateRequired("NDA", map[string]any{})); diff != "" {
		t.Errorf("validation not idempotent:\n%s", diff)
	}
}

func TestValidateRequired_GenericHasNoRequiredFields(t *testing.T) {
	if missing := ValidateRequired("Lease Agreement", map[string]any{}); len(missing) != 0 {
		t.Errorf("generic type reported required fields: %v", missing)
	}
}

func TestResolved_GetFallbacks(t *testing.T) {
	res := Resolve("NDA", map[string]any{})

	// Parties and purpose have no usable default at all.
	if got := res.Get("disclosing_party"); got != FieldMissing {
		t.Errorf("disclosing_party fallback = %q, want sentinel", got)
	}
	if got := res.Get("purpose"); got != FieldMissing {
		t.Errorf("purpose fallback = %q, want sentinel", got)
	}
	// Other fields fall back to bracketed placeholders or a default.
	if got := res.Get("effective_date"); got != "[EFFECTIVE DATE]" {
		t.Errorf("effective_date fallback = %q", got)
	}
	if got := res.Get("term"); got != "2" {
		t.Errorf("term fallback = %q", got)
	}
}

func TestResolve_DirectorCommittees(t *testing.T) {
	res := Resolve("Director Appointment", map[string]any{
		"director_name": "Jane Roe",
		"company_name":  "Acme Corp",
		"effective_date": "2025-03-01",
		"committees":    []any{"Audit", "Compensation"},
	})
	if len(res.Missing) != 0 {
		t.Fatalf("unexpected missing fields: %v", res.Missing)
	}
	want := []string{"Audit", "Compensation"}
	if diff := cmp.Diff(want, res.Lists["committees"]); diff != "" {
		t.Errorf("committees mismatch:\n%s", diff)
	}
}
