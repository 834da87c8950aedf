// Package docgen implements legal document synthesis: canonical field
// resolution over loosely-named extracted data, template rendering per
// document category, and in-place patching of rendered documents.
package docgen

import (
	"fmt"
	"strconv"
	"strings"
)

// Category is the template family a document type maps to.
type Category int

const (
	CategoryGeneric Category = iota
	CategoryNDA
	CategoryEmployment
	CategoryDirector
)

func (c Category) String() string {
	switch c {
	case CategoryNDA:
		return "NDA"
	case CategoryEmployment:
		return "Employment Agreement"
	case CategoryDirector:
		return "Director Appointment"
	default:
		return "Generic"
	}
}

// Categorize maps a free-form document type to a template category by
// case-insensitive substring match. Unmatched types fall through to Generic.
func Categorize(documentType string) Category {
	t := strings.ToLower(documentType)
	switch {
	case strings.Contains(t, "nda"), strings.Contains(t, "non-disclosure"), strings.Contains(t, "nondisclosure"):
		return CategoryNDA
	case strings.Contains(t, "director"), strings.Contains(t, "appointment"):
		return CategoryDirector
	case strings.Contains(t, "employment"):
		return CategoryEmployment
	default:
		return CategoryGeneric
	}
}

// FieldMissing marks a field that had no fallback default at all,
// distinguishable from a bracketed placeholder.
const FieldMissing = "**Field Missing**"

// fieldSpec defines one canonical field: its accepted aliases in resolution
// priority order (canonical name first), whether the field is required for
// rendering, and the text substituted when no alias carries a value.
type fieldSpec struct {
	canonical string
	aliases   []string
	required  bool
	fallback  string // bracketed placeholder, FieldMissing sentinel, or a default value
	list      bool   // repeated structure (zero-or-more sub-lines)
}

var fieldSpecs = map[Category][]fieldSpec{
	CategoryNDA: {
		{
			canonical: "disclosing_party",
			aliases:   []string{"disclosing_party", "disclosing_party_name", "party1", "party_name", "company_name"},
			required:  true,
			fallback:  FieldMissing,
		},
		{
			canonical: "receiving_party",
			aliases:   []string{"receiving_party", "receiving_party_name", "party2", "party_name"},
			required:  true,
			fallback:  FieldMissing,
		},
		{
			canonical: "effective_date",
			aliases:   []string{"effective_date", "date", "start_date"},
			required:  true,
			fallback:  "[EFFECTIVE DATE]",
		},
		{
			canonical: "purpose",
			aliases:   []string{"purpose", "purpose_of_disclosure"},
			required:  true,
			fallback:  FieldMissing,
		},
		{
			canonical: "term",
			aliases:   []string{"term", "term_years", "duration"},
			required:  true,
			fallback:  "2",
		},
		{
			canonical: "jurisdiction",
			aliases:   []string{"jurisdiction", "state", "governing_law"},
			required:  true,
			fallback:  "[JURISDICTION/STATE]",
		},
	},
	CategoryEmployment: {
		{
			canonical: "employee_name",
			aliases:   []string{"employee_name", "name"},
			required:  true,
			fallback:  "[EMPLOYEE NAME]",
		},
		{
			canonical: "employer",
			aliases:   []string{"employer", "company_name", "company"},
			required:  true,
			fallback:  "[COMPANY NAME]",
		},
		{
			canonical: "position",
			aliases:   []string{"position", "job_title", "title"},
			required:  true,
			fallback:  "[POSITION]",
		},
		{
			canonical: "start_date",
			aliases:   []string{"start_date", "effective_date", "commencement_date"},
			required:  true,
			fallback:  "[START DATE]",
		},
		{
			canonical: "salary",
			aliases:   []string{"salary", "compensation", "annual_salary"},
			required:  true,
			fallback:  "[SALARY]",
		},
	},
	CategoryDirector: {
		{
			canonical: "director_name",
			aliases:   []string{"director_name", "name"},
			required:  true,
			fallback:  "[DIRECTOR NAME]",
		},
		{
			canonical: "company_name",
			aliases:   []string{"company_name", "company"},
			required:  true,
			fallback:  "[COMPANY NAME]",
		},
		{
			canonical: "effective_date",
			aliases:   []string{"effective_date", "date"},
			required:  true,
			fallback:  "[EFFECTIVE DATE]",
		},
		{
			canonical: "committees",
			aliases:   []string{"committees", "committee"},
			list:      true,
		},
	},
	CategoryGeneric: nil,
}

// Resolved holds canonical field values for one document type.
type Resolved struct {
	Category Category
	Fields   map[string]string   // canonical name -> resolved value
	Lists    map[string][]string // canonical name -> repeated values
	Missing  []string            // required canonical fields with no matching alias
}

// Get returns the resolved value for a canonical field, or its fallback
// (placeholder, sentinel, or default) when no alias carried a value.
func (r *Resolved) Get(canonical string) string {
	if v, ok := r.Fields[canonical]; ok {
		return v
	}
	for _, spec := range fieldSpecs[r.Category] {
		if spec.canonical == canonical {
			return spec.fallback
		}
	}
	return ""
}

// Resolve maps a bag of loosely-named fields onto the canonical fields of a
// document type. For each canonical field the first alias carrying a truthy
// value wins, in declared order; required fields with no match are reported
// in Missing.
func Resolve(documentType string, raw map[string]any) *Resolved {
	cat := Categorize(documentType)
	res := &Resolved{
		Category: cat,
		Fields:   make(map[string]string),
		Lists:    make(map[string][]string),
	}

	for _, spec := range fieldSpecs[cat] {
		if spec.list {
			for _, alias := range spec.aliases {
				if items := stringifyList(raw[alias]); len(items) > 0 {
					res.Lists[spec.canonical] = items
					break
				}
			}
			continue
		}

		found := false
		for _, alias := range spec.aliases {
			if v, ok := stringify(raw[alias]); ok {
				res.Fields[spec.canonical] = v
				found = true
				break
			}
		}
		if !found && spec.required {
			res.Missing = append(res.Missing, spec.canonical)
		}
	}
	return res
}

// ValidateRequired reports the required canonical fields of a document type
// that have no matching alias in raw. An empty result means rendering may
// proceed without placeholders.
func ValidateRequired(documentType string, raw map[string]any) []string {
	return Resolve(documentType, raw).Missing
}

// ValidationError reports required fields missing from a render request.
// It is surfaced to the conversation rather than silently shipping an
// incomplete document.
type ValidationError struct {
	DocumentType string
	Missing      []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing fields: %s", strings.Join(e.Missing, ", "))
}

// stringify converts a raw extracted value into display text.
// Nil, empty strings, and empty collections are not truthy.
func stringify(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		s := strings.TrimSpace(t)
		return s, s != ""
	case bool:
		return strconv.FormatBool(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	default:
		return "", false
	}
}

func stringifyList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		if s, ok := stringify(v); ok {
			return []string{s}
		}
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := stringify(item); ok {
			out = append(out, s)
		}
	}
	return out
}
