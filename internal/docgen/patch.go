package docgen

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// EditOps is one structured edit request against a rendered document.
// Operations are applied in a fixed order when present in a single call:
// clause insertion, then literal substitution, then keyed substitution.
type EditOps struct {
	// InsertClause is free text for a new covenant clause.
	InsertClause string

	// Find/Replace is a single case-insensitive literal substitution
	// of the first occurrence.
	Find    string
	Replace string

	// Values are keyed field substitutions. An unmatched key is a no-op,
	// not an error: conversational edits may reference fields absent from
	// the current template.
	Values map[string]any
}

// Patch applies structured edits to a previously rendered document without
// re-rendering it. The input text is never mutated; the edited text is
// returned.
func Patch(text string, ops EditOps) string {
	if ops.InsertClause != "" {
		text = insertClause(text, ops.InsertClause)
	}
	if ops.Find != "" {
		text = replaceLiteral(text, ops.Find, ops.Replace)
	}
	for _, kv := range sortedValues(ops.Values) {
		text = substituteKeyed(text, kv.key, kv.value)
	}
	return text
}

type keyedValue struct {
	key   string
	value string
}

// sortedValues flattens the value map into deterministic key order so a
// multi-key edit always applies the same way.
func sortedValues(values map[string]any) []keyedValue {
	var out []keyedValue
	for key, raw := range values {
		if v, ok := stringify(raw); ok {
			out = append(out, keyedValue{key: key, value: v})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key < out[j].key })
	return out
}

// generalProvisionsRe matches a numbered GENERAL PROVISIONS section heading.
var generalProvisionsRe = regexp.MustCompile(`(?m)^(\d+)\.\s+GENERAL PROVISIONS`)

// witnessMarker is the fallback insertion anchor when a document has no
// numbered General Provisions section.
const witnessMarker = "IN WITNESS WHEREOF"

// insertClause inserts a new numbered "Additional Covenant" clause
// immediately before the last numbered General Provisions section,
// renumbering that section by one. Documents without that section get the
// clause immediately before the IN WITNESS WHEREOF marker; documents with
// neither anchor get it appended. Text outside the insertion point is
// preserved byte-for-byte.
func insertClause(text, clause string) string {
	clause = strings.TrimSpace(clause)

	matches := generalProvisionsRe.FindAllStringSubmatchIndex(text, -1)
	if len(matches) > 0 {
		m := matches[len(matches)-1]
		start, end := m[0], m[1]
		numStr := text[m[2]:m[3]]

		var num int
		fmt.Sscanf(numStr, "%d", &num)

		inserted := fmt.Sprintf("%d. ADDITIONAL COVENANT\n\n%s\n\n%d. GENERAL PROVISIONS", num, clause, num+1)
		return text[:start] + inserted + text[end:]
	}

	if idx := strings.Index(text, witnessMarker); idx >= 0 {
		inserted := fmt.Sprintf("ADDITIONAL COVENANT\n\n%s\n\n", clause)
		return text[:idx] + inserted + text[idx:]
	}

	return text + "\n\nADDITIONAL COVENANT\n\n" + clause + "\n"
}

// replaceLiteral performs a single case-insensitive substitution of the
// first occurrence of find. The pattern is escaped, and the replacement is
// inserted literally (no regexp expansion).
func replaceLiteral(text, find, replace string) string {
	re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(find))
	if err != nil {
		return text
	}
	loc := re.FindStringIndex(text)
	if loc == nil {
		return text
	}
	return text[:loc[0]] + replace + text[loc[1]:]
}

// Keyed substitution rules, in declaration order. Each rule targets only
// the placeholder formats it is responsible for; the first rule whose key
// set matches handles the key. These placeholder formats are a contract
// with the templates in this package:
//
//	dates:     ISO dates (2006-01-02) and [DATE] / [EFFECTIVE DATE] / [START DATE]
//	durations: "period of N years" phrases
//	names:     [DIRECTOR NAME] / [EMPLOYEE NAME] / [PARTY NAME] / [NAME]
//	default:   [KEY_NAME] derived from the key, else the Field Missing sentinel
var keyedRules = []struct {
	keys  map[string]bool
	apply func(text, key, value string) string
}{
	{
		keys:  setOf("term", "term_years", "duration"),
		apply: substituteDuration,
	},
	{
		keys:  setOf("effective_date", "start_date", "date"),
		apply: substituteDate,
	},
	{
		keys:  setOf("name", "director_name", "employee_name", "party_name"),
		apply: substituteName,
	},
}

func setOf(keys ...string) map[string]bool {
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}

func substituteKeyed(text, key, value string) string {
	for _, rule := range keyedRules {
		if rule.keys[strings.ToLower(key)] {
			return rule.apply(text, key, value)
		}
	}
	return substituteDefault(text, key, value)
}

var (
	dateTargetRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}|\[DATE\]|\[EFFECTIVE DATE\]|\[START DATE\]`)
	durationRe   = regexp.MustCompile(`period of \S+ years`)
	namePlaceRe  = regexp.MustCompile(`\[DIRECTOR NAME\]|\[EMPLOYEE NAME\]|\[PARTY NAME\]|\[NAME\]`)
)

// substituteDate replaces the first occurrence of an ISO date or a
// bracketed date placeholder.
func substituteDate(text, _ string, value string) string {
	loc := dateTargetRe.FindStringIndex(text)
	if loc == nil {
		return text
	}
	return text[:loc[0]] + value + text[loc[1]:]
}

// substituteDuration rewrites every "period of N years" phrase, not just a
// placeholder, so both the term clause and its survival sentence stay in sync.
func substituteDuration(text, _ string, value string) string {
	return durationRe.ReplaceAllString(text, "period of "+value+" years")
}

// substituteName replaces every bracketed name placeholder.
func substituteName(text, _ string, value string) string {
	return namePlaceRe.ReplaceAllString(text, value)
}

// substituteDefault replaces every occurrence of the exact bracketed
// placeholder derived from the key, or, failing that, the first Field
// Missing sentinel. A key matching neither leaves the text unchanged.
func substituteDefault(text, key, value string) string {
	placeholder := "[" + strings.ToUpper(key) + "]"
	if strings.Contains(text, placeholder) {
		return strings.ReplaceAll(text, placeholder, value)
	}
	if idx := strings.Index(text, FieldMissing); idx >= 0 {
		return text[:idx] + value + text[idx+len(FieldMissing):]
	}
	return text
}

// EditSummary describes what an edit changed, for the tool result narration.
func EditSummary(before, after string) string {
	if before == after {
		return "no changes"
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(before, after, false))

	var added, removed int
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			added += len(d.Text)
		case diffmatchpatch.DiffDelete:
			removed += len(d.Text)
		}
	}
	return fmt.Sprintf("%d characters added, %d characters removed", added, removed)
}
