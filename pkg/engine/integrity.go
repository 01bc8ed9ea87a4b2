package engine

import (
	"fmt"

	"remap/pkg/schema"
)

// IntegrityRules declares the per-entity constraints the filter enforces.
type IntegrityRules struct {
	// Unique lists natural-key fields. For each, the first record seen with
	// a given key is retained and later duplicates are dropped.
	Unique []string
	// Required lists fields that must be non-null.
	Required []string
}

// Violation records one dropped record: the rule it violated and the key or
// row that identifies it.
type Violation struct {
	Rule string `json:"rule"`
	Row  int    `json:"row"` // 0-based index into the input rows
	Key  string `json:"key,omitempty"`
}

// FilterResult is the outcome of the integrity filter.
type FilterResult struct {
	Table      *schema.Table  `json:"table"`
	Rejected   map[string]int `json:"rejected"` // rule name -> dropped count
	Violations []Violation    `json:"violations,omitempty"`
}

// UniqueRule and RequiredRule name the counters for a violated constraint.
func UniqueRule(field string) string   { return fmt.Sprintf("unique:%s", field) }
func RequiredRule(field string) string { return fmt.Sprintf("required:%s", field) }

// FilterIntegrity drops records violating uniqueness or required-field
// constraints, tallying each drop under the violated rule's counter.
//
// Uniqueness runs before required-field checks, and duplicates resolve
// first-seen-wins in input order, so the result is only deterministic over
// an ordered input. Records with a null natural key are exempt from that
// key's uniqueness check; a required rule on the same field catches them.
func FilterIntegrity(tbl *schema.Table, rules IntegrityRules) *FilterResult {
	result := &FilterResult{
		Table:    schema.NewTable(tbl.Columns),
		Rejected: make(map[string]int),
	}

	seen := make(map[string]map[string]bool, len(rules.Unique))
	for _, f := range rules.Unique {
		seen[f] = make(map[string]bool)
	}

	kept := make([]schema.Record, 0, tbl.Len())
	keptIdx := make([]int, 0, tbl.Len())

rows:
	for i, row := range tbl.Rows {
		for _, f := range rules.Unique {
			v := row.Get(f)
			if v.IsNull() {
				continue
			}
			if seen[f][v.Raw] {
				rule := UniqueRule(f)
				result.Rejected[rule]++
				result.Violations = append(result.Violations, Violation{Rule: rule, Row: i, Key: v.Raw})
				continue rows
			}
			seen[f][v.Raw] = true
		}
		kept = append(kept, row)
		keptIdx = append(keptIdx, i)
	}

	for n, row := range kept {
		violated := ""
		for _, f := range rules.Required {
			if row.Get(f).IsNull() {
				violated = RequiredRule(f)
				break
			}
		}
		if violated != "" {
			result.Rejected[violated]++
			result.Violations = append(result.Violations, Violation{Rule: violated, Row: keptIdx[n]})
			continue
		}
		result.Table.Rows = append(result.Table.Rows, row)
	}

	return result
}
