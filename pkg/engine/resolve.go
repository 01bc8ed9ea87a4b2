package engine

import (
	"remap/pkg/schema"
)

// OrphanPolicy selects what the resolver does with a foreign-key value that
// has no entry in the target identity map.
type OrphanPolicy int

const (
	// NullOnOrphan writes a null and counts the orphan. The default:
	// legacy extracts reliably contain a measurable fraction of dangling
	// foreign keys.
	NullOnOrphan OrphanPolicy = iota
	// Strict fails the whole batch on the first missing reference.
	Strict
	// DropOnOrphan excludes the owning record and counts it as dropped.
	DropOnOrphan
)

// String returns the policy name used in configuration and reports.
func (p OrphanPolicy) String() string {
	switch p {
	case Strict:
		return "strict"
	case DropOnOrphan:
		return "drop"
	default:
		return "null"
	}
}

// orphanSampleLimit bounds the per-field sample of orphaned keys kept for
// diagnostics.
const orphanSampleLimit = 10

// ForeignKey describes one foreign-key field of a dependent entity.
type ForeignKey struct {
	// Field is the source column holding the old identifier.
	Field string
	// Target is the identity map of the entity the field references.
	Target *IdentityMap
	// As is the output column the resolved identifier is written to.
	// Defaults to Field. The source column is left untouched; projection
	// decides whether it survives.
	As string
	// Policy is the orphan policy for this field.
	Policy OrphanPolicy
}

func (k ForeignKey) outField() string {
	if k.As != "" {
		return k.As
	}
	return k.Field
}

// FieldStats aggregates resolution outcomes for one foreign-key field.
type FieldStats struct {
	Resolved int      `json:"resolved"`
	Orphans  int      `json:"orphans"`
	Samples  []string `json:"samples,omitempty"`
}

func (s *FieldStats) addOrphan(key string) {
	s.Orphans++
	if key != "" && len(s.Samples) < orphanSampleLimit {
		s.Samples = append(s.Samples, key)
	}
}

// ResolveResult is the outcome of resolving all foreign keys of an entity.
type ResolveResult struct {
	Table     *schema.Table          `json:"table"`
	Processed int                    `json:"processed"`
	Dropped   int                    `json:"dropped"`
	Fields    map[string]*FieldStats `json:"fields"`
}

// ResolveReferences translates every foreign-key field of every record
// through its identity map, applying each field's orphan policy.
//
// A null foreign key resolves to null; under NullOnOrphan it is counted as
// an orphan so that the orphan counter equals exactly the number of null
// outputs. A non-null key absent from the map is the error case the policy
// decides: Strict aborts the entity, NullOnOrphan writes null, DropOnOrphan
// excludes the record. Input records are not mutated.
func ResolveReferences(entity string, tbl *schema.Table, keys []ForeignKey) (*ResolveResult, error) {
	result := &ResolveResult{
		Table:  schema.NewTable(tbl.Columns),
		Fields: make(map[string]*FieldStats, len(keys)),
	}
	for _, k := range keys {
		result.Fields[k.Field] = &FieldStats{}
		result.Table.AddColumn(k.outField())
	}

	for _, row := range tbl.Rows {
		result.Processed++
		out := row.Clone()
		dropped := false

		for _, k := range keys {
			stats := result.Fields[k.Field]
			v := row.Get(k.Field)

			if v.IsNull() {
				out[k.outField()] = schema.Null
				if k.Policy == NullOnOrphan {
					stats.addOrphan("")
				}
				continue
			}

			if mapped, ok := k.Target.Lookup(v.Raw); ok {
				out[k.outField()] = schema.String(mapped)
				stats.Resolved++
				continue
			}

			switch k.Policy {
			case Strict:
				return nil, &MissingReferenceError{Entity: entity, Field: k.Field, Key: v.Raw}
			case DropOnOrphan:
				stats.addOrphan(v.Raw)
				dropped = true
			default:
				out[k.outField()] = schema.Null
				stats.addOrphan(v.Raw)
			}
		}

		if dropped {
			result.Dropped++
			continue
		}
		result.Table.Rows = append(result.Table.Rows, out)
	}

	return result, nil
}
