package engine

import (
	"remap/pkg/schema"
)

// IdentityMap is an immutable old identifier -> new identifier lookup for a
// single entity. It is built once per batch, then shared read-only across
// record-processing workers without locking.
type IdentityMap struct {
	entity string
	byOld  map[string]string
}

// IDPair associates one source record's old identifier with the new
// identifier generated for it, in generation order.
type IDPair struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// BuildIdentityMap constructs the lookup from ordered identifier pairs.
// A repeated old identifier fails with DuplicateKeyError: two source records
// claiming the same key cannot be mapped unambiguously.
func BuildIdentityMap(entity string, pairs []IDPair) (*IdentityMap, error) {
	byOld := make(map[string]string, len(pairs))
	for _, p := range pairs {
		if _, dup := byOld[p.Old]; dup {
			return nil, &DuplicateKeyError{Entity: entity, Key: p.Old}
		}
		byOld[p.Old] = p.New
	}
	return &IdentityMap{entity: entity, byOld: byOld}, nil
}

// Entity returns the name of the identifier space this map covers.
func (m *IdentityMap) Entity() string {
	return m.entity
}

// Lookup translates an old identifier. ok is false for orphan references.
func (m *IdentityMap) Lookup(old string) (string, bool) {
	v, ok := m.byOld[old]
	return v, ok
}

// Len returns the number of mapped identifiers.
func (m *IdentityMap) Len() int {
	return len(m.byOld)
}

// PairsFromTable zips identifier pairs out of a single table: oldField is
// the legacy key column and newField the generated replacement. Rows where
// the old identifier is null are skipped; they can never be referenced.
func PairsFromTable(entity string, tbl *schema.Table, oldField, newField string) ([]IDPair, error) {
	pairs := make([]IDPair, 0, tbl.Len())
	for _, row := range tbl.Rows {
		old := row.Get(oldField)
		if old.IsNull() {
			continue
		}
		pairs = append(pairs, IDPair{Old: old.Raw, New: row.Get(newField).Raw})
	}
	return pairs, nil
}

// PairsFromTables zips identifier pairs across a (source, target) table
// pair, positionally, the way the legacy exporter paired the old extract
// with the regenerated one. The tables must have the same number of rows.
func PairsFromTables(entity string, oldTbl, newTbl *schema.Table, oldField, newField string) ([]IDPair, error) {
	if oldTbl.Len() != newTbl.Len() {
		return nil, &PairCountError{Entity: entity, OldRecords: oldTbl.Len(), NewRecords: newTbl.Len()}
	}
	pairs := make([]IDPair, 0, oldTbl.Len())
	for i, row := range oldTbl.Rows {
		old := row.Get(oldField)
		if old.IsNull() {
			continue
		}
		pairs = append(pairs, IDPair{Old: old.Raw, New: newTbl.Rows[i].Get(newField).Raw})
	}
	return pairs, nil
}
