package engine

import "fmt"

// DuplicateKeyError reports an old identifier that appears more than once
// while building an identity map. The mapping would be ambiguous, so the
// whole entity fails rather than silently overwriting.
type DuplicateKeyError struct {
	Entity string
	Key    string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s: duplicate old identifier %q in identity map", e.Entity, e.Key)
}

// MissingReferenceError reports a foreign-key value with no entry in the
// target identity map. Only raised under the strict orphan policy.
type MissingReferenceError struct {
	Entity string // dependent entity being resolved
	Field  string // foreign-key field
	Key    string // unresolvable old identifier
}

func (e *MissingReferenceError) Error() string {
	return fmt.Sprintf("%s: field %q references missing identifier %q", e.Entity, e.Field, e.Key)
}

// PairCountError reports a source/target record count mismatch when zipping
// identifier pairs out of two tables.
type PairCountError struct {
	Entity     string
	OldRecords int
	NewRecords int
}

func (e *PairCountError) Error() string {
	return fmt.Sprintf("%s: cannot pair %d source records with %d target records", e.Entity, e.OldRecords, e.NewRecords)
}
