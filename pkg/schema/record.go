package schema

// Value is a single scalar cell. The zero value is null; use String to
// construct a non-null value.
type Value struct {
	Raw   string `json:"raw"`
	Valid bool   `json:"valid"`
}

// Null is the null cell value.
var Null = Value{}

// String wraps s as a non-null value.
func String(s string) Value {
	return Value{Raw: s, Valid: true}
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool {
	return !v.Valid
}

// Record maps field names to cell values. Input records are treated as
// immutable; stages that change a record operate on a clone.
type Record map[string]Value

// Get returns the value stored under field, or Null if the field is absent.
func (r Record) Get(field string) Value {
	return r[field]
}

// Has reports whether the record carries the field, null or not.
func (r Record) Has(field string) bool {
	_, ok := r[field]
	return ok
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered record set. Columns carries the output column order,
// which is meaningful for projection and CSV serialization; Rows preserve
// original input order, which the integrity filter relies on.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Record `json:"rows"`
}

// NewTable returns an empty table with the given column order.
func NewTable(columns []string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// HasColumn reports whether name is one of the table's columns.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// AddColumn appends a column to the column order if it is not already present.
func (t *Table) AddColumn(name string) {
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}
