// Package report accumulates the per-entity counters of a migration batch
// into an end-of-run reconciliation report. Non-fatal conditions (orphaned
// references, integrity rejections, configuration fallbacks, parse warnings)
// are recorded here and never silently lost.
package report

import (
	"fmt"
	"io"
	"sort"
	"time"

	"remap/pkg/engine"
)

// EntityReport aggregates counters for one entity's pipeline run.
type EntityReport struct {
	Entity     string `json:"entity"`
	RecordsIn  int    `json:"recordsIn"`
	RecordsOut int    `json:"recordsOut"`

	// Orphans counts unresolved references per foreign-key field, with a
	// bounded sample of the offending keys for diagnostics.
	Orphans       map[string]int      `json:"orphans,omitempty"`
	OrphanSamples map[string][]string `json:"orphanSamples,omitempty"`
	DroppedRefs   int                 `json:"droppedRefs,omitempty"`

	// Rejected counts integrity-filter drops per violated rule.
	Rejected map[string]int `json:"rejected,omitempty"`

	// MissingColumns lists configured output columns absent from the data;
	// they were emitted as null.
	MissingColumns []string `json:"missingColumns,omitempty"`
	// ConfigFallback is set when no column configuration was found and all
	// columns were emitted in natural order.
	ConfigFallback bool `json:"configFallback"`

	ParseWarnings int      `json:"parseWarnings,omitempty"`
	Notes         []string `json:"notes,omitempty"`
}

// AddResolution folds a resolver result into the report.
func (e *EntityReport) AddResolution(res *engine.ResolveResult) {
	if e.Orphans == nil {
		e.Orphans = make(map[string]int)
		e.OrphanSamples = make(map[string][]string)
	}
	for field, stats := range res.Fields {
		e.Orphans[field] += stats.Orphans
		if len(stats.Samples) > 0 {
			e.OrphanSamples[field] = append(e.OrphanSamples[field], stats.Samples...)
		}
	}
	e.DroppedRefs += res.Dropped
}

// AddIntegrity folds an integrity-filter result into the report.
func (e *EntityReport) AddIntegrity(res *engine.FilterResult) {
	if e.Rejected == nil {
		e.Rejected = make(map[string]int)
	}
	for rule, n := range res.Rejected {
		e.Rejected[rule] += n
	}
}

// AddProjection folds a projection result into the report.
func (e *EntityReport) AddProjection(res *engine.ProjectResult) {
	e.MissingColumns = append(e.MissingColumns, res.Missing...)
	if res.Fallback {
		e.ConfigFallback = true
	}
}

// Note appends a free-form diagnostic line.
func (e *EntityReport) Note(format string, args ...any) {
	e.Notes = append(e.Notes, fmt.Sprintf(format, args...))
}

// RunReport is the batch-level report covering every entity processed.
type RunReport struct {
	StartedAt time.Time       `json:"startedAt"`
	Entities  []*EntityReport `json:"entities"`
}

// New returns an empty run report stamped with the current time.
func New() *RunReport {
	return &RunReport{StartedAt: time.Now()}
}

// Entity returns the report section for the named entity, creating it on
// first use so entities appear in processing order.
func (r *RunReport) Entity(name string) *EntityReport {
	for _, e := range r.Entities {
		if e.Entity == name {
			return e
		}
	}
	e := &EntityReport{Entity: name}
	r.Entities = append(r.Entities, e)
	return e
}

// Render writes a human-readable reconciliation summary.
func (r *RunReport) Render(w io.Writer) {
	fmt.Fprintf(w, "migration run report (started %s)\n", r.StartedAt.Format(time.RFC3339))
	for _, e := range r.Entities {
		fmt.Fprintf(w, "\n%s\n", e.Entity)
		fmt.Fprintf(w, "  records in:  %d\n", e.RecordsIn)
		fmt.Fprintf(w, "  records out: %d\n", e.RecordsOut)

		for _, field := range sortedKeys(e.Orphans) {
			fmt.Fprintf(w, "  orphans[%s]: %d", field, e.Orphans[field])
			if samples := e.OrphanSamples[field]; len(samples) > 0 {
				fmt.Fprintf(w, " (sample keys: %v)", samples)
			}
			fmt.Fprintln(w)
		}
		if e.DroppedRefs > 0 {
			fmt.Fprintf(w, "  dropped on orphan: %d\n", e.DroppedRefs)
		}
		for _, rule := range sortedKeys(e.Rejected) {
			fmt.Fprintf(w, "  rejected[%s]: %d\n", rule, e.Rejected[rule])
		}
		for _, col := range e.MissingColumns {
			fmt.Fprintf(w, "  warning: configured column %q not in data, emitted as null\n", col)
		}
		if e.ConfigFallback {
			fmt.Fprintf(w, "  warning: no column configuration, emitted all columns in natural order\n")
		}
		if e.ParseWarnings > 0 {
			fmt.Fprintf(w, "  parse warnings: %d\n", e.ParseWarnings)
		}
		for _, n := range e.Notes {
			fmt.Fprintf(w, "  note: %s\n", n)
		}
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
