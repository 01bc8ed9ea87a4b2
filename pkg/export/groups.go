package export

import (
	"context"
	"fmt"

	"remap/pkg/engine"
	"remap/pkg/schema"
)

// ExportGroups carries the canonical platform groups over into the target
// schema and returns the name-keyed identity map platform accounts resolve
// their group column against. Groups already carry UUIDs in the extract.
func (e *Exporter) ExportGroups(ctx context.Context) (*engine.IdentityMap, error) {
	const entity = "platform_groups"
	tbl, err := e.readTable(entity, "platform_groups.csv")
	if err != nil {
		return nil, err
	}
	rep := e.rep.Entity(entity)

	keep := e.groups.KeepSet()
	out := schema.NewTable(tbl.Columns)
	found := make(map[string]bool, keep.Len())
	for _, row := range tbl.Rows {
		name := row.Get("name")
		if name.IsNull() || !keep.Contains(name.Raw) {
			continue
		}
		found[name.Raw] = true
		out.Rows = append(out.Rows, row)
	}
	rep.Note("kept %d of %d groups (keep list %s, %d names)",
		out.Len(), tbl.Len(), e.groups.Version, keep.Len())
	for _, name := range keep.Names() {
		if !found[name] {
			rep.Note("keep-list group %q not present in extract", name)
		}
	}

	// Group names are the natural key accounts reference; a duplicated
	// name in the extract would make that reference ambiguous.
	filtered := engine.FilterIntegrity(out, engine.IntegrityRules{
		Unique:   []string{"name"},
		Required: []string{"uuid", "name"},
	})
	rep.AddIntegrity(filtered)
	out = filtered.Table

	pairs, err := engine.PairsFromTable(entity, out, "name", "uuid")
	if err != nil {
		return nil, err
	}
	idMap, err := engine.BuildIdentityMap(entity, pairs)
	if err != nil {
		return nil, fmt.Errorf("build platform groups identity map: %w", err)
	}

	if err := e.finish(entity, out, "new_platform_groups.csv"); err != nil {
		return nil, err
	}
	return idMap, nil
}
