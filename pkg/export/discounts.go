package export

import (
	"context"
	"fmt"
	"strings"

	"remap/pkg/engine"
	"remap/pkg/schema"
)

// migrationActorID is the created_by identifier stamped on migrated
// discount codes; the legacy schema had no creator column.
const migrationActorID = "f965141e-43f0-4992-a742-7899edbe1ca5"

// ExportDiscounts migrates the discount codes extract and returns the
// identity map purchases resolve discount_id against.
func (e *Exporter) ExportDiscounts(ctx context.Context) (*engine.IdentityMap, error) {
	const entity = "discounts"
	tbl, err := e.readTable(entity, "discount_codes.csv")
	if err != nil {
		return nil, err
	}
	rep := e.rep.Entity(entity)

	filtered := engine.FilterIntegrity(tbl, engine.IntegrityRules{
		Unique:   []string{"code"},
		Required: []string{"id", "code"},
	})
	rep.AddIntegrity(filtered)

	out := assignUUIDs(filtered.Table)

	// Target-schema renames and derived columns.
	copyColumn(out, "name", "code")
	copyColumn(out, "max_usage_count", "max_usages_count")
	copyColumn(out, "current_usage_count", "current_usages_count")
	copyColumn(out, "end_date", "discount_code_end_date")
	copyColumn(out, "created_at", "created_date")
	copyColumn(out, "updated_at", "last_modified_date")
	copyColumn(out, "updated_at", "created_date")
	copyColumn(out, "start_date", "created_at")
	copyColumn(out, "commission_percentage", "discount")
	constColumn(out, "type", schema.String("admin"))
	constColumn(out, "created_by", schema.String(migrationActorID))
	out.AddColumn("deleted_at")

	// Legacy status is upper-cased; the target schema wants lowercase and
	// collapses everything that is not ACTIVE to inactive.
	out.AddColumn("status")
	for _, row := range out.Rows {
		if strings.EqualFold(row.Get("status").Raw, "ACTIVE") && !row.Get("status").IsNull() {
			row["status"] = schema.String("active")
		} else {
			row["status"] = schema.String("inactive")
		}
	}

	pairs, err := engine.PairsFromTable(entity, out, "id", "uuid")
	if err != nil {
		return nil, err
	}
	idMap, err := engine.BuildIdentityMap(entity, pairs)
	if err != nil {
		return nil, fmt.Errorf("build discounts identity map: %w", err)
	}

	if err := e.finish(entity, out, "new_discount_codes.csv"); err != nil {
		return nil, err
	}
	return idMap, nil
}
