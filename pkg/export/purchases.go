package export

import (
	"context"
	"fmt"

	"remap/pkg/engine"
)

// ExportPurchases migrates the purchases extract, resolving its user and
// discount references, and returns the identity map platform accounts
// resolve purchase_id against.
func (e *Exporter) ExportPurchases(ctx context.Context, users *UserArtifacts, discounts *engine.IdentityMap) (*engine.IdentityMap, error) {
	const entity = "purchases"
	tbl, err := e.readTable(entity, "purchases.csv")
	if err != nil {
		return nil, err
	}
	rep := e.rep.Entity(entity)

	filtered := engine.FilterIntegrity(tbl, engine.IntegrityRules{
		Required: []string{"id"},
	})
	rep.AddIntegrity(filtered)

	out := assignUUIDs(filtered.Table)
	copyColumn(out, "updated_at", "created_at")
	out.AddColumn("deleted_at")

	resolved, err := engine.ResolveReferences(entity, out, []engine.ForeignKey{
		{Field: "user_id", Target: users.Map, As: "user_uuid", Policy: e.policy},
		{Field: "discount_id", Target: discounts, As: "discount_uuid", Policy: e.policy},
	})
	if err != nil {
		return nil, err
	}
	rep.AddResolution(resolved)
	out = resolved.Table

	pairs, err := engine.PairsFromTable(entity, out, "id", "uuid")
	if err != nil {
		return nil, err
	}
	idMap, err := engine.BuildIdentityMap(entity, pairs)
	if err != nil {
		return nil, fmt.Errorf("build purchases identity map: %w", err)
	}

	if err := e.finish(entity, out, "new_purchases.csv"); err != nil {
		return nil, err
	}
	return idMap, nil
}
