package export

import (
	"context"
	"fmt"

	"remap/pkg/engine"
)

// Entity names accepted by Run.
const (
	EntityUsers     = "users"
	EntityDiscounts = "discounts"
	EntityPurchases = "purchases"
	EntityGroups    = "platform_groups"
	EntityAccounts  = "platform_accounts"
)

// AllEntities lists every pipeline in dependency order.
var AllEntities = []string{EntityUsers, EntityDiscounts, EntityPurchases, EntityGroups, EntityAccounts}

// dependencies maps each entity to the pipelines whose identity maps it
// consumes.
var dependencies = map[string][]string{
	EntityPurchases: {EntityUsers, EntityDiscounts},
	EntityAccounts:  {EntityUsers, EntityDiscounts, EntityPurchases, EntityGroups},
}

// Run executes the requested entity pipelines in dependency order,
// expanding the set to include the upstream pipelines whose identity maps
// the requested ones resolve against. Identity maps are built in process
// and handed directly to dependents; nothing is re-read from generated
// files. A fatal error in one entity stops the run; non-fatal conditions
// accumulate in the report.
func (e *Exporter) Run(ctx context.Context, entities []string) error {
	needed := make(map[string]bool)
	var mark func(name string) error
	mark = func(name string) error {
		if needed[name] {
			return nil
		}
		if _, ok := dependencies[name]; !ok {
			switch name {
			case EntityUsers, EntityDiscounts, EntityGroups:
			default:
				return fmt.Errorf("unknown entity %q", name)
			}
		}
		needed[name] = true
		for _, dep := range dependencies[name] {
			if err := mark(dep); err != nil {
				return err
			}
		}
		return nil
	}
	for _, name := range entities {
		if err := mark(name); err != nil {
			return err
		}
	}
	if len(needed) == 0 {
		return fmt.Errorf("no entities selected")
	}

	var (
		users     *UserArtifacts
		discounts *engine.IdentityMap
		purchases *engine.IdentityMap
		groups    *engine.IdentityMap
		err       error
	)

	if needed[EntityUsers] {
		if users, err = e.ExportUsers(ctx); err != nil {
			return err
		}
	}
	if needed[EntityDiscounts] {
		if discounts, err = e.ExportDiscounts(ctx); err != nil {
			return err
		}
	}
	if needed[EntityPurchases] {
		if purchases, err = e.ExportPurchases(ctx, users, discounts); err != nil {
			return err
		}
	}
	if needed[EntityGroups] {
		if groups, err = e.ExportGroups(ctx); err != nil {
			return err
		}
	}
	if needed[EntityAccounts] {
		if err = e.ExportAccounts(ctx, users, purchases, groups); err != nil {
			return err
		}
	}
	return nil
}
