package export

import (
	"context"
	"fmt"

	"remap/pkg/engine"
)

// UserArtifacts carries what dependent pipelines need from the users run:
// the identity map their user_id columns resolve against, and the legacy
// identity_status per old user id (platform accounts derive is_kyc from it).
type UserArtifacts struct {
	Map            *engine.IdentityMap
	IdentityStatus map[string]string
}

// ExportUsers migrates the users extract to the UUID-keyed target schema.
// Users are independent (no foreign keys), so this runs before every
// dependent entity.
func (e *Exporter) ExportUsers(ctx context.Context) (*UserArtifacts, error) {
	const entity = "users"
	tbl, err := e.readTable(entity, "users.csv")
	if err != nil {
		return nil, err
	}
	rep := e.rep.Entity(entity)

	// Email is the natural key of the users table.
	filtered := engine.FilterIntegrity(tbl, engine.IntegrityRules{
		Unique:   []string{"email"},
		Required: []string{"id", "email"},
	})
	rep.AddIntegrity(filtered)

	out := assignUUIDs(filtered.Table)
	copyColumn(out, "updated_at", "created_at")
	out.AddColumn("deleted_at")

	pairs, err := engine.PairsFromTable(entity, out, "id", "uuid")
	if err != nil {
		return nil, err
	}
	idMap, err := engine.BuildIdentityMap(entity, pairs)
	if err != nil {
		return nil, fmt.Errorf("build users identity map: %w", err)
	}

	identityStatus := make(map[string]string, out.Len())
	for _, row := range out.Rows {
		id := row.Get("id")
		if id.IsNull() {
			continue
		}
		if st := row.Get("identity_status"); !st.IsNull() {
			identityStatus[id.Raw] = st.Raw
		}
	}

	if err := e.finish(entity, out, "new_users.csv"); err != nil {
		return nil, err
	}
	return &UserArtifacts{Map: idMap, IdentityStatus: identityStatus}, nil
}
