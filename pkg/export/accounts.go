package export

import (
	"context"
	"strings"

	"remap/pkg/engine"
	"remap/pkg/schema"
)

// remoteGroupName is the reference-only group every migrated account is
// parked under on the target platform.
const remoteGroupName = `demo\PropModel\common`

// accountStages maps the legacy numeric account_stages code to the target
// schema's named stage.
var accountStages = map[string]string{
	"0": "trial",
	"1": "single",
	"2": "double",
	"3": "triple",
	"4": "instant",
}

// ExportAccounts migrates the platform accounts extract: it is the only
// dependent entity with lifecycle reclassification, and it references
// users, purchases, and platform groups.
func (e *Exporter) ExportAccounts(ctx context.Context, users *UserArtifacts, purchases, groups *engine.IdentityMap) error {
	const entity = "platform_accounts"
	tbl, err := e.readTable(entity, "mt5_users.csv")
	if err != nil {
		return err
	}
	rep := e.rep.Entity(entity)

	// TradeLocker accounts live in a different platform and are migrated
	// separately; their login ids carry a D# prefix.
	kept := schema.NewTable(tbl.Columns)
	tradelocker := 0
	for _, row := range tbl.Rows {
		if strings.HasPrefix(row.Get("login").Raw, "D#") {
			tradelocker++
			continue
		}
		kept.Rows = append(kept.Rows, row)
	}
	if tradelocker > 0 {
		rep.Note("excluded %d TradeLocker accounts (login prefix D#)", tradelocker)
	}

	// purchase_id is expected to be 1:1 with accounts and login is the
	// platform natural key; first occurrence wins for both.
	filtered := engine.FilterIntegrity(kept, engine.IntegrityRules{
		Unique:   []string{"purchase_id", "login"},
		Required: []string{"group"},
	})
	rep.AddIntegrity(filtered)

	out := filtered.Table
	funded := e.groups.FundedSet()

	rows, err := engine.ApplyRecords(ctx, out.Rows, e.cfg.Workers, func(i int, row schema.Record) (schema.Record, error) {
		r := row.Clone()

		lc := engine.Classify(row.Get("funded_at"), row.Get("group").Raw, row.Get("is_active").Bool(), funded)
		r["current_phase"] = intCell(lc.CurrentPhase)
		r["status"] = intCell(lc.Status)
		r["funded_status"] = intCell(lc.FundedStatus)

		// KYC completion comes from the owning user's legacy identity_status.
		kyc := 0
		if uid := row.Get("user_id"); !uid.IsNull() {
			if users.IdentityStatus[uid.Raw] == "completed" {
				kyc = 1
			}
		}
		r["is_kyc"] = intCell(kyc)

		// Legacy account_type was a numeric flag; the target schema names it
		// and keeps the raw value around as account_type_old.
		r["account_type_old"] = row.Get("account_type")
		if row.Get("account_type").Raw == "1" {
			r["account_type"] = schema.String("aggressive")
		} else {
			r["account_type"] = schema.String("standard")
		}

		stage, ok := accountStages[row.Get("account_stages").Raw]
		if !ok {
			stage = "trial"
		}
		r["account_stage"] = schema.String(stage)

		r["platform_login_id"] = row.Get("login")
		r["platform_name"] = schema.String("mt5")
		r["remote_group_name"] = schema.String(remoteGroupName)
		r["profit_target"] = row.Get("target")
		r["is_trades_check"] = boolCell(row.Get("trades_check"))
		r["is_trade_agreement"] = boolCell(row.Get("contract_sign_staus"))
		r["action_type"] = schema.String("challenge")
		r["platform_user_id"] = schema.Null
		if r.Get("updated_at").IsNull() {
			r["updated_at"] = row.Get("created_at")
		}
		r["deleted_at"] = schema.Null

		return r, nil
	})
	if err != nil {
		return err
	}
	out = &schema.Table{Columns: out.Columns, Rows: rows}
	for _, col := range []string{
		"current_phase", "status", "funded_status", "is_kyc",
		"account_type_old", "account_stage", "platform_login_id",
		"platform_name", "remote_group_name", "profit_target",
		"is_trades_check", "is_trade_agreement", "action_type",
		"platform_user_id", "updated_at", "deleted_at",
	} {
		out.AddColumn(col)
	}

	out = assignUUIDs(out)

	resolved, err := engine.ResolveReferences(entity, out, []engine.ForeignKey{
		{Field: "user_id", Target: users.Map, As: "user_uuid", Policy: e.policy},
		{Field: "purchase_id", Target: purchases, As: "purchase_uuid", Policy: e.policy},
		{Field: "group", Target: groups, As: "platform_group_uuid", Policy: e.policy},
	})
	if err != nil {
		return err
	}
	rep.AddResolution(resolved)
	out = resolved.Table

	return e.finish(entity, out, "new_platform_accounts.csv")
}

// boolCell normalizes a legacy nullable flag to a 0/1 cell; null reads as 0.
func boolCell(v schema.Value) schema.Value {
	if v.Bool() {
		return intCell(1)
	}
	return intCell(0)
}
