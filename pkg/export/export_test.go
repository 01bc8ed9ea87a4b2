package export

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"remap/pkg/config"
	"remap/pkg/parser"
	"remap/pkg/schema"
)

// writeFixtures lays out a miniature legacy extract with the data shapes
// the pipelines have to survive: duplicate natural keys, orphaned foreign
// keys, TradeLocker logins, and all three lifecycle scenarios.
func writeFixtures(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	inDir := filepath.Join(root, "in")
	outDir := filepath.Join(root, "out")
	cfgDir := filepath.Join(root, "config")
	require.NoError(t, os.MkdirAll(inDir, 0o755))
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))

	files := map[string]string{
		"users.csv": "id,email,identity_status,created_at\n" +
			"1,a@example.com,completed,2024-01-01\n" +
			"2,b@example.com,pending,2024-01-02\n" +
			"3,a@example.com,completed,2024-01-03\n", // duplicate email, dropped

		"discount_codes.csv": "id,code,status,discount,max_usages_count,current_usages_count,created_date,last_modified_date,discount_code_end_date\n" +
			"5,SAVE10,ACTIVE,10,100,7,2024-01-01,2024-01-05,2024-06-01\n" +
			"6,EXPIRED20,DISABLED,20,50,50,2023-01-01,,2023-06-01\n",

		"purchases.csv": "id,user_id,discount_id,created_at\n" +
			"11,1,5,2024-02-01\n" +
			"12,2,,2024-02-02\n" +
			"13,9,5,2024-02-03\n", // user 9 does not exist

		"platform_groups.csv": "uuid,name,description\n" +
			`g-uuid-1,demo\Nostro\U-FTF-1-A,funded` + "\n" +
			`g-uuid-2,demo\Nostro\U-DAG-1-B,evolution` + "\n" +
			`g-uuid-3,demo\Other\X,not kept` + "\n",

		"mt5_users.csv": "login,user_id,purchase_id,group,funded_at,is_active,created_at,account_type,account_stages,target,trades_check,contract_sign_staus\n" +
			`100,1,11,demo\Nostro\U-DAG-1-B,,1,2024-03-01,0,1,8,1,` + "\n" +
			`101,2,12,demo\Nostro\U-FTF-1-A,2024-01-15,1,2024-03-02,1,4,10,,1` + "\n" +
			`102,1,11,demo\Nostro\U-DAG-1-B,,1,2024-03-03,0,1,8,,` + "\n" + // duplicate purchase_id, dropped
			`D#200,1,14,demo\Nostro\U-DAG-1-B,,1,2024-03-04,0,1,8,,` + "\n" + // TradeLocker, excluded
			`103,9,99,demo\Nostro\U-DAG-1-B,2024-01-15,0,2024-03-05,0,2,8,,` + "\n", // rejected, orphan refs
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(inDir, name), []byte(content), 0o644))
	}

	groupsDoc := "version: \"test\"\n" +
		"funded:\n" +
		`  - demo\Nostro\U-FTF-1-A` + "\n" +
		"keep:\n" +
		`  - demo\Nostro\U-FTF-1-A` + "\n" +
		`  - demo\Nostro\U-DAG-1-B` + "\n" +
		`  - demo\Nostro\U-TPS-3-B` + "\n" // not in extract
	groupsPath := filepath.Join(cfgDir, "groups.yaml")
	require.NoError(t, os.WriteFile(groupsPath, []byte(groupsDoc), 0o644))

	accountsColumns := `["uuid","login","user_uuid","purchase_uuid","platform_group_uuid",` +
		`"current_phase","status","funded_status","is_kyc","account_type","account_stage",` +
		`"platform_name","legacy_rating"]`
	require.NoError(t, os.WriteFile(
		filepath.Join(cfgDir, "platform_accounts_column_config.json"),
		[]byte(accountsColumns), 0o644))

	return &config.Config{
		InputDir:        inDir,
		OutputDir:       outDir,
		ColumnConfigDir: cfgDir,
		GroupsPath:      groupsPath,
		OrphanPolicy:    "null",
		Workers:         2,
	}
}

func readOutput(t *testing.T, cfg *config.Config, name string) *schema.Table {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, name))
	require.NoError(t, err)
	res, err := parser.Parse(data)
	require.NoError(t, err)
	return res.Table
}

func rowByField(t *testing.T, tbl *schema.Table, field, value string) schema.Record {
	t.Helper()
	for _, row := range tbl.Rows {
		if row.Get(field).Raw == value {
			return row
		}
	}
	t.Fatalf("no row with %s=%s", field, value)
	return nil
}

func TestRunEndToEnd(t *testing.T) {
	cfg := writeFixtures(t)
	exp, err := New(cfg, zap.NewNop(), true)
	require.NoError(t, err)

	require.NoError(t, exp.Run(context.Background(), []string{EntityAccounts}))

	users := readOutput(t, cfg, "new_users.csv")
	require.Equal(t, 2, users.Len()) // duplicate email dropped
	userUUID := rowByField(t, users, "id", "1").Get("uuid").Raw
	require.NotEmpty(t, userUUID)

	purchases := readOutput(t, cfg, "new_purchases.csv")
	require.Equal(t, 3, purchases.Len())
	assert.Equal(t, userUUID, rowByField(t, purchases, "id", "11").Get("user_uuid").Raw)
	assert.True(t, rowByField(t, purchases, "id", "13").Get("user_uuid").IsNull())
	purchaseUUID := rowByField(t, purchases, "id", "11").Get("uuid").Raw

	groups := readOutput(t, cfg, "new_platform_groups.csv")
	require.Equal(t, 2, groups.Len()) // only keep-list groups survive

	accounts := readOutput(t, cfg, "new_platform_accounts.csv")
	require.Equal(t, 3, accounts.Len()) // 5 in, minus TradeLocker and duplicate

	// Output column order equals the configuration exactly.
	assert.Equal(t, []string{
		"uuid", "login", "user_uuid", "purchase_uuid", "platform_group_uuid",
		"current_phase", "status", "funded_status", "is_kyc", "account_type",
		"account_stage", "platform_name", "legacy_rating",
	}, accounts.Columns)

	// Evolution scenario: funded_at null, status mirrors is_active.
	evo := rowByField(t, accounts, "login", "100")
	assert.Equal(t, "1", evo.Get("current_phase").Raw)
	assert.Equal(t, "1", evo.Get("status").Raw)
	assert.Equal(t, "0", evo.Get("funded_status").Raw)
	assert.Equal(t, "1", evo.Get("is_kyc").Raw)
	assert.Equal(t, "standard", evo.Get("account_type").Raw)
	assert.Equal(t, "single", evo.Get("account_stage").Raw)
	assert.Equal(t, userUUID, evo.Get("user_uuid").Raw)
	assert.Equal(t, purchaseUUID, evo.Get("purchase_uuid").Raw)
	assert.Equal(t, "g-uuid-2", evo.Get("platform_group_uuid").Raw)

	// Approved funded scenario: member group, active.
	approved := rowByField(t, accounts, "login", "101")
	assert.Equal(t, "0", approved.Get("current_phase").Raw)
	assert.Equal(t, "1", approved.Get("status").Raw)
	assert.Equal(t, "1", approved.Get("funded_status").Raw)
	assert.Equal(t, "0", approved.Get("is_kyc").Raw)
	assert.Equal(t, "aggressive", approved.Get("account_type").Raw)
	assert.Equal(t, "instant", approved.Get("account_stage").Raw)
	assert.Equal(t, "g-uuid-1", approved.Get("platform_group_uuid").Raw)

	// Rejected funded scenario: non-member, inactive; both references orphaned.
	rejected := rowByField(t, accounts, "login", "103")
	assert.Equal(t, "1", rejected.Get("current_phase").Raw)
	assert.Equal(t, "0", rejected.Get("status").Raw)
	assert.Equal(t, "2", rejected.Get("funded_status").Raw)
	assert.True(t, rejected.Get("user_uuid").IsNull())
	assert.True(t, rejected.Get("purchase_uuid").IsNull())

	// The configured column absent from the data is emitted as null.
	for _, row := range accounts.Rows {
		assert.True(t, row.Get("legacy_rating").IsNull())
	}

	rep := exp.Report()
	acc := rep.Entity("platform_accounts")
	assert.Equal(t, 5, acc.RecordsIn)
	assert.Equal(t, 3, acc.RecordsOut)
	assert.Equal(t, 1, acc.Rejected["unique:purchase_id"])
	assert.Equal(t, 1, acc.Orphans["user_id"])
	assert.Equal(t, []string{"9"}, acc.OrphanSamples["user_id"])
	assert.Equal(t, 1, acc.Orphans["purchase_id"])
	assert.Zero(t, acc.Orphans["group"]) // every kept account's group is in the extract
	assert.Equal(t, []string{"legacy_rating"}, acc.MissingColumns)
	assert.False(t, acc.ConfigFallback)

	pur := rep.Entity("purchases")
	assert.Equal(t, 1, pur.Orphans["user_id"])
	// Row 12's null discount_id counts as an orphan under the null policy.
	assert.Equal(t, 1, pur.Orphans["discount_id"])

	// Entities without a column configuration fall back to all columns.
	assert.True(t, rep.Entity("users").ConfigFallback)

	grp := rep.Entity("platform_groups")
	found := false
	for _, n := range grp.Notes {
		if n == `keep-list group "demo\Nostro\U-TPS-3-B" not present in extract` {
			found = true
		}
	}
	assert.True(t, found, "expected missing keep-list note, got %v", grp.Notes)
}

func TestRunPreviewWritesNothing(t *testing.T) {
	cfg := writeFixtures(t)
	exp, err := New(cfg, zap.NewNop(), false)
	require.NoError(t, err)

	require.NoError(t, exp.Run(context.Background(), AllEntities))

	_, err = os.Stat(filepath.Join(cfg.OutputDir, "new_users.csv"))
	assert.True(t, os.IsNotExist(err))

	// The report still reflects the full run.
	assert.Equal(t, 2, exp.Report().Entity("users").RecordsOut)
}

func TestRunExpandsDependencies(t *testing.T) {
	cfg := writeFixtures(t)
	exp, err := New(cfg, zap.NewNop(), true)
	require.NoError(t, err)

	// Requesting purchases alone must pull in users and discounts.
	require.NoError(t, exp.Run(context.Background(), []string{EntityPurchases}))

	for _, name := range []string{"new_users.csv", "new_discount_codes.csv", "new_purchases.csv"} {
		_, err := os.Stat(filepath.Join(cfg.OutputDir, name))
		assert.NoError(t, err, name)
	}
	_, err = os.Stat(filepath.Join(cfg.OutputDir, "new_platform_accounts.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunRejectsUnknownEntity(t *testing.T) {
	cfg := writeFixtures(t)
	exp, err := New(cfg, zap.NewNop(), false)
	require.NoError(t, err)

	err = exp.Run(context.Background(), []string{"nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown entity")
}
