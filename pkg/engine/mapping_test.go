package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remap/pkg/schema"
)

func TestBuildIdentityMap(t *testing.T) {
	m, err := BuildIdentityMap("users", []IDPair{
		{Old: "1", New: "aaaa"},
		{Old: "2", New: "bbbb"},
		{Old: "3", New: "cccc"},
	})
	require.NoError(t, err)

	assert.Equal(t, "users", m.Entity())
	assert.Equal(t, 3, m.Len())

	got, ok := m.Lookup("2")
	assert.True(t, ok)
	assert.Equal(t, "bbbb", got)

	_, ok = m.Lookup("99")
	assert.False(t, ok)
}

func TestBuildIdentityMapDuplicateKey(t *testing.T) {
	_, err := BuildIdentityMap("users", []IDPair{
		{Old: "1", New: "aaaa"},
		{Old: "2", New: "bbbb"},
		{Old: "1", New: "cccc"},
	})
	require.Error(t, err)

	var dup *DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "users", dup.Entity)
	assert.Equal(t, "1", dup.Key)
}

func TestPairsFromTable(t *testing.T) {
	tbl := schema.NewTable([]string{"id", "uuid"})
	tbl.Rows = []schema.Record{
		{"id": schema.String("1"), "uuid": schema.String("aaaa")},
		{"id": schema.Null, "uuid": schema.String("bbbb")}, // null ids are skipped
		{"id": schema.String("3"), "uuid": schema.String("cccc")},
	}

	pairs, err := PairsFromTable("users", tbl, "id", "uuid")
	require.NoError(t, err)
	assert.Equal(t, []IDPair{
		{Old: "1", New: "aaaa"},
		{Old: "3", New: "cccc"},
	}, pairs)
}

func TestPairsFromTablesCountMismatch(t *testing.T) {
	oldTbl := schema.NewTable([]string{"id"})
	oldTbl.Rows = []schema.Record{{"id": schema.String("1")}}
	newTbl := schema.NewTable([]string{"uuid"})

	_, err := PairsFromTables("users", oldTbl, newTbl, "id", "uuid")
	require.Error(t, err)

	var pce *PairCountError
	require.ErrorAs(t, err, &pce)
	assert.Equal(t, 1, pce.OldRecords)
	assert.Equal(t, 0, pce.NewRecords)
}

func TestPairsFromTablesZipsPositionally(t *testing.T) {
	oldTbl := schema.NewTable([]string{"id"})
	oldTbl.Rows = []schema.Record{
		{"id": schema.String("10")},
		{"id": schema.String("20")},
	}
	newTbl := schema.NewTable([]string{"uuid"})
	newTbl.Rows = []schema.Record{
		{"uuid": schema.String("aaaa")},
		{"uuid": schema.String("bbbb")},
	}

	pairs, err := PairsFromTables("purchases", oldTbl, newTbl, "id", "uuid")
	require.NoError(t, err)

	m, err := BuildIdentityMap("purchases", pairs)
	require.NoError(t, err)
	got, ok := m.Lookup("20")
	assert.True(t, ok)
	assert.Equal(t, "bbbb", got)
}
