package recordmgr

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ajoshi/pagestore/internal/record"
)

func testSchema(t *testing.T) *record.Schema {
	t.Helper()
	schema, err := record.CreateSchema(
		[]string{"id", "name", "salary"},
		[]record.DataType{record.Int, record.String, record.Float},
		[]int{0, 4, 0},
		[]int{0},
	)
	require.NoError(t, err)
	return schema
}

func withTempTable(t *testing.T, schema *record.Schema) string {
	t.Helper()
	dir := t.TempDir()
	name := filepath.Join(dir, "t")
	require.NoError(t, CreateTable(name, schema))
	return name
}

func mustRecord(t *testing.T, schema *record.Schema, id int32, name string, salary float32) *Record {
	t.Helper()
	r, err := CreateRecord(schema)
	require.NoError(t, err)
	require.NoError(t, r.SetAttr(0, record.IntValue(id)))
	require.NoError(t, r.SetAttr(1, record.StringValue(name)))
	require.NoError(t, r.SetAttr(2, record.FloatValue(salary)))
	return r
}

// S5 — record round-trip.
func TestScenario_RecordRoundTrip(t *testing.T) {
	schema := testSchema(t)
	name := withTempTable(t, schema)

	tbl, err := OpenTable(name)
	require.NoError(t, err)

	r1 := mustRecord(t, schema, 1, "AAAA", 100.0)
	require.NoError(t, tbl.Insert(r1))
	r2 := mustRecord(t, schema, 2, "BBBB", 200.0)
	require.NoError(t, tbl.Insert(r2))

	require.Equal(t, 2, tbl.NumTuples())
	require.NoError(t, tbl.Close())

	tbl2, err := OpenTable(name)
	require.NoError(t, err)
	defer tbl2.Close()

	require.Equal(t, 2, tbl2.NumTuples())

	got := &Record{}
	require.NoError(t, tbl2.Get(r1.ID, got))
	gotID, err := got.GetAttr(0)
	require.NoError(t, err)
	require.Equal(t, int32(1), gotID.IntV)

	got2 := &Record{}
	require.NoError(t, tbl2.Get(r2.ID, got2))
	name2, err := got2.GetAttr(1)
	require.NoError(t, err)
	require.Equal(t, "BBBB", name2.StringV)
}

func TestInsertDeleteUpdateGet(t *testing.T) {
	schema := testSchema(t)
	name := withTempTable(t, schema)
	tbl, err := OpenTable(name)
	require.NoError(t, err)
	defer tbl.Close()

	r := mustRecord(t, schema, 7, "XXXX", 1.5)
	require.NoError(t, tbl.Insert(r))

	got := &Record{}
	require.NoError(t, tbl.Get(r.ID, got))

	require.NoError(t, got.SetAttr(2, record.FloatValue(9.5)))
	require.NoError(t, tbl.Update(got))

	reread := &Record{}
	require.NoError(t, tbl.Get(r.ID, reread))
	salary, err := reread.GetAttr(2)
	require.NoError(t, err)
	require.InDelta(t, float32(9.5), salary.FloatV, 0.0001)

	require.NoError(t, tbl.Delete(r.ID))
	require.ErrorIs(t, tbl.Get(r.ID, &Record{}), ErrRecordNotFound)
	require.Equal(t, 0, tbl.NumTuples())
}

func TestInsertManyForcesNewPage(t *testing.T) {
	schema := testSchema(t)
	name := withTempTable(t, schema)
	tbl, err := OpenTable(name)
	require.NoError(t, err)
	defer tbl.Close()

	recordSize := schema.RecordSize()
	slotsPerPage := calculateSlotsPerPage(recordSize)

	for i := 0; i < slotsPerPage+5; i++ {
		r := mustRecord(t, schema, int32(i), "ZZZZ", float32(i))
		require.NoError(t, tbl.Insert(r))
	}
	require.Equal(t, slotsPerPage+5, tbl.NumTuples())
}

func TestDeleteRecordNotFound(t *testing.T) {
	schema := testSchema(t)
	name := withTempTable(t, schema)
	tbl, err := OpenTable(name)
	require.NoError(t, err)
	defer tbl.Close()

	require.ErrorIs(t, tbl.Delete(RID{Page: firstDataPage, Slot: 0}), ErrRecordNotFound)
}

func TestDeleteTableRemovesFile(t *testing.T) {
	schema := testSchema(t)
	name := withTempTable(t, schema)
	tbl, err := OpenTable(name)
	require.NoError(t, err)
	require.NoError(t, tbl.Close())

	require.NoError(t, DeleteTable(name))
	_, err = os.Stat(tablePath(name))
	require.True(t, os.IsNotExist(err))
}

type fnPredicate func(r *Record, schema *record.Schema) (record.Value, error)

func (f fnPredicate) Eval(r *Record, schema *record.Schema) (record.Value, error) { return f(r, schema) }

// S6 — filtered scan.
func TestScenario_FilteredScan(t *testing.T) {
	schema := testSchema(t)
	name := withTempTable(t, schema)
	tbl, err := OpenTable(name)
	require.NoError(t, err)
	defer tbl.Close()

	for i := 1; i <= 5; i++ {
		r := mustRecord(t, schema, int32(i), "VVVV", float32(i))
		require.NoError(t, tbl.Insert(r))
	}

	pred := fnPredicate(func(r *Record, schema *record.Schema) (record.Value, error) {
		v, err := r.GetAttr(0)
		if err != nil {
			return record.Value{}, err
		}
		return record.BoolValue(v.IntV > 2), nil
	})

	scan, err := tbl.StartScan(pred)
	require.NoError(t, err)
	defer scan.Close()

	var ids []int32
	for {
		r := &Record{}
		err := scan.Next(r)
		if err == ErrNoMoreTuples {
			break
		}
		require.NoError(t, err)
		v, err := r.GetAttr(0)
		require.NoError(t, err)
		ids = append(ids, v.IntV)
	}
	require.Equal(t, []int32{3, 4, 5}, ids)
}

func TestScanWithoutPredicateYieldsAll(t *testing.T) {
	schema := testSchema(t)
	name := withTempTable(t, schema)
	tbl, err := OpenTable(name)
	require.NoError(t, err)
	defer tbl.Close()

	for i := 1; i <= 3; i++ {
		r := mustRecord(t, schema, int32(i), "WWWW", float32(i))
		require.NoError(t, tbl.Insert(r))
	}

	scan, err := tbl.StartScan(nil)
	require.NoError(t, err)
	defer scan.Close()

	count := 0
	for {
		r := &Record{}
		if err := scan.Next(r); err != nil {
			require.ErrorIs(t, err, ErrNoMoreTuples)
			break
		}
		count++
	}
	require.Equal(t, 3, count)
}
