package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	tbl := mustRead(t, sampleCSV)

	summary := tbl.Describe()
	require.Len(t, summary, 3)

	idade := summary[1]
	assert.Equal(t, "idade", idade.Name)
	assert.Equal(t, 4, idade.Count)
	assert.Equal(t, 1, idade.Missing)
	require.NotNil(t, idade.Mean)
	assert.InDelta(t, 39.5, *idade.Mean, 1e-9)
	assert.InDelta(t, 28, *idade.Min, 1e-9)
	assert.InDelta(t, 51, *idade.Max, 1e-9)
	require.NotNil(t, idade.Std)

	cidade := summary[0]
	assert.Equal(t, 3, cidade.Unique)
	assert.Equal(t, "Recife", cidade.Top)
	assert.Nil(t, cidade.Mean)
}

func TestHead(t *testing.T) {
	tbl := mustRead(t, sampleCSV)

	rows := tbl.Head(2)
	require.Len(t, rows, 2)
	assert.Equal(t, "Recife", rows[1]["cidade"])

	assert.Len(t, tbl.Head(100), 5)
	assert.Len(t, tbl.Head(0), 1)
}

func TestValueCounts(t *testing.T) {
	tbl := mustRead(t, sampleCSV)

	counts, err := tbl.ValueCounts("plano", 10)
	require.NoError(t, err)
	assert.Equal(t, []ValueCount{{"premium", 3}, {"basico", 2}}, counts)

	_, err = tbl.ValueCounts("nope", 10)
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestFilter(t *testing.T) {
	tbl := mustRead(t, sampleCSV)

	rows, total, err := tbl.Filter("idade", ">=", "45", 10)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "45", rows[0]["idade"])

	rows, total, err = tbl.Filter("cidade", "contains", "paulo", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, rows, 1)

	_, total, err = tbl.Filter("plano", "==", "PREMIUM", 10)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	_, _, err = tbl.Filter("cidade", ">", "x", 10)
	assert.ErrorIs(t, err, ErrNotNumeric)

	_, _, err = tbl.Filter("idade", "~", "1", 10)
	assert.ErrorIs(t, err, ErrUnknownOperator)
}

func TestGroupAggregate(t *testing.T) {
	tbl := mustRead(t, sampleCSV)

	got, err := tbl.GroupAggregate("cidade", "", "count")
	require.NoError(t, err)
	assert.Equal(t, []GroupResult{{"São Paulo", 2}, {"Recife", 2}, {"Curitiba", 1}}, got)

	got, err = tbl.GroupAggregate("plano", "idade", "mean")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "premium", got[0].Group)
	assert.InDelta(t, 42.5, got[0].Value, 1e-9)
	assert.InDelta(t, 36.5, got[1].Value, 1e-9)

	_, err = tbl.GroupAggregate("plano", "cidade", "sum")
	assert.ErrorIs(t, err, ErrNotNumeric)

	_, err = tbl.GroupAggregate("plano", "idade", "median")
	assert.ErrorIs(t, err, ErrUnknownAgg)
}
