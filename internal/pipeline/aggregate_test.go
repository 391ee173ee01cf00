package pipeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retail-insights/internal/domain"
	"retail-insights/internal/model"
)

func submissionRows(rows ...[2]interface{}) []model.Record {
	out := make([]model.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.Record{"Id": r[0], "Weekly_Sales": r[1]})
	}
	return out
}

func TestAggregate_EndToEndDepartments(t *testing.T) {
	records := submissionRows(
		[2]interface{}{"1_1_2024-01-01", "100"},
		[2]interface{}{"1_1_2024-01-08", "300"},
		[2]interface{}{"1_2_2024-01-01", "50"},
	)

	accs, err := Aggregate(records, DepartmentKey("Id"), FieldValue("Weekly_Sales"))
	require.NoError(t, err)
	require.Len(t, accs, 2)

	assert.Equal(t, 1, accs[0].Key)
	assert.Equal(t, 2, accs[0].Count)
	assert.Equal(t, 400.0, accs[0].Sum)
	assert.Equal(t, 200.0, accs[0].Average())

	assert.Equal(t, 2, accs[1].Key)
	assert.Equal(t, 1, accs[1].Count)
	assert.Equal(t, 50.0, accs[1].Sum)
	assert.Equal(t, 50.0, accs[1].Average())

	summaries, err := Summarize(accs, DefaultSummaryRules(), fixedFiller{})
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "Department 1", summaries[0].Name)
	assert.Equal(t, 400.0, summaries[0].TotalSales)
	assert.Equal(t, 200.0, summaries[0].AverageSales)
	assert.Equal(t, "Department 2", summaries[1].Name)
	assert.Equal(t, 1, summaries[1].Count)
}

func TestAggregate_OneAccumulatorPerKeyAndCountsAddUp(t *testing.T) {
	records := []model.Record{
		{"k": "a", "v": 1}, {"k": "b", "v": 2}, {"k": "a", "v": 3},
		{"k": "c", "v": 4.5}, {"k": "b", "v": "x"}, {"k": "a", "v": -1},
	}

	accs, err := Aggregate(records, FieldKey("k"), FieldValue("v"))
	require.NoError(t, err)
	require.Len(t, accs, 3)

	total := 0
	for _, acc := range accs {
		assert.GreaterOrEqual(t, acc.Count, 1)
		assert.InDelta(t, acc.Sum/float64(acc.Count), acc.Average(), 1e-12)
		total += acc.Count
	}
	assert.Equal(t, len(records), total)
}

func TestAggregate_FirstOccurrenceOrder(t *testing.T) {
	records := []model.Record{{"k": "A"}, {"k": "B"}, {"k": "A"}, {"k": "C"}}

	accs, err := Aggregate(records, FieldKey("k"), FieldValue("v"))
	require.NoError(t, err)

	keys := make([]string, 0, len(accs))
	for _, acc := range accs {
		keys = append(keys, acc.Key)
	}
	assert.Equal(t, []string{"A", "B", "C"}, keys)
}

func TestAggregate_MalformedValueCountsAsZero(t *testing.T) {
	records := submissionRows(
		[2]interface{}{"1_1_2024-01-01", "N/A"},
		[2]interface{}{"1_1_2024-01-08", 10},
		[2]interface{}{"1_3_2024-01-08", "NaN"},
		[2]interface{}{"1_3_2024-01-15", math.Inf(1)},
	)

	accs, err := Aggregate(records, DepartmentKey("Id"), FieldValue("Weekly_Sales"))
	require.NoError(t, err)
	require.Len(t, accs, 2)
	assert.Equal(t, 10.0, accs[0].Sum)
	assert.Equal(t, 2, accs[0].Count)
	assert.Equal(t, 0.0, accs[1].Sum)
	assert.Equal(t, 2, accs[1].Count)
}

func TestAggregate_NonFiniteValueFuncIsZero(t *testing.T) {
	records := []model.Record{{"k": "a"}, {"k": "a"}}
	values := []float64{math.NaN(), 4}
	i := 0
	valueFn := func(model.Record) float64 {
		v := values[i]
		i++
		return v
	}

	accs, err := Aggregate(records, FieldKey("k"), valueFn)
	require.NoError(t, err)
	assert.Equal(t, 4.0, accs[0].Sum)
	assert.Equal(t, 2.0, accs[0].Average())
}

func TestAggregate_KeyFailureIsFatal(t *testing.T) {
	records := submissionRows(
		[2]interface{}{"1_1_2024-01-01", "100"},
		[2]interface{}{"broken", "300"},
	)

	accs, err := Aggregate(records, DepartmentKey("Id"), FieldValue("Weekly_Sales"))
	require.Error(t, err)
	assert.Nil(t, accs)
	assert.True(t, domain.IsMalformedInput(err))
	assert.Contains(t, err.Error(), "row 2")
}

func TestAggregate_MissingKeyFieldIsMalformed(t *testing.T) {
	_, err := Aggregate([]model.Record{{"Weekly_Sales": 1}}, DepartmentKey("Id"), FieldValue("Weekly_Sales"))
	assert.True(t, domain.IsMalformedInput(err))

	_, err = Aggregate([]model.Record{{"v": 1}}, FieldKey("k"), FieldValue("v"))
	assert.True(t, domain.IsMalformedInput(err))
}

func TestAggregate_Empty(t *testing.T) {
	accs, err := Aggregate(nil, FieldKey("k"), FieldValue("v"))
	require.NoError(t, err)
	assert.NotNil(t, accs)
	assert.Empty(t, accs)
}

func TestDepartmentKey(t *testing.T) {
	key := DepartmentKey("Id")

	dept, err := key(model.Record{"Id": "12_ 7 _2024-02-02"})
	require.NoError(t, err)
	assert.Equal(t, 7, dept)

	_, err = key(model.Record{"Id": "12_x_2024"})
	assert.Error(t, err)

	_, err = key(model.Record{"Id": 5})
	assert.Error(t, err)
}

func TestHead_IsPrefix(t *testing.T) {
	items := []int{1, 2, 3}
	assert.Equal(t, []int{1, 2}, Head(items, 2))
	assert.Equal(t, items, Head(items, 3))
	assert.Equal(t, items, Head(items, 10))
	assert.Empty(t, Head(items, 0))
	assert.Equal(t, items, Head(items, -1))
}

func TestSummarize_TruncationIsPrefixView(t *testing.T) {
	var records []model.Record
	for _, id := range []string{"1_4_a", "1_2_a", "1_4_b", "1_9_a", "1_1_a", "1_2_b"} {
		records = append(records, model.Record{"Id": id, "Weekly_Sales": 1234.5})
	}
	accs, err := Aggregate(records, DepartmentKey("Id"), FieldValue("Weekly_Sales"))
	require.NoError(t, err)
	require.Len(t, accs, 4)

	full, err := Summarize(accs, DefaultSummaryRules(), fixedFiller{})
	require.NoError(t, err)

	for k := 0; k <= len(accs); k++ {
		limited, err := Summarize(Head(accs, k), DefaultSummaryRules(), fixedFiller{})
		require.NoError(t, err)
		assert.Equal(t, full[:k], limited, "k=%d", k)
	}
}

func TestSummarize_SeededFillerPrefix(t *testing.T) {
	accs := []Accumulator[int]{{Key: 1, Sum: 10, Count: 1}, {Key: 2, Sum: 20, Count: 1}, {Key: 3, Sum: 30, Count: 1}}

	full, err := Summarize(accs, DefaultSummaryRules(), NewSeededFiller(1, 2))
	require.NoError(t, err)
	limited, err := Summarize(Head(accs, 2), DefaultSummaryRules(), NewSeededFiller(1, 2))
	require.NoError(t, err)

	assert.Equal(t, full[:2], limited)
}
