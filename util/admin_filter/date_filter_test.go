package admin_filter_test

import (
	"encoding/json"
	"testing"
	"time"

	af "AdminFilter/util/admin_filter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newQuery() *af.QueryBuilder {
	return af.NewQueryBuilder("App\\Entity\\Post", "o")
}

func TestDateFilter_MalformedValuesAreIgnored(t *testing.T) {
	tests := []struct {
		name   string
		filter *af.DateFilter
		value  *af.FilterValue
	}{
		{"nil value", af.NewDateFilter("created_at"), nil},
		{"missing value", af.NewDateFilter("created_at"), &af.FilterValue{}},
		{"range given to scalar filter", af.NewDateFilter("created_at"), af.NewRangeValue(day(2020, 11, 7), nil)},
		{"empty string", af.NewDateFilter("created_at"), af.NewScalarValue("")},
		{"zero", af.NewDateFilter("created_at"), af.NewScalarValue(0)},
		{"zero time", af.NewDateFilter("created_at"), af.NewScalarValue(time.Time{})},
		{"scalar given to range filter", af.NewDateRangeFilter("created_at"), af.NewScalarValue(day(2020, 11, 7))},
		{"empty range", af.NewDateRangeFilter("created_at"), af.NewRangeValue(nil, nil)},
		{"range of empty strings", af.NewDateRangeFilter("created_at"), af.NewRangeValue("", "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := newQuery()
			require.NoError(t, af.Apply(q, tt.filter, tt.value))
			assert.Empty(t, q.Where())
			assert.Empty(t, q.Parameters())
			assert.False(t, tt.filter.IsActive())
		})
	}
}

func TestDateFilter_EqualCoversWholeDay(t *testing.T) {
	q := newQuery()
	f := af.NewDateFilter("created_at")

	require.NoError(t, af.Apply(q, f, af.NewScalarValue(day(2020, 11, 7))))

	assert.Equal(t, "o.created_at >= :created_at_0 AND o.created_at < :created_at_1", q.Where())
	assert.Equal(t, map[string]any{
		"created_at_0": day(2020, 11, 7),
		"created_at_1": day(2020, 11, 8),
	}, q.Parameters())
	assert.True(t, f.IsActive())
}

func TestDateFilter_EqualWithExplicitType(t *testing.T) {
	q := newQuery()
	f := af.NewDateFilter("created_at")

	require.NoError(t, af.Apply(q, f, af.NewScalarValue(day(2020, 11, 7)).WithType(af.DateEqual)))

	assert.Equal(t, "o.created_at >= :created_at_0 AND o.created_at < :created_at_1", q.Where())
}

func TestDateFilter_EqualAddsCalendarDay(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("timezone database not available")
	}

	q := newQuery()
	f := af.NewDateFilter("created_at")
	start := time.Date(2020, 11, 1, 0, 0, 0, 0, loc)

	require.NoError(t, af.Apply(q, f, af.NewScalarValue(start)))

	end, _ := q.Parameter("created_at_1")
	assert.Equal(t, time.Date(2020, 11, 2, 0, 0, 0, 0, loc), end)
	assert.Equal(t, 25*time.Hour, end.(time.Time).Sub(start))
}

func TestDateFilter_ScalarOperators(t *testing.T) {
	tests := []struct {
		name   string
		filter *af.DateFilter
		code   int
		where  string
	}{
		{"greater equal", af.NewDateFilter("created_at"), af.DateGreaterEqual, "o.created_at >= :created_at_0"},
		{"greater than", af.NewDateFilter("created_at"), af.DateGreaterThan, "o.created_at > :created_at_0"},
		{"less equal", af.NewDateFilter("created_at"), af.DateLessEqual, "o.created_at <= :created_at_0"},
		{"less than", af.NewDateFilter("created_at"), af.DateLessThan, "o.created_at < :created_at_0"},
		{"unknown code falls back to equal", af.NewDateFilter("created_at"), 42, "o.created_at = :created_at_0"},
		{"equal with time", af.NewDateTimeFilter("created_at"), af.DateEqual, "o.created_at = :created_at_0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := newQuery()
			value := day(2020, 11, 7)

			require.NoError(t, af.Apply(q, tt.filter, af.NewScalarValue(value).WithType(tt.code)))

			assert.Equal(t, tt.where, q.Where())
			assert.Equal(t, map[string]any{"created_at_0": value}, q.Parameters())
		})
	}
}

func TestDateFilter_NullOperators(t *testing.T) {
	q := newQuery()
	require.NoError(t, af.Apply(q, af.NewDateFilter("created_at"), af.NewScalarValue(day(2020, 11, 7)).WithType(af.DateNull)))
	assert.Equal(t, "o.created_at IS NULL", q.Where())
	assert.Empty(t, q.Parameters())

	q = newQuery()
	require.NoError(t, af.Apply(q, af.NewDateFilter("created_at"), af.NewScalarValue(day(2020, 11, 7)).WithType(af.DateNotNull)))
	assert.Equal(t, "o.created_at IS NOT NULL", q.Where())
	assert.Empty(t, q.Parameters())
}

func TestDateFilter_TimestampInput(t *testing.T) {
	q := newQuery()
	f := af.NewDateFilter("created_at", af.WithInputType(af.InputTimestamp), af.WithLocation(time.UTC))

	require.NoError(t, af.Apply(q, f, af.NewScalarValue(day(2020, 11, 7))))

	assert.Equal(t, map[string]any{
		"created_at_0": int64(1604707200),
		"created_at_1": int64(1604793600),
	}, q.Parameters())
}

func TestDateFilter_TimestampInputInvalidValue(t *testing.T) {
	q := newQuery()
	f := af.NewDateTimeFilter("created_at", af.WithInputType(af.InputTimestamp))

	require.NoError(t, af.Apply(q, f, af.NewScalarValue("yesterday").WithType(af.DateGreaterThan)))

	assert.Equal(t, "o.created_at > :created_at_0", q.Where())
	assert.Equal(t, map[string]any{"created_at_0": int64(0)}, q.Parameters())
}

func TestDateFilter_RangeEndIsInflated(t *testing.T) {
	q := newQuery()
	f := af.NewDateRangeFilter("created_at")

	require.NoError(t, af.Apply(q, f, af.NewRangeValue(day(2020, 11, 1), day(2020, 11, 7))))

	assert.Equal(t, "o.created_at >= :created_at_0 AND o.created_at <= :created_at_1", q.Where())
	assert.Equal(t, map[string]any{
		"created_at_0": day(2020, 11, 1),
		"created_at_1": time.Date(2020, 11, 7, 23, 59, 59, 0, time.UTC),
	}, q.Parameters())
}

func TestDateFilter_DateTimeRangeEndIsKept(t *testing.T) {
	q := newQuery()
	f := af.NewDateTimeRangeFilter("created_at")
	end := time.Date(2020, 11, 7, 12, 30, 0, 0, time.UTC)

	require.NoError(t, af.Apply(q, f, af.NewRangeValue(nil, end)))

	assert.Equal(t, "o.created_at <= :created_at_1", q.Where())
	assert.Equal(t, map[string]any{"created_at_1": end}, q.Parameters())
}

func TestDateFilter_RangeWithOnlyStart(t *testing.T) {
	q := newQuery()
	f := af.NewDateRangeFilter("created_at")

	require.NoError(t, af.Apply(q, f, af.NewRangeValue(day(2020, 11, 1), nil)))

	assert.Equal(t, "o.created_at >= :created_at_0", q.Where())
	assert.Equal(t, map[string]any{"created_at_0": day(2020, 11, 1)}, q.Parameters())
}

func TestDateFilter_RangeNotBetween(t *testing.T) {
	q := newQuery()
	f := af.NewDateTimeRangeFilter("created_at")
	start := time.Date(2020, 11, 1, 8, 0, 0, 0, time.UTC)
	end := time.Date(2020, 11, 7, 18, 0, 0, 0, time.UTC)

	require.NoError(t, af.Apply(q, f, af.NewRangeValue(start, end).WithType(af.DateRangeNotBetween)))

	assert.Equal(t, "o.created_at < :created_at_0 OR o.created_at > :created_at_1", q.Where())
	assert.Equal(t, map[string]any{"created_at_0": start, "created_at_1": end}, q.Parameters())
}

func TestDateFilter_RangeNotBetweenIsGroupedWithOtherConditions(t *testing.T) {
	q := newQuery()
	q.AndWhere(af.Raw("o.enabled = true"))
	f := af.NewDateTimeRangeFilter("created_at")

	require.NoError(t, af.Apply(q, f, af.NewRangeValue(day(2020, 11, 1), day(2020, 11, 7)).WithType(af.DateRangeNotBetween)))

	assert.Equal(t, "o.enabled = true AND (o.created_at < :created_at_0 OR o.created_at > :created_at_1)", q.Where())
}

func TestDateFilter_RangeTimestampInput(t *testing.T) {
	q := newQuery()
	f := af.NewDateRangeFilter("created_at", af.WithInputType(af.InputTimestamp))

	require.NoError(t, af.Apply(q, f, af.NewRangeValue("garbage", day(2020, 11, 7))))

	assert.Equal(t, "o.created_at <= :created_at_1", q.Where())
	assert.Equal(t, map[string]any{"created_at_1": int64(1604793599)}, q.Parameters())
}

func TestDateFilter_ParameterNamesDoNotCollide(t *testing.T) {
	q := newQuery()
	first := af.NewDateTimeFilter("created_at")
	second := af.NewDateTimeFilter("created_at")

	require.NoError(t, af.Apply(q, first, af.NewScalarValue(day(2020, 11, 1)).WithType(af.DateGreaterThan)))
	require.NoError(t, af.Apply(q, second, af.NewScalarValue(day(2020, 11, 7)).WithType(af.DateLessThan)))

	assert.Equal(t, "o.created_at > :created_at_0 AND o.created_at < :created_at_1", q.Where())
	assert.Len(t, q.Parameters(), 2)
}

func TestDateFilter_OrCondition(t *testing.T) {
	q := newQuery()
	first := af.NewDateTimeFilter("created_at")
	second := af.NewDateTimeFilter("updated_at", af.WithCondition("or"))

	require.NoError(t, af.Apply(q, first, af.NewScalarValue(day(2020, 11, 1)).WithType(af.DateGreaterThan)))
	require.NoError(t, af.Apply(q, second, af.NewScalarValue(day(2020, 11, 7)).WithType(af.DateGreaterThan)))

	assert.Equal(t, "o.created_at > :created_at_0 OR o.updated_at > :updated_at_1", q.Where())
}

func TestDateFilter_ParentAssociation(t *testing.T) {
	q := newQuery()
	f := af.NewDateFilter("author.birthday",
		af.WithFieldName("birthday"),
		af.WithParentAssociations(af.AssociationMapping{FieldName: "author", Type: af.ManyToOne}),
	)

	require.NoError(t, af.Apply(q, f, af.NewScalarValue(day(1990, 1, 1)).WithType(af.DateLessThan)))

	assert.Equal(t, "SELECT o FROM App\\Entity\\Post o LEFT JOIN o.author s_author WHERE s_author.birthday < :author_birthday_0", q.DQL())
}

func TestDateFilter_RenderSettings(t *testing.T) {
	assert.Equal(t, af.DateType, af.NewDateFilter("d").RenderSettings().Type)
	assert.Equal(t, af.DateTimeType, af.NewDateTimeFilter("d").RenderSettings().Type)
	assert.Equal(t, af.DateRangeType, af.NewDateRangeFilter("d").RenderSettings().Type)
	assert.Equal(t, af.DateTimeRangeType, af.NewDateTimeRangeFilter("d").RenderSettings().Type)
	assert.Equal(t, "Created", af.NewDateFilter("d", af.WithLabel("Created")).RenderSettings().Options["label"])
}

func TestDateFilter_TimePointerInputs(t *testing.T) {
	start := day(2020, 11, 1)
	end := day(2020, 11, 7)

	t.Run("scalar equal covers whole day", func(t *testing.T) {
		q := newQuery()
		require.NoError(t, af.Apply(q, af.NewDateFilter("created_at"), af.NewScalarValue(&end)))

		assert.Equal(t, "o.created_at >= :created_at_0 AND o.created_at < :created_at_1", q.Where())
		assert.Equal(t, map[string]any{
			"created_at_0": day(2020, 11, 7),
			"created_at_1": day(2020, 11, 8),
		}, q.Parameters())
	})

	t.Run("range end is inflated", func(t *testing.T) {
		q := newQuery()
		require.NoError(t, af.Apply(q, af.NewDateRangeFilter("created_at"), af.NewRangeValue(&start, &end)))

		assert.Equal(t, map[string]any{
			"created_at_0": day(2020, 11, 1),
			"created_at_1": time.Date(2020, 11, 7, 23, 59, 59, 0, time.UTC),
		}, q.Parameters())
	})

	t.Run("nil pointer is ignored", func(t *testing.T) {
		q := newQuery()
		var missing *time.Time
		f := af.NewDateFilter("created_at")
		require.NoError(t, af.Apply(q, f, af.NewScalarValue(missing)))

		assert.Empty(t, q.Where())
		assert.False(t, f.IsActive())
	})
}

func TestDateFilter_FractionalTypeIsPlainEqual(t *testing.T) {
	q := newQuery()
	var value af.FilterValue
	require.NoError(t, json.Unmarshal([]byte(`{"type": 3.7, "value": "2020-11-07"}`), &value))
	value.NormalizeDates(time.UTC)

	require.NoError(t, af.Apply(q, af.NewDateFilter("created_at"), &value))

	assert.Equal(t, "o.created_at = :created_at_0", q.Where())
	assert.Equal(t, map[string]any{"created_at_0": day(2020, 11, 7)}, q.Parameters())
}
