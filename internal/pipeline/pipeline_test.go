package pipeline_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godilite/studio-insights/internal/pipeline"
	"github.com/godilite/studio-insights/internal/records"
)

func sessionConfig() pipeline.Config[records.Session] {
	return pipeline.Config[records.Session]{
		Key: pipeline.Field[records.Session]("trainer"),
		Measures: []pipeline.Measure{
			pipeline.CountAs("sessions"),
			pipeline.SumOf("capacity", "capacity"),
			pipeline.SumOf("booked", "booked"),
			pipeline.SumOf("checked_in", "checked_in"),
			pipeline.SumOf("cancelled", "cancelled"),
			pipeline.SumOf("new_clients", "new_clients"),
			pipeline.SumOf("revenue", "revenue"),
			pipeline.NonZero("non_empty", "checked_in"),
		},
		Derive: []pipeline.Derivation{
			pipeline.Percent("fill_rate", "checked_in", "capacity"),
			pipeline.Percent("conversion_rate", "new_clients", "checked_in"),
			pipeline.Complement("retention_rate", "new_clients", "checked_in"),
			pipeline.Percent("cancellation_rate", "cancelled", "booked"),
			pipeline.Ratio("revenue_per_session", "revenue", "sessions"),
			pipeline.Ratio("avg_per_session", "checked_in", "non_empty"),
			pipeline.Score("score", "fill_rate", "cancellation_rate", "retention_rate", "conversion_rate"),
		},
	}
}

func sampleSessions() []records.Session {
	return []records.Session{
		{Trainer: "Anisha", Capacity: 20, Booked: 18, CheckedIn: 15, Cancelled: 3, NewClients: 3, Revenue: 3000},
		{Trainer: "Rohan", Capacity: 10, Booked: 4, CheckedIn: 0, Cancelled: 4, Revenue: 0},
		{Trainer: "Anisha", Capacity: 20, Booked: 20, CheckedIn: 19, Cancelled: 1, NewClients: 1, Revenue: 4000},
		{Trainer: "", Capacity: 12, Booked: 10, CheckedIn: 8, NewClients: 2, Revenue: 1200},
		{Trainer: "Rohan", Capacity: 10, Booked: 10, CheckedIn: 9, Cancelled: 1, Revenue: 1800},
	}
}

func byName[R pipeline.Record](buckets []pipeline.DerivedBucket[R]) map[string]pipeline.DerivedBucket[R] {
	out := make(map[string]pipeline.DerivedBucket[R], len(buckets))
	for _, b := range buckets {
		out[b.Name] = b
	}
	return out
}

func TestRun_TotalsMatchPerKeySums(t *testing.T) {
	input := sampleSessions()
	buckets := pipeline.Run(input, sessionConfig())
	require.Len(t, buckets, 3)

	expected := map[string]float64{}
	counts := map[string]float64{}
	for _, s := range input {
		key := records.KeyOrUnknown(s.Trainer)
		expected[key] += s.Revenue
		counts[key]++
	}

	var totalSessions float64
	for _, b := range buckets {
		assert.Equal(t, expected[b.Name], b.Totals["revenue"], b.Name)
		assert.Equal(t, counts[b.Name], b.Totals["sessions"], b.Name)
		totalSessions += b.Totals["sessions"]
	}
	assert.Equal(t, float64(len(input)), totalSessions, "every record lands in exactly one bucket")
}

func TestRun_FirstSeenOrder(t *testing.T) {
	buckets := pipeline.Run(sampleSessions(), sessionConfig())
	names := []string{}
	for _, b := range buckets {
		names = append(names, b.Name)
	}
	assert.Equal(t, []string{"Anisha", "Rohan", records.Unknown}, names)
}

func TestRun_DerivedMetrics(t *testing.T) {
	got := byName(pipeline.Run(sampleSessions(), sessionConfig()))

	anisha := got["Anisha"]
	assert.InDelta(t, 85.0, anisha.Metrics["fill_rate"], 1e-9)
	assert.InDelta(t, 4.0/34.0*100, anisha.Metrics["conversion_rate"], 1e-9)
	assert.InDelta(t, 30.0/34.0*100, anisha.Metrics["retention_rate"], 1e-9)
	assert.InDelta(t, 4.0/38.0*100, anisha.Metrics["cancellation_rate"], 1e-9)
	assert.Equal(t, 3500.0, anisha.Metrics["revenue_per_session"])
	assert.Equal(t, 17.0, anisha.Metrics["avg_per_session"])

	rohan := got["Rohan"]
	assert.Equal(t, 1.0, rohan.Totals["non_empty"])
	assert.Equal(t, 9.0, rohan.Metrics["avg_per_session"], "empty sessions are excluded from the divisor")
	assert.Equal(t, 900.0, rohan.Metrics["revenue_per_session"])
}

func TestRun_ZeroDenominatorsYieldZero(t *testing.T) {
	input := []records.Session{{Trainer: "Ghost"}}
	buckets := pipeline.Run(input, sessionConfig())
	require.Len(t, buckets, 1)

	for name, v := range buckets[0].Metrics {
		if name == "score" {
			continue
		}
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), name)
		assert.Equal(t, 0.0, v, name)
	}
}

func TestRun_UnknownBucket(t *testing.T) {
	input := []records.Session{
		{Trainer: ""},
		{Trainer: "   "},
		{Trainer: "null"},
		{Trainer: "undefined"},
	}
	buckets := pipeline.Run(input, sessionConfig())
	require.Len(t, buckets, 1)
	assert.Equal(t, records.Unknown, buckets[0].Name)
	assert.Equal(t, 4.0, buckets[0].Totals["sessions"])
}

func TestRun_CompositeKey(t *testing.T) {
	input := []records.Session{
		{ClassFormat: "Barre", Trainer: "Anisha"},
		{ClassFormat: "Barre", Trainer: "Rohan"},
		{ClassFormat: "Barre", Trainer: "Anisha"},
		{ClassFormat: "Cycle"},
	}
	cfg := pipeline.Config[records.Session]{
		Key: pipeline.Join(records.CompositeSeparator,
			pipeline.Field[records.Session]("class_format"),
			pipeline.Field[records.Session]("trainer")),
		Measures: []pipeline.Measure{pipeline.CountAs("sessions")},
	}
	got := byName(pipeline.Run(input, cfg))
	require.Len(t, got, 3)
	assert.Equal(t, 2.0, got["Barre • Anisha"].Totals["sessions"])
	assert.Equal(t, 1.0, got["Cycle • Unknown"].Totals["sessions"])
}

func TestRun_DistinctAndKeepRecords(t *testing.T) {
	input := []records.Sale{
		{Product: "10 Pack", CustomerEmail: "a@x.io", Paid: 100},
		{Product: "10 Pack", CustomerEmail: "b@x.io", Paid: 100},
		{Product: "10 Pack", CustomerEmail: "a@x.io", Paid: 50},
		{Product: "Mat", CustomerEmail: "", Paid: 20},
	}
	cfg := pipeline.Config[records.Sale]{
		Key: pipeline.Field[records.Sale]("product"),
		Measures: []pipeline.Measure{
			pipeline.SumOf("paid", "paid"),
			pipeline.DistinctOf("customers", "customer_email"),
		},
		Derive:      []pipeline.Derivation{pipeline.Ratio("revenue_per_customer", "paid", "customers")},
		KeepRecords: true,
	}
	got := byName(pipeline.Run(input, cfg))

	pack := got["10 Pack"]
	assert.Equal(t, 2.0, pack.Totals["customers"])
	assert.Equal(t, 125.0, pack.Metrics["revenue_per_customer"])
	require.Len(t, pack.Records, 3)
	assert.Equal(t, input[0], pack.Records[0])
	assert.Equal(t, input[2], pack.Records[2])

	mat := got["Mat"]
	assert.Equal(t, 0.0, mat.Totals["customers"])
	assert.Equal(t, 0.0, mat.Metrics["revenue_per_customer"])
}

func TestRun_OrderIndependentTotals(t *testing.T) {
	input := sampleSessions()
	reversed := make([]records.Session, len(input))
	for i := range input {
		reversed[len(input)-1-i] = input[i]
	}

	a := byName(pipeline.Run(input, sessionConfig()))
	b := byName(pipeline.Run(reversed, sessionConfig()))
	require.Len(t, b, len(a))
	for name, bucket := range a {
		assert.Equal(t, bucket.Totals, b[name].Totals, name)
		assert.Equal(t, bucket.Metrics, b[name].Metrics, name)
	}
}

func TestRun_Deterministic(t *testing.T) {
	cfg := sessionConfig()
	cfg.KeepRecords = true
	first := pipeline.Run(sampleSessions(), cfg)
	second := pipeline.Run(sampleSessions(), cfg)
	assert.Equal(t, first, second)
}

func TestRun_EmptyInput(t *testing.T) {
	buckets := pipeline.Run([]records.Session{}, sessionConfig())
	assert.NotNil(t, buckets)
	assert.Empty(t, buckets)
}

func TestRun_DoesNotMutateInput(t *testing.T) {
	input := sampleSessions()
	snapshot := sampleSessions()
	cfg := sessionConfig()
	cfg.KeepRecords = true
	_ = pipeline.Run(input, cfg)
	assert.Equal(t, snapshot, input)
}

func TestGroup(t *testing.T) {
	input := sampleSessions()
	groups := pipeline.Group(input, pipeline.Field[records.Session]("trainer"))

	assert.Equal(t, 3, groups.Len())
	assert.Equal(t, []string{"Anisha", "Rohan", records.Unknown}, groups.Keys())

	b, ok := groups.Get(records.Unknown)
	require.True(t, ok)
	assert.Equal(t, records.Unknown, b.Key)
	assert.Empty(t, b.Totals)

	total := 0
	for _, bucket := range groups.Buckets() {
		total += len(bucket.Records)
	}
	assert.Equal(t, len(input), total, "every record lands in exactly one bucket")

	_, ok = groups.Get("")
	assert.False(t, ok)
}

func TestAccumulate(t *testing.T) {
	groups := pipeline.Group(sampleSessions(), pipeline.Field[records.Session]("trainer"))
	b, ok := groups.Get("Rohan")
	require.True(t, ok)

	measures := []pipeline.Measure{pipeline.SumOf("revenue", "revenue"), pipeline.CountAs("sessions")}
	pipeline.Accumulate(b, records.Session{Trainer: "Rohan", Revenue: 100}, measures)
	pipeline.Accumulate(b, records.Session{Trainer: "Rohan"}, measures)

	assert.Equal(t, 100.0, b.Totals["revenue"])
	assert.Equal(t, 2.0, b.Totals["sessions"])
}
