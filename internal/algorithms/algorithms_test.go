package algorithms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fdrose/compgraph/internal/ops"
)

func source(rows []ops.Row) func() ops.RowIterator {
	return func() ops.RowIterator { return ops.NewSliceIterator(rows) }
}

func TestWordCountGraph(t *testing.T) {
	rows := []ops.Row{
		{"text": "hello, world!"},
		{"text": "hello again"},
	}
	g := WordCountGraph("docs", "text", "count")
	out, err := ops.Drain(g.Run(ops.Sources{"docs": source(rows)}))
	require.NoError(t, err)

	counts := map[string]int{}
	for _, row := range out {
		counts[row["text"].(string)] = row["count"].(int)
	}
	assert.Equal(t, 2, counts["hello"])
	assert.Equal(t, 1, counts["world"])
	assert.Equal(t, 1, counts["again"])
	// Ordered by (count, word) ascending: "again" and "world" (count=1)
	// sort before "hello" (count=2).
	assert.Equal(t, "hello", out[len(out)-1]["text"])
}

func TestInvertedIndexGraph(t *testing.T) {
	rows := []ops.Row{
		{"doc_id": "1", "text": "hello world"},
		{"doc_id": "2", "text": "hello there"},
	}
	g := InvertedIndexGraph("docs", "doc_id", "text", "tf_idf")
	out, err := ops.Drain(g.Run(ops.Sources{"docs": source(rows)}))
	require.NoError(t, err)
	require.NotEmpty(t, out)
	for _, row := range out {
		assert.Contains(t, row, "tf_idf")
	}
}

func TestPMIGraph(t *testing.T) {
	rows := []ops.Row{
		{"doc_id": "1", "text": "several words words words appear appear here"},
		{"doc_id": "2", "text": "different words words appear once here"},
	}
	g := PMIGraph("docs", "doc_id", "text", "pmi")
	out, err := ops.Drain(g.Run(ops.Sources{"docs": source(rows)}))
	require.NoError(t, err)
	for _, row := range out {
		assert.Contains(t, row, "pmi")
	}
}

func TestYandexMapsGraph(t *testing.T) {
	timeRows := []ops.Row{
		{"edge_id": int64(1), "enter_time": "2017-11-01T08:00:00", "leave_time": "2017-11-01T09:00:00"},
	}
	lengthRows := []ops.Row{
		{"edge_id": int64(1), "start": [2]float64{37.84870228730142, 55.73853974696249}, "end": [2]float64{37.8490418381989, 55.73832445777953}},
	}
	g := YandexMapsGraph("time", "length", "enter_time", "leave_time", "edge_id", "start", "end", "weekday", "hour", "speed")
	out, err := ops.Drain(g.Run(ops.Sources{
		"time":   source(timeRows),
		"length": source(lengthRows),
	}))
	require.NoError(t, err)
	require.Len(t, out, 1, "a single (weekday, hour) bucket")
	assert.Equal(t, "Wed", out[0]["weekday"])
	assert.Equal(t, 8, out[0]["hour"])
	assert.Contains(t, out[0], "speed")
}

func TestYandexMapsGraphBucketSpeedIsTotalDistanceOverTotalTime(t *testing.T) {
	// Two traversals of the same edge in the same (weekday, hour)
	// bucket, at different speeds: one crawling in 2 hours, one
	// covering the same distance in 0.5 hours. The bucket speed must
	// be sum(length)/sum(time), not mean(length/time) — the two differ
	// whenever traversal speeds within a bucket are unequal.
	timeRows := []ops.Row{
		{"edge_id": int64(1), "enter_time": "2017-11-01T08:00:00", "leave_time": "2017-11-01T10:00:00"},
		{"edge_id": int64(2), "enter_time": "2017-11-01T08:15:00", "leave_time": "2017-11-01T08:45:00"},
	}
	lengthRows := []ops.Row{
		{"edge_id": int64(1), "start": [2]float64{0, 0}, "end": [2]float64{0, 1}},
		{"edge_id": int64(2), "start": [2]float64{0, 0}, "end": [2]float64{0, 1}},
	}
	g := YandexMapsGraph("time", "length", "enter_time", "leave_time", "edge_id", "start", "end", "weekday", "hour", "speed")
	out, err := ops.Drain(g.Run(ops.Sources{
		"time":   source(timeRows),
		"length": source(lengthRows),
	}))
	require.NoError(t, err)
	require.Len(t, out, 1, "both traversals fall in the same (weekday, hour) bucket")

	length := 111.19 // approximate km per degree of latitude, both edges share it
	wantSpeed := (length + length) / (2.0 + 0.5)
	meanOfSpeeds := (length/2.0 + length/0.5) / 2.0
	assert.InDelta(t, wantSpeed, out[0]["speed"].(float64), 1.0)
	assert.NotInDelta(t, meanOfSpeeds, out[0]["speed"].(float64), 1.0,
		"bucket speed must not be the mean of per-traversal speeds")
}
