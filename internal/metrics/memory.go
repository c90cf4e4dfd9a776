package metrics

import (
	"context"
	"sort"
	"sync"
)

// SeriesKey identifies an aggregated series.
type SeriesKey struct {
	Name      string
	Route     string
	Method    string
	ErrorType string
}

// Series is the running aggregate for one SeriesKey.
type Series struct {
	SeriesKey
	Count int64
	Sum   float64
}

// Snapshot is a point-in-time copy of every series, sorted by key.
type Snapshot struct {
	Namespace string
	Series    []Series
}

// DefaultMaxSeries caps the number of series an InMemorySink holds.
const DefaultMaxSeries = 1000

// InMemorySink aggregates data in memory. It backs GET /metrics and tests.
// Once maxSeries keys exist, data for new keys is folded into a per-metric
// series with Route set to RouteOverflow.
type InMemorySink struct {
	mu        sync.Mutex
	namespace string
	series    map[SeriesKey]*Series
	maxSeries int
	data      []Datum
	keepData  bool
}

// NewInMemory returns an aggregating sink capped at DefaultMaxSeries. With
// keepData, raw data points are retained as well; meant for tests only since
// the slice grows without bound.
func NewInMemory(keepData bool) *InMemorySink {
	return NewInMemoryWithLimit(keepData, DefaultMaxSeries)
}

// NewInMemoryWithLimit is NewInMemory with an explicit series cap.
// Non-positive limits fall back to DefaultMaxSeries.
func NewInMemoryWithLimit(keepData bool, maxSeries int) *InMemorySink {
	if maxSeries <= 0 {
		maxSeries = DefaultMaxSeries
	}
	return &InMemorySink{
		series:    make(map[SeriesKey]*Series),
		maxSeries: maxSeries,
		keepData:  keepData,
	}
}

// PutMetricData implements Sink.
func (m *InMemorySink) PutMetricData(ctx context.Context, namespace string, data []Datum) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.namespace = namespace
	for _, d := range data {
		key := SeriesKey{
			Name:      d.Name,
			Route:     d.Dimension(DimensionRoute),
			Method:    d.Dimension(DimensionMethod),
			ErrorType: d.Dimension(DimensionErrorType),
		}
		s, ok := m.series[key]
		if !ok {
			if len(m.series) >= m.maxSeries {
				key = SeriesKey{Name: d.Name, Route: RouteOverflow}
				s, ok = m.series[key]
			}
			if !ok {
				s = &Series{SeriesKey: key}
				m.series[key] = s
			}
		}
		s.Count++
		s.Sum += d.Value

		if m.keepData {
			m.data = append(m.data, d)
		}
	}
	return nil
}

// Snapshot returns a copy of the aggregates.
func (m *InMemorySink) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := Snapshot{Namespace: m.namespace, Series: make([]Series, 0, len(m.series))}
	for _, s := range m.series {
		out.Series = append(out.Series, *s)
	}
	sort.Slice(out.Series, func(i, j int) bool {
		a, b := out.Series[i], out.Series[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if a.Route != b.Route {
			return a.Route < b.Route
		}
		if a.Method != b.Method {
			return a.Method < b.Method
		}
		return a.ErrorType < b.ErrorType
	})
	return out
}

// Data returns the retained raw data points.
func (m *InMemorySink) Data() []Datum {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Datum(nil), m.data...)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
