// Package metrics delivers request telemetry to a time-series sink.
package metrics

import (
	"context"
	"time"
)

// Metric names emitted by the telemetry interceptor.
const (
	MetricLatency  = "Latency"
	MetricRequests = "Requests"
	MetricErrors   = "Errors"
)

// Dimension names attached to every datum.
const (
	DimensionRoute     = "Route"
	DimensionMethod    = "Method"
	DimensionErrorType = "ErrorType"
)

// Fixed dimension values for requests outside the route table.
const (
	RouteUnmatched = "unmatched"
	RouteOverflow  = "overflow"
	MethodOther    = "OTHER"
)

// Unit is the unit of a datum value.
type Unit string

// Supported units.
const (
	UnitMilliseconds Unit = "Milliseconds"
	UnitCount        Unit = "Count"
)

// Dimension is a name/value tag on a datum.
type Dimension struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Datum is a single named, dimensioned data point.
type Datum struct {
	Name       string      `json:"name"`
	Value      float64     `json:"value"`
	Unit       Unit        `json:"unit"`
	Dimensions []Dimension `json:"dimensions"`
	Timestamp  time.Time   `json:"timestamp"`
}

// Dimension returns the value of the named dimension, or "".
func (d Datum) Dimension(name string) string {
	for _, dim := range d.Dimensions {
		if dim.Name == name {
			return dim.Value
		}
	}
	return ""
}

// Sink accepts batches of data points for a namespace.
// Implementations: InMemorySink, LogSink, RedisSink, PostgresSink, CloudWatchSink, NoopSink.
type Sink interface {
	PutMetricData(ctx context.Context, namespace string, data []Datum) error
}

// Pinger is implemented by sinks backed by a remote service; those sinks are
// registered as readiness checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RequestDimensions returns the {Route, Method} dimensions.
func RequestDimensions(route, method string) []Dimension {
	return []Dimension{
		{Name: DimensionRoute, Value: route},
		{Name: DimensionMethod, Value: method},
	}
}

// RequestCompleted builds the Latency and Requests data for a finished request.
func RequestCompleted(route, method string, duration time.Duration, at time.Time) []Datum {
	return []Datum{
		{
			Name:       MetricLatency,
			Value:      float64(duration.Microseconds()) / 1000,
			Unit:       UnitMilliseconds,
			Dimensions: RequestDimensions(route, method),
			Timestamp:  at,
		},
		{
			Name:       MetricRequests,
			Value:      1,
			Unit:       UnitCount,
			Dimensions: RequestDimensions(route, method),
			Timestamp:  at,
		},
	}
}

// RequestFailed builds the Errors datum for a request that failed with errorType.
func RequestFailed(route, method, errorType string, at time.Time) []Datum {
	return []Datum{
		{
			Name:  MetricErrors,
			Value: 1,
			Unit:  UnitCount,
			Dimensions: append(RequestDimensions(route, method),
				Dimension{Name: DimensionErrorType, Value: errorType}),
			Timestamp: at,
		},
	}
}
