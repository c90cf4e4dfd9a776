package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

type fakeCloudWatch struct {
	inputs []*cloudwatch.PutMetricDataInput
	err    error
}

func (f *fakeCloudWatch) PutMetricData(ctx context.Context, in *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func TestCloudWatchSink_PutMetricData(t *testing.T) {
	t.Parallel()

	api := &fakeCloudWatch{}
	sink := NewCloudWatchSinkWithClient(api)
	now := time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC)

	data := append(RequestCompleted("/generate_blog_post", "POST", 1500*time.Microsecond, now),
		RequestFailed("/generate_blog_post", "POST", "*errors.errorString", now)...)

	if err := sink.PutMetricData(context.Background(), "quillgate/test", data); err != nil {
		t.Fatalf("PutMetricData failed: %v", err)
	}

	if len(api.inputs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(api.inputs))
	}
	in := api.inputs[0]
	if aws.ToString(in.Namespace) != "quillgate/test" {
		t.Errorf("expected namespace quillgate/test, got %s", aws.ToString(in.Namespace))
	}
	if len(in.MetricData) != 3 {
		t.Fatalf("expected 3 metric data, got %d", len(in.MetricData))
	}

	latency, requests, errs := in.MetricData[0], in.MetricData[1], in.MetricData[2]

	if aws.ToString(latency.MetricName) != MetricLatency || latency.Unit != types.StandardUnitMilliseconds {
		t.Errorf("unexpected latency datum: %s %s", aws.ToString(latency.MetricName), latency.Unit)
	}
	if aws.ToFloat64(latency.Value) != 1.5 {
		t.Errorf("expected latency 1.5ms, got %v", aws.ToFloat64(latency.Value))
	}
	if !aws.ToTime(latency.Timestamp).Equal(now) {
		t.Errorf("expected timestamp %s, got %s", now, aws.ToTime(latency.Timestamp))
	}
	if requests.Unit != types.StandardUnitCount || aws.ToFloat64(requests.Value) != 1 {
		t.Errorf("unexpected requests datum: %v %s", aws.ToFloat64(requests.Value), requests.Unit)
	}

	dims := map[string]string{}
	for _, d := range errs.Dimensions {
		dims[aws.ToString(d.Name)] = aws.ToString(d.Value)
	}
	want := map[string]string{
		DimensionRoute:     "/generate_blog_post",
		DimensionMethod:    "POST",
		DimensionErrorType: "*errors.errorString",
	}
	for k, v := range want {
		if dims[k] != v {
			t.Errorf("expected dimension %s=%s, got %q", k, v, dims[k])
		}
	}
}

func TestCloudWatchSink_Batches(t *testing.T) {
	t.Parallel()

	api := &fakeCloudWatch{}
	sink := NewCloudWatchSinkWithClient(api)

	data := make([]Datum, 0, 2500)
	for len(data) < 2500 {
		data = append(data, RequestFailed("/", "GET", "x", time.Now())...)
	}

	if err := sink.PutMetricData(context.Background(), "ns", data); err != nil {
		t.Fatalf("PutMetricData failed: %v", err)
	}

	if len(api.inputs) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(api.inputs))
	}
	sizes := []int{len(api.inputs[0].MetricData), len(api.inputs[1].MetricData), len(api.inputs[2].MetricData)}
	if sizes[0] != 1000 || sizes[1] != 1000 || sizes[2] != 500 {
		t.Errorf("unexpected batch sizes %v", sizes)
	}
}

func TestCloudWatchSink_Error(t *testing.T) {
	t.Parallel()

	unavailable := errors.New("service unavailable")
	sink := NewCloudWatchSinkWithClient(&fakeCloudWatch{err: unavailable})

	err := sink.PutMetricData(context.Background(), "ns", RequestFailed("/", "GET", "x", time.Now()))
	if !errors.Is(err, unavailable) {
		t.Errorf("expected wrapped service error, got %v", err)
	}
}

func TestStandardUnit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   Unit
		want types.StandardUnit
	}{
		{UnitMilliseconds, types.StandardUnitMilliseconds},
		{UnitCount, types.StandardUnitCount},
		{Unit("Furlongs"), types.StandardUnitNone},
	}
	for _, tt := range tests {
		if got := standardUnit(tt.in); got != tt.want {
			t.Errorf("standardUnit(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
