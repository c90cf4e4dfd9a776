package metrics

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// MaxCloudWatchBatch is the PutMetricData limit on data per request.
const MaxCloudWatchBatch = 1000

// PutMetricDataAPI is the part of the CloudWatch client used by CloudWatchSink.
type PutMetricDataAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// CloudWatchSink publishes data as CloudWatch custom metrics.
type CloudWatchSink struct {
	api PutMetricDataAPI
}

// NewCloudWatchSink returns a sink using the region and credentials in cfg.
func NewCloudWatchSink(cfg aws.Config) *CloudWatchSink {
	return NewCloudWatchSinkWithClient(cloudwatch.NewFromConfig(cfg))
}

// NewCloudWatchSinkWithClient wraps an existing client.
func NewCloudWatchSinkWithClient(api PutMetricDataAPI) *CloudWatchSink {
	return &CloudWatchSink{api: api}
}

// PutMetricData implements Sink.
func (s *CloudWatchSink) PutMetricData(ctx context.Context, namespace string, data []Datum) error {
	for start := 0; start < len(data); start += MaxCloudWatchBatch {
		end := min(start+MaxCloudWatchBatch, len(data))

		batch := make([]types.MetricDatum, 0, end-start)
		for _, d := range data[start:end] {
			batch = append(batch, toMetricDatum(d))
		}

		_, err := s.api.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
			Namespace:  aws.String(namespace),
			MetricData: batch,
		})
		if err != nil {
			return fmt.Errorf("cloudwatch put metric data: %w", err)
		}
	}
	return nil
}

func toMetricDatum(d Datum) types.MetricDatum {
	dims := make([]types.Dimension, 0, len(d.Dimensions))
	for _, dim := range d.Dimensions {
		dims = append(dims, types.Dimension{Name: aws.String(dim.Name), Value: aws.String(dim.Value)})
	}

	out := types.MetricDatum{
		MetricName: aws.String(d.Name),
		Value:      aws.Float64(d.Value),
		Unit:       standardUnit(d.Unit),
		Dimensions: dims,
	}
	if !d.Timestamp.IsZero() {
		out.Timestamp = aws.Time(d.Timestamp)
	}
	return out
}

func standardUnit(u Unit) types.StandardUnit {
	switch u {
	case UnitMilliseconds:
		return types.StandardUnitMilliseconds
	case UnitCount:
		return types.StandardUnitCount
	default:
		return types.StandardUnitNone
	}
}
