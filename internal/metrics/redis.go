package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultStreamKey is the Redis stream metric events are appended to.
	DefaultStreamKey = "stream:metric_events"

	// MaxStreamLen is the approximate max length of the stream.
	MaxStreamLen = 100000
)

// streamPayload is the compact stream entry format.
type streamPayload struct {
	Namespace  string            `json:"ns"`
	Name       string            `json:"n"`
	Value      float64           `json:"v"`
	Unit       Unit              `json:"u"`
	Dimensions map[string]string `json:"d"`
	Timestamp  int64             `json:"t"` // Unix milliseconds
}

// RedisSink appends each datum to a Redis stream for a downstream consumer.
type RedisSink struct {
	client *redis.Client
	stream string
}

// NewRedisSink connects to redisURL and verifies the connection.
func NewRedisSink(ctx context.Context, redisURL, stream string) (*RedisSink, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opt.PoolSize = 10
	opt.MinIdleConns = 2
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return NewRedisSinkWithClient(client, stream), nil
}

// NewRedisSinkWithClient wraps an existing client.
func NewRedisSinkWithClient(client *redis.Client, stream string) *RedisSink {
	if stream == "" {
		stream = DefaultStreamKey
	}
	return &RedisSink{client: client, stream: stream}
}

// PutMetricData implements Sink. All entries are sent in one pipeline.
func (s *RedisSink) PutMetricData(ctx context.Context, namespace string, data []Datum) error {
	pipe := s.client.Pipeline()
	for _, d := range data {
		payload, err := json.Marshal(toStreamPayload(namespace, d))
		if err != nil {
			return fmt.Errorf("marshal datum: %w", err)
		}
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: s.stream,
			MaxLen: MaxStreamLen,
			Approx: true,
			ID:     "*",
			Values: map[string]interface{}{
				"payload": string(payload),
			},
		})
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("xadd: %w", err)
	}
	return nil
}

func toStreamPayload(namespace string, d Datum) streamPayload {
	dims := make(map[string]string, len(d.Dimensions))
	for _, dim := range d.Dimensions {
		dims[dim.Name] = dim.Value
	}
	return streamPayload{
		Namespace:  namespace,
		Name:       d.Name,
		Value:      d.Value,
		Unit:       d.Unit,
		Dimensions: dims,
		Timestamp:  d.Timestamp.UnixMilli(),
	}
}

// Ping checks Redis connectivity.
func (s *RedisSink) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (s *RedisSink) Close() error {
	return s.client.Close()
}
