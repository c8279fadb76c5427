// Package messaging provides message queue adapters.
package messaging

import (
	"context"
	"fmt"

	"custmaker/core/domain"
	"custmaker/core/port/out"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// StreamRuns receives one entry per finished generation run.
const StreamRuns = "custmaker:runs"

// defaultMaxLen bounds the stream; older entries are trimmed approximately.
const defaultMaxLen = 10_000

// RedisProducer implements out.RunEventPublisher using Redis Streams.
type RedisProducer struct {
	client *redis.Client
	stream string
	maxLen int64
}

// NewRedisProducer creates a new RedisProducer.
func NewRedisProducer(client *redis.Client) *RedisProducer {
	return &RedisProducer{client: client, stream: StreamRuns, maxLen: defaultMaxLen}
}

// PublishRun appends the run to the runs stream.
func (p *RedisProducer) PublishRun(ctx context.Context, run *domain.GenerationRun) error {
	values, err := runValues(run)
	if err != nil {
		return err
	}
	return p.publish(ctx, values)
}

func runValues(run *domain.GenerationRun) (map[string]any, error) {
	data, err := json.Marshal(run)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal run: %w", err)
	}
	return map[string]any{
		"run_id": run.ID.String(),
		"status": string(run.Status),
		"data":   string(data),
	}, nil
}

func (p *RedisProducer) publish(ctx context.Context, values map[string]any) error {
	err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		ID:     "*",
		Values: values,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.stream, err)
	}
	return nil
}

var _ out.RunEventPublisher = (*RedisProducer)(nil)
