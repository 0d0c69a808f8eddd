package certificate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultKeyTemplate = "certificate:{performance}"
	DefaultOutboxKey   = "certificates:outbox"
)

// RedisSink stores each artifact in a hash and pushes its key onto an outbox
// list that the renderer consumes.
type RedisSink struct {
	redis       *redis.Client
	keyTemplate string
	outboxKey   string
}

func NewRedisSink(url, keyTemplate, outboxKey string) (*RedisSink, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return newRedisSink(client, keyTemplate, outboxKey), nil
}

func newRedisSink(client *redis.Client, keyTemplate, outboxKey string) *RedisSink {
	if keyTemplate == "" {
		keyTemplate = DefaultKeyTemplate
	}
	if outboxKey == "" {
		outboxKey = DefaultOutboxKey
	}
	return &RedisSink{redis: client, keyTemplate: keyTemplate, outboxKey: outboxKey}
}

func (s *RedisSink) Ref(performanceID string) string {
	return strings.NewReplacer("{performance}", performanceID).Replace(s.keyTemplate)
}

func (s *RedisSink) Deliver(ctx context.Context, ref string, artifact []byte) error {
	pipe := s.redis.TxPipeline()
	pipe.HSet(ctx, ref, map[string]interface{}{
		"artifact":        string(artifact),
		"queued_dttm_utc": time.Now().UTC().Format(time.RFC3339),
	})
	pipe.LPush(ctx, s.outboxKey, ref)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to queue certificate %s: %w", ref, err)
	}
	return nil
}

// Fetch returns the stored artifact for ref, or nil if there is none.
func (s *RedisSink) Fetch(ctx context.Context, ref string) ([]byte, error) {
	artifact, err := s.redis.HGet(ctx, ref, "artifact").Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch certificate %s: %w", ref, err)
	}
	return []byte(artifact), nil
}

func (s *RedisSink) Close() error {
	if s.redis != nil {
		return s.redis.Close()
	}
	return nil
}
