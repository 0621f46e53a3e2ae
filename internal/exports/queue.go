package exports

import (
	"context"
	"fmt"
	"time"

	"serveon_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

const (
	defaultQueue       = "exports"
	archiveMaxRetry    = 5
	archiveTaskTimeout = 2 * time.Minute
)

// Enqueuer hands an export to the background worker.
type Enqueuer interface {
	EnqueueArchive(ctx context.Context, payload ArchivePayload) error
}

// Queue enqueues archive tasks on the configured Redis.
type Queue struct {
	client *asynq.Client
	queue  string
}

func NewQueue(cfg config.QueueConfig) (*Queue, error) {
	opt, err := redisClientOpt(cfg)
	if err != nil {
		return nil, err
	}
	return &Queue{client: asynq.NewClient(opt), queue: queueName(cfg)}, nil
}

func (q *Queue) Close() error {
	if q == nil || q.client == nil {
		return nil
	}
	return q.client.Close()
}

func (q *Queue) EnqueueArchive(ctx context.Context, payload ArchivePayload) error {
	task, err := NewArchiveTask(payload)
	if err != nil {
		return err
	}
	_, err = q.client.EnqueueContext(ctx, task,
		asynq.Queue(q.queue),
		asynq.MaxRetry(archiveMaxRetry),
		asynq.Timeout(archiveTaskTimeout),
	)
	return err
}

func queueName(cfg config.QueueConfig) string {
	if name := cfg.GetAsynqQueueName(); name != "" {
		return name
	}
	return defaultQueue
}

func redisClientOpt(cfg config.QueueConfig) (asynq.RedisClientOpt, error) {
	if !cfg.IsRedisEnabled() {
		return asynq.RedisClientOpt{}, fmt.Errorf("redis url not configured")
	}
	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}
	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Username:  opt.Username,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}

var _ Enqueuer = (*Queue)(nil)
