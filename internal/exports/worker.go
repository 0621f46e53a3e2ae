package exports

import (
	"context"
	"fmt"

	"serveon_backend/platform/config"
	"serveon_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Worker archives exports enqueued by Queue.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	log    *logger.Logger
}

func NewWorker(cfg config.QueueConfig, svc *Service, log *logger.Logger) (*Worker, error) {
	opt, err := redisClientOpt(cfg)
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 2
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{queueName(cfg): 1},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskArchiveExport, archiveHandler(svc))

	return &Worker{server: server, mux: mux, log: log}, nil
}

// Run blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("export worker stopped", "error", err)
	}
}

// archiveHandler retries failed uploads. The last attempt logs the export
// without an object key instead of failing again.
func archiveHandler(svc *Service) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		payload, err := ParseArchivePayload(task)
		if err != nil {
			return fmt.Errorf("decode %s payload: %v: %w", TaskArchiveExport, err, asynq.SkipRetry)
		}

		retried, _ := asynq.GetRetryCount(ctx)
		maxRetry, ok := asynq.GetMaxRetry(ctx)
		lastAttempt := !ok || retried >= maxRetry

		return svc.Archive(ctx, payload, lastAttempt)
	}
}
