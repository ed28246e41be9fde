package modules

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"flea_market/pkg/logx"
)

type AsynqQueues map[string]int

type AsynqHandler struct {
	Pattern string
	Handle  func(context.Context, *asynq.Task) error
}

type AsynqServer struct {
	Redis       asynq.RedisConnOpt
	Concurrency int
}

// Run обрабатывает задачи до отмены ctx. Сигналы ОС asynq не слушает,
// остановкой управляет errgroup приложения.
func (s AsynqServer) Run(
	ctx context.Context,
	g *errgroup.Group,
	queues AsynqQueues,
	handlers ...AsynqHandler,
) {
	g.Go(func() error {
		worker := asynq.NewServer(s.Redis, asynq.Config{
			BaseContext: func() context.Context { return ctx },
			Queues:      queues,
			Concurrency: s.Concurrency,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger(ctx).Error("task failed", slog.String(logx.FieldTask, task.Type()), logx.Error(err))
			}),
		})

		mux := asynq.NewServeMux()

		for _, h := range handlers {
			mux.HandleFunc(h.Pattern, h.Handle)
		}

		if err := worker.Start(mux); err != nil {
			return fmt.Errorf("asynqServer.Start: %w", err)
		}

		logger(ctx).Info("asynq server started", slog.Int("handlers", len(handlers)))

		<-ctx.Done()

		worker.Shutdown()

		logger(ctx).Info("asynq server stopped")

		return nil
	})
}
