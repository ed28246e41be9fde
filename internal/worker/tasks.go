package worker

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"

	"flea_market/pkg/application/modules"
	"flea_market/pkg/logx"
)

const (
	TypeMarketUpdate  = "market:update"
	TypeTraderRefresh = "market:trader-refresh"
)

type TraderRefreshPayload struct {
	TraderID string `json:"traderId"`
}

func NewMarketUpdateTask() *asynq.Task {
	return asynq.NewTask(TypeMarketUpdate, nil)
}

func NewTraderRefreshTask(traderID string) (*asynq.Task, error) {
	payload, err := jsoniter.Marshal(TraderRefreshPayload{TraderID: traderID})
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	return asynq.NewTask(TypeTraderRefresh, payload), nil
}

// Handlers обработчики фоновых задач рынка для asynq сервера.
func (w *MarketScheduler) Handlers() []modules.AsynqHandler {
	return []modules.AsynqHandler{
		{Pattern: TypeMarketUpdate, Handle: w.HandleMarketUpdate},
		{Pattern: TypeTraderRefresh, Handle: w.HandleTraderRefresh},
	}
}

func (w *MarketScheduler) HandleMarketUpdate(ctx context.Context, _ *asynq.Task) error {
	w.Update(ctx)
	return nil
}

func (w *MarketScheduler) HandleTraderRefresh(ctx context.Context, t *asynq.Task) error {
	var p TraderRefreshPayload
	if err := jsoniter.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	if p.TraderID == "" {
		return fmt.Errorf("empty trader id: %w", asynq.SkipRetry)
	}

	if err := w.RefreshTrader(ctx, p.TraderID); err != nil {
		return fmt.Errorf("refresh trader %s: %w", p.TraderID, err)
	}

	return nil
}

// TaskClient ставит задачи рынка в очередь asynq.
type TaskClient struct {
	client *asynq.Client
	queue  string
}

func NewTaskClient(client *asynq.Client, queue string) *TaskClient {
	return &TaskClient{client: client, queue: queue}
}

func (c *TaskClient) RefreshTrader(ctx context.Context, traderID string) error {
	task, err := NewTraderRefreshTask(traderID)
	if err != nil {
		return err
	}

	info, err := c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue), asynq.MaxRetry(3))
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", TypeTraderRefresh, err)
	}

	logger(ctx).Info("task enqueued", logx.FieldTask, info.ID, logx.FieldTraderID, traderID)

	return nil
}
