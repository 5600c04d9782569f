package kafka

import (
	"context"
	"time"

	"github.com/shoplite/pos-backend/internal/cfg"
	"github.com/shoplite/pos-backend/internal/usecase"
	"github.com/shoplite/pos-backend/pkg/e"
	"github.com/shoplite/pos-backend/pkg/jitter"
	"github.com/shoplite/pos-backend/pkg/logger"
)

// EventPublisher публикует событие outbox во внешний брокер.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event *usecase.OutboxEvent) error
}

// OutboxWorker дренирует outbox: забирает пачки ожидающих событий,
// публикует их в Kafka и помечает обработанными. При ошибке публикации
// событие возвращается в очередь, а воркер отступает с джиттером.
type OutboxWorker struct {
	outboxRepo usecase.OutboxEventRepository
	producer   EventPublisher
	cfg        *cfg.OutboxCfg
	logger     logger.Logger
	done       chan struct{}
}

func NewOutboxWorker(
	outboxRepo usecase.OutboxEventRepository,
	producer EventPublisher,
	cfg *cfg.OutboxCfg,
	logger logger.Logger,
) *OutboxWorker {
	return &OutboxWorker{
		outboxRepo: outboxRepo,
		producer:   producer,
		cfg:        cfg,
		logger:     logger,
		done:       make(chan struct{}),
	}
}

// Run блокирует до отмены контекста.
func (w *OutboxWorker) Run(ctx context.Context) {
	const op = "OutboxWorker.Run"

	defer close(w.done)

	attempt := 0
	for {
		interval := jitter.Duration(w.cfg.PollInterval, jitter.DefaultJitter)
		if attempt > 0 {
			interval = jitter.ExponentialBackoff(w.cfg.PollInterval, time.Minute, attempt, jitter.DefaultJitter)
		}

		select {
		case <-ctx.Done():
			w.logger.Infof("Outbox worker stopped")
			return
		case <-time.After(interval):
		}

		published, err := w.drainOnce(ctx)
		if err != nil {
			attempt++
			if attempt > w.cfg.MaxRetries {
				attempt = w.cfg.MaxRetries
			}
			w.logger.Warnf("Outbox drain failed (attempt %d): %v", attempt, e.Wrap(op, err))
			continue
		}

		attempt = 0
		if published > 0 {
			w.logger.Debugf("Outbox: published %d event(s)", published)
		}
	}
}

// Wait дожидается завершения воркера после отмены контекста.
func (w *OutboxWorker) Wait(ctx context.Context) error {
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// drainOnce обрабатывает одну пачку. Возвращает число опубликованных событий.
func (w *OutboxWorker) drainOnce(ctx context.Context) (int, error) {
	events, err := w.outboxRepo.GetAndMarkAsProcessing(ctx, w.cfg.BatchLimit)
	if err != nil {
		return 0, err
	}

	published := 0
	for _, event := range events {
		if err := w.producer.PublishEvent(ctx, event); err != nil {
			// Возвращаем событие в очередь; порядок для товара сохраняется
			// ключом партиционирования, а не очередью
			if markErr := w.outboxRepo.MarkAsPending(ctx, event.ID); markErr != nil {
				w.logger.Warnf("Failed to requeue outbox event %d: %v", event.ID, markErr)
			}
			return published, err
		}

		if err := w.outboxRepo.MarkAsProcessed(ctx, event.ID); err != nil {
			w.logger.Warnf("Failed to mark outbox event %d as processed: %v", event.ID, err)
		}

		published++
	}

	return published, nil
}
