// Package notify доставляет сохранённые уведомления во внешние каналы
package notify

import (
	"context"
	"sync"

	"github.com/Freeeeeet/skillswap/internal/model"
	"go.uber.org/zap"
)

// Pusher отправляет уведомление в один канал
type Pusher interface {
	Name() string
	Push(ctx context.Context, n *model.Notification) error
}

// Worker получает уведомления через ограниченную очередь и рассылает их
// по всем pusher'ам в фоне
type Worker struct {
	pushers []Pusher
	queue   chan *model.Notification
	logger  *zap.Logger

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewWorker создаёт воркер с очередью заданного размера
func NewWorker(queueSize int, logger *zap.Logger, pushers ...Pusher) *Worker {
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Worker{
		pushers:  pushers,
		queue:    make(chan *model.Notification, queueSize),
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Enqueue ставит уведомление в очередь. Не блокируется: при полной очереди
// пуш отбрасывается (запись уже в базе).
func (w *Worker) Enqueue(n *model.Notification) {
	if n == nil || len(w.pushers) == 0 {
		return
	}

	select {
	case w.queue <- n:
	default:
		w.logger.Warn("Notification queue is full, push dropped",
			zap.Int64("notification_id", n.ID),
			zap.Int64("recipient_id", n.RecipientID),
		)
	}
}

// Start запускает обработку очереди
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Starting notification worker", zap.Int("pushers", len(w.pushers)))

	w.wg.Add(1)
	go w.run(ctx)
}

// Stop останавливает воркер, дожидаясь доставки того, что уже в очереди
func (w *Worker) Stop() {
	w.stopOnce.Do(func() {
		w.logger.Info("Stopping notification worker")
		close(w.stopChan)
	})
	w.wg.Wait()
}

func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case n := <-w.queue:
			w.deliver(ctx, n)
		case <-w.stopChan:
			w.drain(ctx)
			w.logger.Info("Notification worker stopped")
			return
		case <-ctx.Done():
			w.logger.Info("Notification worker cancelled")
			return
		}
	}
}

func (w *Worker) drain(ctx context.Context) {
	for {
		select {
		case n := <-w.queue:
			w.deliver(ctx, n)
		default:
			return
		}
	}
}

// deliver отправляет во все каналы; ошибка одного канала не мешает остальным
func (w *Worker) deliver(ctx context.Context, n *model.Notification) {
	for _, p := range w.pushers {
		if err := p.Push(ctx, n); err != nil {
			w.logger.Warn("Failed to push notification",
				zap.String("channel", p.Name()),
				zap.Int64("notification_id", n.ID),
				zap.Int64("recipient_id", n.RecipientID),
				zap.Error(err),
			)
			continue
		}
		w.logger.Debug("Notification pushed",
			zap.String("channel", p.Name()),
			zap.Int64("notification_id", n.ID),
		)
	}
}
