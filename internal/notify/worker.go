package notify

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"gradebook/internal/queue"
)

// Worker drains mail jobs from the queue and hands them to the mailer.
type Worker struct {
	q      queue.Queue
	mailer Mailer
	log    *zap.Logger
}

// NewWorker creates a worker.
func NewWorker(q queue.Queue, mailer Mailer, log *zap.Logger) *Worker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Worker{q: q, mailer: mailer, log: log}
}

// Run consumes until ctx is cancelled. Delivery failures are logged and
// counted, never retried; the portal promised best-effort only.
func (w *Worker) Run(ctx context.Context) error {
	msgs, err := w.q.Consume(ctx)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			w.handle(ctx, msg)
		}
	}
}

func (w *Worker) handle(ctx context.Context, msg queue.Message) {
	if msg.Type != mailMessageType {
		w.log.Warn("unknown queue message type", zap.String("type", msg.Type))
		return
	}
	var email Email
	if err := json.Unmarshal(msg.Body, &email); err != nil {
		w.log.Warn("mail job decode failed", zap.Error(err))
		mailsFailed.Inc()
		return
	}
	if err := w.mailer.Send(ctx, email); err != nil {
		w.log.Warn("mail delivery failed", zap.Error(err), zap.String("subject", email.Subject), zap.Int("recipients", len(email.To)))
		mailsFailed.Inc()
		return
	}
	mailsSent.Inc()
	w.log.Info("mail delivered", zap.String("subject", email.Subject), zap.Int("recipients", len(email.To)))
}
