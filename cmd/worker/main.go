package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"gradebook/internal/app"
	"gradebook/internal/config"
	"gradebook/internal/notify"
	"gradebook/internal/queue"
	"gradebook/internal/store"
)

// Worker drains queued mail jobs and delivers them over SMTP.
func main() {
	cfg := config.Load()
	log := app.NewLogger(cfg.Env)
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutdown signal received")
		cancel()
	}()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		// Nothing feeds an in-memory queue from another process; the API
		// binary runs its own in-process worker in that mode.
		log.Warn("memory queue backend selected, worker has nothing to consume")
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "gradebook:mail")
	}

	mailer := notify.NewSMTPMailer(cfg.SMTP)
	worker := notify.NewWorker(q, mailer, log)

	log.Info("mail worker started", zap.String("smtp_host", cfg.SMTP.Host))
	if err := worker.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("worker failed", zap.Error(err))
	}
	log.Info("worker exited")
}
