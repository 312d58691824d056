package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"coursehub_backend/internal/email"
	"coursehub_backend/internal/queue"
	"coursehub_backend/platform/config"
	"coursehub_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env, "queue", cfg.GetAsynqQueueName())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sender := email.NewSender(cfg)

	worker, err := queue.NewWorker(cfg, sender, cfg.GetContactNotifyAddress(), log)
	if err != nil {
		log.Error("failed to initialize worker", "error", err)
		panic("failed to initialize worker: " + err.Error())
	}

	worker.Run(ctx)
	log.Info("worker stopped")
}
