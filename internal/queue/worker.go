package queue

import (
	"context"
	"fmt"

	"coursehub_backend/internal/email"
	"coursehub_backend/platform/config"
	"coursehub_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Worker processes queued email tasks.
type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	sender   email.Sender
	notifyTo string
	log      *logger.Logger
}

func NewWorker(cfg config.QueueConfig, sender email.Sender, notifyTo string, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:   server,
		mux:      mux,
		sender:   sender,
		notifyTo: notifyTo,
		log:      log,
	}

	mux.HandleFunc(TaskWelcomeEmail, w.handleWelcomeEmail)
	mux.HandleFunc(TaskEnrollmentEmail, w.handleEnrollmentEmail)
	mux.HandleFunc(TaskContactNotification, w.handleContactNotification)

	return w, nil
}

// Run serves tasks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("queue worker stopped", "error", err)
	}
}

func (w *Worker) handleWelcomeEmail(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseWelcomeEmailPayload(task)
	if err != nil {
		return err
	}
	return w.sender.SendWelcomeEmail(ctx, payload.Email, payload.Name)
}

func (w *Worker) handleEnrollmentEmail(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseEnrollmentEmailPayload(task)
	if err != nil {
		return err
	}
	return w.sender.SendEnrollmentConfirmation(ctx, payload.Email, payload.Name, payload.CourseTitle)
}

func (w *Worker) handleContactNotification(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseContactNotificationPayload(task)
	if err != nil {
		return err
	}
	return w.sender.SendContactNotification(ctx, w.notifyTo, payload.Name, payload.Email, payload.Phone, payload.Message)
}
