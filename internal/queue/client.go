// Package queue enqueues and processes background tasks over Redis.
package queue

import (
	"context"
	"crypto/tls"
	"fmt"

	"coursehub_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// Dispatcher enqueues background email tasks. Services depend on this
// interface so that tests and redis-less deployments can swap it out.
type Dispatcher interface {
	DispatchWelcomeEmail(ctx context.Context, payload WelcomeEmailPayload) error
	DispatchEnrollmentEmail(ctx context.Context, payload EnrollmentEmailPayload) error
	DispatchContactNotification(ctx context.Context, payload ContactNotificationPayload) error
}

// NoopDispatcher drops all tasks. Used when Redis is not configured.
type NoopDispatcher struct{}

func (NoopDispatcher) DispatchWelcomeEmail(ctx context.Context, payload WelcomeEmailPayload) error {
	return nil
}

func (NoopDispatcher) DispatchEnrollmentEmail(ctx context.Context, payload EnrollmentEmailPayload) error {
	return nil
}

func (NoopDispatcher) DispatchContactNotification(ctx context.Context, payload ContactNotificationPayload) error {
	return nil
}

// Client implements Dispatcher on top of asynq.
type Client struct {
	client *asynq.Client
	queue  string
}

func NewClient(cfg config.QueueConfig) (*Client, error) {
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

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queue,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *Client) DispatchWelcomeEmail(ctx context.Context, payload WelcomeEmailPayload) error {
	task, err := NewWelcomeEmailTask(payload)
	if err != nil {
		return err
	}
	return c.enqueue(ctx, task)
}

func (c *Client) DispatchEnrollmentEmail(ctx context.Context, payload EnrollmentEmailPayload) error {
	task, err := NewEnrollmentEmailTask(payload)
	if err != nil {
		return err
	}
	return c.enqueue(ctx, task)
}

func (c *Client) DispatchContactNotification(ctx context.Context, payload ContactNotificationPayload) error {
	task, err := NewContactNotificationTask(payload)
	if err != nil {
		return err
	}
	return c.enqueue(ctx, task)
}

func (c *Client) enqueue(ctx context.Context, task *asynq.Task) error {
	if c == nil || c.client == nil {
		return nil
	}
	_, err := c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue))
	return err
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
