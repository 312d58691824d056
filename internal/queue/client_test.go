package queue

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
)

type stubQueueConfig struct {
	redisURL string
	queue    string
}

func (c stubQueueConfig) GetRedisURL() string       { return c.redisURL }
func (c stubQueueConfig) GetRedisTLSInsecure() bool { return false }
func (c stubQueueConfig) GetAsynqQueueName() string { return c.queue }
func (c stubQueueConfig) GetAsynqConcurrency() int  { return 1 }

func TestNewClient_RequiresRedisURL(t *testing.T) {
	if _, err := NewClient(stubQueueConfig{}); err == nil {
		t.Fatal("expected error without redis url")
	}
}

func TestClient_DispatchEnqueuesTask(t *testing.T) {
	server := miniredis.RunT(t)

	cfg := stubQueueConfig{redisURL: "redis://" + server.Addr(), queue: "emails"}
	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	defer client.Close()

	err = client.DispatchWelcomeEmail(context.Background(), WelcomeEmailPayload{
		Email: "alice@example.com",
		Name:  "Alice",
	})
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: server.Addr()})
	defer inspector.Close()

	pending, err := inspector.ListPendingTasks("emails")
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending task, got %d", len(pending))
	}
	if pending[0].Type != TaskWelcomeEmail {
		t.Errorf("expected task type %s, got %s", TaskWelcomeEmail, pending[0].Type)
	}

	payload, err := ParseWelcomeEmailPayload(asynq.NewTask(pending[0].Type, pending[0].Payload))
	if err != nil {
		t.Fatalf("parse payload: %v", err)
	}
	if payload.Email != "alice@example.com" || payload.Name != "Alice" {
		t.Errorf("payload round trip mismatch: %+v", payload)
	}
}
