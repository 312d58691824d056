package queue

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskWelcomeEmail = "email.welcome"

const TaskEnrollmentEmail = "email.enrollment"

const TaskContactNotification = "email.contact"

type WelcomeEmailPayload struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type EnrollmentEmailPayload struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	CourseTitle string `json:"courseTitle"`
}

type ContactNotificationPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Message string `json:"message"`
}

func NewWelcomeEmailTask(payload WelcomeEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskWelcomeEmail, data), nil
}

func ParseWelcomeEmailPayload(task *asynq.Task) (WelcomeEmailPayload, error) {
	var payload WelcomeEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return WelcomeEmailPayload{}, err
	}
	return payload, nil
}

func NewEnrollmentEmailTask(payload EnrollmentEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskEnrollmentEmail, data), nil
}

func ParseEnrollmentEmailPayload(task *asynq.Task) (EnrollmentEmailPayload, error) {
	var payload EnrollmentEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return EnrollmentEmailPayload{}, err
	}
	return payload, nil
}

func NewContactNotificationTask(payload ContactNotificationPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskContactNotification, data), nil
}

func ParseContactNotificationPayload(task *asynq.Task) (ContactNotificationPayload, error) {
	var payload ContactNotificationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ContactNotificationPayload{}, err
	}
	return payload, nil
}
