// Package sidefx runs the side effects of document writes: PDF rendering
// and WhatsApp delivery, queued through Asynq so the request path never
// waits on them.
package sidefx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the queue background work goes to.
	QueueDefault = "default"
	// TaskBonPDF renders a document to PDF and archives it.
	TaskBonPDF = "bon:pdf"
	// TaskBonWhatsApp sends a document PDF to a phone number.
	TaskBonWhatsApp = "bon:whatsapp"
)

// BonPDFPayload identifies the document to render.
type BonPDFPayload struct {
	BonID int64 `json:"bon_id"`
}

// BonWhatsAppPayload identifies the document and its destination.
type BonWhatsAppPayload struct {
	BonID int64  `json:"bon_id"`
	Phone string `json:"phone"`
}

// NewBonPDFTask constructs the render task.
func NewBonPDFTask(payload BonPDFPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBonPDF, data), nil
}

// NewBonWhatsAppTask constructs the delivery task.
func NewBonWhatsAppTask(payload BonWhatsAppPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBonWhatsApp, data), nil
}

// taskID derives a stable identifier from the task kind and document, so
// the same job cannot sit in the queue twice.
func taskID(kind string, bonID int64) string {
	return uuid.NewSHA1(uuid.Nil, []byte(fmt.Sprintf("%s:%d", kind, bonID))).String()
}

// Client submits side-effect tasks to the queue.
type Client struct {
	client *asynq.Client
}

// NewClient constructs an Asynq client.
func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

// EnqueueBonPDF queues a PDF render for the document.
func (c *Client) EnqueueBonPDF(ctx context.Context, bonID int64) error {
	task, err := NewBonPDFTask(BonPDFPayload{BonID: bonID})
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueDefault), asynq.TaskID(taskID(TaskBonPDF, bonID)))
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

// EnqueueWhatsApp queues a WhatsApp delivery for the document.
func (c *Client) EnqueueWhatsApp(ctx context.Context, bonID int64, phone string) error {
	task, err := NewBonWhatsAppTask(BonWhatsAppPayload{BonID: bonID, Phone: phone})
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueDefault), asynq.TaskID(taskID(TaskBonWhatsApp, bonID)))
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.client.Close()
}
