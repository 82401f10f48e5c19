//go:build gcloud

package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	cloudtasks "cloud.google.com/go/cloudtasks/apiv2"
	taskspb "cloud.google.com/go/cloudtasks/apiv2/cloudtaskspb"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/KasumiMercury/compliance-watch/internal/domain"
	"github.com/KasumiMercury/compliance-watch/internal/observability/tracing"
)

type CloudTasksConfig struct {
	ProjectID  string
	LocationID string
	QueueID    string
	TargetURL  string
	Topic      string
	Token      string
	MaxRetries int
}

// CloudTasksNotifier enqueues the ntfy publish as an HTTP task so the queue
// owns delivery retries.
type CloudTasksNotifier struct {
	client     *cloudtasks.Client
	projectID  string
	locationID string
	queueID    string
	targetURL  string
	topic      string
	token      string
	maxRetries int
}

func NewCloudTasksNotifier(ctx context.Context, cfg CloudTasksConfig) (*CloudTasksNotifier, error) {
	client, err := cloudtasks.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud tasks client: %w", err)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	return &CloudTasksNotifier{
		client:     client,
		projectID:  cfg.ProjectID,
		locationID: cfg.LocationID,
		queueID:    cfg.QueueID,
		targetURL:  strings.TrimRight(cfg.TargetURL, "/") + "/",
		topic:      cfg.Topic,
		token:      cfg.Token,
		maxRetries: maxRetries,
	}, nil
}

func (c *CloudTasksNotifier) Send(ctx context.Context, notification domain.Notification) error {
	payload, err := json.Marshal(newPublishMessage(c.topic, notification))
	if err != nil {
		return fmt.Errorf("%w: failed to marshal message: %v", domain.ErrNotificationSend, err)
	}

	queuePath := fmt.Sprintf("projects/%s/locations/%s/queues/%s",
		c.projectID, c.locationID, c.queueID)

	// One name per Send so a retried CreateTask is deduplicated by the queue.
	taskID := fmt.Sprintf("%s-%s", notification.Bucket, uuid.NewString())
	taskName := fmt.Sprintf("%s/tasks/%s", queuePath, taskID)

	headers := map[string]string{
		"Content-Type": "application/json",
	}
	if c.token != "" {
		headers["Authorization"] = "Bearer " + c.token
	}

	req := &taskspb.CreateTaskRequest{
		Parent: queuePath,
		Task: &taskspb.Task{
			Name: taskName,
			MessageType: &taskspb.Task_HttpRequest{
				HttpRequest: &taskspb.HttpRequest{
					HttpMethod: taskspb.HttpMethod_POST,
					Url:        c.targetURL,
					Headers:    headers,
					Body:       payload,
				},
			},
		},
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * 100 * time.Millisecond
			slog.DebugContext(ctx, "retrying notification task creation",
				slog.String("task_id", taskID),
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: %w", domain.ErrNotificationSend, ctx.Err())
			case <-time.After(backoff):
			}
		}

		if err := c.createTask(ctx, req, taskID); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}

	slog.ErrorContext(ctx, "all retries exhausted for notification task",
		slog.String("task_id", taskID),
		slog.Int("max_retries", c.maxRetries),
		slog.String("error", lastErr.Error()),
	)
	return fmt.Errorf("%w: %w", domain.ErrNotificationSend, lastErr)
}

func (c *CloudTasksNotifier) createTask(ctx context.Context, req *taskspb.CreateTaskRequest, taskID string) error {
	ctx, span := tracing.StartExternalAPISpan(ctx, "cloudtasks_create", req.Parent)
	defer span.End()

	createdTask, err := c.client.CreateTask(ctx, req)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			slog.InfoContext(ctx, "notification task already exists",
				slog.String("task_id", taskID),
			)
			tracing.RecordError(span, nil)
			return nil
		}
		slog.WarnContext(ctx, "failed to create notification task",
			slog.String("task_id", taskID),
			slog.String("error", err.Error()),
		)
		tracing.RecordError(span, err)
		return fmt.Errorf("failed to create cloud task: %w", err)
	}

	slog.InfoContext(ctx, "notification task registered to Cloud Tasks",
		slog.String("task_name", createdTask.Name),
	)
	tracing.RecordError(span, nil)
	return nil
}

func (c *CloudTasksNotifier) Close() error {
	return c.client.Close()
}
