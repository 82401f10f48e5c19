package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/KasumiMercury/compliance-watch/internal/domain"
	"github.com/KasumiMercury/compliance-watch/internal/observability/tracing"
)

const defaultMaxRetries = 3

type NtfyConfig struct {
	BaseURL    string
	Topic      string
	Token      string
	MaxRetries int
	Timeout    time.Duration
}

// NtfyClient publishes notifications to an ntfy server using its JSON
// publish API.
type NtfyClient struct {
	baseURL    string
	topic      string
	token      string
	httpClient *http.Client
	maxRetries int
}

func NewNtfyClient(cfg NtfyConfig) *NtfyClient {
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &NtfyClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		topic:   cfg.Topic,
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxRetries: maxRetries,
	}
}

func (c *NtfyClient) Send(ctx context.Context, notification domain.Notification) error {
	reqBody, err := json.Marshal(newPublishMessage(c.topic, notification))
	if err != nil {
		return fmt.Errorf("%w: failed to marshal message: %v", domain.ErrNotificationSend, err)
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * 100 * time.Millisecond
			slog.DebugContext(ctx, "retrying notification publish",
				slog.String("bucket", notification.Bucket.String()),
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: %w", domain.ErrNotificationSend, ctx.Err())
			case <-time.After(backoff):
			}
		}

		retryable, err := c.doRequest(ctx, reqBody, notification.Bucket)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}

	slog.ErrorContext(ctx, "notification publish failed",
		slog.String("bucket", notification.Bucket.String()),
		slog.Int("max_retries", c.maxRetries),
		slog.String("error", lastErr.Error()),
	)
	return fmt.Errorf("%w: %w", domain.ErrNotificationSend, lastErr)
}

// doRequest performs a single publish. The boolean reports whether a failure
// is worth retrying.
func (c *NtfyClient) doRequest(ctx context.Context, reqBody []byte, bucket domain.Bucket) (bool, error) {
	ctx, span := tracing.StartExternalAPISpan(ctx, "ntfy_publish", c.baseURL)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/", bytes.NewReader(reqBody))
	if err != nil {
		tracing.RecordError(span, err)
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.WarnContext(ctx, "failed to reach push endpoint",
			slog.String("bucket", bucket.String()),
			slog.String("error", err.Error()),
		)
		tracing.RecordError(span, err)
		return true, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		slog.WarnContext(ctx, "unexpected status code from push endpoint",
			slog.String("bucket", bucket.String()),
			slog.Int("status_code", resp.StatusCode),
		)
		tracing.RecordError(span, err)
		retryable := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return retryable, err
	}

	slog.DebugContext(ctx, "notification published",
		slog.String("bucket", bucket.String()),
		slog.Int("status_code", resp.StatusCode),
	)
	tracing.RecordError(span, nil)
	return false, nil
}
