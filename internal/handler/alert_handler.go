package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/KasumiMercury/compliance-watch/internal/domain"
	"github.com/KasumiMercury/compliance-watch/internal/service/evaluate"
)

const runIDHeader = "X-Run-ID"

type AlertHandler struct {
	evaluator *evaluate.Service
	now       func() time.Time
}

func NewAlertHandler(evaluator *evaluate.Service, now func() time.Time) *AlertHandler {
	if now == nil {
		now = time.Now
	}
	return &AlertHandler{
		evaluator: evaluator,
		now:       now,
	}
}

// HandleEvaluate runs one evaluation tick. The optional "at" query parameter
// replaces the wall clock, which lets a scheduler replay a missed tick.
func (h *AlertHandler) HandleEvaluate(c *gin.Context) {
	now, ok := h.evaluationTime(c)
	if !ok {
		return
	}

	runID := c.GetHeader(runIDHeader)
	if runID == "" {
		runID = uuid.NewString()
	}

	resp, err := h.evaluator.Evaluate(c.Request.Context(), now, runID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

type cooldownResponse struct {
	Bucket           domain.Bucket `json:"bucket"`
	CooldownSeconds  int64         `json:"cooldown_seconds"`
	RemainingSeconds int64         `json:"remaining_seconds"`
	Ready            bool          `json:"ready"`
}

func (h *AlertHandler) HandleCooldowns(c *gin.Context) {
	now, ok := h.evaluationTime(c)
	if !ok {
		return
	}

	throttle := h.evaluator.Throttle()
	policy := throttle.Policy()

	resp := make([]cooldownResponse, 0, len(domain.AllBuckets()))
	for _, bucket := range domain.AllBuckets() {
		window, _ := policy.Cooldown(bucket)
		remaining, err := throttle.Remaining(c.Request.Context(), bucket, now)
		if err != nil {
			respondDomainError(c, err)
			return
		}
		resp = append(resp, cooldownResponse{
			Bucket:           bucket,
			CooldownSeconds:  int64(window / time.Second),
			RemainingSeconds: int64(remaining / time.Second),
			Ready:            remaining == 0,
		})
	}

	c.JSON(http.StatusOK, gin.H{"cooldowns": resp})
}

func (h *AlertHandler) evaluationTime(c *gin.Context) (time.Time, bool) {
	raw := c.Query("at")
	if raw == "" {
		return h.now(), true
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid at time format, expected RFC3339")
		return time.Time{}, false
	}
	return parsed, true
}
