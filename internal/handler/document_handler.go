package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/compliance-watch/internal/domain"
	"github.com/KasumiMercury/compliance-watch/internal/ingest"
	"github.com/KasumiMercury/compliance-watch/internal/service/document"
)

const dateLayout = "2006-01-02"

type DocumentHandler struct {
	documents *document.Service
}

func NewDocumentHandler(documents *document.Service) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

type createDocumentRequest struct {
	Facility     string  `json:"facility" binding:"required"`
	Sector       string  `json:"sector" binding:"required"`
	DocumentType string  `json:"document_type" binding:"required"`
	TaxID        string  `json:"tax_id"`
	ReceivedDate *string `json:"received_date"`
	DueDate      *string `json:"due_date"`
	ManualRisk   string  `json:"manual_risk"`
	Completed    bool    `json:"completed"`
	Notes        string  `json:"notes"`
}

type updateDocumentRequest struct {
	Facility     *string `json:"facility"`
	Sector       *string `json:"sector"`
	DocumentType *string `json:"document_type"`
	TaxID        *string `json:"tax_id"`
	ReceivedDate *string `json:"received_date"`
	DueDate      *string `json:"due_date"`
	ManualRisk   *string `json:"manual_risk"`
	Completed    *bool   `json:"completed"`
	Notes        *string `json:"notes"`
}

type documentResponse struct {
	ID              string           `json:"id"`
	Facility        string           `json:"facility"`
	Sector          string           `json:"sector"`
	DocumentType    string           `json:"document_type"`
	TaxID           string           `json:"tax_id,omitempty"`
	ReceivedDate    *string          `json:"received_date"`
	DueDate         *string          `json:"due_date"`
	ManualRisk      domain.RiskLevel `json:"manual_risk"`
	ProgressPercent int              `json:"progress_percent"`
	Completed       bool             `json:"completed"`
	Notes           string           `json:"notes,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	Status          statusResponse   `json:"status"`
}

func newDocumentResponse(v *document.View) documentResponse {
	doc := v.Document
	return documentResponse{
		ID:              doc.ID,
		Facility:        doc.Facility,
		Sector:          doc.Sector,
		DocumentType:    doc.DocumentType,
		TaxID:           doc.TaxID,
		ReceivedDate:    formatDate(doc.ReceivedDate),
		DueDate:         formatDate(doc.DueDate),
		ManualRisk:      doc.ManualRisk,
		ProgressPercent: doc.ProgressPercent,
		Completed:       doc.Completed,
		Notes:           doc.Notes,
		CreatedAt:       doc.CreatedAt,
		UpdatedAt:       doc.UpdatedAt,
		Status:          newStatusResponse(v.Status),
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

// parseDateField accepts the same day-first and ISO layouts as the importers.
// A blank value counts as absent.
func parseDateField(name string, raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	parsed, err := ingest.ParseDate(*raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidDocument, name, err)
	}
	return &parsed, nil
}

func parseRisk(raw string) (domain.RiskLevel, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	risk, ok := domain.ParseRiskLevel(raw)
	if !ok {
		return "", fmt.Errorf("%w: unknown risk level %q", domain.ErrInvalidDocument, raw)
	}
	return risk, nil
}

func (h *DocumentHandler) HandleList(c *gin.Context) {
	filter := document.Filter{
		Sector:   c.Query("sector"),
		Facility: c.Query("facility"),
	}

	risk, err := parseRisk(c.Query("risk"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	filter.Risk = risk

	if raw := c.Query("state"); raw != "" {
		state := domain.UrgencyState(strings.ToUpper(raw))
		if !state.IsValid() {
			respondError(c, http.StatusBadRequest, "validation_error", fmt.Sprintf("unknown state %q", raw))
			return
		}
		filter.State = state
	}

	if raw := c.Query("include_completed"); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "validation_error", "include_completed must be a boolean")
			return
		}
		filter.IncludeCompleted = include
	}

	views, err := h.documents.List(c.Request.Context(), filter)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	resp := make([]documentResponse, 0, len(views))
	for i := range views {
		resp = append(resp, newDocumentResponse(&views[i]))
	}
	c.JSON(http.StatusOK, gin.H{"documents": resp})
}

func (h *DocumentHandler) HandleCreate(c *gin.Context) {
	var req createDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	in := document.CreateInput{
		Facility:     req.Facility,
		Sector:       req.Sector,
		DocumentType: req.DocumentType,
		TaxID:        req.TaxID,
		Completed:    req.Completed,
		Notes:        req.Notes,
	}

	var err error
	if in.ReceivedDate, err = parseDateField("received_date", req.ReceivedDate); err != nil {
		respondDomainError(c, err)
		return
	}
	if in.DueDate, err = parseDateField("due_date", req.DueDate); err != nil {
		respondDomainError(c, err)
		return
	}
	if in.ManualRisk, err = parseRisk(req.ManualRisk); err != nil {
		respondDomainError(c, err)
		return
	}

	view, err := h.documents.Create(c.Request.Context(), in)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newDocumentResponse(view))
}

func (h *DocumentHandler) HandleGet(c *gin.Context) {
	view, err := h.documents.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, newDocumentResponse(view))
}

func (h *DocumentHandler) HandleUpdate(c *gin.Context) {
	var req updateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	in := document.UpdateInput{
		Facility:     req.Facility,
		Sector:       req.Sector,
		DocumentType: req.DocumentType,
		TaxID:        req.TaxID,
		Completed:    req.Completed,
		Notes:        req.Notes,
	}

	var err error
	if in.ReceivedDate, err = parseDateField("received_date", req.ReceivedDate); err != nil {
		respondDomainError(c, err)
		return
	}
	if in.DueDate, err = parseDateField("due_date", req.DueDate); err != nil {
		respondDomainError(c, err)
		return
	}
	if req.ManualRisk != nil {
		risk, err := parseRisk(*req.ManualRisk)
		if err != nil {
			respondDomainError(c, err)
			return
		}
		if risk != "" {
			in.ManualRisk = &risk
		}
	}

	view, err := h.documents.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, newDocumentResponse(view))
}

func (h *DocumentHandler) HandleDelete(c *gin.Context) {
	if err := h.documents.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type rejectedRowResponse struct {
	Line   int    `json:"line"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// HandleImport bulk-loads a CSV body. Rows that already exist are skipped and
// malformed rows are reported with their line number.
func (h *DocumentHandler) HandleImport(c *gin.Context) {
	summary, err := h.documents.ImportCSV(c.Request.Context(), c.Request.Body)
	if err != nil && summary == nil {
		respondDomainError(c, err)
		return
	}

	body := gin.H{
		"created":  summary.Created,
		"skipped":  summary.Skipped,
		"rejected": newRejectedRows(summary.Rejected),
	}

	if err != nil {
		// Rows before the failure are already stored.
		slog.ErrorContext(c.Request.Context(), "import stopped before completion",
			slog.Int("created", len(summary.Created)),
			slog.String("error", err.Error()),
		)
		_ = c.Error(err)
		body["error"] = "import_incomplete"
		body["message"] = "import stopped before completion"
		c.JSON(http.StatusInternalServerError, body)
		return
	}

	c.JSON(http.StatusOK, body)
}

func newRejectedRows(rows []*ingest.RowError) []rejectedRowResponse {
	rejected := make([]rejectedRowResponse, 0, len(rows))
	for _, r := range rows {
		rejected = append(rejected, rejectedRowResponse{Line: r.Line, Field: r.Field, Reason: r.Reason})
	}
	return rejected
}
