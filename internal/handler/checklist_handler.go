package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/compliance-watch/internal/domain"
	"github.com/KasumiMercury/compliance-watch/internal/service/document"
)

type addItemRequest struct {
	Sector   string `json:"sector"`
	TaskText string `json:"task_text" binding:"required"`
	Done     bool   `json:"done"`
	Severity string `json:"severity"`
	Notes    string `json:"notes"`
}

type updateItemRequest struct {
	Sector   *string `json:"sector"`
	TaskText *string `json:"task_text"`
	Done     *bool   `json:"done"`
	Severity *string `json:"severity"`
	Notes    *string `json:"notes"`
}

type checklistItemResponse struct {
	ID          string           `json:"id"`
	DocumentRef string           `json:"document_id"`
	Sector      string           `json:"sector"`
	TaskText    string           `json:"task_text"`
	Done        bool             `json:"done"`
	Situation   string           `json:"situation"`
	Severity    domain.RiskLevel `json:"severity"`
	Notes       string           `json:"notes,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

func newChecklistItemResponse(item *domain.ChecklistItem) checklistItemResponse {
	situation := "non_conforming"
	if item.Done {
		situation = "conforming"
	}
	return checklistItemResponse{
		ID:          item.ID,
		DocumentRef: item.DocumentRef,
		Sector:      item.Sector,
		TaskText:    item.TaskText,
		Done:        item.Done,
		Situation:   situation,
		Severity:    item.Severity,
		Notes:       item.Notes,
		CreatedAt:   item.CreatedAt,
	}
}

// HandleSectors lists the sector vocabulary of the inspection form.
func HandleSectors(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sectors": domain.InspectionSectors})
}

func (h *DocumentHandler) HandleListItems(c *gin.Context) {
	items, err := h.documents.ListItems(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}

	resp := make([]checklistItemResponse, 0, len(items))
	for i := range items {
		resp = append(resp, newChecklistItemResponse(&items[i]))
	}
	c.JSON(http.StatusOK, gin.H{"items": resp})
}

func (h *DocumentHandler) HandleAddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	severity, err := parseSeverity(req.Severity)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	item, err := h.documents.AddItem(c.Request.Context(), c.Param("id"), document.ChecklistInput{
		Sector:   req.Sector,
		TaskText: req.TaskText,
		Done:     req.Done,
		Severity: severity,
		Notes:    req.Notes,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newChecklistItemResponse(item))
}

func (h *DocumentHandler) HandleUpdateItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	update := document.ChecklistUpdate{
		Sector:   req.Sector,
		TaskText: req.TaskText,
		Done:     req.Done,
		Notes:    req.Notes,
	}
	if req.Severity != nil {
		severity, err := parseSeverity(*req.Severity)
		if err != nil {
			respondDomainError(c, err)
			return
		}
		update.Severity = &severity
	}

	item, err := h.documents.UpdateItem(c.Request.Context(), c.Param("id"), c.Param("itemID"), update)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, newChecklistItemResponse(item))
}

func (h *DocumentHandler) HandleDeleteItem(c *gin.Context) {
	if err := h.documents.DeleteItem(c.Request.Context(), c.Param("id"), c.Param("itemID")); err != nil {
		respondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// parseSeverity accepts the form's Baixa/Média/Alta/CRÍTICA scale as well as
// the risk enum names.
func parseSeverity(raw string) (domain.RiskLevel, error) {
	severity, ok := domain.ParseRiskLevel(raw)
	if !ok {
		return "", fmt.Errorf("%w: unknown severity %q", domain.ErrInvalidDocument, raw)
	}
	return severity, nil
}
