package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/hannan/internal/domain/models"
	"github.com/mamadbah2/hannan/internal/domain/modules"
)

// SummaryCalculator drafts monthly summaries.
type SummaryCalculator interface {
	Calculate(ctx context.Context, month string) (models.Record, error)
}

// OverviewBuilder produces the admin dashboard.
type OverviewBuilder interface {
	Overview(ctx context.Context) (models.Overview, error)
}

// ReportsHandler serves read-only aggregate endpoints.
type ReportsHandler struct {
	summaries SummaryCalculator
	dashboard OverviewBuilder
	logger    *zap.Logger
}

// NewReportsHandler constructs the handler.
func NewReportsHandler(summaries SummaryCalculator, dashboard OverviewBuilder, logger *zap.Logger) *ReportsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportsHandler{summaries: summaries, dashboard: dashboard, logger: logger}
}

// CalculateSummary returns an unsaved monthly summary for ?month=YYYY-MM.
func (h *ReportsHandler) CalculateSummary(c *gin.Context) {
	draft, err := h.summaries.Calculate(c.Request.Context(), c.Query("month"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, draft, "")
}

// Dashboard returns the admin overview.
func (h *ReportsHandler) Dashboard(c *gin.Context) {
	overview, err := h.dashboard.Overview(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, overview, "")
}

// ModuleInfo is the serializable part of a module schema.
type ModuleInfo struct {
	Module    string         `json:"module"`
	Title     string         `json:"title"`
	Project   string         `json:"project"`
	IDField   string         `json:"id_field"`
	Fields    []models.Field `json:"fields"`
	Computed  []string       `json:"computed,omitempty"`
	Reminders bool           `json:"reminders,omitempty"`
	Photo     string         `json:"photo,omitempty"`
}

// Modules lists every module and its fields.
func (h *ReportsHandler) Modules(c *gin.Context) {
	schemas := modules.All()
	out := make([]ModuleInfo, 0, len(schemas))
	for _, s := range schemas {
		info := ModuleInfo{
			Module:    s.Module,
			Title:     s.Title,
			Project:   s.Project,
			IDField:   s.IDField,
			Fields:    s.Fields,
			Reminders: s.Reminders,
			Photo:     s.Photo,
		}
		for _, d := range s.Details {
			info.Computed = append(info.Computed, d.Name)
		}
		out = append(out, info)
	}
	respondOK(c, http.StatusOK, out, "")
}

// Health is the keep-alive target.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
