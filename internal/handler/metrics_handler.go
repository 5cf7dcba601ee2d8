package handler

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jalh2/godgraceenterprise/internal/models"
	"github.com/jalh2/godgraceenterprise/internal/repository"
	"github.com/jalh2/godgraceenterprise/internal/service"
	"github.com/jalh2/godgraceenterprise/pkg/utils"
)

// MetricsHandler handles metric-related HTTP requests
type MetricsHandler struct {
	metricsService service.MetricsService
	logger         *logrus.Logger
}

// NewMetricsHandler creates a new MetricsHandler
func NewMetricsHandler(metricsService service.MetricsService, logger *logrus.Logger) *MetricsHandler {
	return &MetricsHandler{
		metricsService: metricsService,
		logger:         logger,
	}
}

// Recalculate handles the full metric recalculation sweep
func (h *MetricsHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	replayed, err := h.metricsService.Recalculate(r.Context())
	if err != nil {
		h.logger.Errorf("Metric recalculation failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "recalculation failed")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "metrics recalculated successfully", map[string]interface{}{
		"replayedEvents": replayed,
	})
}

// Summary handles aggregated metric queries
func (h *MetricsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	filter := repository.MetricFilter{
		BranchCode:  r.URL.Query().Get("branchCode"),
		LoanOfficer: r.URL.Query().Get("loanOfficer"),
		Currency:    models.Currency(r.URL.Query().Get("currency")),
	}

	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid from date, expected YYYY-MM-DD")
			return
		}
		filter.From = &from
	}

	if raw := r.URL.Query().Get("to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid to date, expected YYYY-MM-DD")
			return
		}
		filter.To = &to
	}

	summary, err := h.metricsService.Summary(r.Context(), filter)
	if err != nil {
		h.logger.Warnf("Failed to build metric summary: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to build summary")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "metric summary retrieved successfully", summary)
}
