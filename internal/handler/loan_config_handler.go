package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/jalh2/godgraceenterprise/internal/models"
	"github.com/jalh2/godgraceenterprise/internal/repository"
	"github.com/jalh2/godgraceenterprise/internal/service"
	"github.com/jalh2/godgraceenterprise/pkg/utils"
)

// LoanConfigHandler handles fee configuration HTTP requests
type LoanConfigHandler struct {
	configService service.ConfigService
	logger        *logrus.Logger
}

// NewLoanConfigHandler creates a new LoanConfigHandler
func NewLoanConfigHandler(configService service.ConfigService, logger *logrus.Logger) *LoanConfigHandler {
	return &LoanConfigHandler{
		configService: configService,
		logger:        logger,
	}
}

// Upsert handles creating or replacing a fee configuration. A config with no
// branch code is the single global default.
func (h *LoanConfigHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var cfg models.LoanConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.configService.Upsert(r.Context(), &cfg); err != nil {
		h.logger.Warnf("Failed to upsert loan config: %v", err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "loan config saved successfully", cfg)
}

// List handles listing all fee configurations
func (h *LoanConfigHandler) List(w http.ResponseWriter, r *http.Request) {
	configs, err := h.configService.List(r.Context())
	if err != nil {
		h.logger.Warnf("Failed to list loan configs: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to list loan configs")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "loan configs retrieved successfully", configs)
}

// GetForBranch handles retrieving the effective config for one branch
func (h *LoanConfigHandler) GetForBranch(w http.ResponseWriter, r *http.Request) {
	branchCode := mux.Vars(r)["branchCode"]

	cfg, err := h.configService.GetForBranch(r.Context(), branchCode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "no config for branch")
			return
		}
		h.logger.Warnf("Failed to get loan config for branch %s: %v", branchCode, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to get loan config")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "loan config retrieved successfully", cfg)
}
