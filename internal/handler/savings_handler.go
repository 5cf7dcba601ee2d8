package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/jalh2/godgraceenterprise/internal/repository"
	"github.com/jalh2/godgraceenterprise/internal/service"
	"github.com/jalh2/godgraceenterprise/pkg/utils"
)

// SavingsHandler handles savings account HTTP requests
type SavingsHandler struct {
	savingsService service.SavingsService
	logger         *logrus.Logger
}

// NewSavingsHandler creates a new SavingsHandler
func NewSavingsHandler(savingsService service.SavingsService, logger *logrus.Logger) *SavingsHandler {
	return &SavingsHandler{
		savingsService: savingsService,
		logger:         logger,
	}
}

// GetByClient handles retrieving a client's savings account with its history
func (h *SavingsHandler) GetByClient(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuid.Parse(mux.Vars(r)["clientId"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid client ID")
		return
	}

	account, txns, err := h.savingsService.GetByClient(r.Context(), clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "savings account not found")
			return
		}
		h.logger.Warnf("Failed to get savings account for client %s: %v", clientID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to get savings account")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "savings account retrieved successfully", map[string]interface{}{
		"account":      account,
		"transactions": txns,
	})
}
