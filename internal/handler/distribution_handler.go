package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/jalh2/godgraceenterprise/internal/middleware"
	"github.com/jalh2/godgraceenterprise/internal/models"
	"github.com/jalh2/godgraceenterprise/internal/repository"
	"github.com/jalh2/godgraceenterprise/internal/service"
	"github.com/jalh2/godgraceenterprise/pkg/utils"
)

// DistributionHandler handles distribution-related HTTP requests
type DistributionHandler struct {
	distributionService service.DistributionService
	logger              *logrus.Logger
}

// NewDistributionHandler creates a new DistributionHandler
func NewDistributionHandler(distributionService service.DistributionService, logger *logrus.Logger) *DistributionHandler {
	return &DistributionHandler{
		distributionService: distributionService,
		logger:              logger,
	}
}

// Create handles recording distributions against a loan
func (h *DistributionHandler) Create(w http.ResponseWriter, r *http.Request) {
	loanID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid loan ID")
		return
	}

	var req models.DistributionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	actor := middleware.StaffFromContext(r.Context())
	created, err := h.distributionService.Create(r.Context(), loanID, &req, actor)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "loan not found")
			return
		}
		h.logger.Warnf("Failed to create distribution for loan %s: %v", loanID, err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusCreated, "distributions recorded successfully", created)
}

// GetByLoan handles listing a loan's distributions
func (h *DistributionHandler) GetByLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid loan ID")
		return
	}

	distributions, err := h.distributionService.GetByLoan(r.Context(), loanID)
	if err != nil {
		h.logger.Warnf("Failed to list distributions for loan %s: %v", loanID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to list distributions")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "distributions retrieved successfully", distributions)
}

// GetByID handles retrieving a specific distribution
func (h *DistributionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid distribution ID")
		return
	}

	d, err := h.distributionService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "distribution not found")
			return
		}
		h.logger.Warnf("Failed to get distribution %s: %v", id, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to get distribution")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "distribution retrieved successfully", d)
}

// Update handles mutating a distribution
func (h *DistributionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid distribution ID")
		return
	}

	var upd models.DistributionUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	actor := middleware.StaffFromContext(r.Context())
	d, err := h.distributionService.Update(r.Context(), id, &upd, actor)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "distribution not found")
			return
		}
		h.logger.Warnf("Failed to update distribution %s: %v", id, err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "distribution updated successfully", d)
}

// Delete handles removing a distribution
func (h *DistributionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid distribution ID")
		return
	}

	actor := middleware.StaffFromContext(r.Context())
	if err := h.distributionService.Delete(r.Context(), id, actor); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "distribution not found")
			return
		}
		h.logger.Warnf("Failed to delete distribution %s: %v", id, err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "distribution deleted successfully", nil)
}
