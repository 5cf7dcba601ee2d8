package handler

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/jalh2/godgraceenterprise/internal/middleware"
	"github.com/jalh2/godgraceenterprise/internal/models"
	"github.com/jalh2/godgraceenterprise/internal/service"
	"github.com/jalh2/godgraceenterprise/pkg/utils"
)

// StaffHandler handles staff HTTP requests
type StaffHandler struct {
	staffService service.StaffService
	logger       *logrus.Logger
}

// NewStaffHandler creates a new StaffHandler
func NewStaffHandler(staffService service.StaffService, logger *logrus.Logger) *StaffHandler {
	return &StaffHandler{
		staffService: staffService,
		logger:       logger,
	}
}

// Register handles staff registration
func (h *StaffHandler) Register(w http.ResponseWriter, r *http.Request) {
	var reg models.StaffRegistration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	staff, err := h.staffService.Register(r.Context(), &reg)
	if err != nil {
		h.logger.Warnf("Failed to register staff: %v", err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusCreated, "staff registered successfully", staff)
}

// WhoAmI handles returning the identity resolved from the request headers
func (h *StaffHandler) WhoAmI(w http.ResponseWriter, r *http.Request) {
	staff := middleware.StaffFromContext(r.Context())
	if staff == nil {
		utils.RespondWithError(w, http.StatusNotFound, "no staff identity on request")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "staff identity resolved", staff)
}
