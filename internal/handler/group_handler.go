package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/jalh2/godgraceenterprise/internal/models"
	"github.com/jalh2/godgraceenterprise/internal/repository"
	"github.com/jalh2/godgraceenterprise/internal/service"
	"github.com/jalh2/godgraceenterprise/pkg/utils"
)

// GroupHandler handles lending group HTTP requests
type GroupHandler struct {
	groupService service.GroupService
	logger       *logrus.Logger
}

// NewGroupHandler creates a new GroupHandler
func NewGroupHandler(groupService service.GroupService, logger *logrus.Logger) *GroupHandler {
	return &GroupHandler{
		groupService: groupService,
		logger:       logger,
	}
}

// Create handles group creation
func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var group models.Group
	if err := json.NewDecoder(r.Body).Decode(&group); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.groupService.Create(r.Context(), &group); err != nil {
		h.logger.Warnf("Failed to create group: %v", err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusCreated, "group created successfully", group)
}

// GetByID handles retrieving a specific group
func (h *GroupHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid group ID")
		return
	}

	group, err := h.groupService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "group not found")
			return
		}
		h.logger.Warnf("Failed to get group %s: %v", id, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to get group")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "group retrieved successfully", group)
}

// List handles listing groups
func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	groups, err := h.groupService.List(r.Context(), r.URL.Query().Get("branchCode"))
	if err != nil {
		h.logger.Warnf("Failed to list groups: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to list groups")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "groups retrieved successfully", groups)
}

// Update handles group updates
func (h *GroupHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid group ID")
		return
	}

	var group models.Group
	if err := json.NewDecoder(r.Body).Decode(&group); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()
	group.ID = id

	if err := h.groupService.Update(r.Context(), &group); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "group not found")
			return
		}
		h.logger.Warnf("Failed to update group %s: %v", id, err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "group updated successfully", group)
}

// Delete handles group deletion
func (h *GroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid group ID")
		return
	}

	if err := h.groupService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "group not found")
			return
		}
		h.logger.Warnf("Failed to delete group %s: %v", id, err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "group deleted successfully", nil)
}

// RecalculateLoanTotal handles recomputing the cached member loan total
func (h *GroupHandler) RecalculateLoanTotal(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid group ID")
		return
	}

	total, err := h.groupService.RecalculateLoanTotal(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "group not found")
			return
		}
		h.logger.Warnf("Failed to recalculate loan total for group %s: %v", id, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to recalculate loan total")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "group loan total recalculated", map[string]interface{}{
		"groupLoanTotal": total,
	})
}
