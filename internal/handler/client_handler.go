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

// ClientHandler handles borrower HTTP requests
type ClientHandler struct {
	clientService service.ClientService
	logger        *logrus.Logger
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientService service.ClientService, logger *logrus.Logger) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
		logger:        logger,
	}
}

// Create handles client creation
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var client models.Client
	if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.clientService.Create(r.Context(), &client); err != nil {
		h.logger.Warnf("Failed to create client: %v", err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusCreated, "client created successfully", client)
}

// GetByID handles retrieving a specific client
func (h *ClientHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid client ID")
		return
	}

	client, err := h.clientService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "client not found")
			return
		}
		h.logger.Warnf("Failed to get client %s: %v", id, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to get client")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "client retrieved successfully", client)
}

// List handles listing clients
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	var groupID *uuid.UUID
	if raw := r.URL.Query().Get("groupId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid group ID")
			return
		}
		groupID = &id
	}

	clients, err := h.clientService.List(r.Context(), r.URL.Query().Get("branchCode"), groupID)
	if err != nil {
		h.logger.Warnf("Failed to list clients: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to list clients")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "clients retrieved successfully", clients)
}

// Update handles client updates
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid client ID")
		return
	}

	var client models.Client
	if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()
	client.ID = id

	if err := h.clientService.Update(r.Context(), &client); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "client not found")
			return
		}
		h.logger.Warnf("Failed to update client %s: %v", id, err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "client updated successfully", client)
}

// Delete handles client deletion
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid client ID")
		return
	}

	if err := h.clientService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "client not found")
			return
		}
		h.logger.Warnf("Failed to delete client %s: %v", id, err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "client deleted successfully", nil)
}
