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

// ExpenseHandler handles expense HTTP requests
type ExpenseHandler struct {
	expenseService service.ExpenseService
	logger         *logrus.Logger
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService service.ExpenseService, logger *logrus.Logger) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expenseService,
		logger:         logger,
	}
}

// Create handles expense creation
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var expense models.Expense
	if err := json.NewDecoder(r.Body).Decode(&expense); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	actor := middleware.StaffFromContext(r.Context())
	if err := h.expenseService.Create(r.Context(), &expense, actor); err != nil {
		h.logger.Warnf("Failed to create expense: %v", err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusCreated, "expense recorded successfully", expense)
}

// List handles listing expenses
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := middleware.StaffFromContext(r.Context())
	expenses, err := h.expenseService.List(r.Context(), r.URL.Query().Get("branchCode"), actor)
	if err != nil {
		h.logger.Warnf("Failed to list expenses: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to list expenses")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "expenses retrieved successfully", expenses)
}

// Delete handles expense deletion
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid expense ID")
		return
	}

	if err := h.expenseService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "expense not found")
			return
		}
		h.logger.Warnf("Failed to delete expense %s: %v", id, err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "expense deleted successfully", nil)
}
