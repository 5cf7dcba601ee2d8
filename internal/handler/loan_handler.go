package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/jalh2/godgraceenterprise/internal/middleware"
	"github.com/jalh2/godgraceenterprise/internal/models"
	"github.com/jalh2/godgraceenterprise/internal/repository"
	"github.com/jalh2/godgraceenterprise/internal/service"
	"github.com/jalh2/godgraceenterprise/pkg/utils"
)

// LoanHandler handles loan-related HTTP requests
type LoanHandler struct {
	loanService      service.LoanService
	agreementService service.AgreementService
	logger           *logrus.Logger
}

// NewLoanHandler creates a new LoanHandler
func NewLoanHandler(loanService service.LoanService, agreementService service.AgreementService, logger *logrus.Logger) *LoanHandler {
	return &LoanHandler{
		loanService:      loanService,
		agreementService: agreementService,
		logger:           logger,
	}
}

// Create handles loan creation
func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var loan models.Loan
	if err := json.NewDecoder(r.Body).Decode(&loan); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	actor := middleware.StaffFromContext(r.Context())
	if err := h.loanService.Create(r.Context(), &loan, actor); err != nil {
		h.logger.Warnf("Failed to create loan: %v", err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusCreated, "loan created successfully", loan)
}

// GetByID handles retrieving a specific loan
func (h *LoanHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid loan ID")
		return
	}

	actor := middleware.StaffFromContext(r.Context())
	loan, err := h.loanService.GetByID(r.Context(), id, actor)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "loan not found")
			return
		}
		h.logger.Warnf("Failed to get loan %s: %v", id, err)
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "loan retrieved successfully", loan)
}

// List handles listing loans with optional filters
func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repository.LoanFilter{
		BranchCode:  r.URL.Query().Get("branchCode"),
		LoanOfficer: r.URL.Query().Get("loanOfficer"),
		Status:      models.LoanStatus(r.URL.Query().Get("status")),
	}

	if raw := r.URL.Query().Get("groupId"); raw != "" {
		groupID, err := uuid.Parse(raw)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid group ID")
			return
		}
		filter.GroupID = &groupID
	}

	actor := middleware.StaffFromContext(r.Context())
	loans, err := h.loanService.List(r.Context(), filter, actor)
	if err != nil {
		h.logger.Warnf("Failed to list loans: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to list loans")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "loans retrieved successfully", loans)
}

// Update handles loan updates
func (h *LoanHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid loan ID")
		return
	}

	var loan models.Loan
	if err := json.NewDecoder(r.Body).Decode(&loan); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()
	loan.ID = id

	actor := middleware.StaffFromContext(r.Context())
	if err := h.loanService.Update(r.Context(), &loan, actor); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "loan not found")
			return
		}
		h.logger.Warnf("Failed to update loan %s: %v", id, err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "loan updated successfully", loan)
}

// Delete handles loan deletion
func (h *LoanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid loan ID")
		return
	}

	actor := middleware.StaffFromContext(r.Context())
	if err := h.loanService.Delete(r.Context(), id, actor); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "loan not found")
			return
		}
		h.logger.Warnf("Failed to delete loan %s: %v", id, err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "loan deleted successfully", nil)
}

// ChangeStatus handles loan lifecycle transitions
func (h *LoanHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid loan ID")
		return
	}

	var req models.StatusChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	actor := middleware.StaffFromContext(r.Context())
	loan, err := h.loanService.ChangeStatus(r.Context(), id, req.Status, actor)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "loan not found")
			return
		}
		h.logger.Warnf("Failed to change status of loan %s: %v", id, err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "loan status updated successfully", loan)
}

// AddCollections handles appending repayment entries to a loan's ledger
func (h *LoanHandler) AddCollections(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid loan ID")
		return
	}

	var req models.CollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	actor := middleware.StaffFromContext(r.Context())
	loan, err := h.loanService.AddCollections(r.Context(), id, req.AllEntries(), actor)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "loan not found")
			return
		}
		h.logger.Warnf("Failed to add collections to loan %s: %v", id, err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusCreated, "collections recorded successfully", loan)
}

// DueCollections handles the due-collections report
func (h *LoanHandler) DueCollections(w http.ResponseWriter, r *http.Request) {
	from, err := time.Parse("2006-01-02", r.URL.Query().Get("from"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid from date, expected YYYY-MM-DD")
		return
	}

	to, err := time.Parse("2006-01-02", r.URL.Query().Get("to"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid to date, expected YYYY-MM-DD")
		return
	}

	actor := middleware.StaffFromContext(r.Context())
	due, err := h.loanService.DueCollections(r.Context(), from, to, actor)
	if err != nil {
		h.logger.Warnf("Failed to build due collections report: %v", err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "due collections retrieved successfully", due)
}

// GetAgreement handles retrieving a loan's agreement snapshot
func (h *LoanHandler) GetAgreement(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid loan ID")
		return
	}

	agreement, err := h.agreementService.GetByLoan(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "agreement not found")
			return
		}
		h.logger.Warnf("Failed to get agreement for loan %s: %v", id, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to get agreement")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "agreement retrieved successfully", agreement)
}
