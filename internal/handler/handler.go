package handler

import (
	"github.com/sirupsen/logrus"

	"github.com/jalh2/godgraceenterprise/configs"
	"github.com/jalh2/godgraceenterprise/internal/service"
)

// Dependencies contains handler dependencies
type Dependencies struct {
	Services *service.Service
	Logger   *logrus.Logger
	Config   *configs.Config
}

// Handler contains all HTTP handlers for the application
type Handler struct {
	Loan         *LoanHandler
	Distribution *DistributionHandler
	Metrics      *MetricsHandler
	LoanConfig   *LoanConfigHandler
	Group        *GroupHandler
	Client       *ClientHandler
	Savings      *SavingsHandler
	Staff        *StaffHandler
	Expense      *ExpenseHandler
}

// NewHandler creates a new Handler with all subhandlers
func NewHandler(deps Dependencies) *Handler {
	return &Handler{
		Loan:         NewLoanHandler(deps.Services.Loan, deps.Services.Agreement, deps.Logger),
		Distribution: NewDistributionHandler(deps.Services.Distribution, deps.Logger),
		Metrics:      NewMetricsHandler(deps.Services.Metrics, deps.Logger),
		LoanConfig:   NewLoanConfigHandler(deps.Services.Config, deps.Logger),
		Group:        NewGroupHandler(deps.Services.Group, deps.Logger),
		Client:       NewClientHandler(deps.Services.Client, deps.Logger),
		Savings:      NewSavingsHandler(deps.Services.Savings, deps.Logger),
		Staff:        NewStaffHandler(deps.Services.Staff, deps.Logger),
		Expense:      NewExpenseHandler(deps.Services.Expense, deps.Logger),
	}
}
