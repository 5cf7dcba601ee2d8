package service

import (
	"context"
	"fmt"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jalh2/godgraceenterprise/internal/models"
	"github.com/jalh2/godgraceenterprise/internal/repository"
)

// AgreementSvc is an implementation of the service.AgreementService interface
type AgreementSvc struct {
	repos  *repository.Repository
	logger *logrus.Logger
}

// NewAgreementService creates a new AgreementSvc
func NewAgreementService(deps Dependencies) *AgreementSvc {
	return &AgreementSvc{
		repos:  deps.Repos,
		logger: deps.Logger,
	}
}

// EnsureForLoan generates the agreement snapshot for a loan unless one
// already exists. The unique key on the loan reference makes concurrent
// calls collapse to a single stored document.
func (s *AgreementSvc) EnsureForLoan(ctx context.Context, loan *models.Loan) (bool, error) {
	content, err := s.render(loan)
	if err != nil {
		return false, fmt.Errorf("failed to render agreement: %w", err)
	}

	agreement := &models.LoanAgreement{
		ID:          uuid.New(),
		LoanID:      loan.ID,
		Content:     content,
		GeneratedAt: time.Now(),
	}

	created, err := s.repos.Agreement.Upsert(ctx, agreement)
	if err != nil {
		return false, fmt.Errorf("failed to store agreement: %w", err)
	}

	return created, nil
}

// GetByLoan gets the agreement snapshot for a loan
func (s *AgreementSvc) GetByLoan(ctx context.Context, loanID uuid.UUID) (*models.LoanAgreement, error) {
	return s.repos.Agreement.GetByLoanID(ctx, loanID)
}

// render builds the agreement document from the loan's frozen terms
func (s *AgreementSvc) render(loan *models.Loan) (string, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("loanAgreement")
	root.CreateAttr("loanId", loan.ID.String())
	root.CreateAttr("generatedAt", time.Now().Format(time.RFC3339))

	parties := root.CreateElement("parties")
	branch := parties.CreateElement("branch")
	branch.CreateElement("name").SetText(loan.BranchName)
	branch.CreateElement("code").SetText(loan.BranchCode)
	if loan.LoanOfficer != "" {
		parties.CreateElement("loanOfficer").SetText(loan.LoanOfficer)
	}
	if loan.ClientID != nil {
		parties.CreateElement("clientId").SetText(loan.ClientID.String())
	}
	if loan.GroupID != nil {
		parties.CreateElement("groupId").SetText(loan.GroupID.String())
	}

	terms := root.CreateElement("terms")
	terms.CreateElement("category").SetText(string(loan.Category))
	terms.CreateElement("currency").SetText(string(loan.Currency))
	terms.CreateElement("principal").SetText(loan.LoanAmount.StringFixed(2))
	terms.CreateElement("interestRate").SetText(loan.InterestRate.StringFixed(2))
	terms.CreateElement("totalRepayable").SetText(loan.TotalAmountToBePaid.StringFixed(2))
	terms.CreateElement("installment").SetText(loan.WeeklyInstallment.StringFixed(2))
	terms.CreateElement("paymentPlan").SetText(string(loan.PaymentPlan))
	terms.CreateElement("duration").SetText(
		fmt.Sprintf("%d %s", loan.DurationNumber, loan.DurationUnit))
	if loan.DisbursementDate != nil {
		terms.CreateElement("disbursementDate").SetText(loan.DisbursementDate.Format("2006-01-02"))
	}
	if loan.EndingDate != nil {
		terms.CreateElement("endingDate").SetText(loan.EndingDate.Format("2006-01-02"))
	}

	fees := root.CreateElement("fees")
	fees.CreateElement("processing").SetText(loan.ProcessingFeeAmount.StringFixed(2))
	fees.CreateElement("form").SetText(loan.FormFeeAmount.StringFixed(2))
	fees.CreateElement("inspection").SetText(loan.InspectionFeeAmount.StringFixed(2))
	fees.CreateElement("collateralCash").SetText(loan.CollateralCashAmount.StringFixed(2))
	fees.CreateElement("netDisbursed").SetText(loan.CashAmountCredited.StringFixed(2))

	if len(loan.Guarantors) > 0 {
		guarantors := root.CreateElement("guarantors")
		for _, g := range loan.Guarantors {
			el := guarantors.CreateElement("guarantor")
			el.CreateElement("name").SetText(g.Name)
			if g.Contact != "" {
				el.CreateElement("contact").SetText(g.Contact)
			}
			if g.Address != "" {
				el.CreateElement("address").SetText(g.Address)
			}
		}
	}

	if len(loan.CollateralItems) > 0 {
		items := root.CreateElement("collateralItems")
		for _, item := range loan.CollateralItems {
			el := items.CreateElement("item")
			el.CreateElement("description").SetText(item.Description)
			el.CreateElement("value").SetText(item.Value.StringFixed(2))
		}
	}

	doc.Indent(2)
	return doc.WriteToString()
}
