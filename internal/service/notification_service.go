package service

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"github.com/jalh2/godgraceenterprise/configs"
	"github.com/jalh2/godgraceenterprise/internal/models"
)

// NotificationSvc is an implementation of the service.NotificationService interface
type NotificationSvc struct {
	logger *logrus.Logger
	config *configs.Config
}

// NewNotificationService creates a new NotificationSvc
func NewNotificationService(deps Dependencies) *NotificationSvc {
	return &NotificationSvc{
		logger: deps.Logger,
		config: deps.Config,
	}
}

// SendActivationNotice emails the branch inbox that a loan went active.
// Delivery is best-effort: failures are logged and never surfaced to the
// activation flow.
func (s *NotificationSvc) SendActivationNotice(loan *models.Loan) {
	if !s.config.Email.Enabled {
		s.logger.Debugf("Email disabled, skipping activation notice for loan %s", loan.ID)
		return
	}

	subject := fmt.Sprintf("Loan Activated: %s (%s)", loan.ID, loan.BranchName)

	disbursed := ""
	if loan.DisbursementDate != nil {
		disbursed = loan.DisbursementDate.Format("2006-01-02")
	}

	body := fmt.Sprintf(`
		<h2>Loan Activation Notice</h2>
		<p>A %s loan has been activated at branch %s (%s).</p>
		<table>
			<tr><td>Loan ID</td><td>%s</td></tr>
			<tr><td>Principal</td><td>%s %s</td></tr>
			<tr><td>Total repayable</td><td>%s %s</td></tr>
			<tr><td>Installment</td><td>%s %s (%s)</td></tr>
			<tr><td>Disbursed on</td><td>%s</td></tr>
			<tr><td>Loan officer</td><td>%s</td></tr>
		</table>
	`,
		loan.Category,
		loan.BranchName,
		loan.BranchCode,
		loan.ID,
		loan.LoanAmount.StringFixed(2), loan.Currency,
		loan.TotalAmountToBePaid.StringFixed(2), loan.Currency,
		loan.WeeklyInstallment.StringFixed(2), loan.Currency, loan.PaymentPlan,
		disbursed,
		loan.LoanOfficer,
	)

	if err := s.sendEmail(s.config.Email.BranchInbox, subject, body); err != nil {
		s.logger.Warnf("Failed to send activation notice for loan %s: %v", loan.ID, err)
		return
	}

	s.logger.Infof("Activation notice sent for loan %s", loan.ID)
}

// sendEmail sends an email using the SMTP server
func (s *NotificationSvc) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.Email.SenderEmail)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(
		s.config.Email.SMTPHost,
		s.config.Email.SMTPPort,
		s.config.Email.SMTPUser,
		s.config.Email.SMTPPassword,
	)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
