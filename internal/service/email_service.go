package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"loan-service/configs"
	"loan-service/internal/models"
	"loan-service/internal/repository"
)

// EmailSvc is an implementation of the service.EmailService interface
type EmailSvc struct {
	repos  *repository.Repository
	logger *logrus.Logger
	config *configs.Config
}

// NewEmailService creates a new EmailSvc
func NewEmailService(deps Dependencies) *EmailSvc {
	return &EmailSvc{
		repos:  deps.Repos,
		logger: deps.Logger,
		config: deps.Config,
	}
}

// SendLoanApproved sends a notification for a newly originated loan
func (s *EmailSvc) SendLoanApproved(ctx context.Context, customerID int, loan *models.Loan) error {
	customer, err := s.repos.Customer.GetByID(ctx, customerID)
	if err != nil {
		return fmt.Errorf("failed to get customer: %w", err)
	}

	// Skip if email is empty
	if customer.Email == "" {
		return nil
	}

	subject := fmt.Sprintf("Loan Approved: %s", loan.Principal.StringFixed(2))

	body := fmt.Sprintf(`
	<h2>Loan Approval Notification</h2>
	<p>Dear %s,</p>

	<p>We are pleased to inform you that your loan application has been approved!</p>

	<p>Here are the details of your new loan:</p>

	<table style="border-collapse: collapse; width: 100%%;">
		<tr>
			<td style="padding: 8px; border: 1px solid #ddd;"><strong>Loan Reference:</strong></td>
			<td style="padding: 8px; border: 1px solid #ddd;">%s</td>
		</tr>
		<tr>
			<td style="padding: 8px; border: 1px solid #ddd;"><strong>Principal:</strong></td>
			<td style="padding: 8px; border: 1px solid #ddd;">%s</td>
		</tr>
		<tr>
			<td style="padding: 8px; border: 1px solid #ddd;"><strong>Interest Type:</strong></td>
			<td style="padding: 8px; border: 1px solid #ddd;">%s</td>
		</tr>
		<tr>
			<td style="padding: 8px; border: 1px solid #ddd;"><strong>Tenure:</strong></td>
			<td style="padding: 8px; border: 1px solid #ddd;">%d months</td>
		</tr>
		<tr>
			<td style="padding: 8px; border: 1px solid #ddd;"><strong>Start Date:</strong></td>
			<td style="padding: 8px; border: 1px solid #ddd;">%s</td>
		</tr>
	</table>

	<p>Your first installment is due one month after the start date. You can view
	your full repayment schedule in your online portal.</p>

	<p>Thank you for choosing our services.</p>

	<p>
	Best regards,<br>
	Loan Service Team
	</p>
	`,
		customer.Name,
		loan.LoanID,
		loan.Principal.StringFixed(2),
		loan.InterestRate.Type,
		loan.TenureMonths,
		loan.StartDate.Format("2006-01-02"),
	)

	if err := s.sendEmail(customer.Email, subject, body); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Loan approval email sent to %s for loan %d", customer.Email, loan.ID)

	return nil
}

// SendPaymentReceipt sends a receipt for a processed repayment
func (s *EmailSvc) SendPaymentReceipt(ctx context.Context, customerID int, loan *models.Loan, result *models.RepaymentResult) error {
	customer, err := s.repos.Customer.GetByID(ctx, customerID)
	if err != nil {
		return fmt.Errorf("failed to get customer: %w", err)
	}

	// Skip if email is empty
	if customer.Email == "" {
		return nil
	}

	subject := fmt.Sprintf("Payment Received: Installment %d", result.InstallmentNumber)

	var chargesText string
	if result.ChargesSettled > 0 {
		chargesText = fmt.Sprintf(`
		<p>%d outstanding charge(s) totalling %s were settled from this payment.</p>
		`, result.ChargesSettled, result.ChargesAmount.StringFixed(2))
	}

	body := fmt.Sprintf(`
	<h2>Payment Receipt</h2>
	<p>Dear %s,</p>

	<p>We have received your payment. Here are the details:</p>

	<table style="border-collapse: collapse; width: 100%%;">
		<tr>
			<td style="padding: 8px; border: 1px solid #ddd;"><strong>Loan Reference:</strong></td>
			<td style="padding: 8px; border: 1px solid #ddd;">%s</td>
		</tr>
		<tr>
			<td style="padding: 8px; border: 1px solid #ddd;"><strong>Installment Number:</strong></td>
			<td style="padding: 8px; border: 1px solid #ddd;">%d</td>
		</tr>
		<tr>
			<td style="padding: 8px; border: 1px solid #ddd;"><strong>Installment Amount:</strong></td>
			<td style="padding: 8px; border: 1px solid #ddd;">%s</td>
		</tr>
	</table>

	%s

	<p>Thank you for your payment.</p>

	<p>
	Best regards,<br>
	Loan Service Team
	</p>
	`,
		customer.Name,
		loan.LoanID,
		result.InstallmentNumber,
		result.InstallmentAmount.StringFixed(2),
		chargesText,
	)

	if err := s.sendEmail(customer.Email, subject, body); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Payment receipt email sent to %s for loan %d", customer.Email, loan.ID)

	return nil
}

// SendForeclosureNotice sends a confirmation that a loan has been closed early
func (s *EmailSvc) SendForeclosureNotice(ctx context.Context, customerID int, loan *models.Loan) error {
	customer, err := s.repos.Customer.GetByID(ctx, customerID)
	if err != nil {
		return fmt.Errorf("failed to get customer: %w", err)
	}

	// Skip if email is empty
	if customer.Email == "" {
		return nil
	}

	subject := fmt.Sprintf("Loan Closed: %s", loan.LoanID)

	body := fmt.Sprintf(`
	<h2>Loan Foreclosure Confirmation</h2>
	<p>Dear %s,</p>

	<p>This is to confirm that your loan has been closed. All installments and
	charges have been settled in full.</p>

	<table style="border-collapse: collapse; width: 100%%;">
		<tr>
			<td style="padding: 8px; border: 1px solid #ddd;"><strong>Loan Reference:</strong></td>
			<td style="padding: 8px; border: 1px solid #ddd;">%s</td>
		</tr>
		<tr>
			<td style="padding: 8px; border: 1px solid #ddd;"><strong>Principal:</strong></td>
			<td style="padding: 8px; border: 1px solid #ddd;">%s</td>
		</tr>
		<tr>
			<td style="padding: 8px; border: 1px solid #ddd;"><strong>Status:</strong></td>
			<td style="padding: 8px; border: 1px solid #ddd;">%s</td>
		</tr>
	</table>

	<p>No further payments are due on this loan.</p>

	<p>Thank you for choosing our services.</p>

	<p>
	Best regards,<br>
	Loan Service Team
	</p>
	`,
		customer.Name,
		loan.LoanID,
		loan.Principal.StringFixed(2),
		loan.Status,
	)

	if err := s.sendEmail(customer.Email, subject, body); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Foreclosure notice email sent to %s for loan %d", customer.Email, loan.ID)

	return nil
}

// sendEmail sends an email using the SMTP server
func (s *EmailSvc) sendEmail(to, subject, body string) error {
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
