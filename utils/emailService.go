package utils

import (
	"elearn/config"
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEmail delivers an HTML email through SendGrid when an API key is
// configured, falling back to plain SMTP otherwise.
func SendEmail(to []string, subject string, htmlBody string) error {
	if config.AppConfig.SendGridAPIKey != "" {
		return sendViaSendGrid(to, subject, htmlBody)
	}
	return sendViaSMTP(to, subject, htmlBody)
}

func sendViaSendGrid(to []string, subject string, htmlBody string) error {
	from := mail.NewEmail("E-Learning", config.AppConfig.EmailSender)
	client := sendgrid.NewSendClient(config.AppConfig.SendGridAPIKey)

	for _, rcpt := range to {
		message := mail.NewSingleEmail(from, subject, mail.NewEmail("", rcpt), "", htmlBody)
		resp, err := client.Send(message)
		if err != nil {
			log.Printf("Error sending email via SendGrid: %v", err)
			return err
		}
		if resp.StatusCode >= 400 {
			log.Printf("SendGrid rejected email: %d %s", resp.StatusCode, resp.Body)
			return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
		}
	}
	return nil
}

func sendViaSMTP(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: E-Learning <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	if err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg)); err != nil {
		log.Printf("Error sending email: %v", err)
		return err
	}
	return nil
}

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: Arial, sans-serif; background-color: #F4F4F4; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 2px 8px rgba(0,0,0,0.1); }
			.header { background-color: #1A237E; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #333333; line-height: 1.6; }
			.content h2 { color: #1A237E; margin-top: 0; }
			.footer { background-color: #F4F4F4; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.otp { text-align: center; color: #4CAF50; font-size: 40px; margin: 20px 0; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #2196F3; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>E-LEARNING</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 E-Learning. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// SendOTPEmail delivers the registration / password-reset verification code
func SendOTPEmail(otp, email string) error {
	subject := "OTP Verification Code for E-Learning"
	body := fmt.Sprintf(`
		<p style="text-align: center;">Your One Time Password (OTP) is:</p>
		<h1 class="otp">%s</h1>
		<p style="text-align: center; font-size: 14px; color: #999999;">The code expires in 5 minutes. Do not share it with anyone.</p>
	`, otp)

	return SendEmail([]string{email}, subject, getEmailTemplate("Verify Your Email", body))
}

// SendWelcomeEmail greets a freshly verified user
func SendWelcomeEmail(email, name string) {
	subject := "Welcome to E-Learning"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Welcome to <strong>E-Learning</strong>! Your account has been verified successfully.</p>
		<p>Browse our courses and start learning today.</p>
	`, name)

	go SendEmail([]string{email}, subject, getEmailTemplate("Welcome Onboard!", body))
}

// SendEnrollmentEmail notifies a user that course access has been granted
func SendEnrollmentEmail(email, userName, courseName string) {
	subject := "Course Enrollment Confirmation - E-Learning"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations! You have successfully enrolled in:</p>
		<h3 style="text-align: center; color: #4CAF50; margin: 20px 0;">%s</h3>
		<p>You can now access all the lectures and start learning.</p>
		<p style="text-align: center; font-size: 14px; color: #999999; margin-top: 30px;">Happy Learning!</p>
	`, userName, courseName)

	go SendEmail([]string{email}, subject, getEmailTemplate("Enrollment Successful!", body))
}

// SendPaymentReceiptEmail confirms a completed course purchase
func SendPaymentReceiptEmail(email, userName, courseName string, amountCents int64) {
	subject := "Payment Receipt - E-Learning"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>We have received your payment of <strong>$%.2f</strong> for <strong>%s</strong>.</p>
		<div class="info-box">
			Your enrollment is confirmed. The course is available in your dashboard.
		</div>
	`, userName, CentsToDollars(amountCents), courseName)

	go SendEmail([]string{email}, subject, getEmailTemplate("Payment Confirmed", body))
}
