package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"svault/config"
)

// SendEmail delivers an HTML email through Sendgrid when an API key is
// configured, otherwise over plain SMTP. Callers that must not block on
// delivery dispatch it with `go SendEmail(...)`; failures are logged,
// not retried.
func SendEmail(to []string, subject string, htmlBody string) error {
	if config.AppConfig.SendgridAPIKey != "" {
		return sendViaSendgrid(to, subject, htmlBody)
	}
	return sendViaSMTP(to, subject, htmlBody)
}

func sendViaSendgrid(to []string, subject string, htmlBody string) error {
	from := sgmail.NewEmail("SVault", config.AppConfig.EmailSender)
	client := sendgrid.NewSendClient(config.AppConfig.SendgridAPIKey)

	for _, recipient := range to {
		message := sgmail.NewSingleEmail(from, subject, sgmail.NewEmail("", recipient), "", htmlBody)
		resp, err := client.Send(message)
		if err != nil {
			log.Printf("Error sending email to %s: %v", recipient, err)
			return err
		}
		if resp.StatusCode >= 400 {
			log.Printf("Sendgrid rejected email to %s: status %d", recipient, resp.StatusCode)
			return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
		}
	}
	return nil
}

func sendViaSMTP(to []string, subject string, htmlBody string) error {
	smtpHost := config.AppConfig.SMTPHost
	smtpPort := config.AppConfig.SMTPPort

	from := config.AppConfig.EmailSender
	password := config.AppConfig.SMTPPassword

	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: SVault <%s>\r\n", from)
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

// HTML wrapper shared by all outgoing mail
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1A1A2E; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1A1A2E; line-height: 1.6; }
			.content h2 { color: #1A1A2E; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #4C7EF3; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 20px; }
			.code { text-align: center; color: #4C7EF3; font-size: 40px; letter-spacing: 6px; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>SVAULT</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				This is an automated message. Please do not reply.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// SendOTPEmail delivers a one-time code. Fire-and-forget.
func SendOTPEmail(email, code string) {
	subject := "Your OTP Code"
	body := fmt.Sprintf(`
		<p>Your One Time Password (OTP) is:</p>
		<h1 class="code">%s</h1>
		<p>The code is valid for %d minutes. Do not share it with anyone.</p>
	`, code, config.AppConfig.OTPExpiryMinutes)

	go SendEmail([]string{email}, subject, getEmailTemplate("Verification Code", body))
}

// SendPasswordResetEmail delivers the reset link. Fire-and-forget.
func SendPasswordResetEmail(email, resetLink string) {
	subject := "Password Reset Request"
	body := fmt.Sprintf(`
		<p>We received a request to reset the password for your account.</p>
		<p>Click the button below to choose a new password. The link expires in %d minutes.</p>
		<a href="%s" class="btn">Reset Password</a>
		<p>If you did not request this, you can safely ignore this email.</p>
	`, config.AppConfig.ResetTokenMinutes, resetLink)

	go SendEmail([]string{email}, subject, getEmailTemplate("Reset Your Password", body))
}

// SendWelcomeEmail notifies an admin-created account of its temporary password.
func SendWelcomeEmail(email, password string) {
	subject := "Your SVault Account"
	body := fmt.Sprintf(`
		<p>An account has been created for you.</p>
		<p>Your temporary password is:</p>
		<h1 class="code">%s</h1>
		<p>Please log in and change it as soon as possible.</p>
	`, password)

	go SendEmail([]string{email}, subject, getEmailTemplate("Welcome to SVault", body))
}
