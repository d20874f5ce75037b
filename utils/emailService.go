package utils

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/shuddl/quizlaw/config"
)

// Generic Send Email
func SendEmail(cfg *config.Config, to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := cfg.EmailSender
	password := cfg.Password

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: QuizLaw <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	// Debug Logs
	fmt.Printf("--- Sending Email ---\nTo: %v\nSubject: %s\nFrom: %s\n", to, subject, from)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		fmt.Println("Error sending email:", err)
		return err
	}
	fmt.Println("--- Email Sent Successfully ---")
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
			.header { background-color: #1F3A5F; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1F3A5F; line-height: 1.6; }
			.content h2 { color: #1F3A5F; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #B08D4A; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 20px; }
			.info-box { background: #EEF3F9; padding: 15px; border-radius: 4px; border-left: 4px solid #B08D4A; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>QUIZLAW</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 QuizLaw. All rights reserved.<br>
				Study material only. Nothing in this service is legal advice.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// 1. Welcome / Signup
func SendWelcomeEmail(cfg *config.Config, email, name string) {
	subject := "Welcome to QuizLaw"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Welcome to <strong>QuizLaw</strong>! We are thrilled to have you onboard.</p>
		<p>Your account has been successfully created. You can now start taking quizzes across every division of the code and track your progress.</p>
		<p>If you have any questions, feel free to reach out to our support team.</p>
	`, name)

	go SendEmail(cfg, []string{email}, subject, getEmailTemplate("Welcome Onboard!", body))
}

// 2. Premium Upgrade
func SendSubscriptionUpgradedEmail(cfg *config.Config, email, name string) {
	subject := "Your QuizLaw Premium is Active"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your account has been upgraded to <strong>Premium</strong>.</p>
		<p>Every answer you check now comes with a full explanation of why it is right or wrong, straight from the section text.</p>
		<div class="info-box">
			<strong>Tip:</strong> Try the law_student quiz mode to focus on bar-relevant sections.
		</div>
	`, name)

	fmt.Println("Triggering Premium upgrade email for:", email)
	go SendEmail(cfg, []string{email}, subject, getEmailTemplate("Premium Activated", body))
}
