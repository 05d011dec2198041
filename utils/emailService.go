package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"sip/config"
	"strings"
)

// SendEmail sends an HTML email through the configured SMTP account
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	if from == "" || password == "" {
		return fmt.Errorf("email sender not configured")
	}

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: School Journal <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	if err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg)); err != nil {
		log.Printf("[EMAIL] Error sending email: %v", err)
		return err
	}
	return nil
}

// SendGradeNotification notifies a student that their submission was graded.
// Best effort: failures are logged, the grading operation never depends on it.
func SendGradeNotification(email, assignmentTitle string, grade5 int, comment string) {
	if email == "" {
		return
	}
	body := fmt.Sprintf(
		`<p>Your submission for <b>%s</b> was graded.</p><p>Grade: <b>%d</b></p>`,
		assignmentTitle, grade5,
	)
	if comment != "" {
		body += fmt.Sprintf("<p>Teacher comment: %s</p>", comment)
	}
	if err := SendEmail([]string{email}, "Submission graded: "+assignmentTitle, body); err != nil {
		log.Printf("[EMAIL] Grade notification to %s failed: %v", email, err)
	}
}
