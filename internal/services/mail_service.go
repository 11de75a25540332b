package services

import (
	"bytes"
	"fmt"
	"net/smtp"
	"strings"
	"text/template"
)

type MailService interface {
	SendPaymentFailureNotice(to, name string, failCount int) error
	SendSubscriptionExpiredNotice(to, name string) error
	SendVerificationCode(to, code string) error
}

// SMTPConfig holds SMTP + branding config.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string

	AppName string
}

type smtpMailService struct {
	cfg SMTPConfig
	tpl *template.Template
}

const noticeTemplate = `Hello {{.Name}},

{{.Body}}

-- {{.AppName}}
`

func NewSMTPMailService(cfg SMTPConfig) MailService {
	return &smtpMailService{
		cfg: cfg,
		tpl: template.Must(template.New("notice").Parse(noticeTemplate)),
	}
}

func (s *smtpMailService) SendPaymentFailureNotice(to, name string, failCount int) error {
	body := fmt.Sprintf(
		"Your subscription payment has failed %d times in a row and automatic billing has been paused. Please update your payment method to resume your membership.",
		failCount)
	return s.send(to, "Subscription payment failed", name, body)
}

func (s *smtpMailService) SendSubscriptionExpiredNotice(to, name string) error {
	body := "Your subscription has expired because no usable payment method was found. Register a new card to continue."
	return s.send(to, "Subscription expired", name, body)
}

func (s *smtpMailService) SendVerificationCode(to, code string) error {
	body := fmt.Sprintf("Your verification code is %s. It expires in 5 minutes.", code)
	return s.send(to, "Email verification code", "there", body)
}

func (s *smtpMailService) send(to, subject, name, body string) error {
	var buf bytes.Buffer
	err := s.tpl.Execute(&buf, map[string]string{
		"Name":    name,
		"Body":    body,
		"AppName": s.cfg.AppName,
	})
	if err != nil {
		return err
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", s.cfg.FromName, s.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n")
	msg.WriteString(buf.String())

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg.String()))
}
