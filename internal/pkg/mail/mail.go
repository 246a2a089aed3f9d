package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
	"time"

	"github.com/aerovista/core/internal/config"
)

// Message is a single email to send.
type Message struct {
	To      []string
	Subject string
	HTML    string
}

// Sender sends emails via SMTP.
type Sender struct {
	cfg config.MailConfig
}

func New(cfg config.MailConfig) *Sender {
	return &Sender{cfg: cfg}
}

// Send dispatches an email. A disabled sender is a silent no-op so callers
// never need to special-case environments without SMTP credentials.
func (s *Sender) Send(msg Message) error {
	if !s.cfg.Enable {
		return nil
	}

	host := s.cfg.Host
	port := s.cfg.Port
	if port == 0 {
		port = 587
	}
	addr := fmt.Sprintf("%s:%d", host, port)

	from := s.cfg.From
	if from == "" {
		from = s.cfg.User
	}

	var body bytes.Buffer
	body.WriteString("MIME-Version: 1.0\r\n")
	body.WriteString(fmt.Sprintf("From: %s\r\n", from))
	body.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(msg.To, ", ")))
	body.WriteString(fmt.Sprintf("Subject: %s\r\n", msg.Subject))
	body.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	if s.cfg.ReplyTo != "" {
		body.WriteString(fmt.Sprintf("Reply-To: %s\r\n", s.cfg.ReplyTo))
	}
	body.WriteString("\r\n")
	body.WriteString(msg.HTML)

	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, host)
	return smtp.SendMail(addr, auth, from, msg.To, body.Bytes())
}

const subscribeVerifyTpl = `<!DOCTYPE html>
<html>
<body style="font-family:sans-serif;background:#f5f5f5;padding:20px">
<div style="max-width:600px;margin:0 auto;background:#fff;border-radius:8px;padding:24px">
  <h2 style="color:#333">Confirm your subscription</h2>
  <p>Thanks for subscribing to the {{.SiteName}} newsletter. Click the button below to confirm your email address:</p>
  <p style="margin-top:24px">
    <a href="{{.VerifyURL}}" style="background:#0ea5e9;color:#fff;padding:8px 16px;text-decoration:none;border-radius:4px">Confirm subscription</a>
  </p>
  <p style="color:#999;font-size:12px">If you did not request this, you can safely ignore this email.</p>
</div>
</body>
</html>`

const quotationReceiptTpl = `<!DOCTYPE html>
<html>
<body style="font-family:sans-serif;background:#f5f5f5;padding:20px">
<div style="max-width:600px;margin:0 auto;background:#fff;border-radius:8px;padding:24px">
  <h2 style="color:#333">We received your quote request</h2>
  <p>Hi {{.Name}},</p>
  <p>Thanks for reaching out to {{.SiteName}}. Your request for <strong>{{.ServiceType}}</strong> is in our queue and a member of our flight team will get back to you within one business day.</p>
  <table style="width:100%;background:#f3f4f6;border-radius:8px;padding:12px;margin:16px 0">
    <tr><td style="font-size:13px;color:#333;padding:12px">{{.Details}}</td></tr>
  </table>
  <p style="color:#999;font-size:12px">This is an automated message; replies go straight to our inbox.<br/>&copy; {{year}} {{.SiteName}}</p>
</div>
</body>
</html>`

const contactNotifyTpl = `<!DOCTYPE html>
<html>
<body style="font-family:sans-serif;background:#f5f5f5;padding:20px">
<div style="max-width:600px;margin:0 auto;background:#fff;border-radius:8px;padding:24px">
  <h2 style="color:#333">New contact message</h2>
  <p><strong>{{.Name}}</strong> &lt;{{.Email}}&gt;{{if .Phone}} &middot; {{.Phone}}{{end}}</p>
  <table style="width:100%;background:#f3f4f6;border-radius:8px;padding:12px;margin:16px 0">
    <tr><td style="font-size:13px;color:#333;padding:12px">{{.Message}}</td></tr>
  </table>
  <p style="color:#999;font-size:12px">Sent from the {{.SiteName}} website contact form.</p>
</div>
</body>
</html>`

// SubscribeVerifyData is the data for subscription verification emails.
type SubscribeVerifyData struct {
	SiteName  string
	VerifyURL string
}

// QuotationReceiptData is the data for quote-request receipt emails.
type QuotationReceiptData struct {
	SiteName    string
	Name        string
	ServiceType string
	Details     string
}

// ContactNotifyData is the data for contact-form notification emails.
type ContactNotifyData struct {
	SiteName string
	Name     string
	Email    string
	Phone    string
	Message  string
}

func renderTemplate(tpl string, data interface{}) (string, error) {
	t, err := template.New("").Funcs(template.FuncMap{
		"year": func() int {
			return time.Now().Year()
		},
	}).Parse(tpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SendSubscribeVerify sends a double-opt-in verification email.
func (s *Sender) SendSubscribeVerify(to string, data SubscribeVerifyData) error {
	if strings.TrimSpace(data.SiteName) == "" {
		data.SiteName = "AeroVista"
	}
	html, err := renderTemplate(subscribeVerifyTpl, data)
	if err != nil {
		return err
	}
	return s.Send(Message{
		To:      []string{to},
		Subject: fmt.Sprintf("[%s] Please confirm your subscription", data.SiteName),
		HTML:    html,
	})
}

// SendQuotationReceipt confirms a quote request to the visitor.
func (s *Sender) SendQuotationReceipt(to string, data QuotationReceiptData) error {
	if strings.TrimSpace(data.SiteName) == "" {
		data.SiteName = "AeroVista"
	}
	html, err := renderTemplate(quotationReceiptTpl, data)
	if err != nil {
		return err
	}
	return s.Send(Message{
		To:      []string{to},
		Subject: fmt.Sprintf("[%s] We received your quote request", data.SiteName),
		HTML:    html,
	})
}

// SendContactNotify forwards a contact-form message to the site inbox.
func (s *Sender) SendContactNotify(to string, data ContactNotifyData) error {
	if strings.TrimSpace(data.SiteName) == "" {
		data.SiteName = "AeroVista"
	}
	html, err := renderTemplate(contactNotifyTpl, data)
	if err != nil {
		return err
	}
	return s.Send(Message{
		To:      []string{to},
		Subject: fmt.Sprintf("[%s] New contact message from %s", data.SiteName, data.Name),
		HTML:    html,
	})
}
