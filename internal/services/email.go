package services

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

type EmailService struct {
	host      string
	port      string
	user      string
	pass      string
	from      string
	clientURL string
	devMode   bool
}

func NewEmailService(host, port, user, pass, from, clientURL string) *EmailService {
	devMode := host == "" || user == ""
	if devMode {
		log.Println("⚠ Email service running in DEV MODE (logging to console)")
	}
	return &EmailService{
		host:      host,
		port:      port,
		user:      user,
		pass:      pass,
		from:      from,
		clientURL: clientURL,
		devMode:   devMode,
	}
}

func (s *EmailService) SendWelcomeEmail(to, name string) error {
	subject := "¡Bienvenido a Esencia Fest!"
	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: 'Segoe UI', Arial, sans-serif; margin: 0; padding: 0; background-color: #f8fafc;">
  <div style="max-width: 480px; margin: 40px auto; background: white; border-radius: 12px; box-shadow: 0 4px 24px rgba(0,0,0,0.08); overflow: hidden;">
    <div style="background: linear-gradient(135deg, #b45309 0%%, #d97706 100%%); padding: 32px; text-align: center;">
      <h1 style="color: white; margin: 0; font-size: 24px; font-weight: 700;">Esencia Fest</h1>
    </div>
    <div style="padding: 32px;">
      <h2 style="margin: 0 0 16px; font-size: 20px; color: #1e293b;">¡Hola %s!</h2>
      <p style="color: #64748b; font-size: 14px; line-height: 1.6; margin: 0 0 24px;">
        Tu registro quedó listo. Ingresa con tu correo y recorre las salas del evento.
      </p>
      <a href="%s" style="display: inline-block; background: #d97706; color: white; text-decoration: none; padding: 12px 32px; border-radius: 8px; font-weight: 600; font-size: 14px;">
        Entrar al evento
      </a>
    </div>
  </div>
</body>
</html>`, name, s.clientURL)

	return s.sendHTML(to, subject, body)
}

func (s *EmailService) sendHTML(to, subject, body string) error {
	if s.devMode {
		log.Printf("📧 [DEV] Email to %s: %s", to, subject)
		return nil
	}

	headers := []string{
		fmt.Sprintf("From: %s", s.from),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
	}
	msg := strings.Join(headers, "\r\n") + "\r\n\r\n" + body

	auth := smtp.PlainAuth("", s.user, s.pass, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)

	if err := smtp.SendMail(addr, auth, s.from, []string{to}, []byte(msg)); err != nil {
		log.Printf("Failed to send email to %s: %v", to, err)
		return err
	}

	return nil
}
