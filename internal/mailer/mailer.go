package mailer

import (
    "log"

    gomail "gopkg.in/gomail.v2"
)

// Mailer sends notification emails over SMTP. A Mailer without a host is
// disabled and drops messages with a log line instead of failing callers;
// permit issuance must not depend on a mail server being up.
type Mailer struct {
    host     string
    port     int
    username string
    password string
    from     string
    fromName string
}

func New(host string, port int, username, password, from, fromName string) *Mailer {
    return &Mailer{
        host:     host,
        port:     port,
        username: username,
        password: password,
        from:     from,
        fromName: fromName,
    }
}

func (m *Mailer) Enabled() bool {
    return m != nil && m.host != ""
}

// Send delivers a message with a plain-text body and an optional HTML
// alternative.
func (m *Mailer) Send(to, subject, text, html string) error {
    if !m.Enabled() {
        log.Printf("mailer disabled, dropping %q to %s", subject, to)
        return nil
    }

    msg := gomail.NewMessage()
    msg.SetAddressHeader("From", m.from, m.fromName)
    msg.SetHeader("To", to)
    msg.SetHeader("Subject", subject)
    msg.SetBody("text/plain", text)
    if html != "" {
        msg.AddAlternative("text/html", html)
    }

    d := gomail.NewDialer(m.host, m.port, m.username, m.password)
    return d.DialAndSend(msg)
}
