package notify

import (
	"regexp"

	gomail "gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// SMTPNotifier delivers mail over a plain SMTP dialer. A notifier with no
// host configured is valid and drops everything, so dev environments run
// without a mail relay.
type SMTPNotifier struct {
	cfg SMTPConfig
}

func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg}
}

var tagPattern = regexp.MustCompile("<[^>]*>")

func (n *SMTPNotifier) Send(msg Message) error {
	if n.cfg.Host == "" {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", msg.To)
	if msg.ReplyTo != "" {
		m.SetHeader("Reply-To", msg.ReplyTo)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", tagPattern.ReplaceAllString(msg.HTML, ""))
	m.AddAlternative("text/html", msg.HTML)

	d := gomail.NewDialer(n.cfg.Host, n.cfg.Port, n.cfg.User, n.cfg.Pass)
	return d.DialAndSend(m)
}
