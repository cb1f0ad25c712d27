package mailer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"college-erp/config"
)

// Message is a plain text mail to one recipient.
type Message struct {
	ToName  string
	ToEmail string
	Subject string
	Text    string
}

// Mailer delivers transactional mail such as OTP codes.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New picks the provider named in the config.
func New(cfg *config.MailConfig, logger *zap.Logger) Mailer {
	if cfg.Provider == "sendgrid" {
		return NewSendgrid(cfg.SendgridKey, cfg.FromName, cfg.FromEmail, logger)
	}
	return NewConsole(logger)
}

// ── console ──

// Console logs mail instead of sending it; used in development.
type Console struct {
	logger *zap.Logger
}

func NewConsole(logger *zap.Logger) *Console {
	return &Console{logger: logger}
}

func (c *Console) Send(_ context.Context, msg Message) error {
	c.logger.Info("mail (console)",
		zap.String("to", msg.ToEmail),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Text),
	)
	return nil
}

// ── sendgrid ──

var (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// Sendgrid sends through the SendGrid v3 API.
type Sendgrid struct {
	key        string
	from       *sgmail.Email
	subjPrefix string
	logger     *zap.Logger
}

func NewSendgrid(key, appName, fromEmail string, logger *zap.Logger) *Sendgrid {
	return &Sendgrid{
		key:        key,
		from:       sgmail.NewEmail(appName, fromEmail),
		subjPrefix: "[" + appName + "] ",
		logger:     logger,
	}
}

func (s *Sendgrid) prepare(msg Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = s.subjPrefix + msg.Subject
	p.AddTos(sgmail.NewEmail(msg.ToName, msg.ToEmail))

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", msg.Text))
	return m
}

func (s *Sendgrid) Send(ctx context.Context, msg Message) error {
	req := sendgrid.GetRequest(s.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(s.prepare(msg))

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		s.logger.Error("sendgrid rejected mail",
			zap.Int("status", res.StatusCode),
			zap.String("body", res.Body),
		)
		return fmt.Errorf("sendgrid: status %d", res.StatusCode)
	}
	return nil
}
