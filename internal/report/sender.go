package report

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/gordonShanwey/automate-interior-ai-service/internal/config"
)

// Sender delivers a built message and returns a transport-level id
type Sender interface {
	Send(ctx context.Context, msg *Message) (string, error)
	Name() string
}

// GmailSender sends through the Gmail API with a stored refresh token
type GmailSender struct {
	service   *gmail.Service
	userEmail string
}

// NewGmailSender creates a Gmail API sender
func NewGmailSender(ctx context.Context, cfg config.GmailConfig) (*GmailSender, error) {
	oauth2Config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       []string{gmail.GmailSendScope},
		Endpoint:     google.Endpoint,
	}
	tokenSource := oauth2Config.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})

	service, err := gmail.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	userEmail := cfg.UserEmail
	if userEmail == "" {
		userEmail = "me"
	}
	return &GmailSender{service: service, userEmail: userEmail}, nil
}

func (s *GmailSender) Name() string { return config.TransportGmail }

// Send submits msg once; quota and transient errors are returned as is
func (s *GmailSender) Send(ctx context.Context, msg *Message) (string, error) {
	sent, err := s.service.Users.Messages.
		Send(s.userEmail, &gmail.Message{Raw: base64.URLEncoding.EncodeToString(msg.Raw)}).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("gmail send failed: %w", err)
	}
	return sent.Id, nil
}

// SMTPSender sends through an SMTP relay using STARTTLS and PLAIN auth
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	useTLS   bool
	timeout  time.Duration
}

// NewSMTPSender creates an SMTP sender from email settings
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		useTLS:   cfg.SMTPUseTLS,
		timeout:  cfg.Timeout,
	}
}

func (s *SMTPSender) Name() string { return config.TransportSMTP }

// Send runs one SMTP transaction for msg
func (s *SMTPSender) Send(ctx context.Context, msg *Message) (string, error) {
	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))

	dialer := &net.Dialer{Timeout: s.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return "", fmt.Errorf("failed to connect to %s: %w", addr, err)
	}

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	} else if s.timeout > 0 {
		conn.SetDeadline(time.Now().Add(s.timeout))
	}

	client := smtp.NewClient(conn)
	defer client.Close()

	if s.useTLS {
		if err := client.StartTLS(&tls.Config{ServerName: s.host}); err != nil {
			return "", fmt.Errorf("smtp starttls failed: %w", err)
		}
	}

	if s.username != "" {
		if err := client.Auth(sasl.NewPlainClient("", s.username, s.password)); err != nil {
			return "", fmt.Errorf("smtp auth failed: %w", err)
		}
	}

	if err := client.SendMail(msg.From.Address, msg.Recipients(), bytes.NewReader(msg.Raw)); err != nil {
		return "", fmt.Errorf("smtp delivery failed: %w", err)
	}

	if err := client.Quit(); err != nil {
		return "", fmt.Errorf("smtp QUIT failed: %w", err)
	}
	return msg.ID, nil
}
