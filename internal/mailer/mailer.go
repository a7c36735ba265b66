// Package mailer sends prediction reports by email through Amazon SES.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/abhisek/gradepath/internal/logging"
)

// Message is a plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
	Enabled() bool
}

// Config configures SES delivery. An empty From disables sending.
type Config struct {
	Region   string `koanf:"region"`
	From     string `koanf:"from"`
	FromName string `koanf:"from_name"`
}

func DefaultConfig() Config {
	return Config{Region: "us-east-1", FromName: "GradePath"}
}

// ErrInvalidRecipient is returned for an empty or malformed To address.
var ErrInvalidRecipient = errors.New("invalid recipient address")

// sesClient is the subset of *sesv2.Client used here.
type sesClient interface {
	SendEmail(ctx context.Context, in *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SES sends through Amazon SES v2.
type SES struct {
	client  sesClient
	cfg     Config
	enabled bool
}

// NewSES loads the default AWS configuration for cfg.Region. With no From
// address it returns a disabled sender without touching AWS.
func NewSES(ctx context.Context, cfg Config) (*SES, error) {
	if cfg.From == "" {
		logging.Debug().Msg("mailer disabled: no from address configured")
		return &SES{cfg: cfg}, nil
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	logging.Info().Str("from", cfg.From).Str("region", cfg.Region).Msg("mailer enabled")
	return newSES(sesv2.NewFromConfig(awsCfg), cfg), nil
}

func newSES(client sesClient, cfg Config) *SES {
	return &SES{client: client, cfg: cfg, enabled: true}
}

func (s *SES) Enabled() bool { return s.enabled }

// Send delivers msg. On a disabled sender it logs and returns nil.
func (s *SES) Send(ctx context.Context, msg Message) error {
	if _, err := mail.ParseAddress(msg.To); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidRecipient, msg.To)
	}

	if !s.enabled {
		logging.Info().Str("to", msg.To).Msg("skipping email send (mailer disabled)")
		return nil
	}

	from := s.cfg.From
	if s.cfg.FromName != "" {
		from = (&mail.Address{Name: s.cfg.FromName, Address: s.cfg.From}).String()
	}

	in := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(msg.Body), Charset: aws.String("UTF-8")},
				},
			},
		},
	}

	out, err := s.client.SendEmail(ctx, in)
	if err != nil {
		return fmt.Errorf("send email to %s: %w", msg.To, err)
	}

	ev := logging.Info().Str("to", msg.To).Str("subject", msg.Subject)
	if out != nil && out.MessageId != nil {
		ev = ev.Str("message_id", *out.MessageId)
	}
	ev.Msg("email sent")
	return nil
}
