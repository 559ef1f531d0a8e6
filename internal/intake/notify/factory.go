package notify

import (
	"context"
	"fmt"
	"time"

	awsclient "kokos-intake/internal/common/aws"
	"kokos-intake/internal/common/config"
	httpclient "kokos-intake/internal/common/http"
)

func awsSettings(cfg config.NotificationConfig) awsclient.Settings {
	return awsclient.Settings{
		Region:          cfg.AWS.Region,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
	}
}

// NewNotifier builds the notifier for the configured provider. It returns
// nil when no provider key is set; the gateway then skips the email.
func NewNotifier(ctx context.Context, cfg config.NotificationConfig) (Notifier, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}

	switch cfg.Provider {
	case config.ProviderResend, "":
		timeout := time.Duration(cfg.Timeout) * time.Millisecond
		return NewResendNotifier(httpclient.NewClient(timeout), cfg.Resend.BaseURL, cfg.APIKey), nil
	case config.ProviderSMTP:
		return NewSMTPNotifier(SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.APIKey,
			UseTLS:   cfg.SMTP.UseTLS,
		}), nil
	case config.ProviderSES:
		clients, err := awsclient.New(ctx, awsSettings(cfg))
		if err != nil {
			return nil, err
		}
		return NewSESNotifier(clients.SES()), nil
	default:
		return nil, fmt.Errorf("unknown notification provider %q", cfg.Provider)
	}
}

// NewPublisher returns nil when no topic is configured.
func NewPublisher(ctx context.Context, cfg config.NotificationConfig) (Publisher, error) {
	if cfg.AWS.TopicARN == "" {
		return nil, nil
	}
	clients, err := awsclient.New(ctx, awsSettings(cfg))
	if err != nil {
		return nil, err
	}
	return NewSNSPublisher(clients.SNS(), cfg.AWS.TopicARN), nil
}
