package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kokos-intake/internal/common/config"
)

func TestNewNotifier(t *testing.T) {
	ctx := context.Background()

	n, err := NewNotifier(ctx, config.NotificationConfig{Provider: config.ProviderResend})
	require.NoError(t, err)
	assert.Nil(t, n)

	cfg := config.NotificationConfig{Provider: config.ProviderResend, APIKey: "re_test", Timeout: 1000}
	cfg.Resend.BaseURL = "https://api.resend.com"
	n, err = NewNotifier(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &ResendNotifier{}, n)

	cfg.Provider = config.ProviderSMTP
	cfg.SMTP.Host = "smtp.resend.com"
	cfg.SMTP.Port = 587
	n, err = NewNotifier(ctx, cfg)
	require.NoError(t, err)
	require.IsType(t, &SMTPNotifier{}, n)
	assert.Equal(t, "re_test", n.(*SMTPNotifier).config.Password)

	cfg.Provider = config.ProviderSES
	cfg.AWS.Region = "eu-central-1"
	cfg.AWS.AccessKeyID = "AKIDEXAMPLE"
	cfg.AWS.SecretAccessKey = "secret"
	n, err = NewNotifier(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &SESNotifier{}, n)

	cfg.Provider = "pigeon"
	_, err = NewNotifier(ctx, cfg)
	assert.Error(t, err)
}

func TestNewPublisher(t *testing.T) {
	ctx := context.Background()

	p, err := NewPublisher(ctx, config.NotificationConfig{})
	require.NoError(t, err)
	assert.Nil(t, p)

	cfg := config.NotificationConfig{}
	cfg.AWS.Region = "eu-central-1"
	cfg.AWS.TopicARN = "arn:aws:sns:eu-central-1:123456789012:intakes"
	p, err = NewPublisher(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &SNSPublisher{}, p)
}
