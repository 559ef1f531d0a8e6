// Package aws resolves one SDK config per process and hands out the SES and
// SNS clients the notification layer needs.
package aws

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// Settings selects the region and, optionally, static credentials. Without
// static credentials the default provider chain is used.
type Settings struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

func (s Settings) static() bool {
	return s.AccessKeyID != "" && s.SecretAccessKey != ""
}

type Clients struct {
	cfg sdkaws.Config
}

// New loads the SDK config once. Individual service clients are cheap and
// built on demand.
func New(ctx context.Context, s Settings) (*Clients, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(s.Region)}
	if s.static() {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.AccessKeyID, s.SecretAccessKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config for %s: %w", s.Region, err)
	}
	return &Clients{cfg: cfg}, nil
}

func (c *Clients) Region() string { return c.cfg.Region }

// Credentials exposes the resolved provider, mostly for diagnostics.
func (c *Clients) Credentials() sdkaws.CredentialsProvider { return c.cfg.Credentials }

// SES returns a client for operator emails.
func (c *Clients) SES() *ses.Client { return ses.NewFromConfig(c.cfg) }

// SNS returns a client for submission events.
func (c *Clients) SNS() *sns.Client { return sns.NewFromConfig(c.cfg) }
