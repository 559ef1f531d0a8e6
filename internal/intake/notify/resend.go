package notify

import (
	"context"
	"fmt"
	"strings"

	httpclient "kokos-intake/internal/common/http"
)

// ResendNotifier sends through the Resend HTTP API.
type ResendNotifier struct {
	client  *httpclient.Client
	baseURL string
	apiKey  string
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text,omitempty"`
}

func NewResendNotifier(client *httpclient.Client, baseURL, apiKey string) *ResendNotifier {
	return &ResendNotifier{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

// Send treats any 2xx as delivered; the response body is not inspected.
func (n *ResendNotifier) Send(ctx context.Context, msg Message) error {
	err := n.client.PostJSON(ctx, n.baseURL+"/emails",
		map[string]string{"Authorization": "Bearer " + n.apiKey},
		resendRequest{
			From:    msg.From,
			To:      []string{msg.To},
			Subject: msg.Subject,
			HTML:    msg.HTML,
			Text:    msg.Text,
		},
		nil,
	)
	if err != nil {
		return fmt.Errorf("resend send: %w", err)
	}
	return nil
}
