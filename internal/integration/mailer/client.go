package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Sender delivers already-rendered messages. The admission core never
// owns template rendering; it hands plain strings to this collaborator.
type Sender interface {
	Send(ctx context.Context, recipient, subject, body string) error
	SendBulk(ctx context.Context, recipients []string, subject, body string) error
}

type HTTPClient struct {
	baseURL     string
	internalKey string
	httpClient  *http.Client
}

func NewClient(baseURL, internalKey string, httpClient *http.Client) *HTTPClient {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPClient{
		baseURL:     trimmed,
		internalKey: strings.TrimSpace(internalKey),
		httpClient:  httpClient,
	}
}

type sendRequest struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

type sendBulkRequest struct {
	Recipients []string `json:"recipients"`
	Subject    string   `json:"subject"`
	Body       string   `json:"body"`
}

func (c *HTTPClient) Send(ctx context.Context, recipient, subject, body string) error {
	payload := sendRequest{Recipient: recipient, Subject: subject, Body: body}
	return c.post(ctx, "/mail/send", payload)
}

func (c *HTTPClient) SendBulk(ctx context.Context, recipients []string, subject, body string) error {
	if len(recipients) == 0 {
		return nil
	}
	payload := sendBulkRequest{Recipients: recipients, Subject: subject, Body: body}
	return c.post(ctx, "/mail/send-bulk", payload)
}

func (c *HTTPClient) post(ctx context.Context, path string, payload any) error {
	if c.baseURL == "" {
		return fmt.Errorf("mailer base url is not configured")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode mail request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.internalKey != "" {
		req.Header.Set("X-Internal-Key", c.internalKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send mail request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		payloadBytes, _ := io.ReadAll(resp.Body)
		message := strings.TrimSpace(string(payloadBytes))
		if message == "" {
			return fmt.Errorf("mail api error: status %d", resp.StatusCode)
		}
		return fmt.Errorf("mail api error: %s", message)
	}
	return nil
}
