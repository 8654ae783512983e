// Package graph is a minimal Microsoft Graph mail client covering the two
// operations fee letters need: creating a draft in the shared mailbox and
// sending directly from it.
package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// DefaultBaseURL is the production Graph endpoint.
const DefaultBaseURL = "https://graph.microsoft.com/v1.0"

// TokenFunc supplies a bearer token per request, so rotated tokens take
// effect without restarting.
type TokenFunc func(ctx context.Context) (string, error)

// Client defines the interface for delivering fee letters through Graph.
// This interface enables dependency injection and testing with mock
// implementations.
type Client interface {
	CreateDraft(ctx context.Context, msg Message) (Delivery, error)
	Send(ctx context.Context, msg Message) (Delivery, error)
}

// MailClient talks to the Graph API for one shared mailbox.
type MailClient struct {
	httpClient *http.Client
	baseURL    string
	mailbox    string
	token      TokenFunc
}

// NewMailClient creates a Graph mail client for the given mailbox. An empty
// baseURL uses the production endpoint.
func NewMailClient(baseURL, mailbox string, token TokenFunc) *MailClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &MailClient{
		httpClient: &http.Client{},
		baseURL:    baseURL,
		mailbox:    mailbox,
		token:      token,
	}
}

// CreateDraft stores the message as a draft in the mailbox and returns the
// draft's message ID.
func (c *MailClient) CreateDraft(ctx context.Context, msg Message) (Delivery, error) {
	endpoint := fmt.Sprintf("%s/users/%s/messages", c.baseURL, url.PathEscape(c.mailbox))

	body, err := c.post(ctx, endpoint, c.payload(msg), http.StatusCreated)
	if err != nil {
		return Delivery{}, err
	}

	var draft draftResponse
	if err := json.Unmarshal(body, &draft); err != nil {
		return Delivery{}, fmt.Errorf("failed to decode draft response: %w", err)
	}
	return Delivery{MessageID: draft.ID, Mode: ModeDraft}, nil
}

// Send delivers the message immediately, saving a copy to sent items.
func (c *MailClient) Send(ctx context.Context, msg Message) (Delivery, error) {
	endpoint := fmt.Sprintf("%s/users/%s/sendMail", c.baseURL, url.PathEscape(c.mailbox))

	payload := sendPayload{Message: c.payload(msg), SaveToSentItems: true}
	if _, err := c.post(ctx, endpoint, payload, http.StatusAccepted); err != nil {
		return Delivery{}, err
	}
	return Delivery{Mode: ModeSent}, nil
}

func (c *MailClient) payload(msg Message) messagePayload {
	return messagePayload{
		Subject: msg.Subject,
		Body:    bodyPayload{ContentType: "Text", Content: msg.Body},
		ToRecipients: []recipient{
			{EmailAddress: emailAddress{Address: msg.To}},
		},
		From: &recipient{EmailAddress: emailAddress{Address: c.mailbox}},
	}
}

func (c *MailClient) post(ctx context.Context, endpoint string, payload any, wantStatus int) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}

	token, err := c.token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain mail token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != wantStatus {
		var graphErr apiError
		if err := json.Unmarshal(data, &graphErr); err == nil && graphErr.Error.Code != "" {
			return nil, fmt.Errorf("graph error %s: %s", graphErr.Error.Code, graphErr.Error.Message)
		}
		return nil, fmt.Errorf("graph returned status %d", resp.StatusCode)
	}

	return data, nil
}
