package webhook

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"tarjousbot/pkg/errors"
	"tarjousbot/pkg/logger"
)

// EmbedAuthor is the author block of an embed
type EmbedAuthor struct {
	Name    string `json:"name,omitempty"`
	URL     string `json:"url,omitempty"`
	IconURL string `json:"icon_url,omitempty"`
}

// Embed is one rich-content block of a webhook message
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	URL         string       `json:"url,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
	Color       int          `json:"color,omitempty"`
	Author      *EmbedAuthor `json:"author,omitempty"`
}

// ExecutePayload is the body POSTed to the webhook endpoint
type ExecutePayload struct {
	Content  string  `json:"content,omitempty"`
	Username string  `json:"username,omitempty"`
	Embeds   []Embed `json:"embeds,omitempty"`
}

const defaultTimeout = 30 * time.Second

// Client delivers webhook payloads
type Client struct {
	httpClient *http.Client
	logger     logger.Logger
}

// NewClient creates a new webhook client
func NewClient(log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: log,
	}
}

// Execute POSTs one payload to the webhook URL. Anything but a
// success-class response is a delivery failure; the caller decides
// whether to keep going.
func (c *Client) Execute(url string, payload ExecutePayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Newf(errors.ErrorTypeDelivery, "failed to encode payload: %v", err)
	}

	resp, err := c.httpClient.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		c.logger.WarnWithFields("webhook request failed", map[string]interface{}{
			"error": err.Error(),
		})
		return errors.Newf(errors.ErrorTypeDelivery, "webhook request failed: %v", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.WarnWithFields("webhook rejected payload", map[string]interface{}{
			"status": resp.StatusCode,
		})
		return errors.WithCode(errors.ErrorTypeDelivery, resp.StatusCode, "webhook rejected payload")
	}

	return nil
}
