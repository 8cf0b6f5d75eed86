package webhook

import (
	"tarjousbot/pkg/forum"
	"tarjousbot/pkg/logger"
)

// Notifier delivers posts to one webhook URL as embeds
type Notifier struct {
	client *Client
	url    string
}

// NewNotifier creates a notifier bound to the given webhook URL
func NewNotifier(url string, log logger.Logger) *Notifier {
	return &Notifier{
		client: NewClient(log),
		url:    url,
	}
}

// Notify formats and delivers one post
func (n *Notifier) Notify(post forum.Post) error {
	payload := ExecutePayload{
		Embeds: []Embed{FormatPost(post)},
	}
	return n.client.Execute(n.url, payload)
}
