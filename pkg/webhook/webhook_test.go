package webhook

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tarjousbot/pkg/errors"
	"tarjousbot/pkg/forum"
	"tarjousbot/pkg/logger"
)

func TestExecute(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var gotBody []byte
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotBody, _ = io.ReadAll(r.Body)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		client := NewClient(logger.NewNopLogger())
		payload := ExecutePayload{
			Embeds: []Embed{{
				Title:       "Widget",
				Description: "kuvaus",
				Timestamp:   "2024-05-01T12:00:00+0300",
				Author:      &EmbedAuthor{Name: "Matti", URL: "https://bbs.example.fi/members/matti.1/"},
			}},
		}

		require.NoError(t, client.Execute(server.URL, payload))

		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(gotBody, &decoded))
		embeds, ok := decoded["embeds"].([]interface{})
		require.True(t, ok)
		require.Len(t, embeds, 1)

		embed := embeds[0].(map[string]interface{})
		assert.Equal(t, "Widget", embed["title"])
		assert.Equal(t, "kuvaus", embed["description"])

		author := embed["author"].(map[string]interface{})
		assert.Equal(t, "Matti", author["name"])
		// Absent avatar must be omitted from the wire payload entirely
		_, hasIcon := author["icon_url"]
		assert.False(t, hasIcon)
	})

	t.Run("NonSuccessStatusIsADeliveryFailure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		err := NewClient(logger.NewNopLogger()).Execute(server.URL, ExecutePayload{})
		require.Error(t, err)
		assert.True(t, errors.IsDelivery(err))
		assert.False(t, errors.IsFatal(err))
	})

	t.Run("UnreachableSinkIsADeliveryFailure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close() // connection refused from here on

		err := NewClient(logger.NewNopLogger()).Execute(server.URL, ExecutePayload{})
		require.Error(t, err)
		assert.True(t, errors.IsDelivery(err))
	})
}

func TestNotifier(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	notifier := NewNotifier(server.URL, logger.NewNopLogger())
	err := notifier.Notify(forum.Post{ID: 8, Title: "Widget", Content: "x", AuthorName: "Matti"})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
