package forum

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tarjousbot/pkg/config"
	"tarjousbot/pkg/errors"
	"tarjousbot/pkg/logger"
)

func newTestClient(serverURL string) *Client {
	return NewClient(&config.ForumConfig{
		Origin:     serverURL,
		ThreadPath: "/threads/151/",
		UserAgent:  "tarjousbot/test",
	}, logger.NewNopLogger())
}

func TestFetchPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/threads/151/page-3":
			fmt.Fprint(w, "<html>page three</html>")
		case "/threads/151/page-9":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	t.Run("Success", func(t *testing.T) {
		body, err := client.FetchPage(3)
		require.NoError(t, err)
		assert.Equal(t, "<html>page three</html>", body)
	})

	t.Run("NonSuccessStatusIsAFetchError", func(t *testing.T) {
		_, err := client.FetchPage(9)
		require.Error(t, err)
		assert.True(t, errors.IsFatal(err))

		var typed *errors.Error
		require.ErrorAs(t, err, &typed)
		assert.Equal(t, errors.ErrorTypeNetwork, typed.Type)
		assert.Equal(t, http.StatusNotFound, typed.Code)
	})
}

func TestFetchLatest(t *testing.T) {
	t.Run("ResolvesPageFromRedirect", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/threads/151/page-4294967295", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/threads/151/page-7", http.StatusFound)
		})
		mux.HandleFunc("/threads/151/page-7", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "<html>last page</html>")
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		body, page, err := newTestClient(server.URL).FetchLatest()
		require.NoError(t, err)
		assert.Equal(t, uint32(7), page)
		assert.Equal(t, "<html>last page</html>", body)
	})

	t.Run("UnexpectedRedirectShapeIsAScrapingError", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/threads/151/page-4294967295", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/threads/151/", http.StatusFound)
		})
		mux.HandleFunc("/threads/151/", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "<html>thread root</html>")
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		_, _, err := newTestClient(server.URL).FetchLatest()
		require.Error(t, err)

		var typed *errors.Error
		require.ErrorAs(t, err, &typed)
		assert.Equal(t, errors.ErrorTypeScraping, typed.Type)
	})

	t.Run("SendsConfiguredUserAgent", func(t *testing.T) {
		var gotUserAgent string
		mux := http.NewServeMux()
		mux.HandleFunc("/threads/151/page-4294967295", func(w http.ResponseWriter, r *http.Request) {
			gotUserAgent = r.UserAgent()
			http.Redirect(w, r, "/threads/151/page-2", http.StatusFound)
		})
		mux.HandleFunc("/threads/151/page-2", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "ok")
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		_, _, err := newTestClient(server.URL).FetchLatest()
		require.NoError(t, err)
		assert.Equal(t, "tarjousbot/test", gotUserAgent)
	})
}

func TestPageFromURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    uint32
		wantErr bool
	}{
		{"Plain", "https://bbs.example.fi/threads/151/page-12", 12, false},
		{"TrailingSlash", "https://bbs.example.fi/threads/151/page-12/", 12, false},
		{"NoPageSegment", "https://bbs.example.fi/threads/151/", 0, true},
		{"NonNumeric", "https://bbs.example.fi/threads/151/page-abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.url)
			require.NoError(t, err)

			page, err := pageFromURL(u)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, page)
		})
	}
}
