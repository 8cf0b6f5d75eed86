package forum

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tarjousbot/pkg/config"
	"tarjousbot/pkg/errors"
	"tarjousbot/pkg/logger"
)

// latestPageSentinel is the page number requested when the last page is
// unknown. The forum clamps an out-of-range page to the thread's latest
// page via a redirect, and the concrete number is recovered from the
// final URL. The sentinel never leaves this package.
const latestPageSentinel = math.MaxUint32

const defaultTimeout = 30 * time.Second

// Client fetches thread pages over HTTP
type Client struct {
	httpClient *http.Client
	origin     string
	threadPath string
	userAgent  string
	logger     logger.Logger
}

// NewClient creates a new thread page client
func NewClient(cfg *config.ForumConfig, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		origin:     cfg.Origin,
		threadPath: cfg.ThreadPath,
		userAgent:  cfg.UserAgent,
		logger:     log,
	}
}

// pageURL builds the retrieval URL for a page number
func (c *Client) pageURL(page uint32) string {
	return fmt.Sprintf("%s%spage-%d", c.origin, c.threadPath, page)
}

// FetchPage retrieves the given thread page and returns its raw content
func (c *Client) FetchPage(page uint32) (string, error) {
	body, _, err := c.fetch(c.pageURL(page))
	return body, err
}

// FetchLatest retrieves the thread's latest page and returns its raw
// content together with the concrete page number the server resolved
// the request to.
func (c *Client) FetchLatest() (string, uint32, error) {
	body, finalURL, err := c.fetch(c.pageURL(latestPageSentinel))
	if err != nil {
		return "", 0, err
	}

	page, err := pageFromURL(finalURL)
	if err != nil {
		return "", 0, err
	}

	c.logger.InfoWithFields("resolved latest page", map[string]interface{}{
		"page": page,
	})

	return body, page, nil
}

// fetch issues one GET and returns the body and the final URL after
// redirects. Any non-success status aborts the run.
func (c *Client) fetch(pageURL string) (string, *url.URL, error) {
	req, err := http.NewRequest(http.MethodGet, pageURL, nil)
	if err != nil {
		return "", nil, errors.Newf(errors.ErrorTypeNetwork, "failed to create request: %v", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	c.logger.DebugWithFields("fetching page", map[string]interface{}{
		"url": pageURL,
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", nil, errors.Newf(errors.ErrorTypeNetwork, "request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.ErrorWithFields("page fetch returned non-success status", map[string]interface{}{
			"url":    pageURL,
			"status": resp.StatusCode,
		})
		return "", nil, errors.WithCode(errors.ErrorTypeNetwork, resp.StatusCode, "page fetch failed")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, errors.Newf(errors.ErrorTypeNetwork, "failed to read page body: %v", err)
	}

	c.logger.DebugWithFields("page fetched", map[string]interface{}{
		"url":      resp.Request.URL.String(),
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	})

	// Request.URL reflects the final location after redirects
	return string(body), resp.Request.URL, nil
}

// pageFromURL recovers the concrete page number from a resolved page
// URL's trailing path segment of the form "page-<digits>". A location
// that does not match is a scraping error, not a transport error.
func pageFromURL(u *url.URL) (uint32, error) {
	path := strings.TrimSuffix(u.Path, "/")
	segment := path[strings.LastIndex(path, "/")+1:]

	digits, ok := strings.CutPrefix(segment, "page-")
	if !ok {
		return 0, errors.Newf(errors.ErrorTypeScraping, "resolved location %q has no page segment", u)
	}

	page, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return 0, errors.Newf(errors.ErrorTypeScraping, "resolved location %q has malformed page segment", u)
	}

	return uint32(page), nil
}
