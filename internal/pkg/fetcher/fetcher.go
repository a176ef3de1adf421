package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
)

const (
	// requestTimeout bounds every outbound request so a call can never hang.
	requestTimeout = 15 * time.Second

	// maxBodyBytes caps how much of a page body is read.
	maxBodyBytes = 4 << 20 // 4 MB
)

// Client issues GET requests identified by a fixed user agent string.
// The same agent is used for robots.txt retrieval and page fetches, so the
// agent that checks the policy is the agent the policy was checked for.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// Creates a Client with the package's default timeout and transport settings.
func NewClient(userAgent string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
			},
		},
		userAgent: userAgent,
	}
}

// FetchPage issues one GET request for the URL and returns the response body
// decoded to UTF-8 text. No retries; redirects follow the transport default.
func (c *Client) FetchPage(ctx context.Context, rawURL string) (string, error) {
	parsedURL, err := parseAbsoluteURL(rawURL)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsedURL.String(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", &HTTPError{StatusCode: resp.StatusCode}
	}

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: failed to read response body: %w", ErrNetwork, err)
	}

	return decodeBody(bodyBytes, resp.Header.Get("Content-Type"))
}

// Decodes a response body to UTF-8 using the Content-Type header and
// content sniffing to determine the source encoding.
func decodeBody(body []byte, contentType string) (string, error) {
	enc, _, _ := charset.DetermineEncoding(body, contentType)
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		// Sniffing can misfire; accept the body as-is when it is valid UTF-8.
		if !utf8.Valid(body) {
			return "", fmt.Errorf("%w: %w", ErrDecode, err)
		}
		decoded = body
	}
	return string(decoded), nil
}

// Parses rawURL and verifies it is absolute with a scheme and host.
func parseAbsoluteURL(rawURL string) (*url.URL, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}
	return parsedURL, nil
}
