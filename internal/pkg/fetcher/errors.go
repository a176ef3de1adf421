package fetcher

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidURL is returned for input that is not an absolute URL with a
	// scheme and host. It is reported before any network activity happens.
	ErrInvalidURL = errors.New("invalid url")

	// ErrNetwork is returned when the target host could not be reached.
	ErrNetwork = errors.New("network error")

	// ErrDecode is returned when a response body could not be decoded as text.
	ErrDecode = errors.New("undecodable response body")

	// ErrPolicyParse is returned when a retrieved robots.txt file could not
	// be interpreted. Distinct from a failed retrieval, which is treated as
	// the site having no restrictions.
	ErrPolicyParse = errors.New("unparseable robots.txt")

	// ErrCrawlingDisallowed is returned when a site's robots.txt forbids
	// fetching the requested URL for this agent.
	ErrCrawlingDisallowed = errors.New("crawling disallowed by robots.txt")
)

// HTTPError reports a non-success status code from the page fetch.
type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("received non-success response code: %d", e.StatusCode)
}
