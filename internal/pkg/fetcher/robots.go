package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/temoto/robotstxt"
)

// robotsTxtPath is the well-known path for robots.txt files.
const robotsTxtPath = "/robots.txt"

// maxRobotsBodyBytes limits the size of robots.txt responses we will read.
const maxRobotsBodyBytes = 512 * 1024 // 512 KB

// ResolveRobotsURL returns the canonical robots.txt location for the URL's
// origin. Pure URL transformation; no network call happens here.
func ResolveRobotsURL(rawURL string) (string, error) {
	parsedURL, err := parseAbsoluteURL(rawURL)
	if err != nil {
		return "", err
	}
	return parsedURL.Scheme + "://" + parsedURL.Host + robotsTxtPath, nil
}

// Policy is the parsed representation of a site's robots.txt document.
// Immutable after construction and scoped to a single evaluation.
type Policy struct {
	data *robotstxt.RobotsData
}

// ParsePolicy parses raw robots.txt text into a queryable Policy.
func ParsePolicy(body []byte) (*Policy, error) {
	data, err := robotstxt.FromBytes(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPolicyParse, err)
	}
	return &Policy{data: data}, nil
}

// Allowed reports whether the agent may fetch the URL. Rules scoped to the
// agent override wildcard rules, the most specific matching path pattern
// wins, and a URL no rule matches is allowed by default.
func (p *Policy) Allowed(agent, rawURL string) bool {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	path := parsedURL.Path
	if path == "" {
		path = "/"
	}
	return p.data.TestAgent(path, agent)
}

// CrawlDelay returns the Crawl-delay directive for the agent's rule group,
// or zero when none is set.
func (p *Policy) CrawlDelay(agent string) time.Duration {
	group := p.data.FindGroup(agent)
	if group == nil {
		return 0
	}
	return group.CrawlDelay
}

// RobotsAllowed retrieves the site's robots.txt and reports whether this
// client's agent may fetch the URL. A robots.txt that cannot be retrieved
// (network error, non-success status) means the site is treated as having
// no restrictions; a retrieved document that cannot be parsed is an error.
func (c *Client) RobotsAllowed(ctx context.Context, rawURL string) (bool, error) {
	robotsURL, err := ResolveRobotsURL(rawURL)
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		// Assume allow all
		return true, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// Assume allow all
		return true, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsBodyBytes))
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return true, nil
	}

	policy, err := ParsePolicy(body)
	if err != nil {
		return false, err
	}
	return policy.Allowed(c.userAgent, rawURL), nil
}
