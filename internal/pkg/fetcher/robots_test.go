package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const testAgent = "TestFetcher/1.0"

// Derives the well-known robots.txt location from a page URL.
func TestResolveRobotsURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"http://example.com", "http://example.com/robots.txt"},
		{"http://example.com/some/deep/page?q=1#frag", "http://example.com/robots.txt"},
		{"https://example.com:8443/page", "https://example.com:8443/robots.txt"},
	}
	for _, tc := range cases {
		got, err := ResolveRobotsURL(tc.in)
		if err != nil {
			t.Fatalf("ResolveRobotsURL(%q) returned error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ResolveRobotsURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

// Malformed input fails with ErrInvalidURL; resolution never touches the network.
func TestResolveRobotsURLInvalid(t *testing.T) {
	for _, rawURL := range []string{"", "hi there", "example.com", "//missing-scheme.com"} {
		_, err := ResolveRobotsURL(rawURL)
		if !errors.Is(err, ErrInvalidURL) {
			t.Errorf("ResolveRobotsURL(%q): expected ErrInvalidURL, got %v", rawURL, err)
		}
	}
}

// Rules scoped to the specific agent override wildcard rules.
func TestPolicyAgentPrecedence(t *testing.T) {
	policy, err := ParsePolicy([]byte(
		"User-agent: *\nDisallow: /\n\nUser-agent: TestFetcher\nDisallow: /private/\n"))
	if err != nil {
		t.Fatalf("ParsePolicy returned error: %v", err)
	}

	if !policy.Allowed(testAgent, "http://example.com/public/page") {
		t.Error("expected agent-specific group to allow /public/page despite wildcard disallow")
	}
	if policy.Allowed(testAgent, "http://example.com/private/secret") {
		t.Error("expected agent-specific group to disallow /private/secret")
	}
	if policy.Allowed("OtherBot/2.0", "http://example.com/public/page") {
		t.Error("expected wildcard group to disallow everything for other agents")
	}
}

// Among applicable rules the most specific matching path pattern wins.
func TestPolicyPathSpecificity(t *testing.T) {
	policy, err := ParsePolicy([]byte(
		"User-agent: *\nDisallow: /\nAllow: /public/\n"))
	if err != nil {
		t.Fatalf("ParsePolicy returned error: %v", err)
	}

	if !policy.Allowed(testAgent, "http://example.com/public/page") {
		t.Error("expected longer Allow pattern to win over Disallow: /")
	}
	if policy.Allowed(testAgent, "http://example.com/elsewhere") {
		t.Error("expected Disallow: / to apply outside /public/")
	}
}

// A URL no rule matches is allowed by default.
func TestPolicyDefaultAllow(t *testing.T) {
	policy, err := ParsePolicy([]byte("User-agent: *\nDisallow: /private/\n"))
	if err != nil {
		t.Fatalf("ParsePolicy returned error: %v", err)
	}
	if !policy.Allowed(testAgent, "http://example.com/") {
		t.Error("expected the site root to be allowed by default")
	}
}

// Crawl-delay comes back from the agent's rule group, zero when unset.
func TestPolicyCrawlDelay(t *testing.T) {
	policy, err := ParsePolicy([]byte("User-agent: *\nCrawl-delay: 5\nDisallow: /private/\n"))
	if err != nil {
		t.Fatalf("ParsePolicy returned error: %v", err)
	}
	if delay := policy.CrawlDelay(testAgent); delay != 5*time.Second {
		t.Errorf("expected crawl delay 5s, got %v", delay)
	}

	policy, err = ParsePolicy([]byte("User-agent: *\nDisallow: /private/\n"))
	if err != nil {
		t.Fatalf("ParsePolicy returned error: %v", err)
	}
	if delay := policy.CrawlDelay(testAgent); delay != 0 {
		t.Errorf("expected zero crawl delay, got %v", delay)
	}
}

// Serves the given robots.txt body for every request.
func newRobotsServer(t *testing.T, robotsTxt string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(robotsTxt))
	}))
}

func TestRobotsAllowed(t *testing.T) {
	server := newRobotsServer(t, "User-agent: *\nDisallow: /private/\n")
	defer server.Close()

	client := NewClient(testAgent)

	allowed, err := client.RobotsAllowed(context.Background(), server.URL+"/public/page")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed {
		t.Error("expected /public/page to be allowed")
	}

	allowed, err = client.RobotsAllowed(context.Background(), server.URL+"/private/secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if allowed {
		t.Error("expected /private/secret to be disallowed")
	}
}

// A robots.txt that comes back with a non-success status means no restrictions.
func TestRobotsAllowedNonSuccessStatus(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusInternalServerError} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		client := NewClient(testAgent)
		allowed, err := client.RobotsAllowed(context.Background(), server.URL+"/any/path")
		server.Close()
		if err != nil {
			t.Fatalf("status %d: unexpected error: %v", status, err)
		}
		if !allowed {
			t.Errorf("status %d: expected allow-all", status)
		}
	}
}

// A robots.txt that cannot be retrieved at all means no restrictions.
func TestRobotsAllowedRetrievalFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	serverURL := server.URL
	server.Close()

	client := NewClient(testAgent)
	allowed, err := client.RobotsAllowed(context.Background(), serverURL+"/any/path")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed {
		t.Error("expected allow-all when robots.txt is unreachable")
	}
}

// Cancellation aborts the robots check instead of defaulting to allowed.
func TestRobotsAllowedCancelled(t *testing.T) {
	server := newRobotsServer(t, "User-agent: *\nDisallow: /\n")
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(testAgent)
	_, err := client.RobotsAllowed(ctx, server.URL+"/page")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

// The robots request identifies itself with the client's agent string.
func TestRobotsAllowedSendsUserAgent(t *testing.T) {
	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("User-agent: *\nAllow: /\n"))
	}))
	defer server.Close()

	client := NewClient(testAgent)
	if _, err := client.RobotsAllowed(context.Background(), server.URL+"/page"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAgent != testAgent {
		t.Errorf("expected User-Agent %q on robots request, got %q", testAgent, gotAgent)
	}
}
