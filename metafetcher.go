// Package metafetcher grabs website metadata for a single URL; useful for
// tasks like generating link previews. It first looks for a site's Open
// Graph Protocol (OGP) metadata and falls back to the standard HTML tags.
// When no metadata is found the missing field is nil, not an error. The
// package respects a site's robots.txt file: FetchMetadata refuses to
// retrieve a page the site's policy forbids for this agent.
//
// Every call is independent and synchronous; nothing is cached between
// calls. Callers needing concurrency fan out with goroutines.
package metafetcher

import (
	"context"
	"fmt"

	"metafetcher/internal/pkg/extractor"
	"metafetcher/internal/pkg/fetcher"
	"metafetcher/internal/pkg/types"
)

// UserAgent identifies this fetcher in HTTP requests and is the agent
// matched against robots.txt rules. Deliberately not configurable: the
// agent that checks the policy must be the agent that fetches.
const UserAgent = "MetaFetcher/1.0"

// Metadata is the link-preview metadata of a webpage. A nil field means
// the page carried no matching tag.
type Metadata = types.Metadata

// NewMetadata creates a Metadata record with the given title, description
// and image. Handy for constructing expected values in tests.
func NewMetadata(title, description, image *string) Metadata {
	return types.New(title, description, image)
}

// Error kinds surfaced by FetchMetadata and FetchMetadataUnchecked.
// Match them with errors.Is, and HTTPError with errors.As.
var (
	ErrInvalidURL         = fetcher.ErrInvalidURL
	ErrNetwork            = fetcher.ErrNetwork
	ErrDecode             = fetcher.ErrDecode
	ErrPolicyParse        = fetcher.ErrPolicyParse
	ErrCrawlingDisallowed = fetcher.ErrCrawlingDisallowed
)

// HTTPError reports a non-success status code from the page fetch.
type HTTPError = fetcher.HTTPError

// The http.Client inside is safe for concurrent use and carries no
// per-call state, so one client serves every call.
var defaultClient = fetcher.NewClient(UserAgent)

// FetchMetadata fetches the metadata for the URL after checking the site's
// robots.txt. When the policy forbids the URL for this agent it returns
// ErrCrawlingDisallowed without touching the page; when the policy cannot
// be retrieved at all the site is treated as having no restrictions.
func FetchMetadata(ctx context.Context, rawURL string) (Metadata, error) {
	allowed, err := defaultClient.RobotsAllowed(ctx, rawURL)
	if err != nil {
		return Metadata{}, err
	}
	if !allowed {
		return Metadata{}, fmt.Errorf("%w: %s", ErrCrawlingDisallowed, rawURL)
	}
	return FetchMetadataUnchecked(ctx, rawURL)
}

// FetchMetadataUnchecked fetches the metadata for the URL without the
// robots.txt check. Callers choosing this path accept responsibility for
// policy compliance themselves.
func FetchMetadataUnchecked(ctx context.Context, rawURL string) (Metadata, error) {
	body, err := defaultClient.FetchPage(ctx, rawURL)
	if err != nil {
		return Metadata{}, err
	}
	return extractor.Extract(body), nil
}
