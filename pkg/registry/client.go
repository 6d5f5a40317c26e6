// Package registry implements a resilient download client for
// registries that use the Docker Registry v2 bearer token scheme.
package registry

import (
	"net/http"

	"github.com/rs/zerolog"

	reghttp "github.com/singularityhub/layerfetch/pkg/http"
	"github.com/singularityhub/layerfetch/pkg/progress"
	"github.com/singularityhub/layerfetch/pkg/stats"
)

const (
	headerChallenge     = "Www-Authenticate"
	headerAuthorization = "Authorization"
	headerContentLength = "Content-Length"
	headerContentType   = "Content-Type"
)

// Headers is a mutable header map threaded through a call chain.
// Refreshing authentication overwrites the Authorization key.
type Headers map[string]string

// Options configures a Client.
type Options struct {
	// Insecure disables TLS certificate verification. A warning is
	// logged on every round trip.
	Insecure bool

	// Progress receives streaming download progress. Defaults to
	// progress.Discard.
	Progress progress.Reporter

	// BarWidth is the progress bar width in characters. Defaults to
	// progress.DefaultWidth.
	BarWidth int

	// TokenExpirySeconds is the expiry requested for bearer tokens.
	// Defaults to 900.
	TokenExpirySeconds int
}

// Client fetches remote artifacts with bearer token authentication.
// Methods are safe for concurrent use as long as each call operates
// on a distinct destination path.
type Client struct {
	client *http.Client
	opts   Options
	obs    *stats.Observations
	logger zerolog.Logger
}

// NewClient creates a Client.
func NewClient(opts Options, logger zerolog.Logger) *Client {
	if opts.Progress == nil {
		opts.Progress = progress.Discard{}
	}
	if opts.BarWidth <= 0 {
		opts.BarWidth = progress.DefaultWidth
	}
	if opts.TokenExpirySeconds <= 0 {
		opts.TokenExpirySeconds = 900
	}

	obs := &stats.Observations{}

	return &Client{
		// No client-level timeout: a hung transfer is bounded only by
		// the request context or the external queue's own policy.
		client: &http.Client{
			Transport: reghttp.NewTransport(opts.Insecure, obs, logger),
		},
		opts:   opts,
		obs:    obs,
		logger: logger,
	}
}

// Logs returns all round trips made by the client, marshaled as JSON.
func (c *Client) Logs() (string, error) {
	return c.obs.Marshal()
}
