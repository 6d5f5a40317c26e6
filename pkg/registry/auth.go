package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

// Challenge is a parsed Www-Authenticate bearer challenge.
type Challenge struct {
	// Realm is the token-issuing endpoint URL.
	Realm string

	// Service is the service the token should be issued for.
	Service string

	// Scope is the resource/action string the token should grant.
	Scope string
}

var challengeRegex = regexp.MustCompile(`^Bearer\s+realm="(.+)",service="(.+)",scope="(.+)"`)

// ParseChallenge parses a bearer challenge header value such as
//
//	Bearer realm="https://auth.example.com/token",service="registry.example.com",scope="repository:library/ubuntu:pull"
//
// Only the first comma-separated scope token is honored.
func ParseChallenge(header string) (Challenge, error) {
	match := challengeRegex.FindStringSubmatch(header)
	if match == nil {
		return Challenge{}, fmt.Errorf("%w: %q", ErrChallengeMalformed, header)
	}

	return Challenge{
		Realm:   match[1],
		Service: match[2],
		Scope:   strings.SplitN(match[3], ",", 2)[0],
	}, nil
}

// tokenURL builds the token issuance URL for a challenge. Values are
// concatenated as-is: challenge components must already be safe for
// direct use in a query string.
func (c *Client) tokenURL(ch Challenge) string {
	return fmt.Sprintf("%s?service=%s&expires_in=%d&scope=%s",
		ch.Realm, ch.Service, c.opts.TokenExpirySeconds, ch.Scope)
}

// refreshAuth exchanges the challenge carried on a 401 response for a
// fresh bearer token and overwrites Authorization in headers.
func (c *Client) refreshAuth(ctx context.Context, code int, challengeHeader string, headers Headers) error {
	if code != http.StatusUnauthorized || challengeHeader == "" {
		return ErrChallengeMissing
	}

	ch, err := ParseChallenge(challengeHeader)
	if err != nil {
		return err
	}

	// The token endpoint is queried without credentials.
	resp, err := c.do(ctx, http.MethodGet, c.tokenURL(ch), nil, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTokenFetch, err)
	}
	if resp.Code != http.StatusOK {
		return fmt.Errorf("%w: token endpoint returned %v", ErrTokenFetch, resp.Code)
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp.Body, &result); err != nil || result.Token == "" {
		return fmt.Errorf("%w: no token in response", ErrTokenFetch)
	}

	headers[headerAuthorization] = "Bearer " + result.Token
	return nil
}
